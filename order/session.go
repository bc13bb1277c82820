package order

import "errors"

// State identifies a step of the order conversation.
type State int

const (
	// StateAwaitingFormat means no format has been chosen yet. Sessions in
	// the store never carry this state: a session is only created once a
	// format is selected, so "awaiting format" equals "no session".
	StateAwaitingFormat State = iota
	// StateAwaitingQuantity means a format is chosen and the bot expects a
	// positive integer quantity.
	StateAwaitingQuantity
	// StateAwaitingPhotos means quantity is set and the bot is collecting
	// reference photos until the completion word arrives.
	StateAwaitingPhotos
)

// String implements fmt.Stringer for log output.
func (s State) String() string {
	switch s {
	case StateAwaitingFormat:
		return "awaiting_format"
	case StateAwaitingQuantity:
		return "awaiting_quantity"
	case StateAwaitingPhotos:
		return "awaiting_photos"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidQuantity rejects non-positive quantities.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrNotCollectingPhotos rejects attachments outside the photo step.
	ErrNotCollectingPhotos = errors.New("session is not collecting photos")
	// ErrNotComplete rejects completion before a quantity is set.
	ErrNotComplete = errors.New("session has no quantity yet")
)

// Session tracks a single user's in-progress order. It lives only in memory,
// keyed by the Telegram user id, until it is completed or overwritten by a
// fresh format selection. Quantity and Total are meaningful only from
// StateAwaitingPhotos on.
type Session struct {
	UserID      int64
	Username    string
	State       State
	Format      string
	UnitPrice   int
	Quantity    int
	Total       int
	Attachments []string
}

// NewSession creates a session for a freshly selected format. The session
// starts at the quantity step.
func NewSession(userID int64, username, format string, unitPrice int) *Session {
	return &Session{
		UserID:    userID,
		Username:  username,
		State:     StateAwaitingQuantity,
		Format:    format,
		UnitPrice: unitPrice,
	}
}

// SetQuantity applies a quantity attempt and derives the total. A quantity is
// accepted whenever the session exists, also re-entering the photo step from
// StateAwaitingPhotos: the customer may correct the amount mid-collection.
func (s *Session) SetQuantity(n int) error {
	if n <= 0 {
		return ErrInvalidQuantity
	}
	s.Quantity = n
	s.Total = s.UnitPrice * n
	s.State = StateAwaitingPhotos
	return nil
}

// AddAttachment appends a photo reference. Attachments keep arrival order.
func (s *Session) AddAttachment(fileID string) error {
	if s.State != StateAwaitingPhotos {
		return ErrNotCollectingPhotos
	}
	s.Attachments = append(s.Attachments, fileID)
	return nil
}

// Complete produces the immutable order record. Zero attachments are valid:
// no minimum photo count is enforced.
func (s *Session) Complete() (Record, error) {
	if s.State != StateAwaitingPhotos {
		return Record{}, ErrNotComplete
	}
	fileIDs := make([]string, len(s.Attachments))
	copy(fileIDs, s.Attachments)
	return Record{
		UserID:   s.UserID,
		Username: s.Username,
		Quantity: s.Quantity,
		Format:   s.Format,
		Total:    s.Total,
		FileIDs:  fileIDs,
	}, nil
}
