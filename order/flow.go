package order

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// quantityRe accepts digit-only messages as quantity attempts.
var quantityRe = regexp.MustCompile(`^\d+$`)

// Reply is a single outbound message produced by the flow. The transport
// renders ShowFormats as the format selection keyboard and ShowOrderButton as
// the begin-order button.
type Reply struct {
	Text            string
	ShowFormats     []string
	ShowOrderButton bool
}

// Result carries the flow's outbound replies and, on completion, the finished
// order record. Record is nil for every event except a successful
// CompleteSignal.
type Result struct {
	Replies []Reply
	Record  *Record
}

// Flow dispatches inbound events to the per-user session machine: it looks up
// the session, validates the event against the current state, persists the
// mutation back to the store, and surfaces any completed record. It carries no
// business logic beyond routing and the guards themselves.
type Flow struct {
	catalog *Catalog
	store   *Store
	done    string
}

// NewFlow wires the flow with its catalog, session store, and completion word.
func NewFlow(catalog *Catalog, store *Store, doneToken string) *Flow {
	return &Flow{
		catalog: catalog,
		store:   store,
		done:    strings.ToLower(strings.TrimSpace(doneToken)),
	}
}

// DoneToken returns the configured completion word.
func (f *Flow) DoneToken() string {
	return f.done
}

// MatchesDone reports whether the text is the completion word, ignoring case
// and surrounding whitespace.
func (f *Flow) MatchesDone(text string) bool {
	return strings.ToLower(strings.TrimSpace(text)) == f.done
}

// Handle processes one inbound event. Guard failures are not errors: they
// leave state unchanged and come back as guidance replies. The only error case
// is a format missing from the catalog, which means broken wiring.
func (f *Flow) Handle(ev Event) (Result, error) {
	switch e := ev.(type) {
	case StartCommand:
		return Result{Replies: []Reply{{Text: msgGreeting, ShowOrderButton: true}}}, nil

	case BeginOrder:
		return Result{Replies: []Reply{{Text: msgChooseFormat, ShowFormats: f.catalog.Formats()}}}, nil

	case SelectFormat:
		return f.selectFormat(e)

	case QuantityText:
		return f.quantityText(e)

	case PhotoAttachment:
		return f.photo(e)

	case CompleteSignal:
		return f.complete(e)

	default:
		return Result{}, fmt.Errorf("flow: unsupported event %T", ev)
	}
}

// selectFormat creates a fresh session, overwriting any in-progress one.
// Quantity and photos already collected are discarded: re-selecting a format
// restarts the order (last write wins).
func (f *Flow) selectFormat(e SelectFormat) (Result, error) {
	price, err := f.catalog.PriceOf(e.Format)
	if err != nil {
		return Result{}, fmt.Errorf("flow: select format: %w", err)
	}
	f.store.Upsert(NewSession(e.User.ID, e.User.Username, e.Format, price))
	return Result{Replies: []Reply{{Text: msgFormatChosen(e.Format, price)}}}, nil
}

// quantityText applies a quantity attempt. Numeric text is accepted whenever a
// session exists, regardless of the current step; without a session the user
// is pointed back to format selection.
func (f *Flow) quantityText(e QuantityText) (Result, error) {
	var reply Reply
	f.store.Update(e.User.ID, func(sess *Session) *Session {
		if sess == nil {
			reply = Reply{Text: msgSelectFormatFirst}
			return nil
		}
		n, ok := parseQuantity(e.Text)
		if !ok {
			// Rejection re-issues the prompt for the current step and
			// leaves the session untouched.
			if sess.State == StateAwaitingPhotos {
				reply = Reply{Text: msgAwaitingPhotos(f.done)}
			} else {
				reply = Reply{Text: msgQuantityPrompt}
			}
			return sess
		}
		if err := sess.SetQuantity(n); err != nil {
			reply = Reply{Text: msgQuantityPrompt}
			return sess
		}
		reply = Reply{Text: msgQuantityAccepted(sess.Quantity, sess.Total)}
		return sess
	})
	return Result{Replies: []Reply{reply}}, nil
}

// photo appends an attachment while collecting photos. Photos arriving before
// the quantity step is done are rejected with guidance and not buffered.
func (f *Flow) photo(e PhotoAttachment) (Result, error) {
	var reply Reply
	f.store.Update(e.User.ID, func(sess *Session) *Session {
		if sess == nil {
			reply = Reply{Text: msgPhotoTooEarly}
			return nil
		}
		if err := sess.AddAttachment(e.FileID); err != nil {
			reply = Reply{Text: msgPhotoTooEarly}
			return sess
		}
		reply = Reply{Text: msgPhotoAdded(f.done)}
		return sess
	})
	return Result{Replies: []Reply{reply}}, nil
}

// complete consumes the session and emits the record. The session is removed
// before anything downstream runs; persistence and notification failures do
// not resurrect it.
func (f *Flow) complete(e CompleteSignal) (Result, error) {
	var (
		reply Reply
		rec   *Record
	)
	f.store.Update(e.User.ID, func(sess *Session) *Session {
		if sess == nil {
			reply = Reply{Text: msgNoActiveOrder}
			return nil
		}
		r, err := sess.Complete()
		if err != nil {
			// A format is chosen but no quantity yet; keep the session
			// and repeat the quantity prompt.
			reply = Reply{Text: msgQuantityPrompt}
			return sess
		}
		rec = &r
		return nil
	})
	if rec != nil {
		return Result{Record: rec}, nil
	}
	return Result{Replies: []Reply{reply}}, nil
}

func parseQuantity(text string) (int, bool) {
	s := strings.TrimSpace(text)
	if !quantityRe.MatchString(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
