package order

// User identifies the sender of an inbound event. Username may be empty when
// the Telegram account has no public handle.
type User struct {
	ID       int64
	Username string
}

// Event is an inbound conversation event dispatched to the flow.
type Event interface {
	user() User
}

// StartCommand is the /start greeting request.
type StartCommand struct{ User User }

// BeginOrder is the "place an order" button press.
type BeginOrder struct{ User User }

// SelectFormat is a format keyboard press carrying the chosen format token.
type SelectFormat struct {
	User   User
	Format string
}

// QuantityText is a raw text message treated as a quantity attempt.
type QuantityText struct {
	User User
	Text string
}

// PhotoAttachment is an incoming photo identified by its file id.
type PhotoAttachment struct {
	User   User
	FileID string
}

// CompleteSignal is the completion word ending photo collection.
type CompleteSignal struct{ User User }

func (e StartCommand) user() User    { return e.User }
func (e BeginOrder) user() User      { return e.User }
func (e SelectFormat) user() User    { return e.User }
func (e QuantityText) user() User    { return e.User }
func (e PhotoAttachment) user() User { return e.User }
func (e CompleteSignal) user() User  { return e.User }
