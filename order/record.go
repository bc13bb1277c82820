package order

import "context"

// Record is the immutable snapshot of a completed session: the unit handed to
// the order sink and to the notifier.
type Record struct {
	UserID   int64
	Username string
	Quantity int
	Format   string
	Total    int
	FileIDs  []string
}

// Sink persists completed orders. Implementations must be safe for concurrent
// use; a failed save never rolls the in-memory session back (the session is
// already gone by the time the sink runs).
type Sink interface {
	Save(ctx context.Context, rec Record) error
}
