package order

import "sync"

// Store keeps in-progress sessions keyed by user id. Every read-modify-write
// against a user's session runs under the store lock via Update, so events for
// the same user are serialized. Critical sections are purely in-memory; all
// I/O happens after the session has left the store.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewStore constructs an empty in-memory session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Upsert stores the session for its user, overwriting any previous one.
// Overwriting discards quantity and attachments already collected; re-selecting
// a format restarts the order on purpose (last write wins).
func (s *Store) Upsert(sess *Session) {
	if sess == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.UserID] = sess
}

// Get returns the session for a user if it exists.
func (s *Store) Get(userID int64) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// Take removes and returns the session for a user in a single step, so
// concurrent completion signals for the same user cannot both win.
func (s *Store) Take(userID int64) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if ok {
		delete(s.sessions, userID)
	}
	return sess, ok
}

// Update runs fn with the user's current session (nil if absent) while holding
// the store lock. fn returns the session to keep; returning nil removes it.
func (s *Store) Update(userID int64, fn func(sess *Session) *Session) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(s.sessions[userID])
	if next == nil {
		delete(s.sessions, userID)
		return
	}
	s.sessions[userID] = next
}

// Len reports the number of active sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
