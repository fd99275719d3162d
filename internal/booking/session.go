package booking

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or discarded session ids.
var ErrSessionNotFound = errors.New("selection session not found")

// Session is a server-side selection for one customer on one calendar.
type Session struct {
	ID        string
	Owner     string // user the session belongs to
	Cal       Slots
	Selector  *Selector
	CreatedAt time.Time
	LastSeen  time.Time // bumped by every Get, guarded by the store lock
}

// SessionStore keeps selection sessions in memory.  Sessions never touch
// the calendar until checkout, so dropping one abandons it cleanly.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session), now: time.Now}
}

// Open starts a new empty selection for owner against cal.
func (st *SessionStore) Open(owner string, cal Slots, platformFee int64) *Session {
	now := st.now()
	s := &Session{
		ID:        uuid.NewString(),
		Owner:     owner,
		Cal:       cal,
		Selector:  NewSelector(cal, platformFee),
		CreatedAt: now,
		LastSeen:  now,
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get looks a session up by id and marks it as active.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.LastSeen = st.now()
	return s, nil
}

// Discard drops a session and reports whether it existed.
func (st *SessionStore) Discard(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

// Sweep discards sessions that have not been used for maxAge and returns
// how many were dropped.
func (st *SessionStore) Sweep(maxAge time.Duration) int {
	cutoff := st.now().Add(-maxAge)
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, s := range st.sessions {
		if s.LastSeen.Before(cutoff) {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
