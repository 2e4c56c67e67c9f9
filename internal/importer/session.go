package importer

// session.go holds parsed + validated imports between the preview and
// confirm requests. The row set lives server-side, keyed by an opaque
// session id, so confirm never re-parses or re-validates the upload.

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("import session not found or expired")

// ErrSessionInProgress is returned when a session is confirmed twice.
var ErrSessionInProgress = errors.New("import session already being executed")

// DefaultSessionTTL is how long an unconfirmed preview is kept.
const DefaultSessionTTL = 30 * time.Minute

// Session is one upload awaiting confirmation.
type Session struct {
	ID        string
	FileName  string
	Uploader  string
	Rows      []*ImportRow
	CreatedAt time.Time

	claimed bool
}

// ValidCount returns the number of rows that passed validation.
func (s *Session) ValidCount() int {
	n := 0
	for _, row := range s.Rows {
		if row.Status == RowValid {
			n++
		}
	}
	return n
}

// SessionStore is an in-memory, TTL-evicted session registry.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	done     chan struct{}
}

// NewSessionStore creates a store and starts its eviction janitor.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	st := &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go st.janitor()
	return st
}

// Put stores a new session and returns its id.
func (st *SessionStore) Put(fileName, uploader string, rows []*ImportRow) *Session {
	sess := &Session{
		ID:        uuid.New().String(),
		FileName:  fileName,
		Uploader:  uploader,
		Rows:      rows,
		CreatedAt: time.Now(),
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	return sess
}

// Get returns a session by id.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Claim marks a session as executing, preventing a double confirm.
// The session stays in the store until Delete so a failed execution
// can be inspected.
func (st *SessionStore) Claim(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.claimed {
		return nil, ErrSessionInProgress
	}
	sess.claimed = true
	return sess, nil
}

// Release un-claims a session after a failed execution so it can be
// retried or cancelled.
func (st *SessionStore) Release(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if sess, ok := st.sessions[id]; ok {
		sess.claimed = false
	}
}

// Delete removes a session.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Close stops the eviction janitor.
func (st *SessionStore) Close() {
	close(st.done)
}

// janitor evicts expired sessions once a minute.
func (st *SessionStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-st.done:
			return
		case <-ticker.C:
			st.evictExpired()
		}
	}
}

func (st *SessionStore) evictExpired() {
	cutoff := time.Now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	for id, sess := range st.sessions {
		if sess.CreatedAt.Before(cutoff) && !sess.claimed {
			delete(st.sessions, id)
		}
	}
}
