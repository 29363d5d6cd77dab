package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session"

type session struct {
	admin     AdminIdentity
	expiresAt time.Time
}

// SessionStore holds active admin sessions in memory. Tokens are opaque
// UUIDs; a session disappears on logout, on expiry, or when the process
// restarts.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions live for ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create opens a session for the admin and returns its token.
func (s *SessionStore) Create(admin AdminIdentity) string {
	token := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{admin: admin, expiresAt: s.now().Add(s.ttl)}
	return token
}

// Lookup resolves a token to its admin, pruning the session when expired.
func (s *SessionStore) Lookup(token string) (AdminIdentity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return AdminIdentity{}, false
	}
	if s.now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return AdminIdentity{}, false
	}
	return sess.admin, true
}

// Delete closes the session for the token, if it exists.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
