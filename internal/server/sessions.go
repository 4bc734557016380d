package server

import (
	"sync"

	"mixtape/internal/services"
	"mixtape/internal/shared"
)

// SessionStore maps opaque bearer tokens to authenticated identities.
//
// Sessions live in process memory only; restarting the server logs
// everyone out.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]services.Identity
}

// NewSessionStore creates an empty [SessionStore].
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]services.Identity)}
}

// Issue stores the identity under a fresh token and returns the token.
func (s *SessionStore) Issue(ident services.Identity) string {
	token := shared.GenerateID()

	s.mu.Lock()
	s.sessions[token] = ident
	s.mu.Unlock()

	return token
}

// Resolve returns the identity for a token, if the session exists.
func (s *SessionStore) Resolve(token string) (services.Identity, bool) {
	s.mu.RLock()
	ident, ok := s.sessions[token]
	s.mu.RUnlock()

	return ident, ok
}

// Revoke forgets the session for a token. Unknown tokens are a no-op.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
