// Package session owns the bearer token and its durable copy.
package session

import (
	"fmt"
	"sync"

	"golang.org/x/oauth2"
)

// Session holds the process-wide bearer token. The zero token means
// unauthenticated. Every change is persisted before it returns.
type Session struct {
	mu    sync.RWMutex
	token string
	store Store
}

// New restores a session from store.
func New(store Store) (*Session, error) {
	token, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &Session{token: token, store: store}, nil
}

// Token returns the current token, or "" when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Set persists token and makes it current. If the durable write fails the
// in-memory token is left unchanged.
func (s *Session) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(token); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.token = token
	return nil
}

// Clear drops the token. The in-memory token is always cleared, even when
// removing the durable copy fails.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if err := s.store.Delete(); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// TokenSource exposes the session to oauth2.Transport. Each call returns
// whatever token is current at that moment, so requests issued after a
// login or logout pick up the change.
func (s *Session) TokenSource() oauth2.TokenSource {
	return tokenSource{s}
}

type tokenSource struct{ s *Session }

func (ts tokenSource) Token() (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: ts.s.Token(), TokenType: "Bearer"}, nil
}
