// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session tracks the CLI's authentication state across invocations.
//
// A session moves through NoToken -> Authenticated -> (Expired | LoggedOut).
// Expiry is advisory only: it comes from the token's exp claim decoded
// without signature verification, so the server remains the authority.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Store persists the raw access token between CLI invocations.
type Store interface {
	SaveToken(token string) error
	LoadToken() (string, error)
	ClearToken() error
}

// Session holds the current access token and its advisory expiry.
type Session struct {
	mu     sync.RWMutex
	store  Store
	token  string
	expiry time.Time
	user   string
}

// New creates a session backed by the given store and loads any
// previously persisted token. A store load failure leaves the session
// unauthenticated rather than failing.
func New(store Store) *Session {
	s := &Session{store: store}
	if store != nil {
		if tok, err := store.LoadToken(); err == nil && tok != "" {
			s.adopt(tok)
		}
	}
	return s
}

// SetToken records a fresh token from a login response and persists it.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adoptLocked(token)
	if s.store != nil {
		return s.store.SaveToken(token)
	}
	return nil
}

// Token returns the current access token, or "" when not authenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Username returns the subject claim of the current token, if any.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Valid reports whether the session holds a token that has not passed
// its advisory expiry. A token without a parsable exp claim counts as
// valid until the server rejects it.
func (s *Session) Valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return false
	}
	if s.expiry.IsZero() {
		return true
	}
	return time.Now().Before(s.expiry)
}

// Expiry returns the advisory expiry, zero when unknown.
func (s *Session) Expiry() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiry
}

// Clear drops the token, both in memory and in the store. Used on
// explicit logout and on any 401 from the backend.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiry = time.Time{}
	s.user = ""
	if s.store != nil {
		return s.store.ClearToken()
	}
	return nil
}

func (s *Session) adopt(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adoptLocked(token)
}

func (s *Session) adoptLocked(token string) {
	s.token = token
	s.expiry = time.Time{}
	s.user = ""
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.expiry = exp.Time
	}
	if sub, err := claims.GetSubject(); err == nil {
		s.user = sub
	}
}
