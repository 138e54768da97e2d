// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type memStore struct {
	token string
}

func (m *memStore) SaveToken(token string) error { m.token = token; return nil }
func (m *memStore) LoadToken() (string, error)   { return m.token, nil }
func (m *memStore) ClearToken() error            { m.token = ""; return nil }

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestSessionNoTokenNeverValid(t *testing.T) {
	s := New(&memStore{})
	if s.Valid() {
		t.Error("empty session reported valid")
	}
	if s.Token() != "" {
		t.Errorf("Token() = %q, want empty", s.Token())
	}
}

func TestSessionExpiredTokenInvalid(t *testing.T) {
	s := New(&memStore{})
	tok := signedToken(t, "demo", time.Now().Add(-time.Hour))
	if err := s.SetToken(tok); err != nil {
		t.Fatalf("SetToken error: %v", err)
	}
	if s.Token() == "" {
		t.Fatal("token string should still be present")
	}
	if s.Valid() {
		t.Error("session with expired token reported valid")
	}
}

func TestSessionLiveTokenValid(t *testing.T) {
	s := New(&memStore{})
	if err := s.SetToken(signedToken(t, "demo", time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("SetToken error: %v", err)
	}
	if !s.Valid() {
		t.Error("session with live token reported invalid")
	}
	if got := s.Username(); got != "demo" {
		t.Errorf("Username() = %q, want %q", got, "demo")
	}
}

func TestSessionOpaqueTokenValidUntilRejected(t *testing.T) {
	s := New(&memStore{})
	if err := s.SetToken("not-a-jwt"); err != nil {
		t.Fatalf("SetToken error: %v", err)
	}
	if !s.Valid() {
		t.Error("token without parsable expiry should count as valid")
	}
	if !s.Expiry().IsZero() {
		t.Errorf("Expiry() = %v, want zero", s.Expiry())
	}
}

func TestSessionPersistsAcrossInstances(t *testing.T) {
	store := &memStore{}
	first := New(store)
	if err := first.SetToken(signedToken(t, "demo", time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("SetToken error: %v", err)
	}

	second := New(store)
	if !second.Valid() {
		t.Error("persisted token not restored")
	}
}

func TestSessionClear(t *testing.T) {
	store := &memStore{}
	s := New(store)
	if err := s.SetToken(signedToken(t, "demo", time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("SetToken error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if s.Valid() || s.Token() != "" || store.token != "" {
		t.Error("Clear left session state behind")
	}
}
