// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth issues and verifies the server's access tokens.
package auth

import (
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"

	ierr "wosool/insight/internal/errors"
)

// TokenTTL is the lifetime of an issued access token.
const TokenTTL = 8 * time.Hour

// Authenticator verifies credentials and mints JWTs for the HTTP surface.
type Authenticator struct {
	secret   []byte
	username string
	password string
}

// New builds an Authenticator with a single seeded user.
func New(secret, username, password string) *Authenticator {
	return &Authenticator{secret: []byte(secret), username: username, password: password}
}

// Login checks credentials and returns a signed access token.
func (a *Authenticator) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !userOK || !passOK {
		return "", ierr.New(ierr.Unauthorized, "invalid username or password")
	}

	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(TokenTTL).Unix(),
	})
	signed, err := tok.SignedString(a.secret)
	if err != nil {
		return "", ierr.Wrap(ierr.Unauthorized, "signing access token", err)
	}
	return signed, nil
}

// Verify validates a token's signature and expiry and returns its subject.
func (a *Authenticator) Verify(tokenString string) (string, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return "", ierr.New(ierr.Unauthorized, "invalid or expired token")
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ierr.New(ierr.Unauthorized, "token has no subject")
	}
	return sub, nil
}
