// Package session holds the client side of authentication: one bearer token,
// where it is kept, and whether it is still usable.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSession = errors.New("no session token")
	ErrExpired   = errors.New("session token expired")
	ErrMalformed = errors.New("session token malformed")
)

// Session is the token issued at sign-in plus the expiry embedded in it.
type Session struct {
	Token     string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// Parse decodes the exp claim of token without verifying its signature.
// The API is the only party able to verify it; locally we only need the expiry.
func Parse(token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	s := &Session{Token: token}
	if exp != nil {
		s.ExpiresAt = exp.Time
	}
	return s, nil
}

// Expired reports whether the token's exp lies strictly before now.
func (s *Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return s.ExpiresAt.Before(now)
}

// Check returns nil when s is present and unexpired at now.
func (s *Session) Check(now time.Time) error {
	if s == nil || s.Token == "" {
		return ErrNoSession
	}
	if s.Expired(now) {
		return ErrExpired
	}
	return nil
}

// Resolve parses token and checks it against now in one step.
// Any error means the caller must treat the client as signed out.
func Resolve(token string, now time.Time) (*Session, error) {
	s, err := Parse(token)
	if err != nil {
		return nil, err
	}
	err = s.Check(now)
	if err != nil {
		return nil, err
	}
	return s, nil
}
