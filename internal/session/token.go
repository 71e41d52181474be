package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired inspects the stored JWT's exp claim without verifying the
// signature (the client has no key; verification is the backend's job).
// It lets the shell prompt for a fresh login before burning a request on a
// guaranteed 401. Unparseable tokens or tokens without exp report false and
// the backend stays the authority.
func TokenExpired(raw string, now time.Time) bool {
	if raw == "" {
		return false
	}
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(now)
}

// Expired reports whether the store's current token is past its exp claim.
func (s *Store) Expired() bool {
	return TokenExpired(s.Token(), time.Now())
}
