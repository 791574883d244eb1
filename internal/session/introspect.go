package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenDetails is what can be read out of a JWT without its signing key.
type TokenDetails struct {
	Subject   string
	ExpiresAt *time.Time
}

// Introspect decodes a JWT's claims without verifying the signature;
// the server remains the authority, this is display-only. Returns
// (nil, false) for opaque tokens.
func Introspect(token string) (*TokenDetails, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	d := &TokenDetails{}
	if sub, err := claims.GetSubject(); err == nil {
		d.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		d.ExpiresAt = &t
	}
	return d, true
}
