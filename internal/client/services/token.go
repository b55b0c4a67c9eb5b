package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the client can read from its access token without the
// signing key. It is for display only; the server remains the authority.
type TokenInfo struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim is before now. Tokens
// without exp never expire locally.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

var ErrOpaqueToken = errors.New("access token is not a JWT")

// InspectToken decodes the registered claims of a JWT without verifying it.
func InspectToken(token string) (TokenInfo, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenInfo{}, ErrOpaqueToken
	}

	info := TokenInfo{Subject: claims.Subject, Issuer: claims.Issuer}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
