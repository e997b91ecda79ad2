package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what the client can learn about the signed-in user from the
// access token alone. The signature is not verified; the backend does that.
type Identity struct {
	Subject   string
	Email     string
	Name      string
	ExpiresAt time.Time
}

// Claims decodes the access token without verifying it
func Claims(token string) (*Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	id := &Identity{}
	if sub, err := claims.GetSubject(); err == nil {
		id.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		id.Name = name
	}
	return id, nil
}

// expiry returns when the tokens stop being usable. Opaque (non-JWT) tokens
// without an explicit expiry never expire client-side.
func expiry(t Tokens) time.Time {
	if !t.ExpiresAt.IsZero() {
		return t.ExpiresAt
	}
	id, err := Claims(t.AccessToken)
	if err != nil {
		return time.Time{}
	}
	return id.ExpiresAt
}
