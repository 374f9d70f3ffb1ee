package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessExpiry extracts the expiry timestamp from an access token without
// verifying its signature. Verification is the backend's job; the client only
// needs the exp claim to refresh proactively.
func AccessExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("session: parse token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("session: read exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("session: token has no exp claim")
	}
	return exp.Time, nil
}

// ExpiresWithin reports whether the token expires within the given window.
// Malformed tokens count as expired.
func ExpiresWithin(token string, window time.Duration) bool {
	exp, err := AccessExpiry(token)
	if err != nil {
		return true
	}
	return time.Until(exp) <= window
}
