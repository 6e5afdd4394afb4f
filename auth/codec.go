package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpirySkew is subtracted from a token's exp before comparing against the
// clock, so a token about to lapse is treated as already expired and callers
// refresh before the server would reject it.
const ExpirySkew = 30 * time.Second

// Decode extracts the claims from a bearer token without verifying its
// signature. The client only uses the payload for display and routing
// decisions; the backend remains the authority on token validity.
//
// Decode returns nil for anything it cannot parse. It never panics.
func Decode(raw string) *Claims {
	if raw == "" {
		return nil
	}
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil
	}
	return claims
}

// IsExpired reports whether the token is expired or will be within
// ExpirySkew. Undecodable tokens and tokens without an exp claim count as
// expired, failing safe toward logged-out.
func IsExpired(raw string) bool {
	return isExpiredAt(Decode(raw), time.Now())
}

func isExpiredAt(claims *Claims, now time.Time) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return true
	}
	return !now.Before(claims.ExpiresAt.Time.Add(-ExpirySkew))
}

// TimeRemaining returns the duration until the token's exp, or zero when the
// token is undecodable or already past.
func TimeRemaining(raw string) time.Duration {
	return timeRemainingAt(Decode(raw), time.Now())
}

func timeRemainingAt(claims *Claims, now time.Time) time.Duration {
	if claims == nil || claims.ExpiresAt == nil {
		return 0
	}
	remaining := claims.ExpiresAt.Time.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
