// Package auth provides the login/refresh client and access-token helpers
// for the Vereint SDK.
package auth

import "github.com/golang-jwt/jwt/v5"

// EntityType discriminates the two account kinds the platform issues tokens for.
type EntityType string

const (
	EntityUser EntityType = "user"
	EntityNGO  EntityType = "ngo"
)

// Claims encodes the JWT claims embedded into access tokens.
//
// This is a DTO matching the backend's access token contract. The SDK keeps
// this struct local so the token shape is defined in exactly one place.
type Claims struct {
	Subject    string     `json:"id"`
	Email      string     `json:"email,omitempty"`
	Role       string     `json:"role,omitempty"`
	EntityType EntityType `json:"entityType,omitempty"`

	jwt.RegisteredClaims
}
