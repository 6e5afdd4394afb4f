// Package session owns the client-side session lifecycle: the persisted
// token bundle, the identity derived from it, and the single-writer manager
// that refreshes and revokes it.
package session

import (
	"encoding/json"
	"slices"

	"github.com/vereint/vereint-go/auth"
)

// User is the volunteer-side profile shape.
type User struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Role           string   `json:"role"`
	Skills         []string `json:"skills,omitempty"`
	NgoMemberships []string `json:"ngoMemberships,omitempty"`
}

// NGO is the organisation-side profile shape.
type NGO struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Principal  string   `json:"principal"`
	Industry   string   `json:"industry,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// Identity is an explicit tagged union over the two account kinds. It is
// produced exactly once per session, from the decoded token's entityType,
// so there is a single authoritative signal instead of shape-probing
// heuristics. At most one of User/NGO is set, matching Kind.
type Identity struct {
	Kind auth.EntityType
	User *User
	NGO  *NGO
}

// UserIdentity wraps a volunteer profile.
func UserIdentity(u User) Identity {
	return Identity{Kind: auth.EntityUser, User: &u}
}

// NGOIdentity wraps an organisation profile.
func NGOIdentity(n NGO) Identity {
	return Identity{Kind: auth.EntityNGO, NGO: &n}
}

// ID returns the subject id for either variant.
func (i Identity) ID() string {
	switch i.Kind {
	case auth.EntityUser:
		if i.User != nil {
			return i.User.ID
		}
	case auth.EntityNGO:
		if i.NGO != nil {
			return i.NGO.ID
		}
	}
	return ""
}

// IsUser reports whether the identity is a volunteer account.
func (i Identity) IsUser() bool { return i.Kind == auth.EntityUser }

// IsNGO reports whether the identity is an organisation account.
func (i Identity) IsNGO() bool { return i.Kind == auth.EntityNGO }

// HasRole reports whether the identity carries the named role. NGOs have no
// roles; role checks only apply to volunteer accounts.
func (i Identity) HasRole(roles ...string) bool {
	if i.Kind != auth.EntityUser || i.User == nil {
		return false
	}
	return slices.Contains(roles, i.User.Role)
}

// identityFromClaims builds the minimal identity available without a profile
// fetch. The entityType claim is the only discriminator consulted.
func identityFromClaims(claims *auth.Claims) (Identity, bool) {
	if claims == nil || claims.Subject == "" {
		return Identity{}, false
	}
	switch claims.EntityType {
	case auth.EntityUser:
		return UserIdentity(User{ID: claims.Subject, Email: claims.Email, Role: claims.Role}), true
	case auth.EntityNGO:
		return NGOIdentity(NGO{ID: claims.Subject, Email: claims.Email}), true
	default:
		return Identity{}, false
	}
}

// parseProfile decodes a raw profile document into the identity variant
// selected by kind. The decoded token decides the kind; the profile only
// fills in display fields.
func parseProfile(kind auth.EntityType, raw json.RawMessage) (Identity, error) {
	switch kind {
	case auth.EntityUser:
		var u User
		if err := json.Unmarshal(raw, &u); err != nil {
			return Identity{}, err
		}
		return UserIdentity(u), nil
	case auth.EntityNGO:
		var n NGO
		if err := json.Unmarshal(raw, &n); err != nil {
			return Identity{}, err
		}
		return NGOIdentity(n), nil
	}
	return Identity{}, errUnknownEntity
}
