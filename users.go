package sdk

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/vereint/vereint-go/routes"
)

// UsersClient wraps the volunteer profile endpoints.
type UsersClient struct {
	client *Client
}

// UserUpdate carries the mutable profile fields. Nil fields are left
// untouched by the backend.
type UserUpdate struct {
	FirstName *string  `json:"firstName,omitempty"`
	LastName  *string  `json:"lastName,omitempty"`
	Skills    []string `json:"skills,omitempty"`
}

// Get returns a volunteer profile by id.
func (c *UsersClient) Get(ctx context.Context, id string) (User, error) {
	if err := c.ensureInitialized(); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(id) == "" {
		return User{}, fmt.Errorf("sdk: user id required")
	}
	var user User
	if err := c.client.getJSON(ctx, userPath(id), &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Update patches the volunteer's own profile.
func (c *UsersClient) Update(ctx context.Context, id string, update UserUpdate) (User, error) {
	if err := c.ensureInitialized(); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(id) == "" {
		return User{}, fmt.Errorf("sdk: user id required")
	}
	var user User
	if err := c.client.patchJSON(ctx, userPath(id), update, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (c *UsersClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("sdk: users client not initialized")
	}
	return nil
}

func userPath(id string) string {
	return strings.Replace(routes.UserByID, "{id}", url.PathEscape(id), 1)
}
