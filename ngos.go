package sdk

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/vereint/vereint-go/routes"
)

// NGOsClient wraps the organisation profile endpoints.
type NGOsClient struct {
	client *Client
}

// NGOUpdate carries the mutable profile fields.
type NGOUpdate struct {
	Name       *string  `json:"name,omitempty"`
	Principal  *string  `json:"principal,omitempty"`
	Industry   *string  `json:"industry,omitempty"`
	Categories []string `json:"categories,omitempty"`
	LogoURL    *string  `json:"logoUrl,omitempty"`
}

// Get returns an organisation profile by id.
func (c *NGOsClient) Get(ctx context.Context, id string) (NGO, error) {
	if err := c.ensureInitialized(); err != nil {
		return NGO{}, err
	}
	if strings.TrimSpace(id) == "" {
		return NGO{}, fmt.Errorf("sdk: ngo id required")
	}
	var ngo NGO
	if err := c.client.getJSON(ctx, ngoPath(id), &ngo); err != nil {
		return NGO{}, err
	}
	return ngo, nil
}

// Update patches the organisation's own profile.
func (c *NGOsClient) Update(ctx context.Context, id string, update NGOUpdate) (NGO, error) {
	if err := c.ensureInitialized(); err != nil {
		return NGO{}, err
	}
	if strings.TrimSpace(id) == "" {
		return NGO{}, fmt.Errorf("sdk: ngo id required")
	}
	var ngo NGO
	if err := c.client.patchJSON(ctx, ngoPath(id), update, &ngo); err != nil {
		return NGO{}, err
	}
	return ngo, nil
}

func (c *NGOsClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("sdk: ngos client not initialized")
	}
	return nil
}

func ngoPath(id string) string {
	return strings.Replace(routes.NGOByID, "{id}", url.PathEscape(id), 1)
}
