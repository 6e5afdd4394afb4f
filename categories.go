package sdk

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/vereint/vereint-go/routes"
)

// CategoriesClient wraps the category reference-data endpoint.
type CategoriesClient struct {
	client *Client
}

// List returns all project categories.
func (c *CategoriesClient) List(ctx context.Context) ([]Category, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("sdk: categories client not initialized")
	}
	var categories []Category
	if err := c.client.getJSON(ctx, routes.Categories, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Get returns a single category.
func (c *CategoriesClient) Get(ctx context.Context, id string) (Category, error) {
	if c == nil || c.client == nil {
		return Category{}, fmt.Errorf("sdk: categories client not initialized")
	}
	if strings.TrimSpace(id) == "" {
		return Category{}, fmt.Errorf("sdk: category id required")
	}
	path := strings.Replace(routes.CategoryByID, "{id}", url.PathEscape(id), 1)
	var category Category
	if err := c.client.getJSON(ctx, path, &category); err != nil {
		return Category{}, err
	}
	return category, nil
}
