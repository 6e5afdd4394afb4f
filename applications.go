package sdk

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/vereint/vereint-go/routes"
)

// ApplicationsClient wraps the application endpoints.
type ApplicationsClient struct {
	client *Client
}

// ApplyRequest mirrors POST /applications.
type ApplyRequest struct {
	ProjectID string `json:"projectId"`
	Message   string `json:"message,omitempty"`
}

// ListForUser returns the applications submitted by a volunteer.
func (c *ApplicationsClient) ListForUser(ctx context.Context, userID string) ([]Application, error) {
	return c.list(ctx, "userId", userID)
}

// ListForProject returns the applications received for a project.
func (c *ApplicationsClient) ListForProject(ctx context.Context, projectID string) ([]Application, error) {
	return c.list(ctx, "projectId", projectID)
}

func (c *ApplicationsClient) list(ctx context.Context, key, id string) ([]Application, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("sdk: %s required", key)
	}
	values := url.Values{}
	values.Set(key, id)
	var apps []Application
	if err := c.client.getJSON(ctx, routes.Applications+"?"+values.Encode(), &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// Get returns a single application by id.
func (c *ApplicationsClient) Get(ctx context.Context, id string) (Application, error) {
	if err := c.ensureInitialized(); err != nil {
		return Application{}, err
	}
	if strings.TrimSpace(id) == "" {
		return Application{}, fmt.Errorf("sdk: application id required")
	}
	var app Application
	if err := c.client.getJSON(ctx, applicationPath(id), &app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Apply submits an application to a project on behalf of the current user.
func (c *ApplicationsClient) Apply(ctx context.Context, req ApplyRequest) (Application, error) {
	if err := c.ensureInitialized(); err != nil {
		return Application{}, err
	}
	if strings.TrimSpace(req.ProjectID) == "" {
		return Application{}, fmt.Errorf("sdk: project id required")
	}
	var app Application
	if err := c.client.postJSON(ctx, routes.Applications, req, &app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Withdraw retracts a pending application.
func (c *ApplicationsClient) Withdraw(ctx context.Context, id string) error {
	if err := c.ensureInitialized(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("sdk: application id required")
	}
	return c.client.deleteJSON(ctx, applicationPath(id))
}

// UpdateStatus moves an application through review (accept/reject). Only the
// project's NGO may call this; the backend enforces ownership.
func (c *ApplicationsClient) UpdateStatus(ctx context.Context, id string, status ApplicationStatus) (Application, error) {
	if err := c.ensureInitialized(); err != nil {
		return Application{}, err
	}
	if strings.TrimSpace(id) == "" {
		return Application{}, fmt.Errorf("sdk: application id required")
	}
	if !status.Valid() {
		return Application{}, fmt.Errorf("sdk: unknown application status %q", status)
	}
	payload := map[string]ApplicationStatus{"status": status}
	var app Application
	if err := c.client.patchJSON(ctx, applicationPath(id), payload, &app); err != nil {
		return Application{}, err
	}
	return app, nil
}

func (c *ApplicationsClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("sdk: applications client not initialized")
	}
	return nil
}

func applicationPath(id string) string {
	return strings.Replace(routes.ApplicationByID, "{id}", url.PathEscape(id), 1)
}
