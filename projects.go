package sdk

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/vereint/vereint-go/routes"
)

// ProjectsClient wraps the project endpoints.
type ProjectsClient struct {
	client *Client
}

// ProjectFilter narrows List results. Zero fields are omitted.
type ProjectFilter struct {
	Category string
	Skills   []string
	Location string
	NgoID    string
}

func (f ProjectFilter) query() string {
	values := url.Values{}
	if f.Category != "" {
		values.Set("category", f.Category)
	}
	for _, s := range f.Skills {
		values.Add("skill", s)
	}
	if f.Location != "" {
		values.Set("location", f.Location)
	}
	if f.NgoID != "" {
		values.Set("ngoId", f.NgoID)
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// ProjectRequest mirrors the create/update payload.
type ProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location,omitempty"`
	Category    string   `json:"category,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// List returns projects matching the filter.
func (c *ProjectsClient) List(ctx context.Context, filter ProjectFilter) ([]Project, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	var projects []Project
	if err := c.client.getJSON(ctx, routes.Projects+filter.query(), &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Get returns a single project by id.
func (c *ProjectsClient) Get(ctx context.Context, id string) (Project, error) {
	if err := c.ensureInitialized(); err != nil {
		return Project{}, err
	}
	if strings.TrimSpace(id) == "" {
		return Project{}, fmt.Errorf("sdk: project id required")
	}
	var project Project
	if err := c.client.getJSON(ctx, projectPath(id), &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// Create posts a new project. Only NGO sessions may call this; the backend
// derives the owning ngoId from the token.
func (c *ProjectsClient) Create(ctx context.Context, req ProjectRequest) (Project, error) {
	if err := c.ensureInitialized(); err != nil {
		return Project{}, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return Project{}, fmt.Errorf("sdk: project title required")
	}
	var project Project
	if err := c.client.postJSON(ctx, routes.Projects, req, &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// Update replaces the mutable fields of a project.
func (c *ProjectsClient) Update(ctx context.Context, id string, req ProjectRequest) (Project, error) {
	if err := c.ensureInitialized(); err != nil {
		return Project{}, err
	}
	if strings.TrimSpace(id) == "" {
		return Project{}, fmt.Errorf("sdk: project id required")
	}
	var project Project
	if err := c.client.putJSON(ctx, projectPath(id), req, &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// Delete removes a project.
func (c *ProjectsClient) Delete(ctx context.Context, id string) error {
	if err := c.ensureInitialized(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("sdk: project id required")
	}
	return c.client.deleteJSON(ctx, projectPath(id))
}

func (c *ProjectsClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("sdk: projects client not initialized")
	}
	return nil
}

func projectPath(id string) string {
	return strings.Replace(routes.ProjectByID, "{id}", url.PathEscape(id), 1)
}
