package sdk

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/vereint/vereint-go/routes"
)

// SkillsClient wraps the skill reference-data endpoint.
type SkillsClient struct {
	client *Client
}

// List returns all selectable skills.
func (c *SkillsClient) List(ctx context.Context) ([]Skill, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("sdk: skills client not initialized")
	}
	var skills []Skill
	if err := c.client.getJSON(ctx, routes.Skills, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

// Get returns a single skill.
func (c *SkillsClient) Get(ctx context.Context, id string) (Skill, error) {
	if c == nil || c.client == nil {
		return Skill{}, fmt.Errorf("sdk: skills client not initialized")
	}
	if strings.TrimSpace(id) == "" {
		return Skill{}, fmt.Errorf("sdk: skill id required")
	}
	path := strings.Replace(routes.SkillByID, "{id}", url.PathEscape(id), 1)
	var skill Skill
	if err := c.client.getJSON(ctx, path, &skill); err != nil {
		return Skill{}, err
	}
	return skill, nil
}
