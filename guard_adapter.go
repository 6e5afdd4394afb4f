package sdk

import (
	"context"

	"github.com/vereint/vereint-go/guard"
)

// GuardFetcher adapts the SDK client to guard.ResourceFetcher, so ownership
// rules can resolve route ids against the live backend.
type GuardFetcher struct {
	client *Client
}

// NewGuardFetcher returns a fetcher backed by c.
func NewGuardFetcher(c *Client) *GuardFetcher {
	return &GuardFetcher{client: c}
}

// Project resolves the ownership fields of a project.
func (f *GuardFetcher) Project(ctx context.Context, id string) (guard.ProjectRef, error) {
	project, err := f.client.Projects.Get(ctx, id)
	if err != nil {
		return guard.ProjectRef{}, err
	}
	return guard.ProjectRef{ID: project.ID, NgoID: project.NgoID}, nil
}

// Application resolves the ownership fields of an application.
func (f *GuardFetcher) Application(ctx context.Context, id string) (guard.ApplicationRef, error) {
	app, err := f.client.Applications.Get(ctx, id)
	if err != nil {
		return guard.ApplicationRef{}, err
	}
	return guard.ApplicationRef{
		ID:      app.ID,
		UserID:  app.UserID,
		Project: guard.ProjectRef{ID: app.Project.ID, NgoID: app.Project.NgoID},
	}, nil
}

// Notification resolves the ownership fields of a notification.
func (f *GuardFetcher) Notification(ctx context.Context, id string) (guard.NotificationRef, error) {
	n, err := f.client.Notifications.Get(ctx, id)
	if err != nil {
		return guard.NotificationRef{}, err
	}
	return guard.NotificationRef{ID: n.ID, UserID: n.UserID, NgoID: n.NgoID}, nil
}
