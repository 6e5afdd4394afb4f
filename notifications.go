package sdk

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/vereint/vereint-go/routes"
)

// NotificationsClient wraps the notification endpoints, including the live
// event stream.
type NotificationsClient struct {
	client *Client
}

// List returns the authoritative notification list for the current identity,
// newest first.
func (c *NotificationsClient) List(ctx context.Context) ([]Notification, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	var notifications []Notification
	if err := c.client.getJSON(ctx, routes.Notifications, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// Get returns a single notification by id.
func (c *NotificationsClient) Get(ctx context.Context, id string) (Notification, error) {
	if err := c.ensureInitialized(); err != nil {
		return Notification{}, err
	}
	if strings.TrimSpace(id) == "" {
		return Notification{}, fmt.Errorf("sdk: notification id required")
	}
	var notification Notification
	if err := c.client.getJSON(ctx, notificationPath(id), &notification); err != nil {
		return Notification{}, err
	}
	return notification, nil
}

// MarkRead flags a notification as read.
func (c *NotificationsClient) MarkRead(ctx context.Context, id string) (Notification, error) {
	if err := c.ensureInitialized(); err != nil {
		return Notification{}, err
	}
	if strings.TrimSpace(id) == "" {
		return Notification{}, fmt.Errorf("sdk: notification id required")
	}
	payload := map[string]bool{"read": true}
	var notification Notification
	if err := c.client.patchJSON(ctx, notificationPath(id), payload, &notification); err != nil {
		return Notification{}, err
	}
	return notification, nil
}

// Delete removes a notification.
func (c *NotificationsClient) Delete(ctx context.Context, id string) error {
	if err := c.ensureInitialized(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("sdk: notification id required")
	}
	return c.client.deleteJSON(ctx, notificationPath(id))
}

func (c *NotificationsClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("sdk: notifications client not initialized")
	}
	return nil
}

func notificationPath(id string) string {
	return strings.Replace(routes.NotificationByID, "{id}", url.PathEscape(id), 1)
}
