package guard

import (
	"context"

	"github.com/vereint/vereint-go/session"
)

// ResourceKind names the resource families ownership rules understand.
type ResourceKind string

const (
	KindProject      ResourceKind = "project"
	KindApplication  ResourceKind = "application"
	KindNotification ResourceKind = "notification"
)

// ProjectRef carries the ownership-relevant fields of a project.
type ProjectRef struct {
	ID    string
	NgoID string
}

// ApplicationRef carries the ownership-relevant fields of an application,
// including the owning project's NGO.
type ApplicationRef struct {
	ID      string
	UserID  string
	Project ProjectRef
}

// NotificationRef carries the ownership-relevant fields of a notification.
// Exactly one of UserID/NgoID is set by the backend.
type NotificationRef struct {
	ID     string
	UserID string
	NgoID  string
}

// ResourceFetcher resolves a resource id into its ownership fields. The SDK
// client provides an implementation backed by the REST API; tests use fakes.
type ResourceFetcher interface {
	Project(ctx context.Context, id string) (ProjectRef, error)
	Application(ctx context.Context, id string) (ApplicationRef, error)
	Notification(ctx context.Context, id string) (NotificationRef, error)
}

// OwnsProject reports whether id owns the project: only the posting NGO does.
func OwnsProject(id session.Identity, p ProjectRef) bool {
	return id.IsNGO() && p.NgoID != "" && p.NgoID == id.ID()
}

// OwnsApplication reports whether id owns the application: the applying
// volunteer, or the NGO behind the applied-to project.
func OwnsApplication(id session.Identity, a ApplicationRef) bool {
	if id.IsUser() {
		return a.UserID != "" && a.UserID == id.ID()
	}
	if id.IsNGO() {
		return a.Project.NgoID != "" && a.Project.NgoID == id.ID()
	}
	return false
}

// OwnsNotification reports whether the notification is addressed to id.
func OwnsNotification(id session.Identity, n NotificationRef) bool {
	subject := id.ID()
	if subject == "" {
		return false
	}
	return n.UserID == subject || n.NgoID == subject
}

// RequireOwner admits only the owner of the addressed resource, fetching it
// to compare ids. Identities holding an admin-bypass role skip the fetch.
// Fetch failures deny: a resource we cannot resolve is never shown.
func (e *Evaluator) RequireOwner(kind ResourceKind, resourceID string) Rule {
	return func(ctx context.Context, id session.Identity) (bool, error) {
		if len(e.adminRoles) > 0 && id.HasRole(e.adminRoles...) {
			return true, nil
		}
		if e.fetcher == nil {
			return false, nil
		}
		switch kind {
		case KindProject:
			p, err := e.fetcher.Project(ctx, resourceID)
			if err != nil {
				return false, err
			}
			return OwnsProject(id, p), nil
		case KindApplication:
			a, err := e.fetcher.Application(ctx, resourceID)
			if err != nil {
				return false, err
			}
			return OwnsApplication(id, a), nil
		case KindNotification:
			n, err := e.fetcher.Notification(ctx, resourceID)
			if err != nil {
				return false, err
			}
			return OwnsNotification(id, n), nil
		}
		return false, nil
	}
}
