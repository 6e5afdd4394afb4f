package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vereint/vereint-go/auth"
	"github.com/vereint/vereint-go/routes"
	"github.com/vereint/vereint-go/sse"
)

// Notification stream event names emitted by the backend.
const (
	EventNotificationCreated = "notification_created"
	EventNotificationUpdated = "notification_updated"
	EventNotificationDeleted = "notification_deleted"
	EventPing                = "ping"
)

const defaultReconnectDelay = 5 * time.Second

// errStreamIdle marks a connection dropped by the idle monitor so the drop
// shows up as such in telemetry instead of a bare context error.
var errStreamIdle = errors.New("stream idle timeout")

// NotificationEvent is one decoded event off the stream.
type NotificationEvent struct {
	Name string
	// Notification is set for created/updated events.
	Notification *Notification
	// NotificationID is set for deleted events.
	NotificationID string
	Raw            []byte
}

// WatchOptions configures a Watch call. Zero values get defaults.
type WatchOptions struct {
	// Cache receives the optimistic patches. Required.
	Cache *NotificationCache
	// OnEvent, when set, observes every dispatched event after the cache
	// was patched.
	OnEvent func(NotificationEvent)
	// ReconnectDelay is the fixed pause before the single reconnect attempt
	// after a dropped connection.
	ReconnectDelay time.Duration
	// IdleTimeout drops a connection that delivered no frames, pings
	// included, for this long. Zero disables the idle check.
	IdleTimeout time.Duration
}

// Watch opens the SSE stream for the given identity and reconciles events
// into the cache until ctx is cancelled: created prepends unless the id is
// already present, updated merges by id, deleted removes by id, pings are
// dropped, and unrecognized events trigger an authoritative refetch.
//
// A dropped connection is retried exactly once after a fixed delay; the
// budget resets once a connection delivers an event. Cancellation closes the
// response body, so no connection outlives the caller.
func (c *NotificationsClient) Watch(ctx context.Context, entity auth.EntityType, subjectID string, opts WatchOptions) error {
	if err := c.ensureInitialized(); err != nil {
		return err
	}
	if opts.Cache == nil {
		return errors.New("sdk: watch requires a cache")
	}
	if strings.TrimSpace(subjectID) == "" {
		return errors.New("sdk: watch requires a subject id")
	}
	path, err := streamPath(entity, subjectID)
	if err != nil {
		return err
	}
	delay := opts.ReconnectDelay
	if delay <= 0 {
		delay = defaultReconnectDelay
	}

	reconnected := false
	for {
		delivered, err := c.consume(ctx, path, opts)
		if ctx.Err() != nil {
			// Intentional teardown is silent.
			return nil
		}
		if delivered {
			reconnected = false
		}
		if err == nil {
			// Server closed the stream cleanly; treat like a drop.
			err = errors.New("stream closed by server")
		}
		if reconnected {
			return err
		}
		c.client.telemetry.log(ctx, LogLevelError, "notification_stream_dropped", map[string]any{
			"error": err.Error(),
		})
		reconnected = true
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

// consume runs one connection to completion. It reports whether at least one
// event was dispatched.
func (c *NotificationsClient) consume(ctx context.Context, path string, opts WatchOptions) (bool, error) {
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	monitor := newStreamIdleMonitor(opts.IdleTimeout, cancel)
	monitor.Start()
	defer monitor.Stop()

	req, err := http.NewRequestWithContext(connCtx, http.MethodGet, c.client.buildURL(path), nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "text/event-stream")
	injectTraceparent(ctx, req)
	resp, err := c.client.send(req)
	if err != nil {
		if monitor.TimedOut() {
			return false, errStreamIdle
		}
		return false, err
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()

	decoder := sse.NewDecoder(resp.Body)
	delivered := false
	for {
		frame, ok, err := decoder.Next()
		if err != nil {
			if monitor.TimedOut() {
				return delivered, errStreamIdle
			}
			return delivered, err
		}
		if !ok {
			return delivered, nil
		}
		monitor.SignalActivity()
		if frame.Name == EventPing {
			continue
		}
		event, err := c.dispatch(ctx, frame, opts.Cache)
		if err != nil {
			return delivered, err
		}
		delivered = true
		if c.client.telemetry.OnNotificationEvent != nil {
			c.client.telemetry.OnNotificationEvent(ctx, event)
		}
		c.client.telemetry.metric(ctx, "sdk_notification_events_total", 1, map[string]string{"event": event.Name})
		if opts.OnEvent != nil {
			opts.OnEvent(event)
		}
	}
}

func (c *NotificationsClient) dispatch(ctx context.Context, frame sse.Event, cache *NotificationCache) (NotificationEvent, error) {
	event := NotificationEvent{Name: frame.Name, Raw: frame.Data}
	switch frame.Name {
	case EventNotificationCreated, EventNotificationUpdated:
		var n Notification
		if err := json.Unmarshal(frame.Data, &n); err != nil || n.ID == "" {
			// Unparseable payloads fall back to the authoritative list.
			return event, c.refetch(ctx, cache)
		}
		event.Notification = &n
		if frame.Name == EventNotificationCreated {
			cache.Prepend(n)
		} else {
			cache.Merge(n)
		}
	case EventNotificationDeleted:
		var payload struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(frame.Data, &payload); err != nil || payload.ID == "" {
			return event, c.refetch(ctx, cache)
		}
		event.NotificationID = payload.ID
		cache.Remove(payload.ID)
	default:
		// Unknown event names force a full refetch as the safe fallback.
		return event, c.refetch(ctx, cache)
	}
	return event, nil
}

func (c *NotificationsClient) refetch(ctx context.Context, cache *NotificationCache) error {
	notifications, err := c.List(ctx)
	if err != nil {
		return err
	}
	cache.Replace(notifications)
	return nil
}

func streamPath(entity auth.EntityType, subjectID string) (string, error) {
	escaped := url.PathEscape(subjectID)
	switch entity {
	case auth.EntityUser:
		return strings.Replace(routes.NotificationsUserStream, "{id}", escaped, 1), nil
	case auth.EntityNGO:
		return strings.Replace(routes.NotificationsNGOStream, "{id}", escaped, 1), nil
	}
	return "", errors.New("sdk: unknown entity type for stream")
}
