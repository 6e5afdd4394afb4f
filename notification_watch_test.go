package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vereint/vereint-go/auth"
	"github.com/vereint/vereint-go/testutil"
)

func watchClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{BaseURL: baseURL, AccessToken: "access-1"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestWatchDispatchesEvents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/users/user-1/stream", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer access-1" {
			t.Errorf("Authorization = %q", got)
		}
		testutil.WriteSSE(w, []testutil.SSEStep{
			{Event: EventNotificationCreated, Data: `{"id":"n-1","title":"Neue Bewerbung"}`},
			{Comment: "keepalive"},
			{Event: EventPing, Data: `{}`},
			{Event: EventNotificationCreated, Data: `{"id":"n-1","title":"Duplikat"}`},
			{Event: EventNotificationUpdated, Data: `{"id":"n-1","title":"Neue Bewerbung","read":true}`},
			{Event: EventNotificationDeleted, Data: `{"id":"n-5"}`},
		})
		<-r.Context().Done()
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := watchClient(t, server.URL)
	cache := NewNotificationCache()
	cache.Prepend(Notification{ID: "n-5", Title: "Alt"})
	cache.Prepend(Notification{ID: "n-6", Title: "Bleibt"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var events int32
	err := client.Notifications.Watch(ctx, auth.EntityUser, "user-1", WatchOptions{
		Cache: cache,
		OnEvent: func(NotificationEvent) {
			// Pings are never dispatched; 4 real events end the test.
			if atomic.AddInt32(&events, 1) == 4 {
				cancel()
			}
		},
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	snapshot := cache.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 notifications, got %v", snapshot)
	}
	if snapshot[0].ID != "n-1" || !snapshot[0].Read {
		t.Fatalf("n-1 not merged: %+v", snapshot[0])
	}
	if snapshot[0].Title != "Neue Bewerbung" {
		t.Fatalf("duplicate create overwrote entry: %+v", snapshot[0])
	}
	if snapshot[1].ID != "n-6" {
		t.Fatalf("unrelated notification touched: %+v", snapshot[1])
	}
}

func TestWatchUnknownEventTriggersRefetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", []map[string]any{
			{"id": "n-10", "title": "Autoritativ"},
		})
	})
	mux.HandleFunc("/notifications/users/user-1/stream", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteSSE(w, []testutil.SSEStep{
			{Event: "notifications_rebalanced", Data: `{}`},
		})
		<-r.Context().Done()
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := watchClient(t, server.URL)
	cache := NewNotificationCache()
	cache.Prepend(Notification{ID: "stale"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := client.Notifications.Watch(ctx, auth.EntityUser, "user-1", WatchOptions{
		Cache:   cache,
		OnEvent: func(NotificationEvent) { cancel() },
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	snapshot := cache.Snapshot()
	if len(snapshot) != 1 || snapshot[0].ID != "n-10" {
		t.Fatalf("cache not replaced by refetch: %v", snapshot)
	}
}

func TestWatchReconnectsOnceAfterDrop(t *testing.T) {
	var connections int32
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/ngos/ngo-1/stream", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&connections, 1)
		if n == 1 {
			// Deliver one event, then drop the connection.
			testutil.WriteSSE(w, []testutil.SSEStep{
				{Event: EventNotificationCreated, Data: `{"id":"n-1"}`},
			})
			return
		}
		testutil.WriteSSE(w, []testutil.SSEStep{
			{Event: EventNotificationCreated, Data: fmt.Sprintf(`{"id":"n-%d"}`, n)},
		})
		<-r.Context().Done()
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := watchClient(t, server.URL)
	cache := NewNotificationCache()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := client.Notifications.Watch(ctx, auth.EntityNGO, "ngo-1", WatchOptions{
		Cache:          cache,
		ReconnectDelay: 10 * time.Millisecond,
		OnEvent: func(ev NotificationEvent) {
			if ev.Notification != nil && ev.Notification.ID == "n-2" {
				cancel()
			}
		},
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if got := atomic.LoadInt32(&connections); got != 2 {
		t.Fatalf("expected exactly 2 connections, got %d", got)
	}
	if cache.Len() != 2 {
		t.Fatalf("expected both events cached, got %d", cache.Len())
	}
}

func TestWatchGivesUpAfterSilentReconnect(t *testing.T) {
	var connections int32
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/users/user-1/stream", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&connections, 1)
		// Close immediately without delivering anything.
		testutil.WriteSSE(w, nil)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := watchClient(t, server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := client.Notifications.Watch(ctx, auth.EntityUser, "user-1", WatchOptions{
		Cache:          NewNotificationCache(),
		ReconnectDelay: 10 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected terminal error after failed reconnect")
	}
	if got := atomic.LoadInt32(&connections); got != 2 {
		t.Fatalf("expected exactly 2 connections, got %d", got)
	}
}

func TestWatchRequiresCacheAndSubject(t *testing.T) {
	client := watchClient(t, "http://localhost:1")
	if err := client.Notifications.Watch(context.Background(), auth.EntityUser, "user-1", WatchOptions{}); err == nil {
		t.Fatal("expected error without cache")
	}
	if err := client.Notifications.Watch(context.Background(), auth.EntityUser, "", WatchOptions{Cache: NewNotificationCache()}); err == nil {
		t.Fatal("expected error without subject id")
	}
	if err := client.Notifications.Watch(context.Background(), auth.EntityType("robot"), "x", WatchOptions{Cache: NewNotificationCache()}); err == nil {
		t.Fatal("expected error for unknown entity type")
	}
}

func TestWatchIdleTimeoutDropsConnection(t *testing.T) {
	var connections int32
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/users/user-1/stream", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&connections, 1)
		// Deliver nothing and hold the connection open past the idle window.
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := watchClient(t, server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := client.Notifications.Watch(ctx, auth.EntityUser, "user-1", WatchOptions{
		Cache:          NewNotificationCache(),
		IdleTimeout:    20 * time.Millisecond,
		ReconnectDelay: 10 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected terminal error after idle reconnect also stalled")
	}
	if err != errStreamIdle {
		t.Fatalf("err = %v", err)
	}
	if got := atomic.LoadInt32(&connections); got != 2 {
		t.Fatalf("expected exactly 2 connections, got %d", got)
	}
}
