package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProjectsListFilterQuery(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeEnvelope(w, http.StatusOK, true, "", []map[string]any{
			{"id": "proj-1", "ngoId": "ngo-1", "title": "Beach Cleanup"},
		})
	}))
	defer server.Close()

	client := watchClient(t, server.URL)
	projects, err := client.Projects.List(context.Background(), ProjectFilter{
		Category: "environment",
		Skills:   []string{"diving", "first-aid"},
		NgoID:    "ngo-1",
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(projects) != 1 || projects[0].Title != "Beach Cleanup" {
		t.Fatalf("unexpected result: %+v", projects)
	}
	want := "category=environment&ngoId=ngo-1&skill=diving&skill=first-aid"
	if gotQuery != want {
		t.Fatalf("query = %q, want %q", gotQuery, want)
	}
}

func TestProjectsGetEscapesID(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{"id": "a/b", "ngoId": "ngo-1"})
	}))
	defer server.Close()

	client := watchClient(t, server.URL)
	if _, err := client.Projects.Get(context.Background(), "a/b"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotPath != "/projects/a%2Fb" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestProjectsCreateRequiresTitle(t *testing.T) {
	client := watchClient(t, "http://localhost:1")
	if _, err := client.Projects.Create(context.Background(), ProjectRequest{}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestApplicationsUpdateStatusRejectsUnknown(t *testing.T) {
	client := watchClient(t, "http://localhost:1")
	if _, err := client.Applications.UpdateStatus(context.Background(), "app-1", ApplicationStatus("maybe")); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestApplicationsUpdateStatusPatch(t *testing.T) {
	var method string
	var payload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		_ = json.NewDecoder(r.Body).Decode(&payload)
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{
			"id": "app-1", "userId": "user-1", "status": "accepted",
		})
	}))
	defer server.Close()

	client := watchClient(t, server.URL)
	app, err := client.Applications.UpdateStatus(context.Background(), "app-1", ApplicationAccepted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if method != http.MethodPatch {
		t.Fatalf("method = %s", method)
	}
	if payload["status"] != "accepted" {
		t.Fatalf("payload = %v", payload)
	}
	if app.Status != ApplicationAccepted {
		t.Fatalf("status = %s", app.Status)
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		if requests < 3 {
			writeEnvelope(w, http.StatusBadGateway, false, "upstream down", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "", []map[string]any{})
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL:     server.URL,
		AccessToken: "t",
		Retry:       RetryConfig{MaxAttempts: 3, BaseBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond},
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Skills.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if requests != 3 {
		t.Fatalf("expected 3 attempts, got %d", requests)
	}
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		writeEnvelope(w, http.StatusNotFound, false, "nicht gefunden", nil)
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL:     server.URL,
		AccessToken: "t",
		Retry:       RetryConfig{MaxAttempts: 3, BaseBackoff: time.Millisecond},
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Projects.Get(context.Background(), "missing"); err == nil {
		t.Fatal("expected error")
	}
	if requests != 1 {
		t.Fatalf("expected 1 attempt, got %d", requests)
	}
}
