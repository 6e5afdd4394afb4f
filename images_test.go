package sdk

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestImageUpload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/images", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		if header.Filename != "logo.png" {
			t.Errorf("filename = %q", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "png-bytes" {
			t.Errorf("content = %q", content)
		}
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{
			"url": "https://cdn.vereint.org/images/logo.png",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, AccessToken: "access-1"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	image, err := client.Images.Upload(context.Background(), "logo.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if image.URL != "https://cdn.vereint.org/images/logo.png" {
		t.Fatalf("url = %q", image.URL)
	}
}

// Uploads go through the same refresh-and-retry path as JSON requests, so
// the multipart body must survive a replay.
func TestImageUploadReplaysBodyAfterRefresh(t *testing.T) {
	var attempts int32
	mux := http.NewServeMux()
	mux.HandleFunc("/images", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			writeEnvelope(w, http.StatusUnauthorized, false, "Token abgelaufen", nil)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer fresh-token" {
			t.Errorf("Authorization = %q", got)
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("FormFile on retry: %v", err)
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		if string(content) != "png-bytes" {
			t.Errorf("replayed content = %q", content)
		}
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{"url": "https://cdn.vereint.org/images/x.png"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	source := &staticTokenSource{token: "stale-token", renewed: "fresh-token"}
	client, err := NewClient(Config{BaseURL: server.URL, Tokens: source})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.Images.Upload(context.Background(), "x.png", strings.NewReader("png-bytes")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Fatalf("attempts = %d", got)
	}
}

func TestImageUploadRequiresFilename(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://localhost:1", AccessToken: "x"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Images.Upload(context.Background(), "  ", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for blank filename")
	}
}
