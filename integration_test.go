package sdk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vereint/vereint-go/auth"
	"github.com/vereint/vereint-go/guard"
	"github.com/vereint/vereint-go/session"
)

func testJWT(t *testing.T, entity auth.EntityType, subject string, ttl time.Duration) string {
	t.Helper()
	claims := auth.Claims{
		Subject:    subject,
		EntityType: entity,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return raw
}

// Full pass over the session lifecycle: login, authenticated fetch through
// the manager, persisted session surviving a "restart", and the ownership
// guard talking to the live client.
func TestSessionBackedClient(t *testing.T) {
	accessToken := testJWT(t, auth.EntityNGO, "ngo-1", time.Hour)

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/ngos/login", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{
			"tokens": map[string]any{
				"accessToken":  accessToken,
				"refreshToken": "refresh-1",
				"tokenType":    "Bearer",
				"expiresIn":    3600,
			},
			"profile": map[string]any{"id": "ngo-1", "name": "Seenotrettung e.V.", "principal": "Jonas Weber"},
		})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{
			"id": "ngo-1", "name": "Seenotrettung e.V.", "principal": "Jonas Weber",
		})
	})
	mux.HandleFunc("/projects/proj-7", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+accessToken {
			writeEnvelope(w, http.StatusUnauthorized, false, "nicht angemeldet", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{
			"id": "proj-7", "ngoId": "ngo-2", "title": "Fremdes Projekt",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	authClient, err := auth.NewClient(auth.Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("auth.NewClient: %v", err)
	}
	store := session.NewMemoryStore()
	manager, err := session.NewManager(session.Config{Auth: authClient, Store: store})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	identity, err := manager.LoginNGO(context.Background(), auth.Credentials{Email: "info@example.org", Password: "geheim-123"})
	if err != nil {
		t.Fatalf("LoginNGO: %v", err)
	}
	if !identity.IsNGO() || identity.ID() != "ngo-1" {
		t.Fatalf("identity = %+v", identity)
	}

	client, err := NewClient(Config{BaseURL: server.URL, Tokens: manager})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	project, err := client.Projects.Get(context.Background(), "proj-7")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if project.NgoID != "ngo-2" {
		t.Fatalf("project = %+v", project)
	}

	// ngo-1 does not own proj-7, so the edit route must bounce.
	evaluator := guard.New(manager, NewGuardFetcher(client))
	decision := evaluator.Evaluate(context.Background(), "/projects/proj-7/edit",
		evaluator.RequireOwner(guard.KindProject, "proj-7"))
	if decision.State != guard.RedirectUnauthorized {
		t.Fatalf("decision = %+v", decision)
	}
	if decision.RedirectTo != "/unauthorized" {
		t.Fatalf("redirect = %q", decision.RedirectTo)
	}

	// A fresh manager over the same store restores the identity without
	// another login.
	restarted, err := session.NewManager(session.Config{Auth: authClient, Store: store})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := restarted.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	restored, ok := restarted.Current()
	if !ok {
		t.Fatal("session not restored from store")
	}
	if restored.ID() != "ngo-1" || !restored.IsNGO() {
		t.Fatalf("restored identity = %+v", restored)
	}
	if restored.NGO == nil || restored.NGO.Name != "Seenotrettung e.V." {
		t.Fatalf("profile not rehydrated: %+v", restored.NGO)
	}
}

func TestAnonymousGuardedNavigation(t *testing.T) {
	authClient, err := auth.NewClient(auth.Config{BaseURL: "http://localhost:1"})
	if err != nil {
		t.Fatalf("auth.NewClient: %v", err)
	}
	manager, err := session.NewManager(session.Config{Auth: authClient})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	evaluator := guard.New(manager, nil)
	decision := evaluator.Evaluate(context.Background(), "/profile")
	if decision.State != guard.RedirectLogin {
		t.Fatalf("decision = %+v", decision)
	}
	if decision.RedirectTo != "/login?redirect=%2Fprofile" {
		t.Fatalf("redirect = %q", decision.RedirectTo)
	}
}
