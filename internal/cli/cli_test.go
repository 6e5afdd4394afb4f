package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vereint/vereint-go/auth"
	"github.com/vereint/vereint-go/session"
)

func signTestToken(t *testing.T, entity auth.EntityType, subject string, ttl time.Duration) string {
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

// seedSession writes a valid session file and points the CLI at it.
func seedSession(t *testing.T, baseURL string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	store := session.NewFileStore(path)
	err := store.Save(session.State{
		Tokens: auth.Tokens{
			AccessToken:  signTestToken(t, auth.EntityUser, "user-1", time.Hour),
			RefreshToken: "refresh-1",
			TokenType:    "Bearer",
		},
		Entity:    auth.EntityUser,
		SubjectID: "user-1",
	})
	if err != nil {
		t.Fatalf("seeding session: %v", err)
	}
	viper.Set("session_file", path)
	viper.Set("api_url", baseURL)
	viper.Set("colors", false)
	t.Cleanup(viper.Reset)
}

func writeTestEnvelope(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
	})
}

// resetFlags restores default flag values on the shared command tree so
// flags set by one test do not leak into the next Execute call.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionShort(t *testing.T) {
	out, err := runCommand(t, "version", "--short")
	if err != nil {
		t.Fatalf("version --short: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Fatalf("output = %q", out)
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := runCommand(t, "version", "--json")
	if err != nil {
		t.Fatalf("version --json: %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if info["version"] == "" || info["platform"] == "" {
		t.Fatalf("info = %v", info)
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := runCommand(t, "no-such-command"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestWhoamiWithoutSession(t *testing.T) {
	viper.Set("session_file", filepath.Join(t.TempDir(), "session.json"))
	t.Cleanup(viper.Reset)

	_, err := runCommand(t, "whoami")
	if err == nil {
		t.Fatal("expected error when not signed in")
	}
	if !strings.Contains(err.Error(), "not signed in") {
		t.Fatalf("err = %v", err)
	}
}

func TestWhoamiJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, _ *http.Request) {
		writeTestEnvelope(w, map[string]any{
			"id": "user-1", "email": "anna@example.org",
			"firstName": "Anna", "lastName": "Schmidt",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	seedSession(t, server.URL)

	out, err := runCommand(t, "whoami", "--json")
	if err != nil {
		t.Fatalf("whoami --json: %v", err)
	}
	var identity struct {
		Kind string `json:"Kind"`
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"User"`
	}
	if err := json.Unmarshal([]byte(out), &identity); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if identity.Kind != "user" || identity.User.ID != "user-1" {
		t.Fatalf("identity = %+v", identity)
	}
}

func TestProjectsListTable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, _ *http.Request) {
		writeTestEnvelope(w, map[string]any{"id": "user-1", "email": "anna@example.org"})
	})
	mux.HandleFunc("/projects", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("category"); got != "umwelt" {
			t.Errorf("category = %q", got)
		}
		writeTestEnvelope(w, []map[string]any{
			{"id": "proj-1", "ngoId": "ngo-1", "title": "Flussufer säubern", "category": "umwelt", "location": "Dresden"},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	seedSession(t, server.URL)

	out, err := runCommand(t, "projects", "list", "--category", "umwelt")
	if err != nil {
		t.Fatalf("projects list: %v", err)
	}
	for _, want := range []string{"proj-1", "Flussufer säubern", "Dresden", "ngo-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestApplicationsListUsesSubjectID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, _ *http.Request) {
		writeTestEnvelope(w, map[string]any{"id": "user-1", "email": "anna@example.org"})
	})
	mux.HandleFunc("/applications", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("userId"); got != "user-1" {
			t.Errorf("userId = %q", got)
		}
		writeTestEnvelope(w, []map[string]any{
			{"id": "app-1", "userId": "user-1", "projectId": "proj-1", "status": "pending"},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	seedSession(t, server.URL)

	out, err := runCommand(t, "applications", "list")
	if err != nil {
		t.Fatalf("applications list: %v", err)
	}
	if !strings.Contains(out, "app-1") || !strings.Contains(out, "pending") {
		t.Errorf("output:\n%s", out)
	}
}
