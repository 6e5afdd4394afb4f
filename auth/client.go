package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/vereint/vereint-go/routes"
)

const defaultUserAgent = "VereintSDK/1"

// Config controls how the auth client talks to the Vereint API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

// Client issues login, registration, logout, and refresh requests against
// the backend. It is deliberately standalone so the session manager can use
// it without pulling in the full SDK client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Credentials encapsulates email/password inputs for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Tokens mirrors the backend token bundle.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// LoginResult carries the token bundle plus the raw profile document the
// backend returns alongside it. The profile shape differs between users and
// NGOs, so it stays raw until the session layer decodes it.
type LoginResult struct {
	Tokens  Tokens          `json:"tokens"`
	Profile json.RawMessage `json:"profile"`
}

// RegisterUserRequest mirrors POST /auth/users/register.
type RegisterUserRequest struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Skills    []string `json:"skills,omitempty"`
}

// Validate checks the payload before it is sent to the backend.
func (r RegisterUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.LastName, validation.Required),
	)
}

// RegisterNGORequest mirrors POST /auth/ngos/register.
type RegisterNGORequest struct {
	Name       string   `json:"name"`
	Principal  string   `json:"principal"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Industry   string   `json:"industry,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// Validate checks the payload before it is sent to the backend.
func (r RegisterNGORequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Principal, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
	)
}

// Error conveys HTTP failures from the backend, preserving the server's
// message from the response envelope.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("auth: http %d: %s", e.Status, strings.TrimSpace(e.Message))
}

// NewClient constructs a Client with sane defaults.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errors.New("auth: base url required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		baseURL:    strings.TrimSuffix(base, "/"),
		httpClient: client,
		userAgent:  ua,
	}, nil
}

// LoginUser exchanges volunteer credentials for a token bundle and profile.
func (c *Client) LoginUser(ctx context.Context, creds Credentials) (LoginResult, error) {
	return c.login(ctx, routes.AuthUsersLogin, creds)
}

// LoginNGO exchanges organisation credentials for a token bundle and profile.
func (c *Client) LoginNGO(ctx context.Context, creds Credentials) (LoginResult, error) {
	return c.login(ctx, routes.AuthNGOsLogin, creds)
}

func (c *Client) login(ctx context.Context, path string, creds Credentials) (LoginResult, error) {
	if strings.TrimSpace(creds.Email) == "" || strings.TrimSpace(creds.Password) == "" {
		return LoginResult{}, errors.New("auth: email and password required")
	}
	var result LoginResult
	if err := c.post(ctx, path, creds, &result); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

// RegisterUser creates a volunteer account. The session stays logged out;
// callers log in separately once registration succeeds.
func (c *Client) RegisterUser(ctx context.Context, req RegisterUserRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return c.post(ctx, routes.AuthUsersRegister, req, nil)
}

// RegisterNGO creates an organisation account.
func (c *Client) RegisterNGO(ctx context.Context, req RegisterNGORequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return c.post(ctx, routes.AuthNGOsRegister, req, nil)
}

// Logout revokes the refresh token server-side. Errors are returned for
// logging but the session layer clears local state regardless of the
// outcome: logout must never block the caller.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	payload := map[string]string{"refreshToken": refreshToken}
	return c.post(ctx, routes.AuthLogout, payload, nil)
}

// Refresh swaps a refresh token for a new token bundle.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return Tokens{}, errors.New("auth: refresh token required")
	}
	payload := map[string]string{"refreshToken": refreshToken}
	var tokens Tokens
	if err := c.post(ctx, routes.AuthRefresh, payload, &tokens); err != nil {
		return Tokens{}, err
	}
	return tokens, nil
}

// Me fetches the profile document for the bearer of accessToken. The session
// manager uses it to re-hydrate identity details after a reload.
func (c *Client) Me(ctx context.Context, accessToken string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+routes.AuthMe, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	var profile json.RawMessage
	if err := c.roundTrip(req, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.roundTrip(req, out)
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) roundTrip(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var env envelope
	if unmarshalErr := json.Unmarshal(body, &env); unmarshalErr != nil {
		if resp.StatusCode >= 400 {
			return &Error{Status: resp.StatusCode, Message: resp.Status}
		}
		return unmarshalErr
	}
	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = resp.Status
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
