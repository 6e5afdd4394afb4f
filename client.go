// Package sdk provides the Vereint Go SDK for interacting with the Vereint
// volunteering platform API.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vereint/vereint-go/headers"
)

const defaultBaseURL = "https://api.vereint.org/api/v1"
const defaultUserAgent = "vereint-sdk/0.1"

// TokenSource supplies bearer tokens for authenticated requests.
// *session.Manager satisfies it; a fixed token can be passed via
// Config.AccessToken instead.
type TokenSource interface {
	// AccessToken returns a token valid for at least the expiry buffer.
	AccessToken(ctx context.Context) (string, error)
	// ForceRefresh renews the token bundle after the server rejected the
	// current access token.
	ForceRefresh(ctx context.Context) (string, error)
}

// Config wires authentication, base URL, and telemetry for the API client.
type Config struct {
	BaseURL     string
	AccessToken string
	Tokens      TokenSource
	HTTPClient  *http.Client
	Telemetry   TelemetryHooks
	UserAgent   string
	// Retry applies to idempotent GETs only; zero value means defaults.
	Retry RetryConfig
}

// Client provides high-level helpers for interacting with the Vereint API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       authChain
	tokens     TokenSource
	telemetry  TelemetryHooks
	userAgent  string
	retry      RetryConfig

	// Grouped service clients.
	Projects      *ProjectsClient
	Applications  *ApplicationsClient
	Users         *UsersClient
	NGOs          *NGOsClient
	Skills        *SkillsClient
	Categories    *CategoriesClient
	Notifications *NotificationsClient
	Images        *ImagesClient
}

// NewClient validates the configuration and returns a ready-to-use Client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	auth := buildAuthChain(cfg)
	if len(auth) == 0 && cfg.Tokens == nil {
		return nil, errors.New("sdk: access token or token source required")
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	client := &Client{
		baseURL:    normalized,
		httpClient: httpClient,
		auth:       auth,
		tokens:     cfg.Tokens,
		telemetry:  cfg.Telemetry,
		userAgent:  ua,
		retry:      cfg.Retry.normalized(),
	}
	client.Projects = &ProjectsClient{client: client}
	client.Applications = &ApplicationsClient{client: client}
	client.Users = &UsersClient{client: client}
	client.NGOs = &NGOsClient{client: client}
	client.Skills = &SkillsClient{client: client}
	client.Categories = &CategoriesClient{client: client}
	client.Notifications = &NotificationsClient{client: client}
	client.Images = &ImagesClient{client: client}
	return client, nil
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("sdk: base URL required")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("sdk: invalid base URL: %w", err)
	}
	if u.Scheme == "" {
		return "", errors.New("sdk: base URL missing scheme (http/https)")
	}
	if u.Host == "" {
		return "", errors.New("sdk: base URL missing host")
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return strings.TrimSuffix(u.String(), "/"), nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	injectTraceparent(ctx, req)
	return req, nil
}

func (c *Client) prepare(req *http.Request, token string) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if req.Header.Get(headers.RequestID) == "" {
		req.Header.Set(headers.RequestID, uuid.NewString())
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		c.auth.Apply(req)
	}
}

// do issues the request with the current bearer token. A 401 answer triggers
// exactly one refresh-and-retry when a token source is attached: refresh the
// bundle, replay the request once with the new token. When the refresh
// itself fails, the original 401 response is returned untouched. There is no
// retry queue or backoff loop here.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	var token string
	if c.tokens != nil {
		t, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, err
		}
		token = t
	}
	resp, err := c.roundTrip(req, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || c.tokens == nil {
		return resp, nil
	}

	renewed, refreshErr := c.tokens.ForceRefresh(ctx)
	if refreshErr != nil {
		c.telemetry.log(ctx, LogLevelError, "token_refresh_failed", map[string]any{
			"error": refreshErr.Error(),
		})
		return resp, nil
	}
	retry, cloneErr := cloneRequest(req)
	if cloneErr != nil {
		return resp, nil
	}
	//nolint:errcheck // superseded response, body drained by GC path
	resp.Body.Close()
	return c.roundTrip(retry, renewed)
}

func cloneRequest(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}

func (c *Client) roundTrip(req *http.Request, token string) (*http.Response, error) {
	c.prepare(req, token)
	if c.telemetry.OnHTTPRequest != nil {
		c.telemetry.OnHTTPRequest(req.Context(), req)
	}
	c.telemetry.log(req.Context(), LogLevelInfo, "http_request", map[string]any{
		"method": req.Method,
		"url":    req.URL.String(),
	})
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.telemetry.OnHTTPResponse != nil {
		c.telemetry.OnHTTPResponse(req.Context(), req, resp, err, time.Since(start))
	}
	c.telemetry.metric(req.Context(), "sdk_http_request_latency_ms", float64(time.Since(start).Milliseconds()), map[string]string{
		"path": req.URL.Path,
	})
	return resp, err
}

// send runs do and maps HTTP and envelope failures to *APIError.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}
	return resp, nil
}

func (c *Client) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}
