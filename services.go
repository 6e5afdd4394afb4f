package sdk

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// getJSON fetches path and unwraps the envelope into out, retrying transport
// and 5xx failures per the configured policy. GETs only; mutations never
// retry.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	cfg := c.retry
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if delay := cfg.backoffDelay(attempt); delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		req, err := c.newJSONRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}
		resp, err := c.send(req)
		if err != nil {
			lastErr = err
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Status < 500 {
				return err
			}
			continue
		}
		func() {
			defer resp.Body.Close()
			err = decodeData(resp, out)
		}()
		return err
	}
	return lastErr
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	return c.writeJSON(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) putJSON(ctx context.Context, path string, payload, out any) error {
	return c.writeJSON(ctx, http.MethodPut, path, payload, out)
}

func (c *Client) patchJSON(ctx context.Context, path string, payload, out any) error {
	return c.writeJSON(ctx, http.MethodPatch, path, payload, out)
}

func (c *Client) deleteJSON(ctx context.Context, path string) error {
	return c.writeJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) writeJSON(ctx context.Context, method, path string, payload, out any) error {
	req, err := c.newJSONRequest(ctx, method, path, payload)
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeData(resp, out)
}
