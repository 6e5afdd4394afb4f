// Package headers defines HTTP header constants used across the Vereint platform.
// This is the single source of truth for header names used in API requests/responses.
package headers

const (
	// RequestID is the header for request correlation / idempotency.
	// Clients can supply this header for idempotency on retries.
	RequestID = "X-Vereint-Request-Id"

	// Client identifies the SDK or frontend build issuing the request.
	Client = "X-Vereint-Client"
)
