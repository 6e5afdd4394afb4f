package sdk

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vereint/vereint-go/headers"
)

// APIError captures a failed backend call, preserving the server's message
// from the {success, message, data} envelope.
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("http %d", e.Status)
	}
	return fmt.Sprintf("sdk: %s", msg)
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, RequestID: resp.Header.Get(headers.RequestID)}
	data, _ := io.ReadAll(resp.Body)
	if len(data) == 0 {
		apiErr.Message = resp.Status
		return apiErr
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		apiErr.Message = string(data)
		return apiErr
	}
	apiErr.Message = env.Message
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}

// decodeData unwraps a 2xx envelope into out. A success=false envelope on a
// 2xx status still counts as a failure and maps to *APIError.
func decodeData(resp *http.Response, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("sdk: malformed response envelope: %w", err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return &APIError{
			Status:    resp.StatusCode,
			Message:   msg,
			RequestID: resp.Header.Get(headers.RequestID),
		}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
