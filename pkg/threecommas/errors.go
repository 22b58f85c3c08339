package threecommas

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Common error variables the client may return
var (
	// ErrStreamClosed is returned when subscribing on a client whose streaming
	// connection was deliberately closed via Unsubscribe
	ErrStreamClosed = errors.New("streaming connection closed")

	// ErrInvalidOptions is returned by NewClient for unusable configuration
	ErrInvalidOptions = errors.New("invalid client options")
)

// APIError is an error body reported by the platform, surfaced verbatim.
// Status carries the HTTP status the body arrived with; Raw holds the exact
// bytes for callers that need fields beyond the common shape.
type APIError struct {
	Status      int                    `json:"-"`
	Name        string                 `json:"error"`
	Description string                 `json:"error_description"`
	Attributes  map[string]interface{} `json:"error_attributes"`
	Raw         json.RawMessage        `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("threecommas: %s: %s (status %d)", e.Name, e.Description, e.Status)
	}
	if e.Name != "" {
		return fmt.Sprintf("threecommas: %s (status %d)", e.Name, e.Status)
	}
	return fmt.Sprintf("threecommas: request rejected (status %d)", e.Status)
}

// parseAPIError decodes a structured platform error body. It returns nil when
// the body is not a JSON object, in which case the caller falls back to a
// transport-level error.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil {
		return nil
	}
	apiErr.Raw = append(json.RawMessage(nil), body...)
	return apiErr
}
