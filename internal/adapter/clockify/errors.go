package clockify

import (
	"encoding/json"
	"fmt"
)

// APIError is returned for non-2xx responses and for 2xx responses whose
// body could not be decoded. StatusCode 404 is also used locally when there
// is no running entry to stop.
type APIError struct {
	StatusCode int
	Message    string
	Body       *ErrorBody
}

func (e *APIError) Error() string {
	return fmt.Sprintf("clockify: %s (status %d)", e.Message, e.StatusCode)
}

// ErrorBody mirrors the JSON error payload returned by Clockify.
type ErrorBody struct {
	Message string          `json:"message,omitempty"`
	Code    int             `json:"code,omitempty"`
	Errors  json.RawMessage `json:"errors,omitempty"`
}

// NetworkError wraps transport failures (DNS, refused connections, timeouts).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("clockify: network error while %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
