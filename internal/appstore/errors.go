package appstore

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// APIError is returned when the API answers with an unexpected status.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
}

// Detail returns the detail of the first error entry in the body, if any.
func (e *APIError) Detail() string {
	return errorDetail([]byte(e.Body))
}

func newAPIError(op string, status int, body []byte, limit int) *APIError {
	return &APIError{Op: op, StatusCode: status, Body: truncate(body, limit)}
}

func errorDetail(body []byte) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || len(errResp.Errors) == 0 {
		return ""
	}
	first := errResp.Errors[0]
	if first.Detail != "" {
		return first.Detail
	}
	return first.Title
}

// truncate trims the body so error messages stay readable.
func truncate(body []byte, limit int) string {
	msg := string(bytes.TrimSpace(body))
	if len(msg) > limit {
		msg = msg[:limit] + "..."
	}
	return msg
}
