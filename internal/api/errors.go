package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthenticated is matched by a StatusError for 401 and 422, the
// codes the API uses for a missing or rejected bearer token.
var ErrUnauthenticated = errors.New("not authenticated")

// StatusError is a non-2xx response from the assessment API.
type StatusError struct {
	StatusCode int
	Message    string // the "error" field of the body
	Details    string // the "details" field of the body
	RequestID  string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Details != "" {
		return fmt.Sprintf("api status %d: %s (%s)", e.StatusCode, msg, e.Details)
	}
	return fmt.Sprintf("api status %d: %s", e.StatusCode, msg)
}

// UserMessage returns the server's error text.
func (e *StatusError) UserMessage() string { return e.Message }

func (e *StatusError) Is(target error) bool {
	if target != ErrUnauthenticated {
		return false
	}
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusUnprocessableEntity
}

// Temporary reports whether the request may succeed if repeated.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// InvalidResponseError is a 2xx response whose body does not have the
// expected shape.
type InvalidResponseError struct {
	Op   string
	Body json.RawMessage
	Err  error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid %s response: %v", e.Op, e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }
