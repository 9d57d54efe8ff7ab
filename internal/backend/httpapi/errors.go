package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"tasktrack/internal/service"
)

// ErrTimeout is returned when a call exceeds its per-request timeout.
var ErrTimeout = errors.New("request timed out")

// StatusError is a non-success HTTP response.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string // server-provided "error" field, if any
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, msg)
}

// Unwrap maps 404 responses to service.ErrNotFound.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return service.ErrNotFound
	}
	return nil
}

// Rejected reports whether the server refused the request itself (4xx)
// rather than failing to process it.
func (e *StatusError) Rejected() bool {
	return e.Code >= 400 && e.Code < 500
}

// ShapeError is a response body that does not match the expected schema.
type ShapeError struct {
	Method   string
	Path     string
	Location string // JSON pointer into the response body
	Message  string
}

func (e *ShapeError) Error() string {
	loc := e.Location
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("unexpected response from %s %s at %s: %s", e.Method, e.Path, loc, e.Message)
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(method, path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
	}
	return fmt.Errorf("%s %s: %w", method, path, err)
}

// Reason returns the server-provided message of a failed request, or "".
func Reason(err error) string {
	var status *StatusError
	if errors.As(err, &status) {
		return status.Message
	}
	return ""
}
