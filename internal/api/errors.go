package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by the client.
var (
	// ErrServerUnavailable is returned when the API is not reachable.
	ErrServerUnavailable = errors.New("school API unavailable")

	// ErrUnauthorized is returned when the bearer token is invalid or missing.
	ErrUnauthorized = errors.New("unauthorized: invalid or missing bearer token")

	// ErrForbidden is returned when the user lacks access to the school.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when a requested resource doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when the request collides with existing data.
	ErrConflict = errors.New("conflict")

	// ErrTimeout is returned when a request times out.
	ErrTimeout = errors.New("request timed out")

	// ErrNoSchool is returned when a school-scoped call has no school id.
	ErrNoSchool = errors.New("no active school selected")
)

// APIError wraps a failed call with the HTTP status and the server's
// detail message, when it sent one.
type APIError struct {
	Operation  string // e.g. "create_school"
	StatusCode int    // 0 when the request never got a response
	Detail     string // server-provided detail, may be empty
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var sb strings.Builder
	sb.WriteString("api: ")
	sb.WriteString(e.Operation)
	sb.WriteString(" failed")
	if e.StatusCode > 0 {
		fmt.Fprintf(&sb, " (HTTP %d)", e.StatusCode)
	}
	switch {
	case e.Detail != "":
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	case e.Err != nil:
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError.
func NewAPIError(operation string, statusCode int, err error) *APIError {
	return &APIError{
		Operation:  operation,
		StatusCode: statusCode,
		Err:        err,
	}
}

// Detail returns the server's detail message carried by err, or "".
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// IsServerUnavailable returns true if the error indicates the server is unreachable.
func IsServerUnavailable(err error) bool {
	return errors.Is(err, ErrServerUnavailable)
}

// IsUnauthorized returns true if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsConflict returns true if the error indicates a uniqueness conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// errorBody is the error envelope the API returns. detail is either a
// string or a list of validation entries.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationEntry struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// parseDetail extracts a human-readable message from an error body.
func parseDetail(body []byte) string {
	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var entries []validationEntry
	if err := json.Unmarshal(envelope.Detail, &entries); err == nil {
		msgs := make([]string, 0, len(entries))
		for _, e := range entries {
			if msg := strings.TrimSpace(e.Msg); msg != "" {
				msgs = append(msgs, msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// statusError maps an HTTP status to a sentinel error.
func statusError(code int) error {
	switch code {
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 409:
		return ErrConflict
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}
