package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is any non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// AuthError is a 401 or 403.
type AuthError struct{ APIError }

func (e *AuthError) Unwrap() error { return &e.APIError }

// ValidationError is a 400; Errors holds the field messages.
type ValidationError struct{ APIError }

func (e *ValidationError) Unwrap() error { return &e.APIError }

// NetworkError means no usable response arrived: the request failed in
// transport, timed out or returned something other than the envelope.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "api: network error: " + e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }

func classify(status int, env envelope) error {
	base := APIError{StatusCode: status, Message: env.Message, Errors: env.Errors}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{base}
	case http.StatusBadRequest:
		return &ValidationError{base}
	default:
		return &base
	}
}

// IsUnauthorized reports whether err is a 401.
func IsUnauthorized(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound
}
