// Package apperr classifies failures so the HTTP layer can map them to
// status codes without inspecting messages.
package apperr

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindNotImplemented
)

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	// Errors carries field-level messages for validation failures.
	Errors []string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Message == "" {
			return e.Err.Error()
		}
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(errs ...string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Errors: errs}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func NotImplemented(msg string) *Error {
	return &Error{Kind: KindNotImplemented, Message: msg}
}

// Wrap marks err as an unexpected internal failure.
func Wrap(err error, msg string) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// From classifies err: *Error passes through, a missing record becomes
// NotFound(notFoundMsg) and everything else is internal.
func From(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Kind: KindNotFound, Message: notFoundMsg, Err: err}
	}
	return Wrap(err, notFoundMsg)
}

// KindOf reports the kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
