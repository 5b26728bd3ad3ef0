// internal/app/system/apperror/apperror.go

// Package apperror defines the typed domain errors every store and feature
// propagates upward. Each kind maps to a stable outward HTTP status and a
// machine-readable code, and messages are safe to show to end users.
//
// Transaction aborts and driver errors are deliberately NOT wrapped in
// these kinds; callers use Kind(err) to tell a domain outcome (never retry)
// from a transient storage failure (caller may retry).
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a domain error.
type ErrorKind int

const (
	// KindUnknown marks errors that are not domain errors (driver faults,
	// aborted transactions, programming errors).
	KindUnknown ErrorKind = iota
	// KindNotFound: a referenced entity is absent.
	KindNotFound
	// KindBadRequest: input that passed schema validation but violates a
	// domain rule (assignee outside the workspace, unknown status value).
	KindBadRequest
	// KindUnauthorized: failed credential check or missing action permission.
	KindUnauthorized
	// KindForbidden: authenticated but not entitled, such as a non-owner
	// deleting a workspace.
	KindForbidden
	// KindConflict: duplicate unique key, such as an already-registered email.
	KindConflict
)

// Error is a domain error with a stable code and a user-safe message.
type Error struct {
	ErrKind ErrorKind
	Code    string // machine-readable, e.g. "RESOURCE_NOT_FOUND"
	Message string // safe for end users, no internal identifiers
	Err     error  // optional wrapped cause, never shown outward
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound builds a KindNotFound error.
func NotFound(message string) *Error {
	return &Error{ErrKind: KindNotFound, Code: "RESOURCE_NOT_FOUND", Message: message}
}

// BadRequest builds a KindBadRequest error.
func BadRequest(message string) *Error {
	return &Error{ErrKind: KindBadRequest, Code: "VALIDATION_ERROR", Message: message}
}

// Unauthorized builds a KindUnauthorized error.
func Unauthorized(message string) *Error {
	return &Error{ErrKind: KindUnauthorized, Code: "ACCESS_UNAUTHORIZED", Message: message}
}

// Forbidden builds a KindForbidden error.
func Forbidden(message string) *Error {
	return &Error{ErrKind: KindForbidden, Code: "ACCESS_FORBIDDEN", Message: message}
}

// Conflict builds a KindConflict error.
func Conflict(message string) *Error {
	return &Error{ErrKind: KindConflict, Code: "DUPLICATE_RESOURCE", Message: message}
}

// Kind extracts the classification from err, unwrapping as needed.
// Non-domain errors report KindUnknown.
func Kind(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.ErrKind
	}
	return KindUnknown
}

// HTTPStatus maps an error to its outward status. Unknown errors map to 500;
// the transport layer substitutes a generic message for those.
func HTTPStatus(err error) int {
	switch Kind(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
