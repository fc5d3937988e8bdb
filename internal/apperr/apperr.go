package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared across workflows.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// Error is a structured workflow failure carrying an HTTP status and a stable code.
type Error struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code"`
	cause      error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap exposes the wrapped lower-level error, if any.
func (e *Error) Unwrap() error { return e.cause }

// Validation builds a 400 error for missing or malformed input.
func Validation(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusBadRequest, Code: CodeValidation}
}

// NotFound builds a 404 error for entities outside the caller's visibility scope.
func NotFound(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusNotFound, Code: CodeNotFound}
}

// Unauthorized builds a 401 error for credential or token failures.
func Unauthorized(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized}
}

// Forbidden builds a 403 error for operations outside the allowed environment or capability.
func Forbidden(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusForbidden, Code: CodeForbidden}
}

// Conflict builds a 409 error for illegal self-transitions, duplicates and password reuse.
func Conflict(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusConflict, Code: CodeConflict}
}

// Internal wraps an infrastructure failure as a retryable 500 error.
// The cause is preserved for logging, never discarded.
func Internal(message string, cause error) *Error {
	return &Error{Message: message, StatusCode: http.StatusInternalServerError, Code: CodeInternal, cause: cause}
}

// From converts any error into a structured *Error, wrapping unknown
// errors as internal failures so nothing is silently swallowed.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected failure", err)
}

// Is reports whether err is a structured error with the given code.
func Is(err error, code string) bool {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}
