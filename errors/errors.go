// Package errors provides the service error type: a machine-readable code,
// a client-safe message, an HTTP status and a retryable hint.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an AppError; retryability is derived from the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// Busy reports that the work slot is taken.
func Busy(message string) *AppError {
	return New(ErrCodeBusy, message, http.StatusConflict)
}

// ServiceUnavailable reports that a component cannot take work right now.
func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable,
		fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		http.StatusServiceUnavailable).WithDetail("service", service)
}

func Timeout(operation string) *AppError {
	return New(ErrCodeTimeout, "The request took too long. Please try again.",
		http.StatusGatewayTimeout).WithDetail("operation", operation)
}

// InvalidInput reports a bad value for field.
func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, reason, http.StatusBadRequest)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation reports one or more failed validation rules.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("Missing required field: %s", field),
		http.StatusBadRequest).WithDetail("field", field)
}

func PayloadTooLarge(limit int64) *AppError {
	return New(ErrCodePayloadTooLarge, "Request body too large.",
		http.StatusRequestEntityTooLarge).WithDetail("max_bytes", limit)
}

func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return New(ErrCodeUnauthorized, reason, http.StatusUnauthorized)
}

func TokenExpired() *AppError {
	return New(ErrCodeTokenExpired, "Authentication token has expired.", http.StatusUnauthorized)
}

func InvalidToken() *AppError {
	return New(ErrCodeInvalidToken, "Invalid authentication token.", http.StatusUnauthorized)
}

// Internal wraps an unexpected error; the cause is never sent to clients.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred.",
		http.StatusInternalServerError).WithCause(cause)
}

// StorageError wraps a failed read or write against a storage backend.
func StorageError(op string, cause error) *AppError {
	return New(ErrCodeStorage, fmt.Sprintf("Storage %s failed.", op),
		http.StatusInternalServerError).WithCause(cause).WithDetail("operation", op)
}

// AsAppError extracts an AppError from the chain of err.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FromError returns err as an AppError. A deadline becomes Timeout and
// anything else is wrapped as Internal.
func FromError(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return Timeout("request").WithCause(err)
	}
	return Internal(err)
}

// Is is re-exported so callers can use this package in place of the stdlib one.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As is re-exported so callers can use this package in place of the stdlib one.
func As(err error, target any) bool { return stderrors.As(err, target) }
