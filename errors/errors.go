// Package errors provides structured error types for pipes-cliff.
// It implements machine-readable error codes with retryable detection,
// so callers can branch on what failed without string matching.
package errors

import (
	"errors"
	"fmt"
)

// AppError is the unified library error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// CodeOf extracts the ErrorCode from err, unwrapping as needed.
// Returns the empty code when err carries no AppError.
func CodeOf(err error) ErrorCode {
	var app *AppError
	if errors.As(err, &app) {
		return app.Code
	}
	return ""
}

// --- Common Error Constructors ---

// SpawnFailed creates an AppError for a process that could not be started.
func SpawnFailed(cmd string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSpawnFailed, Message: fmt.Sprintf("command %s could not be started", cmd),
		Retryable: false, Cause: cause,
		Details: map[string]any{"command": cmd},
	}
}

// InvalidSpec creates an AppError for a malformed process specification.
func InvalidSpec(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidSpec, Message: reason,
		Retryable: false,
	}
}

// ScopeClosed creates an AppError for operations against a torn-down scope.
func ScopeClosed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeScopeClosed, Message: "resource scope is already closed",
		Retryable: false, Cause: cause,
	}
}

// TerminateFailed creates an AppError for a child that resisted teardown.
func TerminateFailed(cmd string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTerminateFailed, Message: fmt.Sprintf("command %s could not be terminated", cmd),
		Retryable: true, Cause: cause,
		Details: map[string]any{"command": cmd},
	}
}
