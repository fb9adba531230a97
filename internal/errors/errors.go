package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a ContentVault error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrNotConfigured  ErrorCode = "NOT_CONFIGURED"  // 500
	ErrUpstream       ErrorCode = "UPSTREAM"        // 500
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// VaultError represents a structured error with code, status, and details.
type VaultError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	// Err is the underlying cause, if any. It is never shown to clients.
	Err error
}

// Error implements the error interface.
func (e *VaultError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *VaultError) Unwrap() error {
	return e.Err
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *VaultError {
	return &VaultError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when an item cannot be found.
func NewNotFound(identifier string) *VaultError {
	return &VaultError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("item not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewNotConfigured creates a 500 error for missing server configuration.
func NewNotConfigured(msg string) *VaultError {
	return &VaultError{
		Code:    ErrNotConfigured,
		Status:  500,
		Message: msg,
	}
}

// NewUpstream creates a 500 error for a failed content store call.
// msg is shown to clients; fallback is used when msg is empty.
func NewUpstream(msg, fallback string, cause error) *VaultError {
	if msg == "" {
		msg = fallback
	}
	return &VaultError{
		Code:    ErrUpstream,
		Status:  500,
		Message: msg,
		Err:     cause,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *VaultError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &VaultError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		Err:     err,
	}
}

// Is checks if an error is a VaultError with the given code.
func Is(err error, code ErrorCode) bool {
	var vErr *VaultError
	if stderrors.As(err, &vErr) {
		return vErr.Code == code
	}
	return false
}

// As returns err as a VaultError, wrapping unknown errors as internal.
func As(err error) *VaultError {
	var vErr *VaultError
	if stderrors.As(err, &vErr) {
		return vErr
	}
	return NewInternal(err)
}
