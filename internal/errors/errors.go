package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a urlcopy error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"   // 400
	ErrUnknownMenuItem ErrorCode = "UNKNOWN_MENU_ITEM" // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"         // 404
	ErrMissingValue    ErrorCode = "MISSING_VALUE"     // 409
	ErrInternal        ErrorCode = "INTERNAL"          // 500
	ErrNoReceiver      ErrorCode = "NO_RECEIVER"       // 503
)

// CopyError represents a structured error with code, status, and details.
type CopyError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *CopyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *CopyError {
	return &CopyError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUnknownMenuItem creates a 400 error for a menu entry id that is not in the catalog.
func NewUnknownMenuItem(id string) *CopyError {
	return &CopyError{
		Code:    ErrUnknownMenuItem,
		Status:  400,
		Message: fmt.Sprintf("unknown menu item: %s", id),
		Details: map[string]any{"menu_item_id": id},
	}
}

// NewNotFound creates a 404 error for missing context (no active tab, no tab id).
func NewNotFound(msg string) *CopyError {
	return &CopyError{
		Code:    ErrNotFound,
		Status:  404,
		Message: msg,
	}
}

// NewMissingValue creates a 409 error when a stored flag has no value.
func NewMissingValue(key string) *CopyError {
	return &CopyError{
		Code:    ErrMissingValue,
		Status:  409,
		Message: fmt.Sprintf("missing value for flag: %s", key),
		Details: map[string]any{"key": key},
	}
}

// NewNoReceiver creates a 503 error when the destination page has no listener.
func NewNoReceiver(tabID int) *CopyError {
	return &CopyError{
		Code:    ErrNoReceiver,
		Status:  503,
		Message: fmt.Sprintf("no receiving end for tab %d", tabID),
		Details: map[string]any{"tab_id": tabID},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *CopyError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &CopyError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a CopyError with the given code.
// Wrapped errors are unwrapped.
func Is(err error, code ErrorCode) bool {
	var cErr *CopyError
	if stderrors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}

// As returns err as a *CopyError, wrapping unknown errors as INTERNAL.
func As(err error) *CopyError {
	var cErr *CopyError
	if stderrors.As(err, &cErr) {
		return cErr
	}
	return NewInternal(err)
}
