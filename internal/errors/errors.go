// Package errors provides the application's error taxonomy.
//
// Each type maps to one recovery strategy:
//   - NotFoundError: the target record is gone; callers treat the
//     operation as a no-op (or a 404 on the HTTP surface)
//   - ValidationError: the input is rejected and existing state is
//     left untouched
//   - SyncError: a remote transfer failed; the backend is marked
//     offline and local state keeps serving
//
// None of these is ever fatal to the process.
package errors

import (
	"errors"
	"fmt"
)

// NotFoundError indicates that an update or delete targeted a
// complaint id that is not in the collection.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NewNotFoundError creates a not-found error for a resource instance.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError indicates that an input document was rejected, for
// example an imported backup missing its complaints array. The message
// is intended for the end user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidationError creates a validation error with a user-facing message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// SyncError wraps a failed transfer to or from the backend.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sync %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("sync %s failed", e.Op)
}

// Unwrap returns the wrapped error for error chain inspection.
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a sync error for the named operation.
func NewSyncError(op string, err error) *SyncError {
	return &SyncError{Op: op, Err: err}
}

// IsNotFound checks if the error is a not-found error.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsSync checks if the error is a sync error.
func IsSync(err error) bool {
	var target *SyncError
	return errors.As(err, &target)
}
