package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// Entity-specific variants (ErrUserNotFound, ErrTaskNotFound) wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would violate a uniqueness
	// constraint. Every *ConflictError matches it.
	ErrDuplicate = errors.New("entity already exists")

	// ErrTransient is returned for any other store failure: connectivity,
	// timeouts, decoding. It is never retried by this layer.
	ErrTransient = errors.New("store operation failed")

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrTaskNotFound indicates that the requested task does not exist in the store.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrEmailExists matches a conflict on the user email constraint.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// ConflictError reports a uniqueness violation and names the offending field.
type ConflictError struct {
	Entity string // e.g. "user"
	Field  string // e.g. "email"; empty when the constraint is unknown
	Err    error  // driver error, kept for logging
}

// NewConflictError creates a ConflictError for entity and field.
func NewConflictError(entity, field string, err error) *ConflictError {
	return &ConflictError{Entity: entity, Field: field, Err: err}
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s already exists", e.Entity)
	}
	return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
}

// Is makes a ConflictError match ErrDuplicate, and ErrEmailExists when the
// field is email.
func (e *ConflictError) Is(target error) bool {
	switch target {
	case ErrDuplicate:
		return true
	case ErrEmailExists:
		return e.Field == "email"
	}
	return false
}

// Unwrap returns the underlying driver error.
func (e *ConflictError) Unwrap() error {
	return e.Err
}

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// ConflictField returns the field named by a ConflictError in err's chain,
// or "" if there is none.
func ConflictField(err error) string {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.Field
	}
	return ""
}
