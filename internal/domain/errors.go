package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is wrapped by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an identifier is not 24 hexadecimal characters.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidDate is returned when a date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidWeekday is returned when a weekday name is not recognized.
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// FieldError describes a single failed rule on a single field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the structured outcome of a validator function.
// The zero value is a passing result.
type ValidationResult struct {
	Errors []FieldError
}

// Add records a failure for field.
func (r *ValidationResult) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Valid reports whether no rule failed.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns nil for a passing result, or a *ValidationError listing every failure.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	fields := make([]FieldError, len(r.Errors))
	copy(fields, r.Errors)
	return &ValidationError{Fields: fields}
}

// ValidationError carries the field-level reasons a validation failed.
// It always matches ErrValidation with errors.Is, plus Err when set.
type ValidationError struct {
	Fields []FieldError
	Err    error
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Fields: []FieldError{{Field: field, Message: message}},
		Err:    err,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

// Unwrap exposes ErrValidation and the optional specific cause.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil || errors.Is(e.Err, ErrValidation) {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}
