package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input that was rejected before any engine ran.
	ErrValidation = errors.New("validation failed")
	// ErrComputation marks an invariant breach detected after validation.
	ErrComputation = errors.New("computation failed")
)

// ValidationError reports a single malformed or out-of-range input field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ComputationError reports a non-finite or otherwise impossible intermediate
// value. Detail is logged but never returned to callers.
type ComputationError struct {
	Op     string
	Detail string
}

// NewComputationError creates a ComputationError for the given operation.
func NewComputationError(op, format string, args ...any) *ComputationError {
	return &ComputationError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

func (e *ComputationError) Unwrap() error { return ErrComputation }
