package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")

	// Definition source.
	ErrLookupNotFound      = errors.New("word not found in dictionary")
	ErrSourceUnavailable   = errors.New("dictionary source unavailable")
	ErrMalformedDefinition = errors.New("malformed definition")
	ErrCacheCorrupt        = errors.New("cache entry corrupt")

	// Graph and search.
	ErrNodeNotFound  = errors.New("node not found")
	ErrNoPath        = errors.New("no path between nodes")
	ErrGraphFrozen   = errors.New("graph is frozen")
	ErrSerialization = errors.New("graph serialization error")

	// Validation against a benchmark.
	ErrInsufficientPairs = errors.New("not enough benchmark pairs found in graph")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// IsLookupFailure reports whether err is a per-word lookup failure that the
// graph builder absorbs instead of aborting the run.
func IsLookupFailure(err error) bool {
	return errors.Is(err, ErrLookupNotFound) || errors.Is(err, ErrSourceUnavailable)
}
