package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks records rejected before any database call
	ErrValidation = errors.New("validation failed")
	// ErrIntegrity marks constraint violations reported by the store
	ErrIntegrity = errors.New("data integrity violation")
	// ErrTransientRequest marks failed or non-200 upstream requests
	ErrTransientRequest = errors.New("upstream request failed")
	// ErrUnknownEmployer is returned when a vacancy references an employer that is not stored
	ErrUnknownEmployer = fmt.Errorf("%w: employer not found", ErrValidation)
)

// ValidationError lists missing required fields
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: missing required fields: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// IntegrityError wraps a constraint violation on a given table
type IntegrityError struct {
	Table string
	Err   error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("data integrity violation on %s: %v", e.Table, e.Err)
}

func (e *IntegrityError) Unwrap() []error {
	return []error{ErrIntegrity, e.Err}
}
