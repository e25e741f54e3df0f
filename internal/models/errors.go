package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound covers both genuinely absent resources and resources
	// belonging to another organisation. The two are indistinguishable on
	// purpose: a distinct signal would leak cross-tenant existence.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the principal exists in the right organisation but
	// lacks the required capability.
	ErrForbidden = errors.New("forbidden")

	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("resource conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError carries a field-level breakdown of malformed input.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(msgs, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

// InvariantError rejects an operation that would break a business invariant,
// e.g. deleting the last Owner of an organisation. The message is meant to be
// shown to the caller as-is.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string { return e.Message }

func NewInvariantError(msg string) *InvariantError {
	return &InvariantError{Message: msg}
}
