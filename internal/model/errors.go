package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals an unknown profile, question or record id
	ErrNotFound = errors.New("not found")

	// ErrNoResponses signals a completion attempt with nothing answered
	ErrNoResponses = errors.New("no responses recorded for subject")

	// ErrUpstreamUnavailable signals the AI collaborator being down or
	// rate-limited
	ErrUpstreamUnavailable = errors.New("upstream AI service unavailable")

	// ErrSummaryTimeout signals summary generation exceeding its budget.
	// Kept distinct from generic failures so callers can present a
	// "results pending" state instead of an error page.
	ErrSummaryTimeout = errors.New("summary generation timed out")
)

// ValidationError reports a rejected answer or request field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// MalformedResponseError reports AI output that could not be parsed as the
// requested JSON shape. Raw carries the offending text for diagnosis; it is
// never coerced into a guessed default.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed AI response: %v (raw: %.200s)", e.Err, e.Raw)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a store read/write failure. Backing names which
// tier failed so the dual-mode dispatch never masks it.
type PersistenceError struct {
	Backing string // "durable" or "ephemeral"
	Op      string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s store %s failed: %v", e.Backing, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
