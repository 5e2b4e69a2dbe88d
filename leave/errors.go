/*
errors.go - Centralized error types for the leave engine

PURPOSE:
  All engine error kinds in one place. Callers branch with errors.Is;
  the API layer maps them onto HTTP statuses.

ERROR KINDS:
  ErrNotFound          Referenced user/leave-type/balance/request is absent
  ErrInvalidDateRange  Unparsable date, or a projection date not in the future
  ErrInvalidTransition Status event not allowed from the current status
  ErrValidationFailed  Missing or inconsistent required field
  ErrDuplicate         Create collides with an existing record

LENIENCY POLICY:
  Time-parsing failures inside the duration calculator are NOT errors:
  they fall back to a full workday for that side and the computation
  continues. Balance insufficiency is also never an error - it is logged
  and the request proceeds.
*/
package leave

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidDateRange is returned for unparsable dates and for
	// projection dates that are not strictly in the future.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidTransition is returned when a status event is not allowed
	// from the request's current status (e.g. submit on a non-planned request).
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrValidationFailed is returned when a required field is missing or
	// inconsistent.
	ErrValidationFailed = errors.New("validation failed")

	// ErrDuplicate is returned when a create collides with an existing
	// record, including a second balance for a (user, leave type) pair.
	ErrDuplicate = errors.New("duplicate record")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// TransitionError reports a rejected status event with the state it was
// attempted from.
type TransitionError struct {
	From  Status
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a request in status %q", e.Event, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// FieldError reports a validation failure on a single field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return ErrValidationFailed }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError returns true if the error is due to invalid caller input
// rather than an engine or storage failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrValidationFailed)
}
