// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrSessionConflict reports a concurrent write to the same session.
	ErrSessionConflict = errors.New("session conflict: stored state is newer")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError reports slot input that failed its format check. It is
// recovered locally by re-prompting the same slot.
type ValidationError struct {
	Slot   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Slot, e.Reason)
}

// NewValidationError creates a validation error for a slot.
func NewValidationError(slot, reason string) error {
	return &ValidationError{Slot: slot, Reason: reason}
}

// IsValidation reports whether err is a slot validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
