package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// ErrAuthentication covers bad, missing or replayed webhook signatures.
// Handlers respond with a bare 401 and never leak why.
var ErrAuthentication = errors.New("authentication failed")

// ErrUpstreamUnavailable covers an unreachable or erroring collaborator.
// Users see a generic retry message, never the raw upstream error.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// ValidationError names the user input field that failed validation.
// It is safe to surface to the requester as an ephemeral message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError constructs a user-facing field validation error
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError checks if an error is a field validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UnknownCommandError carries the unrecognized verb so the response can
// name it back to the user
type UnknownCommandError struct {
	Verb string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: %s", e.Verb)
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
