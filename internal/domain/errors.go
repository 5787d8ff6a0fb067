package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrDataUnavailable marks a product that cannot be evaluated for lack
	// of offers, cost or competitor data. Batch callers skip and count it,
	// they never abort on it.
	ErrDataUnavailable = errors.New("data unavailable")
)

// ConflictError reports an invalid state transition, carrying enough detail
// to explain current vs requested state.
type ConflictError struct {
	Entity    string
	ID        string
	Current   string
	Requested string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s: cannot %s, current state is %q", e.Entity, e.ID, e.Requested, e.Current)
}

// ValidationError reports a guardrail misconfiguration on a pricing rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
