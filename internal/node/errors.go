package node

import (
	"errors"
	"fmt"
)

// RestoreError represents a failure to rebuild a node from persisted
// state. Restore failures are surfaced before any wire is touched, so
// a stale save file can never misroute a connection.
type RestoreError struct {
	// Code identifies the error category.
	Code RestoreErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// RestoreErrorCode categorizes restore errors.
type RestoreErrorCode string

const (
	// ErrCodeInvalidText indicates the persisted text no longer parses.
	ErrCodeInvalidText RestoreErrorCode = "INVALID_TEXT"

	// ErrCodeStaleBindings indicates the persisted binding list does not
	// match the bindings derived from re-parsing the persisted text.
	ErrCodeStaleBindings RestoreErrorCode = "STALE_BINDINGS"

	// ErrCodeCorruptValues indicates the persisted value list is not the
	// same length as the binding list.
	ErrCodeCorruptValues RestoreErrorCode = "CORRUPT_VALUES"
)

// Error implements the error interface.
func (e *RestoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RestoreError) Unwrap() error {
	return e.Err
}

// IsStaleBindings reports whether the error is a stale-bindings restore
// error. Uses errors.As to handle wrapped errors.
func IsStaleBindings(err error) bool {
	var re *RestoreError
	if errors.As(err, &re) {
		return re.Code == ErrCodeStaleBindings
	}
	return false
}

func newInvalidTextError(text string, cause error) *RestoreError {
	return &RestoreError{
		Code:    ErrCodeInvalidText,
		Message: fmt.Sprintf("persisted text %q does not parse", text),
		Err:     cause,
	}
}

func newStaleBindingsError(stored, derived []string) *RestoreError {
	return &RestoreError{
		Code:    ErrCodeStaleBindings,
		Message: fmt.Sprintf("persisted bindings %v do not match derived bindings %v", stored, derived),
	}
}

func newCorruptValuesError(bindings, values int) *RestoreError {
	return &RestoreError{
		Code:    ErrCodeCorruptValues,
		Message: fmt.Sprintf("persisted %d values for %d bindings", values, bindings),
	}
}
