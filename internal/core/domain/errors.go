package domain

import "errors"

var (
	// ErrValidation marks input that is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrStore marks any failure talking to the backing store.
	ErrStore = errors.New("store failure")
)

// ValidationError carries the message shown to the client.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }
