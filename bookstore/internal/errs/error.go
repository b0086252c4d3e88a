package errs

import (
	"errors"
	"strings"
)

var (
	ErrNotFound      = errors.New("book not found")
	ErrConflict      = errors.New("book already exists")
	ErrIsbnMismatch  = errors.New("isbn in body does not match isbn in path")
	ErrInternalError = errors.New("internal server error")
)

// ValidationError holds every field-level problem found in a payload.
type ValidationError struct {
	Messages []string
}

func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Messages: msgs}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}
