package services

import (
	"errors"
	"fmt"
)

// Client-facing messages
const (
	MessageNoteNotFound       = "Note not found"
	MessageNoteDeleted        = "Note deleted successfully"
	MessageInvalidRequestBody = "Invalid request body"
	MessageNoteIDRequired     = "Note id is required"
	MessageInternalError      = "Internal Server Error"
)

var (
	// ErrNoteNotFound is returned when no note matches the requested id
	ErrNoteNotFound = errors.New("note not found")

	// ErrInvalidRequest is returned for malformed or incomplete requests
	ErrInvalidRequest = errors.New("invalid request")
)

// ValidationError carries the message reported to the client for an
// invalid request
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is matches ErrInvalidRequest
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// NewValidationError creates a ValidationError
func NewValidationError(message string, err error) *ValidationError {
	return &ValidationError{
		Message: message,
		Err:     err,
	}
}

// InvalidBody wraps a decode failure of a request body
func InvalidBody(err error) *ValidationError {
	return NewValidationError(MessageInvalidRequestBody, err)
}

// IsNotFound checks if an error is a note-not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoteNotFound)
}

// IsInvalidRequest checks if an error is a validation error
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}
