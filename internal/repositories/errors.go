package repositories

import (
	"errors"
	"fmt"
)

// Common repository errors
var (
	// ErrStoreRead is returned when the note collection cannot be read or decoded
	ErrStoreRead = errors.New("note store read failed")

	// ErrStoreWrite is returned when the note collection cannot be persisted
	ErrStoreWrite = errors.New("note store write failed")

	// ErrConnection is returned when the backing store is not reachable
	ErrConnection = errors.New("note store connection error")
)

// RepositoryError represents a repository-specific error with additional context
type RepositoryError struct {
	Op      string // Operation that failed ("load" or "save")
	Backend string // Store implementation ("jsonfile", "sqlite")
	Err     error  // Underlying error
	Kind    error  // One of ErrStoreRead, ErrStoreWrite, ErrConnection
}

// Error implements the error interface
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("%s %s operation failed: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the error kind or matches the underlying error
func (e *RepositoryError) Is(target error) bool {
	return target == e.Kind || errors.Is(e.Err, target)
}

// ReadError wraps a failure to load the collection
func ReadError(backend string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      "load",
		Backend: backend,
		Err:     err,
		Kind:    ErrStoreRead,
	}
}

// WriteError wraps a failure to save the collection
func WriteError(backend string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      "save",
		Backend: backend,
		Err:     err,
		Kind:    ErrStoreWrite,
	}
}

// ConnectionError wraps a failure to reach the store
func ConnectionError(backend string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      "connect",
		Backend: backend,
		Err:     err,
		Kind:    ErrConnection,
	}
}

// IsStoreRead checks if an error is a store read error
func IsStoreRead(err error) bool {
	return errors.Is(err, ErrStoreRead)
}

// IsStoreWrite checks if an error is a store write error
func IsStoreWrite(err error) bool {
	return errors.Is(err, ErrStoreWrite)
}
