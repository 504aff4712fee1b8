package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("snapshot revision conflict")
	ErrUnavailable = errors.New("backend unavailable")
)

// ValidationError indicates invalid caller input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is allows errors.Is() to match against ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UnavailableError wraps a load/save failure of the persistence backend.
// The caller must not assume the mutation applied.
type UnavailableError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("snapshot %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is allows errors.Is() to match against ErrUnavailable
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// ConflictError is returned when a mutation exhausted its optimistic retry
// budget without observing a stable snapshot revision.
type ConflictError struct {
	Attempts int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("snapshot changed concurrently %d times, giving up", e.Attempts)
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
