package session

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/shapesynth/internal/catalog"
)

var (
	// ErrNotFound is returned when a level, shape or hint does not exist.
	// It is the catalog sentinel, so errors.Is matches either name.
	ErrNotFound = catalog.ErrNotFound

	// ErrInvalidOperation is returned when an operation is not allowed in
	// the current status or without a selection. Every more specific
	// reason below matches it with errors.Is.
	ErrInvalidOperation = errors.New("invalid operation")

	ErrClosed      = fmt.Errorf("session closed: %w", ErrInvalidOperation)
	ErrNotLoaded   = fmt.Errorf("no level loaded: %w", ErrInvalidOperation)
	ErrNoHints     = fmt.Errorf("no hints remaining: %w", ErrInvalidOperation)
	ErrNoSelection = fmt.Errorf("no shape selected: %w", ErrInvalidOperation)
	ErrBadInput    = fmt.Errorf("non-finite input: %w", ErrInvalidOperation)
)

// StatusError reports an operation attempted while the session was in a
// status that does not allow it.
type StatusError struct {
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status is %s: %v", e.Status, ErrInvalidOperation)
}

func (e *StatusError) Unwrap() error {
	return ErrInvalidOperation
}

// OpError records the session operation that failed.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("session: %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opErr(op string, err error) error {
	return &OpError{Op: op, Err: err}
}

func wrongStatus(op string, st Status) error {
	return opErr(op, &StatusError{Status: st})
}

// StatusOf returns the status an operation was rejected in, if err is a
// status rejection.
func StatusOf(err error) (Status, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status, true
	}
	return 0, false
}
