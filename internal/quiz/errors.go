package quiz

import (
	"context"
	"errors"
	"fmt"
)

// NotFoundError is returned when a deck or question set id is unknown.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "question set"
	}
	return fmt.Sprintf("%s %q not found", kind, e.ID)
}

// EmptyResultError is returned when generation produced no usable questions.
type EmptyResultError struct {
	Source  string
	Dropped int
}

func (e *EmptyResultError) Error() string {
	if e.Dropped > 0 {
		return fmt.Sprintf("%s: no valid questions (%d dropped)", e.Source, e.Dropped)
	}
	return fmt.Sprintf("%s: no valid questions", e.Source)
}

// NetworkError wraps a failed call to an external collaborator.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Retryable reports whether a manual retry makes sense. Cancellation is
// not worth retrying.
func (e *NetworkError) Retryable() bool {
	return !errors.Is(e.Err, context.Canceled)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsEmptyResult reports whether err is or wraps an EmptyResultError.
func IsEmptyResult(err error) bool {
	var er *EmptyResultError
	return errors.As(err, &er)
}

// IsNetwork reports whether err is or wraps a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
