package scenario

import (
	"errors"
	"fmt"
)

// Usage errors. These indicate a bug or misuse in the calling layer and are
// surfaced as-is, never swallowed or converted to fallback content.
var (
	// ErrNotFound is returned when a referenced decision point or
	// assessment question does not belong to the scenario.
	ErrNotFound = errors.New("not found in scenario")

	// ErrAlreadyAnswered is returned when re-answering a decision point or
	// assessment question. The original answer is never overwritten.
	ErrAlreadyAnswered = errors.New("already answered")

	// ErrIndexOutOfRange is returned when a selected option index is
	// outside the option list bounds.
	ErrIndexOutOfRange = errors.New("selected index out of range")

	// ErrInvalidState is returned when an operation is not permitted in
	// the scenario's current status, e.g. mutating a completed scenario or
	// scoring one that isn't completed.
	ErrInvalidState = errors.New("invalid scenario state for operation")
)

// ValidationError reports an invalid decision point or assessment question
// in a batch. The whole batch is rejected; nothing is appended.
type ValidationError struct {
	// Index is the position of the invalid entry within the batch.
	Index int

	// Field names what was invalid.
	Field string

	// Msg describes the violation.
	Msg string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid entry %d: %s: %s", e.Index, e.Field, e.Msg)
}
