package history

import (
	"errors"
	"fmt"
)

// Common errors for history operations.
var (
	// ErrEmptyHistory indicates undo or redo had nothing to move.
	ErrEmptyHistory = errors.New("empty history")

	// ErrNothingToUndo is returned by Undo when the log is empty.
	ErrNothingToUndo = fmt.Errorf("nothing to undo: %w", ErrEmptyHistory)

	// ErrNothingToRedo is returned by Redo when the redo stack is empty.
	ErrNothingToRedo = fmt.Errorf("nothing to redo: %w", ErrEmptyHistory)

	// ErrInvalidCapacity indicates a non-positive maximum size.
	ErrInvalidCapacity = errors.New("max size must be positive")

	// ErrInvalidRecord indicates a calculation without an operation name.
	ErrInvalidRecord = errors.New("only complete calculations can be added")

	// ErrMissingColumns indicates a history file lacks required columns.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrMalformedJSON indicates exported history JSON could not be parsed.
	ErrMalformedJSON = errors.New("malformed history json")
)

// PersistenceError describes a failed read or write of a history file.
type PersistenceError struct {
	Op   string // "save", "export", ...
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s history %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
