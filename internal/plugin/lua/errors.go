package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNotFunction is returned when a called value is not a function.
	ErrNotFunction = errors.New("lua value is not a function")
)

// ScriptError is a Lua runtime error. Error returns the message without
// the stack trace.
type ScriptError struct {
	Message    string
	StackTrace string
	Err        error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return e.Message
}

// Unwrap returns the underlying gopher-lua error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}
