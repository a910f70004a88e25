package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrArgCount indicates a command received the wrong number of arguments.
	ErrArgCount = errors.New("exactly two numeric arguments required")

	// ErrNotNumber indicates an argument could not be parsed as a number.
	ErrNotNumber = errors.New("arguments must be numbers")

	// ErrHandlerPanic indicates a handler panicked.
	ErrHandlerPanic = errors.New("handler panic")

	// ErrInvalidCommand indicates a registration with an unusable name or handler.
	ErrInvalidCommand = errors.New("dispatcher: invalid command")
)
