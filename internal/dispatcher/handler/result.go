package handler

import (
	"fmt"
	"strings"
)

// ResultStatus indicates the outcome of a command.
type ResultStatus uint8

const (
	// StatusOK indicates successful execution.
	StatusOK ResultStatus = iota
	// StatusError indicates the command failed.
	StatusError
	// StatusExit asks the interactive loop to stop.
	StatusExit
	// StatusUnknown indicates no handler matched the command name.
	StatusUnknown
)

// String returns a string representation of the status.
func (s ResultStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	case StatusExit:
		return "exit"
	case StatusUnknown:
		return "unknown-command"
	default:
		return "unknown"
	}
}

// Result represents the outcome of handling a command.
type Result struct {
	// Status indicates the result status.
	Status ResultStatus

	// Error contains any error that occurred.
	Error error

	// Message is the text shown to the user.
	Message string
}

// IsOK returns true if the result indicates success.
func (r Result) IsOK() bool {
	return r.Status == StatusOK
}

// IsError returns true if the result indicates an error.
func (r Result) IsError() bool {
	return r.Status == StatusError
}

// IsExit returns true if the result ends the session.
func (r Result) IsExit() bool {
	return r.Status == StatusExit
}

// Failed reports whether the command did not run successfully.
func (r Result) Failed() bool {
	return r.Status == StatusError || r.Status == StatusUnknown
}

// Text renders the result as a single output string.
// Errors render as "error: <message>".
func (r Result) Text() string {
	switch r.Status {
	case StatusError:
		msg := r.Message
		if r.Error != nil {
			msg = r.Error.Error()
		}
		return "error: " + msg
	case StatusExit:
		return ""
	default:
		return r.Message
	}
}

// Success creates a successful result.
func Success() Result {
	return Result{Status: StatusOK}
}

// SuccessWithMessage creates a successful result with a message.
func SuccessWithMessage(msg string) Result {
	return Result{Status: StatusOK, Message: msg}
}

// Lines creates a successful result joining lines with newlines.
func Lines(lines []string) Result {
	return Result{Status: StatusOK, Message: strings.Join(lines, "\n")}
}

// Error creates an error result.
func Error(err error) Result {
	return Result{Status: StatusError, Error: err}
}

// Errorf creates an error result with a formatted message.
func Errorf(format string, args ...any) Result {
	return Result{
		Status: StatusError,
		Error:  fmt.Errorf(format, args...),
	}
}

// Unknown creates the result for an unresolved command name.
func Unknown(name string) Result {
	return Result{
		Status:  StatusUnknown,
		Message: fmt.Sprintf("unknown command: %s\nType 'help' to see commands.", name),
	}
}

// Exit creates a result that ends the session.
func Exit() Result {
	return Result{Status: StatusExit}
}

// WithMessage returns a copy of the result with the specified message.
func (r Result) WithMessage(msg string) Result {
	r.Message = msg
	return r
}
