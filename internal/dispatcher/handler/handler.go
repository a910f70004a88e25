// Package handler provides the handler interface and result types for
// command dispatch.
package handler

import (
	"github.com/dshills/keycalc/internal/dispatcher/execctx"
)

// Handler processes one command.
type Handler interface {
	// Handle executes the command with the tokens that followed its name.
	Handle(ctx *execctx.Context, args []string) Result
}

// HandlerFunc is a function adapter for the Handler interface.
type HandlerFunc func(ctx *execctx.Context, args []string) Result

// Handle implements Handler.Handle.
func (f HandlerFunc) Handle(ctx *execctx.Context, args []string) Result {
	if f == nil {
		return Errorf("handler function is nil")
	}
	return f(ctx, args)
}
