package handlers

import (
	"fmt"

	"github.com/dshills/keycalc/internal/dispatcher"
	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
	"github.com/dshills/keycalc/internal/engine/operation"
	"github.com/dshills/keycalc/internal/queue"
)

// Enqueue defers "op a b" until runqueue.
func Enqueue(ctx *execctx.Context, args []string) handler.Result {
	if ctx == nil || ctx.Queue == nil {
		return handler.Errorf("no command queue")
	}
	if len(args) != 3 {
		return handler.Error(fmt.Errorf("usage: enqueue <op> <a> <b>: %w", dispatcher.ErrArgCount))
	}
	op, err := operation.Lookup(args[0])
	if err != nil {
		return handler.Error(err)
	}
	a, b, err := ParseTwo(args[1:])
	if err != nil {
		return handler.Error(err)
	}
	cmd := queue.Command{Op: op.Name, A: a, B: b}
	ctx.Queue.Enqueue(cmd)
	return handler.SuccessWithMessage("enqueued: " + cmd.String())
}

// ListQueue shows the pending commands.
func ListQueue(ctx *execctx.Context, _ []string) handler.Result {
	if ctx == nil || ctx.Queue == nil || ctx.Queue.Len() == 0 {
		return handler.SuccessWithMessage("queue: empty")
	}
	return handler.Lines(ctx.Queue.List())
}

// RunQueue executes every pending command in order. A failing command
// reports its error in place and the run continues.
func RunQueue(ctx *execctx.Context, _ []string) handler.Result {
	if ctx == nil || ctx.Queue == nil || ctx.Queue.Len() == 0 {
		return handler.SuccessWithMessage("queue: empty")
	}
	if ctx.Calculator == nil {
		return handler.Error(execctx.ErrNoCalculator)
	}
	outcomes, err := ctx.Queue.RunAll(ctx.Calculator)
	if err != nil {
		return handler.Error(err)
	}
	lines := make([]string, len(outcomes))
	for i, out := range outcomes {
		if !out.OK() {
			lines[i] = "error: " + out.Err.Error()
			continue
		}
		lines[i] = FormatCalculation(out.Command.Op, out.Calculation, ctx.Precision)
	}
	return handler.Lines(lines)
}

// ClearQueue drops every pending command.
func ClearQueue(ctx *execctx.Context, _ []string) handler.Result {
	n := 0
	if ctx != nil && ctx.Queue != nil {
		n = ctx.Queue.Clear()
	}
	return handler.SuccessWithMessage(fmt.Sprintf("queue cleared (%d)", n))
}
