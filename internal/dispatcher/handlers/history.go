package handlers

import (
	"fmt"
	"strings"

	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
	"github.com/dshills/keycalc/internal/engine/history"
)

// History lists every calculation as "op(a, b) = result [timestamp]".
func History(ctx *execctx.Context, _ []string) handler.Result {
	h, err := ctx.History()
	if err != nil {
		return handler.Error(err)
	}
	items := h.Items()
	if len(items) == 0 {
		return handler.SuccessWithMessage("history: empty")
	}
	lines := make([]string, len(items))
	for i, c := range items {
		lines[i] = fmt.Sprintf("%s [%s]", FormatCalculation(c.Operation, c, ctx.Precision), c.Timestamp)
	}
	return handler.Lines(lines)
}

// Clear empties the history.
func Clear(ctx *execctx.Context, _ []string) handler.Result {
	h, err := ctx.History()
	if err != nil {
		return handler.Error(err)
	}
	h.Clear()
	return handler.SuccessWithMessage("history cleared")
}

// Undo moves the latest calculation to the redo stack.
func Undo(ctx *execctx.Context, _ []string) handler.Result {
	h, err := ctx.History()
	if err != nil {
		return handler.Error(err)
	}
	c, err := h.Undo()
	if err != nil {
		return handler.Error(err)
	}
	return handler.SuccessWithMessage("undo: " + formatOperands(c))
}

// Redo reapplies the most recently undone calculation.
func Redo(ctx *execctx.Context, _ []string) handler.Result {
	h, err := ctx.History()
	if err != nil {
		return handler.Error(err)
	}
	c, err := h.Redo()
	if err != nil {
		return handler.Error(err)
	}
	return handler.SuccessWithMessage("redo: " + formatOperands(c))
}

// Save writes the history to the configured CSV file.
func Save(ctx *execctx.Context, _ []string) handler.Result {
	h, err := ctx.History()
	if err != nil {
		return handler.Error(err)
	}
	if err := h.SaveTo(ctx.HistoryPath); err != nil {
		return handler.Error(err)
	}
	return handler.SuccessWithMessage("saved: " + ctx.HistoryPath)
}

// Load replaces the history with the configured CSV file.
// A missing or malformed file loads nothing and is not an error.
func Load(ctx *execctx.Context, _ []string) handler.Result {
	h, err := ctx.History()
	if err != nil {
		return handler.Error(err)
	}
	outcome := h.Load(ctx.HistoryPath, true)
	switch outcome.Status {
	case history.LoadMalformed:
		ctx.Log().Warn("history file not loaded", "path", ctx.HistoryPath, "error", outcome.Err)
	case history.LoadNotFound:
		ctx.Log().Debug("history file not found", "path", ctx.HistoryPath)
	}
	return handler.SuccessWithMessage(fmt.Sprintf("loaded: %d item(s)", outcome.Loaded()))
}

// Export writes the history as JSON to the given path or the default
// export file.
func Export(ctx *execctx.Context, args []string) handler.Result {
	h, err := ctx.History()
	if err != nil {
		return handler.Error(err)
	}
	if len(args) > 1 {
		return handler.Errorf("usage: export [path]")
	}
	path := ctx.ExportPath
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		path = args[0]
	}
	n, err := h.ExportTo(path)
	if err != nil {
		return handler.Error(err)
	}
	return handler.SuccessWithMessage(fmt.Sprintf("exported: %d item(s) to %s", n, path))
}

// Import appends the calculations in a JSON export file.
func Import(ctx *execctx.Context, args []string) handler.Result {
	h, err := ctx.History()
	if err != nil {
		return handler.Error(err)
	}
	if len(args) != 1 {
		return handler.Errorf("usage: import <path>")
	}
	n, err := h.ImportFrom(args[0])
	if err != nil {
		return handler.Error(err)
	}
	return handler.SuccessWithMessage(fmt.Sprintf("imported: %d item(s)", n))
}
