// Package execctx provides the execution context handed to command handlers.
package execctx

import (
	"errors"
	"log/slog"

	"github.com/dshills/keycalc/internal/calculator"
	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/engine/history"
	"github.com/dshills/keycalc/internal/logging"
	"github.com/dshills/keycalc/internal/queue"
)

// ErrNoCalculator indicates a handler ran without a calculator.
var ErrNoCalculator = errors.New("execctx: no calculator")

// Context is the session state a handler may touch.
type Context struct {
	// Calculator executes operations and owns the history.
	Calculator *calculator.Calculator

	// Queue holds deferred math commands.
	Queue *queue.Queue

	// HistoryPath is the CSV file used by save and load.
	HistoryPath string

	// ExportPath is the default JSON export file.
	ExportPath string

	// Precision is the number of decimal places shown for results.
	Precision int

	// Logger receives handler diagnostics.
	Logger *slog.Logger
}

// New creates a context around calc with default paths and precision.
func New(calc *calculator.Calculator) *Context {
	return NewFromConfig(calc, config.Defaults(), nil)
}

// NewFromConfig creates a context using cfg for paths and precision.
func NewFromConfig(calc *calculator.Calculator, cfg config.Config, logger *slog.Logger) *Context {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Context{
		Calculator:  calc,
		Queue:       queue.New(),
		HistoryPath: cfg.HistoryPath(),
		ExportPath:  cfg.ExportPath(),
		Precision:   cfg.Precision,
		Logger:      logger,
	}
}

// History returns the calculator history.
func (c *Context) History() (*history.History, error) {
	if c == nil || c.Calculator == nil {
		return nil, ErrNoCalculator
	}
	return c.Calculator.History(), nil
}

// Log returns the context logger, never nil.
func (c *Context) Log() *slog.Logger {
	if c == nil || c.Logger == nil {
		return logging.Discard()
	}
	return c.Logger
}
