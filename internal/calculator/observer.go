package calculator

import (
	"log/slog"

	"github.com/dshills/keycalc/internal/engine/calculation"
	"github.com/dshills/keycalc/internal/engine/history"
)

// Observer is called synchronously after each successful calculation.
type Observer interface {
	OnNewCalculation(calc calculation.Calculation, h *history.History)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(calc calculation.Calculation, h *history.History)

// OnNewCalculation implements Observer.
func (f ObserverFunc) OnNewCalculation(calc calculation.Calculation, h *history.History) {
	f(calc, h)
}

// LoggingObserver writes one info record per calculation.
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a LoggingObserver; a nil logger uses slog.Default.
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger}
}

// OnNewCalculation implements Observer.
func (o *LoggingObserver) OnNewCalculation(calc calculation.Calculation, h *history.History) {
	o.logger.Info("calculation",
		slog.String("op", calc.Operation),
		slog.Float64("a", calc.A),
		slog.Float64("b", calc.B),
		slog.Float64("result", calc.Result),
		slog.String("id", calc.ID),
		slog.String("ts", calc.Timestamp),
		slog.Int("size", h.Size()),
	)
}

// AutoSaveObserver saves the whole history after each calculation.
// Save failures are logged and never reach the caller.
type AutoSaveObserver struct {
	path    string
	enabled bool
	logger  *slog.Logger
}

// NewAutoSaveObserver creates an AutoSaveObserver writing to path.
func NewAutoSaveObserver(path string, enabled bool, logger *slog.Logger) *AutoSaveObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &AutoSaveObserver{path: path, enabled: enabled, logger: logger}
}

// OnNewCalculation implements Observer.
func (o *AutoSaveObserver) OnNewCalculation(_ calculation.Calculation, h *history.History) {
	if !o.enabled {
		return
	}
	if err := h.SaveTo(o.path); err != nil {
		o.logger.Warn("autosave failed", slog.String("path", o.path), slog.Any("err", err))
		return
	}
	o.logger.Debug("autosaved history", slog.String("path", o.path), slog.Int("size", h.Size()))
}
