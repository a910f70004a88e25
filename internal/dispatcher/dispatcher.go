package dispatcher

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

// Dispatcher turns input lines into handler calls.
type Dispatcher struct {
	registry *Registry
	ctx      *execctx.Context
	config   Config
	metrics  *Metrics
}

// New creates a dispatcher that resolves commands in registry and runs
// them against ctx.
func New(registry *Registry, ctx *execctx.Context, config Config) *Dispatcher {
	if registry == nil {
		registry = NewRegistry()
	}
	d := &Dispatcher{
		registry: registry,
		ctx:      ctx,
		config:   config,
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// NewWithDefaults creates a dispatcher with the default configuration.
func NewWithDefaults(registry *Registry, ctx *execctx.Context) *Dispatcher {
	return New(registry, ctx, DefaultConfig())
}

// Dispatch processes one input line and reports whether the session should
// continue along with the text to show. Domain failures come back as
// "error: ..." text, never as a stop.
func (d *Dispatcher) Dispatch(line string) (bool, string) {
	result := d.Execute(line)
	if result.IsExit() {
		return false, ""
	}
	return true, result.Text()
}

// Execute processes one input line and returns the handler result.
// A blank line yields an empty successful result.
func (d *Dispatcher) Execute(line string) handler.Result {
	line = strings.TrimSpace(line)
	if line == "" {
		return handler.Success()
	}

	tokens, err := shellquote.Split(line)
	if err != nil {
		return handler.Error(err)
	}
	if len(tokens) == 0 {
		return handler.Success()
	}
	name, args := tokens[0], tokens[1:]

	start := time.Now()
	var result handler.Result
	h := d.registry.Resolve(name)
	switch {
	case h == nil:
		result = handler.Unknown(name)
	case d.config.RecoverFromPanic:
		result = d.executeWithRecovery(name, h, args)
	default:
		result = h.Handle(d.ctx, args)
	}

	log := d.ctx.Log()
	log.Debug("dispatch", "command", name, "args", len(args), "status", result.Status.String())
	if result.IsError() {
		log.Warn("command failed", "command", name, "error", result.Text())
	}

	if d.metrics != nil {
		d.metrics.RecordDispatch(name, time.Since(start), result.Status)
	}
	return result
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(name string, h handler.Handler, args []string) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			d.ctx.Log().Error("handler panic", "command", name, "panic", r, "stack", string(stack[:n]))

			result = handler.Error(fmt.Errorf("%w: %s: %v", ErrHandlerPanic, name, r))

			if d.metrics != nil {
				d.metrics.RecordPanic(name)
			}
		}
	}()

	return h.Handle(d.ctx, args)
}

// Registry returns the command registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Context returns the execution context handed to handlers.
func (d *Dispatcher) Context() *execctx.Context {
	return d.ctx
}

// Metrics returns the metrics collector, or nil when disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}
