// Package app wires the calculator components together and manages their
// lifecycle.
package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/keycalc/internal/calculator"
	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/dispatcher"
	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handlers"
	"github.com/dshills/keycalc/internal/logging"
	"github.com/dshills/keycalc/internal/plugin/lua"
	"github.com/dshills/keycalc/internal/repl"
)

// Name is the application name used in logs.
const Name = "keycalc"

// Options configures the application.
type Options struct {
	// ConfigPath is an optional TOML or YAML config file.
	ConfigPath string

	// HistoryFile overrides the configured history file.
	HistoryFile string

	// LogLevel overrides the configured log level.
	LogLevel string

	// Color overrides the configured color mode.
	Color string

	// Version is attached to every log record.
	Version string

	// Stdout receives command output; defaults to os.Stdout.
	Stdout io.Writer

	// Lookup reads environment variables; defaults to os.LookupEnv.
	Lookup config.LookupFunc

	// SkipDotEnv disables .env loading.
	SkipDotEnv bool
}

// Application owns the configured calculator session.
type Application struct {
	opts Options

	config   config.Config
	logger   *slog.Logger
	closeLog func() error

	calc       *calculator.Calculator
	registry   *dispatcher.Registry
	dispatcher *dispatcher.Dispatcher
	plugins    *lua.Host

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates an Application and starts every component in dependency
// order. On failure the components already started are released.
func New(opts Options) (*Application, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		_ = app.Shutdown()
		return nil, err
	}
	return app, nil
}

func (app *Application) bootstrap() error {
	// 1. Config
	cfg, err := config.Load(config.LoadOptions{
		File:       app.opts.ConfigPath,
		SkipDotEnv: app.opts.SkipDotEnv,
		Lookup:     app.lookup(),
	})
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.config = cfg

	// 2. Logging
	logger, closeLog, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Sink:    cfg.LogSink,
		File:    cfg.LogPath(),
		App:     Name,
		Version: app.opts.Version,
	})
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	app.logger, app.closeLog = logger, closeLog
	logger.Debug("config loaded", "config", cfg.String())

	// 3. Calculator
	app.calc, err = calculator.NewFromConfig(cfg,
		calculator.NewLoggingObserver(logger),
		calculator.NewAutoSaveObserver(cfg.HistoryPath(), cfg.AutoSave, logger),
	)
	if err != nil {
		return &InitError{Component: "calculator", Err: err}
	}

	// 4. Commands
	app.registry = dispatcher.NewRegistry()
	if err := handlers.RegisterBuiltins(app.registry); err != nil {
		return &InitError{Component: "commands", Err: err}
	}

	// 5. Plugins
	if err := app.initPlugins(); err != nil {
		return &InitError{Component: "plugins", Err: err}
	}

	// 6. Dispatcher
	ctx := execctx.NewFromConfig(app.calc, cfg, logger)
	app.dispatcher = dispatcher.New(app.registry, ctx, dispatcher.DefaultConfig().WithMetrics())
	return nil
}

// initPlugins loads the plugin directory. Broken scripts and a missing
// directory are logged; only a failure to create the Lua state is fatal.
func (app *Application) initPlugins() error {
	dir := strings.TrimSpace(app.config.PluginDir)
	if dir == "" {
		return nil
	}
	host, err := lua.NewHost(app.registry, app.calc, lua.WithLogger(app.logger))
	if err != nil {
		return err
	}
	app.plugins = host

	n, err := host.LoadDir(dir)
	switch {
	case lua.IsMissingDir(err):
		app.logger.Warn("plugin directory not found", "dir", dir)
	case err != nil:
		app.logger.Warn("some plugins failed to load", "dir", dir, "loaded", n, "error", err)
	default:
		app.logger.Info("plugins loaded", "dir", dir, "count", n, "commands", host.Commands())
	}
	return nil
}

// lookup layers the option overrides over the environment.
func (app *Application) lookup() config.LookupFunc {
	base := app.opts.Lookup
	if base == nil {
		base = os.LookupEnv
	}
	overrides := make(map[string]string)
	if v := strings.TrimSpace(app.opts.HistoryFile); v != "" {
		if abs, err := filepath.Abs(v); err == nil {
			v = abs
		}
		overrides[config.EnvHistoryFile] = v
	}
	if v := strings.TrimSpace(app.opts.LogLevel); v != "" {
		overrides[config.EnvLogLevel] = v
	}
	if v := strings.TrimSpace(app.opts.Color); v != "" {
		overrides[config.EnvColor] = v
	}
	return func(key string) (string, bool) {
		if v, ok := overrides[key]; ok {
			return v, true
		}
		return base(key)
	}
}

// Config returns the resolved configuration.
func (app *Application) Config() config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger {
	return app.logger
}

// Calculator returns the calculator facade.
func (app *Application) Calculator() *calculator.Calculator {
	return app.calc
}

// Dispatcher returns the command dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// Plugins returns the Lua plugin host, or nil when no plugin directory is
// configured.
func (app *Application) Plugins() *lua.Host {
	return app.plugins
}

// RunREPL runs the interactive loop on in and returns the exit code.
func (app *Application) RunREPL(in io.Reader) int {
	app.logger.Info("session started")
	code := repl.Run(app.dispatcher, in, app.opts.Stdout, repl.Options{Color: app.config.Color})
	app.logger.Info("session ended", "code", code)
	return code
}

// Eval dispatches each line in order, writes non-empty output and returns
// how many commands failed. An exit command stops evaluation.
func (app *Application) Eval(lines []string) int {
	failed := 0
	for _, line := range lines {
		result := app.dispatcher.Execute(line)
		if result.IsExit() {
			break
		}
		if result.Failed() {
			failed++
		}
		if text := result.Text(); text != "" {
			_, _ = io.WriteString(app.opts.Stdout, text+"\n")
		}
	}
	return failed
}

// topCommandCount is how many commands the shutdown metrics list.
const topCommandCount = 5

// logMetrics writes the dispatch totals and the busiest commands at debug
// level. A nil collector logs nothing.
func logMetrics(logger *slog.Logger, m *dispatcher.Metrics) {
	if m == nil {
		return
	}
	s := m.Snapshot()
	logger.Debug("dispatch metrics",
		"dispatches", s.TotalDispatches,
		"errors", s.TotalErrors,
		"unknown", s.TotalUnknown,
		"panics", s.TotalPanics,
		"avg", s.AverageDuration,
	)
	for _, cm := range m.TopCommands(topCommandCount) {
		logger.Debug("command metrics",
			"command", cm.Name,
			"count", cm.DispatchCount,
			"error_rate", cm.ErrorRate(),
			"avg", cm.AverageDuration(),
		)
	}
}

// Shutdown releases the plugin host and the log sink. It is safe to call
// more than once.
func (app *Application) Shutdown() error {
	app.shutdownOnce.Do(func() {
		if app.dispatcher != nil && app.logger != nil {
			logMetrics(app.logger, app.dispatcher.Metrics())
		}
		if app.plugins != nil {
			if err := app.plugins.Close(); err != nil && app.logger != nil {
				app.logger.Warn("close plugins", "error", err)
			}
		}
		if app.closeLog != nil {
			app.shutdownErr = app.closeLog()
		}
	})
	return app.shutdownErr
}
