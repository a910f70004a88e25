package app

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/keycalc/internal/config"
)

func testEnv(t *testing.T, extra map[string]string) config.LookupFunc {
	t.Helper()
	dir := t.TempDir()
	env := map[string]string{
		config.EnvLogDir:     filepath.Join(dir, "logs"),
		config.EnvHistoryDir: filepath.Join(dir, "history"),
		config.EnvLogSink:    config.SinkNone,
		config.EnvAutoSave:   "false",
	}
	for k, v := range extra {
		env[k] = v
	}
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func newTestApp(t *testing.T, out *bytes.Buffer, opts Options) *Application {
	t.Helper()
	opts.Stdout = out
	opts.SkipDotEnv = true
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = a.Shutdown() })
	return a
}

func TestEvalCountsFailures(t *testing.T) {
	var out bytes.Buffer
	a := newTestApp(t, &out, Options{Lookup: testEnv(t, nil)})

	failed := a.Eval([]string{"add 2 3", "divide 1 0", "bogus", "history"})
	if failed != 2 {
		t.Errorf("failed = %d, want 2", failed)
	}

	s := out.String()
	for _, want := range []string{
		"add(2.0, 3.0) = 5.0\n",
		"error: division by zero\n",
		"unknown command: bogus\n",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
	if got := a.Calculator().History().Size(); got != 1 {
		t.Errorf("history size = %d, want 1", got)
	}
}

func TestEvalStopsAtExit(t *testing.T) {
	var out bytes.Buffer
	a := newTestApp(t, &out, Options{Lookup: testEnv(t, nil)})

	if failed := a.Eval([]string{"add 1 1", "exit", "add 2 2"}); failed != 0 {
		t.Errorf("failed = %d", failed)
	}
	if strings.Contains(out.String(), "add(2.0, 2.0)") {
		t.Errorf("command after exit ran: %q", out.String())
	}
}

func TestHistoryFileOverrideWithAutoSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.csv")
	var out bytes.Buffer
	a := newTestApp(t, &out, Options{
		HistoryFile: path,
		Lookup:      testEnv(t, map[string]string{config.EnvAutoSave: "true"}),
	})

	if got := a.Config().HistoryPath(); got != path {
		t.Errorf("HistoryPath = %q, want %q", got, path)
	}
	a.Eval([]string{"multiply 3 4"})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("autosave file: %v", err)
	}
	if !strings.Contains(string(data), "multiply") {
		t.Errorf("autosave content = %q", data)
	}
}

func TestOptionOverrides(t *testing.T) {
	var out bytes.Buffer
	a := newTestApp(t, &out, Options{
		LogLevel: "debug",
		Color:    "never",
		Lookup:   testEnv(t, map[string]string{config.EnvLogLevel: "error"}),
	})

	cfg := a.Config()
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Color != config.ColorNever {
		t.Errorf("Color = %q, want %q", cfg.Color, config.ColorNever)
	}
}

func TestInvalidConfig(t *testing.T) {
	_, err := New(Options{
		Stdout:     &bytes.Buffer{},
		SkipDotEnv: true,
		Lookup:     testEnv(t, map[string]string{config.EnvMaxHistorySize: "0"}),
	})
	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("err = %v, want InitError", err)
	}
	if initErr.Component != "config" {
		t.Errorf("Component = %q", initErr.Component)
	}
	var vErr *config.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("err does not wrap ValidationError: %v", err)
	}
}

func TestPlugins(t *testing.T) {
	dir := t.TempDir()
	script := `
register("double", "Double a number", function(args)
  calc("multiply", tonumber(args[1]), 2)
  return "doubled " .. args[1]
end)
`
	if err := os.WriteFile(filepath.Join(dir, "double.lua"), []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.lua"), []byte("this is not lua"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	a := newTestApp(t, &out, Options{Lookup: testEnv(t, map[string]string{config.EnvPluginDir: dir})})
	if a.Plugins() == nil {
		t.Fatal("plugin host not created")
	}

	if failed := a.Eval([]string{"double 4"}); failed != 0 {
		t.Fatalf("plugin command failed: %q", out.String())
	}
	if !strings.Contains(out.String(), "doubled 4") {
		t.Errorf("output = %q", out.String())
	}
	if got := a.Calculator().History().Size(); got != 1 {
		t.Errorf("history size = %d, want 1", got)
	}

	out.Reset()
	a.Eval([]string{"help"})
	if !strings.Contains(out.String(), "Double a number") {
		t.Errorf("help lacks plugin command: %q", out.String())
	}
}

func TestMissingPluginDir(t *testing.T) {
	var out bytes.Buffer
	missing := filepath.Join(t.TempDir(), "nope")
	a := newTestApp(t, &out, Options{Lookup: testEnv(t, map[string]string{config.EnvPluginDir: missing})})
	if a.Plugins() == nil {
		t.Error("host should exist even when the directory is missing")
	}
}

func TestRunREPL(t *testing.T) {
	var out bytes.Buffer
	a := newTestApp(t, &out, Options{Color: "false", Lookup: testEnv(t, nil)})

	code := a.RunREPL(strings.NewReader("subtract 5 2\nexit\n"))
	if code != 0 {
		t.Errorf("code = %d", code)
	}
	if !strings.Contains(out.String(), "subtract(5.0, 2.0) = 3.0") {
		t.Errorf("output = %q", out.String())
	}
	if strings.Contains(out.String(), "\x1b[") {
		t.Errorf("color disabled but output has escapes: %q", out.String())
	}
}

func TestShutdownTwice(t *testing.T) {
	var out bytes.Buffer
	a := newTestApp(t, &out, Options{Lookup: testEnv(t, nil)})
	a.Eval([]string{"add 1 2"})
	if err := a.Shutdown(); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
	if err := a.Shutdown(); err != nil {
		t.Errorf("second Shutdown: %v", err)
	}
}

func TestLogMetricsListsTopCommands(t *testing.T) {
	var out bytes.Buffer
	a := newTestApp(t, &out, Options{Lookup: testEnv(t, nil)})
	a.Eval([]string{"add 1 2", "add 3 4", "divide 1 0", "bogus"})

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logMetrics(logger, a.Dispatcher().Metrics())

	s := logs.String()
	for _, want := range []string{
		"dispatch metrics",
		"dispatches=4",
		"unknown=1",
		"command=add count=2",
		"command=divide count=1 error_rate=100",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("metrics log missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "command=bogus") {
		t.Errorf("unknown command listed: %s", s)
	}

	logs.Reset()
	logMetrics(logger, nil)
	if logs.Len() != 0 {
		t.Errorf("nil metrics logged %q", logs.String())
	}
}
