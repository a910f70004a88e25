// Package logging builds the application's slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Sinks.
const (
	SinkFile   = "file"
	SinkStderr = "stderr"
	SinkNone   = "none"
)

// Rotation defaults for the file sink.
const (
	DefaultMaxSizeMB  = 1
	DefaultMaxBackups = 2
)

// Options configures New.
type Options struct {
	Level      string
	Sink       string
	File       string
	MaxSizeMB  int
	MaxBackups int
	App        string
	Version    string
}

// New builds a text logger for opts. The returned close function releases
// the file sink and is never nil.
func New(opts Options) (*slog.Logger, func() error, error) {
	writer, closeFn, err := resolveWriter(opts)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	logger := slog.New(handler)
	if opts.App != "" {
		logger = logger.With(slog.String("app", opts.App))
	}
	if opts.Version != "" {
		logger = logger.With(slog.String("version", opts.Version))
	}
	return logger, closeFn, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name to a slog level; unknown names mean info.
func ParseLevel(value string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func resolveWriter(opts Options) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	sink := strings.ToLower(strings.TrimSpace(opts.Sink))
	switch sink {
	case SinkNone:
		return io.Discard, noop, nil
	case SinkStderr, "":
		return os.Stderr, noop, nil
	case SinkFile:
		path := strings.TrimSpace(opts.File)
		if path == "" {
			return nil, nil, fmt.Errorf("logging: file sink requires a path")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: create dir: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    positive(opts.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: positive(opts.MaxBackups, DefaultMaxBackups),
		}
		return rot, rot.Close, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown sink %q", opts.Sink)
	}
}

func positive(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
