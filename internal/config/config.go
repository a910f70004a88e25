package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// ColorMode controls colored terminal output.
type ColorMode string

const (
	// ColorAuto colors output only when writing to a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways forces colored output.
	ColorAlways ColorMode = "true"
	// ColorNever disables colored output.
	ColorNever ColorMode = "false"
)

// Log sinks.
const (
	SinkFile   = "file"
	SinkStderr = "stderr"
	SinkNone   = "none"
)

// Default values.
const (
	DefaultLogDir         = "var/logs"
	DefaultHistoryDir     = "var/history"
	DefaultLogFile        = "calculator.log"
	DefaultHistoryFile    = "history.csv"
	DefaultExportFile     = "history.json"
	DefaultMaxHistorySize = 1000
	DefaultPrecision      = 6
	MaxPrecision          = 17
	DefaultMaxInputValue  = 1e12
	DefaultEncoding       = "utf-8"
	DefaultLogLevel       = "info"
)

// Config holds every calculator setting.
type Config struct {
	LogDir         string    `toml:"log_dir" yaml:"log_dir"`
	HistoryDir     string    `toml:"history_dir" yaml:"history_dir"`
	LogFile        string    `toml:"log_file" yaml:"log_file"`
	HistoryFile    string    `toml:"history_file" yaml:"history_file"`
	MaxHistorySize int       `toml:"max_history_size" yaml:"max_history_size"`
	AutoSave       bool      `toml:"auto_save" yaml:"auto_save"`
	Precision      int       `toml:"precision" yaml:"precision"`
	MaxInputValue  float64   `toml:"max_input_value" yaml:"max_input_value"`
	Encoding       string    `toml:"encoding" yaml:"encoding"`
	Color          ColorMode `toml:"color" yaml:"color"`
	LogLevel       string    `toml:"log_level" yaml:"log_level"`
	LogSink        string    `toml:"log_sink" yaml:"log_sink"`
	PluginDir      string    `toml:"plugin_dir" yaml:"plugin_dir"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		LogDir:         DefaultLogDir,
		HistoryDir:     DefaultHistoryDir,
		LogFile:        DefaultLogFile,
		HistoryFile:    DefaultHistoryFile,
		MaxHistorySize: DefaultMaxHistorySize,
		AutoSave:       true,
		Precision:      DefaultPrecision,
		MaxInputValue:  DefaultMaxInputValue,
		Encoding:       DefaultEncoding,
		Color:          ColorAuto,
		LogLevel:       DefaultLogLevel,
		LogSink:        SinkFile,
	}
}

// HistoryPath returns the CSV history file path.
// An absolute HistoryFile is used as is.
func (c Config) HistoryPath() string {
	return join(c.HistoryDir, c.HistoryFile)
}

// LogPath returns the log file path.
func (c Config) LogPath() string {
	return join(c.LogDir, c.LogFile)
}

// ExportPath returns the default JSON export path.
func (c Config) ExportPath() string {
	return join(c.HistoryDir, DefaultExportFile)
}

func join(dir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}

// TextEncoding resolves Encoding to a text encoding.
func (c Config) TextEncoding() (encoding.Encoding, error) {
	enc, err := htmlindex.Get(strings.TrimSpace(c.Encoding))
	if err != nil {
		return nil, &ValidationError{Setting: "encoding", Message: "unknown encoding", Value: c.Encoding}
	}
	return enc, nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	if c.MaxHistorySize <= 0 {
		return &ValidationError{Setting: "max_history_size", Message: "must be positive", Value: c.MaxHistorySize}
	}
	if c.MaxInputValue <= 0 {
		return &ValidationError{Setting: "max_input_value", Message: "must be positive", Value: c.MaxInputValue}
	}
	if c.Precision < 0 || c.Precision > MaxPrecision {
		return &ValidationError{Setting: "precision", Message: fmt.Sprintf("must be between 0 and %d", MaxPrecision), Value: c.Precision}
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return &ValidationError{Setting: "color", Message: "must be auto, true or false", Value: c.Color}
	}
	switch c.LogSink {
	case SinkFile, SinkStderr, SinkNone:
	default:
		return &ValidationError{Setting: "log_sink", Message: "must be file, stderr or none", Value: c.LogSink}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Setting: "log_level", Message: "must be debug, info, warn or error", Value: c.LogLevel}
	}
	if strings.TrimSpace(c.HistoryFile) == "" {
		return &ValidationError{Setting: "history_file", Message: "must not be empty", Value: c.HistoryFile}
	}
	if _, err := c.TextEncoding(); err != nil {
		return err
	}
	return nil
}

// String summarizes the configuration for logs.
func (c Config) String() string {
	return fmt.Sprintf("history=%s max_history=%d autosave=%t precision=%d max_input=%g encoding=%s",
		c.HistoryPath(), c.MaxHistorySize, c.AutoSave, c.Precision, c.MaxInputValue, c.Encoding)
}
