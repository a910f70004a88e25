package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvLogDir         = "CALCULATOR_LOG_DIR"
	EnvHistoryDir     = "CALCULATOR_HISTORY_DIR"
	EnvLogFile        = "CALCULATOR_LOG_FILE"
	EnvHistoryFile    = "CALCULATOR_HISTORY_FILE"
	EnvMaxHistorySize = "CALCULATOR_MAX_HISTORY_SIZE"
	EnvAutoSave       = "CALCULATOR_AUTO_SAVE"
	EnvPrecision      = "CALCULATOR_PRECISION"
	EnvMaxInputValue  = "CALCULATOR_MAX_INPUT_VALUE"
	EnvEncoding       = "CALCULATOR_DEFAULT_ENCODING"
	EnvColor          = "CALCULATOR_COLOR"
	EnvLogLevel       = "CALCULATOR_LOG_LEVEL"
	EnvLogSink        = "CALCULATOR_LOG_SINK"
	EnvPluginDir      = "CALCULATOR_PLUGIN_DIR"
)

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads variables from path into the process environment.
// Variables already set are not overridden. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

// WithEnv returns c overridden by environment variables.
// Values that fail to parse leave the current setting in place.
func (c Config) WithEnv(lookup LookupFunc) Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(env string) (string, bool) {
		v, ok := lookup(env)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}
	applyString := func(dst *string, env string) {
		if v, ok := get(env); ok {
			*dst = v
		}
	}
	applyInt := func(dst *int, env string) {
		if v, ok := get(env); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	applyFloat := func(dst *float64, env string) {
		if v, ok := get(env); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}
	applyBool := func(dst *bool, env string) {
		if v, ok := get(env); ok {
			*dst = isEnabledString(v)
		}
	}

	applyString(&c.LogDir, EnvLogDir)
	applyString(&c.HistoryDir, EnvHistoryDir)
	applyString(&c.LogFile, EnvLogFile)
	applyString(&c.HistoryFile, EnvHistoryFile)
	applyInt(&c.MaxHistorySize, EnvMaxHistorySize)
	applyBool(&c.AutoSave, EnvAutoSave)
	applyInt(&c.Precision, EnvPrecision)
	applyFloat(&c.MaxInputValue, EnvMaxInputValue)
	applyString(&c.Encoding, EnvEncoding)
	applyString(&c.LogLevel, EnvLogLevel)
	applyString(&c.LogSink, EnvLogSink)
	applyString(&c.PluginDir, EnvPluginDir)
	if v, ok := get(EnvColor); ok {
		c.Color = ParseColorMode(v)
	}
	return c
}

// ParseColorMode maps a user value to a ColorMode.
// Unrecognized values mean auto.
func ParseColorMode(value string) ColorMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on", "always":
		return ColorAlways
	case "false", "0", "no", "off", "never":
		return ColorNever
	default:
		return ColorAuto
	}
}

func isEnabledString(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
