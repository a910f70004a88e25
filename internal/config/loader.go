package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadOptions controls Load.
type LoadOptions struct {
	// File is an optional TOML or YAML config file. A missing file is skipped.
	File string

	// DotEnv is the .env file to load; defaults to ".env" in the working directory.
	DotEnv string

	// SkipDotEnv disables .env loading.
	SkipDotEnv bool

	// Lookup reads environment variables; defaults to os.LookupEnv.
	Lookup LookupFunc

	// SkipDirs disables creation of the log and history directories.
	SkipDirs bool
}

// Load resolves the configuration from defaults, file and environment,
// validates it and creates the log and history directories.
func Load(opts LoadOptions) (Config, error) {
	cfg := Defaults()

	if opts.File != "" {
		loaded, err := LoadFile(cfg, opts.File)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	if !opts.SkipDotEnv {
		if err := LoadDotEnv(opts.DotEnv); err != nil {
			return Config{}, err
		}
	}
	cfg = cfg.WithEnv(opts.Lookup)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	if !opts.SkipDirs {
		if err := cfg.EnsureDirs(); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// LoadFile overlays the settings in path onto base. The format is chosen
// by extension. A missing file returns base unchanged.
func LoadFile(base Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return base, nil
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := base
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return Config{}, &ParseError{Path: path, Err: err}
	}
	return cfg, nil
}

// EnsureDirs creates the log and history directories.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.LogDir, c.HistoryDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
