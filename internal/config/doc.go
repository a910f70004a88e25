// Package config provides the calculator configuration.
//
// Configuration is resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← applied by the caller
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← CALCULATOR_*, plus .env
//	├─────────────────────────────┤
//	│  2. Config File             │  ← TOML or YAML
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// Environment values that do not parse keep the value from the layer below.
//
// # Usage
//
//	cfg, err := config.Load(config.LoadOptions{File: path})
//	if err != nil {
//	    return err
//	}
//	h, err := history.New(cfg.MaxHistorySize)
package config
