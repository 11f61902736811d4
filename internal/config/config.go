// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads modcore CLI settings from an optional YAML file
// overlaid by command-line flags.
package config

import (
	"log/slog"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds every setting the CLI reads.
type Config struct {
	// Catalog is a YAML catalog path; empty selects the built-in catalog.
	Catalog  string   `koanf:"catalog"`
	Log      Log      `koanf:"log"`
	Simulate Simulate `koanf:"simulate"`
}

// Log configures the process logger.
type Log struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// Simulate bounds the degrees stepped through by the simulate command.
type Simulate struct {
	From float64 `koanf:"from"`
	To   float64 `koanf:"to"`
	Step float64 `koanf:"step"`
}

// Default values.
const (
	DefaultLogFormat = "text"
	DefaultLogLevel  = "info"
	DefaultFrom      = 0
	DefaultTo        = 20
	DefaultStep      = 5
)

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Log:      Log{Format: DefaultLogFormat, Level: DefaultLogLevel},
		Simulate: Simulate{From: DefaultFrom, To: DefaultTo, Step: DefaultStep},
	}
}

// flagKeys maps flag names to config keys. Flags not listed are not
// configuration (help, config itself, command arguments).
var flagKeys = map[string]string{
	"catalog":    "catalog",
	"log-format": "log.format",
	"log-level":  "log.level",
	"from":       "simulate.from",
	"to":         "simulate.to",
	"step":       "simulate.step",
}

// Load reads path (skipped when empty) and then flags, which win over the
// file when set explicitly. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "load flags")
		}
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("key", "log.format").
			Errorf("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Simulate.Step <= 0 {
		return oops.Code("CONFIG_INVALID").
			With("key", "simulate.step").
			Errorf("simulate.step must be positive, got %v", c.Simulate.Step)
	}
	if c.Simulate.To < c.Simulate.From {
		return oops.Code("CONFIG_INVALID").
			With("key", "simulate.to").
			Errorf("simulate.to (%v) is before simulate.from (%v)", c.Simulate.To, c.Simulate.From)
	}
	return nil
}

// SlogLevel parses Level.
func (l Log) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return 0, oops.Code("CONFIG_INVALID").With("key", "log.level").Wrap(err)
	}
	return lvl, nil
}
