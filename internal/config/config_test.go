// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/modcore/internal/config"
	"github.com/holomush/modcore/pkg/errutil"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("catalog", "", "")
	fs.String("log-format", config.DefaultLogFormat, "")
	fs.String("log-level", config.DefaultLogLevel, "")
	fs.Float64("from", config.DefaultFrom, "")
	fs.Float64("to", config.DefaultTo, "")
	fs.Float64("step", config.DefaultStep, "")
	fs.Int("modifier", 0, "")
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "modcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), *cfg)

	cfg, err = config.Load("", newFlags())
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), *cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
catalog: /etc/modcore/catalog.yaml
log:
  format: json
  level: debug
simulate:
  to: 40
  step: 2
`)
	cfg, err := config.Load(path, newFlags())
	require.NoError(t, err)

	assert.Equal(t, "/etc/modcore/catalog.yaml", cfg.Catalog)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, config.Simulate{From: 0, To: 40, Step: 2}, cfg.Simulate)

	lvl, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "log:\n  format: json\nsimulate:\n  step: 2\n")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--log-format=text", "--to=8", "--modifier=3"}))

	cfg, err := config.Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 8.0, cfg.Simulate.To)
	assert.Equal(t, 2.0, cfg.Simulate.Step, "unset flags keep file values")
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")

	tests := []struct {
		name string
		body string
		key  string
	}{
		{"bad format", "log:\n  format: xml\n", "log.format"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"zero step", "simulate:\n  step: 0\n", "simulate.step"},
		{"inverted range", "simulate:\n  from: 10\n  to: 5\n", "simulate.to"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body), nil)
			errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
			errutil.AssertErrorContext(t, err, "key", tt.key)
		})
	}
}
