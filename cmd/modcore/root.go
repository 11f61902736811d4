// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/holomush/modcore/internal/bootstrap"
	"github.com/holomush/modcore/internal/config"
	"github.com/holomush/modcore/internal/logging"
)

var tracer = otel.Tracer("modcore/cli")

// cli is the state shared by every subcommand of one invocation.
type cli struct {
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
}

// NewRootCmd creates the root command for the modcore CLI.
func NewRootCmd() *cobra.Command {
	c := &cli{}

	cmd := &cobra.Command{
		Use:   "modcore",
		Short: "modcore - entity stat modifier engine",
		Long: `modcore checks modifier catalogs and simulates how modifiers change
an entity's stats over time.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file path")
	flags.String("catalog", "", "catalog YAML file (default: built-in catalog)")
	flags.String("log-format", config.DefaultLogFormat, "log format (json or text)")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	cmd.AddCommand(newValidateCmd(c))
	cmd.AddCommand(newTypesCmd(c))
	cmd.AddCommand(newSimulateCmd(c))
	cmd.AddCommand(newSchemaCmd())

	return cmd
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	lvl, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logging.Setup(logging.Options{
		Service: "modcore",
		Version: version,
		Format:  cfg.Log.Format,
		Level:   lvl,
		Output:  cmd.ErrOrStderr(),
	})
	slog.SetDefault(c.logger)
	return nil
}

// catalogs loads the configured catalog, or the built-in one.
func (c *cli) catalogs() (*bootstrap.Catalogs, error) {
	if c.cfg.Catalog == "" {
		return bootstrap.Default(), nil
	}
	cats, err := bootstrap.LoadFile(c.cfg.Catalog)
	if err != nil {
		return nil, oops.With("operation", "load_catalog").Wrap(err)
	}
	return cats, nil
}
