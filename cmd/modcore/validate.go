// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/holomush/modcore/internal/criteria"
	"github.com/holomush/modcore/pkg/errutil"
)

func newValidateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a modifier catalog",
		Long: `Loads the catalog, checks it against the catalog schema, compiles every
criteria expression, and resolves every target path.
Exits with code 0 on success, non-zero on failure.

Useful in CI pipelines to catch catalog errors early:
  modcore validate --catalog catalog.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runValidate(cmd)
		},
	}
}

func (c *cli) runValidate(cmd *cobra.Command) (err error) {
	ctx, span := tracer.Start(cmd.Context(), "modcore.validate")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	cats, err := c.catalogs()
	if err != nil {
		errutil.LogError(c.logger, "catalog failed to load", err)
		return err
	}

	problems := cats.Verify(criteria.NewCompiler(cats.Types))
	span.SetAttributes(
		attribute.Int("catalog.modifiers", cats.Modifiers.Len()),
		attribute.Int("catalog.problems", len(problems)),
	)
	for _, p := range problems {
		c.logger.ErrorContext(ctx, "catalog validation failed",
			"modifier_id", p.ModifierID,
			"field", p.Field,
			"code", errutil.Code(p.Err),
			"error", p.Err)
		cmd.PrintErrln(p.String())
	}
	if len(problems) > 0 {
		return oops.Code("CATALOG_INVALID").
			With("problems", len(problems)).
			Errorf("validation failed: %d problem(s) in %d modifiers", len(problems), cats.Modifiers.Len())
	}

	c.logger.InfoContext(ctx, "catalog valid", "types", cats.Types.Len(), "modifiers", cats.Modifiers.Len())
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d types, %d modifiers\n", cats.Types.Len(), cats.Modifiers.Len())
	return err
}
