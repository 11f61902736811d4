// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/holomush/modcore/internal/config"
	"github.com/holomush/modcore/internal/entity"
	"github.com/holomush/modcore/internal/hierarchy"
	"github.com/holomush/modcore/internal/modifier"
	"github.com/holomush/modcore/internal/value"
)

// probeID is the entity id used for the simulated target.
const probeID = 1

type simulateOptions struct {
	modifierID int
	typeID     int
	tags       []string
	stats      map[string]string
}

func newSimulateCmd(c *cli) *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Apply a modifier to a probe entity and print its stats over time",
		Long: `Builds a probe entity from --type, --tag and --stat, applies the modifier
at --from, then prints the entity's active stats every --step degrees up to --to.

Stats are given as name=amount or name=amount:min:max:
  modcore simulate --modifier -1 --stat health=10:0:20 --to 20 --step 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runSimulate(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.modifierID, "modifier", 0, "modifier id to apply")
	flags.IntVar(&opts.typeID, "type", hierarchy.TypeSelf, "type id of the probe entity")
	flags.StringSliceVar(&opts.tags, "tag", nil, "tag carried by the probe entity (repeatable)")
	flags.StringToStringVar(&opts.stats, "stat", nil, "base stat of the probe entity as name=amount[:min:max]")
	flags.Float64("from", config.DefaultFrom, "degree the effect starts at")
	flags.Float64("to", config.DefaultTo, "last degree printed")
	flags.Float64("step", config.DefaultStep, "degrees between printed rows")
	_ = cmd.MarkFlagRequired("modifier")

	return cmd
}

func (c *cli) runSimulate(cmd *cobra.Command, opts *simulateOptions) (err error) {
	ctx, span := tracer.Start(cmd.Context(), "modcore.simulate")
	span.SetAttributes(
		attribute.Int("modifier.id", opts.modifierID),
		attribute.Int("entity.type_id", opts.typeID),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	cats, err := c.catalogs()
	if err != nil {
		return err
	}
	engine := cats.Engine()

	if _, err := cats.Types.TypeByID(opts.typeID); err != nil {
		return oops.With("flag", "type").Wrap(err)
	}

	probe := entity.New(probeID, opts.typeID, "probe", opts.tags...)
	for name, raw := range opts.stats {
		v, err := parseStat(raw)
		if err != nil {
			return oops.With("flag", "stat").With("stat", name).Wrap(err)
		}
		probe.SetStat(name, v)
	}

	window := c.cfg.Simulate
	app, err := engine.AddEffect(probe, opts.modifierID, window.From, nil)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String("effect.outcome", app.Outcome.String()))
	c.logger.DebugContext(ctx, "simulation started",
		"modifier_id", opts.modifierID,
		"type_id", opts.typeID,
		"outcome", app.Outcome.String())

	out := cmd.OutOrStdout()
	if app.IsApplied() {
		_, err = fmt.Fprintf(out, "effect %d applied: modifier %d from %g until %s\n",
			app.Effect.ID(), opts.modifierID, app.Effect.StartsAt(), formatEnd(app.Effect))
	} else {
		_, err = fmt.Fprintf(out, "effect %s: modifier %d\n", app.Outcome, opts.modifierID)
	}
	if err != nil {
		return err //nolint:wrapcheck // plain write failure
	}

	for degree := window.From; degree <= window.To; degree += window.Step {
		if err := writeRow(out, degree, probe.ActiveStats(degree)); err != nil {
			return err
		}
	}
	return nil
}

func formatEnd(eff *modifier.Effect) string {
	if eff.IsInfinite() {
		return "never"
	}
	return strconv.FormatFloat(eff.EndsAt(), 'g', -1, 64)
}

func writeRow(w io.Writer, degree float64, stats map[string]*value.Value) error {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	fmt.Fprintf(&b, "%g", degree)
	for _, name := range names {
		fmt.Fprintf(&b, "\t%s=%g", name, stats[name].Amount())
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err //nolint:wrapcheck // plain write failure
}

// parseStat reads "amount" or "amount:min:max".
func parseStat(raw string) (*value.Value, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 1 && len(parts) != 3 {
		return nil, oops.Code("INVALID_STAT").Errorf("stat %q must be amount or amount:min:max", raw)
	}
	nums := make([]float64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, oops.Code("INVALID_STAT").Wrapf(err, "stat %q", raw)
		}
		nums[i] = n
	}
	if len(nums) == 1 {
		v := value.Default()
		v.SetAmount(nums[0])
		return v, nil
	}
	return value.New(nums[0], nums[1], nums[2]), nil
}
