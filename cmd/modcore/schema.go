// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/holomush/modcore/internal/bootstrap"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the catalog JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := bootstrap.GenerateSchema()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := out.Write(schema); err != nil {
				return err //nolint:wrapcheck // plain write failure
			}
			_, err = out.Write([]byte("\n"))
			return err //nolint:wrapcheck // plain write failure
		},
	}
}
