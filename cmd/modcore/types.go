// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"
)

func newTypesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "Print the type taxonomy",
		Long:  `Prints the taxonomy of the configured catalog as an indented tree.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := c.catalogs()
			if err != nil {
				return err
			}
			//nolint:wrapcheck // write errors to the command output are reported as is
			return cats.Types.Display(cmd.OutOrStdout())
		},
	}
}
