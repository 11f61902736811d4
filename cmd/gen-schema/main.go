// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Command gen-schema writes the catalog JSON Schema so editors can validate
// catalog files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/holomush/modcore/internal/bootstrap"
)

func main() {
	outPath := pflag.StringP("out", "o", filepath.Join("schemas", "catalog.schema.json"), "output file")
	pflag.Parse()

	if err := write(*outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s\n", *outPath)
}

func write(outPath string) error {
	schema, err := bootstrap.GenerateSchema()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return oops.With("path", outPath).Wrapf(err, "create directory")
	}
	if err := os.WriteFile(outPath, append(schema, '\n'), 0o600); err != nil {
		return oops.With("path", outPath).Wrapf(err, "write file")
	}
	return nil
}
