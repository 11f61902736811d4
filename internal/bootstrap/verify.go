// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package bootstrap

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/holomush/modcore/internal/criteria"
)

// Problem is a modifier field that will fail at query time.
type Problem struct {
	ModifierID int
	Field      string
	Err        error
}

func (p Problem) String() string {
	return fmt.Sprintf("modifier %d: %s: %v", p.ModifierID, p.Field, p.Err)
}

// Verify compiles every criteria text and resolves every target path in
// the catalog. Compile errors are otherwise deferred until a rule is first
// evaluated, so loaders that want to fail fast call Verify.
func (c *Catalogs) Verify(compiler *criteria.Compiler) []Problem {
	var problems []Problem
	for _, m := range c.Modifiers.All() {
		for i, src := range m.Criteria() {
			if err := compiler.Validate(src); err != nil {
				problems = append(problems, Problem{
					ModifierID: m.ID(),
					Field:      fmt.Sprintf("criteria[%d]", i),
					Err:        err,
				})
			}
		}
		for i, path := range m.Targets() {
			if len(c.Types.Search(path)) == 0 {
				problems = append(problems, Problem{
					ModifierID: m.ID(),
					Field:      fmt.Sprintf("targets[%d]", i),
					Err:        oops.Code("TARGET_NOT_FOUND").
						With("path", path).
						Errorf("type path %q matches nothing", path),
				})
			}
		}
	}
	return problems
}
