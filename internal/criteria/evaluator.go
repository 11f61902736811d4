// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package criteria

import (
	"github.com/holomush/modcore/internal/hierarchy"
	"github.com/holomush/modcore/internal/value"
)

// Candidate is anything criteria can be evaluated against.
type Candidate interface {
	TypeID() int
	HasTag(tag string) bool
	Tags() []string
	// Stat returns the named stat, or false when the candidate has none.
	Stat(name string) (*value.Value, bool)
}

// Evaluate walks n against c. Type tests use types for subtype membership.
// A comparison against a stat the candidate lacks is false.
func Evaluate(types *hierarchy.Registry, n Node, c Candidate) (bool, error) {
	switch n := n.(type) {
	case Const:
		return n.Value, nil

	case Compare:
		stat, ok := c.Stat(n.Property)
		if !ok {
			return false, nil
		}
		if n.Percent {
			return n.Op.apply(stat.Percentage(), n.Amount), nil
		}
		return n.Op.apply(stat.Amount(), n.Amount), nil

	case TagTest:
		if n.Like {
			return matchAnyTag(n, c.Tags()), nil
		}
		return c.HasTag(n.Tag) != n.Negate, nil

	case TypeTest:
		if !n.Subtypes {
			return (c.TypeID() == n.TypeID) != n.Negate, nil
		}
		//nolint:wrapcheck // registry errors carry their own oops code
		return types.IsOfType(c.TypeID(), n.TypeID)

	case And:
		for _, op := range n.Operands {
			ok, err := Evaluate(types, op, c)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil

	case Or:
		for _, op := range n.Operands {
			ok, err := Evaluate(types, op, c)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, nil
	}
}

func matchAnyTag(t TagTest, tags []string) bool {
	if t.pattern == nil {
		return false
	}
	for _, tag := range tags {
		if t.pattern.Match(tag) {
			return true
		}
	}
	return false
}
