// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package entity

import "github.com/holomush/modcore/internal/modifier"

// Outcome is the result of trying to attach an effect.
type Outcome int

// Outcomes of AddEffect. Refusals are expected results, not errors.
const (
	Applied Outcome = iota
	RefusedStackLimit
	RefusedDuration
	RefusedTarget
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case RefusedStackLimit:
		return "refused_stack_limit"
	case RefusedDuration:
		return "refused_duration"
	case RefusedTarget:
		return "refused_target"
	default:
		return "unknown"
	}
}

// Application reports what AddEffect did. Effect is set only when the
// outcome is Applied.
type Application struct {
	Effect  *modifier.Effect
	Outcome Outcome
}

// IsApplied reports whether the effect was attached.
func (a Application) IsApplied() bool {
	return a.Outcome == Applied
}
