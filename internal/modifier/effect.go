// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modifier

import (
	"encoding/json"
	"maps"
	"slices"
)

// Effect is a Modifier applied to an entity at a point in time. Its fields
// are the Modifier's, with any Adjustments folded in.
type Effect struct {
	id         int
	modifier   *Modifier
	startsAt   float64
	endsAt     float64
	fields     fields
	adjustment *Adjustments
}

// NewEffect instantiates mod at startsAt. adj may be nil.
func NewEffect(mod *Modifier, id int, startsAt float64, adj *Adjustments) *Effect {
	e := &Effect{id: id, modifier: mod, startsAt: startsAt}
	e.Adjust(adj)
	return e
}

// Adjust replaces the effect's adjustments with adj and re-derives every
// field from the Modifier, so applying the same adj twice is a no-op.
// It panics if adj fails Validate.
func (e *Effect) Adjust(adj *Adjustments) {
	e.adjustment = adj.Clone()
	e.fields = derive(e.modifier, e.adjustment)
	if e.fields.infinite {
		e.endsAt = Infinite
	} else {
		e.endsAt = e.startsAt + e.fields.duration
	}
}

// ID returns the effect id.
func (e *Effect) ID() int { return e.id }

// ModifierID returns the id of the Modifier the effect instantiates.
func (e *Effect) ModifierID() int { return e.modifier.ID() }

// Modifier returns the template the effect was built from.
func (e *Effect) Modifier() *Modifier { return e.modifier }

// StartsAt returns the degree the effect began at.
func (e *Effect) StartsAt() float64 { return e.startsAt }

// IsInfinite reports whether the effect never expires. Only a Modifier
// duration of Infinite, or a replace to Infinite, makes an effect infinite.
func (e *Effect) IsInfinite() bool { return e.fields.infinite }

// EndsAt returns the degree the effect expires at, or Infinite.
func (e *Effect) EndsAt() float64 { return e.endsAt }

// Duration returns the adjusted duration.
func (e *Effect) Duration() float64 { return e.fields.duration }

// BaseImpact returns the adjusted impact before falloff.
func (e *Effect) BaseImpact() map[string]float64 { return maps.Clone(e.fields.impact) }

// Targets returns the adjusted type-path hints.
func (e *Effect) Targets() []string { return slices.Clone(e.fields.targets) }

// Criteria returns the adjusted criteria texts.
func (e *Effect) Criteria() []string { return slices.Clone(e.fields.criteria) }

// FalloffType returns the adjusted decay curve.
func (e *Effect) FalloffType() FalloffType { return e.fields.falloffType }

// Tags returns the adjusted tags.
func (e *Effect) Tags() []string { return slices.Clone(e.fields.tags) }

// MaxStacks returns the adjusted stack limit.
func (e *Effect) MaxStacks() int { return e.fields.maxStacks }

// RangeMin returns the adjusted minimum range.
func (e *Effect) RangeMin() float64 { return e.fields.rangeMin }

// RangeMax returns the adjusted maximum range.
func (e *Effect) RangeMax() float64 { return e.fields.rangeMax }

// Adjustments returns a copy of the adjustments in force.
func (e *Effect) Adjustments() *Adjustments { return e.adjustment.Clone() }

// Selector returns the effect's adjusted targeting rule.
func (e *Effect) Selector() (targets, criteria []string) {
	return e.Targets(), e.Criteria()
}

// HasTag reports whether any of tags is present on the effect.
func (e *Effect) HasTag(tags ...string) bool {
	for _, t := range tags {
		if slices.Contains(e.fields.tags, t) {
			return true
		}
	}
	return false
}

// InRange reports whether distance lies within the adjusted range.
func (e *Effect) InRange(distance float64) bool {
	return inRange(distance, e.fields.rangeMin, e.fields.rangeMax)
}

// IsActive reports whether degree falls in [startsAt, endsAt). Infinite
// effects are always active.
func (e *Effect) IsActive(degree float64) bool {
	if e.fields.infinite {
		return true
	}
	return e.startsAt <= degree && degree < e.endsAt
}

// FalloffFactor returns the multiplier applied to the impact at degree.
func (e *Effect) FalloffFactor(degree float64) float64 {
	if e.fields.infinite {
		return e.fields.falloffType.spanFactor(degree-e.startsAt, 0)
	}
	return e.fields.falloffType.spanFactor(degree-e.startsAt, e.endsAt-e.startsAt)
}

// Impact returns the impact at degree. Only the Modifier's impact keys are
// reported; keys removed by an adjustment are absent.
func (e *Effect) Impact(degree float64) map[string]float64 {
	factor := e.FalloffFactor(degree)
	out := make(map[string]float64, len(e.fields.impact))
	for key := range e.modifier.def.Impact {
		if v, ok := e.fields.impact[key]; ok {
			out[key] = v * factor
		}
	}
	return out
}

type effectJSON struct {
	ID          int                `json:"id"`
	ModifierID  int                `json:"modifierId"`
	StartsAt    float64            `json:"startsAt"`
	EndsAt      float64            `json:"endsAt"`
	Duration    float64            `json:"duration"`
	Impact      map[string]float64 `json:"impact"`
	Targets     []string           `json:"targets"`
	Criteria    []string           `json:"criteria"`
	FalloffType FalloffType        `json:"falloffType"`
	Tags        []string           `json:"tags"`
	MaxStacks   int                `json:"maxStacks"`
	RangeMin    float64            `json:"rangeMin"`
	RangeMax    float64            `json:"rangeMax"`
	Adjustments *Adjustments       `json:"adjustments,omitempty"`
}

// MarshalJSON encodes every field of the effect. Decoding needs the
// Modifier, see Catalog.DecodeEffect.
func (e *Effect) MarshalJSON() ([]byte, error) {
	//nolint:wrapcheck // plain struct encoding cannot fail
	return json.Marshal(effectJSON{
		ID:          e.id,
		ModifierID:  e.ModifierID(),
		StartsAt:    e.startsAt,
		EndsAt:      e.endsAt,
		Duration:    e.fields.duration,
		Impact:      e.fields.impact,
		Targets:     cloneList(e.fields.targets),
		Criteria:    cloneList(e.fields.criteria),
		FalloffType: e.fields.falloffType,
		Tags:        cloneList(e.fields.tags),
		MaxStacks:   e.fields.maxStacks,
		RangeMin:    e.fields.rangeMin,
		RangeMax:    e.fields.rangeMax,
		Adjustments: e.adjustment,
	})
}
