// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package modifier holds the immutable Modifier templates, the catalog they
// live in, and the Effects that instantiate them on an entity.
package modifier

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/samber/oops"

	"github.com/holomush/modcore/internal/hierarchy"
)

// Infinite is the duration (and end degree) of an effect that never expires.
const Infinite = -1

// Definition is the mutable input used to build a Modifier. Its field
// layout is the canonical serialized shape.
type Definition struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Duration    float64            `json:"duration"`
	Type        int                `json:"type"`
	Impact      map[string]float64 `json:"impact"`
	Targets     []string           `json:"targets"`
	Criteria    []string           `json:"criteria"`
	FalloffType FalloffType        `json:"falloffType"`
	Tags        []string           `json:"tags"`
	MaxStacks   int                `json:"maxStacks"`
	RangeMin    float64            `json:"rangeMin"`
	RangeMax    float64            `json:"rangeMax"`
}

// Modifier is a status effect template. It has no setters; every accessor
// returns a copy, so a Modifier can be shared freely once built.
type Modifier struct {
	def Definition
}

// New validates def and builds a Modifier from a deep copy of it.
// MaxStacks defaults to 1 when zero.
func New(def Definition) (*Modifier, error) {
	if !def.FalloffType.Valid() {
		return nil, oops.Code("INVALID_FALLOFF").
			With("modifier_id", def.ID).
			With("falloff", int(def.FalloffType)).
			Errorf("modifier %d has invalid falloff type %d", def.ID, int(def.FalloffType))
	}
	if def.MaxStacks == 0 {
		def.MaxStacks = 1
	}
	if def.MaxStacks < 0 {
		return nil, oops.Code("INVALID_MODIFIER").
			With("modifier_id", def.ID).
			Errorf("modifier %d: maxStacks must be at least 1, got %d", def.ID, def.MaxStacks)
	}
	if def.Duration < 0 && def.Duration != Infinite {
		return nil, oops.Code("INVALID_MODIFIER").
			With("modifier_id", def.ID).
			Errorf("modifier %d: duration must be positive or %d, got %v", def.ID, Infinite, def.Duration)
	}
	return &Modifier{def: cloneDefinition(def)}, nil
}

// MustNew is New for static catalog data; it panics on error.
func MustNew(def Definition) *Modifier {
	m, err := New(def)
	if err != nil {
		panic(err)
	}
	return m
}

// Parse rehydrates a Modifier from its JSON projection.
func Parse(data []byte) (*Modifier, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, oops.Code("MODIFIER_DECODE_FAILED").Wrap(err)
	}
	return New(def)
}

// MarshalJSON encodes the canonical projection.
func (m *Modifier) MarshalJSON() ([]byte, error) {
	//nolint:wrapcheck // plain struct encoding cannot fail
	return json.Marshal(m.def)
}

// Definition returns a deep copy of the fields the Modifier was built from.
func (m *Modifier) Definition() Definition { return cloneDefinition(m.def) }

// ID returns the catalog id.
func (m *Modifier) ID() int { return m.def.ID }

// Name returns the display name.
func (m *Modifier) Name() string { return m.def.Name }

// Description returns the display description.
func (m *Modifier) Description() string { return m.def.Description }

// Duration returns the length in degrees, or Infinite.
func (m *Modifier) Duration() float64 { return m.def.Duration }

// TypeID returns the modifier's own type in the taxonomy.
func (m *Modifier) TypeID() int { return m.def.Type }

// Impact returns a copy of the base impact.
func (m *Modifier) Impact() map[string]float64 { return maps.Clone(m.def.Impact) }

// Targets returns a copy of the type-path hints.
func (m *Modifier) Targets() []string { return slices.Clone(m.def.Targets) }

// Criteria returns a copy of the criteria texts.
func (m *Modifier) Criteria() []string { return slices.Clone(m.def.Criteria) }

// FalloffType returns the decay curve.
func (m *Modifier) FalloffType() FalloffType { return m.def.FalloffType }

// Tags returns a copy of the tags.
func (m *Modifier) Tags() []string { return slices.Clone(m.def.Tags) }

// MaxStacks returns how many effects of this modifier an entity may hold.
func (m *Modifier) MaxStacks() int { return m.def.MaxStacks }

// RangeMin returns the minimum application range.
func (m *Modifier) RangeMin() float64 { return m.def.RangeMin }

// RangeMax returns the maximum application range; 0 means unbounded.
func (m *Modifier) RangeMax() float64 { return m.def.RangeMax }

// HasTag reports whether any of tags is present.
func (m *Modifier) HasTag(tags ...string) bool {
	for _, t := range tags {
		if slices.Contains(m.def.Tags, t) {
			return true
		}
	}
	return false
}

// FalloffFactor returns the impact multiplier at degree, see FalloffType.Factor.
func (m *Modifier) FalloffFactor(degree, startsAt, endsAt float64) float64 {
	return m.def.FalloffType.Factor(degree, startsAt, endsAt)
}

// InRange reports whether distance lies within the modifier's range.
func (m *Modifier) InRange(distance float64) bool {
	return inRange(distance, m.def.RangeMin, m.def.RangeMax)
}

// IsChildOfType reports whether the modifier's own type descends from typeID.
func (m *Modifier) IsChildOfType(types *hierarchy.Registry, typeID int) (bool, error) {
	//nolint:wrapcheck // registry errors carry their own oops code
	return types.IsChildOfType(m.def.Type, typeID)
}

// Selector returns the modifier's targeting rule.
func (m *Modifier) Selector() (targets, criteria []string) {
	return m.Targets(), m.Criteria()
}

func inRange(distance, lo, hi float64) bool {
	if distance < lo {
		return false
	}
	return hi <= 0 || distance <= hi
}

func cloneDefinition(d Definition) Definition {
	d.Impact = maps.Clone(d.Impact)
	if d.Impact == nil {
		d.Impact = map[string]float64{}
	}
	d.Targets = cloneList(d.Targets)
	d.Criteria = cloneList(d.Criteria)
	d.Tags = cloneList(d.Tags)
	return d
}

// cloneList copies s, normalizing nil to empty so the JSON shape is stable.
func cloneList(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
