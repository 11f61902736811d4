// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package entity holds the things modifiers act on. An Entity owns its base
// stats and the effects attached to it; aggregated stats are computed on
// demand for an explicit degree.
package entity

import (
	"encoding/json"
	"log/slog"
	"maps"
	"slices"

	"github.com/samber/oops"

	"github.com/holomush/modcore/internal/hierarchy"
	"github.com/holomush/modcore/internal/modifier"
	"github.com/holomush/modcore/internal/value"
)

// ModifierLookup resolves catalog ids. *modifier.Catalog implements it.
type ModifierLookup interface {
	Get(id int) (*modifier.Modifier, error)
}

// Entity is a typed, tagged holder of stats and effects. It is not safe for
// concurrent mutation.
type Entity struct {
	id      int
	typeID  int
	name    string
	tags    []string
	stats   map[string]*value.Value
	effects []*modifier.Effect
	focus   []int

	lastEffectID int
}

// New creates an entity with no stats or effects.
func New(id, typeID int, name string, tags ...string) *Entity {
	e := &Entity{
		id:     id,
		typeID: typeID,
		name:   name,
		stats:  make(map[string]*value.Value),
	}
	e.AddTag(tags...)
	return e
}

// ID returns the entity id.
func (e *Entity) ID() int { return e.id }

// TypeID returns the entity's node id in the taxonomy.
func (e *Entity) TypeID() int { return e.typeID }

// Name returns the display name.
func (e *Entity) Name() string { return e.name }

// Tags returns the tags in insertion order.
func (e *Entity) Tags() []string { return slices.Clone(e.tags) }

// HasTag reports whether tag is set.
func (e *Entity) HasTag(tag string) bool { return slices.Contains(e.tags, tag) }

// AddTag adds tags that are not already set.
func (e *Entity) AddTag(tags ...string) {
	for _, t := range tags {
		if !e.HasTag(t) {
			e.tags = append(e.tags, t)
		}
	}
}

// RemoveTag removes tags.
func (e *Entity) RemoveTag(tags ...string) {
	e.tags = slices.DeleteFunc(e.tags, func(t string) bool {
		return slices.Contains(tags, t)
	})
}

// SetStat stores a copy of v as the base stat name.
func (e *Entity) SetStat(name string, v *value.Value) {
	e.stats[name] = v.Clone()
}

// Stat returns a copy of the base stat name.
func (e *Entity) Stat(name string) (*value.Value, bool) {
	v, ok := e.stats[name]
	if !ok {
		return nil, false
	}
	return v.Clone(), true
}

// BaseStats returns a copy of every base stat.
func (e *Entity) BaseStats() map[string]*value.Value {
	return cloneStats(e.stats)
}

// Effects returns the attached effects in the order they were added.
func (e *Entity) Effects() []*modifier.Effect { return slices.Clone(e.effects) }

// Effect returns the attached effect with id.
func (e *Entity) Effect(id int) (*modifier.Effect, bool) {
	for _, eff := range e.effects {
		if eff.ID() == id {
			return eff, true
		}
	}
	return nil, false
}

// AddEffect instantiates modifierID at degree and attaches it unless the
// entity already holds MaxStacks effects of that modifier or the adjusted
// duration is not positive. An unknown modifier or an adjustment naming an
// undefined falloff curve is an error; refusals are reported through the
// returned Application.
func (e *Entity) AddEffect(lookup ModifierLookup, modifierID int, degree float64, adj *modifier.Adjustments) (Application, error) {
	mod, err := lookup.Get(modifierID)
	if err != nil {
		return Application{}, oops.With("entity_id", e.id).Wrap(err)
	}
	if err := adj.Validate(); err != nil {
		return Application{}, oops.With("entity_id", e.id).With("modifier_id", modifierID).Wrap(err)
	}

	candidate := modifier.NewEffect(mod, e.lastEffectID+1, degree, adj)

	outcome := Applied
	switch {
	case e.countStacks(modifierID) >= candidate.MaxStacks():
		outcome = RefusedStackLimit
	case !candidate.IsInfinite() && candidate.Duration() <= 0:
		outcome = RefusedDuration
	}
	effectApplications.WithLabelValues(outcome.String()).Inc()

	if outcome != Applied {
		slog.Debug("effect refused",
			"entity_id", e.id,
			"modifier_id", modifierID,
			"outcome", outcome.String())
		return Application{Outcome: outcome}, nil
	}

	e.lastEffectID = candidate.ID()
	e.effects = append(e.effects, candidate)
	return Application{Effect: candidate, Outcome: Applied}, nil
}

func (e *Entity) countStacks(modifierID int) int {
	n := 0
	for _, eff := range e.effects {
		if eff.ModifierID() == modifierID {
			n++
		}
	}
	return n
}

// IsEffectActive reports whether the effect with effectID is attached and
// active at degree.
func (e *Entity) IsEffectActive(effectID int, degree float64) bool {
	eff, ok := e.Effect(effectID)
	return ok && eff.IsActive(degree)
}

// PruneExpired drops effects whose end lies at or before degree and
// returns how many were dropped. Effects that have not started yet stay.
func (e *Entity) PruneExpired(degree float64) int {
	before := len(e.effects)
	e.effects = slices.DeleteFunc(e.effects, func(eff *modifier.Effect) bool {
		return !eff.IsInfinite() && degree >= eff.EndsAt()
	})
	return before - len(e.effects)
}

// Stats returns the base stats plus the impact at degree of every attached
// effect, active or not. Stats the entity lacks start from value.Default.
func (e *Entity) Stats(degree float64) map[string]*value.Value {
	return e.aggregate(degree, false)
}

// ActiveStats is Stats restricted to effects active at degree.
func (e *Entity) ActiveStats(degree float64) map[string]*value.Value {
	return e.aggregate(degree, true)
}

func (e *Entity) aggregate(degree float64, activeOnly bool) map[string]*value.Value {
	out := cloneStats(e.stats)
	for _, eff := range e.effects {
		if activeOnly && !eff.IsActive(degree) {
			continue
		}
		for key, delta := range eff.Impact(degree) {
			v, ok := out[key]
			if !ok {
				v = value.Default()
				out[key] = v
			}
			v.Add(delta)
		}
	}
	return out
}

// IsChildOfType reports whether the entity's type descends from typeID.
func (e *Entity) IsChildOfType(types *hierarchy.Registry, typeID int) (bool, error) {
	//nolint:wrapcheck // registry errors carry their own oops code
	return types.IsChildOfType(e.typeID, typeID)
}

// AddFocus starts tracking the entity with id. It reports false if it was
// already tracked.
func (e *Entity) AddFocus(id int) bool {
	if slices.Contains(e.focus, id) {
		return false
	}
	e.focus = append(e.focus, id)
	return true
}

// RemoveFocus stops tracking id. It reports false if id was not tracked.
func (e *Entity) RemoveFocus(id int) bool {
	i := slices.Index(e.focus, id)
	if i < 0 {
		return false
	}
	e.focus = slices.Delete(e.focus, i, i+1)
	return true
}

// IsFocusedOn reports whether id is tracked.
func (e *Entity) IsFocusedOn(id int) bool { return slices.Contains(e.focus, id) }

// FocusIDs returns the tracked ids in the order they were added.
func (e *Entity) FocusIDs() []int { return slices.Clone(e.focus) }

// At returns a view of the entity whose stats are its ActiveStats at
// degree, for evaluating criteria against the current state.
func (e *Entity) At(degree float64) *Snapshot {
	return &Snapshot{entity: e, degree: degree, stats: e.ActiveStats(degree)}
}

// Snapshot is an entity frozen at a degree.
type Snapshot struct {
	entity *Entity
	degree float64
	stats  map[string]*value.Value
}

// Entity returns the entity the snapshot was taken from.
func (s *Snapshot) Entity() *Entity { return s.entity }

// Degree returns the degree the snapshot was taken at.
func (s *Snapshot) Degree() float64 { return s.degree }

// TypeID returns the entity's type.
func (s *Snapshot) TypeID() int { return s.entity.typeID }

// HasTag reports whether the entity has tag.
func (s *Snapshot) HasTag(tag string) bool { return s.entity.HasTag(tag) }

// Tags returns the entity's tags.
func (s *Snapshot) Tags() []string { return s.entity.Tags() }

// Stat returns the aggregated stat name.
func (s *Snapshot) Stat(name string) (*value.Value, bool) {
	v, ok := s.stats[name]
	if !ok {
		return nil, false
	}
	return v.Clone(), true
}

// Stats returns a copy of the aggregated stats.
func (s *Snapshot) Stats() map[string]*value.Value { return cloneStats(s.stats) }

func cloneStats(in map[string]*value.Value) map[string]*value.Value {
	out := make(map[string]*value.Value, len(in))
	for k, v := range in {
		out[k] = v.Clone()
	}
	return out
}

type entityJSON struct {
	ID      int                     `json:"id"`
	Type    int                     `json:"type"`
	Name    string                  `json:"name"`
	Tags    []string                `json:"tags"`
	Stats   map[string]*value.Value `json:"stats"`
	Effects []json.RawMessage       `json:"effects"`
	Focus   []int                   `json:"focus"`
}

// MarshalJSON encodes the entity with its effects. Focus is encoded as ids.
func (e *Entity) MarshalJSON() ([]byte, error) {
	effects := make([]json.RawMessage, 0, len(e.effects))
	for _, eff := range e.effects {
		data, err := json.Marshal(eff)
		if err != nil {
			return nil, oops.With("entity_id", e.id).With("effect_id", eff.ID()).Wrap(err)
		}
		effects = append(effects, data)
	}

	tags, focus := e.tags, e.focus
	if tags == nil {
		tags = []string{}
	}
	if focus == nil {
		focus = []int{}
	}

	//nolint:wrapcheck // plain struct encoding cannot fail
	return json.Marshal(entityJSON{
		ID:      e.id,
		Type:    e.typeID,
		Name:    e.name,
		Tags:    tags,
		Stats:   e.stats,
		Effects: effects,
		Focus:   focus,
	})
}

// Decode rehydrates an entity encoded by MarshalJSON. Effects are rebuilt
// against catalog.
func Decode(data []byte, catalog *modifier.Catalog) (*Entity, error) {
	var raw entityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, oops.Code("ENTITY_DECODE_FAILED").Wrap(err)
	}

	e := New(raw.ID, raw.Type, raw.Name, raw.Tags...)
	maps.Copy(e.stats, raw.Stats)
	maps.DeleteFunc(e.stats, func(_ string, v *value.Value) bool { return v == nil })
	for _, id := range raw.Focus {
		e.AddFocus(id)
	}
	for _, msg := range raw.Effects {
		eff, err := catalog.DecodeEffect(msg)
		if err != nil {
			return nil, oops.With("entity_id", raw.ID).Wrap(err)
		}
		e.effects = append(e.effects, eff)
		e.lastEffectID = max(e.lastEffectID, eff.ID())
	}
	return e, nil
}
