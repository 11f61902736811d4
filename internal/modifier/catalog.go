// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modifier

import (
	"encoding/json"
	"errors"
	"slices"
	"sync"

	"github.com/samber/oops"
)

// ErrModifierNotFound is returned when a modifier id is not in the catalog.
var ErrModifierNotFound = errors.New("modifier not found")

// ErrDuplicateModifier is returned when an id is defined twice.
var ErrDuplicateModifier = errors.New("duplicate modifier id")

// Catalog is the set of known Modifiers, keyed by id. It is populated once
// at bootstrap and read many times; it is safe for concurrent use.
type Catalog struct {
	mu   sync.RWMutex
	mods map[int]*Modifier
}

// NewCatalog creates a catalog holding mods.
func NewCatalog(mods ...*Modifier) (*Catalog, error) {
	c := &Catalog{mods: make(map[int]*Modifier, len(mods))}
	if err := c.Define(mods...); err != nil {
		return nil, err
	}
	return c, nil
}

// Define adds mods. Nothing is added if any id is already present or
// repeated within mods.
func (c *Catalog) Define(mods ...*Modifier) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[int]struct{}, len(mods))
	for _, m := range mods {
		_, dup := seen[m.ID()]
		if _, exists := c.mods[m.ID()]; exists || dup {
			return oops.Code("DUPLICATE_MODIFIER").
				With("modifier_id", m.ID()).
				Wrap(ErrDuplicateModifier)
		}
		seen[m.ID()] = struct{}{}
	}
	for _, m := range mods {
		c.mods[m.ID()] = m
	}
	return nil
}

// Get returns the modifier with id.
func (c *Catalog) Get(id int) (*Modifier, error) {
	c.mu.RLock()
	m, ok := c.mods[id]
	c.mu.RUnlock()
	if !ok {
		return nil, oops.Code("MODIFIER_NOT_FOUND").With("modifier_id", id).Wrap(ErrModifierNotFound)
	}
	return m, nil
}

// MustGet is Get for ids known to exist; it panics otherwise.
func (c *Catalog) MustGet(id int) *Modifier {
	m, err := c.Get(id)
	if err != nil {
		panic(err)
	}
	return m
}

// All returns every modifier ordered by id.
func (c *Catalog) All() []*Modifier {
	c.mu.RLock()
	out := make([]*Modifier, 0, len(c.mods))
	for _, m := range c.mods {
		out = append(out, m)
	}
	c.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Modifier) int { return a.ID() - b.ID() })
	return out
}

// Len returns the number of modifiers.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mods)
}

// DecodeEffect rehydrates an effect encoded by Effect.MarshalJSON. The
// derived fields are rebuilt from the current Modifier and the stored
// adjustments.
func (c *Catalog) DecodeEffect(data []byte) (*Effect, error) {
	var raw effectJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, oops.Code("EFFECT_DECODE_FAILED").Wrap(err)
	}
	mod, err := c.Get(raw.ModifierID)
	if err != nil {
		return nil, oops.With("effect_id", raw.ID).Wrap(err)
	}
	if err := raw.Adjustments.Validate(); err != nil {
		return nil, oops.With("effect_id", raw.ID).Wrap(err)
	}
	return NewEffect(mod, raw.ID, raw.StartsAt, raw.Adjustments), nil
}
