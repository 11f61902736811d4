// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package entity

import (
	"errors"
	"slices"
	"sync"

	"github.com/samber/oops"
)

// ErrDuplicateEntity is returned when an id is already in the arena.
var ErrDuplicateEntity = errors.New("duplicate entity id")

// Arena owns entities by id. Focus sets hold ids only and are resolved
// through an Arena, so removing an entity here leaves stale ids behind
// that Resolve skips.
type Arena struct {
	mu       sync.RWMutex
	entities map[int]*Entity
	order    []int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{entities: make(map[int]*Entity)}
}

// Add stores entities. Nothing is stored if any id is taken.
func (a *Arena) Add(entities ...*Entity) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	seen := make(map[int]struct{}, len(entities))
	for _, e := range entities {
		_, dup := seen[e.ID()]
		if _, exists := a.entities[e.ID()]; exists || dup {
			return oops.Code("DUPLICATE_ENTITY").With("entity_id", e.ID()).Wrap(ErrDuplicateEntity)
		}
		seen[e.ID()] = struct{}{}
	}
	for _, e := range entities {
		a.entities[e.ID()] = e
		a.order = append(a.order, e.ID())
	}
	return nil
}

// Get returns the entity with id.
func (a *Arena) Get(id int) (*Entity, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	e, ok := a.entities[id]
	return e, ok
}

// Remove drops the entity with id and reports whether it was present.
func (a *Arena) Remove(id int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.entities[id]; !ok {
		return false
	}
	delete(a.entities, id)
	a.order = slices.DeleteFunc(a.order, func(v int) bool { return v == id })
	return true
}

// Resolve maps ids to entities in order, skipping ids not in the arena.
func (a *Arena) Resolve(ids []int) []*Entity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := a.entities[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// All returns every entity in insertion order.
func (a *Arena) All() []*Entity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*Entity, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.entities[id])
	}
	return out
}

// Len returns the number of entities.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entities)
}
