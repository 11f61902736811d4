// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package entity

import (
	"log/slog"

	"github.com/samber/oops"

	"github.com/holomush/modcore/internal/criteria"
	"github.com/holomush/modcore/internal/hierarchy"
	"github.com/holomush/modcore/internal/modifier"
)

// Selector is anything that chooses targets: *modifier.Modifier,
// *modifier.Effect, Rule, or ModifierRef.
type Selector interface {
	Selector() (targets, rules []string)
}

// Rule is a bare targeting rule. Targets are type paths that restrict the
// eligible types; an empty list allows every type. Criteria are OR-ed; an
// empty list matches everything.
type Rule struct {
	Targets  []string
	Criteria []string
}

// Selector returns the rule's fields.
func (r Rule) Selector() (targets, rules []string) { return r.Targets, r.Criteria }

// ModifierRef selects with the rule of the catalog modifier it names. The
// engine resolves it; on its own it selects nothing.
type ModifierRef int

// Selector returns nothing; see ModifierRef.
func (ModifierRef) Selector() (targets, rules []string) { return nil, nil }

// Engine binds the taxonomy, the criteria compiler, and the modifier
// catalog that queries and effect applications run against.
type Engine struct {
	Types     *hierarchy.Registry
	Criteria  *criteria.Compiler
	Modifiers *modifier.Catalog
}

// NewEngine creates an engine with a fresh criteria compiler over types.
func NewEngine(types *hierarchy.Registry, mods *modifier.Catalog) *Engine {
	return &Engine{
		Types:     types,
		Criteria:  criteria.NewCompiler(types),
		Modifiers: mods,
	}
}

// matcher is a selector compiled for one query.
type matcher struct {
	eligible   map[int]struct{}
	predicates []criteria.Predicate
}

func (e *Engine) compile(sel Selector) (*matcher, error) {
	var targets, rules []string
	if ref, ok := sel.(ModifierRef); ok {
		mod, err := e.Modifiers.Get(int(ref))
		if err != nil {
			return nil, err
		}
		targets, rules = mod.Selector()
	} else {
		targets, rules = sel.Selector()
	}

	m := &matcher{}
	if len(targets) > 0 {
		m.eligible = make(map[int]struct{})
		for _, path := range targets {
			for _, n := range e.Types.Search(path) {
				m.eligible[n.ID()] = struct{}{}
			}
		}
	}
	if len(rules) == 0 {
		rules = []string{criteria.Wildcard}
	}
	m.predicates = e.Criteria.Filters(rules...)
	return m, nil
}

func (m *matcher) match(c criteria.Candidate) (bool, error) {
	if m.eligible != nil {
		if _, ok := m.eligible[c.TypeID()]; !ok {
			return false, nil
		}
	}
	for _, p := range m.predicates {
		ok, err := p(c)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Select returns the candidates matched by any selector, in input order and
// each at most once. No selectors select nothing. A criteria compile error
// aborts the query.
func Select[C criteria.Candidate](e *Engine, candidates []C, selectors ...Selector) ([]C, error) {
	matchers := make([]*matcher, 0, len(selectors))
	for _, sel := range selectors {
		m, err := e.compile(sel)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}

	var out []C
	for _, c := range candidates {
		for _, m := range matchers {
			ok, err := m.match(c)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

// Query is Select over entities.
func (e *Engine) Query(entities []*Entity, selectors ...Selector) ([]*Entity, error) {
	return Select(e, entities, selectors...)
}

// CanTarget reports whether sel selects c.
func (e *Engine) CanTarget(sel Selector, c criteria.Candidate) (bool, error) {
	m, err := e.compile(sel)
	if err != nil {
		return false, err
	}
	return m.match(c)
}

// Targets returns the entities sel selects.
func (e *Engine) Targets(sel Selector, candidates []*Entity) ([]*Entity, error) {
	return Select(e, candidates, sel)
}

// FilterFocus returns the entities ent is focused on that any selector
// matches. Focus ids missing from arena are skipped.
func (e *Engine) FilterFocus(ent *Entity, arena *Arena, selectors ...Selector) ([]*Entity, error) {
	return Select(e, arena.Resolve(ent.FocusIDs()), selectors...)
}

// AddEffect attaches modifierID to ent at degree after checking that the
// adjusted effect can target ent's state at degree.
func (e *Engine) AddEffect(ent *Entity, modifierID int, degree float64, adj *modifier.Adjustments) (Application, error) {
	mod, err := e.Modifiers.Get(modifierID)
	if err != nil {
		return Application{}, oops.With("entity_id", ent.ID()).Wrap(err)
	}
	if err := adj.Validate(); err != nil {
		return Application{}, oops.With("entity_id", ent.ID()).With("modifier_id", modifierID).Wrap(err)
	}

	ok, err := e.CanTarget(modifier.NewEffect(mod, 0, degree, adj), ent.At(degree))
	if err != nil {
		return Application{}, oops.With("entity_id", ent.ID()).With("modifier_id", modifierID).Wrap(err)
	}
	if !ok {
		effectApplications.WithLabelValues(RefusedTarget.String()).Inc()
		slog.Debug("effect refused",
			"entity_id", ent.ID(),
			"modifier_id", modifierID,
			"outcome", RefusedTarget.String())
		return Application{Outcome: RefusedTarget}, nil
	}
	return ent.AddEffect(e.Modifiers, modifierID, degree, adj)
}
