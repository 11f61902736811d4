// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modifier

import (
	"maps"
	"slices"
)

// Adjustment is a partial change to a Modifier's fields. Nil pointers and
// nil collections leave the field alone.
type Adjustment struct {
	Duration    *float64           `json:"duration,omitempty" yaml:"duration,omitempty"`
	FalloffType *FalloffType       `json:"falloffType,omitempty" yaml:"falloffType,omitempty"`
	MaxStacks   *int               `json:"maxStacks,omitempty" yaml:"maxStacks,omitempty"`
	RangeMin    *float64           `json:"rangeMin,omitempty" yaml:"rangeMin,omitempty"`
	RangeMax    *float64           `json:"rangeMax,omitempty" yaml:"rangeMax,omitempty"`
	Targets     []string           `json:"targets,omitempty" yaml:"targets,omitempty"`
	Criteria    []string           `json:"criteria,omitempty" yaml:"criteria,omitempty"`
	Tags        []string           `json:"tags,omitempty" yaml:"tags,omitempty"`
	Impact      map[string]float64 `json:"impact,omitempty" yaml:"impact,omitempty"`
}

// Adjustments groups the three adjustment modes. They are applied to the
// Modifier baseline as Replace, then Add, then Remove.
type Adjustments struct {
	Add     *Adjustment `json:"add,omitempty" yaml:"add,omitempty"`
	Remove  *Adjustment `json:"remove,omitempty" yaml:"remove,omitempty"`
	Replace *Adjustment `json:"replace,omitempty" yaml:"replace,omitempty"`
}

// Clone returns a deep copy; a nil receiver clones to nil.
func (a *Adjustments) Clone() *Adjustments {
	if a == nil {
		return nil
	}
	return &Adjustments{
		Add:     a.Add.clone(),
		Remove:  a.Remove.clone(),
		Replace: a.Replace.clone(),
	}
}

// Validate reports an INVALID_FALLOFF error when the add or replace mode
// names an undefined curve. Remove only resets the curve, so its value is
// not inspected.
func (a *Adjustments) Validate() error {
	if a == nil {
		return nil
	}
	for _, adj := range []*Adjustment{a.Replace, a.Add} {
		if adj != nil && adj.FalloffType != nil && !adj.FalloffType.Valid() {
			return invalidFalloff(int(*adj.FalloffType))
		}
	}
	return nil
}

// IsZero reports whether applying a changes nothing.
func (a *Adjustments) IsZero() bool {
	return a == nil || (a.Add == nil && a.Remove == nil && a.Replace == nil)
}

func (a *Adjustment) clone() *Adjustment {
	if a == nil {
		return nil
	}
	out := &Adjustment{
		Duration:    clonePtr(a.Duration),
		FalloffType: clonePtr(a.FalloffType),
		MaxStacks:   clonePtr(a.MaxStacks),
		RangeMin:    clonePtr(a.RangeMin),
		RangeMax:    clonePtr(a.RangeMax),
		Targets:     slices.Clone(a.Targets),
		Criteria:    slices.Clone(a.Criteria),
		Tags:        slices.Clone(a.Tags),
		Impact:      maps.Clone(a.Impact),
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// fields is the adjustable part of a Modifier as carried by an Effect.
// infinite is tracked apart from duration so that arithmetic on a finite
// duration never lands on the Infinite sentinel.
type fields struct {
	infinite    bool
	duration    float64
	falloffType FalloffType
	maxStacks   int
	rangeMin    float64
	rangeMax    float64
	targets     []string
	criteria    []string
	tags        []string
	impact      map[string]float64
}

func baseline(m *Modifier) fields {
	d := m.Definition()
	return fields{
		infinite:    d.Duration == Infinite,
		duration:    d.Duration,
		falloffType: d.FalloffType,
		maxStacks:   d.MaxStacks,
		rangeMin:    d.RangeMin,
		rangeMax:    d.RangeMax,
		targets:     d.Targets,
		criteria:    d.Criteria,
		tags:        d.Tags,
		impact:      d.Impact,
	}
}

// derive applies adj to the baseline of m. Impact keys the Modifier does
// not define are ignored by every mode. An undefined falloff curve panics,
// as it does in Modifier construction.
func derive(m *Modifier, adj *Adjustments) fields {
	if err := adj.Validate(); err != nil {
		panic(err)
	}
	f := baseline(m)
	if adj == nil {
		return f
	}
	f.replace(adj.Replace)
	f.add(adj.Add)
	f.remove(adj.Remove)
	return f
}

func (f *fields) replace(a *Adjustment) {
	if a == nil {
		return
	}
	if a.Duration != nil {
		f.duration = *a.Duration
		f.infinite = f.duration == Infinite
	}
	if a.FalloffType != nil {
		f.falloffType = *a.FalloffType
	}
	if a.MaxStacks != nil {
		f.maxStacks = *a.MaxStacks
	}
	if a.RangeMin != nil {
		f.rangeMin = *a.RangeMin
	}
	if a.RangeMax != nil {
		f.rangeMax = *a.RangeMax
	}
	if a.Targets != nil {
		f.targets = slices.Clone(a.Targets)
	}
	if a.Criteria != nil {
		f.criteria = slices.Clone(a.Criteria)
	}
	if a.Tags != nil {
		f.tags = slices.Clone(a.Tags)
	}
	for k, v := range a.Impact {
		if _, ok := f.impact[k]; ok {
			f.impact[k] = v
		}
	}
}

func (f *fields) add(a *Adjustment) {
	if a == nil {
		return
	}
	if a.Duration != nil && !f.infinite {
		// A finite duration stays finite; below zero it bottoms out at 0.
		f.duration = max(f.duration+*a.Duration, 0)
	}
	if a.FalloffType != nil {
		f.falloffType = *a.FalloffType
	}
	if a.MaxStacks != nil {
		f.maxStacks += *a.MaxStacks
	}
	if a.RangeMin != nil {
		f.rangeMin += *a.RangeMin
	}
	if a.RangeMax != nil {
		f.rangeMax += *a.RangeMax
	}
	f.targets = appendMissing(f.targets, a.Targets)
	f.criteria = appendMissing(f.criteria, a.Criteria)
	f.tags = appendMissing(f.tags, a.Tags)
	for k, v := range a.Impact {
		if _, ok := f.impact[k]; ok {
			f.impact[k] += v
		}
	}
}

func (f *fields) remove(a *Adjustment) {
	if a == nil {
		return
	}
	if a.FalloffType != nil {
		f.falloffType = FalloffNone
	}
	f.targets = deleteAll(f.targets, a.Targets)
	f.criteria = deleteAll(f.criteria, a.Criteria)
	f.tags = deleteAll(f.tags, a.Tags)
	for k := range a.Impact {
		delete(f.impact, k)
	}
}

func appendMissing(dst, src []string) []string {
	for _, s := range src {
		if !slices.Contains(dst, s) {
			dst = append(dst, s)
		}
	}
	return dst
}

func deleteAll(dst, drop []string) []string {
	if len(drop) == 0 {
		return dst
	}
	return slices.DeleteFunc(dst, func(s string) bool {
		return slices.Contains(drop, s)
	})
}
