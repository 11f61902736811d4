// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package criteria compiles the rule language that selects which entities a
// modifier can affect. Text is parsed with participle, lowered into a small
// tree of Nodes, and evaluated by a tree walker. Compiled rules are cached
// by their exact source text.
//
// Grammar:
//
//	criteria := "" | "*" | and ( "OR" and )*
//	and      := term ( "AND" term )*
//	term     := "(" criteria ")" | "true" | "false"
//	          | "tags" ( "=" | "!=" | "like" ) string
//	          | "type" ( "is" | "of" | "=" | "!=" ) ( number | name ( "." name )* )
//	          | name op number [ "%" ]
//
// AND binds tighter than OR. Keywords are case-sensitive.
//
// Type names resolve through hierarchy.Registry.Search when the rule is
// compiled. A name must pick out a single node: when two branches of the
// taxonomy share a name the rule fails to compile, and the caller qualifies
// it with a dotted path ("Beast.Wolf") or uses the numeric id.
package criteria

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/samber/oops"

	"github.com/holomush/modcore/internal/hierarchy"
)

// Wildcard is the criteria text that matches every candidate.
const Wildcard = "*"

// Predicate reports whether a candidate satisfies a compiled rule. A rule
// that failed to compile returns a *CompileError on every call.
type Predicate func(Candidate) (bool, error)

type compiled struct {
	root Node
	err  error
}

// Compiler compiles criteria text against a taxonomy and memoizes the
// result per source string. It is safe for concurrent use.
type Compiler struct {
	types *hierarchy.Registry

	mu    sync.RWMutex
	cache map[string]*compiled
}

// NewCompiler creates a Compiler. types may be nil when no rule uses type
// tests; such rules then fail to compile.
func NewCompiler(types *hierarchy.Registry) *Compiler {
	return &Compiler{
		types: types,
		cache: make(map[string]*compiled),
	}
}

// Compile returns the predicate for src. It never fails: malformed text
// yields a predicate that reports the compile error when evaluated.
func (c *Compiler) Compile(src string) Predicate {
	entry := c.lookup(src)
	types := c.types
	return func(cand Candidate) (bool, error) {
		if entry.err != nil {
			return false, entry.err
		}
		return Evaluate(types, entry.root, cand)
	}
}

// Filters compiles each source into its own predicate. Callers combine
// them; a list is usually OR-ed.
func (c *Compiler) Filters(srcs ...string) []Predicate {
	out := make([]Predicate, 0, len(srcs))
	for _, src := range srcs {
		out = append(out, c.Compile(src))
	}
	return out
}

// Validate compiles src and returns its compile error, if any.
func (c *Compiler) Validate(src string) error {
	return c.lookup(src).err
}

// Parse compiles src without consulting or filling the cache.
func (c *Compiler) Parse(src string) (Node, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" || trimmed == Wildcard {
		return Const{Value: true}, nil
	}

	expr, err := parser.ParseString("", trimmed)
	if err != nil {
		return nil, compileError(src, err)
	}

	l := &lowerer{types: c.types}
	root, err := l.expression(expr, 0)
	if err != nil {
		return nil, compileError(src, err)
	}
	return root, nil
}

func (c *Compiler) lookup(src string) *compiled {
	c.mu.RLock()
	entry, ok := c.cache[src]
	c.mu.RUnlock()
	if ok {
		cacheLookups.WithLabelValues("hit").Inc()
		return entry
	}
	cacheLookups.WithLabelValues("miss").Inc()

	root, err := c.Parse(src)
	entry = &compiled{root: root, err: err}
	if err != nil {
		compilations.WithLabelValues("error").Inc()
		slog.Debug("criteria failed to compile", "source", src, "error", err)
	} else {
		compilations.WithLabelValues("ok").Inc()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, raced := c.cache[src]; raced {
		return existing
	}
	c.cache[src] = entry
	return entry
}

// compileError converts a participle or lowering failure into a coded
// *CompileError.
func compileError(src string, err error) error {
	ce := &CompileError{Source: src, Message: err.Error()}

	var perr participle.Error
	var lerr *positionError
	switch {
	case errors.As(err, &lerr):
		ce.Line, ce.Column, ce.Message = lerr.pos.Line, lerr.pos.Column, lerr.msg
	case errors.As(err, &perr):
		pos := perr.Position()
		ce.Line, ce.Column, ce.Message = pos.Line, pos.Column, perr.Message()
	}

	return oops.Code("CRITERIA_COMPILE").With("source", src).Wrap(ce)
}
