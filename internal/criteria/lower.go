// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package criteria

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/gobwas/glob"

	"github.com/holomush/modcore/internal/hierarchy"
)

// MaxNestingDepth is the maximum depth of parenthesized groups.
const MaxNestingDepth = 32

// Limits on tag patterns.
const (
	maxGlobPatternLen = 100
	maxGlobWildcards  = 5
)

// positionError is a lowering failure at a source position.
type positionError struct {
	pos lexer.Position
	msg string
}

func (e *positionError) Error() string { return e.msg }

func errorAt(pos lexer.Position, format string, args ...any) error {
	return &positionError{pos: pos, msg: fmt.Sprintf(format, args...)}
}

// lowerer turns a parse tree into Nodes, resolving type references through
// the taxonomy and compiling tag patterns.
type lowerer struct {
	types *hierarchy.Registry
}

func (l *lowerer) expression(e *Expression, depth int) (Node, error) {
	if depth > MaxNestingDepth {
		return nil, errorAt(e.Pos, "nesting depth exceeds maximum of %d", MaxNestingDepth)
	}
	ops := make([]Node, 0, len(e.Terms))
	for _, conj := range e.Terms {
		n, err := l.conjunction(conj, depth)
		if err != nil {
			return nil, err
		}
		ops = append(ops, n)
	}
	if len(ops) == 1 {
		return ops[0], nil
	}
	return Or{Operands: ops}, nil
}

func (l *lowerer) conjunction(a *AndExpr, depth int) (Node, error) {
	ops := make([]Node, 0, len(a.Factors))
	for _, t := range a.Factors {
		n, err := l.term(t, depth)
		if err != nil {
			return nil, err
		}
		ops = append(ops, n)
	}
	if len(ops) == 1 {
		return ops[0], nil
	}
	return And{Operands: ops}, nil
}

func (l *lowerer) term(t *Term, depth int) (Node, error) {
	switch {
	case t.Group != nil:
		return l.expression(t.Group, depth+1)
	case t.Bool != nil:
		return Const{Value: *t.Bool == "true"}, nil
	case t.Tag != nil:
		return l.tag(t.Tag)
	case t.Type != nil:
		return l.typeTest(t.Type)
	case t.Compare != nil:
		return l.compare(t.Compare)
	default:
		return nil, errorAt(t.Pos, "empty term")
	}
}

func (l *lowerer) tag(c *TagClause) (Node, error) {
	switch c.Op {
	case "=", "==":
		return TagTest{Tag: c.Value}, nil
	case "!=":
		return TagTest{Tag: c.Value, Negate: true}, nil
	case "like":
		if err := validateGlobPattern(c.Value); err != nil {
			return nil, errorAt(c.Pos, "%s", err)
		}
		g, err := glob.Compile(c.Value, ':')
		if err != nil {
			return nil, errorAt(c.Pos, "invalid tag pattern %q: %v", c.Value, err)
		}
		return TagTest{Tag: c.Value, Like: true, pattern: g}, nil
	default:
		return nil, errorAt(c.Pos, "operator %q cannot be applied to tags", c.Op)
	}
}

func (l *lowerer) typeTest(c *TypeClause) (Node, error) {
	if l.types == nil {
		return nil, errorAt(c.Pos, "type tests need a taxonomy")
	}

	var id int
	if c.ID != nil {
		node, err := l.types.TypeByID(*c.ID)
		if err != nil {
			return nil, errorAt(c.Pos, "unknown type id %d", *c.ID)
		}
		id = node.ID()
	} else {
		path := strings.Join(c.Path, ".")
		found := l.types.Search(path)
		if len(found) == 0 {
			return nil, errorAt(c.Pos, "unknown type %q", path)
		}
		// found is the first match followed by its subtree; anything past
		// that is another branch matching the same path.
		if subtree := 1 + len(l.types.AllChildren(found[0])); len(found) > subtree {
			return nil, errorAt(c.Pos, "type %q is ambiguous (ids %d and %d); qualify it with its parent",
				path, found[0].ID(), found[subtree].ID())
		}
		id = found[0].ID()
	}

	switch c.Op {
	case "is", "=", "==":
		return TypeTest{TypeID: id}, nil
	case "!=":
		return TypeTest{TypeID: id, Negate: true}, nil
	case "of":
		return TypeTest{TypeID: id, Subtypes: true}, nil
	default:
		return nil, errorAt(c.Pos, "operator %q cannot be applied to type", c.Op)
	}
}

// reservedWords cannot name a stat.
var reservedWords = map[string]struct{}{
	"AND": {}, "OR": {}, "tags": {}, "type": {}, "true": {}, "false": {},
	"is": {}, "of": {}, "like": {},
}

func (l *lowerer) compare(c *CompareClause) (Node, error) {
	if _, reserved := reservedWords[c.Property]; reserved {
		return nil, errorAt(c.Pos, "reserved word %q cannot be used as a stat name", c.Property)
	}
	op, ok := parseOp(c.Op)
	if !ok {
		return nil, errorAt(c.Pos, "unknown operator %q", c.Op)
	}
	return Compare{Property: c.Property, Op: op, Amount: c.Amount, Percent: c.Percent}, nil
}

// validateGlobPattern applies the tag pattern limits.
func validateGlobPattern(pattern string) error {
	if len(pattern) > maxGlobPatternLen {
		return fmt.Errorf("tag pattern longer than %d characters", maxGlobPatternLen)
	}
	if strings.ContainsAny(pattern, "[{") || strings.Contains(pattern, "**") {
		return fmt.Errorf("tag pattern %q uses unsupported syntax", pattern)
	}
	wildcards := strings.Count(pattern, "*") + strings.Count(pattern, "?")
	if wildcards > maxGlobWildcards {
		return fmt.Errorf("tag pattern has more than %d wildcards", maxGlobWildcards)
	}
	return nil
}
