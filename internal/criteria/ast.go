// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package criteria

import (
	"strconv"
	"strings"

	"github.com/gobwas/glob"
)

// Op is a comparison operator.
type Op int

// Comparison operators.
const (
	OpEq Op = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var opStrings = [...]string{"=", "!=", "<", "<=", ">", ">="}

func (o Op) String() string {
	if o >= 0 && int(o) < len(opStrings) {
		return opStrings[o]
	}
	return "?"
}

// parseOp maps operator text to an Op. "==" is accepted as a synonym of "=".
func parseOp(s string) (Op, bool) {
	switch s {
	case "=", "==":
		return OpEq, true
	case "!=":
		return OpNe, true
	case "<":
		return OpLt, true
	case "<=":
		return OpLe, true
	case ">":
		return OpGt, true
	case ">=":
		return OpGe, true
	default:
		return 0, false
	}
}

func (o Op) apply(l, r float64) bool {
	switch o {
	case OpEq:
		return l == r
	case OpNe:
		return l != r
	case OpLt:
		return l < r
	case OpLe:
		return l <= r
	case OpGt:
		return l > r
	case OpGe:
		return l >= r
	default:
		return false
	}
}

// Node is a compiled criteria expression. The concrete types are Const,
// Compare, TagTest, TypeTest, And and Or.
type Node interface {
	String() string
	isNode()
}

// Const is a literal true or false. The wildcard compiles to Const{true}.
type Const struct {
	Value bool
}

// Compare tests a stat amount, or its percentage when Percent is set.
type Compare struct {
	Property string
	Op       Op
	Amount   float64
	Percent  bool
}

// TagTest tests tag membership, or any tag against a glob when Like is set.
type TagTest struct {
	Tag    string
	Negate bool
	Like   bool

	pattern glob.Glob
}

// TypeTest tests the candidate type. Subtypes admits the type and all of
// its descendants.
type TypeTest struct {
	TypeID   int
	Subtypes bool
	Negate   bool
}

// And is true when every operand is true.
type And struct {
	Operands []Node
}

// Or is true when any operand is true.
type Or struct {
	Operands []Node
}

func (Const) isNode()    {}
func (Compare) isNode()  {}
func (TagTest) isNode()  {}
func (TypeTest) isNode() {}
func (And) isNode()      {}
func (Or) isNode()       {}

func (c Const) String() string {
	return strconv.FormatBool(c.Value)
}

func (c Compare) String() string {
	s := c.Property + " " + c.Op.String() + " " + strconv.FormatFloat(c.Amount, 'f', -1, 64)
	if c.Percent {
		s += "%"
	}
	return s
}

func (t TagTest) String() string {
	op := "="
	switch {
	case t.Like:
		op = "like"
	case t.Negate:
		op = "!="
	}
	return "tags " + op + " " + strconv.Quote(t.Tag)
}

func (t TypeTest) String() string {
	op := "is"
	switch {
	case t.Subtypes:
		op = "of"
	case t.Negate:
		op = "!="
	}
	return "type " + op + " " + strconv.Itoa(t.TypeID)
}

func (a And) String() string {
	return joinOperands(a.Operands, " AND ")
}

func (o Or) String() string {
	return joinOperands(o.Operands, " OR ")
}

// joinOperands renders operands, parenthesizing nested Or inside And so the
// text re-parses to the same tree.
func joinOperands(ops []Node, sep string) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		s := op.String()
		if _, isOr := op.(Or); isOr && sep == " AND " {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, sep)
}
