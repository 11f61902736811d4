// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package criteria

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// criteriaLexer tokenizes criteria text. Multi-character operators are
// listed before their one-character prefixes.
var criteriaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "RawString", Pattern: `'[^']*'`},
	{Name: "Number", Pattern: `[-+]?\d+(\.\d+)?`},
	{Name: "Op", Pattern: `==|!=|<=|>=|=|<|>`},
	{Name: "Percent", Pattern: `%`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Punct", Pattern: `[().]`},
	{Name: "whitespace", Pattern: `\s+`},
})

// Expression is the parse tree root.
//
// Grammar: and_expr ( "OR" and_expr )*
type Expression struct {
	Pos   lexer.Position `parser:""`
	Terms []*AndExpr     `parser:"@@ ( 'OR' @@ )*"`
}

// AndExpr is a conjunction: term ( "AND" term )*
type AndExpr struct {
	Pos     lexer.Position `parser:""`
	Factors []*Term        `parser:"@@ ( 'AND' @@ )*"`
}

// Term is exactly one of the alternatives below.
type Term struct {
	Pos     lexer.Position `parser:""`
	Group   *Expression    `parser:"  '(' @@ ')'"`
	Bool    *string        `parser:"| @( 'true' | 'false' )"`
	Tag     *TagClause     `parser:"| @@"`
	Type    *TypeClause    `parser:"| @@"`
	Compare *CompareClause `parser:"| @@"`
}

// TagClause matches: "tags" ( op | "like" ) string
type TagClause struct {
	Pos   lexer.Position `parser:""`
	Op    string         `parser:"'tags' @( Op | 'like' )"`
	Value string         `parser:"@( String | RawString )"`
}

// TypeClause matches: "type" ( "is" | "of" | op ) ( number | ident ( "." ident )* )
type TypeClause struct {
	Pos  lexer.Position `parser:""`
	Op   string         `parser:"'type' @( 'is' | 'of' | Op )"`
	ID   *int           `parser:"(   @Number"`
	Path []string       `parser:"  | @Ident ( '.' @Ident )* )"`
}

// CompareClause matches: ident op number [ "%" ]
type CompareClause struct {
	Pos      lexer.Position `parser:""`
	Property string         `parser:"@Ident"`
	Op       string         `parser:"@Op"`
	Amount   float64        `parser:"@Number"`
	Percent  bool           `parser:"@Percent?"`
}

// stripRawQuotes removes the single quotes around a RawString token.
func stripRawQuotes(tok lexer.Token) (lexer.Token, error) {
	tok.Value = tok.Value[1 : len(tok.Value)-1]
	return tok, nil
}

// newParser constructs the participle parser for criteria text.
func newParser() (*participle.Parser[Expression], error) {
	return participle.Build[Expression](
		participle.Lexer(criteriaLexer),
		participle.Unquote("String"),
		participle.Map(stripRawQuotes, "RawString"),
		participle.UseLookahead(2),
	)
}

// parser is the shared parser instance; participle parsers are safe for
// concurrent use.
var parser *participle.Parser[Expression]

func init() {
	var err error
	parser, err = newParser()
	if err != nil {
		panic(fmt.Sprintf("failed to build criteria parser: %v", err))
	}
}
