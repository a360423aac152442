package lexer

import (
	"fmt"

	"github.com/veil-lang/veil/internal/source"
)

// Kind is the tag of a Token (§3 "Token").
type Kind int

const (
	// Structural
	EOF Kind = iota
	NEWLINE

	// Grouping / punctuation
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	DOT
	COLON
	SEMICOLON
	PIPE
	SPREAD // ...
	ARROW  // ->
	FAT_ARROW // =>

	// Operators (single)
	OP_PLUS
	OP_MINUS
	OP_STAR
	OP_SLASH
	OP_PERCENT
	OP_LT
	OP_GT
	OP_EQUALS
	OP_BANG
	OP_AMPERSAND

	// Operators (multi)
	OP_EQ      // ==
	OP_NEQ     // !=
	OP_LTE     // <=
	OP_GTE     // >=
	OP_PIPE_GT // |>
	OP_GT_GT   // >>
	OP_LT_LT   // <<
	OP_CONS    // ::
	OP_ASSIGN  // :=
	OP_AND     // &&
	OP_OR      // ||

	// Literals
	INT_LITERAL
	FLOAT_LITERAL
	STRING_LITERAL
	BOOL_LITERAL

	// Identifiers
	IDENTIFIER
	KEYWORD
)

var kindNames = map[Kind]string{
	EOF: "EOF", NEWLINE: "NEWLINE",
	LPAREN: "LPAREN", RPAREN: "RPAREN", LBRACE: "LBRACE", RBRACE: "RBRACE",
	LBRACKET: "LBRACKET", RBRACKET: "RBRACKET", COMMA: "COMMA", DOT: "DOT",
	COLON: "COLON", SEMICOLON: "SEMICOLON", PIPE: "PIPE", SPREAD: "SPREAD",
	ARROW: "ARROW", FAT_ARROW: "FAT_ARROW",
	OP_PLUS: "OP_PLUS", OP_MINUS: "OP_MINUS", OP_STAR: "OP_STAR", OP_SLASH: "OP_SLASH",
	OP_PERCENT: "OP_PERCENT", OP_LT: "OP_LT", OP_GT: "OP_GT", OP_EQUALS: "OP_EQUALS",
	OP_BANG: "OP_BANG", OP_AMPERSAND: "OP_AMPERSAND",
	OP_EQ: "OP_EQ", OP_NEQ: "OP_NEQ", OP_LTE: "OP_LTE", OP_GTE: "OP_GTE",
	OP_PIPE_GT: "OP_PIPE_GT", OP_GT_GT: "OP_GT_GT", OP_LT_LT: "OP_LT_LT",
	OP_CONS: "OP_CONS", OP_ASSIGN: "OP_ASSIGN", OP_AND: "OP_AND", OP_OR: "OP_OR",
	INT_LITERAL: "INT_LITERAL", FLOAT_LITERAL: "FLOAT_LITERAL",
	STRING_LITERAL: "STRING_LITERAL", BOOL_LITERAL: "BOOL_LITERAL",
	IDENTIFIER: "IDENTIFIER", KEYWORD: "KEYWORD",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords recognized by the lexer (§4.3). "true"/"false" are handled
// specially and emit BOOL_LITERAL, not KEYWORD.
var Keywords = map[string]bool{
	"let": true, "mut": true, "type": true, "if": true, "then": true,
	"else": true, "match": true, "when": true, "rec": true, "and": true,
	"import": true, "export": true, "external": true, "unsafe": true,
	"from": true, "as": true, "try": true, "catch": true,
}

// ReservedForFuture are identifiers rejected with VF1500: words the
// language may reserve in a future revision.
var ReservedForFuture = map[string]bool{
	"async": true, "await": true, "trait": true, "impl": true,
	"where": true, "do": true, "yield": true, "return": true,
}

// Token is a tagged record (§3): kind, lexeme/decoded value, location, and
// an optional leading-whitespace flag.
type Token struct {
	Kind      Kind
	Lexeme    string      // source text; for STRING_LITERAL, the decoded body without quotes
	Value     interface{} // decoded value for literals (int64, float64, string, bool)
	Pos       source.Pos
	LeadingWS bool
}

func (t Token) String() string {
	if t.Value != nil {
		return fmt.Sprintf("%s(%v)@%s", t.Kind, t.Value, t.Pos)
	}
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Lexeme, t.Pos)
}

// CanEndStatement reports whether this token kind can be the last token of
// a syntactically complete expression/statement — used to resolve the §9
// open question about `|>` continuing across a NEWLINE: a pipe on the next
// line only continues the previous expression when the previous line's
// final token could *not* have ended a statement on its own.
func (t Token) CanEndStatement() bool {
	switch t.Kind {
	case IDENTIFIER, KEYWORD, INT_LITERAL, FLOAT_LITERAL, STRING_LITERAL,
		BOOL_LITERAL, RPAREN, RBRACE, RBRACKET:
		return true
	default:
		return false
	}
}
