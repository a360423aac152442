// Package parser implements the Parser (C5): tokens to Surface AST via
// recursive descent with Pratt-style precedence climbing for expressions
// (§4.4).
package parser

import (
	"fmt"

	"github.com/veil-lang/veil/internal/ast"
	"github.com/veil-lang/veil/internal/errors"
	"github.com/veil-lang/veil/internal/lexer"
	"github.com/veil-lang/veil/internal/source"
)

// defaultMaxErrors is the VF2500 threshold used when the caller does not
// configure one explicitly (§9 open question: "pick a small default").
const defaultMaxErrors = 16

// Parser consumes a finished token slice (the lexer already ran to
// completion) and produces a Surface Module.
type Parser struct {
	tokens    []lexer.Token
	pos       int
	filename  string
	maxErrors int

	errs      []error
	lastSig   lexer.Token // most recently consumed non-NEWLINE token
	groupDepth int        // nesting depth inside (), [] — NEWLINE is insignificant while > 0; {} is excluded (see advance)
}

// New constructs a Parser over a complete token stream.
func New(tokens []lexer.Token, filename string, maxErrors int) *Parser {
	if maxErrors <= 0 {
		maxErrors = defaultMaxErrors
	}
	return &Parser{tokens: tokens, filename: filename, maxErrors: maxErrors}
}

// Parse runs New(tokens, filename, defaultMaxErrors).ParseModule(), the
// Pipeline API's `parse` operation (§6).
func Parse(tokens []lexer.Token, filename string) (*ast.Module, error) {
	return New(tokens, filename, defaultMaxErrors).ParseModule()
}

// --- token stream helpers ----------------------------------------------------

// rawAt returns the raw token at index idx with no newline skipping.
func (p *Parser) rawAt(idx int) lexer.Token {
	if idx < 0 || idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[idx]
}

// skipIdx advances idx past NEWLINE tokens when inside a bracketed group,
// where newlines are insignificant.
func (p *Parser) skipIdx(idx int) int {
	if p.groupDepth <= 0 {
		return idx
	}
	for p.rawAt(idx).Kind == lexer.NEWLINE {
		idx++
	}
	return idx
}

func (p *Parser) cur() lexer.Token {
	return p.rawAt(p.skipIdx(p.pos))
}

func (p *Parser) peekN(n int) lexer.Token {
	idx := p.skipIdx(p.pos)
	for i := 0; i < n; i++ {
		idx = p.skipIdx(idx + 1)
	}
	return p.rawAt(idx)
}

func (p *Parser) peek() lexer.Token { return p.peekN(1) }

func (p *Parser) advance() lexer.Token {
	p.pos = p.skipIdx(p.pos)
	t := p.rawAt(p.pos)
	if p.pos < len(p.tokens) {
		p.pos++
	}
	if t.Kind != lexer.NEWLINE {
		p.lastSig = t
	}
	// Only (), [] make newlines insignificant unconditionally. {} hosts both
	// record literals (newlines insignificant between fields) and blocks
	// (newlines are statement separators), so brace contexts skip newlines
	// explicitly at the call site instead of through groupDepth.
	switch t.Kind {
	case lexer.LPAREN, lexer.LBRACKET:
		p.groupDepth++
	case lexer.RPAREN, lexer.RBRACKET:
		if p.groupDepth > 0 {
			p.groupDepth--
		}
	}
	return t
}

// peekPastNewlines looks past any run of NEWLINE tokens starting at the
// current position, regardless of group depth — used by the `|>`
// continuation rule (§9 open question), which must inspect across a
// top-level newline without first deciding to skip it.
func (p *Parser) peekPastNewlines() lexer.Token {
	idx := p.pos
	for p.rawAt(idx).Kind == lexer.NEWLINE {
		idx++
	}
	return p.rawAt(idx)
}

func (p *Parser) atNewline() bool { return p.groupDepth == 0 && p.rawAt(p.pos).Kind == lexer.NEWLINE }

func (p *Parser) at(k lexer.Kind) bool { return p.cur().Kind == k }

func (p *Parser) atKeyword(kw string) bool {
	return p.cur().Kind == lexer.KEYWORD && p.cur().Lexeme == kw
}

func (p *Parser) match(k lexer.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) matchKeyword(kw string) bool {
	if p.atKeyword(kw) {
		p.advance()
		return true
	}
	return false
}

// skipNewlines consumes any run of NEWLINE tokens (used between
// declarations, where blank lines are insignificant).
func (p *Parser) skipNewlines() {
	for p.at(lexer.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) pos_() source.Pos { return p.cur().Pos }

func (p *Parser) fail(code errors.Code, vars map[string]string) error {
	err := errors.Throw(code, p.pos_(), vars)
	p.errs = append(p.errs, err)
	return err
}

func (p *Parser) expect(k lexer.Kind, code errors.Code, vars map[string]string) (lexer.Token, error) {
	if !p.at(k) {
		if vars == nil {
			vars = map[string]string{}
		}
		vars["found"] = p.cur().Lexeme
		return lexer.Token{}, p.fail(code, vars)
	}
	return p.advance(), nil
}

// failf builds a plain (non-registry) syntax error for shapes the
// diagnostic-code table does not enumerate (a handful of closing-delimiter
// checks outside the pattern/type-expression grammars, which the registry
// covers explicitly). It is never used in place of a named VF code where one
// applies.
func (p *Parser) failf(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	err := fmt.Errorf("%s: %s", p.pos_(), msg)
	p.errs = append(p.errs, err)
	return err
}

// tooManyErrors reports whether the accumulated error count has reached the
// configured VF2500 threshold.
func (p *Parser) tooManyErrors() bool { return len(p.errs) >= p.maxErrors }

// recover implements §4.4's recovery policy: advance to the next statement
// boundary (NEWLINE or SEMICOLON at brace depth 0) and continue.
func (p *Parser) recover() {
	depth := 0
	for !p.at(lexer.EOF) {
		switch p.cur().Kind {
		case lexer.LBRACE, lexer.LPAREN, lexer.LBRACKET:
			depth++
		case lexer.RBRACE, lexer.RPAREN, lexer.RBRACKET:
			if depth == 0 {
				p.advance()
				return
			}
			depth--
		case lexer.NEWLINE, lexer.SEMICOLON:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// --- module ------------------------------------------------------------------

// ParseModule parses the full token stream into a Module (§3).
func (p *Parser) ParseModule() (*ast.Module, error) {
	mod := &ast.Module{Pos: p.pos_()}
	p.skipNewlines()

	for !p.at(lexer.EOF) {
		if p.tooManyErrors() {
			return nil, errors.Throw("VF2500", p.pos_(), map[string]string{"count": fmt.Sprint(len(p.errs))})
		}

		// Each branch's error is already appended to p.errs by fail/failf at
		// the point it was raised; only recovery is needed here.
		switch {
		case p.atKeyword("import"):
			imp, err := p.parseImportDecl()
			if err != nil {
				p.recover()
				continue
			}
			mod.Imports = append(mod.Imports, imp)

		case p.atKeyword("external"):
			decls, err := p.parseExternalDecl()
			if err != nil {
				p.recover()
				continue
			}
			for _, d := range decls {
				mod.Declarations = append(mod.Declarations, d)
			}

		case p.atKeyword("export"):
			decl, err := p.parseExportOrExportedDecl()
			if err != nil {
				p.recover()
				continue
			}
			switch d := decl.(type) {
			case *ast.ExportDecl:
				mod.Exports = append(mod.Exports, d)
			case ast.Decl:
				mod.Declarations = append(mod.Declarations, d)
			}

		default:
			decl, err := p.parseTopLevelDecl()
			if err != nil {
				p.recover()
				continue
			}
			if decl != nil {
				mod.Declarations = append(mod.Declarations, decl)
			}
		}
		p.skipNewlines()
	}

	if len(p.errs) > 0 {
		return nil, p.errs[0]
	}
	return mod, nil
}

func (p *Parser) parseTopLevelDecl() (ast.Decl, error) {
	switch {
	case p.atKeyword("let"):
		return p.parseLetDecl()
	case p.atKeyword("type"):
		return p.parseTypeDecl(false)
	default:
		vars := map[string]string{"found": p.cur().Lexeme}
		return nil, p.fail("VF2000", vars)
	}
}
