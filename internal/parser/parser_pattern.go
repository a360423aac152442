package parser

import (
	"unicode"

	"github.com/veil-lang/veil/internal/ast"
	"github.com/veil-lang/veil/internal/lexer"
)

// parsePattern parses a full pattern, including a trailing `when` guard
// (VF2200-VF2202, §4.4 Pattern grammar).
func (p *Parser) parsePattern() (ast.Pattern, error) {
	pat, err := p.parseOrPattern()
	if err != nil {
		return nil, err
	}
	if p.matchKeyword("when") {
		guard, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.GuardedPattern{Pattern: pat, Guard: guard, Pos: pat.Position()}, nil
	}
	return pat, nil
}

func (p *Parser) parseOrPattern() (ast.Pattern, error) {
	start := p.pos_()
	first, err := p.parsePatternAtom()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.PIPE) {
		return first, nil
	}
	alts := []ast.Pattern{first}
	for p.match(lexer.PIPE) {
		next, err := p.parsePatternAtom()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	return &ast.OrPattern{Alts: alts, Pos: start}, nil
}

func (p *Parser) parsePatternAtom() (ast.Pattern, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.IDENTIFIER:
		p.advance()
		if tok.Lexeme == "_" {
			return &ast.WildcardPattern{Pos: tok.Pos}, nil
		}
		if isConstructorName(tok.Lexeme) {
			return p.parseConstructorPatternArgs(tok)
		}
		return &ast.VarPattern{Name: tok.Lexeme, Pos: tok.Pos}, nil

	case lexer.INT_LITERAL, lexer.FLOAT_LITERAL, lexer.STRING_LITERAL, lexer.BOOL_LITERAL:
		p.advance()
		return &ast.Literal{Kind: literalKindOf(tok.Kind), Value: tok.Value, Pos: tok.Pos}, nil

	case lexer.OP_MINUS:
		// Negative numeric literal pattern, e.g. `-1`.
		p.advance()
		lit, err := p.expect(lexer.INT_LITERAL, "VF2200", nil)
		if err != nil {
			if lit2, err2 := p.expect(lexer.FLOAT_LITERAL, "VF2200", map[string]string{"found": p.cur().Lexeme}); err2 == nil {
				return &ast.Literal{Kind: ast.FloatLit, Value: negate(lit2.Value), Pos: tok.Pos}, nil
			}
			return nil, err
		}
		return &ast.Literal{Kind: ast.IntLit, Value: negate(lit.Value), Pos: tok.Pos}, nil

	case lexer.LPAREN:
		return p.parseTuplePattern()

	case lexer.LBRACKET:
		return p.parseListPattern()

	case lexer.LBRACE:
		return p.parseRecordPattern()

	default:
		vars := map[string]string{"found": tok.Lexeme}
		return nil, p.fail("VF2200", vars)
	}
}

func negate(v interface{}) interface{} {
	switch n := v.(type) {
	case int64:
		return -n
	case float64:
		return -n
	default:
		return v
	}
}

func literalKindOf(k lexer.Kind) ast.LiteralKind {
	switch k {
	case lexer.INT_LITERAL:
		return ast.IntLit
	case lexer.FLOAT_LITERAL:
		return ast.FloatLit
	case lexer.STRING_LITERAL:
		return ast.StringLit
	case lexer.BOOL_LITERAL:
		return ast.BoolLit
	default:
		return ast.UnitLit
	}
}

// isConstructorName reports whether name is PascalCase (VF2006 enforces
// this for type-declaration variant names; here it disambiguates a bare
// identifier pattern from a zero-arg constructor pattern).
func isConstructorName(name string) bool {
	r := []rune(name)
	if len(r) == 0 {
		return false
	}
	return unicode.IsUpper(r[0])
}

func (p *Parser) parseConstructorPatternArgs(name lexer.Token) (ast.Pattern, error) {
	ctor := &ast.ConstructorPattern{Name: name.Lexeme, Pos: name.Pos}
	if !p.match(lexer.LPAREN) {
		return ctor, nil
	}
	for !p.at(lexer.RPAREN) {
		arg, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		ctor.Args = append(ctor.Args, arg)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expect(lexer.RPAREN, "VF2201", nil); err != nil {
		return nil, err
	}
	return ctor, nil
}

func (p *Parser) parseTuplePattern() (ast.Pattern, error) {
	start := p.pos_()
	p.advance() // (
	var elems []ast.Pattern
	for !p.at(lexer.RPAREN) {
		el, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if p.match(lexer.COLON) {
			annot, err := p.parseTypeExpr()
			if err != nil {
				return nil, err
			}
			el = &ast.TypedPattern{Pattern: el, Annot: annot, Pos: el.Position()}
		}
		elems = append(elems, el)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expect(lexer.RPAREN, "VF2201", nil); err != nil {
		return nil, err
	}
	if len(elems) == 1 {
		return elems[0], nil
	}
	return &ast.TuplePattern{Elements: elems, Pos: start}, nil
}

func (p *Parser) parseListPattern() (ast.Pattern, error) {
	start := p.pos_()
	p.advance() // [
	lp := &ast.ListPattern{Pos: start}
	for !p.at(lexer.RBRACKET) {
		if p.match(lexer.SPREAD) {
			rest, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			lp.Rest = rest
			break
		}
		el, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		lp.Elements = append(lp.Elements, el)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expect(lexer.RBRACKET, "VF2202", nil); err != nil {
		return nil, err
	}
	return lp, nil
}

func (p *Parser) parseRecordPattern() (ast.Pattern, error) {
	start := p.pos_()
	p.advance() // {
	rp := &ast.RecordPattern{Pos: start}
	for !p.at(lexer.RBRACE) {
		if p.match(lexer.SPREAD) {
			rp.Open = true
			break
		}
		name, err := p.expect(lexer.IDENTIFIER, "VF2200", nil)
		if err != nil {
			return nil, err
		}
		field := &ast.FieldPattern{Name: name.Lexeme, Pos: name.Pos}
		if p.match(lexer.COLON) {
			fp, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			field.Pattern = fp
		} else {
			field.Pattern = &ast.VarPattern{Name: name.Lexeme, Pos: name.Pos}
		}
		rp.Fields = append(rp.Fields, field)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expect(lexer.RBRACE, "VF2200", nil); err != nil {
		return nil, err
	}
	return rp, nil
}
