package parser

import (
	"unicode"

	"github.com/veil-lang/veil/internal/ast"
	"github.com/veil-lang/veil/internal/lexer"
)

// parseTypeExpr parses a full type expression, including surface-level
// union sugar `T1 | T2` (§9 open question: desugared to a nominal variant
// later, not here).
func (p *Parser) parseTypeExpr() (ast.TypeExpr, error) {
	left, err := p.parseFunType()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.PIPE) {
		return left, nil
	}
	members := []ast.TypeExpr{left}
	for p.match(lexer.PIPE) {
		next, err := p.parseFunType()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	return &ast.UnionTypeExpr{Members: members, Pos: left.Position()}, nil
}

func (p *Parser) parseFunType() (ast.TypeExpr, error) {
	if p.at(lexer.LPAREN) {
		start := p.pos_()
		elems, err := p.parseTypeParenGroup()
		if err != nil {
			return nil, err
		}
		if p.match(lexer.ARROW) {
			ret, err := p.parseFunType()
			if err != nil {
				return nil, err
			}
			return &ast.FunTypeExpr{Params: elems, Ret: ret, Pos: start}, nil
		}
		switch len(elems) {
		case 0:
			return &ast.TupleTypeExpr{Pos: start}, nil
		case 1:
			return elems[0], nil
		default:
			return &ast.TupleTypeExpr{Elements: elems, Pos: start}, nil
		}
	}

	atom, err := p.parseTypeAtom()
	if err != nil {
		return nil, err
	}
	if p.match(lexer.ARROW) {
		ret, err := p.parseFunType()
		if err != nil {
			return nil, err
		}
		return &ast.FunTypeExpr{Params: []ast.TypeExpr{atom}, Ret: ret, Pos: atom.Position()}, nil
	}
	return atom, nil
}

// parseTypeParenGroup parses a `(T1, T2, ...)` group and returns its
// elements, having already consumed the surrounding parens. Used both for
// tuple types and for function-type parameter lists (VF2304).
func (p *Parser) parseTypeParenGroup() ([]ast.TypeExpr, error) {
	p.advance() // (
	var elems []ast.TypeExpr
	for !p.at(lexer.RPAREN) {
		t, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, t)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expect(lexer.RPAREN, "VF2304", nil); err != nil {
		return nil, err
	}
	return elems, nil
}

func (p *Parser) parseTypeAtom() (ast.TypeExpr, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.IDENTIFIER:
		p.advance()
		r := []rune(tok.Lexeme)
		if len(r) > 0 && unicode.IsUpper(r[0]) {
			return p.parseTypeConArgs(tok)
		}
		return &ast.TypeVarExpr{Name: tok.Lexeme, Pos: tok.Pos}, nil

	case lexer.LBRACE:
		return p.parseRecordTypeExpr()

	default:
		vars := map[string]string{"found": tok.Lexeme}
		return nil, p.fail("VF2300", vars)
	}
}

func (p *Parser) parseTypeConArgs(name lexer.Token) (ast.TypeExpr, error) {
	con := &ast.TypeConExpr{Name: name.Lexeme, Pos: name.Pos}
	if !p.match(lexer.OP_LT) {
		return con, nil
	}
	for !p.at(lexer.OP_GT) {
		arg, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		con.Args = append(con.Args, arg)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expect(lexer.OP_GT, "VF2301", nil); err != nil {
		return nil, err
	}
	return con, nil
}

func (p *Parser) parseRecordTypeExpr() (ast.TypeExpr, error) {
	start := p.pos_()
	p.advance() // {
	rt := &ast.RecordTypeExpr{Pos: start}
	for !p.at(lexer.RBRACE) {
		if p.match(lexer.SPREAD) {
			rt.Open = true
			break
		}
		name, err := p.expect(lexer.IDENTIFIER, "VF2300", nil)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON, "VF2302", nil); err != nil {
			return nil, err
		}
		ft, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		rt.Fields = append(rt.Fields, &ast.RecordFieldType{Name: name.Lexeme, Type: ft, Pos: name.Pos})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expect(lexer.RBRACE, "VF2303", nil); err != nil {
		return nil, err
	}
	return rt, nil
}
