package parser

import (
	"github.com/veil-lang/veil/internal/ast"
	"github.com/veil-lang/veil/internal/lexer"
)

// parseExpr parses a full expression at the lowest precedence level,
// `target := value` (§4.4: Assign sits below the pipe chain).
func (p *Parser) parseExpr() (ast.Expr, error) {
	left, err := p.parsePipeExpr()
	if err != nil {
		return nil, err
	}
	if p.match(lexer.OP_ASSIGN) {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Target: left, Value: value, Pos: left.Position()}, nil
	}
	return left, nil
}

// parsePipeExpr handles `|>`, the lowest operator precedence (§4.4), left
// associative. A `|>` on a line after the current one only continues the
// chain when the previous line's last token could not itself end a
// statement (§9 open question, preserved literally rather than guessed
// ergonomically).
func (p *Parser) parsePipeExpr() (ast.Expr, error) {
	left, err := p.parseOrExpr()
	if err != nil {
		return nil, err
	}
	for {
		if p.at(lexer.OP_PIPE_GT) {
			p.advance()
			right, err := p.parseOrExpr()
			if err != nil {
				return nil, err
			}
			left = &ast.Pipe{Left: left, Right: right, Pos: left.Position()}
			continue
		}
		if p.atNewline() && !p.lastSig.CanEndStatement() {
			if p.peekPastNewlines().Kind == lexer.OP_PIPE_GT {
				for p.rawAt(p.pos).Kind == lexer.NEWLINE {
					p.advance()
				}
				p.advance() // |>
				right, err := p.parseOrExpr()
				if err != nil {
					return nil, err
				}
				left = &ast.Pipe{Left: left, Right: right, Pos: left.Position()}
				continue
			}
		}
		return left, nil
	}
}

func (p *Parser) parseOrExpr() (ast.Expr, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.OP_OR) {
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: "||", Left: left, Right: right, Pos: left.Position()}
	}
	return left, nil
}

func (p *Parser) parseAndExpr() (ast.Expr, error) {
	left, err := p.parseComparisonExpr()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.OP_AND) {
		right, err := p.parseComparisonExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: "&&", Left: left, Right: right, Pos: left.Position()}
	}
	return left, nil
}

var comparisonOps = map[lexer.Kind]string{
	lexer.OP_EQ: "==", lexer.OP_NEQ: "!=", lexer.OP_LT: "<",
	lexer.OP_LTE: "<=", lexer.OP_GT: ">", lexer.OP_GTE: ">=",
}

func (p *Parser) parseComparisonExpr() (ast.Expr, error) {
	left, err := p.parseAdditiveExpr()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.cur().Kind]
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseAdditiveExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right, Pos: left.Position()}
	}
	return left, nil
}

func (p *Parser) parseAdditiveExpr() (ast.Expr, error) {
	left, err := p.parseShiftExpr()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.cur().Kind {
		case lexer.OP_PLUS:
			op = "+"
		case lexer.OP_MINUS:
			op = "-"
		case lexer.OP_AMPERSAND:
			op = "&"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseShiftExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right, Pos: left.Position()}
	}
}

func (p *Parser) parseShiftExpr() (ast.Expr, error) {
	left, err := p.parseMultiplicativeExpr()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.cur().Kind {
		case lexer.OP_LT_LT:
			op = "<<"
		case lexer.OP_GT_GT:
			op = ">>"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicativeExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right, Pos: left.Position()}
	}
}

func (p *Parser) parseMultiplicativeExpr() (ast.Expr, error) {
	left, err := p.parseConsExpr()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.cur().Kind {
		case lexer.OP_STAR:
			op = "*"
		case lexer.OP_SLASH:
			op = "/"
		case lexer.OP_PERCENT:
			op = "%"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseConsExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right, Pos: left.Position()}
	}
}

// parseConsExpr handles `::`, right associative.
func (p *Parser) parseConsExpr() (ast.Expr, error) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	if p.match(lexer.OP_CONS) {
		right, err := p.parseConsExpr()
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{Op: "::", Left: left, Right: right, Pos: left.Position()}, nil
	}
	return left, nil
}

// parseUnaryExpr handles prefix `-` (negation) and `!` (ref dereference,
// §4.6 "Ref / := / !"), binding looser than application so `!f(x)`
// dereferences the result of `f(x)`.
func (p *Parser) parseUnaryExpr() (ast.Expr, error) {
	if p.at(lexer.OP_MINUS) {
		tok := p.advance()
		operand, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: "-", Expr: operand, Pos: tok.Pos}, nil
	}
	if p.at(lexer.OP_BANG) {
		tok := p.advance()
		operand, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Deref{Target: operand, Pos: tok.Pos}, nil
	}
	return p.parseApplicationExpr()
}

// canStartArgument reports whether the current token can begin a new
// juxtaposed application argument (application is tighter than unary but
// looser than field access, §4.4).
func (p *Parser) canStartArgument() bool {
	tok := p.cur()
	switch tok.Kind {
	case lexer.IDENTIFIER, lexer.INT_LITERAL, lexer.FLOAT_LITERAL,
		lexer.STRING_LITERAL, lexer.BOOL_LITERAL,
		lexer.LPAREN, lexer.LBRACKET, lexer.OP_BANG:
		return true
	case lexer.KEYWORD:
		switch tok.Lexeme {
		case "if", "match", "unsafe":
			return true
		}
	}
	return false
}

// parseApplicationExpr handles juxtaposed application `f a b` and the
// ambiguous-minus rule (VF2112): `f -1` (leading whitespace before `-`,
// none after) is application to a negative literal; `f - 1` (whitespace on
// both sides) is subtraction one level up; `f-1` (no whitespace before
// `-`) is ambiguous and rejected.
func (p *Parser) parseApplicationExpr() (ast.Expr, error) {
	fn, err := p.parseFieldAccessExpr()
	if err != nil {
		return nil, err
	}
	var args []ast.Expr
	for {
		tok := p.cur()
		if tok.Kind == lexer.OP_MINUS {
			nxt := p.peek()
			switch {
			case tok.LeadingWS && !nxt.LeadingWS:
				p.advance()
				operand, err := p.parseFieldAccessExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, &ast.UnaryOp{Op: "-", Expr: operand, Pos: tok.Pos})
				continue
			case tok.LeadingWS && nxt.LeadingWS:
				// Binary subtraction; let parseAdditiveExpr consume it.
			default:
				return nil, p.fail("VF2112", nil)
			}
			break
		}
		if !p.canStartArgument() {
			break
		}
		arg, err := p.parseFieldAccessExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if len(args) == 0 {
		return fn, nil
	}
	return &ast.App{Func: fn, Args: args, Pos: fn.Position()}, nil
}

// parseFieldAccessExpr handles `.`, the tightest binary-like form, binding
// tighter than application.
func (p *Parser) parseFieldAccessExpr() (ast.Expr, error) {
	target, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.DOT) {
		dot := p.advance()
		if !p.at(lexer.IDENTIFIER) {
			return nil, p.failf("expected a field name after '.', found %q", p.cur().Lexeme)
		}
		name := p.advance()
		target = &ast.FieldAccess{Target: target, Field: name.Lexeme, Pos: dot.Pos}
	}
	return target, nil
}

func (p *Parser) parseAtom() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.INT_LITERAL:
		p.advance()
		return &ast.Literal{Kind: ast.IntLit, Value: tok.Value, Pos: tok.Pos}, nil
	case lexer.FLOAT_LITERAL:
		p.advance()
		return &ast.Literal{Kind: ast.FloatLit, Value: tok.Value, Pos: tok.Pos}, nil
	case lexer.STRING_LITERAL:
		p.advance()
		return &ast.Literal{Kind: ast.StringLit, Value: tok.Value, Pos: tok.Pos}, nil
	case lexer.BOOL_LITERAL:
		p.advance()
		return &ast.Literal{Kind: ast.BoolLit, Value: tok.Value, Pos: tok.Pos}, nil

	case lexer.IDENTIFIER:
		if tok.Lexeme == "ref" && p.peek().Kind == lexer.LPAREN {
			p.advance() // ref
			p.advance() // (
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectCloseParen(); err != nil {
				return nil, err
			}
			return &ast.RefLit{Value: v, Pos: tok.Pos}, nil
		}
		p.advance()
		return &ast.Var{Name: tok.Lexeme, Pos: tok.Pos}, nil

	case lexer.SPREAD:
		p.advance()
		v, err := p.parseExpr()
		if err != nil {
			return nil, p.fail("VF2108", nil)
		}
		return &ast.Spread{Value: v, Pos: tok.Pos}, nil

	case lexer.LPAREN:
		return p.parseParenExpr()

	case lexer.LBRACKET:
		return p.parseListLit()

	case lexer.LBRACE:
		return p.parseBraceExpr()

	case lexer.KEYWORD:
		switch tok.Lexeme {
		case "if":
			return p.parseIfExpr()
		case "match":
			return p.parseMatchExpr()
		case "unsafe":
			return p.parseUnsafeExpr()
		case "try", "catch":
			return nil, p.fail("VF2113", nil)
		}
	}
	return nil, p.failf("expected an expression, found %q", tok.Lexeme)
}

func (p *Parser) expectCloseParen() (lexer.Token, error) {
	if !p.at(lexer.RPAREN) {
		return lexer.Token{}, p.failf("expected ')', found %q", p.cur().Lexeme)
	}
	return p.advance(), nil
}

func (p *Parser) expectCloseBracket() (lexer.Token, error) {
	if !p.at(lexer.RBRACKET) {
		return lexer.Token{}, p.failf("expected ']', found %q", p.cur().Lexeme)
	}
	return p.advance(), nil
}

func (p *Parser) expectCloseBrace() (lexer.Token, error) {
	if !p.at(lexer.RBRACE) {
		return lexer.Token{}, p.failf("expected '}', found %q", p.cur().Lexeme)
	}
	return p.advance(), nil
}

// parseParenExpr disambiguates `()` unit, `(expr)` grouping, `(e1, e2, ...)`
// tuple, and `(pat [: type], ...) [: type] => body` lambda via bounded
// lookahead (no backtracking, so speculative failures never pollute the
// accumulated error list).
func (p *Parser) parseParenExpr() (ast.Expr, error) {
	start := p.pos_()
	if p.looksLikeLambdaParams() {
		return p.parseLambda()
	}
	p.advance() // (
	if p.match(lexer.RPAREN) {
		return &ast.Literal{Kind: ast.UnitLit, Value: nil, Pos: start}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.match(lexer.COMMA) {
		elems := []ast.Expr{first}
		for !p.at(lexer.RPAREN) {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if !p.match(lexer.COMMA) {
				break
			}
		}
		if _, err := p.expectCloseParen(); err != nil {
			return nil, err
		}
		return &ast.Tuple{Elements: elems, Pos: start}, nil
	}
	if _, err := p.expectCloseParen(); err != nil {
		return nil, err
	}
	return first, nil
}

// looksLikeLambdaParams scans raw tokens from the current LPAREN to its
// matching RPAREN, then an optional `: ReturnType`, checking whether a
// FAT_ARROW follows. Pure lookahead: no parser state is mutated.
func (p *Parser) looksLikeLambdaParams() bool {
	idx := p.pos
	depth := 0
	for {
		t := p.rawAt(idx)
		if t.Kind == lexer.EOF {
			return false
		}
		if t.Kind == lexer.LPAREN {
			depth++
		}
		if t.Kind == lexer.RPAREN {
			depth--
			idx++
			if depth == 0 {
				break
			}
			continue
		}
		idx++
	}
	for p.rawAt(idx).Kind == lexer.NEWLINE {
		idx++
	}
	if p.rawAt(idx).Kind == lexer.COLON {
		idx++
		depth2 := 0
		for {
			t := p.rawAt(idx)
			if t.Kind == lexer.EOF || t.Kind == lexer.NEWLINE {
				return false
			}
			switch t.Kind {
			case lexer.LPAREN, lexer.LBRACE, lexer.LBRACKET, lexer.OP_LT:
				depth2++
			case lexer.RPAREN, lexer.RBRACE, lexer.RBRACKET, lexer.OP_GT:
				if depth2 > 0 {
					depth2--
				}
			case lexer.FAT_ARROW:
				if depth2 == 0 {
					return true
				}
			}
			idx++
		}
	}
	return p.rawAt(idx).Kind == lexer.FAT_ARROW
}

func (p *Parser) parseLambda() (ast.Expr, error) {
	start := p.pos_()
	p.advance() // (
	var params []*ast.Param
	for !p.at(lexer.RPAREN) {
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		param := &ast.Param{Pattern: pat, Pos: pat.Position()}
		if p.match(lexer.COLON) {
			t, err := p.parseTypeExpr()
			if err != nil {
				return nil, err
			}
			param.Annot = t
		}
		params = append(params, param)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expectCloseParen(); err != nil {
		return nil, err
	}
	var retAnnot ast.TypeExpr
	if p.match(lexer.COLON) {
		t, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		retAnnot = t
	}
	if _, err := p.expect(lexer.FAT_ARROW, "VF2106", nil); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{Params: params, ReturnAnnot: retAnnot, Body: body, Pos: start}, nil
}

func (p *Parser) parseListLit() (ast.Expr, error) {
	start := p.pos_()
	p.advance() // [
	lit := &ast.ListLit{Pos: start}
	for !p.at(lexer.RBRACKET) {
		if p.match(lexer.SPREAD) {
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			lit.Elements = append(lit.Elements, &ast.Spread{Value: v, Pos: v.Position()})
		} else {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			lit.Elements = append(lit.Elements, e)
		}
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expectCloseBracket(); err != nil {
		return nil, err
	}
	return lit, nil
}

// parseBraceExpr disambiguates a record literal from a block: `{}`, a
// leading `...spread`, or `name` followed by `:`, `,`, or `}` reads as a
// record; anything else reads as a sequence of statements.
func (p *Parser) parseBraceExpr() (ast.Expr, error) {
	if p.looksLikeRecordLit() {
		return p.parseRecordLit()
	}
	return p.parseBlockExpr()
}

func (p *Parser) looksLikeRecordLit() bool {
	if p.peek().Kind == lexer.RBRACE {
		return true // {} — empty record
	}
	if p.peek().Kind == lexer.SPREAD {
		return true
	}
	if p.peek().Kind == lexer.IDENTIFIER {
		switch p.peekN(2).Kind {
		case lexer.COLON, lexer.COMMA, lexer.RBRACE:
			return true
		}
	}
	return false
}

func (p *Parser) parseRecordLit() (ast.Expr, error) {
	start := p.pos_()
	p.advance() // {
	rec := &ast.Record{Pos: start}
	p.skipNewlines()
	for !p.at(lexer.RBRACE) {
		if p.match(lexer.SPREAD) {
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			rec.Spread = v
		} else {
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			field := &ast.RecordField{Name: name.Lexeme, Pos: name.Pos}
			if p.match(lexer.COLON) {
				v, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				field.Value = v
			}
			rec.Fields = append(rec.Fields, field)
		}
		p.skipNewlines()
		if !p.match(lexer.COMMA) {
			if p.at(lexer.IDENTIFIER) || p.at(lexer.SPREAD) {
				// Another field follows with no separating comma: only
				// valid when every field in the literal is shorthand with
				// no ambiguity, which this grammar does not allow.
				return nil, p.fail("VF2111", nil)
			}
			break
		}
		p.skipNewlines()
	}
	if _, err := p.expectCloseBrace(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (p *Parser) parseBlockExpr() (ast.Expr, error) {
	start := p.pos_()
	p.advance() // {
	blk := &ast.Block{Pos: start}
	p.skipNewlines()
	for !p.at(lexer.RBRACE) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		blk.Stmts = append(blk.Stmts, e)
		sawSeparator := false
		for p.at(lexer.NEWLINE) || p.at(lexer.SEMICOLON) {
			p.advance()
			sawSeparator = true
		}
		if !sawSeparator {
			break
		}
	}
	if _, err := p.expectCloseBrace(); err != nil {
		return nil, err
	}
	return blk, nil
}

func (p *Parser) parseIfExpr() (ast.Expr, error) {
	start := p.pos_()
	p.advance() // if
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.matchKeyword("then") {
		return nil, p.fail("VF2105", nil)
	}
	thenE, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.matchKeyword("else") {
		return nil, p.failf("expected 'else' to close if-expression")
	}
	elseE, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.If{Cond: cond, Then: thenE, Else: elseE, Pos: start}, nil
}

func (p *Parser) parseMatchExpr() (ast.Expr, error) {
	start := p.pos_()
	p.advance() // match
	scrutinee, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE, "VF2200", nil); err != nil {
		return nil, err
	}
	m := &ast.Match{Scrutinee: scrutinee, Pos: start}
	p.skipNewlines()
	for !p.at(lexer.RBRACE) {
		armStart := p.pos_()
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		var guard ast.Expr
		if g, ok := pat.(*ast.GuardedPattern); ok {
			guard = g.Guard
			pat = g.Pattern
		}
		if _, err := p.expect(lexer.FAT_ARROW, "VF2106", nil); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		m.Arms = append(m.Arms, &ast.MatchArm{Pattern: pat, Guard: guard, Body: body, Pos: armStart})
		p.skipNewlines()
		if !p.match(lexer.PIPE) && !p.match(lexer.COMMA) {
			break
		}
		p.skipNewlines()
	}
	if _, err := p.expectCloseBrace(); err != nil {
		return nil, err
	}
	return m, nil
}

func (p *Parser) parseUnsafeExpr() (ast.Expr, error) {
	start := p.pos_()
	p.advance() // unsafe
	body, err := p.parseBlockOrExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Unsafe{Body: body, Pos: start}, nil
}

// parseBlockOrExpr parses a `{ ... }` block if present, otherwise a single
// expression — used after `unsafe`, which accepts either shape.
func (p *Parser) parseBlockOrExpr() (ast.Expr, error) {
	if p.at(lexer.LBRACE) {
		return p.parseBlockExpr()
	}
	return p.parseExpr()
}
