package parser

import (
	"strings"

	"github.com/veil-lang/veil/internal/ast"
	"github.com/veil-lang/veil/internal/lexer"
	"github.com/veil-lang/veil/internal/source"
)

func (p *Parser) expectIdent() (lexer.Token, error) {
	if !p.at(lexer.IDENTIFIER) {
		return lexer.Token{}, p.failf("expected an identifier, found %q", p.cur().Lexeme)
	}
	return p.advance(), nil
}

// parseLetDecl parses `let [rec|mut] pattern [: type] = expr [and ...]`
// and its function-declaration sugar `let name(params) [: ret] = body`
// (§4.4). The keyword `let` has not yet been consumed by the caller.
func (p *Parser) parseLetDecl() (ast.Decl, error) {
	start := p.pos_()
	p.advance() // let

	mut := p.matchKeyword("mut")
	rec := false
	if !mut {
		rec = p.matchKeyword("rec")
	}

	if !mut && p.at(lexer.IDENTIFIER) && !isConstructorName(p.cur().Lexeme) && p.peek().Kind == lexer.LPAREN {
		return p.parseFuncDeclRest(start, false)
	}

	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	var annot ast.TypeExpr
	if p.match(lexer.COLON) {
		annot, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}
	if !p.match(lexer.OP_EQUALS) {
		return nil, p.failf("expected '=' in let binding, found %q", p.cur().Lexeme)
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if mut {
		vp, ok := pat.(*ast.VarPattern)
		if !ok {
			return nil, p.fail("VF2004", nil)
		}
		if _, ok := value.(*ast.RefLit); !ok {
			return nil, p.fail("VF2003", map[string]string{"name": vp.Name})
		}
	}

	decl := &ast.LetDecl{Pattern: pat, Rec: rec, Annot: annot, Value: value, Mut: mut, Pos: start}

	for p.matchKeyword("and") {
		if !rec {
			return nil, p.fail("VF2005", nil)
		}
		sib, err := p.parseLetBindingOnly()
		if err != nil {
			return nil, err
		}
		decl.Group = append(decl.Group, sib)
	}
	return decl, nil
}

// parseLetBindingOnly parses one `pattern [: type] = expr` sibling of an
// `and`-joined `let rec` group; `let`/`rec`/`and` are not part of it.
func (p *Parser) parseLetBindingOnly() (*ast.LetDecl, error) {
	start := p.pos_()
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	var annot ast.TypeExpr
	if p.match(lexer.COLON) {
		annot, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}
	if !p.match(lexer.OP_EQUALS) {
		return nil, p.failf("expected '=' in let binding, found %q", p.cur().Lexeme)
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.LetDecl{Pattern: pat, Rec: true, Annot: annot, Value: value, Pos: start}, nil
}

// parseFuncDeclRest parses the function-declaration sugar body after `let`
// (and optionally `export let`) and a bare name has been confirmed to be
// followed by `(`.
func (p *Parser) parseFuncDeclRest(start source.Pos, isExport bool) (ast.Decl, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	fd := &ast.FuncDecl{Name: name.Lexeme, IsExport: isExport, Pos: start}

	if p.match(lexer.OP_LT) {
		seen := map[string]bool{}
		for !p.at(lexer.OP_GT) {
			tp, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if seen[tp.Lexeme] {
				return nil, p.fail("VF2007", map[string]string{"name": tp.Lexeme})
			}
			seen[tp.Lexeme] = true
			fd.TypeParams = append(fd.TypeParams, tp.Lexeme)
			if !p.match(lexer.COMMA) {
				break
			}
		}
		if !p.match(lexer.OP_GT) {
			return nil, p.failf("expected '>' to close type-parameter list")
		}
	}

	if !p.match(lexer.LPAREN) {
		return nil, p.failf("expected '(' to open parameter list")
	}
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
		fd.Params = append(fd.Params, param)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expectCloseParen(); err != nil {
		return nil, err
	}
	if p.match(lexer.COLON) {
		t, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		fd.ReturnAnnot = t
	}
	if !p.match(lexer.OP_EQUALS) {
		return nil, p.failf("expected '=' before function body, found %q", p.cur().Lexeme)
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	fd.Body = body
	return fd, nil
}

// parseTypeDecl parses `type Name[<params>] = typeExpr | variant-alts`.
// `type` has not yet been consumed by the caller.
func (p *Parser) parseTypeDecl(exported bool) (ast.Decl, error) {
	start := p.pos_()
	p.advance() // type
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	td := &ast.TypeDecl{Name: name.Lexeme, Exported: exported, Pos: start}

	if p.match(lexer.OP_LT) {
		seen := map[string]bool{}
		for !p.at(lexer.OP_GT) {
			tp, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if seen[tp.Lexeme] {
				return nil, p.fail("VF2007", map[string]string{"name": tp.Lexeme})
			}
			seen[tp.Lexeme] = true
			td.Params = append(td.Params, tp.Lexeme)
			if !p.match(lexer.COMMA) {
				break
			}
		}
		if !p.match(lexer.OP_GT) {
			return nil, p.failf("expected '>' to close type-parameter list")
		}
	}

	if !p.match(lexer.OP_EQUALS) {
		return nil, p.failf("expected '=' in type declaration, found %q", p.cur().Lexeme)
	}

	if p.at(lexer.IDENTIFIER) && isConstructorName(p.cur().Lexeme) {
		variants, err := p.parseVariantAlts()
		if err != nil {
			return nil, err
		}
		td.Variants = variants
		return td, nil
	}

	body, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	td.Body = body
	return td, nil
}

func (p *Parser) parseVariantAlts() ([]*ast.VariantAlt, error) {
	var alts []*ast.VariantAlt
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if !isConstructorName(name.Lexeme) {
			return nil, p.fail("VF2006", map[string]string{"name": name.Lexeme})
		}
		alt := &ast.VariantAlt{Name: name.Lexeme, Pos: name.Pos}
		if p.match(lexer.LPAREN) {
			for !p.at(lexer.RPAREN) {
				t, err := p.parseTypeExpr()
				if err != nil {
					return nil, err
				}
				alt.Fields = append(alt.Fields, t)
				if !p.match(lexer.COMMA) {
					break
				}
			}
			if _, err := p.expectCloseParen(); err != nil {
				return nil, err
			}
		}
		alts = append(alts, alt)
		if !p.match(lexer.PIPE) {
			break
		}
	}
	return alts, nil
}

// parseExternalDecl parses either the single form
// `external name : type = "js_name" [from "path"]` or the block form
// `external [from "path"] { name : type [= "js_name"] ... }`, returning
// one ExternalDecl per name (FFI overloads share a name, VF4801/VF4802).
// `external` has not yet been consumed by the caller.
func (p *Parser) parseExternalDecl() ([]ast.Decl, error) {
	start := p.pos_()
	p.advance() // external

	var blockPath string
	hasBlockFrom := false
	if p.matchKeyword("from") {
		pathTok, err := p.expect(lexer.STRING_LITERAL, "VF2400", nil)
		if err != nil {
			return nil, err
		}
		blockPath = pathTok.Value.(string)
		hasBlockFrom = true
	}

	if p.at(lexer.LBRACE) {
		p.advance()
		var decls []ast.Decl
		p.skipNewlines()
		for !p.at(lexer.RBRACE) {
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if !p.match(lexer.COLON) {
				return nil, p.failf("expected ':' after external name %q", name.Lexeme)
			}
			scheme, err := p.parseTypeExpr()
			if err != nil {
				return nil, err
			}
			jsName := name.Lexeme
			if p.match(lexer.OP_EQUALS) {
				jsTok, err := p.expect(lexer.STRING_LITERAL, "VF2400", nil)
				if err != nil {
					return nil, err
				}
				jsName = jsTok.Value.(string)
			}
			decls = append(decls, &ast.ExternalDecl{
				Name: name.Lexeme, Scheme: scheme, JSName: jsName,
				ImportPath: blockPath, Pos: name.Pos,
			})
			p.skipNewlines()
		}
		if _, err := p.expectCloseBrace(); err != nil {
			return nil, err
		}
		return decls, nil
	}

	if hasBlockFrom {
		return nil, p.failf("expected '{' to open external block")
	}

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if !p.match(lexer.COLON) {
		return nil, p.failf("expected ':' after external name %q", name.Lexeme)
	}
	scheme, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	if !p.match(lexer.OP_EQUALS) {
		return nil, p.failf("expected '=' in external declaration")
	}
	jsTok, err := p.expect(lexer.STRING_LITERAL, "VF2400", nil)
	if err != nil {
		return nil, err
	}
	importPath := ""
	if p.matchKeyword("from") {
		pathTok, err := p.expect(lexer.STRING_LITERAL, "VF2400", nil)
		if err != nil {
			return nil, err
		}
		importPath = pathTok.Value.(string)
	}
	return []ast.Decl{&ast.ExternalDecl{
		Name: name.Lexeme, Scheme: scheme, JSName: jsTok.Value.(string),
		ImportPath: importPath, Pos: start,
	}}, nil
}

// parseImportDecl parses `import { names } from "path"` or
// `import * as X from "path"`. `import` has not yet been consumed.
func (p *Parser) parseImportDecl() (*ast.ImportDecl, error) {
	start := p.pos_()
	p.advance() // import

	if p.at(lexer.OP_STAR) {
		p.advance()
		if !p.matchKeyword("as") {
			return nil, p.failf("expected 'as' after 'import *'")
		}
		name, err := p.expect(lexer.IDENTIFIER, "VF2401", nil)
		if err != nil {
			return nil, err
		}
		if !p.matchKeyword("from") {
			return nil, p.failf("expected 'from' after import namespace name")
		}
		pathTok, err := p.expect(lexer.STRING_LITERAL, "VF2400", nil)
		if err != nil {
			return nil, err
		}
		return &ast.ImportDecl{Namespace: name.Lexeme, Path: pathTok.Value.(string), Pos: start}, nil
	}

	if !p.match(lexer.LBRACE) {
		return nil, p.failf("expected '{' or '*' after 'import'")
	}
	var names []string
	p.skipNewlines()
	for !p.at(lexer.RBRACE) {
		n, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		names = append(names, n.Lexeme)
		p.skipNewlines()
		if !p.match(lexer.COMMA) {
			break
		}
		p.skipNewlines()
	}
	if _, err := p.expectCloseBrace(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, p.fail("VF2402", nil)
	}
	if !p.matchKeyword("from") {
		return nil, p.failf("expected 'from' after import list")
	}
	pathTok, err := p.expect(lexer.STRING_LITERAL, "VF2400", nil)
	if err != nil {
		return nil, err
	}
	return &ast.ImportDecl{Names: names, Path: pathTok.Value.(string), Pos: start}, nil
}

// parseExportOrExportedDecl parses `export { names } [from "path"]` (a
// re-export list, returned as *ast.ExportDecl) or `export let name(...) =
// body` (function-sugar export, returned as *ast.FuncDecl with IsExport
// set). Exporting a plain value `let` is VF2403. `export` has not yet been
// consumed.
func (p *Parser) parseExportOrExportedDecl() (interface{}, error) {
	start := p.pos_()
	p.advance() // export

	if p.at(lexer.LBRACE) {
		p.advance()
		var names []string
		p.skipNewlines()
		for !p.at(lexer.RBRACE) {
			n, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if strings.HasPrefix(n.Lexeme, "_") {
				return nil, p.fail("VF2404", map[string]string{"name": n.Lexeme})
			}
			names = append(names, n.Lexeme)
			p.skipNewlines()
			if !p.match(lexer.COMMA) {
				break
			}
			p.skipNewlines()
		}
		if _, err := p.expectCloseBrace(); err != nil {
			return nil, err
		}
		ed := &ast.ExportDecl{Names: names, Pos: start}
		if p.matchKeyword("from") {
			pathTok, err := p.expect(lexer.STRING_LITERAL, "VF2400", nil)
			if err != nil {
				return nil, err
			}
			ed.Path = pathTok.Value.(string)
		}
		return ed, nil
	}

	if p.atKeyword("let") {
		decl, err := p.parseLetDecl()
		if err != nil {
			return nil, err
		}
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			return nil, p.fail("VF2403", nil)
		}
		if strings.HasPrefix(fd.Name, "_") {
			return nil, p.fail("VF2404", map[string]string{"name": fd.Name})
		}
		fd.IsExport = true
		return fd, nil
	}

	return nil, p.failf("expected '{' or 'let' after 'export', found %q", p.cur().Lexeme)
}
