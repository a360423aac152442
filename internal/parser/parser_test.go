package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veil-lang/veil/internal/ast"
	"github.com/veil-lang/veil/internal/errors"
	"github.com/veil-lang/veil/internal/lexer"
)

func errCode(t *testing.T, err error) string {
	t.Helper()
	diag, ok := err.(*errors.Diagnostic)
	require.True(t, ok, "expected a *errors.Diagnostic, got %T", err)
	return string(diag.Code)
}

func tokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	toks, err := lexer.Tokenize([]byte(src), "test.vl")
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	return toks
}

func parseModule(t *testing.T, src string) *ast.Module {
	t.Helper()
	toks := tokenize(t, src)
	mod, err := Parse(toks, "test.vl")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return mod
}

func parseExprString(t *testing.T, src string) ast.Expr {
	t.Helper()
	toks := tokenize(t, src)
	p := New(toks, "test.vl", 0)
	e, err := p.parseExpr()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return e
}

func TestLetDeclSimpleBinding(t *testing.T) {
	mod := parseModule(t, "let x = 1\n")
	if len(mod.Declarations) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(mod.Declarations))
	}
	ld, ok := mod.Declarations[0].(*ast.LetDecl)
	if !ok {
		t.Fatalf("expected *ast.LetDecl, got %T", mod.Declarations[0])
	}
	vp, ok := ld.Pattern.(*ast.VarPattern)
	if !ok || vp.Name != "x" {
		t.Fatalf("expected VarPattern{x}, got %#v", ld.Pattern)
	}
	lit, ok := ld.Value.(*ast.Literal)
	if !ok || lit.Value.(int64) != 1 {
		t.Fatalf("expected Literal(1), got %#v", ld.Value)
	}
}

func TestLetFunctionSugar(t *testing.T) {
	mod := parseModule(t, "let add(x, y) = x + y\n")
	fd, ok := mod.Declarations[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", mod.Declarations[0])
	}
	if fd.Name != "add" || len(fd.Params) != 2 {
		t.Fatalf("unexpected FuncDecl: %#v", fd)
	}
	bin, ok := fd.Body.(*ast.BinOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected BinOp(+), got %#v", fd.Body)
	}
}

func TestLetRecWithAndGroup(t *testing.T) {
	mod := parseModule(t, "let rec x = 1 and y = 2\n")
	ld, ok := mod.Declarations[0].(*ast.LetDecl)
	if !ok {
		t.Fatalf("expected *ast.LetDecl, got %T", mod.Declarations[0])
	}
	if !ld.Rec || len(ld.Group) != 1 {
		t.Fatalf("expected rec with one grouped sibling, got %#v", ld)
	}
}

func TestAndWithoutRecIsError(t *testing.T) {
	toks := tokenize(t, "let x = 1 and y = 2\n")
	_, err := Parse(toks, "test.vl")
	if err == nil {
		t.Fatal("expected VF2005 error for 'and' without 'let rec'")
	}
}

func TestMutBindingRequiresRef(t *testing.T) {
	toks := tokenize(t, "let mut x = 1\n")
	if _, err := Parse(toks, "test.vl"); err == nil {
		t.Fatal("expected VF2003 error for mut binding without ref(...)")
	}
	mod := parseModule(t, "let mut x = ref(1)\n")
	ld := mod.Declarations[0].(*ast.LetDecl)
	if !ld.Mut {
		t.Fatal("expected Mut to be true")
	}
	if _, ok := ld.Value.(*ast.RefLit); !ok {
		t.Fatalf("expected RefLit value, got %#v", ld.Value)
	}
}

func TestTypeDeclVariant(t *testing.T) {
	mod := parseModule(t, "type Option<a> = None | Some(a)\n")
	td, ok := mod.Declarations[0].(*ast.TypeDecl)
	if !ok {
		t.Fatalf("expected *ast.TypeDecl, got %T", mod.Declarations[0])
	}
	if td.Name != "Option" || len(td.Params) != 1 || td.Params[0] != "a" {
		t.Fatalf("unexpected type params: %#v", td)
	}
	if len(td.Variants) != 2 || td.Variants[0].Name != "None" || td.Variants[1].Name != "Some" {
		t.Fatalf("unexpected variants: %#v", td.Variants)
	}
	if len(td.Variants[1].Fields) != 1 {
		t.Fatalf("expected Some to carry one field, got %#v", td.Variants[1].Fields)
	}
}

func TestTypeDeclLowercaseVariantIsPascalCaseError(t *testing.T) {
	toks := tokenize(t, "type Bad = Good | bad\n")
	if _, err := Parse(toks, "test.vl"); err == nil {
		t.Fatal("expected VF2006 error for lowercase variant name")
	}
}

func TestTypeDeclRecordBody(t *testing.T) {
	mod := parseModule(t, "type Point = { x: Int, y: Int }\n")
	td := mod.Declarations[0].(*ast.TypeDecl)
	rt, ok := td.Body.(*ast.RecordTypeExpr)
	if !ok || len(rt.Fields) != 2 {
		t.Fatalf("expected 2-field record type, got %#v", td.Body)
	}
}

func TestImportSelective(t *testing.T) {
	mod := parseModule(t, "import { map, filter } from \"std/list\"\n")
	if len(mod.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(mod.Imports))
	}
	imp := mod.Imports[0]
	if imp.Path != "std/list" || len(imp.Names) != 2 {
		t.Fatalf("unexpected import: %#v", imp)
	}
}

func TestImportNamespace(t *testing.T) {
	mod := parseModule(t, "import * as List from \"std/list\"\n")
	imp := mod.Imports[0]
	if imp.Namespace != "List" || imp.Path != "std/list" {
		t.Fatalf("unexpected import: %#v", imp)
	}
}

func TestExportList(t *testing.T) {
	mod := parseModule(t, "export { inc, dec } from \"./math\"\n")
	if len(mod.Exports) != 1 {
		t.Fatalf("expected 1 export, got %d", len(mod.Exports))
	}
	if mod.Exports[0].Path != "./math" || len(mod.Exports[0].Names) != 2 {
		t.Fatalf("unexpected export: %#v", mod.Exports[0])
	}
}

func TestExportFunctionSugar(t *testing.T) {
	mod := parseModule(t, "export let inc(x) = x + 1\n")
	fd, ok := mod.Declarations[0].(*ast.FuncDecl)
	if !ok || !fd.IsExport {
		t.Fatalf("expected exported FuncDecl, got %#v", mod.Declarations[0])
	}
}

func TestExportPlainLetIsError(t *testing.T) {
	toks := tokenize(t, "export let x = 1\n")
	if _, err := Parse(toks, "test.vl"); err == nil {
		t.Fatal("expected VF2403 error for 'export let' plain binding")
	}
}

func TestExternalSingleForm(t *testing.T) {
	mod := parseModule(t, `external log : (String) -> Unit = "console.log" from "std/console"` + "\n")
	ext, ok := mod.Declarations[0].(*ast.ExternalDecl)
	if !ok {
		t.Fatalf("expected *ast.ExternalDecl, got %T", mod.Declarations[0])
	}
	if ext.Name != "log" || ext.JSName != "console.log" || ext.ImportPath != "std/console" {
		t.Fatalf("unexpected external decl: %#v", ext)
	}
}

func TestExternalBlockForm(t *testing.T) {
	src := "external from \"std/math\" {\n" +
		"  sin : (Float) -> Float\n" +
		"  cos : (Float) -> Float\n" +
		"}\n"
	mod := parseModule(t, src)
	if len(mod.Declarations) != 2 {
		t.Fatalf("expected 2 external declarations, got %d", len(mod.Declarations))
	}
	for _, d := range mod.Declarations {
		ext := d.(*ast.ExternalDecl)
		if ext.ImportPath != "std/math" {
			t.Fatalf("expected shared import path, got %#v", ext)
		}
	}
}

func TestIfThenElse(t *testing.T) {
	e := parseExprString(t, "if x then 1 else 2")
	ifE, ok := e.(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", e)
	}
	if _, ok := ifE.Cond.(*ast.Var); !ok {
		t.Fatalf("expected Var condition, got %#v", ifE.Cond)
	}
}

func TestLambdaVsTupleVsGrouping(t *testing.T) {
	lam := parseExprString(t, "(x, y) => x + y")
	if _, ok := lam.(*ast.Lambda); !ok {
		t.Fatalf("expected *ast.Lambda, got %T", lam)
	}
	tup := parseExprString(t, "(1, 2)")
	if _, ok := tup.(*ast.Tuple); !ok {
		t.Fatalf("expected *ast.Tuple, got %T", tup)
	}
	grouped := parseExprString(t, "(1)")
	if _, ok := grouped.(*ast.Literal); !ok {
		t.Fatalf("expected a bare Literal for grouping, got %T", grouped)
	}
}

func TestPipeChain(t *testing.T) {
	e := parseExprString(t, "x |> f |> g")
	outer, ok := e.(*ast.Pipe)
	if !ok {
		t.Fatalf("expected *ast.Pipe, got %T", e)
	}
	inner, ok := outer.Left.(*ast.Pipe)
	if !ok {
		t.Fatalf("expected left-associative nesting, got %#v", outer.Left)
	}
	if _, ok := inner.Left.(*ast.Var); !ok {
		t.Fatalf("expected innermost left to be Var, got %#v", inner.Left)
	}
}

func TestConsIsRightAssociative(t *testing.T) {
	e := parseExprString(t, "1 :: 2 :: xs")
	bin, ok := e.(*ast.BinOp)
	if !ok || bin.Op != "::" {
		t.Fatalf("expected top-level ::, got %#v", e)
	}
	if _, ok := bin.Right.(*ast.BinOp); !ok {
		t.Fatalf("expected right-nested ::, got %#v", bin.Right)
	}
}

func TestApplicationBindsTighterThanAdditive(t *testing.T) {
	e := parseExprString(t, "f x + 1")
	bin, ok := e.(*ast.BinOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected top-level +, got %#v", e)
	}
	if _, ok := bin.Left.(*ast.App); !ok {
		t.Fatalf("expected application on the left of +, got %#v", bin.Left)
	}
}

func TestFieldAccessBindsTighterThanApplication(t *testing.T) {
	e := parseExprString(t, "f a.b")
	app, ok := e.(*ast.App)
	if !ok || len(app.Args) != 1 {
		t.Fatalf("expected single-argument application, got %#v", e)
	}
	if _, ok := app.Args[0].(*ast.FieldAccess); !ok {
		t.Fatalf("expected field access argument, got %#v", app.Args[0])
	}
}

func TestAmbiguousMinusIsApplicationToNegativeLiteral(t *testing.T) {
	e := parseExprString(t, "f -1")
	app, ok := e.(*ast.App)
	if !ok || len(app.Args) != 1 {
		t.Fatalf("expected single-argument application, got %#v", e)
	}
	u, ok := app.Args[0].(*ast.UnaryOp)
	if !ok || u.Op != "-" {
		t.Fatalf("expected UnaryOp(-), got %#v", app.Args[0])
	}
}

func TestSpacedMinusIsSubtraction(t *testing.T) {
	e := parseExprString(t, "f x - 1")
	bin, ok := e.(*ast.BinOp)
	if !ok || bin.Op != "-" {
		t.Fatalf("expected top-level subtraction, got %#v", e)
	}
}

func TestGluedMinusIsAmbiguousError(t *testing.T) {
	toks := tokenize(t, "f x-1")
	p := New(toks, "test.vl", 0)
	if _, err := p.parseExpr(); err == nil {
		t.Fatal("expected VF2112 ambiguity error for glued '-'")
	}
}

func TestRefDerefAssign(t *testing.T) {
	ref := parseExprString(t, "ref(1)")
	if _, ok := ref.(*ast.RefLit); !ok {
		t.Fatalf("expected *ast.RefLit, got %T", ref)
	}
	deref := parseExprString(t, "!r")
	if d, ok := deref.(*ast.Deref); !ok || d.Target.(*ast.Var).Name != "r" {
		t.Fatalf("expected Deref{r}, got %#v", deref)
	}
	assign := parseExprString(t, "r := 2")
	a, ok := assign.(*ast.Assign)
	if !ok {
		t.Fatalf("expected *ast.Assign, got %T", assign)
	}
	if a.Target.(*ast.Var).Name != "r" {
		t.Fatalf("unexpected assign target: %#v", a.Target)
	}
}

func TestMatchWithGuard(t *testing.T) {
	e := parseExprString(t, "match x { n when n > 0 => 1 | _ => 0 }")
	m, ok := e.(*ast.Match)
	if !ok || len(m.Arms) != 2 {
		t.Fatalf("expected 2-armed match, got %#v", e)
	}
	if m.Arms[0].Guard == nil {
		t.Fatal("expected a guard on the first arm")
	}
	if _, ok := m.Arms[1].Pattern.(*ast.WildcardPattern); !ok {
		t.Fatalf("expected wildcard pattern on second arm, got %#v", m.Arms[1].Pattern)
	}
}

func TestRecordLiteralShorthandAndSpread(t *testing.T) {
	e := parseExprString(t, "{ x, y: 2, ...base }")
	rec, ok := e.(*ast.Record)
	if !ok {
		t.Fatalf("expected *ast.Record, got %T", e)
	}
	if len(rec.Fields) != 2 || rec.Fields[0].Value != nil {
		t.Fatalf("expected shorthand field x with nil value, got %#v", rec.Fields)
	}
	if rec.Spread == nil {
		t.Fatal("expected a spread base")
	}
}

func TestBlockSequencesStatements(t *testing.T) {
	e := parseExprString(t, "{\n  f(x)\n  g(y)\n}")
	blk, ok := e.(*ast.Block)
	if !ok || len(blk.Stmts) != 2 {
		t.Fatalf("expected a 2-statement block, got %#v", e)
	}
}

func TestListLiteralWithSpread(t *testing.T) {
	e := parseExprString(t, "[1, 2, ...rest]")
	lit, ok := e.(*ast.ListLit)
	if !ok || len(lit.Elements) != 3 {
		t.Fatalf("expected 3-element list literal, got %#v", e)
	}
	if _, ok := lit.Elements[2].(*ast.Spread); !ok {
		t.Fatalf("expected trailing spread, got %#v", lit.Elements[2])
	}
}

func TestUnsafeBlock(t *testing.T) {
	e := parseExprString(t, "unsafe { 1 }")
	u, ok := e.(*ast.Unsafe)
	if !ok {
		t.Fatalf("expected *ast.Unsafe, got %T", e)
	}
	if _, ok := u.Body.(*ast.Block); !ok {
		t.Fatalf("expected block body, got %#v", u.Body)
	}
}

func TestTryCatchRejected(t *testing.T) {
	toks := tokenize(t, "try")
	p := New(toks, "test.vl", 0)
	if _, err := p.parseExpr(); err == nil {
		t.Fatal("expected VF2113 error for 'try'")
	}
}

func TestTooManyErrorsStopsParsing(t *testing.T) {
	var malformed string
	for i := 0; i < 20; i++ {
		malformed += "1 2 3\n"
	}
	toks := tokenize(t, malformed)
	p := New(toks, "test.vl", 5)
	_, err := p.ParseModule()
	if err == nil {
		t.Fatal("expected the VF2500 threshold to stop parsing")
	}
	require.Equal(t, "VF2500", errCode(t, err))
}

func TestTryCatchRejectedCodeIsVF2113(t *testing.T) {
	toks := tokenize(t, "try")
	p := New(toks, "test.vl", 0)
	_, err := p.parseExpr()
	require.Error(t, err)
	require.Equal(t, "VF2113", errCode(t, err))
}

func TestGluedMinusIsAmbiguousErrorCode(t *testing.T) {
	toks := tokenize(t, "f x-1")
	p := New(toks, "test.vl", 0)
	_, err := p.parseExpr()
	require.Error(t, err)
	require.Equal(t, "VF2112", errCode(t, err))
}
