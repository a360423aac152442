package typedast

import (
	"testing"

	"github.com/veil-lang/veil/internal/core"
	"github.com/veil-lang/veil/internal/source"
	"github.com/veil-lang/veil/internal/types"
)

func testPos() source.Pos { return source.Pos{File: "test.veil", Line: 1, Col: 1} }

func TestTypedExprAccessors(t *testing.T) {
	lit := &core.Lit{CoreNode: core.CoreNode{NodeID: 42}, Kind: core.IntLit, Value: int64(5)}
	te := TypedExpr{NodeID: 42, Span: testPos(), Type: types.Int, Core: lit}

	if te.GetNodeID() != 42 {
		t.Errorf("GetNodeID() = %d, want 42", te.GetNodeID())
	}
	if te.GetSpan() != testPos() {
		t.Errorf("GetSpan() = %v, want %v", te.GetSpan(), testPos())
	}
	if te.GetType() != types.Int {
		t.Errorf("GetType() = %v, want %v", te.GetType(), types.Int)
	}
	if te.GetCore() != core.Expr(lit) {
		t.Error("GetCore() did not round-trip the original core node")
	}
}

func TestTypedVarImplementsTypedNode(t *testing.T) {
	v := TypedVar{TypedExpr: TypedExpr{NodeID: 1, Span: testPos(), Type: types.Int}, Name: "x"}
	var node TypedNode = v
	if node.String() != "x : Int" {
		t.Errorf("String() = %q, want %q", node.String(), "x : Int")
	}
}

func TestTypedLitImplementsTypedNode(t *testing.T) {
	lit := TypedLit{TypedExpr: TypedExpr{NodeID: 2, Type: types.Int}, Kind: core.IntLit, Value: int64(42)}
	var node TypedNode = lit
	if node.GetType() != types.Int {
		t.Errorf("GetType() = %v, want Int", node.GetType())
	}
}

func TestTypedLambdaBody(t *testing.T) {
	body := TypedVar{TypedExpr: TypedExpr{Type: types.Int}, Name: "x"}
	lam := TypedLambda{
		TypedExpr:  TypedExpr{Type: &types.TFun{Params: []types.Type{types.Int}, Return: types.Int}},
		Params:     []string{"x"},
		ParamTypes: []types.Type{types.Int},
		Body:       body,
	}
	if len(lam.Params) != 1 || lam.Body != TypedNode(body) {
		t.Error("TypedLambda fields not preserved")
	}
}

func TestTypedLetCarriesScheme(t *testing.T) {
	scheme := &types.Scheme{Type: types.Int}
	let := TypedLet{
		TypedExpr: TypedExpr{NodeID: 2, Span: testPos(), Type: types.Int},
		Name:      "x",
		Scheme:    scheme,
		Value:     TypedLit{TypedExpr: TypedExpr{Type: types.Int}, Kind: core.IntLit, Value: int64(1)},
		Body:      TypedVar{TypedExpr: TypedExpr{Type: types.Int}, Name: "x"},
	}
	want := "let x : Int = 1 : Int in x : Int"
	if let.String() != want {
		t.Errorf("String() = %q, want %q", let.String(), want)
	}
}

func TestTypedAppHoldsArgs(t *testing.T) {
	fn := TypedVar{TypedExpr: TypedExpr{Type: &types.TFun{Params: []types.Type{types.Int, types.Int}, Return: types.Int}}, Name: "add"}
	app := TypedApp{
		TypedExpr: TypedExpr{NodeID: 4, Span: testPos(), Type: types.Int},
		Func:      fn,
		Args: []TypedNode{
			TypedLit{TypedExpr: TypedExpr{Type: types.Int}, Kind: core.IntLit, Value: int64(1)},
			TypedLit{TypedExpr: TypedExpr{Type: types.Int}, Kind: core.IntLit, Value: int64(2)},
		},
	}
	if len(app.Args) != 2 {
		t.Errorf("len(Args) = %d, want 2", len(app.Args))
	}
}

func TestTypedIfRendersBranches(t *testing.T) {
	ifNode := TypedIf{
		TypedExpr: TypedExpr{Type: types.Str},
		Cond:      TypedLit{TypedExpr: TypedExpr{Type: types.Bool}, Kind: core.BoolLit, Value: true},
		Then:      TypedLit{TypedExpr: TypedExpr{Type: types.Str}, Kind: core.StringLit, Value: "yes"},
		Else:      TypedLit{TypedExpr: TypedExpr{Type: types.Str}, Kind: core.StringLit, Value: "no"},
	}
	if ifNode.GetType() != types.Str {
		t.Errorf("GetType() = %v, want String", ifNode.GetType())
	}
}

func TestTypedPatternsCarryType(t *testing.T) {
	vp := TypedVarPattern{Name: "x", Type: types.Int}
	if vp.GetType() != types.Int {
		t.Errorf("GetType() = %v, want Int", vp.GetType())
	}
	wp := TypedWildcardPattern{Type: types.Int}
	if wp.String() != "_" {
		t.Errorf("String() = %q, want _", wp.String())
	}
	cp := TypedConstructorPattern{Name: "Some", Args: []TypedPattern{vp}, Type: types.Int}
	if cp.String() != "Some(x)" {
		t.Errorf("String() = %q, want Some(x)", cp.String())
	}
}

func TestTypedProgramDecls(t *testing.T) {
	decl1 := TypedLit{TypedExpr: TypedExpr{NodeID: 1, Type: types.Int}, Kind: core.IntLit, Value: int64(42)}
	decl2 := TypedVar{TypedExpr: TypedExpr{NodeID: 2, Type: types.Str}, Name: "result"}

	prog := &TypedProgram{Decls: []TypedNode{decl1, decl2}}

	if len(prog.Decls) != 2 {
		t.Errorf("len(Decls) = %d, want 2", len(prog.Decls))
	}
	if out := Pretty(prog); out == "" {
		t.Fatal("Pretty returned empty string")
	}
}
