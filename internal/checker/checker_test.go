package checker

import (
	"strings"
	"testing"

	"github.com/veil-lang/veil/internal/ast"
	"github.com/veil-lang/veil/internal/elaborate"
	"github.com/veil-lang/veil/internal/errors"
	"github.com/veil-lang/veil/internal/source"
	"github.com/veil-lang/veil/internal/typedast"
)

func pos() source.Pos { return source.Pos{File: "t.vl", Line: 1, Col: 1} }

func intLit(n int64) *ast.Literal  { return &ast.Literal{Kind: ast.IntLit, Value: n, Pos: pos()} }
func boolLit(b bool) *ast.Literal  { return &ast.Literal{Kind: ast.BoolLit, Value: b, Pos: pos()} }
func strLit(s string) *ast.Literal { return &ast.Literal{Kind: ast.StringLit, Value: s, Pos: pos()} }
func varE(name string) *ast.Var    { return &ast.Var{Name: name, Pos: pos()} }

func checkModule(t *testing.T, decls ...ast.Decl) (*typedast.TypedProgram, error) {
	t.Helper()
	typed, _, err := checkModuleWithWarnings(t, decls...)
	return typed, err
}

func checkModuleWithWarnings(t *testing.T, decls ...ast.Decl) (*typedast.TypedProgram, []error, error) {
	t.Helper()
	mod := &ast.Module{Declarations: decls, Pos: pos()}
	prog, err := elaborate.Desugar(mod)
	if err != nil {
		t.Fatalf("Desugar() error: %v", err)
	}
	return CheckProgram(mod, prog)
}

func letDecl(name string, value ast.Expr) *ast.LetDecl {
	return &ast.LetDecl{Pattern: &ast.VarPattern{Name: name}, Value: value, Pos: pos()}
}

func errCode(err error) string {
	var d *errors.Diagnostic
	if ok := asDiagnostic(err, &d); ok {
		return string(d.Code)
	}
	return ""
}

// asDiagnostic is a tiny errors.As shim so this file doesn't need to import
// the standard errors package just for one type assertion.
func asDiagnostic(err error, target **errors.Diagnostic) bool {
	if d, ok := err.(*errors.Diagnostic); ok {
		*target = d
		return true
	}
	return false
}

func TestInferLiteralTypes(t *testing.T) {
	typed, err := checkModule(t, letDecl("x", intLit(42)))
	if err != nil {
		t.Fatalf("CheckProgram() error: %v", err)
	}
	let, ok := typed.Decls[0].(typedast.TypedLet)
	if !ok {
		t.Fatalf("got %T, want typedast.TypedLet", typed.Decls[0])
	}
	if let.Value.GetType().String() != "Int" {
		t.Errorf("Value type = %s, want Int", let.Value.GetType())
	}
}

func TestLetPolymorphismAcrossTopLevelDecls(t *testing.T) {
	id := letDecl("id", &ast.Lambda{Params: []*ast.Param{{Pattern: &ast.VarPattern{Name: "x"}, Pos: pos()}}, Body: varE("x"), Pos: pos()})
	useInt := letDecl("useInt", &ast.App{Func: varE("id"), Args: []ast.Expr{intLit(1)}, Pos: pos()})
	useBool := letDecl("useBool", &ast.App{Func: varE("id"), Args: []ast.Expr{boolLit(true)}, Pos: pos()})

	typed, err := checkModule(t, id, useInt, useBool)
	if err != nil {
		t.Fatalf("CheckProgram() error: %v", err)
	}

	intLet := typed.Decls[1].(typedast.TypedLet)
	if intLet.Value.GetType().String() != "Int" {
		t.Errorf("useInt value type = %s, want Int", intLet.Value.GetType())
	}
	boolLet := typed.Decls[2].(typedast.TypedLet)
	if boolLet.Value.GetType().String() != "Bool" {
		t.Errorf("useBool value type = %s, want Bool", boolLet.Value.GetType())
	}
}

func TestValueRestrictionRejectsNonValueGeneralization(t *testing.T) {
	// let apply = (fun(f) -> f)(fun(x) -> x) — the RHS is an App, not a
	// syntactic value, so its inferred type variable cannot be generalized.
	identity := &ast.Lambda{Params: []*ast.Param{{Pattern: &ast.VarPattern{Name: "x"}, Pos: pos()}}, Body: varE("x"), Pos: pos()}
	wrapper := &ast.Lambda{Params: []*ast.Param{{Pattern: &ast.VarPattern{Name: "f"}, Pos: pos()}}, Body: varE("f"), Pos: pos()}
	apply := letDecl("apply", &ast.App{Func: wrapper, Args: []ast.Expr{identity}, Pos: pos()})
	useInt := letDecl("useInt", &ast.App{Func: varE("apply"), Args: []ast.Expr{intLit(1)}, Pos: pos()})
	useBool := letDecl("useBool", &ast.App{Func: varE("apply"), Args: []ast.Expr{boolLit(true)}, Pos: pos()})

	_, err := checkModule(t, apply, useInt, useBool)
	if err == nil {
		t.Fatalf("CheckProgram() succeeded, want a unification error from using apply at two types")
	}
}

func TestUnboundVariableIsVF4100(t *testing.T) {
	_, err := checkModule(t, letDecl("x", varE("nope")))
	if err == nil {
		t.Fatalf("CheckProgram() succeeded, want VF4100")
	}
	if got := errCode(err); got != "VF4100" {
		t.Errorf("error code = %s, want VF4100", got)
	}
}

func TestIfBranchMismatchIsVF4004(t *testing.T) {
	ifExpr := &ast.If{Cond: boolLit(true), Then: intLit(1), Else: strLit("no"), Pos: pos()}
	_, err := checkModule(t, letDecl("x", ifExpr))
	if got := errCode(err); got != "VF4004" {
		t.Errorf("error code = %s, want VF4004 (got error: %v)", got, err)
	}
}

func TestIfConditionMustBeBool(t *testing.T) {
	ifExpr := &ast.If{Cond: intLit(1), Then: intLit(1), Else: intLit(2), Pos: pos()}
	_, err := checkModule(t, letDecl("x", ifExpr))
	if err == nil {
		t.Fatalf("CheckProgram() succeeded, want an error for a non-Bool if condition")
	}
}

func TestApplicationArityMismatchIsVF4202(t *testing.T) {
	f := &ast.Lambda{Params: []*ast.Param{
		{Pattern: &ast.VarPattern{Name: "a"}, Pos: pos()},
		{Pattern: &ast.VarPattern{Name: "b"}, Pos: pos()},
	}, Body: varE("a"), Pos: pos()}
	call := &ast.App{Func: f, Args: []ast.Expr{intLit(1)}, Pos: pos()}
	_, err := checkModule(t, letDecl("x", call))
	if got := errCode(err); got != "VF4202" {
		t.Errorf("error code = %s, want VF4202 (got error: %v)", got, err)
	}
}

func TestRecordFieldAccess(t *testing.T) {
	rec := &ast.Record{Fields: []*ast.RecordField{
		{Name: "x", Value: intLit(1), Pos: pos()},
		{Name: "y", Value: strLit("hi"), Pos: pos()},
	}, Pos: pos()}
	access := &ast.FieldAccess{Target: rec, Field: "y", Pos: pos()}
	typed, err := checkModule(t, letDecl("z", access))
	if err != nil {
		t.Fatalf("CheckProgram() error: %v", err)
	}
	let := typed.Decls[0].(typedast.TypedLet)
	if let.Value.GetType().String() != "String" {
		t.Errorf("field access type = %s, want String", let.Value.GetType())
	}
}

func TestUnknownRecordFieldIsVF4103(t *testing.T) {
	rec := &ast.Record{Fields: []*ast.RecordField{{Name: "x", Value: intLit(1), Pos: pos()}}, Pos: pos()}
	access := &ast.FieldAccess{Target: rec, Field: "missing", Pos: pos()}
	_, err := checkModule(t, letDecl("z", access))
	if got := errCode(err); got != "VF4103" {
		t.Errorf("error code = %s, want VF4103 (got error: %v)", got, err)
	}
}

func TestListElementsMustUnify(t *testing.T) {
	list := &ast.ListLit{Elements: []ast.Expr{intLit(1), strLit("nope")}, Pos: pos()}
	_, err := checkModule(t, letDecl("xs", list))
	if err == nil {
		t.Fatalf("CheckProgram() succeeded, want a unification error across mismatched list elements")
	}
}

func TestRefNewGetSet(t *testing.T) {
	ref := &ast.RefLit{Value: intLit(1), Pos: pos()}
	deref := &ast.Deref{Target: ref, Pos: pos()}
	typed, err := checkModule(t, letDecl("v", deref))
	if err != nil {
		t.Fatalf("CheckProgram() error: %v", err)
	}
	let := typed.Decls[0].(typedast.TypedLet)
	if let.Value.GetType().String() != "Int" {
		t.Errorf("deref type = %s, want Int", let.Value.GetType())
	}
}

func TestVariantConstructionAndMatch(t *testing.T) {
	typeDecl := &ast.TypeDecl{
		Name: "Shape",
		Variants: []*ast.VariantAlt{
			{Name: "Circle", Fields: []ast.TypeExpr{&ast.TypeConExpr{Name: "Int", Pos: pos()}}, Pos: pos()},
			{Name: "Square", Fields: []ast.TypeExpr{&ast.TypeConExpr{Name: "Int", Pos: pos()}}, Pos: pos()},
		},
		Pos: pos(),
	}
	value := &ast.App{Func: varE("Circle"), Args: []ast.Expr{intLit(3)}, Pos: pos()}
	match := &ast.Match{
		Scrutinee: value,
		Arms: []*ast.MatchArm{
			{Pattern: &ast.ConstructorPattern{Name: "Circle", Args: []ast.Pattern{&ast.VarPattern{Name: "r"}}, Pos: pos()}, Body: varE("r"), Pos: pos()},
			{Pattern: &ast.ConstructorPattern{Name: "Square", Args: []ast.Pattern{&ast.VarPattern{Name: "s"}}, Pos: pos()}, Body: varE("s"), Pos: pos()},
		},
		Pos: pos(),
	}
	typed, err := checkModule(t, typeDecl, letDecl("r", match))
	if err != nil {
		t.Fatalf("CheckProgram() error: %v", err)
	}
	let := typed.Decls[0].(typedast.TypedLet)
	if let.Value.GetType().String() != "Int" {
		t.Errorf("match result type = %s, want Int", let.Value.GetType())
	}
}

func TestNonExhaustiveMatchIsVF4400(t *testing.T) {
	typeDecl := &ast.TypeDecl{
		Name: "Shape",
		Variants: []*ast.VariantAlt{
			{Name: "Circle", Fields: []ast.TypeExpr{&ast.TypeConExpr{Name: "Int", Pos: pos()}}, Pos: pos()},
			{Name: "Square", Fields: []ast.TypeExpr{&ast.TypeConExpr{Name: "Int", Pos: pos()}}, Pos: pos()},
		},
		Pos: pos(),
	}
	value := &ast.App{Func: varE("Circle"), Args: []ast.Expr{intLit(3)}, Pos: pos()}
	match := &ast.Match{
		Scrutinee: value,
		Arms: []*ast.MatchArm{
			{Pattern: &ast.ConstructorPattern{Name: "Circle", Args: []ast.Pattern{&ast.VarPattern{Name: "r"}}, Pos: pos()}, Body: varE("r"), Pos: pos()},
		},
		Pos: pos(),
	}
	_, err := checkModule(t, typeDecl, letDecl("r", match))
	if got := errCode(err); got != "VF4400" {
		t.Errorf("error code = %s, want VF4400 (got error: %v)", got, err)
	}
}

func TestUnreachableArmAfterCatchAllIsVF4900Warning(t *testing.T) {
	typeDecl := &ast.TypeDecl{
		Name: "Shape",
		Variants: []*ast.VariantAlt{
			{Name: "Circle", Fields: []ast.TypeExpr{&ast.TypeConExpr{Name: "Int", Pos: pos()}}, Pos: pos()},
			{Name: "Square", Fields: []ast.TypeExpr{&ast.TypeConExpr{Name: "Int", Pos: pos()}}, Pos: pos()},
		},
		Pos: pos(),
	}
	value := &ast.App{Func: varE("Circle"), Args: []ast.Expr{intLit(3)}, Pos: pos()}
	match := &ast.Match{
		Scrutinee: value,
		Arms: []*ast.MatchArm{
			{Pattern: &ast.WildcardPattern{Pos: pos()}, Body: intLit(0), Pos: pos()},
			{Pattern: &ast.ConstructorPattern{Name: "Square", Args: []ast.Pattern{&ast.VarPattern{Name: "s"}}, Pos: pos()}, Body: varE("s"), Pos: pos()},
		},
		Pos: pos(),
	}
	_, warns, err := checkModuleWithWarnings(t, typeDecl, letDecl("r", match))
	if err != nil {
		t.Fatalf("CheckProgram() error: %v", err)
	}
	if len(warns) != 1 || errCode(warns[0]) != "VF4900" {
		t.Errorf("warnings = %v, want exactly one VF4900", warns)
	}
}

func TestFFIOverloadResolution(t *testing.T) {
	printInt := &ast.ExternalDecl{
		Name: "show", Scheme: &ast.FunTypeExpr{
			Params: []ast.TypeExpr{&ast.TypeConExpr{Name: "Int", Pos: pos()}},
			Ret:    &ast.TypeConExpr{Name: "String", Pos: pos()}, Pos: pos(),
		},
		JSName: "showInt", ImportPath: "", Pos: pos(),
	}
	printBool := &ast.ExternalDecl{
		Name: "show", Scheme: &ast.FunTypeExpr{
			Params: []ast.TypeExpr{&ast.TypeConExpr{Name: "Bool", Pos: pos()}},
			Ret:    &ast.TypeConExpr{Name: "String", Pos: pos()}, Pos: pos(),
		},
		JSName: "showBool", ImportPath: "", Pos: pos(),
	}
	call := &ast.App{Func: varE("show"), Args: []ast.Expr{intLit(1)}, Pos: pos()}
	typed, err := checkModule(t, printInt, printBool, letDecl("s", call))
	if err != nil {
		t.Fatalf("CheckProgram() error: %v", err)
	}
	let := typed.Decls[0].(typedast.TypedLet)
	if let.Value.GetType().String() != "String" {
		t.Errorf("overload-resolved call type = %s, want String", let.Value.GetType())
	}
	app := let.Value.(typedast.TypedApp)
	ext, ok := app.Func.(typedast.TypedExternal)
	if !ok {
		t.Fatalf("resolved callee = %T, want typedast.TypedExternal", app.Func)
	}
	if ext.JSName != "showInt" {
		t.Errorf("resolved overload JSName = %s, want showInt", ext.JSName)
	}
}

func TestFFIOverloadNoMatchIsVF4201(t *testing.T) {
	printInt := &ast.ExternalDecl{
		Name: "show", Scheme: &ast.FunTypeExpr{
			Params: []ast.TypeExpr{&ast.TypeConExpr{Name: "Int", Pos: pos()}},
			Ret:    &ast.TypeConExpr{Name: "String", Pos: pos()}, Pos: pos(),
		},
		JSName: "showInt", Pos: pos(),
	}
	printBool := &ast.ExternalDecl{
		Name: "show", Scheme: &ast.FunTypeExpr{
			Params: []ast.TypeExpr{&ast.TypeConExpr{Name: "Bool", Pos: pos()}},
			Ret:    &ast.TypeConExpr{Name: "String", Pos: pos()}, Pos: pos(),
		},
		JSName: "showBool", Pos: pos(),
	}
	call := &ast.App{Func: varE("show"), Args: []ast.Expr{strLit("nope")}, Pos: pos()}
	_, err := checkModule(t, printInt, printBool, letDecl("s", call))
	if got := errCode(err); got != "VF4201" {
		t.Errorf("error code = %s, want VF4201 (got error: %v)", got, err)
	}
}

func TestDuplicateConstructorIsVF4602(t *testing.T) {
	typeDecl := &ast.TypeDecl{
		Name: "T",
		Variants: []*ast.VariantAlt{
			{Name: "A", Pos: pos()},
			{Name: "A", Pos: pos()},
		},
		Pos: pos(),
	}
	_, err := checkModule(t, typeDecl, letDecl("x", intLit(1)))
	if got := errCode(err); got != "VF4602" {
		t.Errorf("error code = %s, want VF4602 (got error: %v)", got, err)
	}
}

func TestPrettyRendersTypedProgram(t *testing.T) {
	typed, err := checkModule(t, letDecl("x", intLit(1)))
	if err != nil {
		t.Fatalf("CheckProgram() error: %v", err)
	}
	out := typedast.Pretty(typed)
	if !strings.Contains(out, "TypedProgram") {
		t.Errorf("Pretty() = %q, want it to contain %q", out, "TypedProgram")
	}
}
