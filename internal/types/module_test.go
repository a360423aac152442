package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/veil-lang/veil/internal/ast"
)

func TestBuildModuleTablesRegistersBuiltinList(t *testing.T) {
	mod := &ast.Module{Pos: testPos()}
	ctors, _, _, err := BuildModuleTables(mod, NewArena())
	if err != nil {
		t.Fatalf("BuildModuleTables() error: %v", err)
	}
	names := ctors.ConstructorsOf("List")
	if diff := cmp.Diff([]string{"Nil", "Cons"}, names); diff != "" {
		t.Errorf("ConstructorsOf(List) mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildModuleTablesRegistersVariantConstructors(t *testing.T) {
	mod := &ast.Module{
		Declarations: []ast.Decl{&ast.TypeDecl{
			Name: "Option",
			Params: []string{"a"},
			Variants: []*ast.VariantAlt{
				{Name: "None", Pos: testPos()},
				{Name: "Some", Fields: []ast.TypeExpr{&ast.TypeVarExpr{Name: "a", Pos: testPos()}}, Pos: testPos()},
			},
			Pos: testPos(),
		}},
		Pos: testPos(),
	}
	ctors, _, _, err := BuildModuleTables(mod, NewArena())
	if err != nil {
		t.Fatalf("BuildModuleTables() error: %v", err)
	}
	info, ok := ctors.Lookup("Some")
	if !ok {
		t.Fatalf("Lookup(Some) failed")
	}
	if info.TypeName != "Option" || len(info.ArgTypes) != 1 {
		t.Errorf("Some info = %+v, want TypeName=Option with 1 arg", info)
	}
}

func TestBuildModuleTablesDuplicateConstructorIsVF4602(t *testing.T) {
	mod := &ast.Module{
		Declarations: []ast.Decl{&ast.TypeDecl{
			Name: "T",
			Variants: []*ast.VariantAlt{
				{Name: "A", Pos: testPos()},
				{Name: "A", Pos: testPos()},
			},
			Pos: testPos(),
		}},
		Pos: testPos(),
	}
	_, _, _, err := BuildModuleTables(mod, NewArena())
	if err == nil {
		t.Fatalf("BuildModuleTables() succeeded, want VF4602 for a duplicate constructor name")
	}
}

func TestBuildModuleTablesResolvesForwardAliasReference(t *testing.T) {
	mod := &ast.Module{
		Declarations: []ast.Decl{
			&ast.ExternalDecl{
				Name: "useLater", Scheme: &ast.FunTypeExpr{
					Params: []ast.TypeExpr{tcon("Later")},
					Ret:    tcon("Int"),
					Pos:    testPos(),
				},
				JSName: "useLater", Pos: testPos(),
			},
			&ast.TypeDecl{Name: "Later", Body: tcon("Int"), Pos: testPos()},
		},
		Pos: testPos(),
	}
	_, ffi, _, err := BuildModuleTables(mod, NewArena())
	if err != nil {
		t.Fatalf("BuildModuleTables() error: %v", err)
	}
	overloads, ok := ffi.Lookup("useLater")
	if !ok || len(overloads) != 1 {
		t.Fatalf("Lookup(useLater) = %v, ok=%v", overloads, ok)
	}
	fn, ok := overloads[0].Scheme.Type.(*TFun)
	if !ok || fn.Params[0] != Int {
		t.Errorf("useLater's resolved param = %v, want Int (via the Later alias)", overloads[0].Scheme.Type)
	}
}

func TestBuildModuleTablesFFIMismatchedJSNameIsVF4801(t *testing.T) {
	mod := &ast.Module{
		Declarations: []ast.Decl{
			&ast.ExternalDecl{Name: "f", Scheme: &ast.FunTypeExpr{Params: []ast.TypeExpr{tcon("Int")}, Ret: tcon("Int"), Pos: testPos()}, JSName: "jsOne", Pos: testPos()},
			&ast.ExternalDecl{Name: "f", Scheme: &ast.FunTypeExpr{Params: []ast.TypeExpr{tcon("Bool")}, Ret: tcon("Int"), Pos: testPos()}, JSName: "jsTwo", Pos: testPos()},
		},
		Pos: testPos(),
	}
	_, _, _, err := BuildModuleTables(mod, NewArena())
	if err == nil {
		t.Fatalf("BuildModuleTables() succeeded, want VF4801 for mismatched JSName across overloads")
	}
}

func TestBuildModuleTablesFFIMismatchedImportPathIsVF4802(t *testing.T) {
	mod := &ast.Module{
		Declarations: []ast.Decl{
			&ast.ExternalDecl{Name: "f", Scheme: &ast.FunTypeExpr{Params: []ast.TypeExpr{tcon("Int")}, Ret: tcon("Int"), Pos: testPos()}, JSName: "jsF", ImportPath: "pkgA", Pos: testPos()},
			&ast.ExternalDecl{Name: "f", Scheme: &ast.FunTypeExpr{Params: []ast.TypeExpr{tcon("Bool")}, Ret: tcon("Int"), Pos: testPos()}, JSName: "jsF", ImportPath: "pkgB", Pos: testPos()},
		},
		Pos: testPos(),
	}
	_, _, _, err := BuildModuleTables(mod, NewArena())
	if err == nil {
		t.Fatalf("BuildModuleTables() succeeded, want VF4802 for mismatched ImportPath across overloads")
	}
}

func TestBuildModuleTablesFFINonFunctionOverloadIsVF4803(t *testing.T) {
	mod := &ast.Module{
		Declarations: []ast.Decl{
			&ast.ExternalDecl{Name: "f", Scheme: &ast.FunTypeExpr{Params: []ast.TypeExpr{tcon("Int")}, Ret: tcon("Int"), Pos: testPos()}, JSName: "jsF", Pos: testPos()},
			&ast.ExternalDecl{Name: "f", Scheme: tcon("Bool"), JSName: "jsF", Pos: testPos()},
		},
		Pos: testPos(),
	}
	_, _, _, err := BuildModuleTables(mod, NewArena())
	if err == nil {
		t.Fatalf("BuildModuleTables() succeeded, want VF4803: a bare-value overload can't share a name with a function overload")
	}
}
