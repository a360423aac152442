package types

import "testing"

func TestTypeEnvLookupWalksParents(t *testing.T) {
	root := NewTypeEnv()
	root.Bind("x", &Scheme{Type: Int})
	child := root.Extend()
	if _, ok := child.Lookup("x"); !ok {
		t.Fatalf("child.Lookup(x) failed, want inherited binding")
	}
}

func TestTypeEnvChildBindingsAreInvisibleToParent(t *testing.T) {
	root := NewTypeEnv()
	child := root.Extend()
	child.Bind("y", &Scheme{Type: Int})
	if _, ok := root.Lookup("y"); ok {
		t.Fatalf("root.Lookup(y) succeeded, want child binding to stay local")
	}
}

func TestTypeEnvDeclaredHereIsFrameLocal(t *testing.T) {
	root := NewTypeEnv()
	root.Bind("x", &Scheme{Type: Int})
	child := root.Extend()
	if child.DeclaredHere("x") {
		t.Errorf("child.DeclaredHere(x) = true, want false (x is declared in the parent frame)")
	}
	if !root.DeclaredHere("x") {
		t.Errorf("root.DeclaredHere(x) = false, want true")
	}
}

func TestFreeTypeVarsCollectsUnboundOnly(t *testing.T) {
	a := NewArena()
	tv1 := a.Fresh(0)
	tv2 := a.Fresh(0)
	if err := Unify(testPos(), tv2, Int); err != nil {
		t.Fatalf("Unify() error: %v", err)
	}
	fn := &TFun{Params: []Type{tv1}, Return: tv2}
	free := FreeTypeVars(fn)
	if len(free) != 1 || free[0].ID != tv1.ID {
		t.Errorf("FreeTypeVars() = %v, want only the still-unbound tv1", free)
	}
}

func TestConstructorEnvRegisterAndLookup(t *testing.T) {
	c := NewConstructorEnv()
	c.Register("Option", nil, "None", nil)
	c.Register("Option", nil, "Some", []Type{Int})

	info, ok := c.Lookup("Some")
	if !ok {
		t.Fatalf("Lookup(Some) failed")
	}
	if info.TypeName != "Option" || info.Index != 1 {
		t.Errorf("Some info = %+v, want TypeName=Option Index=1", info)
	}

	names := c.ConstructorsOf("Option")
	if len(names) != 2 || names[0] != "None" || names[1] != "Some" {
		t.Errorf("ConstructorsOf(Option) = %v, want [None Some] in declaration order", names)
	}
}

func TestFFITablePreservesDeclarationOrder(t *testing.T) {
	f := NewFFITable()
	f.Add("show", &FFIOverload{Scheme: &Scheme{Type: Int}, JSName: "showInt"})
	f.Add("show", &FFIOverload{Scheme: &Scheme{Type: Bool}, JSName: "showBool"})

	overloads, ok := f.Lookup("show")
	if !ok || len(overloads) != 2 {
		t.Fatalf("Lookup(show) = %v, ok=%v, want 2 overloads", overloads, ok)
	}
	if overloads[0].JSName != "showInt" || overloads[1].JSName != "showBool" {
		t.Errorf("overload order = [%s %s], want [showInt showBool]", overloads[0].JSName, overloads[1].JSName)
	}
}
