package types

import "testing"

func TestGeneralizeQuantifiesDeeperRankVars(t *testing.T) {
	a := NewArena()
	outer := a.Fresh(0)  // rank 0: should stay free
	inner := a.Fresh(1)  // rank 1: should be generalized at rank 0
	fn := &TFun{Params: []Type{inner}, Return: outer}

	scheme := Generalize(0, fn)
	if len(scheme.Vars) != 1 || scheme.Vars[0].ID != inner.ID {
		t.Fatalf("Generalize() vars = %v, want only inner", scheme.Vars)
	}
	if inner.State != Generalized {
		t.Errorf("inner.State = %v, want Generalized", inner.State)
	}
	if outer.State != Unbound {
		t.Errorf("outer.State = %v, want still Unbound", outer.State)
	}
}

func TestInstantiateMintsFreshVarsPerUse(t *testing.T) {
	a := NewArena()
	tv := a.Fresh(1)
	scheme := Generalize(0, &TFun{Params: []Type{tv}, Return: tv})

	t1 := Instantiate(a, 0, scheme)
	t2 := Instantiate(a, 0, scheme)

	f1, ok := t1.(*TFun)
	if !ok {
		t.Fatalf("Instantiate() = %T, want *TFun", t1)
	}
	f2, ok := t2.(*TFun)
	if !ok {
		t.Fatalf("Instantiate() = %T, want *TFun", t2)
	}
	if f1.Params[0] == f2.Params[0] {
		t.Errorf("two instantiations shared the same type variable instance")
	}
	if f1.Params[0] != f1.Return {
		t.Errorf("one instantiation's param and return should remain the same variable")
	}
}

func TestInstantiateNoVarsReturnsTypeUnchanged(t *testing.T) {
	a := NewArena()
	scheme := &Scheme{Type: Int}
	if Instantiate(a, 0, scheme) != Int {
		t.Errorf("Instantiate() with no quantified vars should return the scheme's type as-is")
	}
}

func TestInstantiateConstructorMintsFreshTypeParams(t *testing.T) {
	a := NewArena()
	elem := a.Fresh(0)
	elem.State = Generalized
	elem.Index = 0
	info := &ConstructorInfo{
		TypeName: "Box", TypeParams: []*TVar{elem},
		ArgTypes: []Type{elem},
	}

	args, result := InstantiateConstructor(a, 0, info)
	if len(args) != 1 {
		t.Fatalf("InstantiateConstructor() args = %v, want 1", args)
	}
	app, ok := result.(*TApp)
	if !ok {
		t.Fatalf("InstantiateConstructor() result = %T, want *TApp", result)
	}
	if args[0] != app.Args[0] {
		t.Errorf("constructor arg type and result's type argument should be the same fresh variable")
	}
}
