package types

import (
	"testing"

	"github.com/veil-lang/veil/internal/source"
)

func testPos() source.Pos { return source.Pos{File: "t.vl", Line: 1, Col: 1} }

func TestUnifyBindsUnboundVar(t *testing.T) {
	a := NewArena()
	tv := a.Fresh(0)
	if err := Unify(testPos(), tv, Int); err != nil {
		t.Fatalf("Unify() error: %v", err)
	}
	if Prune(tv) != Int {
		t.Errorf("Prune(tv) = %v, want Int", Prune(tv))
	}
}

func TestUnifyMismatchedConsIsVF4020(t *testing.T) {
	err := Unify(testPos(), Int, Str)
	if err == nil {
		t.Fatalf("Unify() succeeded, want a mismatch error")
	}
}

func TestUnifyIntFloatIsVF4009(t *testing.T) {
	err := Unify(testPos(), Int, Float)
	if err == nil {
		t.Fatalf("Unify() succeeded, want VF4009")
	}
}

func TestUnifyOccursCheckIsVF4300(t *testing.T) {
	a := NewArena()
	tv := a.Fresh(0)
	self := &TApp{Head: &TCon{Name: "List"}, Args: []Type{tv}}
	if err := Unify(testPos(), tv, self); err == nil {
		t.Fatalf("Unify() succeeded, want an occurs-check failure")
	}
}

func TestUnifyFunctionArityMismatchIsVF4021(t *testing.T) {
	f1 := &TFun{Params: []Type{Int}, Return: Int}
	f2 := &TFun{Params: []Type{Int, Int}, Return: Int}
	if err := Unify(testPos(), f1, f2); err == nil {
		t.Fatalf("Unify() succeeded, want an arity mismatch error")
	}
}

func TestUnifyRecordsExtendsOpenTail(t *testing.T) {
	a := NewArena()
	tail := a.FreshRow(0)
	open := &TRecord{Fields: map[string]Type{"x": Int}, Tail: tail}
	closed := &TRecord{Fields: map[string]Type{"x": Int, "y": Str}}
	if err := Unify(testPos(), open, closed); err != nil {
		t.Fatalf("Unify() error: %v", err)
	}
	bound, ok := Prune(tail).(*TRecord)
	if !ok {
		t.Fatalf("tail pruned to %T, want *TRecord", Prune(tail))
	}
	if bound.Fields["y"] != Str {
		t.Errorf("tail absorbed field y = %v, want Str", bound.Fields["y"])
	}
}

func TestUnifyRecordsMissingFieldIsVF4501(t *testing.T) {
	closedA := &TRecord{Fields: map[string]Type{"x": Int}}
	closedB := &TRecord{Fields: map[string]Type{"x": Int, "y": Str}}
	if err := Unify(testPos(), closedA, closedB); err == nil {
		t.Fatalf("Unify() succeeded, want VF4501 for the missing field")
	}
}

func TestTryUnifySuccessKeepsBindings(t *testing.T) {
	a := NewArena()
	tv := a.Fresh(0)
	if !TryUnify(testPos(), tv, Int) {
		t.Fatalf("TryUnify() = false, want true")
	}
	if Prune(tv) != Int {
		t.Errorf("Prune(tv) = %v, want Int (binding should survive success)", Prune(tv))
	}
}

func TestTryUnifyFailureRollsBack(t *testing.T) {
	a := NewArena()
	tv := a.Fresh(0)
	if err := Unify(testPos(), tv, Int); err != nil {
		t.Fatalf("Unify() error: %v", err)
	}
	// tv is now Bound to Int; trial-unifying it against Str must fail and
	// must not corrupt tv's binding for whoever looks at it next.
	if TryUnify(testPos(), tv, Str) {
		t.Fatalf("TryUnify() = true, want false (Int and Str cannot unify)")
	}
	if Prune(tv) != Int {
		t.Errorf("Prune(tv) = %v after failed trial, want Int preserved", Prune(tv))
	}
}

func TestTryUnifyRollsBackFreshVarBinding(t *testing.T) {
	a := NewArena()
	tv := a.Fresh(0)
	// a trial that binds tv to Int, then fails elsewhere in the same
	// unification, must leave tv Unbound afterward.
	f1 := &TFun{Params: []Type{tv}, Return: Str}
	f2 := &TFun{Params: []Type{Int}, Return: Bool}
	if TryUnify(testPos(), f1, f2) {
		t.Fatalf("TryUnify() = true, want false (Str/Bool return types cannot unify)")
	}
	if tv.State != Unbound {
		t.Errorf("tv.State = %v after rollback, want Unbound", tv.State)
	}
}

func TestUnifyRefInner(t *testing.T) {
	a := NewArena()
	tv := a.Fresh(0)
	r1 := &TRef{Inner: tv}
	r2 := &TRef{Inner: Int}
	if err := Unify(testPos(), r1, r2); err != nil {
		t.Fatalf("Unify() error: %v", err)
	}
	if Prune(tv) != Int {
		t.Errorf("Prune(tv) = %v, want Int", Prune(tv))
	}
}

func TestUnifyTupleArityMismatchIsVF4026(t *testing.T) {
	t1 := &TTuple{Elems: []Type{Int, Str}}
	t2 := &TTuple{Elems: []Type{Int}}
	if err := Unify(testPos(), t1, t2); err == nil {
		t.Fatalf("Unify() succeeded, want VF4026")
	}
}
