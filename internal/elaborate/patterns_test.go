package elaborate

import (
	"testing"

	"github.com/veil-lang/veil/internal/ast"
	"github.com/veil-lang/veil/internal/core"
)

func TestLowerVarAndWildcardPattern(t *testing.T) {
	e := NewElaborator()

	v, err := e.lowerPattern(&ast.VarPattern{Name: "x", Pos: pos()})
	if err != nil {
		t.Fatalf("VarPattern: %v", err)
	}
	if vp, ok := v.(*core.VarPattern); !ok || vp.Name != "x" {
		t.Fatalf("got %#v, want VarPattern{x}", v)
	}

	w, err := e.lowerPattern(&ast.WildcardPattern{Pos: pos()})
	if err != nil {
		t.Fatalf("WildcardPattern: %v", err)
	}
	if _, ok := w.(*core.WildcardPattern); !ok {
		t.Fatalf("got %T, want *core.WildcardPattern", w)
	}
}

func TestLowerConstructorPattern(t *testing.T) {
	e := NewElaborator()
	pat := &ast.ConstructorPattern{
		Name: "Some",
		Args: []ast.Pattern{&ast.VarPattern{Name: "x", Pos: pos()}},
		Pos:  pos(),
	}
	got, err := e.lowerPattern(pat)
	if err != nil {
		t.Fatalf("lowerPattern() error: %v", err)
	}
	cp, ok := got.(*core.ConstructorPattern)
	if !ok || cp.Name != "Some" {
		t.Fatalf("got %#v, want ConstructorPattern{Name: Some}", got)
	}
	if len(cp.Args) != 1 {
		t.Fatalf("Args = %v, want len 1", cp.Args)
	}
}

func TestLowerTuplePatternIndexedFields(t *testing.T) {
	e := NewElaborator()
	pat := &ast.TuplePattern{
		Elements: []ast.Pattern{
			&ast.VarPattern{Name: "a", Pos: pos()},
			&ast.VarPattern{Name: "b", Pos: pos()},
		},
		Pos: pos(),
	}
	got, err := e.lowerPattern(pat)
	if err != nil {
		t.Fatalf("lowerPattern() error: %v", err)
	}
	rp, ok := got.(*core.RecordPattern)
	if !ok {
		t.Fatalf("got %T, want *core.RecordPattern", got)
	}
	if rp.Order[0] != "0" || rp.Order[1] != "1" {
		t.Fatalf("Order = %v, want [0 1]", rp.Order)
	}
	if vp, ok := rp.Fields["0"].(*core.VarPattern); !ok || vp.Name != "a" {
		t.Errorf("Fields[0] = %#v, want VarPattern{a}", rp.Fields["0"])
	}
}

func TestLowerRecordPatternPreservesOpenFlag(t *testing.T) {
	e := NewElaborator()
	pat := &ast.RecordPattern{
		Fields: []*ast.FieldPattern{{Name: "x", Pattern: &ast.VarPattern{Name: "x", Pos: pos()}, Pos: pos()}},
		Open:   true,
		Pos:    pos(),
	}
	got, err := e.lowerPattern(pat)
	if err != nil {
		t.Fatalf("lowerPattern() error: %v", err)
	}
	rp, ok := got.(*core.RecordPattern)
	if !ok {
		t.Fatalf("got %T, want *core.RecordPattern", got)
	}
	if !rp.Open {
		t.Error("Open should be preserved from the surface `{ x, ... }` pattern")
	}
}

func TestLowerTypedPatternUnwraps(t *testing.T) {
	e := NewElaborator()
	pat := &ast.TypedPattern{Pattern: &ast.VarPattern{Name: "x", Pos: pos()}, Pos: pos()}
	got, err := e.lowerPattern(pat)
	if err != nil {
		t.Fatalf("lowerPattern() error: %v", err)
	}
	if vp, ok := got.(*core.VarPattern); !ok || vp.Name != "x" {
		t.Fatalf("got %#v, want the unwrapped VarPattern{x}", got)
	}
}

func TestLowerOrPatternRejected(t *testing.T) {
	e := NewElaborator()
	pat := &ast.OrPattern{Alts: []ast.Pattern{
		&ast.VarPattern{Name: "x", Pos: pos()},
		&ast.VarPattern{Name: "x", Pos: pos()},
	}, Pos: pos()}
	if _, err := e.lowerPattern(pat); err == nil {
		t.Fatal("or-patterns reaching lowerPattern directly should error (they must be pre-expanded into separate arms)")
	}
}

func TestLowerNestedListPattern(t *testing.T) {
	e := NewElaborator()
	pat := &ast.ListPattern{
		Elements: []ast.Pattern{
			&ast.VarPattern{Name: "a", Pos: pos()},
			&ast.VarPattern{Name: "b", Pos: pos()},
		},
		Pos: pos(),
	}
	got, err := e.lowerPattern(pat)
	if err != nil {
		t.Fatalf("lowerPattern() error: %v", err)
	}
	outer, ok := got.(*core.ConstructorPattern)
	if !ok || outer.Name != "Cons" {
		t.Fatalf("outer = %#v, want ConstructorPattern{Cons}", got)
	}
	head, ok := outer.Args[0].(*core.VarPattern)
	if !ok || head.Name != "a" {
		t.Fatalf("head = %#v, want VarPattern{a}", outer.Args[0])
	}
	inner, ok := outer.Args[1].(*core.ConstructorPattern)
	if !ok || inner.Name != "Cons" {
		t.Fatalf("inner = %#v, want ConstructorPattern{Cons}", outer.Args[1])
	}
	tail, ok := inner.Args[1].(*core.ConstructorPattern)
	if !ok || tail.Name != "Nil" {
		t.Fatalf("tail = %#v, want ConstructorPattern{Nil}", inner.Args[1])
	}
}
