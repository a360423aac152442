package types

import (
	"fmt"

	"github.com/veil-lang/veil/internal/errors"
	"github.com/veil-lang/veil/internal/source"
)

// trail records every TVar a trial unification bound, so a failed or
// discarded trial (FFI overload resolution, §4.6) can be rolled back
// without leaving partial bindings behind for the next candidate to trip
// over.
type trail struct {
	bound []*TVar
}

func (t *trail) record(tv *TVar) {
	if t != nil {
		t.bound = append(t.bound, tv)
	}
}

func (t *trail) undo() {
	for _, tv := range t.bound {
		tv.State = Unbound
		tv.Instance = nil
	}
}

// Unify attempts to make a and b the same type, binding unbound type
// variables destructively as it goes (§9: mutable union-find cells, not a
// substitution map). On failure it returns a *errors.Diagnostic with the
// VF4xxx code §4.6's unification-rules table assigns to the mismatch kind.
func Unify(pos source.Pos, a, b Type) error {
	return unify(pos, a, b, nil)
}

// TryUnify attempts a, b as a trial: on success, every binding it made is
// left in place exactly as Unify would; on failure, every binding it made
// is undone. Used by FFI overload resolution to probe candidates without a
// failed candidate corrupting the type variables a later candidate, or the
// caller, still needs (§4.6).
func TryUnify(pos source.Pos, a, b Type) bool {
	tr := &trail{}
	if err := unify(pos, a, b, tr); err != nil {
		tr.undo()
		return false
	}
	return true
}

func unify(pos source.Pos, a, b Type, tr *trail) error {
	a, b = Prune(a), Prune(b)

	if av, ok := a.(*TVar); ok {
		return bindVar(pos, av, b, tr)
	}
	if bv, ok := b.(*TVar); ok {
		return bindVar(pos, bv, a, tr)
	}

	switch at := a.(type) {
	case *TCon:
		bt, ok := b.(*TCon)
		if !ok {
			return mismatch(pos, a, b)
		}
		if at.Name == bt.Name {
			return nil
		}
		if isNumeric(at.Name) && isNumeric(bt.Name) {
			return errors.Throw("VF4009", pos, nil)
		}
		return mismatch(pos, a, b)

	case *TApp:
		bt, ok := b.(*TApp)
		if !ok {
			return mismatch(pos, a, b)
		}
		headName, ok1 := headConName(at.Head)
		otherHeadName, ok2 := headConName(bt.Head)
		if !ok1 || !ok2 || headName != otherHeadName {
			return mismatch(pos, a, b)
		}
		if len(at.Args) != len(bt.Args) {
			return errors.Throw("VF4022", pos, map[string]string{
				"name": headName, "expected": itoa(len(at.Args)), "found": itoa(len(bt.Args)),
			})
		}
		for i := range at.Args {
			if err := unify(pos, at.Args[i], bt.Args[i], tr); err != nil {
				return err
			}
		}
		return nil

	case *TFun:
		bt, ok := b.(*TFun)
		if !ok {
			return mismatch(pos, a, b)
		}
		if len(at.Params) != len(bt.Params) {
			return errors.Throw("VF4021", pos, map[string]string{
				"expected": itoa(len(at.Params)), "found": itoa(len(bt.Params)),
			})
		}
		for i := range at.Params {
			if err := unify(pos, at.Params[i], bt.Params[i], tr); err != nil {
				return err
			}
		}
		return unify(pos, at.Return, bt.Return, tr)

	case *TRecord:
		bt, ok := b.(*TRecord)
		if !ok {
			return mismatch(pos, a, b)
		}
		return unifyRecords(pos, at, bt, tr)

	case *TTuple:
		bt, ok := b.(*TTuple)
		if !ok {
			return mismatch(pos, a, b)
		}
		if len(at.Elems) != len(bt.Elems) {
			return errors.Throw("VF4026", pos, map[string]string{
				"expected": itoa(len(at.Elems)), "found": itoa(len(bt.Elems)),
			})
		}
		for i := range at.Elems {
			if err := unify(pos, at.Elems[i], bt.Elems[i], tr); err != nil {
				return err
			}
		}
		return nil

	case *TRef:
		bt, ok := b.(*TRef)
		if !ok {
			return mismatch(pos, a, b)
		}
		return unify(pos, at.Inner, bt.Inner, tr)

	case *TUnion:
		bt, ok := b.(*TUnion)
		if !ok || len(at.Members) != len(bt.Members) {
			return mismatch(pos, a, b)
		}
		for i := range at.Members {
			if err := unify(pos, at.Members[i], bt.Members[i], tr); err != nil {
				return err
			}
		}
		return nil

	default:
		return mismatch(pos, a, b)
	}
}

// unifyRecords implements row unification (§4.6): fields present on both
// sides must unify; a field present on only one side is tolerated only if
// that side has an open tail, in which case the tail is bound to absorb
// it — otherwise it is a missing-field error (VF4501).
func unifyRecords(pos source.Pos, a, b *TRecord, tr *trail) error {
	for name, at := range a.Fields {
		if bt, ok := b.Fields[name]; ok {
			if err := unify(pos, at, bt, tr); err != nil {
				return err
			}
		} else if b.Tail != nil {
			extendRow(b.Tail, name, at, tr)
		} else {
			return errors.Throw("VF4501", pos, map[string]string{"name": name})
		}
	}
	for name, bt := range b.Fields {
		if _, ok := a.Fields[name]; ok {
			continue // already unified above
		}
		if a.Tail != nil {
			extendRow(a.Tail, name, bt, tr)
		} else {
			return errors.Throw("VF4501", pos, map[string]string{"name": name})
		}
	}
	if a.Tail != nil && b.Tail != nil && a.Tail != b.Tail {
		return bindVar(pos, a.Tail, b.Tail, tr)
	}
	return nil
}

// extendRow binds an open row variable to a closed record carrying the
// single inferred field, the simplest row-extension an open tail can
// resolve to once a concrete field use forces its shape.
func extendRow(tail *TVar, field string, t Type, tr *trail) {
	if tail.State != Unbound {
		return
	}
	tail.State = Bound
	tail.Instance = &TRecord{Fields: map[string]Type{field: t}}
	tr.record(tail)
}

func bindVar(pos source.Pos, tv *TVar, t Type, tr *trail) error {
	if other, ok := Prune(t).(*TVar); ok && other.ID == tv.ID {
		return nil
	}
	if occurs(tv, t) {
		return errors.Throw("VF4300", pos, map[string]string{"name": tv.String(), "found": t.String()})
	}
	if other, ok := t.(*TVar); ok && other.State == Unbound {
		if other.Rank > tv.Rank {
			other.Rank = tv.Rank // lower the other side's rank to this variable's rank, §4.6
		}
	}
	tv.State = Bound
	tv.Instance = t
	tr.record(tv)
	return nil
}

func occurs(tv *TVar, t Type) bool {
	switch n := Prune(t).(type) {
	case *TVar:
		return n.ID == tv.ID
	case *TApp:
		if occurs(tv, n.Head) {
			return true
		}
		for _, a := range n.Args {
			if occurs(tv, a) {
				return true
			}
		}
		return false
	case *TFun:
		for _, p := range n.Params {
			if occurs(tv, p) {
				return true
			}
		}
		return occurs(tv, n.Return)
	case *TRecord:
		for _, f := range n.Fields {
			if occurs(tv, f) {
				return true
			}
		}
		if n.Tail != nil {
			return occurs(tv, n.Tail)
		}
		return false
	case *TTuple:
		for _, e := range n.Elems {
			if occurs(tv, e) {
				return true
			}
		}
		return false
	case *TUnion:
		for _, m := range n.Members {
			if occurs(tv, m) {
				return true
			}
		}
		return false
	case *TRef:
		return occurs(tv, n.Inner)
	default:
		return false
	}
}

func mismatch(pos source.Pos, expected, found Type) error {
	return errors.Throw("VF4020", pos, map[string]string{"expected": expected.String(), "found": found.String()})
}

func isNumeric(name string) bool { return name == "Int" || name == "Float" }

func headConName(t Type) (string, bool) {
	if c, ok := t.(*TCon); ok {
		return c.Name, true
	}
	return "", false
}

func itoa(n int) string { return fmt.Sprintf("%d", n) }
