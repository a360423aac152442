// Package types implements the Type Model (C8): types, schemes, the
// mutable union-find type-variable representation §9 calls for, and
// unification. The Algorithm W traversal itself (C9) lives in
// internal/checker.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the base interface for every member of the Type sum (§3):
// TVar, TCon, TApp, TFun, TRecord, TTuple, TUnion, TRef.
type Type interface {
	String() string
	typeNode()
}

// TVarState is a type variable's place in the state machine §4.6
// describes: Unbound(rank) → Bound(Type) on unification, or
// Unbound(rank) → Generalized(index) on generalize; a Generalized
// variable is instantiated back to a fresh Unbound at the current rank.
type TVarState int

const (
	Unbound TVarState = iota
	Bound
	Generalized
)

// TVar is a type variable cell: a mutable union-find node rather than a
// substitution-map entry (§9 — "the natural representation is ... union-find
// for variable binding and path compression"). Binding walks and rewrites
// Instance directly; no substitution map is ever built.
type TVar struct {
	ID    int
	Kind  Kind
	State TVarState
	Rank  int   // meaningful while Unbound: the let-nesting level it was born at
	Instance Type // meaningful while Bound: the type it was unified with
	Index int   // meaningful while Generalized: position among the scheme's quantified vars
}

func (t *TVar) typeNode() {}
func (t *TVar) String() string {
	switch t.State {
	case Bound:
		return t.Instance.String()
	case Generalized:
		return fmt.Sprintf("'%s", indexName(t.Index))
	default:
		return fmt.Sprintf("_t%d", t.ID)
	}
}

func indexName(i int) string {
	// a, b, c, ..., z, a1, b1, ...
	letter := string(rune('a' + i%26))
	if i < 26 {
		return letter
	}
	return fmt.Sprintf("%s%d", letter, i/26)
}

// Prune follows a chain of Bound TVars to either a non-TVar type or an
// Unbound/Generalized TVar, compressing the chain as it goes (path
// compression, §9).
func Prune(t Type) Type {
	tv, ok := t.(*TVar)
	if !ok || tv.State != Bound {
		return t
	}
	final := Prune(tv.Instance)
	tv.Instance = final
	return final
}

// TCon is a nominal, argument-less type constant: Int, Float, String, Bool,
// Unit, or a user-declared nullary variant/alias name.
type TCon struct {
	Name string
}

func (t *TCon) typeNode()      {}
func (t *TCon) String() string { return t.Name }

var (
	Int    = &TCon{Name: "Int"}
	Float  = &TCon{Name: "Float"}
	Str    = &TCon{Name: "String"}
	Bool   = &TCon{Name: "Bool"}
	Unit   = &TCon{Name: "Unit"}
)

// TApp is a type constructor applied to arguments, e.g. `List<Int>`.
type TApp struct {
	Head Type
	Args []Type
}

func (t *TApp) typeNode() {}
func (t *TApp) String() string {
	if len(t.Args) == 0 {
		return t.Head.String()
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Head, strings.Join(args, ", "))
}

// TFun is a function type; Params/Return are checked pairwise and by
// arity during unification (§4.6).
type TFun struct {
	Params []Type
	Return Type
}

func (t *TFun) typeNode() {}
func (t *TFun) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.Return)
}

// TRecord is `{ f: T, ... }`, optionally open via a trailing row variable
// (Tail, kind RecordRow) that further fields may unify against (§4.6).
type TRecord struct {
	Fields map[string]Type
	Tail   *TVar // nil: closed record
}

func (t *TRecord) typeNode() {}
func (t *TRecord) String() string {
	names := make([]string, 0, len(t.Fields))
	for n := range t.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s: %s", n, t.Fields[n])
	}
	if t.Tail != nil {
		parts = append(parts, "..."+t.Tail.String())
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// TTuple is a fixed-arity product; tuples are checked by pairwise arity,
// distinct from TRecord's row-polymorphic field matching (§4.6 VF4026).
type TTuple struct {
	Elems []Type
}

func (t *TTuple) typeNode() {}
func (t *TTuple) String() string {
	elems := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		elems[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}

// TUnion lists the surface `A | B | C` union's member types (§3). The
// Resolver turns a surface union type expression into a TUnion directly;
// no nominal variant type is synthesized for it.
type TUnion struct {
	Members []Type
}

func (t *TUnion) typeNode() {}
func (t *TUnion) String() string {
	members := make([]string, len(t.Members))
	for i, m := range t.Members {
		members[i] = m.String()
	}
	return strings.Join(members, " | ")
}

// TRef is a mutable reference cell's type, `Ref<inner>`.
type TRef struct {
	Inner Type
}

func (t *TRef) typeNode()      {}
func (t *TRef) String() string { return fmt.Sprintf("Ref<%s>", t.Inner) }

// Scheme is `∀ vars. Type` (§3): a polymorphic type with its quantified
// variables recorded explicitly (rather than re-derived by walking for
// Generalized TVars each time), so Instantiate only has to substitute.
type Scheme struct {
	Vars []*TVar
	Type Type
}

func (s *Scheme) String() string {
	if len(s.Vars) == 0 {
		return s.Type.String()
	}
	names := make([]string, len(s.Vars))
	for i, v := range s.Vars {
		names[i] = "'" + indexName(i)
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(names, " "), s.Type)
}
