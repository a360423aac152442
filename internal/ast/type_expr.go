package ast

import (
	"fmt"
	"strings"

	"github.com/veil-lang/veil/internal/source"
)

// TypeVarExpr is a lowercase type-variable reference, e.g. `a` in `List<a>`.
type TypeVarExpr struct {
	Name string
	Pos  source.Pos
}

func (t *TypeVarExpr) Position() source.Pos { return t.Pos }
func (t *TypeVarExpr) typeExprNode()        {}
func (t *TypeVarExpr) String() string       { return t.Name }

// TypeConExpr is a named type, optionally applied to type arguments, e.g.
// `Int`, `List<Int>`, `Result<a, b>`.
type TypeConExpr struct {
	Name string
	Args []TypeExpr
	Pos  source.Pos
}

func (t *TypeConExpr) Position() source.Pos { return t.Pos }
func (t *TypeConExpr) typeExprNode()        {}
func (t *TypeConExpr) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(args, ", "))
}

// FunTypeExpr is `(params) -> ret`.
type FunTypeExpr struct {
	Params []TypeExpr
	Ret    TypeExpr
	Pos    source.Pos
}

func (f *FunTypeExpr) Position() source.Pos { return f.Pos }
func (f *FunTypeExpr) typeExprNode()        {}
func (f *FunTypeExpr) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), f.Ret)
}

// RecordFieldType is one `name: type` entry of a RecordTypeExpr.
type RecordFieldType struct {
	Name string
	Type TypeExpr
	Pos  source.Pos
}

// RecordTypeExpr is `{ f1: T1, f2: T2 }`, optionally row-open.
type RecordTypeExpr struct {
	Fields []*RecordFieldType
	Open   bool
	Pos    source.Pos
}

func (r *RecordTypeExpr) Position() source.Pos { return r.Pos }
func (r *RecordTypeExpr) typeExprNode()        {}
func (r *RecordTypeExpr) String() string {
	fields := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		fields[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
	}
	return fmt.Sprintf("{ %s }", strings.Join(fields, ", "))
}

// TupleTypeExpr is `(T1, T2, ...)`.
type TupleTypeExpr struct {
	Elements []TypeExpr
	Pos      source.Pos
}

func (t *TupleTypeExpr) Position() source.Pos { return t.Pos }
func (t *TupleTypeExpr) typeExprNode()        {}
func (t *TupleTypeExpr) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}

// UnionTypeExpr is `T | U | ...` at the surface; desugared into a synthetic
// nominal variant type (§9 open question: union types are sugar, not a
// first-class type-model citizen).
type UnionTypeExpr struct {
	Members []TypeExpr
	Pos     source.Pos
}

func (u *UnionTypeExpr) Position() source.Pos { return u.Pos }
func (u *UnionTypeExpr) typeExprNode()        {}
func (u *UnionTypeExpr) String() string {
	members := make([]string, len(u.Members))
	for i, m := range u.Members {
		members[i] = m.String()
	}
	return strings.Join(members, " | ")
}
