// Package typedast is the output of the typechecker (C9): the Core AST
// (internal/core) with every node annotated by its resolved types.Type.
// There is no effect row here — the teacher's typed tree carries one, but
// this language has no effect system beyond the `unsafe {...}` scoping
// marker (§1 Non-goals), so that field is dropped rather than carried as
// dead weight.
package typedast

import (
	"fmt"
	"strings"

	"github.com/veil-lang/veil/internal/core"
	"github.com/veil-lang/veil/internal/source"
	"github.com/veil-lang/veil/internal/types"
)

// TypedExpr is embedded in every typed node. Core is the untyped node this
// one was checked from, kept around so later phases can recover the
// original ANF shape without re-walking a parallel tree from scratch.
type TypedExpr struct {
	NodeID uint64
	Span   source.Pos
	Type   types.Type
	Core   core.Expr
}

func (t TypedExpr) GetNodeID() uint64   { return t.NodeID }
func (t TypedExpr) GetSpan() source.Pos { return t.Span }
func (t TypedExpr) GetType() types.Type { return t.Type }
func (t TypedExpr) GetCore() core.Expr  { return t.Core }

// TypedNode is the interface every typed node implements.
type TypedNode interface {
	GetNodeID() uint64
	GetSpan() source.Pos
	GetType() types.Type
	GetCore() core.Expr
	String() string
}

type TypedVar struct {
	TypedExpr
	Name string
}

func (t TypedVar) String() string { return fmt.Sprintf("%s : %s", t.Name, t.Type) }

type TypedLit struct {
	TypedExpr
	Kind  core.LitKind
	Value interface{}
}

func (t TypedLit) String() string { return fmt.Sprintf("%v : %s", t.Value, t.Type) }

type TypedLambda struct {
	TypedExpr
	Params     []string
	ParamTypes []types.Type
	Body       TypedNode
}

func (t TypedLambda) String() string {
	return fmt.Sprintf("fun(%s) -> %s : %s", strings.Join(t.Params, ", "), t.Body, t.Type)
}

// TypedLet is a non-recursive binding. Scheme is the generalized type of
// Value — only Let and LetRec bindings ever carry a Scheme, since every
// other typed node's Type is always monomorphic (§4.6).
type TypedLet struct {
	TypedExpr
	Name   string
	Scheme *types.Scheme
	Value  TypedNode
	Body   TypedNode
}

func (t TypedLet) String() string {
	return fmt.Sprintf("let %s : %s = %s in %s", t.Name, t.Scheme, t.Value, t.Body)
}

type TypedRecBinding struct {
	Name   string
	Scheme *types.Scheme
	Value  TypedNode
}

type TypedLetRec struct {
	TypedExpr
	Bindings []TypedRecBinding
	Body     TypedNode
}

func (t TypedLetRec) String() string {
	binds := make([]string, len(t.Bindings))
	for i, b := range t.Bindings {
		binds[i] = fmt.Sprintf("%s : %s = %s", b.Name, b.Scheme, b.Value)
	}
	return fmt.Sprintf("let rec %s in %s", strings.Join(binds, " and "), t.Body)
}

type TypedApp struct {
	TypedExpr
	Func TypedNode
	Args []TypedNode
}

func (t TypedApp) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s) : %s", t.Func, strings.Join(args, ", "), t.Type)
}

type TypedIf struct {
	TypedExpr
	Cond TypedNode
	Then TypedNode
	Else TypedNode
}

func (t TypedIf) String() string {
	return fmt.Sprintf("if %s then %s else %s : %s", t.Cond, t.Then, t.Else, t.Type)
}

type TypedMatchArm struct {
	Pattern TypedPattern
	Guard   TypedNode
	Body    TypedNode
}

type TypedMatch struct {
	TypedExpr
	Scrutinee  TypedNode
	Arms       []TypedMatchArm
	Exhaustive bool
}

func (t TypedMatch) String() string {
	return fmt.Sprintf("match %s { ... } : %s", t.Scrutinee, t.Type)
}

type TypedBinOp struct {
	TypedExpr
	Op    string
	Left  TypedNode
	Right TypedNode
}

func (t TypedBinOp) String() string {
	return fmt.Sprintf("(%s %s %s) : %s", t.Left, t.Op, t.Right, t.Type)
}

type TypedUnOp struct {
	TypedExpr
	Op      string
	Operand TypedNode
}

func (t TypedUnOp) String() string { return fmt.Sprintf("%s%s : %s", t.Op, t.Operand, t.Type) }

type TypedRecord struct {
	TypedExpr
	Fields map[string]TypedNode
	Order  []string
}

func (t TypedRecord) String() string {
	parts := make([]string, len(t.Order))
	for i, name := range t.Order {
		parts[i] = fmt.Sprintf("%s: %s", name, t.Fields[name])
	}
	return fmt.Sprintf("{%s} : %s", strings.Join(parts, ", "), t.Type)
}

type TypedRecordAccess struct {
	TypedExpr
	Record TypedNode
	Field  string
}

func (t TypedRecordAccess) String() string {
	return fmt.Sprintf("%s.%s : %s", t.Record, t.Field, t.Type)
}

type TypedList struct {
	TypedExpr
	Elements []TypedNode
}

func (t TypedList) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("[%s] : %s", strings.Join(elems, ", "), t.Type)
}

type TypedTuple struct {
	TypedExpr
	Elements []TypedNode
}

func (t TypedTuple) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("(%s) : %s", strings.Join(elems, ", "), t.Type)
}

type TypedVariant struct {
	TypedExpr
	Ctor string
	Args []TypedNode
}

func (t TypedVariant) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s) : %s", t.Ctor, strings.Join(args, ", "), t.Type)
}

type TypedRefOp struct {
	TypedExpr
	Kind   core.RefKind
	Target TypedNode
	Value  TypedNode
}

func (t TypedRefOp) String() string {
	switch t.Kind {
	case core.RefNew:
		return fmt.Sprintf("ref(%s) : %s", t.Value, t.Type)
	case core.RefSet:
		return fmt.Sprintf("%s := %s : %s", t.Target, t.Value, t.Type)
	default:
		return fmt.Sprintf("!%s : %s", t.Target, t.Type)
	}
}

type TypedExternal struct {
	TypedExpr
	Name   string
	JSName string
}

func (t TypedExternal) String() string { return fmt.Sprintf("external:%s : %s", t.Name, t.Type) }

type TypedBlock struct {
	TypedExpr
	Stmts []TypedNode
}

func (t TypedBlock) String() string {
	parts := make([]string, len(t.Stmts))
	for i, s := range t.Stmts {
		parts[i] = s.String()
	}
	return fmt.Sprintf("{ %s } : %s", strings.Join(parts, "; "), t.Type)
}

// Typed patterns. Unlike expressions, patterns carry their type inline
// rather than via an embedded TypedExpr, since a pattern has no NodeID/Core
// of its own in the untyped tree (core.Pattern doesn't embed CoreNode).

type TypedPattern interface {
	patternNode()
	GetType() types.Type
	String() string
}

type TypedVarPattern struct {
	Name string
	Type types.Type
}

func (p TypedVarPattern) patternNode()        {}
func (p TypedVarPattern) GetType() types.Type { return p.Type }
func (p TypedVarPattern) String() string      { return p.Name }

type TypedLitPattern struct {
	Value interface{}
	Type  types.Type
}

func (p TypedLitPattern) patternNode()        {}
func (p TypedLitPattern) GetType() types.Type { return p.Type }
func (p TypedLitPattern) String() string      { return fmt.Sprintf("%v", p.Value) }

type TypedConstructorPattern struct {
	Name string
	Args []TypedPattern
	Type types.Type
}

func (p TypedConstructorPattern) patternNode()        {}
func (p TypedConstructorPattern) GetType() types.Type { return p.Type }
func (p TypedConstructorPattern) String() string {
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(args, ", "))
}

type TypedWildcardPattern struct{ Type types.Type }

func (p TypedWildcardPattern) patternNode()        {}
func (p TypedWildcardPattern) GetType() types.Type { return p.Type }
func (p TypedWildcardPattern) String() string      { return "_" }

type TypedListPattern struct {
	Elements []TypedPattern
	Tail     TypedPattern // nil unless the pattern has a `...rest`
	Type     types.Type
}

func (p TypedListPattern) patternNode()        {}
func (p TypedListPattern) GetType() types.Type { return p.Type }
func (p TypedListPattern) String() string {
	parts := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		parts[i] = e.String()
	}
	if p.Tail != nil {
		return fmt.Sprintf("[%s, ...%s]", strings.Join(parts, ", "), p.Tail)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

type TypedRecordPattern struct {
	Fields map[string]TypedPattern
	Order  []string
	Open   bool
	Type   types.Type
}

func (p TypedRecordPattern) patternNode()        {}
func (p TypedRecordPattern) GetType() types.Type { return p.Type }
func (p TypedRecordPattern) String() string {
	parts := make([]string, len(p.Order))
	for i, name := range p.Order {
		parts[i] = fmt.Sprintf("%s: %s", name, p.Fields[name])
	}
	if p.Open {
		parts = append(parts, "...")
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// TypedProgram is a fully-checked module: one typed declaration per
// top-level binding, in source order.
type TypedProgram struct {
	Decls []TypedNode
}

// Pretty renders a TypedProgram for debugging and golden-style tests.
func Pretty(prog *TypedProgram) string {
	parts := make([]string, len(prog.Decls))
	for i, decl := range prog.Decls {
		parts[i] = fmt.Sprintf("decl_%d: %s", i, decl)
	}
	return fmt.Sprintf("TypedProgram(\n  %s\n)", strings.Join(parts, "\n  "))
}
