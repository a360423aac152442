// Package core implements the Core AST (C6): an A-Normal Form
// representation with explicit recursion, produced by the desugarer and
// consumed by the typechecker (§3, §4.5).
package core

import (
	"fmt"
	"strings"

	"github.com/veil-lang/veil/internal/source"
)

// CoreNode is the base embedded in every concrete Core node. NodeID is a
// stable identifier assigned by the elaborator; CoreSpan is the position in
// the (synthetic) Core tree, OrigSpan the originating surface position used
// for diagnostics raised by the typechecker.
type CoreNode struct {
	NodeID   uint64
	CoreSpan source.Pos
	OrigSpan source.Pos
}

// Expr is the base interface for Core expressions.
type Expr interface {
	ID() uint64
	Span() source.Pos
	OriginalSpan() source.Pos
	String() string
	coreExpr()
}

func (n CoreNode) ID() uint64            { return n.NodeID }
func (n CoreNode) Span() source.Pos      { return n.CoreSpan }
func (n CoreNode) OriginalSpan() source.Pos { return n.OrigSpan }

// --- atomic expressions (may appear in any position) ------------------------

// Var is a variable reference.
type Var struct {
	CoreNode
	Name string
}

func (v *Var) coreExpr()      {}
func (v *Var) String() string { return v.Name }

// LitKind tags the shape of a Lit's decoded value.
type LitKind int

const (
	IntLit LitKind = iota
	FloatLit
	StringLit
	BoolLit
	UnitLit
)

// Lit is a constant value.
type Lit struct {
	CoreNode
	Kind  LitKind
	Value interface{}
}

func (l *Lit) coreExpr()      {}
func (l *Lit) String() string { return fmt.Sprintf("%v", l.Value) }

// Lambda is a function value; parameters are already flattened to names —
// pattern destructuring was lowered into a Match over the Body by the
// desugarer (§4.5).
type Lambda struct {
	CoreNode
	Params []string
	Body   Expr
}

func (l *Lambda) coreExpr() {}
func (l *Lambda) String() string {
	return fmt.Sprintf("fun(%s) -> %s", strings.Join(l.Params, ", "), l.Body)
}

// --- complex expressions (must be let-bound in ANF) -------------------------

// Let is a non-recursive binding; Value is atomic or a single call/operation
// per the ANF invariant.
type Let struct {
	CoreNode
	Name  string
	Value Expr
	Body  Expr
}

func (l *Let) coreExpr() {}
func (l *Let) String() string {
	return fmt.Sprintf("let %s = %s in %s", l.Name, l.Value, l.Body)
}

// RecBinding is one name/value pair of a LetRec group.
type RecBinding struct {
	Name  string
	Value Expr // usually a Lambda
}

// LetRec is a group of mutually-recursive bindings (`let rec … and …`,
// §4.5).
type LetRec struct {
	CoreNode
	Bindings []RecBinding
	Body     Expr
}

func (l *LetRec) coreExpr() {}
func (l *LetRec) String() string {
	names := make([]string, len(l.Bindings))
	for i, b := range l.Bindings {
		names[i] = fmt.Sprintf("%s = %s", b.Name, b.Value)
	}
	return fmt.Sprintf("let rec %s in %s", strings.Join(names, " and "), l.Body)
}

// App is function application; Args are atomic in ANF.
type App struct {
	CoreNode
	Func Expr
	Args []Expr
}

func (a *App) coreExpr() {}
func (a *App) String() string {
	args := make([]string, len(a.Args))
	for i, arg := range a.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", a.Func, strings.Join(args, ", "))
}

// If is a conditional; Cond is atomic in ANF (if/then/else is itself sugar
// lowered to a two-arm Match over Bool constructors, §4.5, but the Core AST
// keeps a dedicated node since the typechecker's Bool-branching rule is
// simpler stated directly than via a pattern match over a nominal type).
type If struct {
	CoreNode
	Cond Expr
	Then Expr
	Else Expr
}

func (i *If) coreExpr() {}
func (i *If) String() string {
	return fmt.Sprintf("if %s then %s else %s", i.Cond, i.Then, i.Else)
}

// MatchArm is one pattern/guard/body alternative.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // optional, atomic
	Body    Expr
}

// Match is pattern matching over an atomic scrutinee. The desugarer sets
// Exhaustive to true for the single-arm match a destructuring let lowers to
// and to false for a surface match; the typechecker computes coverage
// itself and does not read this flag.
type Match struct {
	CoreNode
	Scrutinee  Expr
	Arms       []MatchArm
	Exhaustive bool
}

func (m *Match) coreExpr() {}
func (m *Match) String() string {
	arms := make([]string, len(m.Arms))
	for i, a := range m.Arms {
		arms[i] = fmt.Sprintf("%s => %s", a.Pattern, a.Body)
	}
	return fmt.Sprintf("match %s { %s }", m.Scrutinee, strings.Join(arms, " | "))
}

// BinOp is a binary primitive operation; both operands are atomic in ANF.
// String concatenation (`&`) lowers to this with Op == "&".
type BinOp struct {
	CoreNode
	Op    string
	Left  Expr
	Right Expr
}

func (b *BinOp) coreExpr() {}
func (b *BinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// UnOp is a unary primitive operation; the operand is atomic in ANF.
type UnOp struct {
	CoreNode
	Op      string
	Operand Expr
}

func (u *UnOp) coreExpr() {}
func (u *UnOp) String() string {
	return fmt.Sprintf("%s%s", u.Op, u.Operand)
}

// Record is record construction; every field value is atomic in ANF. A
// record-update spread (`{ ...base, f: v }`) keeps base in Spread, and the
// typechecker merges base's fields with the explicit ones (§4.5).
type Record struct {
	CoreNode
	Fields map[string]Expr
	Order  []string // field name order, for deterministic codegen/printing
	Spread Expr     // optional `...base` awaiting the typechecker's field-set
	// expansion: the desugarer cannot expand a record-update spread into a
	// full field-by-field merge itself without knowing base's record type,
	// so it leaves Spread in place and the typechecker performs the merge
	// once that type is resolved (§4.5, §4.6).
}

func (r *Record) coreExpr() {}
func (r *Record) String() string {
	parts := make([]string, len(r.Order))
	for i, name := range r.Order {
		parts[i] = fmt.Sprintf("%s: %s", name, r.Fields[name])
	}
	if r.Spread != nil {
		return fmt.Sprintf("{...%s, %s}", r.Spread, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// RecordAccess is field access; Record is atomic in ANF.
type RecordAccess struct {
	CoreNode
	Record Expr
	Field  string
}

func (r *RecordAccess) coreExpr() {}
func (r *RecordAccess) String() string {
	return fmt.Sprintf("%s.%s", r.Record, r.Field)
}

// List is list construction; every element is atomic in ANF, except a
// tail produced by `::` which the desugarer folds into nested Variant cons
// cells rather than this node (lists are sugar over the built-in List
// variant type, §4.5).
type List struct {
	CoreNode
	Elements []Expr
}

func (l *List) coreExpr() {}
func (l *List) String() string {
	elems := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
}

// Variant is construction of a nominal sum-type alternative (`Ctor(args…)`);
// every arg is atomic in ANF.
type Variant struct {
	CoreNode
	Ctor string
	Args []Expr
}

func (v *Variant) coreExpr() {}
func (v *Variant) String() string {
	args := make([]string, len(v.Args))
	for i, a := range v.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", v.Ctor, strings.Join(args, ", "))
}

// RefKind distinguishes Ref allocation, dereference, and assignment — kept
// as one node family since all three share the same Ref-cell operand shape.
type RefKind int

const (
	RefNew RefKind = iota
	RefGet
	RefSet
)

// RefOp is `ref(e)`, `!e`, or `target := value` (§4.6); Value is nil for
// RefGet.
type RefOp struct {
	CoreNode
	Kind   RefKind
	Target Expr // the Ref cell, for RefGet/RefSet; nil for RefNew
	Value  Expr // the initial/assigned value, for RefNew/RefSet
}

func (r *RefOp) coreExpr() {}
func (r *RefOp) String() string {
	switch r.Kind {
	case RefNew:
		return fmt.Sprintf("ref(%s)", r.Value)
	case RefSet:
		return fmt.Sprintf("%s := %s", r.Target, r.Value)
	default:
		return fmt.Sprintf("!%s", r.Target)
	}
}

// External is a reference to a declared FFI binding, resolved by name
// against the typechecker's FFI table rather than the ordinary value
// environment (§4.6, §6).
type External struct {
	CoreNode
	Name   string
	JSName string
}

func (e *External) coreExpr()      {}
func (e *External) String() string { return fmt.Sprintf("external:%s", e.Name) }

// Block is a sequence of expressions evaluated for effect, whose value is
// its last element (§3).
type Block struct {
	CoreNode
	Stmts []Expr
}

func (b *Block) coreExpr() {}
func (b *Block) String() string {
	parts := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		parts[i] = s.String()
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, "; "))
}

// --- patterns -----------------------------------------------------------

// Pattern is the Core-level pattern representation, stripped of the
// surface's or-pattern/guard sugar (a top-level or-pattern arm desugars to
// one Match arm per alternative with the same body; a nested or-pattern is
// rejected; a guard is threaded into MatchArm.Guard).
type Pattern interface {
	patternNode()
	String() string
}

type VarPattern struct{ Name string }

func (v *VarPattern) patternNode()  {}
func (v *VarPattern) String() string { return v.Name }

type LitPattern struct{ Value interface{} }

func (l *LitPattern) patternNode()  {}
func (l *LitPattern) String() string { return fmt.Sprintf("%v", l.Value) }

type ConstructorPattern struct {
	Name string
	Args []Pattern
}

func (c *ConstructorPattern) patternNode() {}
func (c *ConstructorPattern) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(args, ", "))
}

type ListPattern struct {
	Elements []Pattern
	Tail     Pattern // nil unless the pattern has a `...rest`
}

func (l *ListPattern) patternNode() {}
func (l *ListPattern) String() string {
	elems := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
}

type RecordPattern struct {
	Fields map[string]Pattern
	Order  []string
	Open   bool // trailing `...` in the surface pattern
}

func (r *RecordPattern) patternNode() {}
func (r *RecordPattern) String() string {
	parts := make([]string, len(r.Order))
	for i, name := range r.Order {
		parts[i] = fmt.Sprintf("%s: %s", name, r.Fields[name])
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

type WildcardPattern struct{}

func (w *WildcardPattern) patternNode()  {}
func (w *WildcardPattern) String() string { return "_" }

// --- program --------------------------------------------------------------

// Program is a fully-desugared module: one Expr per top-level binding,
// already ANF-normalized.
type Program struct {
	Decls []Expr
}

// IsAtomic reports whether expr may appear directly in an operand position
// without first being let-bound, per the ANF invariant the desugarer
// maintains.
func IsAtomic(expr Expr) bool {
	switch expr.(type) {
	case *Var, *Lit, *Lambda:
		return true
	default:
		return false
	}
}

// Pretty renders a Program for debugging and golden-style tests.
func Pretty(prog *Program) string {
	parts := make([]string, len(prog.Decls))
	for i, decl := range prog.Decls {
		parts[i] = fmt.Sprintf("decl_%d: %s", i, decl)
	}
	return fmt.Sprintf("Program(\n  %s\n)", strings.Join(parts, "\n  "))
}
