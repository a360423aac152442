package ast

import (
	"fmt"
	"strings"

	"github.com/veil-lang/veil/internal/source"
)

// LiteralKind tags the shape of a Literal's decoded value.
type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	BoolLit
	UnitLit
)

// Literal is an int/float/string/bool/unit constant (§3).
type Literal struct {
	Kind  LiteralKind
	Value interface{}
	Pos   source.Pos
}

func (l *Literal) Position() source.Pos { return l.Pos }
func (l *Literal) exprNode()            {}
func (l *Literal) patternNode()         {} // literal patterns reuse this node
func (l *Literal) String() string       { return fmt.Sprintf("%v", l.Value) }

// Var is a bare identifier reference.
type Var struct {
	Name string
	Pos  source.Pos
}

func (v *Var) Position() source.Pos { return v.Pos }
func (v *Var) exprNode()            {}
func (v *Var) String() string       { return v.Name }

// Lambda is `(params) => body`, with optional per-parameter and return
// type annotations (§3 Lambda{params, return_annot?, body}).
type Lambda struct {
	Params       []*Param
	ReturnAnnot  TypeExpr
	Body         Expr
	Pos          source.Pos
}

func (l *Lambda) Position() source.Pos { return l.Pos }
func (l *Lambda) exprNode()            {}
func (l *Lambda) String() string {
	names := make([]string, len(l.Params))
	for i, p := range l.Params {
		names[i] = p.Pattern.String()
	}
	return fmt.Sprintf("(%s) => %s", strings.Join(names, ", "), l.Body)
}

// App is function application `f(args...)`.
type App struct {
	Func Expr
	Args []Expr
	Pos  source.Pos
}

func (a *App) Position() source.Pos { return a.Pos }
func (a *App) exprNode()            {}
func (a *App) String() string {
	args := make([]string, len(a.Args))
	for i, arg := range a.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", a.Func, strings.Join(args, ", "))
}

// If is `if cond then thenB else elseB`.
type If struct {
	Cond Expr
	Then Expr
	Else Expr
	Pos  source.Pos
}

func (i *If) Position() source.Pos { return i.Pos }
func (i *If) exprNode()            {}
func (i *If) String() string {
	return fmt.Sprintf("(if %s then %s else %s)", i.Cond, i.Then, i.Else)
}

// MatchArm is one `pattern [when guard] => body` alternative.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // optional
	Body    Expr
	Pos     source.Pos
}

// Match is `match scrutinee { arms... }`.
type Match struct {
	Scrutinee Expr
	Arms      []*MatchArm
	Pos       source.Pos
}

func (m *Match) Position() source.Pos { return m.Pos }
func (m *Match) exprNode()            {}
func (m *Match) String() string {
	arms := make([]string, len(m.Arms))
	for i, a := range m.Arms {
		arms[i] = fmt.Sprintf("%s => %s", a.Pattern, a.Body)
	}
	return fmt.Sprintf("match %s { %s }", m.Scrutinee, strings.Join(arms, " | "))
}

// Block is `{ stmt; stmt; ...; lastExpr }`. The last expression is the
// block's value; earlier ones are evaluated for effect only.
type Block struct {
	Stmts []Expr
	Pos   source.Pos
}

func (b *Block) Position() source.Pos { return b.Pos }
func (b *Block) exprNode()            {}
func (b *Block) String() string {
	parts := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		parts[i] = s.String()
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, "; "))
}

// RecordField is `name: expr`, or `name` shorthand when Value == nil
// (desugared to `name: name` — §4.4).
type RecordField struct {
	Name  string
	Value Expr // nil for shorthand; resolved to Var{Name} by the desugarer
	Pos   source.Pos
}

// Record is a record literal, with at most one leading spread (§4.4).
type Record struct {
	Fields []*RecordField
	Spread Expr // optional `...base`
	Pos    source.Pos
}

func (r *Record) Position() source.Pos { return r.Pos }
func (r *Record) exprNode()            {}
func (r *Record) String() string {
	fields := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		fields[i] = fmt.Sprintf("%s: %s", f.Name, f.Value)
	}
	return fmt.Sprintf("{ %s }", strings.Join(fields, ", "))
}

// ListLit is `[e1, e2, ...]`.
type ListLit struct {
	Elements []Expr
	Pos      source.Pos
}

func (l *ListLit) Position() source.Pos { return l.Pos }
func (l *ListLit) exprNode()            {}
func (l *ListLit) String() string {
	elems := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
}

// Tuple is `(e1, e2, ...)` with at least two elements.
type Tuple struct {
	Elements []Expr
	Pos      source.Pos
}

func (t *Tuple) Position() source.Pos { return t.Pos }
func (t *Tuple) exprNode()            {}
func (t *Tuple) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}

// FieldAccess is `e.field`.
type FieldAccess struct {
	Target Expr
	Field  string
	Pos    source.Pos
}

func (f *FieldAccess) Position() source.Pos { return f.Pos }
func (f *FieldAccess) exprNode()            {}
func (f *FieldAccess) String() string       { return fmt.Sprintf("%s.%s", f.Target, f.Field) }

// BinOp is any binary operator expression, including `&` string concat.
type BinOp struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   source.Pos
}

func (b *BinOp) Position() source.Pos { return b.Pos }
func (b *BinOp) exprNode()            {}
func (b *BinOp) String() string       { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }

// UnaryOp is `-e` (prefix `!e` is parsed as a Deref instead).
type UnaryOp struct {
	Op   string
	Expr Expr
	Pos  source.Pos
}

func (u *UnaryOp) Position() source.Pos { return u.Pos }
func (u *UnaryOp) exprNode()            {}
func (u *UnaryOp) String() string       { return fmt.Sprintf("(%s%s)", u.Op, u.Expr) }

// Pipe is `lhs |> rhs`, lowered by the desugarer into an application (§4.5).
type Pipe struct {
	Left  Expr
	Right Expr
	Pos   source.Pos
}

func (p *Pipe) Position() source.Pos { return p.Pos }
func (p *Pipe) exprNode()            {}
func (p *Pipe) String() string       { return fmt.Sprintf("(%s |> %s)", p.Left, p.Right) }

// RefLit is `ref(e)`, allocating a fresh mutable cell.
type RefLit struct {
	Value Expr
	Pos   source.Pos
}

func (r *RefLit) Position() source.Pos { return r.Pos }
func (r *RefLit) exprNode()            {}
func (r *RefLit) String() string       { return fmt.Sprintf("ref(%s)", r.Value) }

// Deref is `!e`, reading a Ref's current value.
type Deref struct {
	Target Expr
	Pos    source.Pos
}

func (d *Deref) Position() source.Pos { return d.Pos }
func (d *Deref) exprNode()            {}
func (d *Deref) String() string       { return fmt.Sprintf("!%s", d.Target) }

// Assign is `target := value`, writing through a Ref.
type Assign struct {
	Target Expr
	Value  Expr
	Pos    source.Pos
}

func (a *Assign) Position() source.Pos { return a.Pos }
func (a *Assign) exprNode()            {}
func (a *Assign) String() string       { return fmt.Sprintf("%s := %s", a.Target, a.Value) }

// Unsafe is `unsafe { body }`, the scoping marker for FFI call sites (§1
// Non-goals: this is the only effect-system surface the language has).
type Unsafe struct {
	Body Expr
	Pos  source.Pos
}

func (u *Unsafe) Position() source.Pos { return u.Pos }
func (u *Unsafe) exprNode()            {}
func (u *Unsafe) String() string       { return fmt.Sprintf("unsafe { %s }", u.Body) }

// Spread is `...e`, valid only inside a Record literal or a call's argument
// list; a bare spread elsewhere is VF2108.
type Spread struct {
	Value Expr
	Pos   source.Pos
}

func (s *Spread) Position() source.Pos { return s.Pos }
func (s *Spread) exprNode()            {}
func (s *Spread) String() string       { return fmt.Sprintf("...%s", s.Value) }

// ErrorExpr is a parse-error placeholder node used for error recovery: the
// parser emits one in place of a malformed expression so that downstream
// declarations can still be parsed and reported on.
type ErrorExpr struct {
	Pos     source.Pos
	Message string
}

func (e *ErrorExpr) Position() source.Pos { return e.Pos }
func (e *ErrorExpr) exprNode()            {}
func (e *ErrorExpr) String() string       { return fmt.Sprintf("<error: %s>", e.Message) }
