// Package ast defines the Surface AST (C4): the structured, token-free
// representation the parser produces, retaining all syntactic sugar (§3).
package ast

import (
	"fmt"
	"strings"

	"github.com/veil-lang/veil/internal/source"
)

// Node is the base interface every AST node implements.
type Node interface {
	String() string
	Position() source.Pos
}

// Expr is any surface expression node.
type Expr interface {
	Node
	exprNode()
}

// Decl is any top-level declaration node.
type Decl interface {
	Node
	declNode()
}

// Pattern is any pattern node (match arms, let-destructuring, lambda params).
type Pattern interface {
	Node
	patternNode()
}

// TypeExpr is any surface type-expression node.
type TypeExpr interface {
	Node
	typeExprNode()
}

// Module is the top-level surface tree for one compilation unit (§3).
type Module struct {
	Imports      []*ImportDecl
	Declarations []Decl
	Exports      []*ExportDecl
	Pos          source.Pos
}

func (m *Module) Position() source.Pos { return m.Pos }
func (m *Module) String() string {
	var parts []string
	for _, i := range m.Imports {
		parts = append(parts, i.String())
	}
	for _, d := range m.Declarations {
		parts = append(parts, d.String())
	}
	for _, e := range m.Exports {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "\n")
}

// --- declarations ------------------------------------------------------------

// LetDecl is `let [rec] pattern [: type] = value [and …]` (§4.4). Bindings
// chained with `and` after `let rec` are siblings in Group, sharing Rec.
type LetDecl struct {
	Pattern Pattern
	Rec     bool
	Annot   TypeExpr // optional
	Value   Expr
	Mut     bool
	Group   []*LetDecl // additional `and`-joined bindings, empty for a lone let
	Pos     source.Pos
}

func (l *LetDecl) Position() source.Pos { return l.Pos }
func (l *LetDecl) declNode()            {}
func (l *LetDecl) String() string {
	rec := ""
	if l.Rec {
		rec = "rec "
	}
	return fmt.Sprintf("let %s%s = %s", rec, l.Pattern, l.Value)
}

// TypeDecl is `type Name[<params>] = typeExpr | variant-alts` (§4.4).
type TypeDecl struct {
	Name     string
	Params   []string
	Body     TypeExpr
	Variants []*VariantAlt // non-nil when the body is a sum of constructors
	Exported bool
	Pos      source.Pos
}

// VariantAlt is one `Ctor(T1, T2, ...)` alternative of a variant TypeDecl.
type VariantAlt struct {
	Name   string
	Fields []TypeExpr
	Pos    source.Pos
}

func (t *TypeDecl) Position() source.Pos { return t.Pos }
func (t *TypeDecl) declNode()            {}
func (t *TypeDecl) String() string {
	return fmt.Sprintf("type %s", t.Name)
}

// ExternalDecl is `external name : type = "js_name" [from "path"]` (§3/§4.4).
// Repeated declarations of the same name are FFI overloads (VF4801/VF4802).
type ExternalDecl struct {
	Name       string
	Scheme     TypeExpr
	JSName     string
	ImportPath string // empty when `from "..."` is omitted
	Pos        source.Pos
}

func (e *ExternalDecl) Position() source.Pos { return e.Pos }
func (e *ExternalDecl) declNode()            {}
func (e *ExternalDecl) String() string {
	return fmt.Sprintf("external %s: %s = %q", e.Name, e.Scheme, e.JSName)
}

// ImportDecl is `import { names } from "path"` or `import * as X from "path"`.
type ImportDecl struct {
	Path      string
	Names     []string // selective import list; empty when Namespace is set
	Namespace string   // `import * as X`; empty for selective/whole imports
	Pos       source.Pos
}

func (i *ImportDecl) Position() source.Pos { return i.Pos }
func (i *ImportDecl) declNode()            {}
func (i *ImportDecl) String() string {
	if i.Namespace != "" {
		return fmt.Sprintf("import * as %s from %q", i.Namespace, i.Path)
	}
	return fmt.Sprintf("import { %s } from %q", strings.Join(i.Names, ", "), i.Path)
}

// ExportDecl is `export { names } [from "path"]` or `export let …` (the
// latter is rejected by the parser with VF2403; exporting a `func` instead
// is represented by FuncDecl.IsExport).
type ExportDecl struct {
	Names []string
	Path  string // optional re-export source
	Pos   source.Pos
}

func (e *ExportDecl) Position() source.Pos { return e.Pos }
func (e *ExportDecl) declNode()            {}
func (e *ExportDecl) String() string {
	return fmt.Sprintf("export { %s }", strings.Join(e.Names, ", "))
}

// FuncDecl is a named function declaration — the exportable surface for
// `export` (VF2403 forbids `export let`, so functions are the unit of
// export). Declared separately from LetDecl so the parser can track
// `IsExport` without overloading LetDecl's semantics.
type FuncDecl struct {
	Name         string
	TypeParams   []string
	Params       []*Param
	ReturnAnnot  TypeExpr // optional
	Body         Expr
	IsExport     bool
	Pos          source.Pos
}

// Param is one lambda/function parameter, optionally annotated.
type Param struct {
	Pattern Pattern
	Annot   TypeExpr // optional
	Pos     source.Pos
}

func (f *FuncDecl) Position() source.Pos { return f.Pos }
func (f *FuncDecl) declNode()            {}
func (f *FuncDecl) String() string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Pattern.String()
	}
	return fmt.Sprintf("func %s(%s)", f.Name, strings.Join(names, ", "))
}
