// Package elaborate implements the Desugarer (C7): lowers the Surface AST
// to the Core AST (§4.5) and normalizes the result to A-Normal Form, so
// every non-atomic subexpression the typechecker would otherwise have to
// re-discover is already let-bound by the time it sees the tree.
package elaborate

import (
	"fmt"

	"github.com/veil-lang/veil/internal/ast"
	"github.com/veil-lang/veil/internal/core"
	"github.com/veil-lang/veil/internal/source"
)

// Elaborator carries the state threaded through one module's desugaring: a
// monotonically increasing NodeID counter (Core nodes need stable IDs for
// the typechecker's substitution maps and for exhaustiveness/FFI
// resolution keyed by ID) and the gensym counter ANF normalization uses
// when it has to name an intermediate result.
type Elaborator struct {
	nextID      uint64
	freshVarNum int
}

// NewElaborator creates a fresh Elaborator for one compilation unit.
func NewElaborator() *Elaborator {
	return &Elaborator{nextID: 1}
}

// Desugar runs the Pipeline API's `desugar` operation (§6): Surface Module
// to Core Program.
func Desugar(mod *ast.Module) (*core.Program, error) {
	e := NewElaborator()
	prog := &core.Program{}
	for _, decl := range mod.Declarations {
		lowered, err := e.elaborateDecl(decl)
		if err != nil {
			return nil, err
		}
		if lowered != nil {
			prog.Decls = append(prog.Decls, lowered)
		}
	}
	return prog, nil
}

func (e *Elaborator) makeNode(pos source.Pos) core.CoreNode {
	id := e.nextID
	e.nextID++
	return core.CoreNode{NodeID: id, CoreSpan: pos, OrigSpan: pos}
}

func (e *Elaborator) freshVar() string {
	e.freshVarNum++
	return fmt.Sprintf("$t%d", e.freshVarNum)
}

// binding is one ANF-introduced intermediate let, accumulated bottom-up by
// normalizeToAtomic and discharged by wrapWithBindings.
type binding struct {
	Name  string
	Value core.Expr
}

// wrapWithBindings reintroduces the let bindings ANF-normalization peeled
// off of expr's subexpressions, innermost first so each binding can see
// the ones before it.
func (e *Elaborator) wrapWithBindings(expr core.Expr, bindings []binding) core.Expr {
	result := expr
	for i := len(bindings) - 1; i >= 0; i-- {
		b := bindings[i]
		result = &core.Let{CoreNode: e.makeNode(b.Value.Span()), Name: b.Name, Value: b.Value, Body: result}
	}
	return result
}

// normalizeToAtomic lowers expr and, if the result isn't atomic per the ANF
// invariant (core.IsAtomic), binds it to a fresh name and returns a Var
// reference plus the binding to wrap the enclosing expression with.
func (e *Elaborator) normalizeToAtomic(expr ast.Expr) (core.Expr, []binding, error) {
	lowered, err := e.elaborateExpr(expr)
	if err != nil {
		return nil, nil, err
	}
	if core.IsAtomic(lowered) {
		return lowered, nil, nil
	}
	name := e.freshVar()
	return &core.Var{CoreNode: e.makeNode(expr.Position()), Name: name}, []binding{{Name: name, Value: lowered}}, nil
}

// --- top-level declarations -------------------------------------------------

func (e *Elaborator) elaborateDecl(decl ast.Decl) (core.Expr, error) {
	switch d := decl.(type) {
	case *ast.LetDecl:
		return e.elaborateLetDecl(d)
	case *ast.FuncDecl:
		return e.elaborateFuncDecl(d)
	case *ast.TypeDecl:
		// Type declarations register constructors with the typechecker's
		// nominal-type table; they produce no runtime value of their own, so
		// they lower to nothing here (§4.5's lowerings are all expression- or
		// binding-shaped).
		return nil, nil
	case *ast.ExternalDecl:
		// Likewise, an `external` declaration registers an FFI overload
		// (the typechecker builds its FFITable straight from
		// mod.Declarations, see the Pipeline API's typecheck step) rather
		// than lowering to a bound value here — a Var referencing the
		// external name is produced at every use site by the ordinary
		// *ast.Var case below, and resolved against the FFI table instead
		// of the value environment once a type is known.
		return nil, nil
	default:
		return nil, fmt.Errorf("elaborate: unhandled declaration %T", decl)
	}
}

func (e *Elaborator) elaborateFuncDecl(f *ast.FuncDecl) (core.Expr, error) {
	lam, err := e.lowerFuncAsLambda(f.Params, f.Body, f.Pos)
	if err != nil {
		return nil, err
	}
	pos := f.Position()
	if isSelfReferential(f.Name, f.Body) {
		return &core.LetRec{
			CoreNode: e.makeNode(pos),
			Bindings: []core.RecBinding{{Name: f.Name, Value: lam}},
			Body:     &core.Var{CoreNode: e.makeNode(pos), Name: f.Name},
		}, nil
	}
	return &core.Let{
		CoreNode: e.makeNode(pos),
		Name:     f.Name,
		Value:    lam,
		Body:     &core.Var{CoreNode: e.makeNode(pos), Name: f.Name},
	}, nil
}

// lowerFuncAsLambda builds a Lambda from a parameter list that may contain
// destructuring patterns: a non-Var parameter becomes a synthetic name
// whose body opens with a Match against the real pattern, the same
// pattern-destructuring-let lowering generalized to parameters (§4.5).
func (e *Elaborator) lowerFuncAsLambda(params []*ast.Param, body ast.Expr, pos source.Pos) (*core.Lambda, error) {
	names := make([]string, len(params))
	wrapped := body
	for i := len(params) - 1; i >= 0; i-- {
		p := params[i]
		if vp, ok := p.Pattern.(*ast.VarPattern); ok {
			names[i] = vp.Name
			continue
		}
		temp := e.freshVar()
		names[i] = temp
		wrapped = &ast.Match{
			Scrutinee: &ast.Var{Name: temp, Pos: p.Pos},
			Arms:      []*ast.MatchArm{{Pattern: p.Pattern, Body: wrapped, Pos: p.Pos}},
			Pos:       p.Pos,
		}
	}
	loweredBody, err := e.elaborateExpr(wrapped)
	if err != nil {
		return nil, err
	}
	return &core.Lambda{CoreNode: e.makeNode(pos), Params: names, Body: loweredBody}, nil
}

func (e *Elaborator) elaborateLetDecl(l *ast.LetDecl) (core.Expr, error) {
	if len(l.Group) == 0 {
		return e.lowerSingleLet(l)
	}
	return e.lowerLetGroup(l)
}

func (e *Elaborator) lowerSingleLet(l *ast.LetDecl) (core.Expr, error) {
	value, err := e.elaborateExpr(l.Value)
	if err != nil {
		return nil, err
	}
	pos := l.Position()

	if vp, ok := l.Pattern.(*ast.VarPattern); ok {
		if l.Rec && isSelfReferential(vp.Name, l.Value) {
			return &core.LetRec{
				CoreNode: e.makeNode(pos),
				Bindings: []core.RecBinding{{Name: vp.Name, Value: value}},
				Body:     &core.Var{CoreNode: e.makeNode(pos), Name: vp.Name},
			}, nil
		}
		return &core.Let{
			CoreNode: e.makeNode(pos),
			Name:     vp.Name,
			Value:    value,
			Body:     &core.Var{CoreNode: e.makeNode(pos), Name: vp.Name},
		}, nil
	}

	// Pattern-destructuring let (`let (a, b) = e`, `let {x, y} = e`, …)
	// lowers to a single-arm Match (§4.5): `match e { pattern => {bound
	// names as a record} }`, so that whatever follows can read the bound
	// names back out by field access without the desugarer having to
	// thread an explicit "body" — top-level lets don't have one, and the
	// surface language has no nested `let … in …` expression form.
	return e.lowerDestructuringLet(l.Pattern, value, pos)
}

func (e *Elaborator) lowerDestructuringLet(pat ast.Pattern, value core.Expr, pos source.Pos) (core.Expr, error) {
	temp := e.freshVar()
	corePat, err := e.lowerPattern(pat)
	if err != nil {
		return nil, err
	}
	names := patternBindings(pat)
	fields := make(map[string]core.Expr, len(names))
	order := make([]string, len(names))
	for i, n := range names {
		fields[n] = &core.Var{CoreNode: e.makeNode(pos), Name: n}
		order[i] = n
	}
	return &core.Let{
		CoreNode: e.makeNode(pos),
		Name:     temp,
		Value:    value,
		Body: &core.Match{
			CoreNode:  e.makeNode(pos),
			Scrutinee: &core.Var{CoreNode: e.makeNode(pos), Name: temp},
			Arms: []core.MatchArm{{
				Pattern: corePat,
				Body:    &core.Record{CoreNode: e.makeNode(pos), Fields: fields, Order: order},
			}},
			Exhaustive: true,
		},
	}, nil
}

// lowerLetGroup lowers an `and`-joined binding group into its minimal
// mutually-recursive clusters via the group's call graph (scc.go):
// members that don't actually depend on a sibling become plain Lets rather
// than joining a LetRec they don't need.
func (e *Elaborator) lowerLetGroup(l *ast.LetDecl) (core.Expr, error) {
	members := append([]*ast.LetDecl{l}, l.Group...)
	names := make([]string, len(members))
	values := make([]ast.Expr, len(members))
	byName := make(map[string]*ast.LetDecl, len(members))
	for i, m := range members {
		vp, ok := m.Pattern.(*ast.VarPattern)
		if !ok {
			return nil, fmt.Errorf("elaborate: and-grouped let bindings must be plain names, got %T", m.Pattern)
		}
		names[i] = vp.Name
		values[i] = m.Value
		byName[vp.Name] = m
	}

	coreValues := make(map[string]core.Expr, len(names))
	for i, n := range names {
		v, err := e.elaborateExpr(values[i])
		if err != nil {
			return nil, err
		}
		coreValues[n] = v
	}

	pos := l.Position()
	fields := make(map[string]core.Expr, len(names))
	for _, n := range names {
		fields[n] = &core.Var{CoreNode: e.makeNode(pos), Name: n}
	}
	body := core.Expr(&core.Record{CoreNode: e.makeNode(pos), Fields: fields, Order: names})

	g := buildGroupCallGraph(names, values)
	// sccs lists dependencies first; the body is wrapped inside-out, so the
	// last cluster is wrapped first and the first cluster ends up outermost.
	clusters := g.sccs()
	for ci := len(clusters) - 1; ci >= 0; ci-- {
		cluster := clusters[ci]
		if len(cluster) == 1 && !isSelfReferential(cluster[0], byName[cluster[0]].Value) {
			n := cluster[0]
			body = &core.Let{CoreNode: e.makeNode(pos), Name: n, Value: coreValues[n], Body: body}
			continue
		}
		bindings := make([]core.RecBinding, len(cluster))
		for i, n := range cluster {
			bindings[i] = core.RecBinding{Name: n, Value: coreValues[n]}
		}
		body = &core.LetRec{CoreNode: e.makeNode(pos), Bindings: bindings, Body: body}
	}
	return body, nil
}

// patternBindings collects the names an irrefutable pattern binds,
// left-to-right.
func patternBindings(p ast.Pattern) []string {
	switch pt := p.(type) {
	case *ast.VarPattern:
		return []string{pt.Name}
	case *ast.WildcardPattern:
		return nil
	case *ast.TuplePattern:
		var names []string
		for _, el := range pt.Elements {
			names = append(names, patternBindings(el)...)
		}
		return names
	case *ast.RecordPattern:
		var names []string
		for _, f := range pt.Fields {
			names = append(names, patternBindings(f.Pattern)...)
		}
		return names
	case *ast.ListPattern:
		var names []string
		for _, el := range pt.Elements {
			names = append(names, patternBindings(el)...)
		}
		if pt.Rest != nil {
			names = append(names, patternBindings(pt.Rest)...)
		}
		return names
	case *ast.ConstructorPattern:
		var names []string
		for _, a := range pt.Args {
			names = append(names, patternBindings(a)...)
		}
		return names
	case *ast.TypedPattern:
		return patternBindings(pt.Pattern)
	default:
		return nil
	}
}

// --- expressions -------------------------------------------------------------

// elaborateExpr lowers one surface expression to its Core form, already
// ANF-normalized.
func (e *Elaborator) elaborateExpr(expr ast.Expr) (core.Expr, error) {
	switch ex := expr.(type) {
	case *ast.Literal:
		return e.lowerLiteral(ex)
	case *ast.Var:
		return &core.Var{CoreNode: e.makeNode(ex.Pos), Name: ex.Name}, nil
	case *ast.Lambda:
		return e.lowerLambda(ex)
	case *ast.App:
		return e.lowerApp(ex)
	case *ast.If:
		return e.lowerIf(ex)
	case *ast.Match:
		return e.lowerMatch(ex)
	case *ast.Block:
		return e.lowerBlock(ex)
	case *ast.Record:
		return e.lowerRecord(ex)
	case *ast.ListLit:
		return e.lowerList(ex)
	case *ast.Tuple:
		return e.lowerTuple(ex)
	case *ast.FieldAccess:
		return e.lowerFieldAccess(ex)
	case *ast.BinOp:
		return e.lowerBinOp(ex)
	case *ast.UnaryOp:
		return e.lowerUnaryOp(ex)
	case *ast.Pipe:
		return e.lowerPipe(ex)
	case *ast.RefLit:
		return e.lowerRefNew(ex)
	case *ast.Deref:
		return e.lowerRefGet(ex)
	case *ast.Assign:
		return e.lowerRefSet(ex)
	case *ast.Unsafe:
		return e.elaborateExpr(ex.Body)
	case *ast.Spread:
		return nil, fmt.Errorf("elaborate: bare spread outside record/call at %s", ex.Pos)
	case *ast.ErrorExpr:
		return nil, fmt.Errorf("elaborate: parse-error placeholder reached desugaring at %s", ex.Pos)
	default:
		return nil, fmt.Errorf("elaborate: unhandled expression %T", expr)
	}
}

func (e *Elaborator) lowerLiteral(lit *ast.Literal) (core.Expr, error) {
	var kind core.LitKind
	switch lit.Kind {
	case ast.IntLit:
		kind = core.IntLit
	case ast.FloatLit:
		kind = core.FloatLit
	case ast.StringLit:
		kind = core.StringLit
	case ast.BoolLit:
		kind = core.BoolLit
	case ast.UnitLit:
		kind = core.UnitLit
	default:
		return nil, fmt.Errorf("elaborate: unknown literal kind %v", lit.Kind)
	}
	return &core.Lit{CoreNode: e.makeNode(lit.Pos), Kind: kind, Value: lit.Value}, nil
}

func (e *Elaborator) lowerLambda(lam *ast.Lambda) (core.Expr, error) {
	return e.lowerFuncAsLambda(lam.Params, lam.Body, lam.Pos)
}

func (e *Elaborator) lowerApp(app *ast.App) (core.Expr, error) {
	fn, fnBinds, err := e.normalizeToAtomic(app.Func)
	if err != nil {
		return nil, err
	}
	var allBinds []binding
	allBinds = append(allBinds, fnBinds...)

	args := make([]core.Expr, 0, len(app.Args))
	for _, a := range app.Args {
		// A trailing spread in a call's argument list (`f(...xs)`) cannot be
		// flattened without knowing xs's arity, which this front-end never
		// determines (arity of a spread argument list is a codegen/runtime
		// concern downstream of this compiler's scope, §1 Non-goals): pass
		// it through as an ordinary atomic argument and let the typechecker
		// reject it if App's arity doesn't line up against a spread.
		if sp, ok := a.(*ast.Spread); ok {
			atomic, binds, err := e.normalizeToAtomic(sp.Value)
			if err != nil {
				return nil, err
			}
			args = append(args, atomic)
			allBinds = append(allBinds, binds...)
			continue
		}
		atomic, binds, err := e.normalizeToAtomic(a)
		if err != nil {
			return nil, err
		}
		args = append(args, atomic)
		allBinds = append(allBinds, binds...)
	}

	result := &core.App{CoreNode: e.makeNode(app.Pos), Func: fn, Args: args}
	return e.wrapWithBindings(result, allBinds), nil
}

// lowerIf builds a dedicated core.If node, the semantic equivalent of
// `match c { true => a | false => b }` the literal lowering calls for
// (§4.5) — kept as its own node rather than an explicit two-arm Match over
// Bool literals since the typechecker's Bool-branching rule is simpler
// stated directly (see the Core AST's If doc comment).
func (e *Elaborator) lowerIf(ifExpr *ast.If) (core.Expr, error) {
	cond, condBinds, err := e.normalizeToAtomic(ifExpr.Cond)
	if err != nil {
		return nil, err
	}
	then, err := e.elaborateExpr(ifExpr.Then)
	if err != nil {
		return nil, err
	}
	elseB, err := e.elaborateExpr(ifExpr.Else)
	if err != nil {
		return nil, err
	}
	result := &core.If{CoreNode: e.makeNode(ifExpr.Pos), Cond: cond, Then: then, Else: elseB}
	return e.wrapWithBindings(result, condBinds), nil
}

func (e *Elaborator) lowerMatch(match *ast.Match) (core.Expr, error) {
	scrutinee, binds, err := e.normalizeToAtomic(match.Scrutinee)
	if err != nil {
		return nil, err
	}
	// A top-level or-pattern arm `p1 | p2 => body` becomes one arm per
	// alternative, each lowering its own copy of the guard and body.
	var expanded []*ast.MatchArm
	for _, a := range match.Arms {
		or, ok := a.Pattern.(*ast.OrPattern)
		if !ok {
			expanded = append(expanded, a)
			continue
		}
		for _, alt := range or.Alts {
			expanded = append(expanded, &ast.MatchArm{Pattern: alt, Guard: a.Guard, Body: a.Body, Pos: a.Pos})
		}
	}
	arms := make([]core.MatchArm, len(expanded))
	for i, a := range expanded {
		pat, err := e.lowerPattern(a.Pattern)
		if err != nil {
			return nil, err
		}
		body, err := e.elaborateExpr(a.Body)
		if err != nil {
			return nil, err
		}
		var guard core.Expr
		if a.Guard != nil {
			guard, err = e.elaborateExpr(a.Guard)
			if err != nil {
				return nil, fmt.Errorf("elaborate: guard: %w", err)
			}
		}
		arms[i] = core.MatchArm{Pattern: pat, Guard: guard, Body: body}
	}
	result := &core.Match{CoreNode: e.makeNode(match.Pos), Scrutinee: scrutinee, Arms: arms, Exhaustive: false}
	return e.wrapWithBindings(result, binds), nil
}

func (e *Elaborator) lowerBlock(block *ast.Block) (core.Expr, error) {
	stmts := make([]core.Expr, len(block.Stmts))
	for i, s := range block.Stmts {
		lowered, err := e.elaborateExpr(s)
		if err != nil {
			return nil, err
		}
		stmts[i] = lowered
	}
	return &core.Block{CoreNode: e.makeNode(block.Pos), Stmts: stmts}, nil
}

// lowerRecord handles both plain record literals and the record-update
// spread form (`{ ...base, f: v }`, §4.5): Spread is kept atomic on the
// Core node and expanded into an explicit field-by-field merge by the
// typechecker once base's record type (and therefore its full field set)
// is known — see core.Record's doc comment.
func (e *Elaborator) lowerRecord(rec *ast.Record) (core.Expr, error) {
	var allBinds []binding
	var spread core.Expr
	if rec.Spread != nil {
		s, binds, err := e.normalizeToAtomic(rec.Spread)
		if err != nil {
			return nil, err
		}
		spread = s
		allBinds = append(allBinds, binds...)
	}

	fields := make(map[string]core.Expr, len(rec.Fields))
	order := make([]string, len(rec.Fields))
	for i, f := range rec.Fields {
		value := f.Value
		if value == nil {
			// shorthand `{ name }` means `{ name: name }` (§4.4).
			value = &ast.Var{Name: f.Name, Pos: f.Pos}
		}
		atomic, binds, err := e.normalizeToAtomic(value)
		if err != nil {
			return nil, err
		}
		fields[f.Name] = atomic
		order[i] = f.Name
		allBinds = append(allBinds, binds...)
	}

	result := &core.Record{CoreNode: e.makeNode(rec.Pos), Fields: fields, Order: order, Spread: spread}
	return e.wrapWithBindings(result, allBinds), nil
}

func (e *Elaborator) lowerList(list *ast.ListLit) (core.Expr, error) {
	var allBinds []binding
	elems := make([]core.Expr, len(list.Elements))
	for i, el := range list.Elements {
		atomic, binds, err := e.normalizeToAtomic(el)
		if err != nil {
			return nil, err
		}
		elems[i] = atomic
		allBinds = append(allBinds, binds...)
	}
	result := &core.List{CoreNode: e.makeNode(list.Pos), Elements: elems}
	return e.wrapWithBindings(result, allBinds), nil
}

// lowerTuple lowers a tuple into a Record keyed by stringified position
// ("0", "1", …): the Core AST has no dedicated tuple node (§3), and an
// index-keyed record gives the typechecker's existing row-polymorphic
// record machinery a structural type for tuples for free.
func (e *Elaborator) lowerTuple(tup *ast.Tuple) (core.Expr, error) {
	var allBinds []binding
	fields := make(map[string]core.Expr, len(tup.Elements))
	order := make([]string, len(tup.Elements))
	for i, el := range tup.Elements {
		atomic, binds, err := e.normalizeToAtomic(el)
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("%d", i)
		fields[name] = atomic
		order[i] = name
		allBinds = append(allBinds, binds...)
	}
	result := &core.Record{CoreNode: e.makeNode(tup.Pos), Fields: fields, Order: order}
	return e.wrapWithBindings(result, allBinds), nil
}

func (e *Elaborator) lowerFieldAccess(fa *ast.FieldAccess) (core.Expr, error) {
	target, binds, err := e.normalizeToAtomic(fa.Target)
	if err != nil {
		return nil, err
	}
	result := &core.RecordAccess{CoreNode: e.makeNode(fa.Pos), Record: target, Field: fa.Field}
	return e.wrapWithBindings(result, binds), nil
}

// lowerBinOp lowers primitive binary operators, including the `::` cons
// operator (into a `Cons` Variant — lists are sugar over the built-in List
// variant type, §4.5/§4.6) and `&` string concatenation (kept as a BinOp
// rather than a generic App so it sits alongside `+`/`-`/etc. in the
// typechecker's primitive-operator table; "builtin-call" per §4.5 names
// the effect, not a literal App node).
func (e *Elaborator) lowerBinOp(b *ast.BinOp) (core.Expr, error) {
	if b.Op == "::" {
		return e.lowerCons(b)
	}
	left, leftBinds, err := e.normalizeToAtomic(b.Left)
	if err != nil {
		return nil, err
	}
	right, rightBinds, err := e.normalizeToAtomic(b.Right)
	if err != nil {
		return nil, err
	}
	result := &core.BinOp{CoreNode: e.makeNode(b.Pos), Op: b.Op, Left: left, Right: right}
	return e.wrapWithBindings(result, append(leftBinds, rightBinds...)), nil
}

func (e *Elaborator) lowerCons(b *ast.BinOp) (core.Expr, error) {
	head, headBinds, err := e.normalizeToAtomic(b.Left)
	if err != nil {
		return nil, err
	}
	tail, tailBinds, err := e.normalizeToAtomic(b.Right)
	if err != nil {
		return nil, err
	}
	result := &core.Variant{CoreNode: e.makeNode(b.Pos), Ctor: "Cons", Args: []core.Expr{head, tail}}
	return e.wrapWithBindings(result, append(headBinds, tailBinds...)), nil
}

func (e *Elaborator) lowerUnaryOp(u *ast.UnaryOp) (core.Expr, error) {
	operand, binds, err := e.normalizeToAtomic(u.Expr)
	if err != nil {
		return nil, err
	}
	result := &core.UnOp{CoreNode: e.makeNode(u.Pos), Op: u.Op, Operand: operand}
	return e.wrapWithBindings(result, binds), nil
}

// lowerPipe implements §4.5's pipe lowering literally: `expr |> f(args)`
// becomes `f(args, expr)` when the right-hand side is already an
// application; otherwise `expr |> f` becomes `f(expr)`.
func (e *Elaborator) lowerPipe(p *ast.Pipe) (core.Expr, error) {
	if app, ok := p.Right.(*ast.App); ok {
		extended := &ast.App{Func: app.Func, Args: append(append([]ast.Expr{}, app.Args...), p.Left), Pos: p.Pos}
		return e.lowerApp(extended)
	}
	wrapped := &ast.App{Func: p.Right, Args: []ast.Expr{p.Left}, Pos: p.Pos}
	return e.lowerApp(wrapped)
}

func (e *Elaborator) lowerRefNew(r *ast.RefLit) (core.Expr, error) {
	value, binds, err := e.normalizeToAtomic(r.Value)
	if err != nil {
		return nil, err
	}
	result := &core.RefOp{CoreNode: e.makeNode(r.Pos), Kind: core.RefNew, Value: value}
	return e.wrapWithBindings(result, binds), nil
}

func (e *Elaborator) lowerRefGet(d *ast.Deref) (core.Expr, error) {
	target, binds, err := e.normalizeToAtomic(d.Target)
	if err != nil {
		return nil, err
	}
	result := &core.RefOp{CoreNode: e.makeNode(d.Pos), Kind: core.RefGet, Target: target}
	return e.wrapWithBindings(result, binds), nil
}

func (e *Elaborator) lowerRefSet(a *ast.Assign) (core.Expr, error) {
	target, targetBinds, err := e.normalizeToAtomic(a.Target)
	if err != nil {
		return nil, err
	}
	value, valueBinds, err := e.normalizeToAtomic(a.Value)
	if err != nil {
		return nil, err
	}
	result := &core.RefOp{CoreNode: e.makeNode(a.Pos), Kind: core.RefSet, Target: target, Value: value}
	return e.wrapWithBindings(result, append(targetBinds, valueBinds...)), nil
}
