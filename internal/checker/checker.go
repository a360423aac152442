// Package checker implements the Typechecker (C9): Algorithm W with levels
// over the Core AST (§4.6), producing a typedast.TypedProgram.
//
// This lives in its own package rather than inside internal/types because
// internal/typedast's TypedExpr.Type is a concrete types.Type (not the
// interface{} placeholder the teacher's typedast carries) — so a checker
// living inside internal/types that also needs to build typedast.TypedNode
// values would make internal/types import internal/typedast, which already
// imports internal/types back. Carving the Core-traversal part of
// typechecking out to its own package, importing both, avoids the cycle
// without giving up the type safety typedast gained.
package checker

import (
	"fmt"

	"github.com/veil-lang/veil/internal/ast"
	"github.com/veil-lang/veil/internal/core"
	"github.com/veil-lang/veil/internal/elaborate"
	"github.com/veil-lang/veil/internal/errors"
	"github.com/veil-lang/veil/internal/source"
	"github.com/veil-lang/veil/internal/typedast"
	"github.com/veil-lang/veil/internal/types"
)

// Checker holds the mutable state one module's type-checking run threads
// through every inference call: the type-variable arena, the module's
// constructor/FFI tables, the current let-nesting rank, and any warnings
// accumulated along the way (§4.7's collector, consulted by the caller
// after CheckProgram returns).
type Checker struct {
	arena *types.Arena
	ctors *types.ConstructorEnv
	ffi   *types.FFITable
	rank  int

	Warnings []error
}

// CheckProgram type-checks mod's surface declarations (for the constructor
// and FFI tables BuildModuleTables derives from them) against prog, the
// already-desugared Core program built from the same module. Every
// top-level core.Expr in prog.Decls shares one root types.TypeEnv, since
// the desugarer lowers each top-level binding to a self-contained
// Let/LetRec whose body is just a trivial self-reference — nothing in the
// Core tree's own nesting makes one top-level binding visible to the next.
func CheckProgram(mod *ast.Module, prog *core.Program) (*typedast.TypedProgram, []error, error) {
	arena := types.NewArena()
	ctors, ffi, _, err := types.BuildModuleTables(mod, arena)
	if err != nil {
		return nil, nil, err
	}

	c := &Checker{arena: arena, ctors: ctors, ffi: ffi}
	env := types.NewTypeEnv()

	decls := make([]typedast.TypedNode, 0, len(prog.Decls))
	for _, d := range prog.Decls {
		typed, err := c.inferTopLevel(env, d)
		if err != nil {
			return nil, c.Warnings, err
		}
		decls = append(decls, typed)
	}
	return &typedast.TypedProgram{Decls: decls}, c.Warnings, nil
}

// mkExpr builds the TypedExpr embedded in every typed node from the core
// node it was checked from and its resolved type.
func (c *Checker) mkExpr(e core.Expr, t types.Type) typedast.TypedExpr {
	return typedast.TypedExpr{NodeID: e.ID(), Span: e.OriginalSpan(), Type: t, Core: e}
}

// inferTopLevel checks one top-level declaration, binding a Let/LetRec's
// name(s) directly into the shared module env rather than a child frame
// (see CheckProgram's doc comment).
func (c *Checker) inferTopLevel(env *types.TypeEnv, expr core.Expr) (typedast.TypedNode, error) {
	switch e := expr.(type) {
	case *core.Let:
		return c.inferLetInto(env, env, e)
	case *core.LetRec:
		return c.inferLetRecInto(env, env, e)
	default:
		return c.infer(env, expr)
	}
}

func (c *Checker) infer(env *types.TypeEnv, expr core.Expr) (typedast.TypedNode, error) {
	switch e := expr.(type) {
	case *core.Var:
		return c.inferVar(env, e)
	case *core.Lit:
		return c.inferLit(e)
	case *core.Lambda:
		return c.inferLambda(env, e)
	case *core.Let:
		return c.inferLetInto(env, env.Extend(), e)
	case *core.LetRec:
		return c.inferLetRecInto(env, env.Extend(), e)
	case *core.App:
		return c.inferApp(env, e)
	case *core.If:
		return c.inferIf(env, e)
	case *core.Match:
		return c.inferMatch(env, e)
	case *core.BinOp:
		return c.inferBinOp(env, e)
	case *core.UnOp:
		return c.inferUnOp(env, e)
	case *core.Record:
		return c.inferRecord(env, e)
	case *core.RecordAccess:
		return c.inferRecordAccess(env, e)
	case *core.List:
		return c.inferList(env, e)
	case *core.Variant:
		return c.inferVariant(env, e)
	case *core.RefOp:
		return c.inferRefOp(env, e)
	case *core.External:
		return c.inferExternal(env, e)
	case *core.Block:
		return c.inferBlock(env, e)
	default:
		return nil, fmt.Errorf("checker: unhandled core expression %T", expr)
	}
}

func (c *Checker) inferVar(env *types.TypeEnv, e *core.Var) (typedast.TypedNode, error) {
	if scheme, ok := env.Lookup(e.Name); ok {
		t := types.Instantiate(c.arena, c.rank, scheme)
		return typedast.TypedVar{TypedExpr: c.mkExpr(e, t), Name: e.Name}, nil
	}

	overloads, ok := c.ffi.Lookup(e.Name)
	if !ok {
		// not a bound variable, not an external: the only other thing a bare
		// name can refer to is a nullary variant constructor (e.g. `None`).
		// A non-nullary constructor used bare (no call) has no argument
		// list to instantiate its fields against, so it is rejected the
		// same way an arity-mismatched call would be.
		if info, isCtor := c.ctors.Lookup(e.Name); isCtor {
			if len(info.ArgTypes) != 0 {
				return nil, errors.Throw("VF4200", e.OriginalSpan(), map[string]string{
					"name": e.Name, "expected": itoa(len(info.ArgTypes)), "found": "0",
				})
			}
			_, result := types.InstantiateConstructor(c.arena, c.rank, info)
			return typedast.TypedVariant{TypedExpr: c.mkExpr(e, result), Ctor: e.Name, Args: nil}, nil
		}
		return nil, errors.Throw("VF4100", e.OriginalSpan(), map[string]string{"name": e.Name})
	}
	if len(overloads) > 1 {
		// a bare reference to an overloaded external can't pick a candidate
		// without argument types to resolve against — App short-circuits
		// this case before ever calling inferVar on the callee.
		return nil, errors.Throw("VF4804", e.OriginalSpan(), map[string]string{"name": e.Name})
	}
	t := types.Instantiate(c.arena, c.rank, overloads[0].Scheme)
	return typedast.TypedExternal{TypedExpr: c.mkExpr(e, t), Name: e.Name, JSName: overloads[0].JSName}, nil
}

func (c *Checker) inferLit(e *core.Lit) (typedast.TypedNode, error) {
	var t types.Type
	switch e.Kind {
	case core.IntLit:
		t = types.Int
	case core.FloatLit:
		t = types.Float
	case core.StringLit:
		t = types.Str
	case core.BoolLit:
		t = types.Bool
	default:
		t = types.Unit
	}
	return typedast.TypedLit{TypedExpr: c.mkExpr(e, t), Kind: e.Kind, Value: e.Value}, nil
}

// inferLambda gives each parameter a fresh type variable — the Core AST
// carries no surface annotation for a lambda's parameters (the elaborator
// drops ast.Param.Annot when lowering, see DESIGN.md), so a parameter's
// type is always fully inferred from how it's used in Body, never
// constrained up front by a declared type.
func (c *Checker) inferLambda(env *types.TypeEnv, e *core.Lambda) (typedast.TypedNode, error) {
	child := env.Extend()
	paramTypes := make([]types.Type, len(e.Params))
	for i, p := range e.Params {
		tv := c.arena.Fresh(c.rank)
		paramTypes[i] = tv
		child.Bind(p, &types.Scheme{Type: tv})
	}
	body, err := c.infer(child, e.Body)
	if err != nil {
		return nil, err
	}
	fn := &types.TFun{Params: paramTypes, Return: body.GetType()}
	return typedast.TypedLambda{TypedExpr: c.mkExpr(e, fn), Params: e.Params, ParamTypes: paramTypes, Body: body}, nil
}

func (c *Checker) inferLetInto(env, bindEnv *types.TypeEnv, e *core.Let) (typedast.TypedNode, error) {
	if bindEnv.DeclaredHere(e.Name) {
		return nil, errors.Throw("VF5102", e.OriginalSpan(), map[string]string{"name": e.Name})
	}

	L := c.rank
	c.rank++
	value, err := c.infer(env, e.Value)
	c.rank = L
	if err != nil {
		return nil, err
	}

	scheme, err := c.generalizeBinding(e.Name, e.Value, value.GetType(), L, e.OriginalSpan())
	if err != nil {
		return nil, err
	}
	bindEnv.Bind(e.Name, scheme)

	body, err := c.infer(bindEnv, e.Body)
	if err != nil {
		return nil, err
	}
	return typedast.TypedLet{
		TypedExpr: c.mkExpr(e, body.GetType()),
		Name:      e.Name, Scheme: scheme, Value: value, Body: body,
	}, nil
}

func (c *Checker) inferLetRecInto(env, bindEnv *types.TypeEnv, e *core.LetRec) (typedast.TypedNode, error) {
	L := c.rank
	c.rank++

	placeholders := make([]*types.TVar, len(e.Bindings))
	for i, b := range e.Bindings {
		if bindEnv.DeclaredHere(b.Name) {
			c.rank = L
			return nil, errors.Throw("VF5102", e.OriginalSpan(), map[string]string{"name": b.Name})
		}
		tv := c.arena.Fresh(c.rank)
		placeholders[i] = tv
		bindEnv.Bind(b.Name, &types.Scheme{Type: tv})
	}

	typedValues := make([]typedast.TypedNode, len(e.Bindings))
	for i, b := range e.Bindings {
		v, err := c.infer(bindEnv, b.Value)
		if err != nil {
			c.rank = L
			return nil, err
		}
		if err := types.Unify(b.Value.OriginalSpan(), placeholders[i], v.GetType()); err != nil {
			c.rank = L
			return nil, err
		}
		typedValues[i] = v
	}
	c.rank = L

	bindings := make([]typedast.TypedRecBinding, len(e.Bindings))
	for i, b := range e.Bindings {
		scheme, err := c.generalizeBinding(b.Name, b.Value, placeholders[i], L, e.OriginalSpan())
		if err != nil {
			return nil, err
		}
		bindEnv.Bind(b.Name, scheme)
		bindings[i] = typedast.TypedRecBinding{Name: b.Name, Scheme: scheme, Value: typedValues[i]}
	}

	body, err := c.infer(bindEnv, e.Body)
	if err != nil {
		return nil, err
	}
	return typedast.TypedLetRec{TypedExpr: c.mkExpr(e, body.GetType()), Bindings: bindings, Body: body}, nil
}

// generalizeBinding closes t over rank L's free variables, unless the
// binding introduced no such variable (in which case there's nothing to
// restrict) or name's right-hand side fails the syntactic-value
// restriction (§4.6, VF4700) — a lambda, literal, variable, or constructor
// application of values may be generalized; anything else is bound
// monomorphically when it introduces no escaping variable, and rejected
// when it would otherwise need to be.
func (c *Checker) generalizeBinding(name string, value core.Expr, t types.Type, L int, pos source.Pos) (*types.Scheme, error) {
	escapes := false
	for _, tv := range types.FreeTypeVars(t) {
		if tv.Rank > L {
			escapes = true
			break
		}
	}
	if !escapes {
		return &types.Scheme{Type: t}, nil
	}
	if !c.isSyntacticValue(value) {
		return nil, errors.Throw("VF4700", pos, map[string]string{"name": name})
	}
	return types.Generalize(L, t), nil
}

func (c *Checker) isSyntacticValue(e core.Expr) bool {
	switch v := e.(type) {
	case *core.Var, *core.Lit, *core.Lambda, *core.External:
		return true
	case *core.Variant:
		for _, a := range v.Args {
			if !c.isSyntacticValue(a) {
				return false
			}
		}
		return true
	case *core.App:
		// `Ctor(args)` lowers to an App over a Var naming the constructor.
		fn, isVar := v.Func.(*core.Var)
		if !isVar {
			return false
		}
		if _, isCtor := c.ctors.Lookup(fn.Name); !isCtor {
			return false
		}
		for _, a := range v.Args {
			if !c.isSyntacticValue(a) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// inferApp handles ordinary application, the FFI overload-resolution case
// (§4.6: a bare Var naming a multi-overload external is resolved by
// trial-unifying each candidate's scheme against the call's argument types,
// in declaration order, rather than going through inferVar/inferLambda's
// ordinary single-scheme instantiation), and variant construction: the
// desugarer never turns `Ctor(args)` surface syntax into a core.Variant (it
// only ever builds one for `::` cons sugar — everything else stays a plain
// core.App over a core.Var naming the constructor), so a bare Var naming a
// known constructor is resolved here the same way the FFI case is.
func (c *Checker) inferApp(env *types.TypeEnv, e *core.App) (typedast.TypedNode, error) {
	if v, isVar := e.Func.(*core.Var); isVar {
		if _, inEnv := env.Lookup(v.Name); !inEnv {
			if overloads, isFFI := c.ffi.Lookup(v.Name); isFFI && len(overloads) > 1 {
				return c.inferOverloadedApp(env, e, v, overloads)
			}
			if _, isCtor := c.ctors.Lookup(v.Name); isCtor {
				args, spans, err := c.inferArgs(env, e.Args)
				if err != nil {
					return nil, err
				}
				return c.applyConstructor(e, v.Name, args, spans)
			}
		}
	}

	fn, err := c.infer(env, e.Func)
	if err != nil {
		return nil, err
	}
	args, _, err := c.inferArgs(env, e.Args)
	if err != nil {
		return nil, err
	}
	return c.applyFunction(e, fn, args)
}

func (c *Checker) inferArgs(env *types.TypeEnv, exprs []core.Expr) ([]typedast.TypedNode, []source.Pos, error) {
	args := make([]typedast.TypedNode, len(exprs))
	spans := make([]source.Pos, len(exprs))
	for i, a := range exprs {
		ta, err := c.infer(env, a)
		if err != nil {
			return nil, nil, err
		}
		args[i] = ta
		spans[i] = a.OriginalSpan()
	}
	return args, spans, nil
}

// applyConstructor type-checks a fully-applied variant constructor
// (VF4102 unknown name, VF4200 arity), shared between constructor calls
// lowered as core.App (see inferApp's doc comment) and core.Variant nodes
// the desugarer does build directly (inferVariant).
func (c *Checker) applyConstructor(e core.Expr, name string, args []typedast.TypedNode, argSpans []source.Pos) (typedast.TypedNode, error) {
	info, ok := c.ctors.Lookup(name)
	if !ok {
		return nil, errors.Throw("VF4102", e.OriginalSpan(), map[string]string{"name": name})
	}
	if len(info.ArgTypes) != len(args) {
		return nil, errors.Throw("VF4200", e.OriginalSpan(), map[string]string{
			"name": name, "expected": itoa(len(info.ArgTypes)), "found": itoa(len(args)),
		})
	}
	argTypes, result := types.InstantiateConstructor(c.arena, c.rank, info)
	for i, a := range args {
		if err := types.Unify(argSpans[i], argTypes[i], a.GetType()); err != nil {
			return nil, err
		}
	}
	return typedast.TypedVariant{TypedExpr: c.mkExpr(e, result), Ctor: name, Args: args}, nil
}

func (c *Checker) applyFunction(e *core.App, fn typedast.TypedNode, args []typedast.TypedNode) (typedast.TypedNode, error) {
	fnType := types.Prune(fn.GetType())
	switch ft := fnType.(type) {
	case *types.TFun:
		if len(ft.Params) != len(args) {
			return nil, errors.Throw("VF4202", e.OriginalSpan(), map[string]string{
				"expected": itoa(len(ft.Params)), "found": itoa(len(args)),
			})
		}
		for i, a := range args {
			expected, found := ft.Params[i].String(), a.GetType().String()
			if err := types.Unify(e.Args[i].OriginalSpan(), ft.Params[i], a.GetType()); err != nil {
				return nil, errors.Throw("VF4002", e.Args[i].OriginalSpan(), map[string]string{
					"expected": expected, "found": found,
				})
			}
		}
		return typedast.TypedApp{TypedExpr: c.mkExpr(e, ft.Return), Func: fn, Args: args}, nil

	case *types.TVar:
		argTypes := make([]types.Type, len(args))
		for i, a := range args {
			argTypes[i] = a.GetType()
		}
		ret := c.arena.Fresh(c.rank)
		if err := types.Unify(e.OriginalSpan(), fnType, &types.TFun{Params: argTypes, Return: ret}); err != nil {
			return nil, err
		}
		return typedast.TypedApp{TypedExpr: c.mkExpr(e, ret), Func: fn, Args: args}, nil

	default:
		return nil, errors.Throw("VF4013", e.Func.OriginalSpan(), map[string]string{"found": fnType.String()})
	}
}

func (c *Checker) inferOverloadedApp(env *types.TypeEnv, e *core.App, v *core.Var, overloads []*types.FFIOverload) (typedast.TypedNode, error) {
	args := make([]typedast.TypedNode, len(e.Args))
	argTypes := make([]types.Type, len(e.Args))
	for i, a := range e.Args {
		ta, err := c.infer(env, a)
		if err != nil {
			return nil, err
		}
		args[i] = ta
		argTypes[i] = ta.GetType()
	}

	var matched *types.FFIOverload
	var matchedRet types.Type
	matches := 0
	for _, o := range overloads {
		inst := types.Instantiate(c.arena, c.rank, o.Scheme)
		ft, ok := inst.(*types.TFun)
		if !ok || len(ft.Params) != len(argTypes) {
			continue
		}
		want := &types.TFun{Params: argTypes, Return: c.arena.Fresh(c.rank)}
		if !types.TryUnify(e.OriginalSpan(), ft, want) {
			continue
		}
		matches++
		matched = o
		matchedRet = want.Return
	}

	if matches == 0 {
		return nil, errors.Throw("VF4201", e.OriginalSpan(), map[string]string{"name": v.Name})
	}
	if matches > 1 {
		return nil, errors.Throw("VF4205", e.OriginalSpan(), map[string]string{"name": v.Name, "found": itoa(matches)})
	}

	fnType := types.Instantiate(c.arena, c.rank, matched.Scheme)
	fn := typedast.TypedExternal{TypedExpr: c.mkExpr(v, fnType), Name: v.Name, JSName: matched.JSName}
	return typedast.TypedApp{TypedExpr: c.mkExpr(e, matchedRet), Func: fn, Args: args}, nil
}

// inferIf reuses VF4011 (stated in terms of a match guard) for Cond's
// Bool requirement, since If is itself sugar for a two-arm Bool match
// (core.If's own doc comment) — the same rule applies to both forms.
func (c *Checker) inferIf(env *types.TypeEnv, e *core.If) (typedast.TypedNode, error) {
	cond, err := c.infer(env, e.Cond)
	if err != nil {
		return nil, err
	}
	if err := types.Unify(e.Cond.OriginalSpan(), types.Bool, cond.GetType()); err != nil {
		return nil, errors.Throw("VF4011", e.Cond.OriginalSpan(), map[string]string{"found": cond.GetType().String()})
	}

	thenT, err := c.infer(env, e.Then)
	if err != nil {
		return nil, err
	}
	elseT, err := c.infer(env, e.Else)
	if err != nil {
		return nil, err
	}
	if err := types.Unify(e.OriginalSpan(), thenT.GetType(), elseT.GetType()); err != nil {
		return nil, errors.Throw("VF4004", e.OriginalSpan(), map[string]string{
			"expected": thenT.GetType().String(), "found": elseT.GetType().String(),
		})
	}
	return typedast.TypedIf{TypedExpr: c.mkExpr(e, thenT.GetType()), Cond: cond, Then: thenT, Else: elseT}, nil
}

func (c *Checker) inferBinOp(env *types.TypeEnv, e *core.BinOp) (typedast.TypedNode, error) {
	left, err := c.infer(env, e.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.infer(env, e.Right)
	if err != nil {
		return nil, err
	}

	var result types.Type
	switch e.Op {
	case "+", "-", "*", "/", "%", "<<", ">>":
		if err := types.Unify(e.OriginalSpan(), left.GetType(), right.GetType()); err != nil {
			return nil, err
		}
		result = types.Prune(left.GetType())
	case "&":
		if err := types.Unify(e.Left.OriginalSpan(), types.Str, left.GetType()); err != nil {
			return nil, err
		}
		if err := types.Unify(e.Right.OriginalSpan(), types.Str, right.GetType()); err != nil {
			return nil, err
		}
		result = types.Str
	case "==", "!=", "<", ">", "<=", ">=":
		if err := types.Unify(e.OriginalSpan(), left.GetType(), right.GetType()); err != nil {
			return nil, err
		}
		result = types.Bool
	case "&&", "||":
		if err := types.Unify(e.Left.OriginalSpan(), types.Bool, left.GetType()); err != nil {
			return nil, err
		}
		if err := types.Unify(e.Right.OriginalSpan(), types.Bool, right.GetType()); err != nil {
			return nil, err
		}
		result = types.Bool
	default:
		result = left.GetType()
	}
	return typedast.TypedBinOp{TypedExpr: c.mkExpr(e, result), Op: e.Op, Left: left, Right: right}, nil
}

func (c *Checker) inferUnOp(env *types.TypeEnv, e *core.UnOp) (typedast.TypedNode, error) {
	operand, err := c.infer(env, e.Operand)
	if err != nil {
		return nil, err
	}
	return typedast.TypedUnOp{TypedExpr: c.mkExpr(e, operand.GetType()), Op: e.Op, Operand: operand}, nil
}

func (c *Checker) inferRecord(env *types.TypeEnv, e *core.Record) (typedast.TypedNode, error) {
	fields := make(map[string]typedast.TypedNode, len(e.Order))
	ftypes := make(map[string]types.Type, len(e.Order))
	for _, name := range e.Order {
		v, err := c.infer(env, e.Fields[name])
		if err != nil {
			return nil, err
		}
		fields[name] = v
		ftypes[name] = v.GetType()
	}

	if e.Spread != nil {
		base, err := c.infer(env, e.Spread)
		if err != nil {
			return nil, err
		}
		baseType, ok := types.Prune(base.GetType()).(*types.TRecord)
		if !ok {
			return nil, errors.Throw("VF4020", e.Spread.OriginalSpan(), map[string]string{
				"expected": "a record", "found": base.GetType().String(),
			})
		}
		for name, ft := range baseType.Fields {
			if _, overridden := ftypes[name]; !overridden {
				ftypes[name] = ft
			}
		}
	}

	return typedast.TypedRecord{
		TypedExpr: c.mkExpr(e, &types.TRecord{Fields: ftypes}),
		Fields:    fields, Order: e.Order,
	}, nil
}

func (c *Checker) inferRecordAccess(env *types.TypeEnv, e *core.RecordAccess) (typedast.TypedNode, error) {
	rec, err := c.infer(env, e.Record)
	if err != nil {
		return nil, err
	}

	fieldType := c.arena.Fresh(c.rank)
	tail := c.arena.FreshRow(c.rank)
	want := &types.TRecord{Fields: map[string]types.Type{e.Field: fieldType}, Tail: tail}
	if err := types.Unify(e.OriginalSpan(), rec.GetType(), want); err != nil {
		return nil, errors.Throw("VF4103", e.OriginalSpan(), map[string]string{
			"name": e.Field, "type": rec.GetType().String(),
		})
	}
	return typedast.TypedRecordAccess{TypedExpr: c.mkExpr(e, fieldType), Record: rec, Field: e.Field}, nil
}

func (c *Checker) inferList(env *types.TypeEnv, e *core.List) (typedast.TypedNode, error) {
	elem := c.arena.Fresh(c.rank)
	elems := make([]typedast.TypedNode, len(e.Elements))
	for i, el := range e.Elements {
		te, err := c.infer(env, el)
		if err != nil {
			return nil, err
		}
		if err := types.Unify(el.OriginalSpan(), elem, te.GetType()); err != nil {
			return nil, err
		}
		elems[i] = te
	}
	listType := &types.TApp{Head: &types.TCon{Name: "List"}, Args: []types.Type{elem}}
	return typedast.TypedList{TypedExpr: c.mkExpr(e, listType), Elements: elems}, nil
}

func (c *Checker) inferVariant(env *types.TypeEnv, e *core.Variant) (typedast.TypedNode, error) {
	args, spans, err := c.inferArgs(env, e.Args)
	if err != nil {
		return nil, err
	}
	return c.applyConstructor(e, e.Ctor, args, spans)
}

func (c *Checker) inferRefOp(env *types.TypeEnv, e *core.RefOp) (typedast.TypedNode, error) {
	switch e.Kind {
	case core.RefNew:
		val, err := c.infer(env, e.Value)
		if err != nil {
			return nil, err
		}
		return typedast.TypedRefOp{
			TypedExpr: c.mkExpr(e, &types.TRef{Inner: val.GetType()}),
			Kind:      core.RefNew, Value: val,
		}, nil

	case core.RefGet:
		target, err := c.infer(env, e.Target)
		if err != nil {
			return nil, err
		}
		inner := c.arena.Fresh(c.rank)
		if err := types.Unify(e.OriginalSpan(), target.GetType(), &types.TRef{Inner: inner}); err != nil {
			return nil, errors.Throw("VF4015", e.OriginalSpan(), map[string]string{"found": target.GetType().String()})
		}
		return typedast.TypedRefOp{TypedExpr: c.mkExpr(e, inner), Kind: core.RefGet, Target: target}, nil

	default: // RefSet
		target, err := c.infer(env, e.Target)
		if err != nil {
			return nil, err
		}
		value, err := c.infer(env, e.Value)
		if err != nil {
			return nil, err
		}
		if err := types.Unify(e.OriginalSpan(), target.GetType(), &types.TRef{Inner: value.GetType()}); err != nil {
			expected := target.GetType().String()
			if ref, isRef := types.Prune(target.GetType()).(*types.TRef); isRef {
				expected = ref.Inner.String()
			}
			return nil, errors.Throw("VF4016", e.OriginalSpan(), map[string]string{
				"expected": expected, "found": value.GetType().String(),
			})
		}
		return typedast.TypedRefOp{
			TypedExpr: c.mkExpr(e, types.Unit),
			Kind:      core.RefSet, Target: target, Value: value,
		}, nil
	}
}

func (c *Checker) inferExternal(env *types.TypeEnv, e *core.External) (typedast.TypedNode, error) {
	overloads, ok := c.ffi.Lookup(e.Name)
	if !ok {
		return nil, errors.Throw("VF4100", e.OriginalSpan(), map[string]string{"name": e.Name})
	}
	if len(overloads) > 1 {
		return nil, errors.Throw("VF4804", e.OriginalSpan(), map[string]string{"name": e.Name})
	}
	t := types.Instantiate(c.arena, c.rank, overloads[0].Scheme)
	return typedast.TypedExternal{TypedExpr: c.mkExpr(e, t), Name: e.Name, JSName: overloads[0].JSName}, nil
}

func (c *Checker) inferBlock(env *types.TypeEnv, e *core.Block) (typedast.TypedNode, error) {
	stmts := make([]typedast.TypedNode, len(e.Stmts))
	var last types.Type = types.Unit
	for i, s := range e.Stmts {
		ts, err := c.infer(env, s)
		if err != nil {
			return nil, err
		}
		stmts[i] = ts
		last = ts.GetType()
	}
	return typedast.TypedBlock{TypedExpr: c.mkExpr(e, last), Stmts: stmts}, nil
}

// CheckExhaustiveness exposes elaborate.CheckExhaustiveness for callers
// (and tests) that want to re-run it directly against a resolved
// constructor set without going through inferMatch.
func CheckExhaustiveness(arms []core.MatchArm, ctors elaborate.ConstructorSet) (bool, []string) {
	return elaborate.CheckExhaustiveness(arms, ctors)
}

func itoa(n int) string { return fmt.Sprintf("%d", n) }
