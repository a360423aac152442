package types

import (
	"github.com/veil-lang/veil/internal/ast"
	"github.com/veil-lang/veil/internal/errors"
)

// builtins maps the nullary primitive type names to their shared TCon.
var builtins = map[string]*TCon{
	"Int": Int, "Float": Float, "String": Str, "Bool": Bool, "Unit": Unit,
}

// aliasDef is one non-variant `type Name<params> = body` declaration,
// recorded but not yet expanded — expansion happens lazily, per use, so a
// forward reference to an alias declared later in the module still works.
type aliasDef struct {
	Params []string
	Body   ast.TypeExpr
}

// Resolver converts surface TypeExprs to types.Type, inlining alias
// references as it goes and rejecting a self-referential alias chain with
// VF4301 (§4.6: "recursive type aliases are forbidden; recursion requires
// a variant type" — a variant's own fields are resolved without ever
// going through alias expansion, so a recursive variant is unaffected).
type Resolver struct {
	Aliases  map[string]*aliasDef
	Arena    *Arena
	visiting map[string]bool
}

// NewResolver creates a Resolver with no aliases registered yet; callers
// populate Aliases (directly, or via BuildModuleTables) before resolving.
func NewResolver(arena *Arena) *Resolver {
	return &Resolver{Aliases: make(map[string]*aliasDef), Arena: arena}
}

// Resolve converts te into a types.Type. scope binds the names a `type
// T<a, b>` or alias body may reference (its own declared parameters, or an
// alias's substituted arguments) to already-resolved Types; rank is used
// only to mint a fresh row variable for an open record annotation.
func (r *Resolver) Resolve(te ast.TypeExpr, scope map[string]Type, rank int) (Type, error) {
	if r.visiting == nil {
		r.visiting = make(map[string]bool)
	}
	return r.resolve(te, scope, rank)
}

func (r *Resolver) resolve(te ast.TypeExpr, scope map[string]Type, rank int) (Type, error) {
	switch t := te.(type) {
	case *ast.TypeVarExpr:
		if ty, ok := scope[t.Name]; ok {
			return ty, nil
		}
		return nil, errors.Throw("VF4100", t.Pos, map[string]string{"name": t.Name})

	case *ast.TypeConExpr:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			rt, err := r.resolve(a, scope, rank)
			if err != nil {
				return nil, err
			}
			args[i] = rt
		}

		if alias, ok := r.Aliases[t.Name]; ok {
			if r.visiting[t.Name] {
				return nil, errors.Throw("VF4301", t.Pos, map[string]string{"name": t.Name})
			}
			if len(alias.Params) != len(args) {
				return nil, errors.Throw("VF4204", t.Pos, map[string]string{
					"name": t.Name, "expected": itoa(len(alias.Params)), "found": itoa(len(args)),
				})
			}
			childScope := make(map[string]Type, len(alias.Params))
			for i, p := range alias.Params {
				childScope[p] = args[i]
			}
			r.visiting[t.Name] = true
			defer delete(r.visiting, t.Name)
			return r.resolve(alias.Body, childScope, rank)
		}

		if t.Name == "Ref" {
			if len(args) != 1 {
				return nil, errors.Throw("VF4204", t.Pos, map[string]string{
					"name": "Ref", "expected": "1", "found": itoa(len(args)),
				})
			}
			return &TRef{Inner: args[0]}, nil
		}
		if con, ok := builtins[t.Name]; ok {
			if len(args) != 0 {
				return nil, errors.Throw("VF4204", t.Pos, map[string]string{
					"name": t.Name, "expected": "0", "found": itoa(len(args)),
				})
			}
			return con, nil
		}
		con := &TCon{Name: t.Name}
		if len(args) == 0 {
			return con, nil
		}
		return &TApp{Head: con, Args: args}, nil

	case *ast.FunTypeExpr:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			rt, err := r.resolve(p, scope, rank)
			if err != nil {
				return nil, err
			}
			params[i] = rt
		}
		ret, err := r.resolve(t.Ret, scope, rank)
		if err != nil {
			return nil, err
		}
		return &TFun{Params: params, Return: ret}, nil

	case *ast.RecordTypeExpr:
		fields := make(map[string]Type, len(t.Fields))
		for _, f := range t.Fields {
			ft, err := r.resolve(f.Type, scope, rank)
			if err != nil {
				return nil, err
			}
			if _, dup := fields[f.Name]; dup {
				return nil, errors.Throw("VF4502", f.Pos, map[string]string{"name": f.Name})
			}
			fields[f.Name] = ft
		}
		var tail *TVar
		if t.Open {
			tail = r.Arena.FreshRow(rank)
		}
		return &TRecord{Fields: fields, Tail: tail}, nil

	case *ast.TupleTypeExpr:
		elems := make([]Type, len(t.Elements))
		for i, e := range t.Elements {
			et, err := r.resolve(e, scope, rank)
			if err != nil {
				return nil, err
			}
			elems[i] = et
		}
		return &TTuple{Elems: elems}, nil

	case *ast.UnionTypeExpr:
		members := make([]Type, len(t.Members))
		for i, m := range t.Members {
			mt, err := r.resolve(m, scope, rank)
			if err != nil {
				return nil, err
			}
			members[i] = mt
		}
		return &TUnion{Members: members}, nil

	default:
		return nil, errors.Throw("VF4020", te.Position(), map[string]string{
			"expected": "a type expression", "found": "unknown node",
		})
	}
}
