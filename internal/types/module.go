package types

import (
	"github.com/veil-lang/veil/internal/ast"
	"github.com/veil-lang/veil/internal/errors"
)

// BuildModuleTables scans mod's top-level declarations and produces the
// ConstructorEnv and FFITable the rest of the typechecker consults —
// equivalently, it is the part of §4.6 that happens before any
// expression is actually checked: "each `type T = Ctor(…) | …` registers
// constructors globally in the current module scope", and the same for
// `external` overloads.
func BuildModuleTables(mod *ast.Module, arena *Arena) (*ConstructorEnv, *FFITable, *Resolver, error) {
	resolver := NewResolver(arena)
	ctors := NewConstructorEnv()
	ffi := NewFFITable()

	registerListType(ctors, arena)

	// First pass: record every alias's shape so a forward reference from
	// one type declaration to a later one still resolves.
	for _, decl := range mod.Declarations {
		td, ok := decl.(*ast.TypeDecl)
		if !ok || td.Variants != nil {
			continue
		}
		resolver.Aliases[td.Name] = &aliasDef{Params: td.Params, Body: td.Body}
	}

	for _, decl := range mod.Declarations {
		switch d := decl.(type) {
		case *ast.TypeDecl:
			if d.Variants == nil {
				continue // alias, already recorded above
			}
			if err := registerVariantType(ctors, resolver, d); err != nil {
				return nil, nil, nil, err
			}
		case *ast.ExternalDecl:
			if err := registerExternal(ffi, resolver, d); err != nil {
				return nil, nil, nil, err
			}
		}
	}

	return ctors, ffi, resolver, nil
}

// registerListType pre-registers the built-in List<a> variant (`Nil`,
// `Cons(a, List<a>)`) that list-literal and cons-pattern sugar lowers to
// (§4.5's `core.Variant{Ctor: "Cons"|"Nil"}` and `core.ListPattern`
// desugaring, neither of which goes through a `type` declaration of its
// own since the surface language never spells List's constructors out).
func registerListType(ctors *ConstructorEnv, arena *Arena) {
	elem := arena.Fresh(0)
	elem.State = Generalized
	elem.Index = 0
	listOf := &TApp{Head: &TCon{Name: "List"}, Args: []Type{elem}}
	ctors.Register("List", []*TVar{elem}, "Nil", nil)
	ctors.Register("List", []*TVar{elem}, "Cons", []Type{elem, listOf})
}

func registerVariantType(ctors *ConstructorEnv, resolver *Resolver, d *ast.TypeDecl) error {
	params := make([]*TVar, len(d.Params))
	scope := make(map[string]Type, len(d.Params))
	for i, name := range d.Params {
		tv := resolver.Arena.Fresh(0)
		tv.State = Generalized
		tv.Index = i
		params[i] = tv
		scope[name] = tv
	}

	seen := make(map[string]bool, len(d.Variants))
	for _, alt := range d.Variants {
		if seen[alt.Name] {
			return errors.Throw("VF4602", alt.Pos, map[string]string{"name": alt.Name})
		}
		seen[alt.Name] = true

		argTypes := make([]Type, len(alt.Fields))
		for i, f := range alt.Fields {
			ft, err := resolver.Resolve(f, scope, 0)
			if err != nil {
				return err
			}
			argTypes[i] = ft
		}
		ctors.Register(d.Name, params, alt.Name, argTypes)
	}
	return nil
}

func registerExternal(ffi *FFITable, resolver *Resolver, d *ast.ExternalDecl) error {
	scheme, err := resolver.Resolve(d.Scheme, map[string]Type{}, 0)
	if err != nil {
		return err
	}
	_, isFunc := scheme.(*TFun)

	if existing, hasExisting := ffi.Lookup(d.Name); hasExisting {
		first := existing[0]
		if _, firstIsFunc := first.Scheme.Type.(*TFun); !firstIsFunc || !isFunc {
			return errors.Throw("VF4803", d.Pos, map[string]string{"name": d.Name})
		}
		if first.JSName != d.JSName {
			return errors.Throw("VF4801", d.Pos, map[string]string{"name": d.Name})
		}
		if first.ImportPath != d.ImportPath {
			return errors.Throw("VF4802", d.Pos, map[string]string{"name": d.Name})
		}
	}

	vars := FreeTypeVars(scheme)
	for i, v := range vars {
		v.State = Generalized
		v.Index = i
	}
	ffi.Add(d.Name, &FFIOverload{
		Scheme:     &Scheme{Vars: vars, Type: scheme},
		JSName:     d.JSName,
		ImportPath: d.ImportPath,
	})
	return nil
}
