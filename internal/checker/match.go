package checker

import (
	"fmt"

	"github.com/veil-lang/veil/internal/core"
	"github.com/veil-lang/veil/internal/elaborate"
	"github.com/veil-lang/veil/internal/errors"
	"github.com/veil-lang/veil/internal/source"
	"github.com/veil-lang/veil/internal/typedast"
	"github.com/veil-lang/veil/internal/types"
)

// inferMatch checks a scrutinee, then each arm's pattern (binding names at
// the current rank), optional Bool guard, and body, unifying every body to
// a common result type (VF4004). Exhaustiveness is delegated to
// elaborate.CheckExhaustiveness against a ConstructorSet built from the
// scrutinee's resolved nominal type, since the desugarer leaves a surface
// match's Match.Exhaustive false — only the typechecker has resolved enough
// to know the real alternative set (VF4400, VF4900).
func (c *Checker) inferMatch(env *types.TypeEnv, e *core.Match) (typedast.TypedNode, error) {
	scrut, err := c.infer(env, e.Scrutinee)
	if err != nil {
		return nil, err
	}
	scrutType := scrut.GetType()

	seenCatchAll := false
	seenCtors := make(map[string]bool, len(e.Arms))

	var resultType types.Type
	typedArms := make([]typedast.TypedMatchArm, len(e.Arms))
	for i, arm := range e.Arms {
		if arm.Guard == nil {
			switch {
			case seenCatchAll:
				c.warnUnreachable(arm.Body.OriginalSpan())
			case isCatchAllPattern(arm.Pattern):
				seenCatchAll = true
			default:
				if cp, ok := arm.Pattern.(*core.ConstructorPattern); ok {
					if seenCtors[cp.Name] {
						c.warnUnreachable(arm.Body.OriginalSpan())
					}
					seenCtors[cp.Name] = true
				}
			}
		}

		armEnv := env.Extend()
		bound := make(map[string]bool)
		pat, err := c.checkPattern(armEnv, arm.Pattern, scrutType, bound, e.OriginalSpan())
		if err != nil {
			return nil, err
		}

		var guard typedast.TypedNode
		if arm.Guard != nil {
			guard, err = c.infer(armEnv, arm.Guard)
			if err != nil {
				return nil, err
			}
			if err := types.Unify(arm.Guard.OriginalSpan(), types.Bool, guard.GetType()); err != nil {
				return nil, errors.Throw("VF4011", arm.Guard.OriginalSpan(), map[string]string{"found": guard.GetType().String()})
			}
		}

		body, err := c.infer(armEnv, arm.Body)
		if err != nil {
			return nil, err
		}
		if resultType == nil {
			resultType = body.GetType()
		} else if err := types.Unify(arm.Body.OriginalSpan(), resultType, body.GetType()); err != nil {
			return nil, errors.Throw("VF4004", arm.Body.OriginalSpan(), map[string]string{
				"expected": resultType.String(), "found": body.GetType().String(),
			})
		}

		typedArms[i] = typedast.TypedMatchArm{Pattern: pat, Guard: guard, Body: body}
	}
	if resultType == nil {
		resultType = types.Unit
	}

	ctorSet := c.constructorSetFor(scrutType)
	exhaustive, missing := elaborate.CheckExhaustiveness(e.Arms, ctorSet)
	if !exhaustive {
		return nil, errors.Throw("VF4400", e.OriginalSpan(), map[string]string{"missing": joinNames(missing)})
	}

	return typedast.TypedMatch{
		TypedExpr: c.mkExpr(e, resultType), Scrutinee: scrut, Arms: typedArms, Exhaustive: exhaustive,
	}, nil
}

// constructorSetFor resolves a scrutinee's pruned type to the
// elaborate.ConstructorSet CheckExhaustiveness needs. An unresolved type
// variable, or a primitive (Int/Float/String), yields nil — an infinite
// type only a wildcard/variable arm can cover exhaustively.
func (c *Checker) constructorSetFor(t types.Type) elaborate.ConstructorSet {
	switch pt := types.Prune(t).(type) {
	case *types.TCon:
		if pt.Name == "Bool" {
			return elaborate.BoolConstructors
		}
		return c.ctorSetForName(pt.Name)
	case *types.TApp:
		if head, ok := pt.Head.(*types.TCon); ok {
			return c.ctorSetForName(head.Name)
		}
	}
	return nil
}

func (c *Checker) ctorSetForName(name string) elaborate.ConstructorSet {
	names := c.ctors.ConstructorsOf(name)
	if len(names) == 0 {
		return nil
	}
	set := make(elaborate.ConstructorSet, len(names))
	for _, n := range names {
		info, _ := c.ctors.Lookup(n)
		set[n] = len(info.ArgTypes)
	}
	return set
}

// checkPattern type-checks one pattern against scrutType, binding its
// variables into env and recording them in bound (VF4402: the same name
// bound twice within one pattern). pos stands in for the pattern's own
// position, since core.Pattern carries no span of its own — the enclosing
// Match's position is close enough for a diagnostic to be actionable.
func (c *Checker) checkPattern(env *types.TypeEnv, pat core.Pattern, scrutType types.Type, bound map[string]bool, pos source.Pos) (typedast.TypedPattern, error) {
	switch p := pat.(type) {
	case *core.VarPattern:
		if bound[p.Name] {
			return nil, errors.Throw("VF4402", pos, map[string]string{"name": p.Name})
		}
		bound[p.Name] = true
		env.Bind(p.Name, &types.Scheme{Type: scrutType})
		return typedast.TypedVarPattern{Name: p.Name, Type: scrutType}, nil

	case *core.WildcardPattern:
		return typedast.TypedWildcardPattern{Type: scrutType}, nil

	case *core.LitPattern:
		lt := literalValueType(p.Value)
		if err := types.Unify(pos, scrutType, lt); err != nil {
			return nil, err
		}
		return typedast.TypedLitPattern{Value: p.Value, Type: lt}, nil

	case *core.ConstructorPattern:
		info, ok := c.ctors.Lookup(p.Name)
		if !ok {
			return nil, errors.Throw("VF4102", pos, map[string]string{"name": p.Name})
		}
		if len(info.ArgTypes) != len(p.Args) {
			return nil, errors.Throw("VF4200", pos, map[string]string{
				"name": p.Name, "expected": itoa(len(info.ArgTypes)), "found": itoa(len(p.Args)),
			})
		}
		argTypes, result := types.InstantiateConstructor(c.arena, c.rank, info)
		if err := types.Unify(pos, scrutType, result); err != nil {
			return nil, err
		}
		args := make([]typedast.TypedPattern, len(p.Args))
		for i, sub := range p.Args {
			ap, err := c.checkPattern(env, sub, argTypes[i], bound, pos)
			if err != nil {
				return nil, err
			}
			args[i] = ap
		}
		return typedast.TypedConstructorPattern{Name: p.Name, Args: args, Type: scrutType}, nil

	case *core.RecordPattern:
		elemFields := make(map[string]types.Type, len(p.Fields))
		for _, name := range p.Order {
			elemFields[name] = c.arena.Fresh(c.rank)
		}
		var tail *types.TVar
		if p.Open {
			tail = c.arena.FreshRow(c.rank)
		}
		if err := types.Unify(pos, scrutType, &types.TRecord{Fields: elemFields, Tail: tail}); err != nil {
			return nil, err
		}
		fields := make(map[string]typedast.TypedPattern, len(p.Fields))
		for _, name := range p.Order {
			fp, err := c.checkPattern(env, p.Fields[name], elemFields[name], bound, pos)
			if err != nil {
				return nil, err
			}
			fields[name] = fp
		}
		return typedast.TypedRecordPattern{Fields: fields, Order: p.Order, Open: p.Open, Type: scrutType}, nil

	case *core.ListPattern:
		// the desugarer always lowers list patterns into ConstructorPattern
		// chains over Nil/Cons (§4.5); core.ListPattern exists only so
		// core.Pattern's sum is complete, and is never actually produced.
		return nil, fmt.Errorf("checker: core.ListPattern is never produced by this front end's desugarer")

	default:
		return nil, fmt.Errorf("checker: unhandled core pattern %T", pat)
	}
}

// isCatchAllPattern reports whether pat matches any value of its type —
// a wildcard or a bare variable binding, mirroring
// elaborate.CheckExhaustiveness's own notion of catch-all.
func isCatchAllPattern(pat core.Pattern) bool {
	switch pat.(type) {
	case *core.WildcardPattern, *core.VarPattern:
		return true
	default:
		return false
	}
}

// warnUnreachable records a VF4900 at pos. It never fails: VF4900 is
// registered with no template variables, so errors.Create cannot error here.
func (c *Checker) warnUnreachable(pos source.Pos) {
	if diag, err := errors.Create("VF4900", pos, nil); err == nil {
		c.Warnings = append(c.Warnings, diag)
	}
}

func literalValueType(v interface{}) types.Type {
	switch v.(type) {
	case int64, int:
		return types.Int
	case float64:
		return types.Float
	case string:
		return types.Str
	case bool:
		return types.Bool
	default:
		return types.Unit
	}
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
