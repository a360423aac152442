package elaborate

import (
	"fmt"

	"github.com/veil-lang/veil/internal/ast"
	"github.com/veil-lang/veil/internal/core"
	"github.com/veil-lang/veil/internal/errors"
)

// lowerPattern converts a surface Pattern to its Core form. List patterns
// expand into nested `Cons`/`Nil` ConstructorPatterns since lists are sugar
// over the built-in List variant type (§4.5); a GuardedPattern's guard is
// not handled here — it is only valid directly under a MatchArm, which
// threads the guard itself (lowerMatch), so reaching one here is an
// internal shape violation.
func (e *Elaborator) lowerPattern(p ast.Pattern) (core.Pattern, error) {
	switch pt := p.(type) {
	case *ast.VarPattern:
		return &core.VarPattern{Name: pt.Name}, nil

	case *ast.WildcardPattern:
		return &core.WildcardPattern{}, nil

	case *ast.Literal:
		return &core.LitPattern{Value: pt.Value}, nil

	case *ast.ConstructorPattern:
		args := make([]core.Pattern, len(pt.Args))
		for i, a := range pt.Args {
			lowered, err := e.lowerPattern(a)
			if err != nil {
				return nil, err
			}
			args[i] = lowered
		}
		return &core.ConstructorPattern{Name: pt.Name, Args: args}, nil

	case *ast.TuplePattern:
		fields := make(map[string]core.Pattern, len(pt.Elements))
		order := make([]string, len(pt.Elements))
		for i, el := range pt.Elements {
			lowered, err := e.lowerPattern(el)
			if err != nil {
				return nil, err
			}
			name := fmt.Sprintf("%d", i)
			fields[name] = lowered
			order[i] = name
		}
		return &core.RecordPattern{Fields: fields, Order: order}, nil

	case *ast.RecordPattern:
		fields := make(map[string]core.Pattern, len(pt.Fields))
		order := make([]string, len(pt.Fields))
		for i, f := range pt.Fields {
			lowered, err := e.lowerPattern(f.Pattern)
			if err != nil {
				return nil, err
			}
			fields[f.Name] = lowered
			order[i] = f.Name
		}
		return &core.RecordPattern{Fields: fields, Order: order, Open: pt.Open}, nil

	case *ast.ListPattern:
		return e.lowerListPattern(pt)

	case *ast.TypedPattern:
		// Core patterns carry no type annotation, so the annotation is
		// dropped here and the typechecker never sees it; the Core shape is
		// just the inner pattern.
		return e.lowerPattern(pt.Pattern)

	case *ast.OrPattern:
		return nil, fmt.Errorf("elaborate: or-patterns must be expanded into separate match arms before reaching lowerPattern")

	default:
		return nil, fmt.Errorf("elaborate: unhandled pattern %T", p)
	}
}

// lowerListPattern expands `[e0, e1, ..., en, ...rest]` into the nested
// `Cons(e0, Cons(e1, ... Cons(en, rest)))` chain a List-as-Cons-cell
// representation requires, tail-first: rest (or `Nil` when there is no
// `...rest`) anchors the chain, and each element wraps the accumulator by
// index counting down to 0. The accumulator is seeded before the loop on
// every path, so the VF3101 check below is defensive and no input order
// reaches it.
func (e *Elaborator) lowerListPattern(pt *ast.ListPattern) (core.Pattern, error) {
	var acc core.Pattern
	if pt.Rest != nil {
		lowered, err := e.lowerPattern(pt.Rest)
		if err != nil {
			return nil, err
		}
		acc = lowered
	} else {
		acc = &core.ConstructorPattern{Name: "Nil"}
	}

	for i := len(pt.Elements) - 1; i >= 0; i-- {
		lowered, err := e.lowerPattern(pt.Elements[i])
		if err != nil {
			return nil, err
		}
		acc = &core.ConstructorPattern{Name: "Cons", Args: []core.Pattern{lowered, acc}}
	}
	if acc == nil {
		// Every branch above produces a non-nil accumulator before the loop
		// even runs (Rest's lowering or the synthetic Nil pattern); reaching
		// here means the index walk above never ran and never seeded one —
		// the one internal shape VF3101 exists to report (§4.5).
		return nil, errors.Throw("VF3101", pt.Pos, nil)
	}
	return acc, nil
}
