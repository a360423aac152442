package elaborate

import (
	"sort"

	"github.com/veil-lang/veil/internal/core"
)

// ConstructorSet describes the constructors of one nominal sum type, keyed
// by name to argument arity. It is supplied by the typechecker (C9), which
// is the only phase that has resolved the scrutinee's type — the
// desugarer itself leaves a lowered surface match's Exhaustive flag false
// (§4.5/§4.6, VF4900).
type ConstructorSet map[string]int

// BoolConstructors is the fixed constructor set for the built-in Bool
// type, used by the typechecker for a match whose scrutinee is a Bool
// (`if/then/else` lowers to core.If, not to a Match).
var BoolConstructors = ConstructorSet{"true": 0, "false": 0}

// CheckExhaustiveness reports whether arms cover every value a scrutinee
// of the given constructor set can take, and — when it doesn't — the
// names of the constructors no arm covers. A nil/empty ctors (an infinite
// type: Int, Float, String, or an unresolved type variable) can only be
// made exhaustive by a trailing wildcard/variable arm.
//
// This performs top-level constructor coverage only: it does not recurse
// into nested sub-pattern usefulness the way a full decision-tree
// compiler would (no consumer in this front-end needs match compilation
// to a dispatch tree — code generation is an external collaborator, §1 —
// so the extra machinery would have nothing downstream to serve).
func CheckExhaustiveness(arms []core.MatchArm, ctors ConstructorSet) (bool, []string) {
	for _, arm := range arms {
		if arm.Guard != nil {
			continue // a guarded arm can't be relied on to cover its pattern
		}
		if isCatchAll(arm.Pattern) {
			return true, nil
		}
	}

	if len(ctors) == 0 {
		return false, []string{"_"}
	}

	covered := make(map[string]bool, len(ctors))
	for _, arm := range arms {
		if arm.Guard != nil {
			continue
		}
		if cp, ok := arm.Pattern.(*core.ConstructorPattern); ok {
			covered[cp.Name] = true
		}
		if lp, ok := arm.Pattern.(*core.LitPattern); ok {
			if b, ok := lp.Value.(bool); ok {
				if b {
					covered["true"] = true
				} else {
					covered["false"] = true
				}
			}
		}
	}

	var missing []string
	for name := range ctors {
		if !covered[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return len(missing) == 0, missing
}

func isCatchAll(p core.Pattern) bool {
	switch p.(type) {
	case *core.WildcardPattern, *core.VarPattern:
		return true
	default:
		return false
	}
}
