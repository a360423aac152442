// Package pipeline wires the four front-end phases — lex, parse, desugar,
// typecheck — behind the thin function signatures external orchestrators
// are expected to call (§6). Each phase returns its artifact and a single
// fatal error; non-fatal findings are pushed onto the *warnings.Collector
// passed down the chain instead of being bundled into the return value.
package pipeline

import (
	"fmt"

	"github.com/veil-lang/veil/internal/ast"
	"github.com/veil-lang/veil/internal/checker"
	"github.com/veil-lang/veil/internal/core"
	"github.com/veil-lang/veil/internal/elaborate"
	"github.com/veil-lang/veil/internal/errors"
	"github.com/veil-lang/veil/internal/lexer"
	"github.com/veil-lang/veil/internal/parser"
	"github.com/veil-lang/veil/internal/typedast"
	"github.com/veil-lang/veil/internal/warnings"
)

// GlobalEnv is the hook external orchestrators use to seed the typechecker
// with bindings resolved outside this front end — imports from other
// modules, a standard prelude, anything the Resolver contract (§6) would
// otherwise supply. It carries no fields today: module resolution is an
// external collaborator this front end never implements (spec.md §1), so
// there is nothing yet to seed a fresh compilation unit with. It exists as
// a named type, not a bare `interface{}`, so a future Resolver-aware caller
// has a stable place to attach pre-resolved schemes without changing this
// package's exported signatures.
type GlobalEnv struct{}

// Lex tokenizes src. filename is attached to every token's position for
// diagnostic rendering; it need not correspond to a real file on disk.
func Lex(src []byte, filename string) ([]lexer.Token, error) {
	return lexer.Tokenize(src, filename)
}

// Parse builds a surface ast.Module from tokens. filename is reused for any
// diagnostic raised mid-parse.
func Parse(tokens []lexer.Token, filename string) (*ast.Module, error) {
	return parser.Parse(tokens, filename)
}

// Desugar lowers a surface module to Core (§4.5). It returns a single
// fatal *errors.Diagnostic on the first construct the Core form cannot
// represent; the desugarer itself never warns (every warning-producing
// judgment — exhaustiveness, unreachable arms — needs the typechecker's
// resolved types and so is deferred to Typecheck, per internal/elaborate's
// own doc comments).
func Desugar(mod *ast.Module) (*core.Program, error) {
	return elaborate.Desugar(mod)
}

// Typecheck runs Algorithm W (§4.6) over prog, using surface for the
// top-level `type`/`external` tables BuildModuleTables needs. env is
// presently unused (see GlobalEnv) but is threaded through so a future
// resolver-backed caller can seed external bindings without an API break.
// Every warning-severity diagnostic the checker raises (VF4900 among them)
// is pushed onto collector in the order it was found; a fatal diagnostic
// is returned directly and nothing is pushed past that point, matching
// spec.md §7's "never a partial typed tree on a fatal diagnostic" rule.
func Typecheck(surface *ast.Module, prog *core.Program, env *GlobalEnv, collector *warnings.Collector) (*typedast.TypedProgram, error) {
	typed, warns, err := checker.CheckProgram(surface, prog)
	if err != nil {
		return nil, err
	}
	for _, w := range warns {
		diag, ok := w.(*errors.Diagnostic)
		if !ok {
			return nil, fmt.Errorf("pipeline: non-diagnostic warning from checker: %w", w)
		}
		collector.Add(diag)
	}
	return typed, nil
}

// Run executes all four phases in sequence over one source file, stopping
// at the first fatal diagnostic (§7's propagation policy). It is this
// module's equivalent of an orchestrator's driver loop — a convenience for
// callers (tests, a debug CLI) that don't need to inspect intermediate
// artifacts, not a contractual part of §6 itself.
func Run(src []byte, filename string) (*typedast.TypedProgram, *warnings.Collector, error) {
	collector := warnings.New()

	tokens, err := Lex(src, filename)
	if err != nil {
		return nil, collector, err
	}
	surface, err := Parse(tokens, filename)
	if err != nil {
		return nil, collector, err
	}
	coreProg, err := Desugar(surface)
	if err != nil {
		return nil, collector, err
	}
	typed, err := Typecheck(surface, coreProg, &GlobalEnv{}, collector)
	if err != nil {
		return nil, collector, err
	}
	return typed, collector, nil
}
