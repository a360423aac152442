package errors

import (
	"fmt"
	"strings"
	"sync"

	"github.com/veil-lang/veil/internal/source"
)

var (
	registryMu sync.RWMutex
	registry   = map[Code]Definition{}
)

// mustRegister installs a definition. Registration is idempotent: calling it
// twice with an identical definition is a no-op; calling it twice with a
// different definition for the same code is a programmer error and panics,
// since the registry is supposed to be a single source of truth per code.
func mustRegister(d Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if existing, ok := registry[d.Code]; ok {
		if existing != d {
			panic(fmt.Sprintf("errors: code %s registered twice with different definitions", d.Code))
		}
		return
	}
	registry[d.Code] = d
}

// Lookup returns the registered definition for code, or false if the code
// was never registered (the *UnknownCode* internal failure mode from §4.1).
func Lookup(code Code) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[code]
	return d, ok
}

// Diagnostic is one rendered error or warning (§3 "Diagnostic").
type Diagnostic struct {
	Code        Code
	Severity    Severity
	Phase       Phase
	Category    string
	Location    source.Pos
	Message     string
	Hint        string
	Explanation string
	Example     string
	Related     []Code
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s [%s]", d.Location, d.Message, d.Code)
}

// Create renders a Diagnostic for code at loc, substituting "{name}"
// placeholders in the registered template from vars. It fails with an
// internal *UnknownCode* error if code was never registered.
func Create(code Code, loc source.Pos, vars map[string]string) (*Diagnostic, error) {
	def, ok := Lookup(code)
	if !ok {
		return nil, fmt.Errorf("errors: unknown code %s (UnknownCode)", code)
	}
	if vars == nil {
		vars = map[string]string{}
	}
	vars["code"] = string(code)
	vars["category"] = def.Category
	msg := render(def.Template, vars)
	return &Diagnostic{
		Code:        code,
		Severity:    def.Severity,
		Phase:       def.Phase,
		Category:    def.Category,
		Location:    loc,
		Message:     msg,
		Hint:        render(def.Hint, vars),
		Explanation: render(def.Explanation, vars),
		Example:     def.Example,
		Related:     def.Related,
	}, nil
}

// Throw is the fatal-path form: it renders the Diagnostic and returns it
// wrapped as a Go error, for use with the pipeline's (T, error) convention.
func Throw(code Code, loc source.Pos, vars map[string]string) error {
	d, err := Create(code, loc, vars)
	if err != nil {
		return err
	}
	return d
}

// render performs "{name}"-only placeholder substitution; it is
// deliberately not Turing-complete (§9 design note).
func render(template string, vars map[string]string) string {
	if template == "" {
		return ""
	}
	out := template
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}
