package errors

import (
	"github.com/veil-lang/veil/internal/schema"
)

// jsonDiagnostic is the wire shape for a Diagnostic under schema ID
// veil.diagnostic/v1 — deliberately flat and string-keyed so
// schema.MarshalDeterministic can sort it without reflecting into Diagnostic
// internals.
type jsonDiagnostic struct {
	Schema      string   `json:"schema"`
	Code        string   `json:"code"`
	Severity    string   `json:"severity"`
	Phase       string   `json:"phase"`
	Category    string   `json:"category"`
	File        string   `json:"file"`
	Line        int      `json:"line"`
	Col         int      `json:"col"`
	Message     string   `json:"message"`
	Hint        string   `json:"hint,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Example     string   `json:"example,omitempty"`
	Related     []string `json:"related,omitempty"`
}

// ToJSON renders d as deterministic JSON under the veil.diagnostic/v1
// schema (§6's external-interface requirement that diagnostics be stable,
// machine-readable output for a Resolver or other external consumer).
func (d *Diagnostic) ToJSON() ([]byte, error) {
	related := make([]string, len(d.Related))
	for i, c := range d.Related {
		related[i] = string(c)
	}
	wire := jsonDiagnostic{
		Schema:      schema.DiagnosticV1,
		Code:        string(d.Code),
		Severity:    string(d.Severity),
		Phase:       string(d.Phase),
		Category:    d.Category,
		File:        d.Location.File,
		Line:        d.Location.Line,
		Col:         d.Location.Col,
		Message:     d.Message,
		Hint:        d.Hint,
		Explanation: d.Explanation,
		Example:     d.Example,
		Related:     related,
	}
	data, err := schema.MarshalDeterministic(wire)
	if err != nil {
		return nil, err
	}
	return schema.FormatJSON(data)
}
