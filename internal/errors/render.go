package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	errHeader  = color.New(color.FgRed, color.Bold).SprintFunc()
	warnHeader = color.New(color.FgYellow, color.Bold).SprintFunc()
	locStyle   = color.New(color.FgCyan).SprintFunc()
	hintStyle  = color.New(color.Faint).SprintFunc()
	codeStyle  = color.New(color.Faint).SprintFunc()
)

// Render formats d as a short, Rust-style CLI diagnostic block: a colored
// header line, the location, and an optional hint. It does not print the
// source snippet itself — callers that have the source text available
// compose that above or below this block.
func (d *Diagnostic) Render() string {
	var b strings.Builder

	header := errHeader("error")
	if d.Severity == SeverityWarning {
		header = warnHeader("warning")
	}
	fmt.Fprintf(&b, "%s[%s]: %s\n", header, codeStyle(string(d.Code)), d.Message)
	fmt.Fprintf(&b, "  --> %s\n", locStyle(d.Location.String()))
	if d.Hint != "" {
		fmt.Fprintf(&b, "  %s %s\n", hintStyle("hint:"), d.Hint)
	}
	return b.String()
}

// RenderAll renders a batch of diagnostics in the order given, separated by a
// blank line, matching how the front end is expected to print accumulated
// warnings (§4.7) alongside a single fatal error.
func RenderAll(diags []*Diagnostic) string {
	blocks := make([]string, len(diags))
	for i, d := range diags {
		blocks[i] = d.Render()
	}
	return strings.Join(blocks, "\n")
}
