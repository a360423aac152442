package main

import "github.com/veil-lang/veil/internal/errors"

// asDiagnostic recovers the rich *errors.Diagnostic behind a pipeline
// phase's plain error return, so subcommands can render it the same way
// regardless of which phase raised it.
func asDiagnostic(err error) (*errors.Diagnostic, bool) {
	diag, ok := err.(*errors.Diagnostic)
	return diag, ok
}
