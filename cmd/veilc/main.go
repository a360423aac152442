// Command veilc is a thin debug entrypoint over the front-end pipeline
// (§6): lex, parse, and typecheck subcommands that wire C1-C10 together
// and render whatever diagnostics come back, for manual inspection of a
// single file during development. It is not a build tool — command-line
// invocation, output bundling, and module resolution are all out of scope
// for the front end itself (spec.md §1), so this stays a small wrapper
// rather than growing into a real driver.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
