package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veil-lang/veil/internal/lexer"
	"github.com/veil-lang/veil/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a file and print the surface declaration count",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := readSource(path)
	if err != nil {
		return err
	}

	toks, err := lexer.TokenizeWithLimits(src, path, loaded.MaxCommentDepth, loaded.ReservedWordSet())
	if err != nil {
		return renderOrReturn(err)
	}

	maxErrors := loaded.MaxParseErrors
	mod, err := parser.New(toks, path, maxErrors).ParseModule()
	if err != nil {
		return renderOrReturn(err)
	}

	printHeader(fmt.Sprintf("%d top-level declarations", len(mod.Declarations)))
	for _, d := range mod.Declarations {
		fmt.Printf("  %T at %s\n", d, d.Position())
	}
	return nil
}

func renderOrReturn(err error) error {
	if diag, ok := asDiagnostic(err); ok {
		fmt.Print(diag.Render())
	}
	return err
}
