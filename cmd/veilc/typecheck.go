package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veil-lang/veil/internal/checker"
	"github.com/veil-lang/veil/internal/elaborate"
	"github.com/veil-lang/veil/internal/lexer"
	"github.com/veil-lang/veil/internal/parser"
	"github.com/veil-lang/veil/internal/typedast"
)

var typecheckCmd = &cobra.Command{
	Use:   "typecheck <file>",
	Short: "Run the full lex/parse/desugar/typecheck pipeline and print the typed tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runTypecheck,
}

func runTypecheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := readSource(path)
	if err != nil {
		return err
	}

	toks, err := lexer.TokenizeWithLimits(src, path, loaded.MaxCommentDepth, loaded.ReservedWordSet())
	if err != nil {
		return renderOrReturn(err)
	}

	mod, err := parser.New(toks, path, loaded.MaxParseErrors).ParseModule()
	if err != nil {
		return renderOrReturn(err)
	}

	prog, err := elaborate.Desugar(mod)
	if err != nil {
		return renderOrReturn(err)
	}

	typed, warns, err := checker.CheckProgram(mod, prog)
	if err != nil {
		return renderOrReturn(err)
	}

	for _, w := range warns {
		if diag, ok := asDiagnostic(w); ok {
			fmt.Print(diag.Render())
		}
	}

	printHeader("typed program")
	fmt.Println(typedast.Pretty(typed))
	return nil
}
