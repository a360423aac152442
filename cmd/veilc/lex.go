package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/veil-lang/veil/internal/lexer"
)

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Tokenize a file and print the resulting token stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runLex,
}

func runLex(cmd *cobra.Command, args []string) error {
	src, err := readSource(args[0])
	if err != nil {
		return err
	}

	toks, err := lexer.TokenizeWithLimits(src, args[0], loaded.MaxCommentDepth, loaded.ReservedWordSet())
	if err != nil {
		return renderOrReturn(err)
	}

	printHeader(fmt.Sprintf("%d tokens", len(toks)))
	faint := color.New(color.Faint).SprintFunc()
	for _, t := range toks {
		fmt.Printf("  %-14s %-20q %s\n", t.Kind, t.Lexeme, faint(t.Pos.String()))
	}
	return nil
}
