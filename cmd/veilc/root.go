package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/veil-lang/veil/internal/config"
)

var (
	cyan = color.New(color.FgCyan).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()

	cfgPath string
	loaded  config.Config
)

var rootCmd = &cobra.Command{
	Use:   "veilc",
	Short: "Debug entrypoint for the Veil front end",
	Long:  "veilc runs the lex/parse/typecheck pipeline over a single file and prints the resulting tokens, surface tree, or diagnostics. It is a development aid, not a build tool.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		loaded = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "veil.yaml", "path to a veil.yaml tunables file (missing file is not an error)")
	rootCmd.AddCommand(lexCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(typecheckCmd)
}

func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func printHeader(label string) {
	fmt.Println(bold(cyan(label)))
}
