package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aheadc [flags] <source>",
	Short: "Ahead-of-time compiler for the aheadc bytecode target.",
	Long: `aheadc compiles either a textual program (a JS-like source file) or a
NetBots JSON control-flow graph to the shared stack-based bytecode
container format, selected by --format.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		out, err := cmd.Flags().GetString("out")
		if err != nil {
			return err
		}
		magicVersion, err := cmd.Flags().GetInt("magic-version")
		if err != nil {
			return err
		}
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return err
		}
		return runCompile(compileOptions{
			SourcePath:   args[0],
			Format:       format,
			OutPath:      out,
			MagicVersion: magicVersion,
			Verbose:      verbose,
		})
	},
}

func init() {
	rootCmd.Flags().String("format", "program", `input format: "program" (textual source) or "netbots" (JSON graph)`)
	rootCmd.Flags().String("out", "", "output file for the compiled container (required)")
	rootCmd.Flags().Int("magic-version", 0, "override the magic's version digit (defaults to the current revision for --format)")
	rootCmd.Flags().BoolP("verbose", "v", false, "enable debug-level logging")
	if err := rootCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("aheadc: %v", err))
	}
}
