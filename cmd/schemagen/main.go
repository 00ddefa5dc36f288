package main

import (
	"os"

	"github.com/spf13/cobra"
)

const (
	FlagOut    = "out"
	FlagDryRun = "dry-run"
	FlagFormat = "format"
	FlagDebug  = "debug"
	FlagRows   = "textarea-rows"
)

func init() {
	generateCmd.Flags().String(FlagOut, "./output", "directory the schemas are written to")
	generateCmd.Flags().Bool(FlagDryRun, false, "print the documents instead of writing them")
	generateCmd.Flags().String(FlagFormat, formatJSON, "dry-run output format (json or yaml)")
	generateCmd.Flags().Bool(FlagDebug, false, "log per-row and per-field decisions")
	generateCmd.Flags().Int(FlagRows, 2, "textarea rows used when a hint has no usable count")

	rootCmd.AddCommand(&generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "schemagen",
	Short:   "generates JSON form schemas from product spreadsheets",
	Version: "1.0.0",
}

var generateCmd = cobra.Command{
	Use:   "generate FILE",
	Short: "builds one schema per specification type and category found in FILE",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}
