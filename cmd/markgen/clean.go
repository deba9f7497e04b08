package main

import (
	"github.com/spf13/cobra"

	"github.com/toyz/markgen/internal/cli"
)

func newCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [directory-paths...]",
		Short: "Delete generated listing files",
		Long: `Delete every *_markgen.go file carrying the generated-code header.
Patterns ending in /... are searched recursively. Defaults to ./...`,
		RunE: runClean,
	}
}

func runClean(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"./..."}
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	diagnostics := newDiagnostics(cmd, cli.Config{Verbose: verbose, Quiet: quiet})

	removed, err := cli.NewCleaner().CleanGeneratedFiles(args)
	for _, file := range removed {
		diagnostics.List("removed %s", file)
	}
	if err != nil {
		diagnostics.Error("Clean operation failed: %v", err)
		return err
	}

	diagnostics.Success("Removed %d generated file(s)", len(removed))
	return nil
}
