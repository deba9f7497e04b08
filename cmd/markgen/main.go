package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "markgen",
		Short: "Collect marked methods into a generated listing",
		Long: `markgen scans Go packages for methods marked with //markgen::collect and
writes a generated type listing their qualified names ("Owner#method").`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output and detailed error reporting")
	root.PersistentFlags().BoolP("quiet", "q", false, "Only show errors")

	root.AddCommand(newGenerateCommand())
	root.AddCommand(newCleanCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
