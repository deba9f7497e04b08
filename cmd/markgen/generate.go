package main

import (
	"github.com/spf13/cobra"

	"github.com/toyz/markgen/internal/cli"
	"github.com/toyz/markgen/internal/utils"
)

type generateOptions struct {
	configFile string
	overrides  cli.Config
}

func newGenerateCommand() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [directory-paths...]",
		Short: "Generate the listing of marked methods",
		Long: `Scan directories for methods carrying the marker and write the listing type.

Directory patterns:
  ./...              scan the current directory and all subdirectories
  ./internal/...     scan internal and all its subdirectories
  ./pkg/handlers     scan only that directory

Settings not given as flags are read from markgen.yaml when it exists.`,
		Example: `  markgen generate --target example.com/app/registry.Handlers ./...
  markgen generate --target Handlers --package registry ./internal/handlers
  markgen generate --packages --target example.com/app/registry.Handlers ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.overrides.Directories = args
			return runGenerate(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (defaults to "+cli.DefaultConfigFile+" when present)")
	flags.StringVar(&opts.overrides.Target, "target", "", "Qualified name of the generated type, e.g. example.com/app/registry.Handlers")
	flags.StringVar(&opts.overrides.Package, "package", "", "Package name used when the target has no package path")
	flags.StringVar(&opts.overrides.Marker, "marker", "", "Marker to collect, written as namespace::name")
	flags.StringVar(&opts.overrides.OutputDir, "output-dir", "", "Write generated files under this directory instead of the module")
	flags.BoolVar(&opts.overrides.UsePackages, "packages", false, "Treat arguments as package patterns resolved by the go tool")
	flags.StringVar(&opts.overrides.Report, "report", "", "Write a YAML report of the run to this path")
	flags.IntVar(&opts.overrides.MaxRounds, "max-rounds", 0, "Maximum number of processing rounds")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	overrides := opts.overrides
	overrides.Verbose, _ = cmd.Flags().GetBool("verbose")
	overrides.Quiet, _ = cmd.Flags().GetBool("quiet")

	base, err := loadConfig(opts.configFile)
	if err != nil {
		newDiagnostics(cmd, overrides).Error("%v", err)
		return err
	}
	config := base.Merge(overrides)

	diagnostics := newDiagnostics(cmd, config)
	diagnostics.Section("markgen")
	if config.Verbose {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Target: %s", config.Target)
		diagnostics.List("Directories: %v", config.WithDefaults().Directories)
		if opts.configFile != "" {
			diagnostics.List("Config file: %s", opts.configFile)
		}
	}

	return cli.NewGeneratorWithDiagnostics(diagnostics).Run(config)
}

// loadConfig reads the explicit config file, or the default one when present
func loadConfig(path string) (cli.Config, error) {
	if path != "" {
		return cli.LoadConfig(path)
	}
	config, _, err := cli.LoadConfigIfPresent(cli.DefaultConfigFile)
	return config, err
}

func newDiagnostics(cmd *cobra.Command, config cli.Config) *utils.DiagnosticSystem {
	level := utils.DiagnosticInfo
	switch {
	case config.Quiet:
		level = utils.DiagnosticError
	case config.Verbose:
		level = utils.DiagnosticVerbose
	}
	return utils.NewDiagnosticSystemWithWriters(level, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
