package cli

import (
	"io"
	"path/filepath"
	"time"

	"github.com/toyz/markgen/internal/annotations"
	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/generator"
	"github.com/toyz/markgen/internal/models"
	"github.com/toyz/markgen/internal/parser"
	"github.com/toyz/markgen/internal/processor"
	"github.com/toyz/markgen/internal/utils"
)

// Generator coordinates the CLI generation process
type Generator struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	reporter       *DiagnosticReporter
	diagnostics    *utils.DiagnosticSystem
	filer          generator.Filer // overrides the directory filer when set
	stackOutput    io.Writer
	summary        GenerationSummary
	report         *Report
}

// NewGeneratorWithDiagnostics creates a new CLI generator writing through diagnostics
func NewGeneratorWithDiagnostics(diagnostics *utils.DiagnosticSystem) *Generator {
	return &Generator{
		scanner:        NewDirectoryScanner(),
		moduleResolver: NewModuleResolver(),
		reporter:       NewDiagnosticReporter(diagnostics),
		diagnostics:    diagnostics,
		stackOutput:    diagnostics.ErrorOutput(),
		summary:        GenerationSummary{GeneratedFiles: make([]string, 0)},
	}
}

// WithFiler replaces the directory filer used for generated units
func (g *Generator) WithFiler(filer generator.Filer) *Generator {
	g.filer = filer
	return g
}

// GetSummary returns the generation summary
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// GetReport returns the report of the last run
func (g *Generator) GetReport() *Report {
	return g.report
}

// Run executes the complete generation process
func (g *Generator) Run(config Config) error {
	startTime := time.Now()
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		g.reporter.ReportError(err)
		return err
	}

	g.summary = GenerationSummary{GeneratedFiles: make([]string, 0)}
	g.report = NewReport(config)

	g.diagnostics.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))
	g.diagnostics.Debug("Scanning: %v", config.Directories)

	markers, err := annotations.NewMarkerParser(config.Marker)
	if err != nil {
		g.reporter.ReportError(err)
		return err
	}
	p := parser.NewParserWithMarker(markers)

	g.diagnostics.PhaseHeader("Parsing")
	scans, err := g.parse(p, config)
	if err != nil {
		g.reporter.ReportError(err)
		return err
	}
	if len(scans) == 0 {
		err := errors.New(errors.FileSystemErrorCode, "no Go packages found in specified directories").
			WithContext("directories", config.Directories).
			WithSuggestions(
				"Ensure the directories contain Go files",
				"Try scanning parent directories or use the './...' pattern",
			)
		g.reporter.ReportError(err)
		return err
	}

	for _, scan := range scans {
		g.report.Packages = append(g.report.Packages, scan.PackagePath)
		g.diagnostics.PhaseItem(scan.PackagePath)
		for _, markerErr := range scan.MarkerErrors {
			g.reporter.ReportError(markerErr)
			g.summary.Errors++
		}
	}

	proc := processor.NewMarkerProcessor(g.filerFor(config, scans)).WithStackOutput(g.stackOutput)
	options := config.ProcessorOptions()
	if name := g.fallbackPackage(config, scans); name != "" {
		options[models.OptionPackage] = name
		g.diagnostics.Debug("Targets without a package path join package %s", name)
	}
	in := firstRound(scans, options)
	g.summary.PackagesProcessed = len(scans)
	g.summary.MarkedElements = len(in.Elements)
	if len(in.Elements) == 0 {
		g.reporter.ReportWarning("No elements marked with //"+config.Marker+" were found",
			"Check that the scanned directories contain the marked methods")
	}

	g.diagnostics.PhaseHeader("Processing")
	for {
		if in.Round > config.MaxRounds {
			err := errors.Newf(errors.RoundStateInconsistencyCode,
				"generated sources still produced new units after %d rounds", config.MaxRounds).
				WithSuggestion("Increase max_rounds or check that generated files do not carry markers")
			g.reporter.ReportError(err)
			g.summary.Errors++
			break
		}

		result := g.runRound(proc, in)
		if result.Generated == nil {
			break
		}

		next, err := g.parseGenerated(p, result.Generated)
		if err != nil {
			g.reporter.ReportError(err)
			g.summary.Errors++
			break
		}
		in = models.RoundInput{
			Round:        in.Round + 1,
			Annotations:  next.Markers,
			Elements:     next.Elements,
			RootElements: next.RootElements,
			Options:      in.Options,
		}
	}

	g.runRound(proc, models.RoundInput{
		Round:          g.summary.Rounds + 1,
		ProcessingOver: true,
		Options:        in.Options,
	})

	g.report.Finish(g.summary)
	if config.Report != "" {
		if err := g.report.WriteFile(config.Report); err != nil {
			g.reporter.ReportError(err)
			return err
		}
		g.diagnostics.Verbose("Wrote report %s", config.Report)
	}

	if g.summary.Errors > 0 {
		return errors.Newf(errors.GenerationErrorCode, "generation failed with %d error(s)", g.summary.Errors)
	}

	g.reporter.ReportSuccess(g.summary)
	g.diagnostics.Verbose("Finished in %s", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// runRound processes one round and records its outcome
func (g *Generator) runRound(proc processor.Processor, in models.RoundInput) models.RoundResult {
	g.reporter.DumpRoundInput(in)

	result := proc.Process(in)
	g.reporter.ReportDiagnostics(result.Diagnostics)
	g.summary.add(result.Diagnostics)
	g.summary.Rounds++
	g.summary.Collected += len(result.Collected)
	g.report.AddRound(in, result)

	if result.Generated != nil {
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, generatedName(result.Generated))
	}
	return result
}

// parse scans the configured directories or package patterns
func (g *Generator) parse(p *parser.Parser, config Config) ([]*models.PackageScan, error) {
	if config.UsePackages {
		return p.LoadPackages("", config.Directories...)
	}

	packageDirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return nil, err
	}

	scans := make([]*models.PackageScan, 0, len(packageDirs))
	for _, dir := range packageDirs {
		scan, err := p.ParseDirectory(dir)
		if err != nil {
			return nil, err
		}
		scans = append(scans, scan)
	}
	return scans, nil
}

// parseGenerated parses a unit written this round as the input of the next one
func (g *Generator) parseGenerated(p *parser.Parser, unit *models.GeneratedUnit) (*models.PackageScan, error) {
	if unit.Path != "" {
		return p.ParseFile(unit.Path)
	}
	return p.ParseSource(unit.FileName, string(unit.Content))
}

// filerFor returns the filer for this run. Targets without a package path are
// written next to the first scanned package.
func (g *Generator) filerFor(config Config, scans []*models.PackageScan) generator.Filer {
	if g.filer != nil {
		return g.filer
	}

	baseDir, _ := SplitPattern(config.Directories[0])
	if config.UsePackages {
		baseDir = "."
	}
	baseDir, _ = filepath.Abs(baseDir)

	moduleDir := baseDir
	if module, err := g.moduleResolver.Resolve(baseDir); err == nil {
		moduleDir = module.Root
		g.diagnostics.Debug("Module %s at %s", module.Path, module.Root)
	} else {
		g.diagnostics.Debug("No module found for %s: %v", baseDir, err)
	}

	filer := generator.NewDirFiler(config.OutputDir, moduleDir)
	if len(scans) > 0 && scans[0].Dir != "" {
		filer.FallbackDir = scans[0].Dir
	}
	if config.OutputDir != "" {
		filer.FallbackDir = ""
	}
	return filer
}

// fallbackPackage is the package clause for a target without a package path
// when the unit lands next to the first scanned package. It is empty when the
// package is configured or the unit is written elsewhere.
func (g *Generator) fallbackPackage(config Config, scans []*models.PackageScan) string {
	if config.Package != "" || config.OutputDir != "" || g.filer != nil {
		return ""
	}
	if len(scans) == 0 || scans[0].Dir == "" {
		return ""
	}
	return scans[0].PackageName
}

// firstRound merges every scanned package into the first round's input
func firstRound(scans []*models.PackageScan, options map[string]string) models.RoundInput {
	in := models.RoundInput{Round: 1, Options: options}
	seen := make(map[string]bool)
	for _, scan := range scans {
		for _, marker := range scan.Markers {
			if !seen[marker] {
				seen[marker] = true
				in.Annotations = append(in.Annotations, marker)
			}
		}
		in.Elements = append(in.Elements, scan.Elements...)
		in.RootElements = append(in.RootElements, scan.RootElements...)
	}
	return in
}
