package processor

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/toyz/markgen/internal/annotations"
	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/generator"
	"github.com/toyz/markgen/internal/models"
)

// Processor is called by the host once per round
type Processor interface {
	Process(in models.RoundInput) models.RoundResult
}

// MarkerProcessor collects marked methods and writes their listing
type MarkerProcessor struct {
	filer       generator.Filer
	stackOutput io.Writer
}

// NewMarkerProcessor creates a processor writing generated units through filer
func NewMarkerProcessor(filer generator.Filer) *MarkerProcessor {
	return &MarkerProcessor{
		filer:       filer,
		stackOutput: os.Stderr,
	}
}

// WithStackOutput sets where stack traces of recovered panics are printed
func (p *MarkerProcessor) WithStackOutput(w io.Writer) *MarkerProcessor {
	p.stackOutput = w
	return p
}

// Process runs one round. It never panics; every failure becomes a diagnostic.
func (p *MarkerProcessor) Process(in models.RoundInput) (result models.RoundResult) {
	target, ok := in.Option(models.OptionTarget)
	if !ok {
		err := errors.NewConfigurationMissing(models.OptionTarget)
		result.Diagnostics = append(result.Diagnostics, models.ErrorFrom(err, nil))
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(p.stackOutput, "panic: %v\n%s", r, debug.Stack())
			err := errors.Newf(errors.UnexpectedInternalCode, "Unexpected error in processor: %v", r)
			result.Diagnostics = append(result.Diagnostics, models.ErrorFrom(err, nil))
			result.Handled = true
		}
	}()

	marker := annotations.DefaultMarker
	if m, ok := in.Option(models.OptionMarker); ok {
		marker = m
	}

	result.Diagnostics = append(result.Diagnostics,
		models.Note(fmt.Sprintf("round %d process over %t", in.Round, in.ProcessingOver), nil))
	for _, name := range in.Annotations {
		result.Diagnostics = append(result.Diagnostics, models.Note("name is "+name, nil))
	}

	if in.ProcessingOver && len(in.Annotations) > 0 {
		err := errors.New(errors.RoundStateInconsistencyCode,
			"Unexpected processing state: annotations still available after processing over")
		result.Diagnostics = append(result.Diagnostics, models.ErrorFrom(err, nil))
		return result
	}

	if len(in.Annotations) == 0 {
		return result
	}

	for _, root := range in.RootElements {
		result.Diagnostics = append(result.Diagnostics, models.Note("root element "+root.Name(), root))
	}

	scan := NewElementScanner(marker).Scan(in.Elements)
	result.Handled = true
	result.Results = scan.Results
	result.Collected = scan.Collected
	result.Diagnostics = append(result.Diagnostics, scan.Diagnostics...)
	if scan.Aborted {
		return result
	}

	if len(scan.Collected) == 0 {
		result.Diagnostics = append(result.Diagnostics,
			models.Warning(fmt.Sprintf("No //%s markers found", marker), nil))
		return result
	}

	packageName, _ := in.Option(models.OptionPackage)
	emissionTarget, err := generator.ParseTarget(target, packageName)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, models.ErrorFrom(err, nil))
		return result
	}

	unit, err := generator.NewEmitter(p.filer).WithMarker(marker).Emit(emissionTarget, scan.Collected)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, models.ErrorFrom(err, nil))
		return result
	}

	result.Generated = unit
	return result
}
