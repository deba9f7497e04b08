package processor

import (
	"fmt"

	"github.com/toyz/markgen/internal/annotations"
	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/models"
)

// ScanResult is the outcome of scanning the marked elements of one round
type ScanResult struct {
	Results     []models.ValidationResult // outcomes in input order, ending at the first rejection
	Collected   []string                  // accepted identifiers in input order
	Diagnostics []models.Diagnostic       // errors and parameter traces
	Aborted     bool                      // true when a rejection stopped the scan
}

// ElementScanner validates marked elements and builds their qualified identifiers
type ElementScanner struct {
	marker string
}

// NewElementScanner creates a scanner reporting against the given marker name
func NewElementScanner(marker string) *ElementScanner {
	if marker == "" {
		marker = annotations.DefaultMarker
	}
	return &ElementScanner{marker: marker}
}

// Scan validates elements in order. The first rejected element ends the scan;
// elements after it are not inspected at all.
func (s *ElementScanner) Scan(elements []models.Element) ScanResult {
	var result ScanResult
	result.Collected = make([]string, 0, len(elements))

	for _, element := range elements {
		validation, diagnostic := s.Validate(element)
		result.Results = append(result.Results, validation)

		if !validation.Accepted {
			result.Diagnostics = append(result.Diagnostics, diagnostic)
			result.Aborted = true
			return result
		}

		result.Collected = append(result.Collected, validation.QualifiedID)
		for _, param := range element.Parameters() {
			result.Diagnostics = append(result.Diagnostics, models.Note(
				fmt.Sprintf("parameter: %s %s (#%d)", param.Name, param.Type, param.Position), element))
		}
	}

	return result
}

// Validate checks a single element. A rejection comes with the ERROR to report.
func (s *ElementScanner) Validate(element models.Element) (models.ValidationResult, models.Diagnostic) {
	kind := element.Kind()
	if !kind.IsCallableMember() {
		err := errors.New(errors.WrongElementKindCode, "Only methods can be annotated with //"+s.marker).
			WithContext("kind", kind.String()).
			WithSuggestion("Move the marker onto a method declaration")
		return models.Rejected(models.RejectWrongKind, element), models.ErrorFrom(err, element)
	}

	if element.Visibility() != models.Public {
		err := errors.New(errors.NotPublicElementCode, "Collected method must be exported").
			WithContext("method", models.QualifiedID(element)).
			WithSuggestion("Rename the method so it starts with an upper-case letter")
		return models.Rejected(models.RejectNotPublic, element), models.ErrorFrom(err, element)
	}

	return models.Accepted(models.QualifiedID(element), element), models.Diagnostic{}
}
