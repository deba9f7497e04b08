package generator

import (
	"github.com/toyz/markgen/internal/annotations"
	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/models"
	"github.com/toyz/markgen/internal/templates"
	"github.com/toyz/markgen/internal/utils"
)

// Emitter renders the listing of collected identifiers and writes it through a Filer
type Emitter struct {
	filer     Filer
	templates *templates.TemplateRegistry
	marker    string
}

// NewEmitter creates an emitter writing through filer
func NewEmitter(filer Filer) *Emitter {
	return &Emitter{
		filer:     filer,
		templates: templates.DefaultTemplateRegistry,
		marker:    annotations.DefaultMarker,
	}
}

// WithMarker sets the marker named in the generated doc comment
func (e *Emitter) WithMarker(marker string) *Emitter {
	if marker != "" {
		e.marker = marker
	}
	return e
}

// Render produces the formatted source of the listing for target.
// The output depends only on its inputs.
func (e *Emitter) Render(target models.EmissionTarget, ids []string) ([]byte, error) {
	data := templates.NewListingData(target.PackageName, target.ClassName, e.marker, ids)

	source, err := e.templates.ExecuteTemplate(templates.ListingTemplate, data)
	if err != nil {
		return nil, errors.NewGenerationError(target.QualifiedName, "render", err)
	}

	formatted, err := utils.FormatGoCode(FileName(target), []byte(source))
	if err != nil {
		return nil, errors.NewGenerationError(target.QualifiedName, "format", err)
	}
	return formatted, nil
}

// Emit renders the listing and writes it with a single Write. Failing to
// create or write the file is an EmissionIOFailure; a failing Close is ignored.
func (e *Emitter) Emit(target models.EmissionTarget, ids []string) (*models.GeneratedUnit, error) {
	content, err := e.Render(target, ids)
	if err != nil {
		return nil, err
	}

	fileName := FileName(target)
	unit := &models.GeneratedUnit{
		Target:   target,
		FileName: fileName,
		Content:  content,
	}

	if resolver, ok := e.filer.(PathResolver); ok {
		if path, err := resolver.Resolve(target, fileName); err == nil {
			unit.Path = path
		}
	}

	writer, err := e.filer.Create(target, fileName)
	if err != nil {
		return nil, errors.NewEmissionIOFailure(target.QualifiedName, err)
	}
	defer func() {
		_ = writer.Close()
	}()

	if _, err := writer.Write(content); err != nil {
		return nil, errors.NewEmissionIOFailure(target.QualifiedName, err)
	}

	return unit, nil
}
