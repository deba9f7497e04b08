package processor

import "github.com/toyz/markgen/internal/models"

// fakeElement is an Element that records every method called on it
type fakeElement struct {
	name      string
	enclosing string
	kind      models.ElementKind
	vis       models.Visibility
	params    []models.Parameter
	calls     []string
}

func (e *fakeElement) Name() string {
	e.calls = append(e.calls, "Name")
	return e.name
}

func (e *fakeElement) EnclosingType() string {
	e.calls = append(e.calls, "EnclosingType")
	return e.enclosing
}

func (e *fakeElement) Kind() models.ElementKind {
	e.calls = append(e.calls, "Kind")
	return e.kind
}

func (e *fakeElement) Visibility() models.Visibility {
	e.calls = append(e.calls, "Visibility")
	return e.vis
}

func (e *fakeElement) Parameters() []models.Parameter {
	e.calls = append(e.calls, "Parameters")
	return e.params
}

func (e *fakeElement) Location() models.SourceLocation {
	e.calls = append(e.calls, "Location")
	return models.SourceLocation{File: "fake.go", Line: 1, Column: 1}
}

func method(owner, name string, vis models.Visibility, params ...models.Parameter) *fakeElement {
	return &fakeElement{name: name, enclosing: owner, kind: models.KindMethod, vis: vis, params: params}
}

func asElements(fakes ...*fakeElement) []models.Element {
	elements := make([]models.Element, len(fakes))
	for i, f := range fakes {
		elements[i] = f
	}
	return elements
}
