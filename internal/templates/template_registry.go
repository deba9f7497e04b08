package templates

// Template names
const (
	ListingTemplate = "listing"
	HeaderTemplate  = "header"
)

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerListingTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// registerListingTemplates registers the templates for the generated listing file
func (tr *TemplateRegistry) registerListingTemplates() {
	tr.templates[HeaderTemplate] = `// Code generated by markgen. DO NOT EDIT.
`

	tr.templates[ListingTemplate] = `{{template "header" .}}
package {{.PackageName}}

import "slices"

// {{.ClassName}} lists every method marked with //{{.Marker}}.
// The list is generated and must not be edited by hand.
type {{.ClassName}} struct{}

var {{.VarName}} []string

func init() {
	{{.VarName}} = make([]string, 0, {{len .IDs}})
{{- range .IDs}}
	{{$.VarName}} = append({{$.VarName}}, {{quote .}})
{{- end}}
}

// Annotations returns the qualified method names in discovery order.
func ({{.ClassName}}) Annotations() []string {
	return slices.Clone({{.VarName}})
}
`
}

// DefaultTemplateRegistry is the registry used when none is supplied
var DefaultTemplateRegistry = NewTemplateRegistry()
