package templates

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"

	"github.com/toyz/markgen/internal/errors"
)

// ListingData is the input of the listing template
type ListingData struct {
	PackageName string
	ClassName   string
	VarName     string
	Marker      string
	IDs         []string
}

// NewListingData builds template data for a listing type
func NewListingData(packageName, className, marker string, ids []string) ListingData {
	return ListingData{
		PackageName: packageName,
		ClassName:   className,
		VarName:     ToCamelCase(className) + "Annotations",
		Marker:      marker,
		IDs:         ids,
	}
}

// ToCamelCase lower-cases the first letter of s
func ToCamelCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

var funcMap = template.FuncMap{
	"quote":       strconv.Quote,
	"toCamelCase": ToCamelCase,
}

// ExecuteTemplate renders a named template from the registry. Every template
// in the registry is available to {{template}} calls.
func (tr *TemplateRegistry) ExecuteTemplate(name string, data interface{}) (string, error) {
	root := template.New(name).Funcs(funcMap).Option("missingkey=error")

	body, ok := tr.Get(name)
	if !ok {
		return "", errors.Newf(errors.GenerationErrorCode, "template not found: %s", name)
	}
	if _, err := root.Parse(body); err != nil {
		return "", errors.WrapTemplateError(name, "parse", err)
	}

	for other, otherBody := range tr.templates {
		if other == name {
			continue
		}
		if _, err := root.New(other).Parse(otherBody); err != nil {
			return "", errors.WrapTemplateError(other, "parse", err)
		}
	}

	var buf bytes.Buffer
	if err := root.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.WrapTemplateError(name, "execute", err)
	}

	return buf.String(), nil
}

// ExecuteTemplate renders a named template from the default registry
func ExecuteTemplate(name string, data interface{}) (string, error) {
	return DefaultTemplateRegistry.ExecuteTemplate(name, data)
}
