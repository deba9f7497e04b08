package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRegistry_Get(t *testing.T) {
	registry := NewTemplateRegistry()

	body, ok := registry.Get(ListingTemplate)
	require.True(t, ok)
	assert.Contains(t, body, "slices.Clone")

	_, ok = registry.Get("missing")
	assert.False(t, ok)
}

func TestExecuteTemplate_Listing(t *testing.T) {
	data := NewListingData("example", "Gen", "markgen::collect", []string{"Foo#bar", `Q"uote#x`})

	out, err := ExecuteTemplate(ListingTemplate, data)
	require.NoError(t, err)

	assert.Contains(t, out, "// Code generated by markgen. DO NOT EDIT.\n")
	assert.Contains(t, out, "package example\n")
	assert.Contains(t, out, "type Gen struct{}")
	assert.Contains(t, out, "var genAnnotations []string")
	assert.Contains(t, out, "genAnnotations = make([]string, 0, 2)")
	assert.Contains(t, out, `genAnnotations = append(genAnnotations, "Foo#bar")`)
	assert.Contains(t, out, `genAnnotations = append(genAnnotations, "Q\"uote#x")`)
	assert.Contains(t, out, "func (Gen) Annotations() []string {")
}

func TestExecuteTemplate_Errors(t *testing.T) {
	registry := NewTemplateRegistry()

	_, err := registry.ExecuteTemplate("missing", nil)
	assert.Error(t, err)

	registry.templates["broken"] = "{{.Nope"
	_, err = registry.ExecuteTemplate("broken", nil)
	assert.Error(t, err)

	strict := NewTemplateRegistry()
	strict.templates["strict"] = "{{.Missing}}"
	_, err = strict.ExecuteTemplate("strict", map[string]string{})
	assert.Error(t, err)
}

func TestToCamelCase(t *testing.T) {
	assert.Equal(t, "gen", ToCamelCase("Gen"))
	assert.Equal(t, "uRL", ToCamelCase("URL"))
	assert.Equal(t, "", ToCamelCase(""))
}
