package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/markgen/internal/utils"
)

const generatedHeader = "// Code generated by markgen. DO NOT EDIT.\n\npackage gen\n"

func TestCleaner_CleanGeneratedFiles(t *testing.T) {
	root := t.TempDir()
	top := filepath.Join(root, "listing_markgen.go")
	nested := filepath.Join(root, "a", "b", "handlers_markgen.go")
	handWritten := filepath.Join(root, "a", "notes_markgen.go")
	regular := filepath.Join(root, "a", "a.go")

	writeGoFile(t, root, "listing_markgen.go", generatedHeader)
	writeGoFile(t, filepath.Join(root, "a", "b"), "handlers_markgen.go", generatedHeader)
	writeGoFile(t, filepath.Join(root, "a"), "notes_markgen.go", "package a\n")
	writeGoFile(t, filepath.Join(root, "a"), "a.go", generatedHeader)

	t.Run("single directory", func(t *testing.T) {
		removed, err := NewCleaner().CleanGeneratedFiles([]string{root})
		require.NoError(t, err)
		assert.Equal(t, []string{top}, removed)
		assert.FileExists(t, nested)
	})

	t.Run("recursive", func(t *testing.T) {
		removed, err := NewCleaner().CleanGeneratedFiles([]string{root + "/..."})
		require.NoError(t, err)
		assert.Equal(t, []string{nested}, removed)

		assert.NoFileExists(t, nested)
		assert.FileExists(t, handWritten)
		assert.FileExists(t, regular)
	})

	t.Run("missing directory", func(t *testing.T) {
		removed, err := NewCleaner().CleanGeneratedFiles([]string{filepath.Join(root, "missing")})
		require.NoError(t, err)
		assert.Empty(t, removed)
	})
}

func TestCleaner_RemovesGeneratorOutput(t *testing.T) {
	root, pkgDir := writeModule(t, handlersSource)
	g, _, _ := newTestGenerator(utils.DiagnosticSilent)
	require.NoError(t, g.Run(Config{Directories: []string{pkgDir}, Target: "example.com/app/registry.Handlers"}))

	removed, err := NewCleaner().CleanGeneratedFiles([]string{root + "/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "registry", "handlers_markgen.go")}, removed)

	_, err = os.Stat(filepath.Join(pkgDir, "handlers.go"))
	assert.NoError(t, err)
}
