package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatGoCode(t *testing.T) {
	src := "package demo\nimport \"slices\"\nfunc   F( ) []int {return slices.Clone([]int{1})}\n"

	out, err := FormatGoCode("demo.go", []byte(src))
	require.NoError(t, err)
	assert.Contains(t, string(out), "func F() []int {")
	assert.Contains(t, string(out), "import \"slices\"")
}

func TestFormatGoCode_KeepsUnusedImports(t *testing.T) {
	src := "package demo\n\nimport \"strings\"\n"

	out, err := FormatGoCode("demo.go", []byte(src))
	require.NoError(t, err)
	assert.Contains(t, string(out), "\"strings\"")
}

func TestFormatGoCode_InvalidSyntax(t *testing.T) {
	src := "package demo\nfunc {"

	out, err := FormatGoCode("demo.go", []byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid Go syntax")
	assert.Equal(t, src, string(out))
}

