package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/models"
)

func TestNewMarkerParser(t *testing.T) {
	t.Run("default marker", func(t *testing.T) {
		p, err := NewMarkerParser("")
		require.NoError(t, err)
		assert.Equal(t, DefaultMarker, p.QualifiedName())
	})

	t.Run("custom marker", func(t *testing.T) {
		p, err := NewMarkerParser("acme::subscribe")
		require.NoError(t, err)
		assert.Equal(t, "acme::subscribe", p.QualifiedName())
	})

	invalid := []string{"acme", "acme::", "::subscribe", "ac-me::subscribe", "acme::sub scribe", "1acme::x"}
	for _, marker := range invalid {
		t.Run("invalid "+marker, func(t *testing.T) {
			_, err := NewMarkerParser(marker)
			require.Error(t, err)
			assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))
		})
	}
}

func TestMarkerParser_Match(t *testing.T) {
	p := MustMarkerParser(DefaultMarker)

	tests := []struct {
		comment string
		want    bool
	}{
		{"//markgen::collect", true},
		{"// markgen::collect", true},
		{"//markgen::other", true},
		{"//markgen::collect extra", true},
		{"// Foo does things", false},
		{"//other::route GET /", false},
		{"/* markgen::collect */", false},
		{"//go:generate markgen", false},
	}

	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Match(tt.comment))
		})
	}
}

func TestMarkerParser_Parse(t *testing.T) {
	p := MustMarkerParser(DefaultMarker)
	loc := models.SourceLocation{File: "foo.go", Line: 7, Column: 1}

	t.Run("plain marker", func(t *testing.T) {
		m, err := p.Parse("//markgen::collect", loc)
		require.NoError(t, err)
		assert.Equal(t, "markgen", m.Namespace)
		assert.Equal(t, "collect", m.Name)
		assert.Equal(t, DefaultMarker, m.QualifiedName())
		assert.Equal(t, loc, m.Location)
	})

	t.Run("spaces are allowed", func(t *testing.T) {
		m, err := p.Parse("//  markgen::collect  ", loc)
		require.NoError(t, err)
		assert.Equal(t, "collect", m.Name)
	})

	t.Run("trailing arguments are rejected", func(t *testing.T) {
		_, err := p.Parse("//markgen::collect -Name=x", loc)
		require.Error(t, err)

		var syntaxErr *errors.SyntaxError
		require.ErrorAs(t, err, &syntaxErr)
		assert.Equal(t, "-Name=x", syntaxErr.Token)
		assert.Equal(t, 7, syntaxErr.Location().Line)
		assert.Greater(t, syntaxErr.Location().Column, 1)
		assert.NotEmpty(t, syntaxErr.Suggestions())
	})

	t.Run("unknown marker name", func(t *testing.T) {
		_, err := p.Parse("//markgen::colect", loc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown marker markgen::colect")
		assert.Equal(t, errors.SyntaxErrorCode, errors.CodeOf(err))
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := p.Parse("//markgen::", loc)
		require.Error(t, err)
		assert.Equal(t, errors.SyntaxErrorCode, errors.CodeOf(err))
	})
}
