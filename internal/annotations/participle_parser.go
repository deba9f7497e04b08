package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/models"
)

// DefaultMarker is the marker used when no markgen.marker option is given
const DefaultMarker = "markgen::collect"

// markerSeparator splits a marker namespace from its name
const markerSeparator = "::"

// markerComment is the grammar of a marker comment. Markers carry no data so
// anything after the name is rejected.
type markerComment struct {
	Comment   string `parser:"@Comment"`
	Namespace string `parser:"@Ident"`
	Separator string `parser:"@Separator"`
	Name      string `parser:"@Ident"`
}

var markerLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//`},
	{Name: "Separator", Pattern: `::`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Other", Pattern: `\S`},
})

// Marker is a parsed marker comment
type Marker struct {
	Namespace string                // text before "::"
	Name      string                // text after "::"
	Raw       string                // original comment text
	Location  models.SourceLocation // where the comment starts
}

// QualifiedName returns "namespace::name"
func (m Marker) QualifiedName() string {
	return m.Namespace + markerSeparator + m.Name
}

// MarkerParser recognizes and parses one marker
type MarkerParser struct {
	parser    *participle.Parser[markerComment]
	namespace string
	name      string
}

// NewMarkerParser creates a parser for a marker written as "namespace::name".
// An empty string selects DefaultMarker.
func NewMarkerParser(qualified string) (*MarkerParser, error) {
	if qualified == "" {
		qualified = DefaultMarker
	}

	namespace, name, ok := strings.Cut(qualified, markerSeparator)
	if !ok || !isIdent(namespace) || !isIdent(name) {
		return nil, errors.Newf(errors.ConfigurationErrorCode, "invalid marker %q", qualified).
			WithSuggestion("Markers are written as namespace::name, e.g. " + DefaultMarker)
	}

	return &MarkerParser{
		parser: participle.MustBuild[markerComment](
			participle.Lexer(markerLexer),
			participle.Elide("Whitespace"),
		),
		namespace: namespace,
		name:      name,
	}, nil
}

// MustMarkerParser is like NewMarkerParser but panics on an invalid marker
func MustMarkerParser(qualified string) *MarkerParser {
	p, err := NewMarkerParser(qualified)
	if err != nil {
		panic(err)
	}
	return p
}

// QualifiedName returns the marker this parser recognizes
func (p *MarkerParser) QualifiedName() string {
	return p.namespace + markerSeparator + p.name
}

// Match reports whether a comment belongs to the marker namespace. Comments
// that match must then parse cleanly.
func (p *MarkerParser) Match(comment string) bool {
	if !strings.HasPrefix(comment, "//") {
		return false
	}
	text := strings.TrimSpace(strings.TrimPrefix(comment, "//"))
	return strings.HasPrefix(text, p.namespace+markerSeparator)
}

// Parse parses a single marker comment
func (p *MarkerParser) Parse(comment string, location models.SourceLocation) (*Marker, error) {
	parsed, err := p.parser.ParseString(location.File, comment)
	if err != nil {
		return nil, p.syntaxError(comment, location, err)
	}

	if parsed.Namespace != p.namespace {
		return nil, errors.NewSyntaxErrorWithToken(
			fmt.Sprintf("unexpected marker namespace %q", parsed.Namespace), parsed.Namespace, 0).
			WithLocation(location)
	}

	if parsed.Name != p.name {
		return nil, errors.NewSyntaxErrorWithToken(
			fmt.Sprintf("unknown marker %s%s%s", parsed.Namespace, markerSeparator, parsed.Name), parsed.Name, 0).
			WithLocation(location).
			WithSuggestion(fmt.Sprintf("The only supported marker is //%s", p.QualifiedName()))
	}

	return &Marker{
		Namespace: parsed.Namespace,
		Name:      parsed.Name,
		Raw:       comment,
		Location:  location,
	}, nil
}

// syntaxError converts a participle failure into a located SyntaxError
func (p *MarkerParser) syntaxError(comment string, location models.SourceLocation, err error) error {
	message := err.Error()
	offset := 0
	if perr, ok := err.(participle.Error); ok {
		message = perr.Message()
		offset = perr.Position().Offset
	}

	token := ""
	if offset >= 0 && offset < len(comment) {
		if fields := strings.Fields(comment[offset:]); len(fields) > 0 {
			token = fields[0]
		}
	}

	loc := location
	if loc.Column > 0 {
		loc.Column += offset
	}

	return errors.NewSyntaxErrorWithToken(fmt.Sprintf("malformed marker: %s", message), token, offset).
		WithLocation(loc).
		WithSuggestion(fmt.Sprintf("Markers take no arguments: write //%s on its own line", p.QualifiedName()))
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
