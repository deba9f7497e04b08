package processor

import (
	"bytes"
	stderrors "errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/generator"
	"github.com/toyz/markgen/internal/models"
)

// memoryFiler keeps every created unit in memory
type memoryFiler struct {
	files    map[string]*memoryFile
	creates  int
	writeErr error
	closeErr error
	panicMsg string
}

type memoryFile struct {
	bytes.Buffer
	filer  *memoryFiler
	closed bool
}

func (f *memoryFile) Write(p []byte) (int, error) {
	if f.filer.writeErr != nil {
		return 0, f.filer.writeErr
	}
	return f.Buffer.Write(p)
}

func (f *memoryFile) Close() error {
	f.closed = true
	return f.filer.closeErr
}

func newMemoryFiler() *memoryFiler {
	return &memoryFiler{files: make(map[string]*memoryFile)}
}

func (m *memoryFiler) Create(target models.EmissionTarget, fileName string) (io.WriteCloser, error) {
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	m.creates++
	file := &memoryFile{filer: m}
	m.files[target.PackagePath+"/"+fileName] = file
	return file, nil
}

var _ generator.Filer = (*memoryFiler)(nil)

func options(target string) map[string]string {
	return map[string]string{models.OptionTarget: target}
}

func roundInput(elements ...*fakeElement) models.RoundInput {
	in := models.RoundInput{
		Round:    1,
		Elements: asElements(elements...),
		Options:  options("com.example.Gen"),
	}
	if len(elements) > 0 {
		in.Annotations = []string{"markgen::collect"}
	}
	return in
}

func messages(diagnostics []models.Diagnostic, severity models.Severity) []string {
	var out []string
	for _, d := range diagnostics {
		if d.Severity == severity {
			out = append(out, d.Message)
		}
	}
	return out
}

func TestMarkerProcessor_MissingTarget(t *testing.T) {
	for name, opts := range map[string]map[string]string{
		"nil options":  nil,
		"absent":       {models.OptionPackage: "x"},
		"blank target": {models.OptionTarget: ""},
	} {
		t.Run(name, func(t *testing.T) {
			filer := newMemoryFiler()
			in := roundInput(method("Foo", "Bar", models.Public))
			in.Options = opts

			result := NewMarkerProcessor(filer).Process(in)

			assert.False(t, result.Handled)
			require.Len(t, result.Diagnostics, 1)
			assert.Equal(t, models.SeverityError, result.Diagnostics[0].Severity)
			assert.Equal(t, "No option markgen.target passed to processor", result.Diagnostics[0].Message)
			assert.Equal(t, []errors.ErrorCode{errors.ConfigurationMissingCode}, errorCodes(result.Diagnostics))
			assert.Zero(t, filer.creates)
			assert.Nil(t, result.Generated)
		})
	}
}

func TestMarkerProcessor_EmptyAnnotationSetIsUnhandled(t *testing.T) {
	filer := newMemoryFiler()

	result := NewMarkerProcessor(filer).Process(roundInput())

	assert.False(t, result.Handled)
	assert.False(t, result.HasErrors())
	assert.Equal(t, []string{"round 1 process over false"}, messages(result.Diagnostics, models.SeverityNote))
	assert.Zero(t, filer.creates)
}

func TestMarkerProcessor_ProcessingOver(t *testing.T) {
	t.Run("with annotations", func(t *testing.T) {
		filer := newMemoryFiler()
		in := roundInput(method("Foo", "Bar", models.Public))
		in.ProcessingOver = true

		result := NewMarkerProcessor(filer).Process(in)

		assert.False(t, result.Handled)
		assert.Equal(t, []string{
			"Unexpected processing state: annotations still available after processing over",
		}, messages(result.Diagnostics, models.SeverityError))
		assert.Equal(t, []errors.ErrorCode{errors.RoundStateInconsistencyCode}, errorCodes(result.Diagnostics))
		assert.Zero(t, filer.creates)
	})

	t.Run("without annotations", func(t *testing.T) {
		in := roundInput()
		in.Round = 3
		in.ProcessingOver = true

		result := NewMarkerProcessor(newMemoryFiler()).Process(in)

		assert.False(t, result.Handled)
		assert.False(t, result.HasErrors())
		assert.Equal(t, []string{"round 3 process over true"}, messages(result.Diagnostics, models.SeverityNote))
	})
}

func TestMarkerProcessor_GeneratesListing(t *testing.T) {
	filer := newMemoryFiler()
	root := &fakeElement{name: "Foo", kind: models.KindType, vis: models.Public}
	in := roundInput(
		method("Foo", "bar", models.Public, models.Parameter{Name: "n", Type: "int"}),
		method("Foo", "baz", models.Public),
	)
	in.RootElements = []models.Element{root}

	result := NewMarkerProcessor(filer).Process(in)

	assert.True(t, result.Handled)
	assert.False(t, result.HasErrors())
	assert.Equal(t, []string{"Foo#bar", "Foo#baz"}, result.Collected)
	assert.Equal(t, []string{
		"round 1 process over false",
		"name is markgen::collect",
		"root element Foo",
		"parameter: n int (#0)",
	}, messages(result.Diagnostics, models.SeverityNote))

	require.NotNil(t, result.Generated)
	assert.Equal(t, "com.example", result.Generated.Target.PackagePath)
	assert.Equal(t, "Gen", result.Generated.Target.ClassName)

	require.Equal(t, 1, filer.creates)
	file := filer.files["com.example/gen_markgen.go"]
	require.NotNil(t, file)
	assert.True(t, file.closed)

	content := file.String()
	assert.Equal(t, 2, strings.Count(content, "genAnnotations = append(genAnnotations, "))
	assert.Less(t, strings.Index(content, `"Foo#bar"`), strings.Index(content, `"Foo#baz"`))
	assert.Contains(t, content, "func (Gen) Annotations() []string")
}

func TestMarkerProcessor_FailFastWritesNothing(t *testing.T) {
	filer := newMemoryFiler()
	m3 := method("Foo", "M3", models.Public)

	result := NewMarkerProcessor(filer).Process(roundInput(
		method("Foo", "M1", models.Public),
		method("Foo", "m2", models.Private),
		m3,
	))

	assert.True(t, result.Handled)
	assert.Equal(t, []string{"Collected method must be exported"}, messages(result.Diagnostics, models.SeverityError))
	assert.Equal(t, []errors.ErrorCode{errors.NotPublicElementCode}, errorCodes(result.Diagnostics))
	assert.Equal(t, []string{"Foo#M1"}, result.Collected)
	assert.Nil(t, result.Generated)
	assert.Zero(t, filer.creates)
	assert.Empty(t, m3.calls)
}

func TestMarkerProcessor_NoElementsWarns(t *testing.T) {
	filer := newMemoryFiler()
	in := roundInput()
	in.Annotations = []string{"markgen::collect"}

	result := NewMarkerProcessor(filer).Process(in)

	assert.True(t, result.Handled)
	assert.Equal(t, []string{"No //markgen::collect markers found"}, messages(result.Diagnostics, models.SeverityWarning))
	assert.Zero(t, filer.creates)
}

func TestMarkerProcessor_CustomMarker(t *testing.T) {
	in := roundInput(&fakeElement{name: "Cfg", kind: models.KindField, vis: models.Public})
	in.Annotations = []string{"events::subscribe"}
	in.Options[models.OptionMarker] = "events::subscribe"

	result := NewMarkerProcessor(newMemoryFiler()).Process(in)

	assert.Equal(t, []string{"Only methods can be annotated with //events::subscribe"},
		messages(result.Diagnostics, models.SeverityError))
}

func TestMarkerProcessor_WriteFailure(t *testing.T) {
	filer := newMemoryFiler()
	filer.writeErr = stderrors.New("disk full")

	result := NewMarkerProcessor(filer).Process(roundInput(method("Foo", "Bar", models.Public)))

	assert.True(t, result.Handled)
	assert.Nil(t, result.Generated)
	assert.Equal(t, []string{"Could not write source for com.example.Gen: disk full"},
		messages(result.Diagnostics, models.SeverityError))
	assert.Equal(t, []errors.ErrorCode{errors.EmissionIOFailureCode}, errorCodes(result.Diagnostics))
}

func TestMarkerProcessor_CloseFailureIgnored(t *testing.T) {
	filer := newMemoryFiler()
	filer.closeErr = stderrors.New("close failed")

	result := NewMarkerProcessor(filer).Process(roundInput(method("Foo", "Bar", models.Public)))

	assert.True(t, result.Handled)
	assert.False(t, result.HasErrors())
	assert.NotNil(t, result.Generated)
}

func TestMarkerProcessor_InvalidTarget(t *testing.T) {
	filer := newMemoryFiler()
	in := roundInput(method("Foo", "Bar", models.Public))
	in.Options = options("com.example.gen")

	result := NewMarkerProcessor(filer).Process(in)

	assert.True(t, result.Handled)
	errs := messages(result.Diagnostics, models.SeverityError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `invalid target "com.example.gen"`)
	assert.Equal(t, []errors.ErrorCode{errors.ConfigurationErrorCode}, errorCodes(result.Diagnostics))
	assert.Zero(t, filer.creates)
}

func TestMarkerProcessor_RecoversPanics(t *testing.T) {
	filer := newMemoryFiler()
	filer.panicMsg = "boom"
	var stack bytes.Buffer

	result := NewMarkerProcessor(filer).WithStackOutput(&stack).Process(roundInput(method("Foo", "Bar", models.Public)))

	assert.True(t, result.Handled)
	assert.Equal(t, []string{"Unexpected error in processor: boom"}, messages(result.Diagnostics, models.SeverityError))
	assert.Equal(t, []errors.ErrorCode{errors.UnexpectedInternalCode}, errorCodes(result.Diagnostics))
	assert.Contains(t, stack.String(), "panic: boom")
	assert.Contains(t, stack.String(), "goroutine")
}

func TestMarkerProcessor_CollectionDoesNotLeak(t *testing.T) {
	p := NewMarkerProcessor(newMemoryFiler())

	first := p.Process(roundInput(method("Foo", "A", models.Public)))
	second := p.Process(roundInput(method("Bar", "B", models.Public)))

	assert.Equal(t, []string{"Foo#A"}, first.Collected)
	assert.Equal(t, []string{"Bar#B"}, second.Collected)
}

func TestMarkerProcessor_ImplementsProcessor(t *testing.T) {
	var p Processor = NewMarkerProcessor(newMemoryFiler())
	assert.NotNil(t, p)
}

// errorCodes returns the error code behind every ERROR diagnostic
func errorCodes(diagnostics []models.Diagnostic) []errors.ErrorCode {
	var codes []errors.ErrorCode
	for _, d := range diagnostics {
		if d.Severity == models.SeverityError {
			codes = append(codes, errors.CodeOf(d.Cause))
		}
	}
	return codes
}
