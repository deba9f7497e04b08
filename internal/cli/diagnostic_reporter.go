package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"

	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/models"
	"github.com/toyz/markgen/internal/utils"
)

// DiagnosticReporter renders processor diagnostics and CLI errors
type DiagnosticReporter struct {
	diagnostics *utils.DiagnosticSystem
	dumper      *spew.ConfigState
}

// NewDiagnosticReporter creates a reporter writing through the given diagnostic system
func NewDiagnosticReporter(diagnostics *utils.DiagnosticSystem) *DiagnosticReporter {
	return &DiagnosticReporter{
		diagnostics: diagnostics,
		dumper: &spew.ConfigState{
			Indent:                  "  ",
			MaxDepth:                4,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		},
	}
}

// Verbose reports whether verbose output is enabled
func (r *DiagnosticReporter) Verbose() bool {
	return r.diagnostics.Enabled(utils.DiagnosticVerbose)
}

// ReportDiagnostic prints one diagnostic as "file:line:col: severity: message".
// Records backed by a typed error print as "error[Code]" followed by its hints.
// Notes are only shown in verbose mode.
func (r *DiagnosticReporter) ReportDiagnostic(d models.Diagnostic) {
	var (
		level utils.DiagnosticLevel
		attrs []color.Attribute
	)
	switch d.Severity {
	case models.SeverityError:
		level, attrs = utils.DiagnosticError, []color.Attribute{color.FgRed, color.Bold}
	case models.SeverityWarning:
		level, attrs = utils.DiagnosticWarn, []color.Attribute{color.FgYellow, color.Bold}
	default:
		level, attrs = utils.DiagnosticVerbose, []color.Attribute{color.FgCyan}
	}
	if !r.diagnostics.Enabled(level) {
		return
	}

	out := r.diagnostics.ErrorOutput()
	if loc := d.Location(); !loc.IsEmpty() {
		fmt.Fprintf(out, "%s: ", loc)
	}
	var me errors.MarkgenError
	if d.Cause != nil && stderrors.As(d.Cause, &me) {
		r.diagnostics.Paint(attrs...).Fprintf(out, "%s[%s]:", d.Severity, me.ErrorCode())
		fmt.Fprintf(out, " %s\n", d.Message)
		r.printSuggestions(out, me.Suggestions())
		return
	}
	r.diagnostics.Paint(attrs...).Fprintf(out, "%s:", d.Severity)
	fmt.Fprintf(out, " %s\n", d.Message)
}

// ReportDiagnostics prints every diagnostic in order
func (r *DiagnosticReporter) ReportDiagnostics(diagnostics []models.Diagnostic) {
	for _, d := range diagnostics {
		r.ReportDiagnostic(d)
	}
}

// ReportWarning provides user-friendly warning reporting
func (r *DiagnosticReporter) ReportWarning(message string, suggestions ...string) {
	if !r.diagnostics.Enabled(utils.DiagnosticWarn) {
		return
	}
	out := r.diagnostics.ErrorOutput()
	r.diagnostics.Paint(color.FgYellow, color.Bold).Fprint(out, "! ")
	fmt.Fprintf(out, "%s\n", message)
	r.printSuggestions(out, suggestions)
}

// ReportError prints an error with its location, context and suggestions
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil || !r.diagnostics.Enabled(utils.DiagnosticError) {
		return
	}

	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) {
		for _, e := range multi.Errors {
			r.ReportError(e)
		}
		return
	}

	out := r.diagnostics.ErrorOutput()

	var me errors.MarkgenError
	if !stderrors.As(err, &me) {
		r.diagnostics.Paint(color.FgRed, color.Bold).Fprint(out, "error:")
		fmt.Fprintf(out, " %s\n", err.Error())
		return
	}

	if loc := me.Location(); !loc.IsEmpty() {
		fmt.Fprintf(out, "%s: ", loc)
	}
	r.diagnostics.Paint(color.FgRed, color.Bold).Fprintf(out, "error[%s]:", me.ErrorCode())
	fmt.Fprintf(out, " %s\n", messageWithoutLocation(me))

	if r.Verbose() {
		r.printContext(out, me.Context())
	}
	r.printSuggestions(out, me.Suggestions())
}

// messageWithoutLocation strips the location prefix Error() adds
func messageWithoutLocation(me errors.MarkgenError) string {
	msg := me.Error()
	if loc := me.Location(); !loc.IsEmpty() {
		msg = strings.TrimPrefix(msg, loc.String()+": ")
	}
	return msg
}

func (r *DiagnosticReporter) printContext(out io.Writer, context map[string]interface{}) {
	if len(context) == 0 {
		return
	}

	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(out, "    %s: %v\n", formatContextKey(key), context[key])
	}
}

// formatContextKey turns snake_case keys into readable labels
func formatContextKey(key string) string {
	words := strings.Split(key, "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

func (r *DiagnosticReporter) printSuggestions(out io.Writer, suggestions []string) {
	for _, suggestion := range suggestions {
		r.diagnostics.Paint(color.FgGreen).Fprint(out, "  hint: ")
		fmt.Fprintf(out, "%s\n", suggestion)
	}
}

// DumpRoundInput prints the full round input in verbose mode
func (r *DiagnosticReporter) DumpRoundInput(in models.RoundInput) {
	if !r.Verbose() {
		return
	}
	out := r.diagnostics.Output()
	r.diagnostics.Paint(color.FgHiBlack).Fprintf(out, "round %d input:\n", in.Round)
	fmt.Fprint(out, r.dumper.Sdump(in))
}

// ReportSuccess prints the generated files and final statistics
func (r *DiagnosticReporter) ReportSuccess(summary GenerationSummary) {
	if len(summary.GeneratedFiles) > 0 {
		r.diagnostics.Subsection("Generated files")
		for _, file := range summary.GeneratedFiles {
			r.diagnostics.PhaseProgress("Writing " + file)
		}
	}

	r.diagnostics.Summary("Generation complete", map[string]interface{}{
		"Packages processed": summary.PackagesProcessed,
		"Marked elements":    summary.MarkedElements,
		"Collected methods":  summary.Collected,
		"Rounds":             summary.Rounds,
		"Warnings":           summary.Warnings,
		"Errors":             summary.Errors,
	})
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	PackagesProcessed int
	MarkedElements    int
	Collected         int
	Rounds            int
	Notes             int
	Warnings          int
	Errors            int
	GeneratedFiles    []string
}

// add counts the diagnostics of one round
func (s *GenerationSummary) add(diagnostics []models.Diagnostic) {
	s.Notes += models.CountSeverity(diagnostics, models.SeverityNote)
	s.Warnings += models.CountSeverity(diagnostics, models.SeverityWarning)
	s.Errors += models.CountSeverity(diagnostics, models.SeverityError)
}
