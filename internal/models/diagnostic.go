package models

import "fmt"

// Severity is the kind of a diagnostic record
type Severity int

const (
	SeverityNote Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lower-case label used when printing diagnostics
func (s Severity) String() string {
	switch s {
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText lets reports serialize severities by name
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is one record on the diagnostic channel
type Diagnostic struct {
	Severity Severity // NOTE, WARNING or ERROR
	Message  string   // human readable message
	Element  Element  // element the record is about, may be nil
	Cause    error    // typed error behind an ERROR record, may be nil
}

// Location returns the element location, or an empty location
func (d Diagnostic) Location() SourceLocation {
	if d.Element == nil {
		return SourceLocation{}
	}
	return d.Element.Location()
}

// String formats the diagnostic as "file:line:col: severity: message"
func (d Diagnostic) String() string {
	loc := d.Location()
	if loc.IsEmpty() {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", loc, d.Severity, d.Message)
}

// Note creates a NOTE diagnostic
func Note(message string, element Element) Diagnostic {
	return Diagnostic{Severity: SeverityNote, Message: message, Element: element}
}

// Warning creates a WARNING diagnostic
func Warning(message string, element Element) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Message: message, Element: element}
}

// Error creates an ERROR diagnostic
func Error(message string, element Element) Diagnostic {
	return Diagnostic{Severity: SeverityError, Message: message, Element: element}
}

// ErrorFrom creates an ERROR diagnostic carrying err, so its code survives reporting
func ErrorFrom(err error, element Element) Diagnostic {
	return Diagnostic{Severity: SeverityError, Message: err.Error(), Element: element, Cause: err}
}

// CountSeverity returns how many diagnostics have the given severity
func CountSeverity(diagnostics []Diagnostic, severity Severity) int {
	count := 0
	for _, d := range diagnostics {
		if d.Severity == severity {
			count++
		}
	}
	return count
}

// HasErrors reports whether any diagnostic is an ERROR
func HasErrors(diagnostics []Diagnostic) bool {
	return CountSeverity(diagnostics, SeverityError) > 0
}
