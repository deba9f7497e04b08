package models

// Option keys understood by the processor
const (
	OptionTarget  = "markgen.target"
	OptionPackage = "markgen.package"
	OptionMarker  = "markgen.marker"
)

// RejectReason explains why an element failed validation
type RejectReason int

const (
	RejectNone RejectReason = iota
	RejectWrongKind
	RejectNotPublic
)

// String returns the string representation of the reason
func (r RejectReason) String() string {
	switch r {
	case RejectWrongKind:
		return "WrongKind"
	case RejectNotPublic:
		return "NotPublic"
	default:
		return "None"
	}
}

// ValidationResult is the outcome of validating one element
type ValidationResult struct {
	Accepted    bool         // true when the element was collected
	QualifiedID string       // "Owner#member", set when accepted
	Reason      RejectReason // set when rejected
	Element     Element      // validated element
}

// Accepted returns an accepting result
func Accepted(qualifiedID string, element Element) ValidationResult {
	return ValidationResult{Accepted: true, QualifiedID: qualifiedID, Element: element}
}

// Rejected returns a rejecting result
func Rejected(reason RejectReason, element Element) ValidationResult {
	return ValidationResult{Reason: reason, Element: element}
}

// QualifiedID builds the "EnclosingType#member" identifier for an element
func QualifiedID(e Element) string {
	return e.EnclosingType() + "#" + e.Name()
}

// RoundInput is what the host hands to a processor for one round
type RoundInput struct {
	Round          int               // 1-based round number
	Annotations    []string          // marker names present in this round
	Elements       []Element         // marked elements in discovery order
	RootElements   []Element         // top-level declarations visible this round
	ProcessingOver bool              // true on the final round
	Options        map[string]string // processor options
}

// Option returns the named option and whether it was set to a non-blank value
func (in RoundInput) Option(key string) (string, bool) {
	if in.Options == nil {
		return "", false
	}
	value, ok := in.Options[key]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// RoundResult is what a processor returns for one round
type RoundResult struct {
	Handled     bool               // true when the marker was consumed by this processor
	Diagnostics []Diagnostic       // records produced during the round
	Results     []ValidationResult // validation outcomes, up to and including the first rejection
	Collected   []string           // accepted qualified identifiers in scan order
	Generated   *GeneratedUnit     // unit written this round, nil when nothing was written
}

// HasErrors reports whether the round produced an ERROR diagnostic
func (r RoundResult) HasErrors() bool {
	return HasErrors(r.Diagnostics)
}
