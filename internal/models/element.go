package models

import "fmt"

// ElementKind classifies a declaration found in scanned source
type ElementKind int

const (
	KindUnknown ElementKind = iota
	KindMethod
	KindInterfaceMethod
	KindFunction
	KindConstructor
	KindField
	KindType
	KindVariable
	KindConstant
)

// String returns the string representation of the element kind
func (k ElementKind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindInterfaceMethod:
		return "interface method"
	case KindFunction:
		return "function"
	case KindConstructor:
		return "constructor"
	case KindField:
		return "field"
	case KindType:
		return "type"
	case KindVariable:
		return "variable"
	case KindConstant:
		return "constant"
	default:
		return "unknown"
	}
}

// IsCallableMember reports whether the kind is a method-like member of a type.
// Free functions and constructors are callable but have no enclosing type.
func (k ElementKind) IsCallableMember() bool {
	return k == KindMethod || k == KindInterfaceMethod
}

// Visibility is the accessibility of a declaration
type Visibility int

const (
	Private Visibility = iota
	Public
)

// String returns the string representation of the visibility
func (v Visibility) String() string {
	if v == Public {
		return "public"
	}
	return "private"
}

// SourceLocation represents a position in scanned source code
type SourceLocation struct {
	File   string // file path
	Line   int    // line number (1-based)
	Column int    // column number (1-based)
}

// String returns a formatted string representation of the location
func (s SourceLocation) String() string {
	if s.File == "" {
		return "unknown location"
	}
	if s.Line == 0 {
		return s.File
	}
	if s.Column == 0 {
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// IsEmpty returns true if the location has no useful information
func (s SourceLocation) IsEmpty() bool {
	return s.File == ""
}

// Parameter describes one parameter of a callable element
type Parameter struct {
	Name     string // parameter name, "_" when unnamed
	Type     string // parameter type as written in source
	Position int    // 0-based position in the parameter list
}

// Element is a read-only view of a declaration in the scanned program.
// The pipeline never mutates an Element.
type Element interface {
	Name() string
	EnclosingType() string
	Kind() ElementKind
	Visibility() Visibility
	Parameters() []Parameter
	Location() SourceLocation
}

// SourceElement is the Element implementation built by the parser
type SourceElement struct {
	ElemName      string         // simple name of the declaration
	Enclosing     string         // simple name of the enclosing type, empty for top-level declarations
	ElemKind      ElementKind    // declaration kind
	ElemVis       Visibility     // declaration visibility
	Params        []Parameter    // parameters, only set for callables
	Loc           SourceLocation // position of the declaration name
	PackageName   string         // Go package the declaration belongs to
	MarkerComment string         // raw marker comment, empty for unmarked root elements
}

func (e *SourceElement) Name() string             { return e.ElemName }
func (e *SourceElement) EnclosingType() string    { return e.Enclosing }
func (e *SourceElement) Kind() ElementKind        { return e.ElemKind }
func (e *SourceElement) Visibility() Visibility   { return e.ElemVis }
func (e *SourceElement) Parameters() []Parameter  { return e.Params }
func (e *SourceElement) Location() SourceLocation { return e.Loc }

// String renders the element the way diagnostics refer to it
func (e *SourceElement) String() string {
	return DescribeElement(e)
}

// DescribeElement returns a short human readable name for any Element
func DescribeElement(e Element) string {
	if e == nil {
		return ""
	}
	if e.EnclosingType() != "" {
		return e.EnclosingType() + "." + e.Name()
	}
	return e.Name()
}
