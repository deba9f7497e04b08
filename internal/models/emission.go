package models

// EmissionTarget is the fully qualified name of the unit to generate, split
// into its package and type parts
type EmissionTarget struct {
	QualifiedName string // name as configured, e.g. "example.com/app/registry.Handlers"
	PackagePath   string // import path, empty when the target has no package part
	PackageName   string // Go package name used in the package clause
	ClassName     string // exported type name of the generated holder
}

// HasPackage reports whether the target names an import path
func (t EmissionTarget) HasPackage() bool {
	return t.PackagePath != ""
}

// GeneratedUnit is one generated source file
type GeneratedUnit struct {
	Target   EmissionTarget // target the unit was generated for
	FileName string         // base file name
	Path     string         // where the unit was written, empty if the filer does not expose paths
	Content  []byte         // formatted source
}

// PackageScan is everything the parser found in one Go package
type PackageScan struct {
	PackageName  string    // name of the Go package
	PackagePath  string    // import path when known, otherwise the directory
	Dir          string    // directory containing the sources
	Files        []string  // parsed files in sorted order
	Markers      []string  // marker names seen on elements, deduplicated in discovery order
	Elements     []Element // marked elements in discovery order
	RootElements []Element // top-level types and funcs
	MarkerErrors []error   // malformed marker comments, reported but not fatal
}

// HasMarkers reports whether any element in the package carries a marker
func (p *PackageScan) HasMarkers() bool {
	return len(p.Elements) > 0
}
