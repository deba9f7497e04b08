package parser

import (
	"go/ast"
	goparser "go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/markgen/internal/annotations"
	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/models"
	"github.com/toyz/markgen/internal/utils"
)

// Parser turns Go source into the elements the processor works on
type Parser struct {
	fileSet *token.FileSet
	markers *annotations.MarkerParser
	cache   *utils.Cache[string, *ast.File]
	files   *utils.FileProcessor
	gomod   *utils.GoModParser
}

// NewParser creates a parser recognizing the default marker
func NewParser() *Parser {
	return NewParserWithMarker(annotations.MustMarkerParser(annotations.DefaultMarker))
}

// NewParserWithMarker creates a parser recognizing the given marker
func NewParserWithMarker(markers *annotations.MarkerParser) *Parser {
	return &Parser{
		fileSet: token.NewFileSet(),
		markers: markers,
		cache:   utils.NewCache[string, *ast.File](),
		files:   utils.NewFileProcessor(),
		gomod:   utils.NewGoModParser(),
	}
}

// Marker returns the marker parser in use
func (p *Parser) Marker() *annotations.MarkerParser {
	return p.markers
}

// FileSet returns the file set positions are recorded in
func (p *Parser) FileSet() *token.FileSet {
	return p.fileSet
}

// parsedFile pairs a syntax tree with the name it was read from
type parsedFile struct {
	name string
	file *ast.File
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(filename, source string) (*models.PackageScan, error) {
	file, err := goparser.ParseFile(p.fileSet, filename, source, goparser.ParseComments)
	if err != nil {
		return nil, errors.WrapParseError(filename, err)
	}

	return p.buildScan(file.Name.Name, "", filepath.Dir(filename), []parsedFile{{name: filename, file: file}})
}

// ParseFile parses a single Go file into its own scan
func (p *Parser) ParseFile(path string) (*models.PackageScan, error) {
	file, err := p.parseCached(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	return p.buildScan(file.Name.Name, p.importPath(dir), dir, []parsedFile{{name: path, file: file}})
}

// ParseDirectory parses the non-test Go files of one directory
func (p *Parser) ParseDirectory(dir string) (*models.PackageScan, error) {
	paths, err := p.files.ListGoFiles(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("read directory", dir, err)
	}
	if len(paths) == 0 {
		return nil, errors.Newf(errors.FileSystemErrorCode, "no Go files found in directory %s", dir)
	}

	files := make([]parsedFile, 0, len(paths))
	packageName := ""
	for _, path := range paths {
		file, err := p.parseCached(path)
		if err != nil {
			return nil, err
		}

		if packageName == "" {
			packageName = file.Name.Name
		} else if file.Name.Name != packageName {
			return nil, errors.Newf(errors.SyntaxErrorCode,
				"multiple packages found in directory %s: %s and %s", dir, packageName, file.Name.Name)
		}

		files = append(files, parsedFile{name: path, file: file})
	}

	return p.buildScan(packageName, p.importPath(dir), dir, files)
}

// parseCached parses a file, reusing the tree while the file is unchanged
func (p *Parser) parseCached(path string) (*ast.File, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}

	if file, ok := p.cache.GetWithFileValidation(key, path); ok {
		return file, nil
	}

	file, err := goparser.ParseFile(p.fileSet, path, nil, goparser.ParseComments)
	if err != nil {
		return nil, errors.WrapParseError(path, err)
	}

	_ = p.cache.SetWithFileInfo(key, file, path)
	return file, nil
}

// importPath returns the import path of dir, or dir itself outside a module
func (p *Parser) importPath(dir string) string {
	if path, err := p.gomod.ImportPathForDir(dir); err == nil {
		return path
	}
	return dir
}

// buildScan extracts marked and root elements from the files of one package
func (p *Parser) buildScan(packageName, packagePath, dir string, files []parsedFile) (*models.PackageScan, error) {
	sort.SliceStable(files, func(i, j int) bool { return files[i].name < files[j].name })

	scan := &models.PackageScan{
		PackageName: packageName,
		PackagePath: packagePath,
		Dir:         dir,
	}

	localTypes := make(map[string]bool)
	for _, f := range files {
		scan.Files = append(scan.Files, f.name)
		for name := range declaredTypes(f.file) {
			localTypes[name] = true
		}
	}

	extractor := &elementExtractor{
		parser:      p,
		packageName: packageName,
		localTypes:  localTypes,
		scan:        scan,
		seenMarkers: make(map[string]bool),
		problems:    errors.NewMultipleErrors(),
	}

	for _, f := range files {
		extractor.extractFile(f.file)
	}

	if !extractor.problems.IsEmpty() {
		scan.MarkerErrors = extractor.problems.Unwrap()
	}
	return scan, nil
}

// declaredTypes returns the names of all top-level types in a file
func declaredTypes(file *ast.File) map[string]bool {
	names := make(map[string]bool)
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			if ts, ok := spec.(*ast.TypeSpec); ok {
				names[ts.Name.Name] = true
			}
		}
	}
	return names
}

// elementExtractor walks declarations in source order and records elements
type elementExtractor struct {
	parser      *Parser
	packageName string
	localTypes  map[string]bool
	scan        *models.PackageScan
	seenMarkers map[string]bool
	problems    *errors.MultipleErrors
}

func (x *elementExtractor) extractFile(file *ast.File) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			x.extractFunc(d)
		case *ast.GenDecl:
			x.extractGenDecl(d)
		}
	}
}

func (x *elementExtractor) extractFunc(decl *ast.FuncDecl) {
	element := &models.SourceElement{
		ElemName:    decl.Name.Name,
		ElemVis:     visibilityOf(decl.Name.Name),
		Params:      parametersOf(decl.Type),
		Loc:         x.location(decl.Name.Pos()),
		PackageName: x.packageName,
	}

	switch {
	case decl.Recv != nil && len(decl.Recv.List) > 0:
		element.ElemKind = models.KindMethod
		element.Enclosing = receiverTypeName(decl.Recv.List[0].Type)
	case x.isConstructor(decl):
		element.ElemKind = models.KindConstructor
	default:
		element.ElemKind = models.KindFunction
	}

	if decl.Recv == nil {
		x.scan.RootElements = append(x.scan.RootElements, element)
	}

	x.collect(element, decl.Doc)
}

func (x *elementExtractor) extractGenDecl(decl *ast.GenDecl) {
	for _, spec := range decl.Specs {
		switch s := spec.(type) {
		case *ast.TypeSpec:
			element := &models.SourceElement{
				ElemName:    s.Name.Name,
				ElemKind:    models.KindType,
				ElemVis:     visibilityOf(s.Name.Name),
				Loc:         x.location(s.Name.Pos()),
				PackageName: x.packageName,
			}
			x.scan.RootElements = append(x.scan.RootElements, element)
			x.collect(element, decl.Doc, s.Doc)
			x.extractMembers(s)

		case *ast.ValueSpec:
			kind := models.KindVariable
			if decl.Tok == token.CONST {
				kind = models.KindConstant
			}
			for _, name := range s.Names {
				if name.Name == "_" {
					continue
				}
				element := &models.SourceElement{
					ElemName:    name.Name,
					ElemKind:    kind,
					ElemVis:     visibilityOf(name.Name),
					Loc:         x.location(name.Pos()),
					PackageName: x.packageName,
				}
				x.collect(element, decl.Doc, s.Doc)
			}
		}
	}
}

// extractMembers records marked struct fields and interface methods
func (x *elementExtractor) extractMembers(spec *ast.TypeSpec) {
	switch t := spec.Type.(type) {
	case *ast.StructType:
		for _, field := range t.Fields.List {
			names := field.Names
			if len(names) == 0 {
				// embedded field, named after its type
				names = []*ast.Ident{{Name: receiverTypeName(field.Type), NamePos: field.Type.Pos()}}
			}
			for _, name := range names {
				element := &models.SourceElement{
					ElemName:    name.Name,
					Enclosing:   spec.Name.Name,
					ElemKind:    models.KindField,
					ElemVis:     visibilityOf(name.Name),
					Loc:         x.location(name.Pos()),
					PackageName: x.packageName,
				}
				x.collect(element, field.Doc)
			}
		}

	case *ast.InterfaceType:
		for _, field := range t.Methods.List {
			fn, ok := field.Type.(*ast.FuncType)
			if !ok || len(field.Names) == 0 {
				continue
			}
			name := field.Names[0]
			element := &models.SourceElement{
				ElemName:    name.Name,
				Enclosing:   spec.Name.Name,
				ElemKind:    models.KindInterfaceMethod,
				ElemVis:     visibilityOf(name.Name),
				Params:      parametersOf(fn),
				Loc:         x.location(name.Pos()),
				PackageName: x.packageName,
			}
			x.collect(element, field.Doc)
		}
	}
}

// collect records one marked copy of element per valid marker comment
func (x *elementExtractor) collect(element *models.SourceElement, docs ...*ast.CommentGroup) {
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, comment := range doc.List {
			if !x.parser.markers.Match(comment.Text) {
				continue
			}

			marker, err := x.parser.markers.Parse(comment.Text, x.location(comment.Slash))
			if err != nil {
				if me, ok := err.(errors.MarkgenError); ok {
					x.problems.Add(me)
				} else {
					x.problems.Add(errors.WrapParseError("marker", err))
				}
				continue
			}

			marked := *element
			marked.MarkerComment = marker.Raw
			x.scan.Elements = append(x.scan.Elements, &marked)

			name := marker.QualifiedName()
			if !x.seenMarkers[name] {
				x.seenMarkers[name] = true
				x.scan.Markers = append(x.scan.Markers, name)
			}
		}
	}
}

// isConstructor reports whether a top-level func is NewX returning a local type first
func (x *elementExtractor) isConstructor(decl *ast.FuncDecl) bool {
	if !strings.HasPrefix(decl.Name.Name, "New") {
		return false
	}
	results := decl.Type.Results
	if results == nil || len(results.List) == 0 {
		return false
	}
	return x.localTypes[receiverTypeName(results.List[0].Type)]
}

func (x *elementExtractor) location(pos token.Pos) models.SourceLocation {
	position := x.parser.fileSet.Position(pos)
	return models.SourceLocation{
		File:   position.Filename,
		Line:   position.Line,
		Column: position.Column,
	}
}

// receiverTypeName returns the base type name through pointers, parens and type arguments
func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.ParenExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	default:
		return ""
	}
}

// parametersOf flattens a signature's parameter list
func parametersOf(fn *ast.FuncType) []models.Parameter {
	if fn == nil || fn.Params == nil {
		return nil
	}

	var params []models.Parameter
	for _, field := range fn.Params.List {
		typ := types.ExprString(field.Type)
		if len(field.Names) == 0 {
			params = append(params, models.Parameter{Name: "_", Type: typ, Position: len(params)})
			continue
		}
		for _, name := range field.Names {
			params = append(params, models.Parameter{Name: name.Name, Type: typ, Position: len(params)})
		}
	}
	return params
}

func visibilityOf(name string) models.Visibility {
	if token.IsExported(name) {
		return models.Public
	}
	return models.Private
}
