package parser

import (
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/models"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedSyntax

// LoadPackages resolves package patterns with the go tool and scans every
// matched package. dir is the working directory patterns are relative to.
func (p *Parser) LoadPackages(dir string, patterns ...string) ([]*models.PackageScan, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	cfg := &packages.Config{
		Mode:  loadMode,
		Dir:   dir,
		Fset:  p.fileSet,
		Tests: false,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(errors.FileSystemErrorCode, err, "failed to load packages %s", strings.Join(patterns, " "))
	}

	loadErrors := errors.NewMultipleErrors()
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, perr := range pkg.Errors {
			loadErrors.Add(errors.Newf(errors.SyntaxErrorCode, "%s", perr.Msg).
				WithContext("package", pkg.PkgPath).
				WithContext("position", perr.Pos))
		}
	})
	if err := loadErrors.ErrOrNil(); err != nil {
		return nil, err
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	var scans []*models.PackageScan
	for _, pkg := range pkgs {
		files := make([]parsedFile, 0, len(pkg.Syntax))
		for _, file := range pkg.Syntax {
			name := p.fileSet.Position(file.Package).Filename
			if strings.HasSuffix(name, "_test.go") {
				continue
			}
			files = append(files, parsedFile{name: name, file: file})
		}
		if len(files) == 0 {
			continue
		}

		pkgDir := ""
		if len(pkg.GoFiles) > 0 {
			pkgDir = filepath.Dir(pkg.GoFiles[0])
		}

		scan, err := p.buildScan(pkg.Name, pkg.PkgPath, pkgDir, files)
		if err != nil {
			return nil, err
		}
		scans = append(scans, scan)
	}

	return scans, nil
}
