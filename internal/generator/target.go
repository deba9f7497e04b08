package generator

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/mod/module"

	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/models"
	"github.com/toyz/markgen/internal/utils"
)

// DefaultPackageName is used for targets that carry no package path
const DefaultPackageName = "main"

// ParseTarget splits a qualified target such as "example.com/app/registry.Handlers"
// at its last '.' into package path and type name. A '.' at index 0 or no '.'
// at all leaves the package path empty.
func ParseTarget(qualified, defaultPackage string) (models.EmissionTarget, error) {
	qualified = strings.TrimSpace(qualified)
	if qualified == "" {
		return models.EmissionTarget{}, errors.NewInvalidTarget(qualified, "target is empty")
	}

	period := strings.LastIndex(qualified, ".")
	packagePath := ""
	if period > 0 {
		packagePath = qualified[:period]
	}
	className := qualified[period+1:]

	if !token.IsIdentifier(className) || !token.IsExported(className) {
		return models.EmissionTarget{}, errors.NewInvalidTarget(qualified,
			"type name "+strconv.Quote(className)+" must be an exported Go identifier")
	}

	target := models.EmissionTarget{
		QualifiedName: qualified,
		PackagePath:   packagePath,
		ClassName:     className,
	}

	if packagePath == "" {
		if defaultPackage == "" {
			defaultPackage = DefaultPackageName
		}
		if !token.IsIdentifier(defaultPackage) {
			return models.EmissionTarget{}, errors.NewInvalidTarget(qualified,
				"package name "+strconv.Quote(defaultPackage)+" is not a Go identifier")
		}
		target.PackageName = defaultPackage
		return target, nil
	}

	if err := module.CheckImportPath(packagePath); err != nil {
		return models.EmissionTarget{}, errors.NewInvalidTarget(qualified, "invalid package path").WithCause(err)
	}

	target.PackageName = PackageNameForPath(packagePath)
	return target, nil
}

// PackageNameForPath derives a package name from the last element of an import path.
// Major version suffixes are dropped and characters that cannot appear in an
// identifier become '_'.
func PackageNameForPath(packagePath string) string {
	prefix, _, ok := module.SplitPathVersion(packagePath)
	if !ok || prefix == "" {
		prefix = packagePath
	}

	last := prefix
	if i := strings.LastIndex(prefix, "/"); i >= 0 {
		last = prefix[i+1:]
	}

	name := strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, last)

	if name == "" || unicode.IsDigit([]rune(name)[0]) {
		name = "_" + name
	}
	if token.IsKeyword(name) {
		name += "_"
	}
	return name
}

// FileName returns the name of the generated file for a target
func FileName(target models.EmissionTarget) string {
	return strings.ToLower(target.ClassName) + utils.GeneratedFileSuffix
}
