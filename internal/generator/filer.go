package generator

import (
	"io"
	"os"
	"path/filepath"

	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/models"
	"github.com/toyz/markgen/internal/utils"
)

// Filer creates the destination of a generated unit. Each Create starts the
// file from scratch.
type Filer interface {
	Create(target models.EmissionTarget, fileName string) (io.WriteCloser, error)
}

// PathResolver is implemented by filers that can tell where a unit will be written
type PathResolver interface {
	Resolve(target models.EmissionTarget, fileName string) (string, error)
}

// FilerFunc adapts a function to the Filer interface
type FilerFunc func(target models.EmissionTarget, fileName string) (io.WriteCloser, error)

// Create calls f
func (f FilerFunc) Create(target models.EmissionTarget, fileName string) (io.WriteCloser, error) {
	return f(target, fileName)
}

// DirFiler writes generated units to the directory of their target package
type DirFiler struct {
	OutputRoot  string // when set, units go to OutputRoot/<package path>
	ModuleDir   string // directory used to locate go.mod, defaults to the working directory
	FallbackDir string // directory for targets without a package path

	gomod *utils.GoModParser
}

// NewDirFiler creates a filer resolving package paths against the module containing moduleDir
func NewDirFiler(outputRoot, moduleDir string) *DirFiler {
	return &DirFiler{
		OutputRoot: outputRoot,
		ModuleDir:  moduleDir,
		gomod:      utils.NewGoModParser(),
	}
}

// Resolve returns the path a unit will be written to
func (f *DirFiler) Resolve(target models.EmissionTarget, fileName string) (string, error) {
	dir, err := f.packageDir(target)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Create creates or truncates the unit's file, making parent directories as needed
func (f *DirFiler) Create(target models.EmissionTarget, fileName string) (io.WriteCloser, error) {
	path, err := f.Resolve(target, fileName)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.WrapFileSystemError("create directory for", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("create", path, err)
	}
	return file, nil
}

func (f *DirFiler) packageDir(target models.EmissionTarget) (string, error) {
	moduleDir := f.ModuleDir
	if moduleDir == "" {
		moduleDir = "."
	}

	if !target.HasPackage() {
		switch {
		case f.FallbackDir != "":
			return f.FallbackDir, nil
		case f.OutputRoot != "":
			return f.OutputRoot, nil
		default:
			return moduleDir, nil
		}
	}

	if f.OutputRoot != "" {
		return filepath.Join(f.OutputRoot, filepath.FromSlash(target.PackagePath)), nil
	}

	if f.gomod == nil {
		f.gomod = utils.NewGoModParser()
	}
	dir, err := f.gomod.ResolvePackageDir(moduleDir, target.PackagePath)
	if err != nil {
		return "", err
	}
	return dir, nil
}
