package cli

import (
	"os"

	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/utils"
)

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	gomod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{
		gomod: utils.NewGoModParser(),
	}
}

// ModuleInfo describes the main module
type ModuleInfo struct {
	Path string // module path from go.mod
	Root string // directory containing go.mod
}

// Resolve finds the module containing dir, or the working directory when dir is empty
func (r *ModuleResolver) Resolve(dir string) (ModuleInfo, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ModuleInfo{}, errors.WrapFileSystemError("resolve", ".", err)
		}
		dir = wd
	}

	path, root, err := r.gomod.ModuleRoot(dir)
	if err != nil {
		return ModuleInfo{}, err
	}
	return ModuleInfo{Path: path, Root: root}, nil
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(packageDir string) (string, error) {
	return r.gomod.ImportPathForDir(packageDir)
}
