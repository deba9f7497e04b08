package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"

	"github.com/toyz/markgen/internal/errors"
)

// GoModParser provides utilities for parsing go.mod files
type GoModParser struct {
	cache *Cache[string, string]
}

// NewGoModParser creates a new go.mod parser with caching
func NewGoModParser() *GoModParser {
	return &GoModParser{
		cache: NewCacheWithSize[string, string](64),
	}
}

// ParseModuleName extracts the module name from a go.mod file
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return "", errors.Newf(errors.ConfigurationErrorCode, "file is not a go.mod file: %s", goModPath)
	}

	if name, ok := p.cache.GetWithFileValidation(cleanPath, cleanPath); ok {
		return name, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", errors.WrapFileSystemError("read", cleanPath, err)
	}

	modFile, err := modfile.ParseLax(cleanPath, content, nil)
	if err != nil {
		return "", errors.WrapParseError(cleanPath, err)
	}

	if modFile.Module == nil {
		return "", errors.Newf(errors.ConfigurationErrorCode, "no module declaration found in %s", cleanPath)
	}

	name := modFile.Module.Mod.Path
	_ = p.cache.SetWithFileInfo(cleanPath, name, cleanPath)
	return name, nil
}

// FindGoModFile searches for go.mod file starting from the given directory and walking up
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", startDir, err)
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if stat, err := os.Stat(goModPath); err == nil && !stat.IsDir() {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", errors.Newf(errors.FileSystemErrorCode, "go.mod file not found above %s", startDir)
}

// ModuleRoot returns the module path and root directory of the module containing startDir
func (p *GoModParser) ModuleRoot(startDir string) (modulePath, rootDir string, err error) {
	goModPath, err := p.FindGoModFile(startDir)
	if err != nil {
		return "", "", err
	}

	modulePath, err = p.ParseModuleName(goModPath)
	if err != nil {
		return "", "", err
	}

	return modulePath, filepath.Dir(goModPath), nil
}

// ResolvePackageDir maps an import path inside the module containing startDir to its directory
func (p *GoModParser) ResolvePackageDir(startDir, importPath string) (string, error) {
	if err := module.CheckImportPath(importPath); err != nil {
		return "", errors.Wrapf(errors.ConfigurationErrorCode, err, "invalid import path %q", importPath)
	}

	modulePath, rootDir, err := p.ModuleRoot(startDir)
	if err != nil {
		return "", err
	}

	if importPath == modulePath {
		return rootDir, nil
	}

	rel, ok := strings.CutPrefix(importPath, modulePath+"/")
	if !ok {
		return "", errors.Newf(errors.ConfigurationErrorCode,
			"package %s is outside module %s", importPath, modulePath).
			WithSuggestion("Use --output-dir to write packages outside the main module")
	}

	return filepath.Join(rootDir, filepath.FromSlash(rel)), nil
}

// ImportPathForDir returns the import path of a directory inside the module containing it
func (p *GoModParser) ImportPathForDir(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", dir, err)
	}

	modulePath, rootDir, err := p.ModuleRoot(absDir)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(rootDir, absDir)
	if err != nil {
		return "", errors.WrapFileSystemError("relate", dir, err)
	}
	if rel == "." {
		return modulePath, nil
	}

	return fmt.Sprintf("%s/%s", modulePath, filepath.ToSlash(rel)), nil
}
