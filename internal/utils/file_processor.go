package utils

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/markgen/internal/errors"
)

// GeneratedFileSuffix is the suffix of every file markgen writes
const GeneratedFileSuffix = "_markgen.go"

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct{}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// DefaultGoFileFilter filters for .go files, excluding tests
func DefaultGoFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		name := info.Name()
		return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
	}
}

// GeneratedFileFilter filters for files named like markgen output
func GeneratedFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		return strings.HasSuffix(info.Name(), GeneratedFileSuffix)
	}
}

// DefaultDirectoryFilter skips common directories that shouldn't contain source code
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()

		// hidden and underscore-prefixed dirs are ignored by the go tool too
		if (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) && name != "." && name != ".." {
			return false
		}

		return !skipDirs[name]
	}
}

// WalkFiles walks through files in a directory tree with filtering.
// The root directory itself is never filtered out.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.WalkDir(rootDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path != rootDir && options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matchedFiles = append(matchedFiles, path)
		}

		return nil
	})

	return matchedFiles, err
}

// ScanDirectoriesWithGoFiles scans directories and returns those containing Go files
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(rootDirs []string) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, rootDir := range rootDirs {
		dirs, err := fp.scanDirectoryRecursive(rootDir, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}

	return packageDirs, nil
}

// scanDirectoryRecursive recursively scans a directory for Go files
func (fp *FileProcessor) scanDirectoryRecursive(dir string, visited map[string]bool) ([]string, error) {
	// absolute paths keep symlinked dirs from being scanned twice
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("resolve", dir, err)
	}

	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	var packageDirs []string

	hasGoFiles, err := fp.HasGoFiles(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("scan", dir, err)
	}

	if hasGoFiles {
		packageDirs = append(packageDirs, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("read directory", dir, err)
	}

	directoryFilter := DefaultDirectoryFilter()

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		entryPath := filepath.Join(dir, entry.Name())
		if !directoryFilter(entryPath, entry) {
			continue
		}

		subDirs, err := fp.scanDirectoryRecursive(entryPath, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, subDirs...)
	}

	return packageDirs, nil
}

// HasGoFiles checks if a directory contains any non-test .go files
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	files, err := fp.ListGoFiles(dir)
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// ListGoFiles returns the non-test Go files of a directory in sorted order
func (fp *FileProcessor) ListGoFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	fileFilter := DefaultGoFileFilter()

	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if fileFilter(path, entry) {
			files = append(files, path)
		}
	}

	sort.Strings(files)
	return files, nil
}

// FindGeneratedFiles returns every markgen output file below the given roots.
// A file only counts when its header marks it as generated.
func (fp *FileProcessor) FindGeneratedFiles(baseDirs []string) ([]string, error) {
	var generated []string

	for _, baseDir := range baseDirs {
		if baseDir == "" {
			baseDir = "."
		}
		if _, err := os.Stat(baseDir); os.IsNotExist(err) {
			continue
		}

		candidates, err := fp.WalkFiles(baseDir, FileWalkOptions{
			FileFilter:      GeneratedFileFilter(),
			DirectoryFilter: DefaultDirectoryFilter(),
			SkipErrors:      true,
		})
		if err != nil {
			return generated, errors.WrapFileSystemError("walk", baseDir, err)
		}

		for _, candidate := range candidates {
			ok, err := IsGeneratedFile(candidate)
			if err != nil {
				return generated, err
			}
			if ok {
				generated = append(generated, candidate)
			}
		}
	}

	sort.Strings(generated)
	return generated, nil
}

// CleanDirectories removes markgen output files from directory trees
func (fp *FileProcessor) CleanDirectories(baseDirs []string) ([]string, error) {
	files, err := fp.FindGeneratedFiles(baseDirs)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			return removed, errors.WrapFileSystemError("remove", file, err)
		}
		removed = append(removed, file)
	}

	return removed, nil
}

// IsGeneratedFile reports whether a Go file carries the standard generated-code header
func IsGeneratedFile(path string) (bool, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.PackageClauseOnly|parser.ParseComments)
	if err != nil {
		return false, errors.WrapParseError(fmt.Sprintf("header of %s", path), err)
	}
	return ast.IsGenerated(file), nil
}
