package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/utils"
)

// DirectoryScanner handles directory scanning for Go files
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// SplitPattern returns the base directory of a pattern and whether it recurses
func SplitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	if strings.HasSuffix(pattern, "/...") {
		base := strings.TrimSuffix(pattern, "/...")
		if base == "" {
			base = "."
		}
		return base, true
	}
	return pattern, false
}

// ScanDirectories returns the directories containing Go files for the given patterns.
// "dir/..." recurses into subdirectories; a plain directory is scanned on its own.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	var packageDirs []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		base, recursive := SplitPattern(pattern)

		cleanPath, err := filepath.Abs(base)
		if err != nil {
			return nil, errors.WrapWithOperation("process", fmt.Sprintf("path resolution %s", base), err)
		}

		var dirs []string
		if recursive {
			dirs, err = s.fileProcessor.ScanDirectoriesWithGoFiles([]string{cleanPath})
			if err != nil {
				return nil, err
			}
		} else {
			hasGoFiles, err := s.fileProcessor.HasGoFiles(cleanPath)
			if err != nil {
				return nil, errors.WrapFileSystemError("scan", cleanPath, err)
			}
			if hasGoFiles {
				dirs = []string{cleanPath}
			}
		}

		for _, dir := range dirs {
			if !seen[dir] {
				seen[dir] = true
				packageDirs = append(packageDirs, dir)
			}
		}
	}

	return packageDirs, nil
}
