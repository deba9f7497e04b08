package cli

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// CleanGeneratedFiles removes markgen output files matched by the patterns and
// returns the removed paths. Files without the generated header are left alone.
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	var removed []string

	for _, pattern := range patterns {
		base, recursive := SplitPattern(pattern)

		var (
			files []string
			err   error
		)
		if recursive {
			files, err = c.fileProcessor.CleanDirectories([]string{base})
		} else {
			files, err = c.cleanSingleDirectory(base)
		}
		removed = append(removed, files...)
		if err != nil {
			return removed, errors.WrapWithOperation("clean", pattern, err)
		}
	}

	sort.Strings(removed)
	return removed, nil
}

// cleanSingleDirectory removes generated files directly inside dir
func (c *Cleaner) cleanSingleDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapFileSystemError("read directory", dir, err)
	}

	filter := utils.GeneratedFileFilter()
	var removed []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !filter(path, entry) {
			continue
		}

		generated, err := utils.IsGeneratedFile(path)
		if err != nil {
			return removed, err
		}
		if !generated {
			continue
		}

		if err := os.Remove(path); err != nil {
			return removed, errors.WrapFileSystemError("remove", path, err)
		}
		removed = append(removed, path)
	}

	return removed, nil
}
