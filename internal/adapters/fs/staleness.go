package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/zerr"
)

// ignoredSourceDirs are build output directories never considered sources.
var ignoredSourceDirs = []string{"target"}

// StalenessChecker implements ports.StalenessChecker by comparing modification times.
type StalenessChecker struct {
	walker      *Walker
	extensions  []string
	descriptors []string
}

// NewStalenessChecker creates a checker that considers files with one of the
// given extensions and files named like one of the descriptors.
func NewStalenessChecker(walker *Walker, extensions, descriptors []string) *StalenessChecker {
	return &StalenessChecker{
		walker:      walker,
		extensions:  extensions,
		descriptors: descriptors,
	}
}

// NeedsRebuild reports whether target is missing or any relevant file under
// sourceDir is strictly newer than it.
func (s *StalenessChecker) NeedsRebuild(sourceDir, target string) (bool, error) {
	info, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to stat build output"), "path", target)
	}
	built := info.ModTime()

	for path, walkErr := range s.walker.WalkFiles(sourceDir, ignoredSourceDirs) {
		if walkErr != nil {
			return false, zerr.With(zerr.Wrap(walkErr, "failed to scan sources"), "path", sourceDir)
		}
		if !s.relevant(path) {
			continue
		}

		fi, err := os.Stat(path)
		if err != nil {
			// Removed between listing and stat.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return false, zerr.With(zerr.Wrap(err, "failed to stat source file"), "path", path)
		}
		if fi.ModTime().After(built) {
			return true, nil
		}
	}

	return false, nil
}

func (s *StalenessChecker) relevant(path string) bool {
	return slices.Contains(s.extensions, filepath.Ext(path)) ||
		slices.Contains(s.descriptors, filepath.Base(path))
}
