package fs

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Walker collects files under a root matching include patterns and not
// matching exclude patterns. Patterns are doublestar globs relative to root.
type Walker struct {
	includes []string
	excludes []string
}

func NewWalker(includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*.txt", "**/*.md"}
	}
	return &Walker{
		includes: includes,
		excludes: excludes,
	}
}

// Walk returns the relative paths of all matching files under root.
func (w *Walker) Walk(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if w.matches(w.excludes, relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if w.matches(w.includes, relPath) && !w.matches(w.excludes, relPath) {
			files = append(files, relPath)
		}
		return nil
	})

	return files, err
}

func (w *Walker) matches(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}
