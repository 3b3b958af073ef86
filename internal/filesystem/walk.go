package filesystem

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// DefaultIgnoreDirs are directories never searched for packages
var DefaultIgnoreDirs = []string{
	"node_modules", "vendor", "testdata",
}

// WalkOptions configures directory traversal behavior
type WalkOptions struct {
	IgnoreDirs     []string // Directories to skip (default: DefaultIgnoreDirs)
	IgnorePatterns []string // File patterns to skip (e.g., "*_test.go")
}

// Walk traverses a directory tree, skipping ignored directories and
// directories starting with "." or "_". The visitor is called for files and
// directories alike; return filepath.SkipDir from it to prune a directory.
func Walk(rootPath string, opts WalkOptions, visitor func(path string, d fs.DirEntry) error) error {
	ignoreDirs := opts.IgnoreDirs
	if ignoreDirs == nil {
		ignoreDirs = DefaultIgnoreDirs
	}

	return filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if path != rootPath && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			for _, ignore := range ignoreDirs {
				if name == ignore && path != rootPath {
					return filepath.SkipDir
				}
			}
		} else {
			for _, pattern := range opts.IgnorePatterns {
				if matched, _ := filepath.Match(pattern, name); matched {
					return nil
				}
			}
		}

		return visitor(path, d)
	})
}
