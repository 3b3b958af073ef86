package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverGoPackages finds all directories under rootPath holding non-test
// Go files. Returns a sorted list of package directory paths.
func DiscoverGoPackages(rootPath string) ([]string, error) {
	pkgDirs := make(map[string]bool)

	err := Walk(rootPath, WalkOptions{IgnorePatterns: []string{"*_test.go"}}, func(path string, d fs.DirEntry) error {
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".go") {
			return nil
		}
		pkgDirs[filepath.Dir(path)] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover packages: %w", err)
	}

	result := make([]string, 0, len(pkgDirs))
	for dir := range pkgDirs {
		result = append(result, dir)
	}
	sort.Strings(result)

	return result, nil
}

// ExpandPatterns turns package arguments into directories. "dir/..."
// expands to every package below dir; anything else is taken as a
// directory. No arguments means the current directory. Duplicates are
// removed, first occurrence wins.
func ExpandPatterns(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, arg := range args {
		if arg != "..." && !strings.HasSuffix(arg, "/...") {
			add(arg)
			continue
		}

		root := strings.TrimSuffix(strings.TrimSuffix(arg, "..."), "/")
		if root == "" {
			root = "."
		}
		found, err := DiscoverGoPackages(root)
		if err != nil {
			return nil, err
		}
		for _, dir := range found {
			add(dir)
		}
	}
	return dirs, nil
}
