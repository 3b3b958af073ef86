// Package filesystem locates Go package directories.
//
// It mirrors the go tool's view of a tree: directories named testdata or
// starting with "." or "_" are skipped, as are vendor and node_modules.
//
// Expand package arguments the way go generate does:
//
//	dirs, err := filesystem.ExpandPatterns([]string{"./..."})
//	for _, dir := range dirs {
//	    fmt.Println(dir)
//	}
package filesystem
