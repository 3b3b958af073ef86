package schema

import (
	"go/token"

	"github.com/iancoleman/strcase"

	"github.com/simonhull/heron/internal/annotation"
)

// DefaultIndexName derives an index name from a type name
// (UserProfile -> user_profile).
func DefaultIndexName(typeName string) string {
	return strcase.ToSnake(typeName)
}

// IsValidIndexName reports whether name is non-empty and made only of ASCII
// letters, digits, '-' and '_'.
func IsValidIndexName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// ResolveIndexName picks the explicit indexName override when present and
// the snake_case type name otherwise, then validates it. The returned
// position is the override key or the type name.
func ResolveIndexName(decl annotation.TypeDecl, ann annotation.StructAnnotations) (string, token.Position, error) {
	name, pos := DefaultIndexName(decl.Name), decl.Pos
	if ann.IndexName != nil {
		name, pos = ann.IndexName.Value, ann.IndexName.Pos
	}

	if !IsValidIndexName(name) {
		return "", pos, &InvalidNameError{Pos: pos, TypeName: decl.Name, Name: name}
	}
	return name, pos, nil
}
