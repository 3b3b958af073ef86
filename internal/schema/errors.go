package schema

import (
	"errors"
	"fmt"
	"go/token"
	"sort"
	"strings"

	"github.com/simonhull/heron/internal/annotation"
)

var (
	ErrStructural         = errors.New("applicable only to struct types")
	ErrDuplicateRole      = errors.New("duplicate unique role")
	ErrInvalidName        = errors.New("invalid index name")
	ErrDuplicateAttribute = errors.New("duplicate attribute name")
	ErrNameCollision      = errors.New("collides with generated code")
)

// StructuralError is raised when the annotated type cannot be described:
// it is not a struct, it is generic, or an embedded field carries
// annotations.
type StructuralError struct {
	Pos      token.Position
	TypeName string
	Reason   string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s: applicable only to struct types (%s)", e.Pos, e.TypeName, e.Reason)
}

func (e *StructuralError) Is(target error) bool { return target == ErrStructural }

// DuplicateRoleError is raised at the second field marked with a role that
// only one field may hold.
type DuplicateRoleError struct {
	Pos      token.Position
	TypeName string
	Role     annotation.Role
	Field    string
	Previous string
}

func (e *DuplicateRoleError) Error() string {
	return fmt.Sprintf("%s: only one field can be marked as %s (%s.%s already is, found %s)",
		e.Pos, roleDescription(e.Role), e.TypeName, e.Previous, e.Field)
}

func (e *DuplicateRoleError) Is(target error) bool { return target == ErrDuplicateRole }

func roleDescription(r annotation.Role) string {
	if r == annotation.RolePrimaryKey {
		return "primary key"
	}
	return r.String()
}

// DuplicateAttributeError is raised at the second annotated field whose
// attribute name, usually from a json tag, is already taken.
type DuplicateAttributeError struct {
	Pos       token.Position
	TypeName  string
	Attribute string
	Field     string
	Previous  string
}

func (e *DuplicateAttributeError) Error() string {
	return fmt.Sprintf("%s: attribute %q of %s.%s is already used by %s.%s",
		e.Pos, e.Attribute, e.TypeName, e.Field, e.TypeName, e.Previous)
}

func (e *DuplicateAttributeError) Is(target error) bool { return target == ErrDuplicateAttribute }

// CollisionError is raised when a name the generated file declares for a
// type is already used by the type or its package.
type CollisionError struct {
	Pos      token.Position
	TypeName string
	Name     string
	Reason   string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: %s: %s collides with generated code (%s)", e.Pos, e.TypeName, e.Name, e.Reason)
}

func (e *CollisionError) Is(target error) bool { return target == ErrNameCollision }

// InvalidNameError is raised when the resolved index name breaks the naming
// guidelines.
type InvalidNameError struct {
	Pos      token.Position
	TypeName string
	Name     string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("%s: index %q must follow the naming guidelines (ASCII letters, digits, '-' and '_')", e.Pos, e.Name)
}

func (e *InvalidNameError) Is(target error) bool { return target == ErrInvalidName }

// Diagnostics collects the per-type failures of a package, at most one per
// type.
type Diagnostics []error

func (d Diagnostics) Error() string {
	if len(d) == 0 {
		return "no diagnostics"
	}
	if len(d) == 1 {
		return d[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "found %d errors:\n", len(d))
	for i, err := range d {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Err returns nil for an empty collection.
func (d Diagnostics) Err() error {
	if len(d) == 0 {
		return nil
	}
	return d
}

// Sort orders diagnostics by source position.
func (d Diagnostics) Sort() {
	sort.SliceStable(d, func(i, j int) bool {
		pi, pj := Position(d[i]), Position(d[j])
		if pi.Filename != pj.Filename {
			return pi.Filename < pj.Filename
		}
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		return pi.Column < pj.Column
	})
}

// Position extracts the source position of a diagnostic, or the zero
// position for foreign errors.
func Position(err error) token.Position {
	var (
		structural *StructuralError
		duplicate  *DuplicateRoleError
		invalid    *InvalidNameError
		attribute  *DuplicateAttributeError
		collision  *CollisionError
		malformed  *annotation.MalformedAnnotationError
	)
	switch {
	case errors.As(err, &structural):
		return structural.Pos
	case errors.As(err, &duplicate):
		return duplicate.Pos
	case errors.As(err, &invalid):
		return invalid.Pos
	case errors.As(err, &attribute):
		return attribute.Pos
	case errors.As(err, &collision):
		return collision.Pos
	case errors.As(err, &malformed):
		return malformed.Pos
	}
	return token.Position{}
}
