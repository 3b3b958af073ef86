package schema

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/simonhull/heron/internal/annotation"
)

// Options configures descriptor building.
type Options struct {
	// Strict reports malformed annotation blocks instead of skipping them.
	Strict bool

	// Declared holds the package-level names of the package, used to
	// detect collisions with the generated constant.
	Declared map[string]token.Position
}

// generatedMethods are declared on every annotated type by the generated file.
var generatedMethods = []string{"IndexName", "GenerateSettings", "GenerateIndex"}

func (o Options) annotationOptions() annotation.Options {
	return annotation.Options{Strict: o.Strict}
}

// Build validates one annotated declaration and produces its descriptor.
func Build(decl annotation.TypeDecl, opts Options) (*Descriptor, error) {
	if err := checkStructure(decl); err != nil {
		return nil, err
	}
	if err := checkCollisions(decl, opts); err != nil {
		return nil, err
	}

	ann, err := annotation.ParseStruct(decl.Blocks, opts.annotationOptions())
	if err != nil {
		return nil, err
	}

	name, pos, err := ResolveIndexName(decl, ann)
	if err != nil {
		return nil, err
	}

	d := newDescriptor(decl.Name)
	d.IndexName = name
	d.IndexNamePos = pos

	// attribute name -> field that claimed it
	claimed := make(map[string]string)
	for _, field := range decl.Fields {
		if field.Embedded {
			continue
		}
		roles, err := annotation.ParseField(field.Blocks, opts.annotationOptions())
		if err != nil {
			return nil, err
		}
		if roles.IsEmpty() {
			continue
		}
		if previous, ok := claimed[field.Name]; ok {
			return nil, &DuplicateAttributeError{
				Pos:       field.Pos,
				TypeName:  decl.Name,
				Attribute: field.Name,
				Field:     field.Ident,
				Previous:  previous,
			}
		}
		claimed[field.Name] = field.Ident
		if err := d.assign(decl, field, roles); err != nil {
			return nil, err
		}
	}

	d.Pagination = ResolvePagination(ann)
	return d, nil
}

// BuildAll builds every declaration independently. Failing types are left
// out of the result and reported in the diagnostics.
func BuildAll(decls []annotation.TypeDecl, opts Options) ([]*Descriptor, Diagnostics) {
	var (
		descriptors []*Descriptor
		diags       Diagnostics
	)
	for _, decl := range decls {
		d, err := Build(decl, opts)
		if err != nil {
			diags = append(diags, err)
			continue
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, diags
}

func checkStructure(decl annotation.TypeDecl) error {
	structural := func(reason string) error {
		return &StructuralError{Pos: decl.Pos, TypeName: decl.Name, Reason: reason}
	}

	if !decl.IsStruct() {
		return structural(fmt.Sprintf("%s is declared as %s", decl.Name, kindPhrase(decl.Kind)))
	}
	if decl.TypeParams {
		return structural("generic types are not supported")
	}
	for _, field := range decl.Fields {
		if field.Embedded && len(field.Blocks) > 0 {
			return &StructuralError{
				Pos:      field.Pos,
				TypeName: decl.Name,
				Reason:   fmt.Sprintf("embedded field %s cannot carry annotations", field.Ident),
			}
		}
	}
	return nil
}

// checkCollisions rejects types that already declare a name the generated
// file would add.
func checkCollisions(decl annotation.TypeDecl, opts Options) error {
	collision := func(pos token.Position, name, reason string) error {
		return &CollisionError{Pos: pos, TypeName: decl.Name, Name: name, Reason: reason}
	}

	for _, name := range generatedMethods {
		for _, field := range decl.Fields {
			if field.Ident == name {
				return collision(field.Pos, name, "field of "+decl.Name)
			}
		}
		if pos, ok := decl.Methods[name]; ok {
			return collision(pos, name, "method of "+decl.Name)
		}
	}

	constName := decl.Name + "IndexName"
	if pos, ok := opts.Declared[constName]; ok {
		return collision(pos, constName, "declared in package")
	}
	return nil
}

func kindPhrase(kind string) string {
	if kind == "" {
		return "an unknown type"
	}
	if strings.ContainsRune("aeiou", rune(kind[0])) {
		return "an " + kind
	}
	return "a " + kind
}

// assign records the roles of one field, enforcing the unique roles.
func (d *Descriptor) assign(decl annotation.TypeDecl, field annotation.FieldDecl, roles annotation.RoleSet) error {
	for _, role := range roles.Roles() {
		if slot := d.unique(role); slot != nil {
			if *slot != "" {
				return &DuplicateRoleError{
					Pos:      field.Pos,
					TypeName: decl.Name,
					Role:     role,
					Field:    field.Name,
					Previous: *slot,
				}
			}
			*slot = field.Name
			continue
		}
		list := d.list(role)
		*list = append(*list, field.Name)
	}
	return nil
}
