package schema

import (
	"go/token"

	"github.com/simonhull/heron/internal/annotation"
)

// Descriptor is the validated index configuration of one annotated type.
// Field lists keep declaration order and are never nil.
type Descriptor struct {
	TypeName     string
	IndexName    string
	IndexNamePos token.Position

	PrimaryKey string // empty when no field is marked
	Distinct   string // empty when no field is marked

	Displayed  []string
	Searchable []string
	Filterable []string
	Sortable   []string

	Pagination *Pagination
}

func newDescriptor(typeName string) *Descriptor {
	return &Descriptor{
		TypeName:   typeName,
		Displayed:  []string{},
		Searchable: []string{},
		Filterable: []string{},
		Sortable:   []string{},
	}
}

func (d *Descriptor) HasPrimaryKey() bool { return d.PrimaryKey != "" }
func (d *Descriptor) HasDistinct() bool   { return d.Distinct != "" }

// Attributes returns the field list for a list role, or nil for primaryKey
// and distinct.
func (d *Descriptor) Attributes(role annotation.Role) []string {
	switch role {
	case annotation.RoleDisplayed:
		return d.Displayed
	case annotation.RoleSearchable:
		return d.Searchable
	case annotation.RoleFilterable:
		return d.Filterable
	case annotation.RoleSortable:
		return d.Sortable
	}
	return nil
}

func (d *Descriptor) list(role annotation.Role) *[]string {
	switch role {
	case annotation.RoleDisplayed:
		return &d.Displayed
	case annotation.RoleSearchable:
		return &d.Searchable
	case annotation.RoleFilterable:
		return &d.Filterable
	case annotation.RoleSortable:
		return &d.Sortable
	}
	return nil
}

func (d *Descriptor) unique(role annotation.Role) *string {
	switch role {
	case annotation.RolePrimaryKey:
		return &d.PrimaryKey
	case annotation.RoleDistinct:
		return &d.Distinct
	}
	return nil
}
