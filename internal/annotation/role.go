package annotation

import "strings"

// Role is a single capability a field can hold in a search index.
type Role uint8

const (
	RolePrimaryKey Role = iota
	RoleDisplayed
	RoleSearchable
	RoleDistinct
	RoleFilterable
	RoleSortable

	roleCount
)

var roleKeywords = [roleCount]string{
	RolePrimaryKey: "primaryKey",
	RoleDisplayed:  "displayed",
	RoleSearchable: "searchable",
	RoleDistinct:   "distinct",
	RoleFilterable: "filterable",
	RoleSortable:   "sortable",
}

// String returns the annotation keyword for the role.
func (r Role) String() string {
	if r >= roleCount {
		return "unknown"
	}
	return roleKeywords[r]
}

// ParseRole maps an annotation keyword to its Role.
func ParseRole(keyword string) (Role, bool) {
	for i, kw := range roleKeywords {
		if kw == keyword {
			return Role(i), true
		}
	}
	return 0, false
}

// AllRoles returns every role in declaration order.
func AllRoles() []Role {
	roles := make([]Role, 0, roleCount)
	for r := Role(0); r < roleCount; r++ {
		roles = append(roles, r)
	}
	return roles
}

// RoleSet is a set of roles. The zero value is the empty set.
type RoleSet uint8

// NewRoleSet builds a set holding the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s = s.With(r)
	}
	return s
}

func (s RoleSet) Has(r Role) bool {
	return s&(1<<r) != 0
}

func (s RoleSet) With(r Role) RoleSet {
	return s | 1<<r
}

func (s RoleSet) IsEmpty() bool {
	return s == 0
}

// Roles returns the members of the set in declaration order.
func (s RoleSet) Roles() []Role {
	var roles []Role
	for r := Role(0); r < roleCount; r++ {
		if s.Has(r) {
			roles = append(roles, r)
		}
	}
	return roles
}

func (s RoleSet) String() string {
	roles := s.Roles()
	if len(roles) == 0 {
		return "-"
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return strings.Join(names, ",")
}
