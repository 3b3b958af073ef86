package annotation

import (
	"strings"
	"unicode"
)

// ParseRoles parses a single field block. Roles are separated by commas or
// whitespace; "-" or an empty body is the empty set.
func ParseRoles(b Block) (RoleSet, error) {
	words := strings.FieldsFunc(b.Text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(words) == 1 && words[0] == "-" {
		return 0, nil
	}

	var set RoleSet
	for _, w := range words {
		role, ok := ParseRole(w)
		if !ok {
			return 0, malformed(b, "unknown role %q", w)
		}
		set = set.With(role)
	}
	return set, nil
}

// ParseField resolves the role set of one field. The last block that parses
// successfully wins.
func ParseField(blocks []Block, opts Options) (RoleSet, error) {
	var set RoleSet
	for _, b := range blocks {
		roles, err := ParseRoles(b)
		if err != nil {
			if opts.Strict {
				return 0, err
			}
			continue
		}
		set = roles
	}
	return set, nil
}
