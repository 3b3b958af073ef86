package annotation

import "strconv"

// TagValues returns every value stored under key in a struct tag, in order.
// It follows the reflect.StructTag conventions but, unlike Lookup, does not
// stop at the first match. Scanning stops at the first syntax error.
func TagValues(tag, key string) []string {
	var values []string
	for tag != "" {
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}
		tag = tag[i:]
		if tag == "" {
			break
		}

		i = 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			break
		}
		name := tag[:i]
		tag = tag[i+1:]

		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			break
		}
		quoted := tag[:i+1]
		tag = tag[i+1:]

		if name != key {
			continue
		}
		value, err := strconv.Unquote(quoted)
		if err != nil {
			break
		}
		values = append(values, value)
	}
	return values
}
