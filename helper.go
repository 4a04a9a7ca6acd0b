package appsettings

import (
	"strings"
	"unicode"
)

// camelToSnake converts CamelCase to snake_case: an underscore is inserted
// before every upper-case rune that is not at the start, then the whole
// string is lower-cased. "MyApp" becomes "my_app".
func camelToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// navigateMap traverses a nested map along a dot-separated path and returns
// the value found there, or nil when any segment is absent or not a table.
func navigateMap(nested map[string]any, path string) any {
	if path == "" {
		return nested
	}

	segments := strings.Split(path, ".")
	current := any(nested)

	for _, segment := range segments {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil
		}

		value, exists := currentMap[segment]
		if !exists {
			return nil
		}
		current = value
	}

	return current
}

// subMapping slices the sub-map for a key out of data, defaulting to an
// empty map when the key is absent or holds a non-map value.
func subMapping(data map[string]any, key string) map[string]any {
	if sub, ok := data[key].(map[string]any); ok {
		return sub
	}
	return map[string]any{}
}
