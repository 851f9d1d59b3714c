// Package wire is the single crossing point between the camelCase field names
// used by core types and the snake_case names used on the network.
package wire

import (
	"strings"
	"unicode"
)

// ToSnake returns a copy of v with every object key converted to snake_case.
// Nested maps and slices are converted recursively; scalars are returned as is.
func ToSnake(v any) any {
	return transform(v, SnakeKey)
}

// ToCamel returns a copy of v with every object key converted to camelCase.
func ToCamel(v any) any {
	return transform(v, CamelKey)
}

func transform(v any, key func(string) string) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[key(k)] = transform(val, key)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = transform(val, key)
		}
		return out
	default:
		return v
	}
}

// SnakeKey converts "orderCode" to "order_code". Every upper-case letter
// becomes an underscore followed by its lower-case form.
func SnakeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CamelKey converts "order_code" to "orderCode". Only an underscore followed
// by a lower-case letter is collapsed; other underscores are kept.
func CamelKey(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(runes); i++ {
		if runes[i] == '_' && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			b.WriteRune(unicode.ToUpper(runes[i+1]))
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}
