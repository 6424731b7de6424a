// Package attrs reads values back out of slog-style key/value attribute lists.
package attrs

// Lookup returns the value paired with key in a [k1, v1, k2, v2, ...] list.
func Lookup(attrs []any, key string) (any, bool) {
	for i := 0; i+1 < len(attrs); i += 2 {
		if k, ok := attrs[i].(string); ok && k == key {
			return attrs[i+1], true
		}
	}
	return nil, false
}

// ExtractString returns the string paired with key, or "" when the key is
// absent or its value is not a string.
func ExtractString(attrs []any, key string) string {
	v, _ := Lookup(attrs, key)
	s, _ := v.(string)
	return s
}
