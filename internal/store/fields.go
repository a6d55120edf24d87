package store

// Field accessors used by the entity decode boundaries. JSONB round-trips
// numbers as float64 while the memory store keeps native Go types, so
// integer fields must accept both.

// Int64Field reads a numeric field, tolerating json float64, int and int64.
// Missing or malformed values normalize to 0.
func Int64Field(fields map[string]any, name string) int64 {
	switch v := fields[name].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// StringField reads a string field, normalizing missing values to "".
func StringField(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return s
}

// BoolField reads a boolean field, normalizing missing values to false.
func BoolField(fields map[string]any, name string) bool {
	b, _ := fields[name].(bool)
	return b
}

// SliceField reads a list field, normalizing missing values to nil.
func SliceField(fields map[string]any, name string) []any {
	s, _ := fields[name].([]any)
	return s
}
