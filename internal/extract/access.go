package extract

import "strconv"

// Tolerant accessors for the open mappings returned by Object. Model
// output mixes up types freely (numbers as strings, ints for floats),
// so every analyzer reads fields through these instead of raw asserts.

// Str returns the string at key, or "" when absent or not a string
func Str(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// StrOr returns the string at key, or def when absent or not a string
func StrOr(m map[string]any, key, def string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return def
}

// Num returns the number at key, accepting float64, int, and numeric strings
func Num(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// NumOr returns the number at key, or def when absent or unparseable
func NumOr(m map[string]any, key string, def float64) float64 {
	if f, ok := Num(m, key); ok {
		return f
	}
	return def
}

// List returns the array at key, or nil when absent or not an array
func List(m map[string]any, key string) []any {
	if l, ok := m[key].([]any); ok {
		return l
	}
	return nil
}

// Map returns the object at key, or nil when absent or not an object
func Map(m map[string]any, key string) map[string]any {
	if mm, ok := m[key].(map[string]any); ok {
		return mm
	}
	return nil
}

// Bool returns the boolean at key, tolerating "true"/"false" strings
func Bool(m map[string]any, key string) (bool, bool) {
	switch v := m[key].(type) {
	case bool:
		return v, true
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b, true
		}
	}
	return false, false
}

// Int returns the integer at key, truncating floats
func Int(m map[string]any, key string) (int, bool) {
	if f, ok := Num(m, key); ok {
		return int(f), true
	}
	return 0, false
}
