package types

// Arguments carries the startup parameters a view was created with.
//
// It is the host-agnostic analog of an argument bundle: a handle resolves it
// from the live view, or returns an empty Arguments when the view is gone,
// so callers never need a nil check.
type Arguments map[string]any

// String returns the string stored under key, or def when absent or of a
// different type.
func (a Arguments) String(key, def string) string {
	if v, ok := a[key].(string); ok {
		return v
	}

	return def
}

// Int returns the int stored under key, or def when absent or of a
// different type.
func (a Arguments) Int(key string, def int) int {
	if v, ok := a[key].(int); ok {
		return v
	}

	return def
}

// Bool returns the bool stored under key, or def when absent or of a
// different type.
func (a Arguments) Bool(key string, def bool) bool {
	if v, ok := a[key].(bool); ok {
		return v
	}

	return def
}
