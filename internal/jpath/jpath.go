// Package jpath reads values out of loosely-typed decoded JSON
// (map[string]any / []any trees) without failing on missing keys.
package jpath

import (
	"strconv"
)

//////////////////////////////////////////////////

// Get walks v along path and returns the value found there, or nil if any
// step is missing or has the wrong shape.
//
// A string step selects an object key, an int step selects an array index.
// Any other step type yields nil.
func Get(v any, path ...any) any {
	for _, step := range path {
		if v == nil {
			return nil
		}

		switch key := step.(type) {
		case string:
			m, ok := v.(map[string]any)
			if !ok {
				return nil
			}
			v = m[key]

		case int:
			a, ok := v.([]any)
			if !ok || key < 0 || key >= len(a) {
				return nil
			}
			v = a[key]

		default:
			return nil
		}
	}

	return v
}

// String returns the string at path, or "" if absent or not a string.
func String(v any, path ...any) string {
	s, _ := Get(v, path...).(string)
	return s
}

// Slice returns the array at path, or nil.
func Slice(v any, path ...any) []any {
	a, _ := Get(v, path...).([]any)
	return a
}

// Map returns the object at path, or nil.
func Map(v any, path ...any) map[string]any {
	m, _ := Get(v, path...).(map[string]any)
	return m
}

// Int returns the number at path truncated to an int. Numeric strings are
// accepted as well, since several fields are sent either way.
func Int(v any, path ...any) (n int, ok bool) {
	switch x := Get(v, path...).(type) {
	case float64:
		return int(x), true
	case int:
		return x, true
	case string:
		i, err := strconv.Atoi(x)
		if err != nil {
			return 0, false
		}
		return i, true
	}

	return 0, false
}

// Text returns a renderer text value: either its "simpleText" or the
// concatenation of its "runs".
func Text(v any, path ...any) string {
	t := Get(v, path...)
	if s := String(t, "simpleText"); s != "" {
		return s
	}

	var s string
	for _, run := range Slice(t, "runs") {
		s += String(run, "text")
	}

	return s
}
