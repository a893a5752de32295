// Package strings holds wiring assertions for names and route prefixes
package strings

import std "strings"

// MustString returns s if it has non whitespace content otherwise panics.
// name goes into the panic message
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a route prefix like /runs to a single leading slash and no
// trailing slash. It panics on an empty or root prefix
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("route prefix is required")
	}
	return s
}
