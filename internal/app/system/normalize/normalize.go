// Package normalize provides canonicalization helpers for user-supplied
// form input before it is validated or stored.
package normalize

import "strings"

// Username trims whitespace and lowercases a login username.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Email trims whitespace and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims whitespace but preserves case for display names.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role trims whitespace and lowercases a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status trims whitespace and lowercases a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// StringList splits a comma-separated form value into a slice, trimming
// whitespace around each entry and dropping empties. Returns nil for input
// with no entries so the field is omitted from BSON.
func StringList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
