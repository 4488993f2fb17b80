// Package util holds the small generic helpers shared by the compiler
// passes: a comparable-element set and diagnostic text formatting.
package util

import "strings"

// TextList renders items as a human-readable list for diagnostic
// messages: "A", "A and B", or "A, B, and C".
func TextList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	parts := make([]string, len(items))
	copy(parts, items)
	parts[len(parts)-1] = "and " + parts[len(parts)-1]
	return strings.Join(parts, ", ")
}
