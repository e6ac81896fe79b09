// Package strings provides string slice helpers.
package strings

import (
	"slices"
	"strings"
)

// NormalizeSet trims each element, drops empties and duplicates, and returns the
// remaining values sorted so equal sets compare equal.
//
// Example:
//
//	NormalizeSet([]string{" marketing ", "terms", "marketing", ""})
//	// Returns: []string{"marketing", "terms"}
func NormalizeSet(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	slices.Sort(result)
	return result
}
