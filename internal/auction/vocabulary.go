package auction

import "strings"

// alias maps one lowercase label variant to a vocabulary value. Tables of
// aliases are ordered: the position of an entry is its match priority.
type alias[T any] struct {
	label string
	value T
}

// match resolves text against an ordered alias table. An exact hit anywhere in
// the table beats a partial one; among partial hits (alias within text, or text
// within alias) the earliest declared entry wins.
func match[T any](table []alias[T], text string) (T, bool) {
	var zero T

	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return zero, false
	}

	for _, entry := range table {
		if entry.label == normalized {
			return entry.value, true
		}
	}

	for _, entry := range table {
		if strings.Contains(normalized, entry.label) || strings.Contains(entry.label, normalized) {
			return entry.value, true
		}
	}

	return zero, false
}
