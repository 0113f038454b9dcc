package workspace

import (
	"path"
	"strings"
)

const ellipsis = "..."

// truncate keeps the first limit runes of s and marks the cut with an ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}

// fileType is the lower-cased extension without the dot, empty when there is none.
func fileType(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}
