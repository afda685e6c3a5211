package code

import (
	"strings"
	"unicode"
)

// TruncateName normalizes a code name to fit the backend's key limit:
// surrounding whitespace is trimmed, commas become underscores (the
// backend's index is comma-joined, so a comma in a key would split it),
// the name is cut byte-wise (not rune-wise, matching how the backend
// counts key length) at maxBytes, and any whitespace exposed at the cut
// is trimmed again. The result is stable: truncating an already-truncated
// name is a no-op, so repeated saves and later lookups agree on the key.
func TruncateName(name string, maxBytes int) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, ",", "_")
	if maxBytes > 0 && len(name) > maxBytes {
		name = name[:maxBytes]
		name = strings.TrimRightFunc(name, unicode.IsSpace)
	}
	return name
}
