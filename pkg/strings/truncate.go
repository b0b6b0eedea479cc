package strings

import (
	"strings"
)

// DefaultMaxLen is the width commands are cut to in table output.
const DefaultMaxLen = 60

// MinTruncateLen leaves room for one character plus "...".
const MinTruncateLen = 4

// Truncate squeezes s onto one line (any whitespace run becomes a single
// space) and cuts it to maxLen runes, ending in "..." when cut. maxLen is
// raised to MinTruncateLen when smaller.
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
