// Package sanitize cleans text returned by the model before it reaches callers.
package sanitize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Field normalizes an extracted title or author: Unicode NFC (so Urdu and
// other combining scripts compare equal however the model composed them),
// control characters replaced by spaces, runs of whitespace collapsed.
// Format characters such as ZWNJ are kept; Urdu spelling depends on them.
func Field(s string) string {
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
