// ABOUTME: Cleans server-provided text before it reaches the terminal
// ABOUTME: Strips markup, decodes entities and removes control sequences

package sanitize

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag; safe for concurrent use
var strict = bluemonday.StrictPolicy()

// Text returns s as plain single-line terminal text.
// Tags are dropped, entities decoded, and control characters (including
// the ESC that starts ANSI sequences) removed.
func Text(s string) string {
	if s == "" {
		return ""
	}
	plain := html.UnescapeString(strict.Sanitize(s))
	plain = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, plain)
	return strings.Join(strings.Fields(plain), " ")
}

// Or returns Text(s), or fallback when the cleaned text is empty
func Or(s, fallback string) string {
	if t := Text(s); t != "" {
		return t
	}
	return fallback
}
