package terminal

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize strips ANSI escape sequences and control characters from text
// received from the server so it cannot drive the terminal. Tabs and
// newlines are kept.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n':
			return r
		case r <= 0x1F, r == 0x7F, r >= 0x80 && r <= 0x9F:
			return -1
		default:
			return r
		}
	}, s)
}
