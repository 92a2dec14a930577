package terminal

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

type highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

func newHighlighter(style, formatter string) *highlighter {
	f := formatters.Get(formatter)
	if f == nil {
		f = formatters.Fallback
	}
	return &highlighter{style: styles.Get(style), formatter: f}
}

// highlight returns code split into lines, each colored independently so
// that a gutter can be placed in front of it. Code in an unknown language
// is returned as is.
func (h *highlighter) highlight(code, language string) []string {
	plain := strings.Split(code, "\n")
	if language == "" {
		return plain
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		return plain
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return plain
	}

	tokenLines := chroma.SplitTokensIntoLines(it.Tokens())
	out := make([]string, 0, len(tokenLines))
	for _, tokens := range tokenLines {
		var buf bytes.Buffer
		if err := h.formatter.Format(&buf, h.style, chroma.Literator(tokens...)); err != nil {
			return plain
		}
		out = append(out, strings.ReplaceAll(buf.String(), "\n", ""))
	}
	// Tokenising appends a final newline that becomes an empty last line.
	if len(out) > len(plain) {
		out = out[:len(plain)]
	}
	return out
}
