// Package markup parses the lightweight markup found in streamed answers into
// [docchat.Node] values.
//
// Parse is meant to be called on the whole answer every time it grows. It
// keeps no state between calls, so a construct completed by later text (a
// code fence closing, a list marker gaining its space) is picked up on the
// next call. An opening fence with no closing fence is literal text.
package markup

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/docchat"
)

const fence = "```"

var (
	inlinePattern    = regexp.MustCompile("\\*\\*[^*]+\\*\\*|\\*[^*]+\\*|`[^`]+`")
	unorderedPattern = regexp.MustCompile(`^\s*[-*+]\s`)
	orderedPattern   = regexp.MustCompile(`^\s*(\d+)\.\s`)
	languagePattern  = regexp.MustCompile(`^[\w+#.-]+$`)
)

// Parse converts text to nodes. It is deterministic: equal inputs yield
// equal outputs.
func Parse(text string) []docchat.Node {
	var nodes []docchat.Node
	rest := text
	for {
		open := strings.Index(rest, fence)
		if open < 0 {
			break
		}
		end := strings.Index(rest[open+len(fence):], fence)
		if end < 0 {
			break
		}
		end += open + len(fence)

		nodes = append(nodes, parseLines(trimTrailingNewline(rest[:open]), false)...)
		nodes = append(nodes, codeBlock(rest[open+len(fence):end]))
		rest = trimLeadingNewline(rest[end+len(fence):])
	}
	return append(nodes, parseLines(rest, true)...)
}

func codeBlock(body string) docchat.CodeBlock {
	var lang string
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		first := strings.TrimSuffix(body[:nl], "\r")
		if languagePattern.MatchString(first) {
			lang = first
			body = body[nl+1:]
		}
	}
	return docchat.CodeBlock{Language: lang, Text: strings.Trim(body, "\r\n")}
}

// parseLines classifies each line of a segment that holds no code fence.
// In the final segment a terminating newline does not start a new line.
func parseLines(segment string, final bool) []docchat.Node {
	if segment == "" {
		return nil
	}
	lines := strings.Split(segment, "\n")
	if final && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	nodes := make([]docchat.Node, 0, len(lines))
	for _, line := range lines {
		nodes = append(nodes, parseLine(strings.TrimSuffix(line, "\r")))
	}
	return nodes
}

func parseLine(line string) docchat.Node {
	if rest, ok := strings.CutPrefix(line, "> "); ok {
		return docchat.BlockQuote{Spans: ParseInline(rest)}
	}
	for level, prefix := range []string{"# ", "## ", "### "} {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			return docchat.Header{Level: level + 1, Spans: ParseInline(rest)}
		}
	}
	if strings.TrimSpace(line) == "" {
		return docchat.LineBreak{}
	}
	if loc := unorderedPattern.FindStringIndex(line); loc != nil {
		return docchat.ListItem{Spans: ParseInline(line[loc[1]:])}
	}
	if m := orderedPattern.FindStringSubmatchIndex(line); m != nil {
		index, _ := strconv.Atoi(line[m[2]:m[3]])
		return docchat.ListItem{Ordered: true, Index: index, Spans: ParseInline(line[m[1]:])}
	}
	return docchat.Paragraph{Spans: ParseInline(line)}
}

// ParseInline splits text into spans, scanning left to right for
// **bold**, *italic* and `code`. Markers without a partner stay literal.
func ParseInline(text string) []docchat.Span {
	if text == "" {
		return nil
	}
	var spans []docchat.Span
	plain := func(s string) {
		if s == "" {
			return
		}
		if n := len(spans); n > 0 {
			if prev, ok := spans[n-1].(docchat.PlainText); ok {
				spans[n-1] = docchat.PlainText{Text: prev.Text + s}
				return
			}
		}
		spans = append(spans, docchat.PlainText{Text: s})
	}

	last := 0
	for _, loc := range inlinePattern.FindAllStringIndex(text, -1) {
		plain(text[last:loc[0]])
		match := text[loc[0]:loc[1]]
		switch {
		case strings.HasPrefix(match, "**"):
			spans = append(spans, docchat.Bold{Text: match[2 : len(match)-2]})
		case strings.HasPrefix(match, "*"):
			spans = append(spans, docchat.Italic{Text: match[1 : len(match)-1]})
		default:
			spans = append(spans, docchat.InlineCode{Text: match[1 : len(match)-1]})
		}
		last = loc[1]
	}
	plain(text[last:])
	return spans
}

func trimTrailingNewline(s string) string {
	if t, ok := strings.CutSuffix(s, "\n"); ok {
		return strings.TrimSuffix(t, "\r")
	}
	return s
}

func trimLeadingNewline(s string) string {
	if t, ok := strings.CutPrefix(s, "\r\n"); ok {
		return t
	}
	return strings.TrimPrefix(s, "\n")
}
