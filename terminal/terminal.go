// Package terminal renders parsed answer markup as ANSI-styled text using
// lipgloss for styling and chroma for code highlighting.
package terminal

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/docchat"
	"github.com/mattn/go-runewidth"
)

const (
	defaultWidth     = 80
	defaultCodeStyle = "monokai"
	minWrapWidth     = 10
)

// Renderer turns nodes into terminal output. It is safe for concurrent use.
type Renderer struct {
	bold   lipgloss.Style
	italic lipgloss.Style
	code   lipgloss.Style
	header [3]lipgloss.Style
	accent lipgloss.Style
	muted  lipgloss.Style
	quote  lipgloss.Style
	codeHL *highlighter
}

// Option configures a [Renderer].
type Option func(*options)

type options struct {
	codeStyle string
	formatter string
}

// WithCodeStyle sets the chroma style used for fenced code. Unknown names
// fall back to chroma's default style.
func WithCodeStyle(name string) Option {
	return func(o *options) { o.codeStyle = name }
}

// WithFormatter sets the chroma terminal formatter ("terminal",
// "terminal16", "terminal256", "terminal16m"). The default uses the
// 16-color palette so code follows the terminal's own theme.
func WithFormatter(name string) Option {
	return func(o *options) { o.formatter = name }
}

// New creates a Renderer for theme.
func New(theme docchat.Theme, opts ...Option) *Renderer {
	o := options{codeStyle: defaultCodeStyle, formatter: "terminal16"}
	for _, opt := range opts {
		opt(&o)
	}
	accent := lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true)
	return &Renderer{
		bold:   lipgloss.NewStyle().Bold(true),
		italic: lipgloss.NewStyle().Italic(true),
		code:   lipgloss.NewStyle().Foreground(ansiColor(theme.Code)),
		header: [3]lipgloss.Style{
			accent.Underline(true),
			accent,
			lipgloss.NewStyle().Bold(true),
		},
		accent: accent,
		muted:  lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		quote:  lipgloss.NewStyle().Italic(true),
		codeHL: newHighlighter(o.codeStyle, o.formatter),
	}
}

// Render renders nodes with a default Renderer for theme.
func Render(nodes []docchat.Node, width int, theme docchat.Theme) string {
	return New(theme).Render(nodes, width)
}

// Render renders nodes one after another. Paragraphs, headers, quotes and
// list items are word-wrapped to width; code blocks are not reflowed.
func (r *Renderer) Render(nodes []docchat.Node, width int) string {
	if len(nodes) == 0 {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, r.renderNode(n, width))
	}
	return strings.Join(out, "\n")
}

func (r *Renderer) renderNode(node docchat.Node, width int) string {
	switch n := node.(type) {
	case docchat.Paragraph:
		return wrap(r.inline(n.Spans), width)

	case docchat.Header:
		level := min(max(n.Level, 1), 3)
		return wrap(r.header[level-1].Render(r.inline(n.Spans)), width)

	case docchat.ListItem:
		marker := "• "
		if n.Ordered {
			marker = strconv.Itoa(n.Index) + ". "
		}
		return r.prefixed(r.accent.Render(marker), runewidth.StringWidth(marker), r.inline(n.Spans), width)

	case docchat.BlockQuote:
		return r.prefixed(r.muted.Render("│")+" ", 2, r.quote.Render(r.inline(n.Spans)), width)

	case docchat.CodeBlock:
		return r.codeBlock(n)

	case docchat.LineBreak:
		return ""

	default:
		panic("terminal: unknown node type")
	}
}

func (r *Renderer) codeBlock(n docchat.CodeBlock) string {
	var b strings.Builder
	if n.Language != "" {
		b.WriteString(r.muted.Render(Sanitize(n.Language)))
		b.WriteString("\n")
	}
	gutter := r.muted.Render("│") + " "
	lines := r.codeHL.highlight(Sanitize(n.Text), n.Language)
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(gutter + line)
	}
	return b.String()
}

// prefixed wraps content to the width left after the prefix and indents
// continuation lines to line up under the first.
func (r *Renderer) prefixed(prefix string, prefixWidth int, content string, width int) string {
	lines := strings.Split(wrap(content, max(width-prefixWidth, minWrapWidth)), "\n")
	continuation := strings.Repeat(" ", prefixWidth)
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
		} else {
			lines[i] = continuation + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) inline(spans []docchat.Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch s := s.(type) {
		case docchat.PlainText:
			b.WriteString(Sanitize(s.Text))
		case docchat.Bold:
			b.WriteString(r.bold.Render(Sanitize(s.Text)))
		case docchat.Italic:
			b.WriteString(r.italic.Render(Sanitize(s.Text)))
		case docchat.InlineCode:
			b.WriteString(r.code.Render(Sanitize(s.Text)))
		}
	}
	return b.String()
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
