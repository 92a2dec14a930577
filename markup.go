package docchat

// Node is a sealed interface for one block of rendered markup.
// The unexported marker method prevents external implementations.
type Node interface {
	node()
}

// Paragraph is a plain line of text.
type Paragraph struct {
	Spans []Span
}

func (Paragraph) node() {}

// Header is a heading of level 1 to 3.
type Header struct {
	Level int
	Spans []Span
}

func (Header) node() {}

// ListItem is one item of an ordered or unordered list. Index is the number
// written in the source for ordered items and zero otherwise.
type ListItem struct {
	Ordered bool
	Index   int
	Spans   []Span
}

func (ListItem) node() {}

// BlockQuote is a quoted line.
type BlockQuote struct {
	Spans []Span
}

func (BlockQuote) node() {}

// CodeBlock is the raw body of a closed code fence. Language is the info
// word after the opening fence, if any.
type CodeBlock struct {
	Language string
	Text     string
}

func (CodeBlock) node() {}

// LineBreak is an empty line.
type LineBreak struct{}

func (LineBreak) node() {}

// Span is a sealed interface for a run of inline text.
type Span interface {
	span()
}

// PlainText is unformatted text.
type PlainText struct {
	Text string
}

func (PlainText) span() {}

// Bold is strongly emphasized text.
type Bold struct {
	Text string
}

func (Bold) span() {}

// Italic is emphasized text.
type Italic struct {
	Text string
}

func (Italic) span() {}

// InlineCode is a code span.
type InlineCode struct {
	Text string
}

func (InlineCode) span() {}

// Interface compliance checks.
var (
	_ Node = Paragraph{}
	_ Node = Header{}
	_ Node = ListItem{}
	_ Node = BlockQuote{}
	_ Node = CodeBlock{}
	_ Node = LineBreak{}

	_ Span = PlainText{}
	_ Span = Bold{}
	_ Span = Italic{}
	_ Span = InlineCode{}
)
