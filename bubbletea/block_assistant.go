package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/markup"
	"github.com/fwojciec/docchat/terminal"
)

const (
	thinkingLabel = "Thinking..."
	typingLabel   = "● typing..."
	stoppedLabel  = "(stopped)"
)

var _ MessageBlock = (*AssistantMessageBlock)(nil)

// AssistantMessageBlock renders an assistant message in whatever state it is
// in. The whole content is re-parsed on every view while streaming; once the
// message is terminal its rendering is cached per width.
type AssistantMessageBlock struct {
	msg      *docchat.ChatMessage
	renderer *terminal.Renderer
	styles   Styles
	frame    string
	stopped  bool

	byWidth map[int]string
}

// NewAssistantMessageBlock creates a block that views msg. The block only
// reads msg; the model drives its transitions.
func NewAssistantMessageBlock(msg *docchat.ChatMessage, renderer *terminal.Renderer, styles Styles) *AssistantMessageBlock {
	return &AssistantMessageBlock{
		msg:      msg,
		renderer: renderer,
		styles:   styles,
		byWidth:  make(map[int]string),
	}
}

// Message returns the viewed message.
func (b *AssistantMessageBlock) Message() *docchat.ChatMessage { return b.msg }

// Stop marks the block as stopped by the user.
func (b *AssistantMessageBlock) Stop() {
	b.stopped = true
	clear(b.byWidth)
}

// Stopped reports whether the answer was stopped by the user.
func (b *AssistantMessageBlock) Stopped() bool { return b.stopped }

func (b *AssistantMessageBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	if f, ok := msg.(FrameMsg); ok {
		b.frame = f.Frame
	}
	return b, nil
}

func (b *AssistantMessageBlock) View(width int) string {
	switch b.msg.Status() {
	case docchat.StatusPending:
		label := b.styles.Muted.Render(thinkingLabel)
		if b.frame != "" {
			label = b.styles.Assistant.Render(b.frame) + " " + label
		}
		return label
	case docchat.StatusStreaming:
		body := b.renderer.Render(markup.Parse(b.msg.Content()), width)
		return body + "\n" + b.styles.Assistant.Render(typingLabel)
	}

	if cached, ok := b.byWidth[width]; ok {
		return cached
	}
	var out string
	switch b.msg.Status() {
	case docchat.StatusError:
		out = b.styles.Error.Width(width).Render(b.msg.Content())
	default:
		out = b.renderer.Render(markup.Parse(b.msg.Content()), width)
		if b.stopped {
			label := b.styles.Muted.Render(stoppedLabel)
			if out == "" {
				out = label
			} else {
				out += "\n" + label
			}
		}
	}
	b.byWidth[width] = out
	return out
}
