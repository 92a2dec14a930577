package bubbletea

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/terminal"
	"github.com/google/uuid"
)

var _ tea.Model = Model{}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger that receives answer failure details.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithClipboard replaces the function used to copy an answer.
func WithClipboard(fn func(string) error) Option {
	return func(m *Model) { m.copy = fn }
}

// WithRenderer sets the renderer for assistant answers.
func WithRenderer(r *terminal.Renderer) Option {
	return func(m *Model) { m.renderer = r }
}

// Model is the Bubble Tea model for one chat.
type Model struct {
	// Input is the question input. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable transcript. Exported for test access.
	Viewport viewport.Model
	// Spinner animates the pending answer. Exported for test access.
	Spinner spinner.Model

	ask      AskFunc
	chat     docchat.Chat
	styles   Styles
	renderer *terminal.Renderer
	logger   *slog.Logger
	copy     func(string) error

	blocks   []MessageBlock
	messages []*docchat.ChatMessage
	answer   *AssistantMessageBlock // answer being received, nil when idle

	running bool
	cancel  context.CancelFunc
	eventCh chan docchat.Event
	doneCh  chan error
	err     error
	status  string
	ready   bool
}

// New creates a TUI Model for chat. Stored messages are shown as they are.
func New(ask AskFunc, chat docchat.ChatWithMessages, theme docchat.Theme, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question about the document..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	m := Model{
		Input:   ti,
		Spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		ask:     ask,
		chat:    chat.Chat,
		styles:  NewStyles(theme),
		logger:  slog.New(slog.DiscardHandler),
		copy:    clipboard.WriteAll,
	}
	for _, o := range opts {
		o(&m)
	}
	if m.renderer == nil {
		m.renderer = terminal.New(theme)
	}
	for _, msg := range chat.Messages {
		m = m.appendMessage(msg)
	}
	return m
}

// Running returns whether an answer is being received.
func (m Model) Running() bool { return m.running }

// Err returns the failure of the last answer, if any.
func (m Model) Err() error { return m.err }

// Messages returns the messages shown, oldest first.
func (m Model) Messages() []*docchat.ChatMessage { return m.messages }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		if m.answer != nil {
			m.answer.Update(FrameMsg{Frame: m.Spinner.View()})
		}
		m = m.refresh()
		return m, cmd

	case StreamEventMsg:
		if m.answer != nil {
			m.answer.Message().Apply(msg.Event)
		}
		m = m.refresh()
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case AnswerDoneMsg:
		m = m.finishAnswer(msg.Err)
		m = m.refresh()
		return m, m.Input.Focus()
	}

	// Viewport always receives messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	b.WriteString(m.Viewport.View())
	b.WriteString("\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n")

	b.WriteString(m.Input.View())

	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusHeight - borderHeight

	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)

	case tea.KeyCtrlY:
		return m.copyLastAnswer(), nil
	}

	// Only non-character keys scroll, so typing j/k reaches the input.
	var cmd tea.Cmd
	var cmds []tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil
	m.status = ""

	now := time.Now()
	m = m.appendMessage(docchat.NewUserMessage(uuid.NewString(), text, now))
	m = m.appendMessage(docchat.NewAssistantMessage(uuid.NewString(), now))
	m.answer, _ = m.blocks[len(m.blocks)-1].(*AssistantMessageBlock)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan docchat.Event, 256)
	m.doneCh = make(chan error, 1)
	m.running = true
	m = m.refresh()

	m.Input.Blur()

	return m, tea.Batch(
		startAsk(ctx, m.ask, m.chat, text, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
		m.Spinner.Tick,
	)
}

// finishAnswer moves the pending or streaming answer to its terminal state.
func (m Model) finishAnswer(err error) Model {
	if m.cancel != nil {
		m.cancel()
	}
	m.running = false
	m.cancel = nil
	m.eventCh = nil
	m.doneCh = nil

	if m.answer != nil && !m.answer.Message().IsTerminal() {
		drive := docchat.Drive(m.answer.Message(), m.logger)
		switch {
		case err == nil:
			drive.OnComplete()
		case errors.Is(err, context.Canceled):
			m.answer.Stop()
			drive.OnComplete()
		default:
			m.err = err
			drive.OnError(err)
		}
	}
	m.answer = nil
	return m
}

func (m Model) copyLastAnswer() Model {
	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		if msg.Role() != docchat.RoleAssistant || msg.Status() != docchat.StatusComplete || msg.Content() == "" {
			continue
		}
		if err := m.copy(msg.Content()); err != nil {
			m.logger.Warn("copy to clipboard failed", "error", err)
			m.status = m.styles.Error.Render("Copy failed: " + err.Error())
			return m
		}
		m.status = m.styles.Success.Render("Answer copied to clipboard")
		return m
	}
	m.status = m.styles.Muted.Render("Nothing to copy yet")
	return m
}

func (m Model) appendMessage(msg *docchat.ChatMessage) Model {
	m.messages = append(m.messages, msg)
	switch msg.Role() {
	case docchat.RoleUser:
		m.blocks = append(m.blocks, NewUserMessageBlock(msg.Content(), m.styles))
	default:
		m.blocks = append(m.blocks, NewAssistantMessageBlock(msg, m.renderer, m.styles))
	}
	return m
}

func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) renderContent() string {
	if len(m.blocks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

func (m Model) statusLine() string {
	if m.running {
		return m.styles.Muted.Render("Answering... Ctrl+C to stop")
	}
	if m.err != nil {
		return m.styles.Error.Render("The answer failed. Details are in the log.")
	}
	if m.status != "" {
		return m.status
	}
	title := m.chat.Title
	if title == "" {
		title = m.chat.ID
	}
	return m.styles.Accent.Render(terminal.Sanitize(title)) +
		m.styles.Muted.Render("  Enter to ask, Ctrl+Y to copy, Ctrl+C to quit")
}

// startAsk runs the question in a goroutine and signals completion. The
// result is context.Canceled unless the handler reported an outcome.
func startAsk(ctx context.Context, ask AskFunc, chat docchat.Chat, question string, eventCh chan<- docchat.Event, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		var result error = context.Canceled
		ask(ctx, chat, question, docchat.Handler{
			OnChunk: func(text string) {
				select {
				case eventCh <- docchat.EventChunk{Text: text}:
				case <-ctx.Done():
				}
			},
			OnComplete: func() { result = nil },
			OnError:    func(err error) { result = err },
		})
		close(eventCh)
		doneCh <- result
		return nil
	}
}

// listenForEvent waits for the next event from the channel.
// When the channel closes, it reads the error from doneCh and returns AnswerDoneMsg.
func listenForEvent(ch <-chan docchat.Event, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			err := <-doneCh
			return AnswerDoneMsg{Err: err}
		}
		return StreamEventMsg{Event: evt}
	}
}
