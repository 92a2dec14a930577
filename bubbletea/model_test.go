package bubbletea_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/docchat"
	bt "github.com/fwojciec/docchat/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	m := bt.New(nopAsk, storedChat(), docchat.DefaultTheme())

	assert.False(t, m.Running())
	assert.NoError(t, m.Err())
	assert.Empty(t, m.Messages())
	assert.Equal(t, "Initializing...", m.View())
}

func TestModel_Update(t *testing.T) {
	t.Parallel()

	t.Run("window size initializes viewport", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopAsk)

		assert.Equal(t, 80, m.Viewport.Width)
		assert.Equal(t, 20, m.Viewport.Height) // 24 - 1 - 1 - 2 = 20
		assert.NotEmpty(t, m.View())
	})

	t.Run("window size resize updates viewport dimensions", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopAsk)
		m = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

		assert.Equal(t, 120, m.Viewport.Width)
		assert.Equal(t, 36, m.Viewport.Height)
	})

	t.Run("resize re-renders stored answers at the new width", func(t *testing.T) {
		t.Parallel()

		words := "word1 word2 word3 word4 word5 word6 word7 word8"
		m := initModelWithChat(t, nopAsk, storedChat(restored(docchat.RoleAssistant, words)))
		m = updateModel(t, m, tea.WindowSizeMsg{Width: 20, Height: 24})
		narrow := bt.RenderContent(m)
		m = updateModel(t, m, tea.WindowSizeMsg{Width: 100, Height: 24})
		wide := bt.RenderContent(m)

		assert.Greater(t, strings.Count(narrow, "\n"), strings.Count(wide, "\n"))
		assert.Contains(t, wide, words)
	})

	t.Run("ctrl+c when idle quits", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopAsk)
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

		require.NotNil(t, cmd)
		_, isQuit := cmd().(tea.QuitMsg)
		assert.True(t, isQuit)
	})

	t.Run("ctrl+c while answering cancels without quitting", func(t *testing.T) {
		t.Parallel()

		var cancelCalled bool
		m := bt.SetRunningWithCancel(initModel(t, nopAsk), func() { cancelCalled = true })

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		model := updated.(bt.Model)

		assert.True(t, cancelCalled)
		assert.Nil(t, cmd)
		assert.True(t, model.Running())
	})

	t.Run("enter with empty input does nothing", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopAsk)
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("   ")})
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		model := updated.(bt.Model)

		assert.False(t, model.Running())
		assert.Nil(t, cmd)
		assert.Empty(t, model.Messages())
	})

	t.Run("enter while answering is ignored", func(t *testing.T) {
		t.Parallel()

		m := typeAndSubmit(t, initModel(t, nopAsk), "first")
		m = typeAndSubmit(t, m, "second")

		assert.Len(t, m.Messages(), 2)
	})
}

func TestModel_Answer(t *testing.T) {
	t.Parallel()

	t.Run("submit adds the question and a pending answer", func(t *testing.T) {
		t.Parallel()

		m := typeAndSubmit(t, initModel(t, nopAsk), "what is this about?")

		require.Len(t, m.Messages(), 2)
		question, answer := m.Messages()[0], m.Messages()[1]
		assert.Equal(t, docchat.RoleUser, question.Role())
		assert.Equal(t, "what is this about?", question.Content())
		assert.Equal(t, docchat.RoleAssistant, answer.Role())
		assert.Equal(t, docchat.StatusPending, answer.Status())
		assert.NotEqual(t, question.ID, answer.ID)
		assert.True(t, m.Running())
		assert.Empty(t, m.Input.Value())

		content := bt.RenderContent(m)
		assert.Contains(t, content, "what is this about?")
		assert.Contains(t, content, "Thinking...")
	})

	t.Run("chunks stream into the answer", func(t *testing.T) {
		t.Parallel()

		m := typeAndSubmit(t, initModel(t, nopAsk), "q")
		m = updateModel(t, m, bt.StreamEventMsg{Event: docchat.EventChunk{Text: "hello "}})
		m = updateModel(t, m, bt.StreamEventMsg{Event: docchat.EventChunk{Text: "world"}})

		answer := m.Messages()[1]
		assert.Equal(t, docchat.StatusStreaming, answer.Status())
		assert.Equal(t, "hello world", answer.Content())
		content := bt.RenderContent(m)
		assert.Contains(t, content, "hello world")
		assert.Contains(t, content, "typing...")
		assert.NotContains(t, content, "Thinking...")
	})

	t.Run("done completes the answer", func(t *testing.T) {
		t.Parallel()

		m := typeAndSubmit(t, initModel(t, nopAsk), "q")
		m = updateModel(t, m, bt.StreamEventMsg{Event: docchat.EventChunk{Text: "answer"}})
		m = updateModel(t, m, bt.AnswerDoneMsg{})

		answer := m.Messages()[1]
		assert.Equal(t, docchat.StatusComplete, answer.Status())
		assert.False(t, m.Running())
		assert.NoError(t, m.Err())
		assert.NotContains(t, bt.RenderContent(m), "typing...")
		assert.Contains(t, bt.StatusLine(m), "Enter to ask")
	})

	t.Run("empty answer completes", func(t *testing.T) {
		t.Parallel()

		m := typeAndSubmit(t, initModel(t, nopAsk), "q")
		m = updateModel(t, m, bt.AnswerDoneMsg{})

		assert.Equal(t, docchat.StatusComplete, m.Messages()[1].Status())
		assert.NotContains(t, bt.RenderContent(m), "Thinking...")
	})

	t.Run("failure shows the fallback and logs the detail", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		m := typeAndSubmit(t, initModel(t, nopAsk, bt.WithLogger(logger)), "q")
		m = updateModel(t, m, bt.StreamEventMsg{Event: docchat.EventChunk{Text: "partial"}})
		m = updateModel(t, m, bt.AnswerDoneMsg{Err: &docchat.UpstreamError{Message: "index unavailable"}})

		answer := m.Messages()[1]
		assert.Equal(t, docchat.StatusError, answer.Status())
		assert.Equal(t, docchat.FallbackContent, answer.Content())
		assert.Error(t, m.Err())
		assert.False(t, m.Running())

		content := bt.RenderContent(m)
		assert.Contains(t, content, "Sorry, I encountered an error")
		assert.NotContains(t, content, "partial")
		assert.NotContains(t, content, "index unavailable")
		assert.Contains(t, buf.String(), "index unavailable")
		assert.Contains(t, bt.StatusLine(m), "The answer failed")
	})

	t.Run("stopped answer keeps its partial content", func(t *testing.T) {
		t.Parallel()

		m := typeAndSubmit(t, initModel(t, nopAsk), "q")
		m = updateModel(t, m, bt.StreamEventMsg{Event: docchat.EventChunk{Text: "partial"}})
		m = updateModel(t, m, bt.AnswerDoneMsg{Err: context.Canceled})

		answer := m.Messages()[1]
		assert.Equal(t, docchat.StatusComplete, answer.Status())
		assert.Equal(t, "partial", answer.Content())
		assert.NoError(t, m.Err())

		content := bt.RenderContent(m)
		assert.Contains(t, content, "partial")
		assert.Contains(t, content, "(stopped)")
	})

	t.Run("spinner tick is dropped when idle", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopAsk)
		_, cmd := m.Update(spinner.TickMsg{})

		assert.Nil(t, cmd)
	})

	t.Run("spinner tick while pending keeps ticking", func(t *testing.T) {
		t.Parallel()

		m := typeAndSubmit(t, initModel(t, nopAsk), "q")
		tick := m.Spinner.Tick().(spinner.TickMsg)
		updated, cmd := m.Update(tick)
		model := updated.(bt.Model)

		assert.NotNil(t, cmd)
		assert.Contains(t, bt.RenderContent(model), "Thinking...")
	})
}

func TestModel_Copy(t *testing.T) {
	t.Parallel()

	t.Run("ctrl+y copies the last complete answer", func(t *testing.T) {
		t.Parallel()

		var copied string
		chat := storedChat(
			restored(docchat.RoleUser, "first?"),
			restored(docchat.RoleAssistant, "first answer"),
			restored(docchat.RoleUser, "second?"),
			restored(docchat.RoleAssistant, "second answer"),
		)
		m := initModelWithChat(t, nopAsk, chat, bt.WithClipboard(func(s string) error {
			copied = s
			return nil
		}))
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})

		assert.Equal(t, "second answer", copied)
		assert.Contains(t, bt.StatusLine(m), "copied")
	})

	t.Run("failed answers are skipped", func(t *testing.T) {
		t.Parallel()

		var copied string
		m := initModelWithChat(t, nopAsk,
			storedChat(restored(docchat.RoleAssistant, "good answer")),
			bt.WithClipboard(func(s string) error {
				copied = s
				return nil
			}))
		m = typeAndSubmit(t, m, "q")
		m = updateModel(t, m, bt.AnswerDoneMsg{Err: errors.New("boom")})
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})

		assert.Equal(t, "good answer", copied)
	})

	t.Run("nothing to copy", func(t *testing.T) {
		t.Parallel()

		called := false
		m := initModel(t, nopAsk, bt.WithClipboard(func(string) error {
			called = true
			return nil
		}))
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})

		assert.False(t, called)
		assert.Contains(t, bt.StatusLine(m), "Nothing to copy")
	})

	t.Run("clipboard failure is reported", func(t *testing.T) {
		t.Parallel()

		m := initModelWithChat(t, nopAsk,
			storedChat(restored(docchat.RoleAssistant, "answer")),
			bt.WithClipboard(func(string) error { return errors.New("no clipboard utility") }))
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})

		assert.Contains(t, bt.StatusLine(m), "no clipboard utility")
	})
}

func TestModel_StatusLine(t *testing.T) {
	t.Parallel()

	t.Run("idle shows title and hints", func(t *testing.T) {
		t.Parallel()

		status := bt.StatusLine(initModel(t, nopAsk))
		assert.Contains(t, status, "report")
		assert.Contains(t, status, "Enter to ask")
	})

	t.Run("untitled chat shows its id", func(t *testing.T) {
		t.Parallel()

		m := bt.New(nopAsk, docchat.ChatWithMessages{Chat: docchat.Chat{ID: "chat-9"}}, docchat.DefaultTheme())
		assert.Contains(t, bt.StatusLine(m), "chat-9")
	})

	t.Run("answering shows how to stop", func(t *testing.T) {
		t.Parallel()

		m := typeAndSubmit(t, initModel(t, nopAsk), "q")
		assert.Contains(t, bt.StatusLine(m), "Ctrl+C to stop")
	})
}

func TestModel_Teatest(t *testing.T) {
	t.Parallel()

	t.Run("full question and answer cycle", func(t *testing.T) {
		t.Parallel()

		var (
			mu       sync.Mutex
			asked    []string
			askedFor []string
		)
		ask := func(_ context.Context, chat docchat.Chat, question string, h docchat.Handler) {
			mu.Lock()
			asked = append(asked, question)
			askedFor = append(askedFor, chat.ID)
			mu.Unlock()
			h.OnChunk("Hello ")
			h.OnChunk("**there**!")
			h.OnComplete()
		}

		m := bt.New(ask, storedChat(), docchat.DefaultTheme())
		tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

		tm.Type("hi")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("there")) &&
				bytes.Contains(out, []byte("Enter to ask"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(bt.Model)
		require.True(t, ok)
		assert.False(t, final.Running())
		assert.NoError(t, final.Err())
		require.Len(t, final.Messages(), 2)
		assert.Equal(t, "Hello **there**!", final.Messages()[1].Content())
		assert.Equal(t, docchat.StatusComplete, final.Messages()[1].Status())

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"hi"}, asked)
		assert.Equal(t, []string{"chat-1"}, askedFor)
	})

	t.Run("stored messages render on init", func(t *testing.T) {
		t.Parallel()

		chat := storedChat(
			restored(docchat.RoleUser, "hello there"),
			restored(docchat.RoleAssistant, "Hi! How can I help?"),
		)
		tm := teatest.NewTestModel(t, bt.New(nopAsk, chat, docchat.DefaultTheme()),
			teatest.WithInitialTermSize(80, 24),
		)

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("hello there")) &&
				bytes.Contains(out, []byte("Hi! How can I help?"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
		tm.WaitFinished(t, teatest.WithFinalTimeout(5*time.Second))
	})

	t.Run("ctrl+c stops a running answer", func(t *testing.T) {
		t.Parallel()

		ask := func(ctx context.Context, _ docchat.Chat, _ string, h docchat.Handler) {
			h.OnChunk("partial answer")
			<-ctx.Done()
		}

		tm := teatest.NewTestModel(t, bt.New(ask, storedChat(), docchat.DefaultTheme()),
			teatest.WithInitialTermSize(80, 24),
		)

		tm.Type("question")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("partial answer"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("(stopped)"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(bt.Model)
		require.True(t, ok)
		assert.False(t, final.Running())
		require.Len(t, final.Messages(), 2)
		assert.Equal(t, "partial answer", final.Messages()[1].Content())
	})

	t.Run("failed answer shows the fallback message", func(t *testing.T) {
		t.Parallel()

		ask := func(_ context.Context, _ docchat.Chat, _ string, h docchat.Handler) {
			h.OnError(&docchat.PrematureEndError{})
		}

		tm := teatest.NewTestModel(t, bt.New(ask, storedChat(), docchat.DefaultTheme()),
			teatest.WithInitialTermSize(80, 24),
		)

		tm.Type("question")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Sorry, I encountered an error"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(bt.Model)
		require.True(t, ok)
		var premature *docchat.PrematureEndError
		assert.ErrorAs(t, final.Err(), &premature)
	})
}
