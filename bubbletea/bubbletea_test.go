package bubbletea_test

import (
	"context"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/docchat"
	bt "github.com/fwojciec/docchat/bubbletea"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.ANSI)
	os.Exit(m.Run())
}

var testChat = docchat.Chat{ID: "chat-1", Title: "report", FileID: "file-1"}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, ask bt.AskFunc, opts ...bt.Option) bt.Model {
	t.Helper()
	return initModelWithChat(t, ask, docchat.ChatWithMessages{Chat: testChat}, opts...)
}

// initModelWithChat creates a model for a chat with stored messages.
func initModelWithChat(t *testing.T, ask bt.AskFunc, chat docchat.ChatWithMessages, opts ...bt.Option) bt.Model {
	t.Helper()
	m := bt.New(ask, chat, docchat.DefaultTheme(), opts...)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// typeAndSubmit types text into the input and presses Enter.
func typeAndSubmit(t *testing.T, m bt.Model, text string) bt.Model {
	t.Helper()
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func storedChat(messages ...*docchat.ChatMessage) docchat.ChatWithMessages {
	return docchat.ChatWithMessages{Chat: testChat, Messages: messages}
}

func restored(role docchat.Role, content string) *docchat.ChatMessage {
	return docchat.RestoreMessage(string(role)+"-1", role, content, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
}

// nopAsk is an ask function that reports nothing.
func nopAsk(_ context.Context, _ docchat.Chat, _ string, _ docchat.Handler) {}
