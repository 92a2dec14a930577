// Package bubbletea provides the interactive chat TUI.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/docchat"
)

// AskFunc asks question within chat and reports the answer through h. It
// blocks until the answer ends or ctx is cancelled. docchat.Conversation.Ask
// satisfies it.
type AskFunc func(ctx context.Context, chat docchat.Chat, question string, h docchat.Handler)

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The program quits when ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamEventMsg wraps a streaming event for delivery to the Bubble Tea model.
type StreamEventMsg struct {
	Event docchat.Event
}

// AnswerDoneMsg signals that the answer stream has ended. Err is nil when the
// answer completed, context.Canceled when it was stopped, and the failure
// otherwise.
type AnswerDoneMsg struct {
	Err error
}
