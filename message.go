package docchat

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// FallbackContent replaces the content of a message whose stream failed.
// The failure detail is logged, never shown.
const FallbackContent = "Sorry, I encountered an error processing your question. Please try again."

// MessageStatus is the lifecycle state of a ChatMessage.
type MessageStatus string

const (
	StatusPending   MessageStatus = "pending"
	StatusStreaming MessageStatus = "streaming"
	StatusComplete  MessageStatus = "complete"
	StatusError     MessageStatus = "error"
)

// ChatMessage is one message of a chat.
//
// Assistant messages move pending → streaming → complete, or to error from
// any non-terminal state. No transition leaves a terminal state. Content is
// appended in place while streaming and is immutable afterwards.
//
// A ChatMessage has a single writer. Calling a transition from a terminal
// state is a programming error and panics.
type ChatMessage struct {
	ID        string
	CreatedAt time.Time

	role    Role
	status  MessageStatus
	content strings.Builder
	err     error
}

// NewUserMessage returns a user message. User messages never stream, so they
// are complete at creation.
func NewUserMessage(id, content string, createdAt time.Time) *ChatMessage {
	m := &ChatMessage{ID: id, CreatedAt: createdAt, role: RoleUser, status: StatusComplete}
	m.content.WriteString(content)
	return m
}

// NewAssistantMessage returns an empty assistant message awaiting its answer.
func NewAssistantMessage(id string, createdAt time.Time) *ChatMessage {
	return &ChatMessage{ID: id, CreatedAt: createdAt, role: RoleAssistant, status: StatusPending}
}

// RestoreMessage rebuilds a message loaded from storage. Restored messages
// are complete.
func RestoreMessage(id string, role Role, content string, createdAt time.Time) *ChatMessage {
	m := &ChatMessage{ID: id, CreatedAt: createdAt, role: role, status: StatusComplete}
	m.content.WriteString(content)
	return m
}

// Role returns the sender role.
func (m *ChatMessage) Role() Role { return m.role }

// Status returns the lifecycle state.
func (m *ChatMessage) Status() MessageStatus { return m.status }

// Content returns the text accumulated so far.
func (m *ChatMessage) Content() string { return m.content.String() }

// Err returns the failure detail of a message in the error state.
func (m *ChatMessage) Err() error { return m.err }

// IsTerminal reports whether the message reached complete or error.
func (m *ChatMessage) IsTerminal() bool {
	return m.status == StatusComplete || m.status == StatusError
}

// AppendChunk appends text and moves the message to streaming.
func (m *ChatMessage) AppendChunk(text string) {
	m.mustBeOpen("append chunk")
	m.content.WriteString(text)
	m.status = StatusStreaming
}

// MarkComplete ends the message successfully. An empty answer is allowed.
func (m *ChatMessage) MarkComplete() {
	m.mustBeOpen("mark complete")
	m.status = StatusComplete
}

// MarkError ends the message with FallbackContent. err is kept for Err().
func (m *ChatMessage) MarkError(err error) {
	m.mustBeOpen("mark error")
	m.content.Reset()
	m.content.WriteString(FallbackContent)
	m.err = err
	m.status = StatusError
}

// Apply drives the message with one stream event.
func (m *ChatMessage) Apply(e Event) {
	switch e := e.(type) {
	case EventChunk:
		m.AppendChunk(e.Text)
	case EventCompletion:
		m.MarkComplete()
	case EventFailure:
		m.MarkError(&UpstreamError{Message: e.Message})
	default:
		panic(fmt.Sprintf("docchat: unrecognized event type %T", e))
	}
}

func (m *ChatMessage) mustBeOpen(op string) {
	if m.role != RoleAssistant {
		panic(fmt.Sprintf("docchat: %s on %s message %s", op, m.role, m.ID))
	}
	if m.IsTerminal() {
		panic(fmt.Sprintf("docchat: %s on %s message %s", op, m.status, m.ID))
	}
}

// Drive returns a Handler that applies Asker callbacks to m. The failure
// detail goes to logger; the message itself only shows FallbackContent.
func Drive(m *ChatMessage, logger *slog.Logger) Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return Handler{
		OnChunk:    m.AppendChunk,
		OnComplete: m.MarkComplete,
		OnError: func(err error) {
			logger.Error("answer failed", "message_id", m.ID, "error", err)
			m.MarkError(err)
		},
	}
}
