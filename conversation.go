package docchat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Conversation runs question/answer turns against a chat and keeps the
// backend's message history in step with them.
type Conversation struct {
	asker  *Asker
	store  ChatService
	logger *slog.Logger
}

// ConversationOption configures a Conversation.
type ConversationOption func(*Conversation)

// WithConversationLogger sets the logger for persistence diagnostics.
func WithConversationLogger(l *slog.Logger) ConversationOption {
	return func(c *Conversation) { c.logger = l }
}

// NewConversation creates a Conversation.
func NewConversation(asker *Asker, store ChatService, opts ...ConversationOption) *Conversation {
	c := &Conversation{asker: asker, store: store, logger: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Ask persists the question, streams the answer through h, and persists the
// answer once it is complete. Failing to persist the answer is logged but
// does not fail the turn: the user already has the answer on screen.
func (c *Conversation) Ask(ctx context.Context, chat Chat, question string, h Handler) {
	if chat.FileID == "" {
		if h.OnError != nil {
			h.OnError(fmt.Errorf("chat %s has no document: %w", chat.ID, ErrValidation))
		}
		return
	}

	if _, err := c.store.SaveMessage(ctx, chat.ID, RoleUser, question); err != nil {
		if ctx.Err() == nil && h.OnError != nil {
			h.OnError(fmt.Errorf("save question: %w", err))
		}
		return
	}

	var answer strings.Builder
	c.asker.Run(ctx, Query{Resource: chat.FileID, Text: question}, Handler{
		OnChunk: func(text string) {
			answer.WriteString(text)
			if h.OnChunk != nil {
				h.OnChunk(text)
			}
		},
		OnComplete: func() {
			if _, err := c.store.SaveMessage(ctx, chat.ID, RoleAssistant, answer.String()); err != nil {
				c.logger.Warn("save answer failed", "chat_id", chat.ID, "error", err)
			}
			if h.OnComplete != nil {
				h.OnComplete()
			}
		},
		OnError: h.OnError,
	})
}
