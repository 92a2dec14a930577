package mock

import (
	"context"
	"io"

	"github.com/fwojciec/docchat"
)

var _ docchat.ChatService = (*ChatService)(nil)

// ChatService is a test double for docchat.ChatService.
// Set the function fields for the methods you need; unset methods panic.
type ChatService struct {
	UploadDocumentFn func(ctx context.Context, filename string, r io.Reader) (docchat.Document, error)
	CreateChatFn     func(ctx context.Context, title string, doc docchat.Document, user docchat.UserID) (docchat.Chat, error)
	ListChatsFn      func(ctx context.Context, user docchat.UserID) ([]docchat.Chat, error)
	GetChatFn        func(ctx context.Context, id string) (docchat.ChatWithMessages, error)
	DeleteChatFn     func(ctx context.Context, id string) error
	SaveMessageFn    func(ctx context.Context, chatID string, role docchat.Role, content string) (*docchat.ChatMessage, error)
}

// UploadDocument delegates to UploadDocumentFn.
func (s *ChatService) UploadDocument(ctx context.Context, filename string, r io.Reader) (docchat.Document, error) {
	return s.UploadDocumentFn(ctx, filename, r)
}

// CreateChat delegates to CreateChatFn.
func (s *ChatService) CreateChat(ctx context.Context, title string, doc docchat.Document, user docchat.UserID) (docchat.Chat, error) {
	return s.CreateChatFn(ctx, title, doc, user)
}

// ListChats delegates to ListChatsFn.
func (s *ChatService) ListChats(ctx context.Context, user docchat.UserID) ([]docchat.Chat, error) {
	return s.ListChatsFn(ctx, user)
}

// GetChat delegates to GetChatFn.
func (s *ChatService) GetChat(ctx context.Context, id string) (docchat.ChatWithMessages, error) {
	return s.GetChatFn(ctx, id)
}

// DeleteChat delegates to DeleteChatFn.
func (s *ChatService) DeleteChat(ctx context.Context, id string) error {
	return s.DeleteChatFn(ctx, id)
}

// SaveMessage delegates to SaveMessageFn.
func (s *ChatService) SaveMessage(ctx context.Context, chatID string, role docchat.Role, content string) (*docchat.ChatMessage, error) {
	return s.SaveMessageFn(ctx, chatID, role, content)
}
