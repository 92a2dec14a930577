package docchat

import (
	"context"
	"io"
	"time"
)

// UserID is the anonymous identity of the person using the client. It is
// obtained once at startup and passed explicitly to whatever needs it.
type UserID string

// Chat is a conversation bound to one uploaded document.
type Chat struct {
	ID         string
	Title      string
	DocumentID string // database reference of the uploaded PDF
	FileID     string // resource the backend answers questions about
	UserID     UserID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ChatWithMessages is a chat together with its stored messages, oldest first.
type ChatWithMessages struct {
	Chat     Chat
	Messages []*ChatMessage
}

// Document is the result of uploading a PDF.
type Document struct {
	FileID     string
	DocumentID string
	Filename   string
	SignedURL  string
}

// ChatService is the request/response API around the streaming pipeline.
type ChatService interface {
	UploadDocument(ctx context.Context, filename string, r io.Reader) (Document, error)
	CreateChat(ctx context.Context, title string, doc Document, user UserID) (Chat, error)
	ListChats(ctx context.Context, user UserID) ([]Chat, error)
	GetChat(ctx context.Context, id string) (ChatWithMessages, error)
	DeleteChat(ctx context.Context, id string) error
	SaveMessage(ctx context.Context, chatID string, role Role, content string) (*ChatMessage, error)
}
