// Package api implements [docchat.Streamer] and [docchat.ChatService] against
// the document chat backend's HTTP API.
//
// Answers arrive on POST /ask-question as a chunked body of "data: <json>"
// lines, framed and decoded by package sse. Everything else is plain
// request/response JSON.
package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/docchat"
)

const (
	defaultBaseURL = "http://localhost:8000"

	askPath      = "/ask-question"
	uploadPath   = "/pdf-upload"
	createPath   = "/chat/create"
	messagePath  = "/chat/message"
	allChatsPath = "/chat/all"
)

// askRequest is the JSON body of a streaming question.
type askRequest struct {
	FileID   string `json:"file_id"`
	Question string `json:"question"`
}

type uploadResponse struct {
	FileID     string `json:"file_id"`
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	SignedURL  string `json:"signed_url"`
}

type createChatRequest struct {
	Title         string `json:"title"`
	PDFDocumentID string `json:"pdf_document_id"`
	FileID        string `json:"file_id"`
	UserID        string `json:"user_id,omitempty"`
}

type saveMessageRequest struct {
	ChatID  string `json:"chat_id"`
	Content string `json:"content"`
	Sender  string `json:"sender"`
}

type apiChat struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	PDFDocumentID *string   `json:"pdf_document_id"`
	FileID        *string   `json:"file_id"`
	UserID        *string   `json:"user_id"`
	CreatedAt     timestamp `json:"created_at"`
	UpdatedAt     timestamp `json:"updated_at"`
}

type apiMessage struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	CreatedAt timestamp `json:"created_at"`
}

type apiChatWithMessages struct {
	Chat     apiChat      `json:"chat"`
	Messages []apiMessage `json:"messages"`
}

func (c apiChat) toDomain() docchat.Chat {
	return docchat.Chat{
		ID:         c.ID,
		Title:      c.Title,
		DocumentID: deref(c.PDFDocumentID),
		FileID:     deref(c.FileID),
		UserID:     docchat.UserID(deref(c.UserID)),
		CreatedAt:  c.CreatedAt.Time,
		UpdatedAt:  c.UpdatedAt.Time,
	}
}

func (m apiMessage) toDomain() (*docchat.ChatMessage, error) {
	role := docchat.Role(m.Sender)
	if !role.Valid() {
		return nil, fmt.Errorf("message %s: unknown sender %q", m.ID, m.Sender)
	}
	return docchat.RestoreMessage(m.ID, role, m.Content, m.CreatedAt.Time), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// timestamp accepts the backend's ISO 8601 timestamps, which may omit the
// zone offset. Values without an offset are taken as UTC.
type timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

func (t *timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}
