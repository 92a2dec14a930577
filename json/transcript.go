package json

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fwojciec/docchat"
)

// envelope is the v1 format of an exported transcript.
type envelope struct {
	Version  int          `json:"version"`
	Chat     chatDTO      `json:"chat"`
	Messages []messageDTO `json:"messages"`
}

type chatDTO struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	DocumentID string    `json:"document_id,omitempty"`
	FileID     string    `json:"file_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type messageDTO struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MarshalTranscript serializes a chat and its messages in v1 envelope format.
// Only terminal messages can be exported.
func MarshalTranscript(c docchat.ChatWithMessages) ([]byte, error) {
	env := envelope{
		Version: 1,
		Chat: chatDTO{
			ID:         c.Chat.ID,
			Title:      c.Chat.Title,
			DocumentID: c.Chat.DocumentID,
			FileID:     c.Chat.FileID,
			UserID:     string(c.Chat.UserID),
			CreatedAt:  c.Chat.CreatedAt,
			UpdatedAt:  c.Chat.UpdatedAt,
		},
		Messages: make([]messageDTO, len(c.Messages)),
	}
	for i, m := range c.Messages {
		if !m.IsTerminal() {
			return nil, fmt.Errorf("message %d: status %s is not exportable", i, m.Status())
		}
		env.Messages[i] = messageDTO{
			ID:        m.ID,
			Role:      string(m.Role()),
			Content:   m.Content(),
			CreatedAt: m.CreatedAt,
		}
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalTranscript deserializes a transcript in v1 envelope format.
func UnmarshalTranscript(data []byte) (docchat.ChatWithMessages, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return docchat.ChatWithMessages{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return docchat.ChatWithMessages{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	msgs := make([]*docchat.ChatMessage, len(env.Messages))
	for i, dto := range env.Messages {
		role := docchat.Role(dto.Role)
		if !role.Valid() {
			return docchat.ChatWithMessages{}, fmt.Errorf("message %d: unknown role %q", i, dto.Role)
		}
		msgs[i] = docchat.RestoreMessage(dto.ID, role, dto.Content, dto.CreatedAt)
	}
	return docchat.ChatWithMessages{
		Chat: docchat.Chat{
			ID:         env.Chat.ID,
			Title:      env.Chat.Title,
			DocumentID: env.Chat.DocumentID,
			FileID:     env.Chat.FileID,
			UserID:     docchat.UserID(env.Chat.UserID),
			CreatedAt:  env.Chat.CreatedAt,
			UpdatedAt:  env.Chat.UpdatedAt,
		},
		Messages: msgs,
	}, nil
}

// Save writes a transcript to a JSON file, creating parent directories as
// needed.
func Save(path string, c docchat.ChatWithMessages) error {
	data, err := MarshalTranscript(c)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return writeFile(path, data)
}

// Load reads a transcript from a JSON file.
func Load(path string) (docchat.ChatWithMessages, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return docchat.ChatWithMessages{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalTranscript(data)
}
