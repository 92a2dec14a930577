package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/docchat"
	"github.com/tidwall/gjson"
)

// Interface compliance checks.
var (
	_ docchat.Streamer    = (*Client)(nil)
	_ docchat.ChatService = (*Client)(nil)
)

// Client talks to the document chat backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the backend base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient sets a custom HTTP client. Its Timeout bounds every
// request, including the full duration of a streamed answer.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger for request and stream diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new [Client].
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stream posts q to the answer endpoint and returns a [docchat.Stream] over
// the response body. A non-success status is returned as a
// *docchat.UpstreamError.
func (c *Client) Stream(ctx context.Context, q docchat.Query) (docchat.Stream, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	body, err := json.Marshal(askRequest{FileID: q.Resource, Question: q.Text})
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+askPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	c.logger.Debug("http request", "method", req.Method, "path", askPath)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: ask question: %w", &docchat.TransportError{Op: "send request", Err: err})
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, fmt.Errorf("api: ask question: %w", parseHTTPError(resp))
	}

	return newStream(ctx, resp.Body, c.logger), nil
}

// UploadDocument uploads a PDF as the multipart field "file".
func (c *Client) UploadDocument(ctx context.Context, filename string, r io.Reader) (docchat.Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	h.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(h)
	if err != nil {
		return docchat.Document{}, fmt.Errorf("api: upload document: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return docchat.Document{}, fmt.Errorf("api: upload document: read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return docchat.Document{}, fmt.Errorf("api: upload document: %w", err)
	}

	var out uploadResponse
	if err := c.do(ctx, http.MethodPost, uploadPath, mw.FormDataContentType(), &buf, &out); err != nil {
		return docchat.Document{}, fmt.Errorf("api: upload document: %w", err)
	}
	return docchat.Document{
		FileID:     out.FileID,
		DocumentID: out.DocumentID,
		Filename:   out.Filename,
		SignedURL:  out.SignedURL,
	}, nil
}

// CreateChat creates a chat bound to doc.
func (c *Client) CreateChat(ctx context.Context, title string, doc docchat.Document, user docchat.UserID) (docchat.Chat, error) {
	in := createChatRequest{
		Title:         title,
		PDFDocumentID: doc.DocumentID,
		FileID:        doc.FileID,
		UserID:        string(user),
	}
	var out apiChat
	if err := c.doJSON(ctx, http.MethodPost, createPath, in, &out); err != nil {
		return docchat.Chat{}, fmt.Errorf("api: create chat: %w", err)
	}
	return out.toDomain(), nil
}

// ListChats returns the user's chats, most recently updated first. An empty
// user lists every chat.
func (c *Client) ListChats(ctx context.Context, user docchat.UserID) ([]docchat.Chat, error) {
	path := allChatsPath
	if user != "" {
		path = "/chat/user/" + url.PathEscape(string(user)) + "/chats"
	}
	var out []apiChat
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("api: list chats: %w", err)
	}
	chats := make([]docchat.Chat, len(out))
	for i, ch := range out {
		chats[i] = ch.toDomain()
	}
	return chats, nil
}

// GetChat returns a chat with its messages, oldest first.
func (c *Client) GetChat(ctx context.Context, id string) (docchat.ChatWithMessages, error) {
	var out apiChatWithMessages
	if err := c.doJSON(ctx, http.MethodGet, chatPath(id), nil, &out); err != nil {
		return docchat.ChatWithMessages{}, fmt.Errorf("api: get chat: %w", err)
	}
	msgs := make([]*docchat.ChatMessage, 0, len(out.Messages))
	for _, m := range out.Messages {
		msg, err := m.toDomain()
		if err != nil {
			return docchat.ChatWithMessages{}, fmt.Errorf("api: get chat: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return docchat.ChatWithMessages{Chat: out.Chat.toDomain(), Messages: msgs}, nil
}

// DeleteChat deletes a chat and its messages.
func (c *Client) DeleteChat(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, chatPath(id), nil, nil); err != nil {
		return fmt.Errorf("api: delete chat: %w", err)
	}
	return nil
}

// SaveMessage stores a message in a chat and returns it as stored.
func (c *Client) SaveMessage(ctx context.Context, chatID string, role docchat.Role, content string) (*docchat.ChatMessage, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("api: save message: role %q: %w", role, docchat.ErrValidation)
	}
	in := saveMessageRequest{ChatID: chatID, Content: content, Sender: string(role)}
	var out apiMessage
	if err := c.doJSON(ctx, http.MethodPost, messagePath, in, &out); err != nil {
		return nil, fmt.Errorf("api: save message: %w", err)
	}
	msg, err := out.toDomain()
	if err != nil {
		return nil, fmt.Errorf("api: save message: %w", err)
	}
	return msg, nil
}

func chatPath(id string) string {
	return "/chat/" + url.PathEscape(id)
}

// doJSON sends in as a JSON body (when non-nil) and decodes the response
// into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, contentType, body, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &docchat.TransportError{Op: "send request", Err: err}
	}
	defer resp.Body.Close()
	c.logger.Debug("http request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseHTTPError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return &docchat.TransportError{Op: "read body", Err: io.ErrUnexpectedEOF}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseHTTPError turns a non-success response into a *docchat.UpstreamError,
// preferring the JSON "detail" field over the raw body.
func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &docchat.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to read body: %v", err),
		}
	}
	msg := strings.TrimSpace(string(body))
	if gjson.ValidBytes(body) {
		if detail := gjson.GetBytes(body, "detail"); detail.Exists() {
			msg = detail.String()
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &docchat.UpstreamError{StatusCode: resp.StatusCode, Message: msg}
}
