package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeBackend is an in-memory document chat server.
type fakeBackend struct {
	t *testing.T

	mu       sync.Mutex
	clock    time.Time
	nextID   int
	uploads  []string
	chats    map[string]map[string]any
	messages map[string][]map[string]any
	answer   []string // chunks streamed for every question
	failWith string   // error frame sent instead of done when set
	paths    []string
}

func newFakeBackend(t *testing.T) (*fakeBackend, string) {
	t.Helper()
	b := &fakeBackend{
		t:        t,
		clock:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		chats:    make(map[string]map[string]any),
		messages: make(map[string][]map[string]any),
		answer:   []string{"Hello ", "**world**"},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /pdf-upload", b.upload)
	mux.HandleFunc("POST /chat/create", b.create)
	mux.HandleFunc("GET /chat/all", b.listAll)
	mux.HandleFunc("GET /chat/user/{user}/chats", b.listUser)
	mux.HandleFunc("GET /chat/{id}", b.get)
	mux.HandleFunc("DELETE /chat/{id}", b.delete)
	mux.HandleFunc("POST /chat/message", b.saveMessage)
	mux.HandleFunc("POST /ask-question", b.ask)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.paths = append(b.paths, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return b, srv.URL
}

func (b *fakeBackend) tick() string {
	b.clock = b.clock.Add(time.Minute)
	return b.clock.Format("2006-01-02T15:04:05.000000")
}

func (b *fakeBackend) id(prefix string) string {
	b.nextID++
	return fmt.Sprintf("%s-%d", prefix, b.nextID)
}

func (b *fakeBackend) upload(w http.ResponseWriter, r *http.Request) {
	_, header, err := r.FormFile("file")
	if !assert.NoError(b.t, err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads = append(b.uploads, header.Filename)
	writeJSON(w, map[string]any{
		"file_id":     b.id("file"),
		"document_id": b.id("doc"),
		"filename":    header.Filename,
		"signed_url":  "https://storage.example/" + header.Filename,
	})
}

func (b *fakeBackend) create(w http.ResponseWriter, r *http.Request) {
	var in map[string]any
	if !assert.NoError(b.t, json.NewDecoder(r.Body).Decode(&in)) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.tick()
	chat := map[string]any{
		"id":              b.id("chat"),
		"title":           in["title"],
		"pdf_document_id": in["pdf_document_id"],
		"file_id":         in["file_id"],
		"user_id":         in["user_id"],
		"created_at":      now,
		"updated_at":      now,
	}
	b.chats[chat["id"].(string)] = chat
	writeJSON(w, chat)
}

func (b *fakeBackend) listAll(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, b.sorted(func(map[string]any) bool { return true }))
}

func (b *fakeBackend) listUser(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, b.sorted(func(c map[string]any) bool { return c["user_id"] == user }))
}

func (b *fakeBackend) sorted(keep func(map[string]any) bool) []map[string]any {
	out := []map[string]any{}
	for _, c := range b.chats {
		if keep(c) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(x, y map[string]any) int {
		return strings.Compare(y["updated_at"].(string), x["updated_at"].(string))
	})
	return out
}

func (b *fakeBackend) get(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	chat, ok := b.chats[r.PathValue("id")]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"detail": "Chat not found"})
		return
	}
	messages := b.messages[chat["id"].(string)]
	if messages == nil {
		messages = []map[string]any{}
	}
	writeJSON(w, map[string]any{"chat": chat, "messages": messages})
}

func (b *fakeBackend) delete(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := b.chats[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"detail": "Chat not found"})
		return
	}
	delete(b.chats, id)
	delete(b.messages, id)
	writeJSON(w, map[string]string{"message": "Chat deleted successfully"})
}

func (b *fakeBackend) saveMessage(w http.ResponseWriter, r *http.Request) {
	var in map[string]any
	if !assert.NoError(b.t, json.NewDecoder(r.Body).Decode(&in)) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	chatID := in["chat_id"].(string)
	now := b.tick()
	msg := map[string]any{
		"id":         b.id("msg"),
		"chat_id":    chatID,
		"content":    in["content"],
		"sender":     in["sender"],
		"created_at": now,
	}
	b.messages[chatID] = append(b.messages[chatID], msg)
	if chat, ok := b.chats[chatID]; ok {
		chat["updated_at"] = now
	}
	writeJSON(w, msg)
}

func (b *fakeBackend) ask(w http.ResponseWriter, r *http.Request) {
	var in map[string]string
	if !assert.NoError(b.t, json.NewDecoder(r.Body).Decode(&in)) {
		return
	}
	b.mu.Lock()
	chunks, failWith := b.answer, b.failWith
	b.mu.Unlock()

	flusher := w.(http.Flusher)
	w.Header().Set("Content-Type", "text/plain")
	frame := func(v any) {
		data, _ := json.Marshal(v)
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
	for _, c := range chunks {
		frame(map[string]string{"chunk": c})
	}
	if failWith != "" {
		frame(map[string]string{"error": failWith})
	}
	frame(map[string]bool{"done": true})
}

func (b *fakeBackend) storedMessages(chatID string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.messages[chatID])
}

func (b *fakeBackend) uploaded() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.uploads)
}

func (b *fakeBackend) requested() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.paths)
}

// owners returns the user id of every chat.
func (b *fakeBackend) owners() []any {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []any
	for _, c := range b.chats {
		out = append(out, c["user_id"])
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
