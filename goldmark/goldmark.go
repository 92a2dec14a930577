// Package goldmark exports chat transcripts as standalone HTML documents,
// converting each message's markdown with goldmark.
//
// Raw HTML inside messages is omitted rather than passed through, so an
// exported transcript is safe to open in a browser.
package goldmark

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/fwojciec/docchat"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Exporter renders transcripts. The zero value is not usable; use New.
type Exporter struct {
	md goldmark.Markdown
}

// New creates an Exporter with GitHub-flavored tables, strikethrough and
// autolinks enabled.
func New() *Exporter {
	return &Exporter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

type pageMessage struct {
	Author string
	Role   string
	Time   string
	Body   template.HTML
}

type page struct {
	Title    string
	Exported string
	Messages []pageMessage
}

// RenderTranscript writes chat as an HTML page to w.
func (e *Exporter) RenderTranscript(w io.Writer, chat docchat.ChatWithMessages) error {
	p := page{
		Title:    chat.Chat.Title,
		Exported: chat.Chat.UpdatedAt.Format(time.RFC1123),
		Messages: make([]pageMessage, 0, len(chat.Messages)),
	}
	for _, m := range chat.Messages {
		var buf bytes.Buffer
		if err := e.md.Convert([]byte(m.Content()), &buf); err != nil {
			return fmt.Errorf("goldmark: convert message %s: %w", m.ID, err)
		}
		p.Messages = append(p.Messages, pageMessage{
			Author: author(m.Role()),
			Role:   string(m.Role()),
			Time:   m.CreatedAt.Format("2006-01-02 15:04"),
			Body:   template.HTML(buf.String()),
		})
	}
	if err := transcriptTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("goldmark: write transcript: %w", err)
	}
	return nil
}

func author(r docchat.Role) string {
	if r == docchat.RoleUser {
		return "You"
	}
	return "Assistant"
}

var transcriptTemplate = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; line-height: 1.5; }
.message { border-radius: 8px; padding: 0.75rem 1rem; margin: 1rem 0; }
.user { background: #e8f0fe; }
.assistant { background: #f4f4f5; }
.meta { font-size: 0.8rem; color: #666; }
pre { background: #1e1e1e; color: #eee; padding: 0.75rem; overflow-x: auto; }
blockquote { border-left: 4px solid #ccc; margin-left: 0; padding-left: 1rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Last updated {{.Exported}}</p>
{{range .Messages}}<div class="message {{.Role}}">
<p class="meta"><strong>{{.Author}}</strong> · {{.Time}}</p>
{{.Body}}</div>
{{end}}</body>
</html>
`))
