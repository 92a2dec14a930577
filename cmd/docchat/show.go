package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/docchat"
	bt "github.com/fwojciec/docchat/bubbletea"
	"github.com/fwojciec/docchat/markup"
	"github.com/fwojciec/docchat/terminal"
	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <chat-id>",
		Short: "Print a chat with its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chat, err := a.openChat(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			writeTranscript(a.stdout, chat, a.renderer(), a.cfg.Width)
			return nil
		},
	}
}

func writeTranscript(w io.Writer, chat docchat.ChatWithMessages, r *terminal.Renderer, width int) {
	styles := bt.NewStyles(docchat.DefaultTheme())

	fmt.Fprintln(w, styles.Accent.Render(terminal.Sanitize(chat.Chat.Title)))
	if len(chat.Messages) == 0 {
		fmt.Fprintln(w, styles.Muted.Render("No messages yet."))
		return
	}
	for _, m := range chat.Messages {
		fmt.Fprintln(w)
		label := styles.Assistant.Render("Assistant")
		body := r.Render(markup.Parse(m.Content()), width)
		if m.Role() == docchat.RoleUser {
			label = styles.UserMsg.Render("You")
			body = lipgloss.NewStyle().Width(width).Render(terminal.Sanitize(m.Content()))
		}
		stamp := ""
		if !m.CreatedAt.IsZero() {
			stamp = " " + styles.Muted.Render(m.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Fprintln(w, label+stamp)
		fmt.Fprintln(w, body)
	}
}
