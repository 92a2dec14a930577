package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/terminal"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"github.com/spf13/cobra"
)

const (
	titleWidth = 40
	ellipsis   = "…"
)

func newListCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your chats, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var user docchat.UserID
			if !all {
				var err error
				if user, err = a.identity(); err != nil {
					return err
				}
			}
			chats, err := a.client.ListChats(cmd.Context(), user)
			if err != nil {
				return err
			}
			if len(chats) == 0 {
				fmt.Fprintln(a.stdout, "No chats found.")
				return nil
			}
			writeChatTable(a.stdout, chats)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list chats of every user")
	return cmd
}

// writeChatTable prints chats in aligned columns. Titles are measured in
// terminal cells, so wide characters keep the columns straight.
func writeChatTable(w io.Writer, chats []docchat.Chat) {
	idWidth := len("ID")
	for _, c := range chats {
		idWidth = max(idWidth, runewidth.StringWidth(c.ID))
	}

	row := func(id, title, updated string) {
		line := runewidth.FillRight(id, idWidth) + "  " + runewidth.FillRight(title, titleWidth) + "  " + updated
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	row("ID", "TITLE", "UPDATED")
	for _, c := range chats {
		updated := ""
		if !c.UpdatedAt.IsZero() {
			updated = c.UpdatedAt.Local().Format("2006-01-02 15:04")
		}
		row(c.ID, truncate(terminal.Sanitize(c.Title), titleWidth), updated)
	}
}

// truncate shortens s to at most width cells, cutting between grapheme
// clusters and marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if uniseg.StringWidth(s) <= width {
		return s
	}
	limit := width - runewidth.StringWidth(ellipsis)
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		if used+g.Width() > limit {
			break
		}
		used += g.Width()
		b.WriteString(g.Str())
	}
	return b.String() + ellipsis
}
