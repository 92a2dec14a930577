package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/docchat"
	bt "github.com/fwojciec/docchat/bubbletea"
	"github.com/spf13/cobra"
)

// errNoChats is returned when a command needs a chat and the user has none.
var errNoChats = errors.New("no chats yet: upload a PDF with 'docchat upload <file>'")

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [chat-id]",
		Short: "Open a chat in the interactive TUI (the most recent one by default)",
		Args:  cobra.MaximumNArgs(1),
		Annotations: map[string]string{
			logToFile: "",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			chat, err := a.openChat(ctx, id)
			if err != nil {
				return err
			}

			m := bt.New(a.conversation().Ask, chat, docchat.DefaultTheme(),
				bt.WithLogger(a.logger),
				bt.WithRenderer(a.renderer()),
			)
			if err := bt.Run(ctx, m); err != nil {
				return fmt.Errorf("TUI: %w", err)
			}
			return nil
		},
	}
}

// openChat loads chat id with its messages. An empty id selects the user's
// most recently updated chat.
func (a *app) openChat(ctx context.Context, id string) (docchat.ChatWithMessages, error) {
	if id == "" {
		user, err := a.identity()
		if err != nil {
			return docchat.ChatWithMessages{}, err
		}
		chats, err := a.client.ListChats(ctx, user)
		if err != nil {
			return docchat.ChatWithMessages{}, err
		}
		if len(chats) == 0 {
			return docchat.ChatWithMessages{}, errNoChats
		}
		id = chats[0].ID
	}
	chat, err := a.client.GetChat(ctx, id)
	if errors.Is(err, docchat.ErrNotFound) {
		return docchat.ChatWithMessages{}, fmt.Errorf("chat %s not found", id)
	}
	return chat, err
}
