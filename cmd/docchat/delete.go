package main

import (
	"errors"
	"fmt"

	"github.com/fwojciec/docchat"
	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <chat-id>",
		Short: "Delete a chat and its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.client.DeleteChat(cmd.Context(), args[0])
			if errors.Is(err, docchat.ErrNotFound) {
				return fmt.Errorf("chat %s not found", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Deleted chat %s\n", args[0])
			return nil
		},
	}
}
