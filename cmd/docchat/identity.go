package main

import (
	"fmt"

	docjson "github.com/fwojciec/docchat/json"
	"github.com/spf13/cobra"
)

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print your anonymous user id",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			user, err := a.identity()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, user)
			return nil
		},
	}
}

func newResetUserCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-user",
		Short: "Start over with a new anonymous user id",
		Long: `Start over with a new anonymous user id. Chats created under the old id
stay on the server but are no longer listed.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			user, err := docjson.ResetIdentity(a.cfg.IdentityFile)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, user)
			return nil
		},
	}
}
