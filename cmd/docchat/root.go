package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) (*cobra.Command, error) {
	root := &cobra.Command{
		Use:   "docchat",
		Short: "Chat with your PDF documents",
		Long: `docchat uploads PDF documents to a docchat backend and answers questions
about them, streaming each answer as it is generated.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default ~/.docchat/config.yaml)")
	if err := a.loader.RegisterFlags(root.PersistentFlags()); err != nil {
		return nil, err
	}

	root.AddCommand(
		newChatCmd(a),
		newAskCmd(a),
		newUploadCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
		newWhoamiCmd(a),
		newResetUserCmd(a),
	)
	return root, nil
}
