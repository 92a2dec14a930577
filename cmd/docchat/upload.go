package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/fs"
	"github.com/spf13/cobra"
)

func newUploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file-or-glob>...",
		Short: "Upload PDFs and create a chat for each",
		Long: `Upload PDFs and create a chat for each. Arguments may be glob patterns,
including ** for recursive matching (quote them to keep the shell from
expanding them first). Each chat is titled after its file name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := fs.Glob(args...)
			if err != nil {
				return err
			}
			user, err := a.identity()
			if err != nil {
				return err
			}
			for _, path := range paths {
				chat, err := a.uploadOne(cmd.Context(), path, user)
				if err != nil {
					return fmt.Errorf("upload %s: %w", path, err)
				}
				fmt.Fprintf(a.stdout, "%s\t%s\n", chat.ID, chat.Title)
			}
			return nil
		},
	}
}

func (a *app) uploadOne(ctx context.Context, path string, user docchat.UserID) (docchat.Chat, error) {
	f, err := fs.OpenPDF(path)
	if err != nil {
		return docchat.Chat{}, err
	}
	defer f.Close()

	doc, err := a.client.UploadDocument(ctx, filepath.Base(path), f)
	if err != nil {
		return docchat.Chat{}, err
	}
	a.logger.Info("document uploaded", "file", path, "file_id", doc.FileID)
	return a.client.CreateChat(ctx, fs.Title(path), doc, user)
}
