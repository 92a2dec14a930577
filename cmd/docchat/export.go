package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fwojciec/docchat/goldmark"
	docjson "github.com/fwojciec/docchat/json"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export <chat-id>",
		Short: "Export a chat transcript as JSON or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "html" {
				return fmt.Errorf("unknown format %q: must be \"json\" or \"html\"", format)
			}
			chat, err := a.openChat(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if format == "json" && output != "" {
				if err := docjson.Save(output, chat); err != nil {
					return fmt.Errorf("export: %w", err)
				}
				return nil
			}

			var buf bytes.Buffer
			switch format {
			case "json":
				data, err := docjson.MarshalTranscript(chat)
				if err != nil {
					return fmt.Errorf("export: %w", err)
				}
				buf.Write(data)
				buf.WriteByte('\n')
			case "html":
				if err := goldmark.New().RenderTranscript(&buf, chat); err != nil {
					return fmt.Errorf("export: %w", err)
				}
			}

			if output == "" {
				_, err = buf.WriteTo(a.stdout)
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
