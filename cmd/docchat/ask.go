package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/markup"
	"github.com/fwojciec/docchat/terminal"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// errAnswerFailed is returned after the fallback message was shown; the
// cause has already been logged.
var errAnswerFailed = errors.New("answer failed")

func newAskCmd(a *app) *cobra.Command {
	var render bool
	cmd := &cobra.Command{
		Use:   "ask <chat-id> <question>...",
		Short: "Ask a question and stream the answer to stdout",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			chat, err := a.openChat(ctx, args[0])
			if err != nil {
				return err
			}
			question := strings.Join(args[1:], " ")

			answer := docchat.NewAssistantMessage(uuid.NewString(), time.Now())
			h := docchat.Drive(answer, a.logger)
			if !render {
				h.OnChunk = func(text string) {
					answer.AppendChunk(text)
					io.WriteString(a.stdout, terminal.Sanitize(text))
				}
			}
			a.conversation().Ask(ctx, chat.Chat, question, h)

			switch answer.Status() {
			case docchat.StatusError:
				fmt.Fprintln(a.stderr, answer.Content())
				return errAnswerFailed
			case docchat.StatusComplete:
			default:
				if err := ctx.Err(); err != nil {
					return err
				}
				return errAnswerFailed
			}

			if render {
				fmt.Fprintln(a.stdout, a.renderer().Render(markup.Parse(answer.Content()), a.cfg.Width))
				return nil
			}
			if !strings.HasSuffix(answer.Content(), "\n") {
				fmt.Fprintln(a.stdout)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&render, "render", false, "wait for the whole answer and print it formatted")
	return cmd
}
