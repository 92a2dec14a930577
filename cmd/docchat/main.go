// Command docchat chats with uploaded PDF documents from the terminal.
//
// Usage:
//
//	docchat upload report.pdf          Upload a PDF and create a chat for it
//	docchat list                       List your chats, newest first
//	docchat chat [chat-id]             Open a chat in the interactive TUI
//	docchat ask <chat-id> <question>   Ask once and stream the answer to stdout
//
// Settings come from ~/.docchat/config.yaml, DOCCHAT_* environment variables
// and flags, in increasing order of precedence.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], env{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		dir:    defaultDir(),
	})
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "docchat: %v\n", err)
		os.Exit(1)
	}
}

// env is the process environment a run works against.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	dir    string // directory holding config.yaml, the identity and the log
}

func run(ctx context.Context, args []string, e env) error {
	a := newApp(e)
	defer a.close()

	root, err := newRootCmd(a)
	if err != nil {
		return err
	}
	root.SetArgs(args)
	root.SetIn(e.stdin)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)
	return root.ExecuteContext(ctx)
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docchat"
	}
	return filepath.Join(home, ".docchat")
}
