package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/api"
	"github.com/fwojciec/docchat/config"
	docjson "github.com/fwojciec/docchat/json"
	"github.com/fwojciec/docchat/terminal"
	"github.com/spf13/cobra"
)

// logToFile annotates commands that own the terminal, whose logs go to the
// log file instead of stderr.
const logToFile = "log-to-file"

// app holds what commands share once configuration is resolved.
type app struct {
	env
	loader     *config.Loader
	configFile string

	cfg     config.Config
	logger  *slog.Logger
	logFile *os.File
	client  *api.Client
}

func newApp(e env) *app {
	return &app{
		env:    e,
		loader: config.NewLoader(e.dir),
		logger: slog.New(slog.DiscardHandler),
	}
}

// setup resolves configuration and builds the logger and API client. It runs
// before every command.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := a.loader.Load(a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	var w io.Writer = a.stderr
	if _, ok := cmd.Annotations[logToFile]; ok {
		f, err := openLog(cfg.LogFile)
		if err != nil {
			return err
		}
		a.logFile = f
		w = f
	}
	a.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level()}))
	a.logger.Debug("config loaded", "file", a.loader.ConfigFile(), "base_url", cfg.BaseURL)

	a.client = api.New(
		api.WithBaseURL(cfg.BaseURL),
		api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		api.WithLogger(a.logger),
	)
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}

func (a *app) identity() (docchat.UserID, error) {
	return docjson.LoadIdentity(a.cfg.IdentityFile)
}

func (a *app) conversation() *docchat.Conversation {
	asker := docchat.NewAsker(a.client, docchat.WithLogger(a.logger))
	return docchat.NewConversation(asker, a.client, docchat.WithConversationLogger(a.logger))
}

func (a *app) renderer() *terminal.Renderer {
	return terminal.New(docchat.DefaultTheme(), terminal.WithCodeStyle(a.cfg.Style))
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
}
