package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"noteboard/internal/adapters/editor"
	"noteboard/internal/adapters/tui"
	"noteboard/internal/app"
	"noteboard/internal/config"
	"noteboard/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadDotEnv()
	cfg := config.Load()

	// The terminal belongs to the TUI; logs only go to a file
	logger := zerolog.Nop()
	if cfg.LogFile != "" {
		l, closer, err := logging.FromPath(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer closer.Close()
		logger = l
	}
	zerolog.DefaultContextLogger = &logger
	ctx := logger.WithContext(context.Background())

	backend, err := app.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	ns, err := backend.Namespace(ctx)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewApp(ns, editor.NewOpener()), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
