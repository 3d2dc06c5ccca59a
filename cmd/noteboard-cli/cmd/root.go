package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"noteboard/internal/app"
	"noteboard/internal/application"
	"noteboard/internal/config"
	"noteboard/internal/logging"
	"noteboard/internal/ports"
)

var (
	cfg     config.Config
	backend *app.App
	ns      ports.Namespace
)

var rootCmd = &cobra.Command{
	Use:   "noteboard-cli",
	Short: "CLI for managing noteboard folders and notes",
	Long: `noteboard-cli manages a tree of folders and notes kept in a stable,
gap-free order.

Without --owner it works on the scratch board stored in the snapshot
slot. With --owner it works on that owner's saved board. Use promote to
move the scratch board into a saved one.

Resources are addressed by token, or by kind:id with an optional @token
(folder:3, note:12@<token>). Use / for the top level.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		logger := logging.Console(cfg.LogLevel)
		ctx := logger.WithContext(cmd.Context())
		cmd.SetContext(ctx)

		a, err := app.Open(ctx, cfg)
		if err != nil {
			return err
		}
		backend = a
		if ns, err = a.Namespace(ctx); err != nil {
			a.Close()
			return err
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if backend == nil {
			return nil
		}
		err := backend.Close()
		backend, ns = nil, nil
		return err
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if backend != nil {
			backend.Close()
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	config.LoadDotEnv()
	cfg = config.Load()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the SQLite database")
	flags.StringVar(&cfg.SnapshotPath, "snapshot", cfg.SnapshotPath, "path to the scratch board snapshot file")
	flags.StringVar(&cfg.ContentDir, "content", cfg.ContentDir, "directory holding note text and canvases")
	flags.StringVarP(&cfg.Owner, "owner", "o", cfg.Owner, "owner of the saved board (empty for the scratch board)")
	flags.StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "redis URL for the snapshot slot (overrides --snapshot)")
	flags.StringVar(&cfg.Session, "session", cfg.Session, "session name of the redis snapshot slot")
	flags.StringVar(&cfg.Codec, "codec", cfg.Codec, "snapshot encoding (json or cbor)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
}

// GetNamespace returns the namespace selected by the flags
func GetNamespace() ports.Namespace {
	return ns
}

func locatorArg(s string) (application.Locator, error) {
	loc, err := application.ParseLocator(s)
	if err != nil {
		return loc, fmt.Errorf("invalid resource %q: %w", s, err)
	}
	return loc, nil
}

func logger(cmd *cobra.Command) *zerolog.Logger {
	return zerolog.Ctx(cmd.Context())
}
