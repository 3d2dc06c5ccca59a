package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	mcpadapter "noteboard/internal/adapters/mcp"
	"noteboard/internal/app"
	"noteboard/internal/config"
	"noteboard/internal/logging"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the SQLite database")
	flag.StringVar(&cfg.SnapshotPath, "snapshot", cfg.SnapshotPath, "path to the scratch board snapshot file")
	flag.StringVar(&cfg.ContentDir, "content", cfg.ContentDir, "directory holding note text and canvases")
	flag.StringVar(&cfg.Owner, "owner", cfg.Owner, "owner of the saved board (empty for the scratch board)")
	flag.StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "redis URL for the snapshot slot")
	flag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "address serving /metrics (disabled when empty)")
	flag.Parse()

	// Stdout carries the protocol
	logger := logging.New(os.Stderr, cfg.LogLevel)
	if cfg.LogFile != "" {
		l, closer, err := logging.FromPath(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open log file")
		}
		defer closer.Close()
		logger = l
	}
	zerolog.DefaultContextLogger = &logger
	ctx := logger.WithContext(context.Background())

	backend, err := app.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open storage")
	}
	defer backend.Close()

	ns, err := backend.Namespace(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open namespace")
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	mcpServer := server.NewMCPServer(
		"noteboard-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, ns)
	mcpadapter.RegisterWriteTools(mcpServer, ns)

	logger.Info().Str("owner", cfg.Owner).Str("db", cfg.DBPath).Msg("serving tools on stdio")
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error().Err(err).Msg("noteboard-mcp stopped")
		backend.Close()
		os.Exit(1)
	}
}

func serveMetrics(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	logger.Info().Str("addr", addr).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}
