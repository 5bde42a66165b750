package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/citecheck/internal/adapters/mcp"
	"github.com/kirillkom/citecheck/internal/bootstrap"
	"github.com/kirillkom/citecheck/internal/config"
	"github.com/kirillkom/citecheck/internal/observability/logging"
)

var version = "dev"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// stdout is the protocol channel.
	logger := logging.NewLogger(os.Stderr, "json", "citecheck-mcp", cfg.LogLevel)
	slog.SetDefault(logger)

	app, err := bootstrap.New(context.Background(), cfg, "citecheck-mcp")
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	logger.Info("mcp_server_starting", "version", version)
	if err := server.ServeStdio(mcpadapter.NewServer(app.CheckUC, version)); err != nil {
		logger.Error("mcp_server_error", "error", err)
	}
}
