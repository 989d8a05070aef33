package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/centsible/centsible/internal/auth"
	"github.com/centsible/centsible/internal/config"
	"github.com/centsible/centsible/internal/ledger"
	"github.com/centsible/centsible/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Start the HTTP API server.

The server exposes authentication, category, transaction, and report
endpoints. It runs until interrupted and shuts down gracefully.`,
		RunE: runServe,
	}

	cmd.Flags().Int("port", 0, "Port to listen on (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Port = port
	}

	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	authSvc, err := auth.NewService(store, cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	srv := server.New(cfg, authSvc, ledger.New(store))

	slog.Info("🪙 Starting server", "port", cfg.Port, "database", cfg.DatabasePath)
	return srv.Run(ctx)
}
