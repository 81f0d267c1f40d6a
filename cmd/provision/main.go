// Command provision prepares a database for first use: it applies pending
// migrations and seeds the default staff account. Safe to run repeatedly.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/clientdesk/clientdesk/internal/app"
	"github.com/clientdesk/clientdesk/internal/auth"
	"github.com/clientdesk/clientdesk/internal/platform/db"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	store, err := db.Open(ctx, db.Config{DatabaseURL: cfg.DatabaseURL, SQLitePath: cfg.SQLitePath})
	if err != nil {
		logger.Error("open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied", slog.String("backend", string(store.Backend)))

	authService := auth.NewService(logger, auth.NewRepository(store))
	if err := authService.EnsureDefaultUser(ctx); err != nil {
		logger.Error("ensure default user", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("provisioning complete")
}
