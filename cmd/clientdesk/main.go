package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/clientdesk/clientdesk/internal/app"
	"github.com/clientdesk/clientdesk/internal/auth"
	"github.com/clientdesk/clientdesk/internal/customers"
	"github.com/clientdesk/clientdesk/internal/dashboard"
	"github.com/clientdesk/clientdesk/internal/export"
	"github.com/clientdesk/clientdesk/internal/platform/db"
	"github.com/clientdesk/clientdesk/internal/shared"
	"github.com/clientdesk/clientdesk/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
	logger.Info("store opened", slog.String("backend", string(store.Backend)))

	if err := store.Migrate(); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	var sessionStore shared.SessionStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping", slog.Any("error", err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		sessionStore = shared.NewRedisSessionStore(redisClient)
	} else {
		logger.Info("no redis configured, using in-process sessions")
		sessionStore = shared.NewMemorySessionStore()
	}

	sessionManager := shared.NewSessionManager(sessionStore, "clientdesk_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	validate := validator.New()

	authRepo := auth.NewRepository(store)
	authService := auth.NewService(logger, authRepo)
	authHandler := auth.NewHandler(logger, authService, templates, sessionManager, csrfManager)

	if err := authService.EnsureDefaultUser(ctx); err != nil {
		logger.Error("ensure default user", slog.Any("error", err))
		os.Exit(1)
	}

	customerRepo := customers.NewRepository(store)
	customerService := customers.NewService(logger, customerRepo)
	customerHandler := customers.NewHandler(logger, customerService, templates, csrfManager, validate)

	dashboardService := dashboard.NewService(customerRepo)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService, templates, csrfManager)

	exportHandler := export.NewHandler(logger, customerService)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		DashboardHandler: dashboardHandler,
		CustomerHandler:  customerHandler,
		ExportHandler:    exportHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
