// Package main is the entry point for the BlogCraft API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"blogcraft/internal/auth"
	"blogcraft/internal/cache"
	"blogcraft/internal/config"
	"blogcraft/internal/database"
	"blogcraft/internal/handlers"
	"blogcraft/internal/middleware"
	"blogcraft/internal/router"
	"blogcraft/internal/service"
	"blogcraft/internal/storage"
	"blogcraft/internal/store"
)

func main() {
	// Load configuration from .env and environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	slog.SetDefault(newLogger(cfg))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"registration_open", cfg.RegistrationOpen,
	)

	ctx := context.Background()

	// Connect to PostgreSQL.
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	version, err := database.Migrate(ctx, db)
	if err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database schema ready", "version", version)

	// Create the first admin when configured (no-op once users exist).
	if err := database.Seed(ctx, db, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		slog.Error("failed to initialize token service", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)

	// Connect to S3-compatible object storage (optional, uploads answer 503
	// without it).
	storageClient, err := storage.New(storage.Options{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}

	var (
		images  service.ImageRemover
		objects handlers.ObjectStore
	)
	if storageClient != nil {
		images, objects = storageClient, storageClient
		slog.Info("s3 storage configured", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, image uploads disabled")
	}

	authService := service.NewAuthService(userStore, tokens, service.AuthPolicy{
		RegistrationOpen: cfg.RegistrationOpen,
		AdminEmails:      cfg.AdminEmails,
	})
	contentService := service.NewContentService(postStore, categoryStore, images)
	guard := middleware.NewGuard(tokens, userStore)

	// Auth throttling: shared through Valkey when configured, otherwise
	// counted in process.
	var limiter middleware.Limiter
	switch {
	case cfg.AuthRateLimit == 0:
		slog.Warn("auth rate limiting disabled")
	case cfg.ValkeyHost != "":
		rdb, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		limiter = middleware.NewValkeyLimiter(rdb, cfg.AuthRateLimit, time.Minute)
		slog.Info("auth rate limit backed by valkey", "host", cfg.ValkeyHost, "limit", cfg.AuthRateLimit)
	default:
		rl := middleware.NewRateLimiter(cfg.AuthRateLimit, time.Minute)
		defer rl.Stop()
		limiter = rl
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(guard, router.Handlers{
		Auth:       handlers.NewAuth(authService),
		Posts:      handlers.NewPosts(contentService, guard),
		Categories: handlers.NewCategories(contentService),
		Uploads:    handlers.NewUploads(objects),
	}, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		AuthLimiter: limiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// newLogger builds the process logger from LOG_LEVEL and APP_ENV.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsDev() {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
