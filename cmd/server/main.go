package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/pulsecoach/pulse/internal/migrations/postgres"
	"github.com/pulsecoach/pulse/internal/oauth"
	"github.com/pulsecoach/pulse/internal/repository"
	"github.com/pulsecoach/pulse/internal/server"
	"github.com/pulsecoach/pulse/internal/server/handler"
	servermw "github.com/pulsecoach/pulse/internal/server/middleware"
	"github.com/pulsecoach/pulse/internal/service/load"
	"github.com/pulsecoach/pulse/internal/storage"
	"github.com/pulsecoach/pulse/internal/xhttp/middleware"
	"github.com/pulsecoach/pulse/internal/xslog"
)

const keyPort = "port"

func main() {
	_ = godotenv.Load()

	logger := xslog.NewLoggerFromEnv(os.Stdout)
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", xslog.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := server.ReadConfig()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	pool, err := initPostgres(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize postgres: %w", err)
	}
	defer pool.Close()

	backend, err := initBackend(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.ErrorContext(ctx, "failed to close backend", xslog.Error(err))
		}
	}()

	repo := repository.New(pool)

	loadService := load.NewService(repo, backend, logger)

	authHandler := handler.NewAuth(oauth.NewConfig(cfg.Strava, cfg.RedirectURL()), backend, repo)
	activitiesHandler := handler.NewActivities(repo)
	loadHandler := handler.NewLoad(loadService)

	mux := http.NewServeMux()

	// OAuth and health endpoints sit behind the per-IP rate limiter
	unauthedMux := http.NewServeMux()
	unauthedMux.HandleFunc("GET /auth/start", authHandler.HandleAuthStart)
	unauthedMux.HandleFunc("GET /auth/callback", authHandler.HandleAuthCallback)
	unauthedMux.HandleFunc("GET /health", handler.HandleHealth)
	unauthedWrapped := middleware.Chain(unauthedMux,
		servermw.RateLimitWithBackend(backend),
	)
	mux.Handle("/auth/", unauthedWrapped)
	mux.Handle("/health", unauthedWrapped)

	mux.HandleFunc("POST /v1/activities", activitiesHandler.HandleIngest)
	mux.HandleFunc("GET /v1/athletes/{id}/activities", activitiesHandler.HandleList)
	mux.HandleFunc("GET /v1/athletes/{id}/load/points", loadHandler.HandlePoints)
	mux.HandleFunc("GET /v1/athletes/{id}/load/metrics", loadHandler.HandleMetrics)
	mux.HandleFunc("GET /v1/athletes/{id}/thresholds", loadHandler.HandleThresholds)

	wrapped := middleware.Chain(mux,
		middleware.Recovery,
		middleware.Logging,
		middleware.Logger(logger),
		middleware.RequestID,
		middleware.SecurityHeaders,
		middleware.Gzip,
	)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           wrapped,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.InfoContext(ctx, "starting server",
			xslog.Version(),
			slog.String(keyPort, cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "server error", xslog.Error(err))
		}
	}()

	<-done
	logger.InfoContext(ctx, "shutdown signal received, initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.InfoContext(ctx, "server stopped")
	return nil
}

func initBackend(ctx context.Context, cfg server.Config, logger *slog.Logger) (storage.Backend, error) {
	if cfg.Redis.URL == "" {
		logger.InfoContext(ctx, "initializing in-memory backend")
		return storage.NewMemoryBackend(cfg.RateLimit.Limit, cfg.RateLimit.Burst), nil
	}

	logger.InfoContext(ctx, "initializing Redis backend")
	client, err := storage.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	return storage.NewRedisBackend(client, int(cfg.RateLimit.Limit)), nil
}

func initPostgres(ctx context.Context, cfg server.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	logger.InfoContext(ctx, "initializing PostgreSQL")

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := postgres.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return pool, nil
}
