package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dentalstack/practicekit/internal/api"
	"github.com/dentalstack/practicekit/internal/appointments"
	"github.com/dentalstack/practicekit/internal/config"
	"github.com/dentalstack/practicekit/internal/guard"
	"github.com/dentalstack/practicekit/internal/observability/metrics"
	"github.com/dentalstack/practicekit/internal/search"
	"github.com/dentalstack/practicekit/internal/session"
	"github.com/dentalstack/practicekit/internal/shell"
	"github.com/dentalstack/practicekit/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	vault, err := buildVault(cfg)
	if err != nil {
		logger.Error("failed to open session vault", "error", err)
		os.Exit(1)
	}

	store, err := session.NewStore(vault, nil, logger)
	if err != nil {
		logger.Error("failed to build session store", "error", err)
		os.Exit(1)
	}
	client, err := api.New(api.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
		Tokens:  store,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to build API client", "error", err)
		os.Exit(1)
	}
	store.SetBackend(client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.RequestTimeout)
	defer cancel()

	// Restore the persisted session before any guard decision runs.
	if err := store.Initialize(ctx); err != nil {
		logger.Error("session restore failed", "error", err)
		os.Exit(1)
	}

	fetchMetrics := metrics.NewFetchMetrics(nil)
	searcher := search.NewDebouncer(client, cfg.SearchDebounce, logger, fetchMetrics)
	defer searcher.Close()
	coord := appointments.NewCoordinator(client, logger, fetchMetrics)
	defer coord.Close()

	sh := shell.New(shell.Config{
		Session:  store,
		Guard:    guard.New(store, logger),
		Client:   client,
		Coord:    coord,
		Searcher: searcher,
		Logger:   logger,
		Out:      os.Stdout,
		Now:      time.Now,
	})

	if err := sh.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func buildVault(cfg *config.Config) (session.Vault, error) {
	if cfg.SessionStore == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return session.NewRedisVault(client, "practicekit")
	}
	return session.NewFileVault(cfg.VaultPath)
}
