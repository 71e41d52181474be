package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dentalstack/practicekit/internal/clinicsim"
	"github.com/dentalstack/practicekit/internal/config"
	"github.com/dentalstack/practicekit/pkg/logging"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded configuration from .env")
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic simulator",
		"env", cfg.Env,
		"port", cfg.SimPort,
	)

	sim := clinicsim.NewServer(clinicsim.Config{
		JWTSecret: cfg.SimJWTSecret,
		TokenTTL:  cfg.SimTokenTTL,
		Logger:    logger,
	})
	if cfg.SimSeed {
		if err := sim.Seed(); err != nil {
			logger.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.SimPort,
		Handler:      sim,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("simulator listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down simulator...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("simulator stopped")
}
