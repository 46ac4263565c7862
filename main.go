package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"auroracast/internal/config"
	"auroracast/internal/logger"
	"auroracast/internal/observability"
	"auroracast/internal/server"
)

func main() {
	ctx := context.Background()

	// Optional .env for local runs; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	logger.Infof("Starting space weather cache service on port %s", cfg.Port)
	logger.Infof("Environment: %s", cfg.Environment)
	logger.Infof("Cache backend: %s", cfg.CacheBackend)

	metrics := observability.NewMetrics()

	srv, err := server.NewServer(ctx, cfg, metrics)
	if err != nil {
		logger.Fatal("Failed to create server", err)
	}
	defer srv.Close()

	// Warm the cache so the first page view does not block on five feeds.
	warmCtx, cancelWarm := context.WithTimeout(ctx, 2*time.Minute)
	if _, err := srv.RefreshCycle(warmCtx); err != nil {
		logger.Error("Initial refresh failed, serving defaults until next cycle", err)
	}
	cancelWarm()

	if err := srv.StartScheduler(); err != nil {
		logger.Fatal("Failed to start refresh scheduler", err)
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", err)
	}

	logger.Info("Server stopped")
}
