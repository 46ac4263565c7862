// Command refresh runs one fetch-and-cache cycle and exits. It exists for
// scheduled-task deployments (cron on the web host) where the long-running
// service is not wanted.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"auroracast/internal/cache"
	"auroracast/internal/config"
	"auroracast/internal/fetchers"
	"auroracast/internal/logger"
	"auroracast/internal/storage"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	storageClient, err := storage.NewStorageClient(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", err)
	}
	defer storageClient.Close()

	fetcher := fetchers.NewDataFetcher(cfg.RequestTimeout, nil)
	store := cache.NewStore(storageClient, cfg.CacheObject, cfg.CacheMaxAge)

	payload, err := fetcher.FetchAll(ctx, cfg.Endpoints)
	if err != nil {
		logger.Error("Fetch cycle produced no data", err)
		os.Exit(1)
	}

	if err := store.Write(ctx, payload); err != nil {
		logger.Error("Cache write failed", err)
		os.Exit(1)
	}
}
