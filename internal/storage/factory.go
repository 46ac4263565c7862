package storage

import (
	"context"
	"fmt"

	"auroracast/internal/config"
)

// Backend identifies where the cache object is stored.
type Backend string

const (
	BackendLocal Backend = "local"
	BackendGCS   Backend = "gcs"
)

// NewStorageClient creates a storage client for the configured cache
// backend.
func NewStorageClient(ctx context.Context, cfg *config.Config) (StorageClient, error) {
	switch Backend(cfg.CacheBackend) {
	case BackendLocal:
		cacheDir := cfg.CacheDir
		if cacheDir == "" {
			cacheDir = "."
		}

		localClient, err := NewLocalStorageClient(cacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return localClient, nil

	case BackendGCS:
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("GCS_BUCKET is required for the gcs cache backend")
		}

		gcsClient, err := NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.CacheBackend)
	}
}
