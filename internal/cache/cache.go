package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"auroracast/internal/logger"
	"auroracast/internal/models"
	"auroracast/internal/storage"
)

// Store persists the weather payload as a single pretty-printed JSON object.
// The object is a mutable slot, not a log: every write is a wholesale
// overwrite and there is no locking; last writer wins.
type Store struct {
	client storage.StorageClient
	object string
	maxAge time.Duration
	log    *logger.Logger
}

// NewStore creates a cache store writing to the given object path through
// the provided storage client. maxAge is the freshness threshold.
func NewStore(client storage.StorageClient, object string, maxAge time.Duration) *Store {
	return &Store{
		client: client,
		object: object,
		maxAge: maxAge,
		log:    logger.GetGlobalLogger().WithComponent("cache"),
	}
}

// Write serializes the payload as indented JSON and overwrites the cache
// object.
func (s *Store) Write(ctx context.Context, payload *models.WeatherPayload) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize payload: %w", err)
	}

	if err := s.client.StoreFile(ctx, s.object, data); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}

	s.log.Info("Cache written", map[string]interface{}{"object": s.object, "bytes": len(data)})
	return nil
}

// Read loads the cached payload. A missing or unparseable cache is reported
// as absence (nil, nil), not an error, so callers fall back to a live fetch.
func (s *Store) Read(ctx context.Context) (*models.WeatherPayload, error) {
	exists, err := s.client.FileExists(ctx, s.object)
	if err != nil {
		return nil, fmt.Errorf("failed to check cache: %w", err)
	}
	if !exists {
		return nil, nil
	}

	data, err := s.client.GetFile(ctx, s.object)
	if err != nil {
		s.log.Warn("Cache unreadable, treating as absent", map[string]interface{}{"error": err.Error()})
		return nil, nil
	}

	var payload models.WeatherPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.log.Warn("Cache corrupt, treating as absent", map[string]interface{}{"error": err.Error()})
		return nil, nil
	}

	return &payload, nil
}

// IsStale reports whether the payload's fetch timestamp is older than the
// freshness threshold. A nil payload or a missing/unparseable timestamp is
// stale; serving doubtful data is worse than refetching.
func (s *Store) IsStale(payload *models.WeatherPayload) bool {
	if payload == nil {
		return true
	}

	fetchedAt, err := time.Parse(time.RFC3339, payload.FetchedAt)
	if err != nil {
		return true
	}

	return clock.Now().UTC().Sub(fetchedAt) > s.maxAge
}
