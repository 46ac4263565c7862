package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"auroracast/internal/cache"
	"auroracast/internal/config"
	"auroracast/internal/fetchers"
	"auroracast/internal/logger"
	"auroracast/internal/models"
	"auroracast/internal/observability"
	"auroracast/internal/storage"
)

// Server wires the fetcher, cache store, and HTTP surface together.
type Server struct {
	Config  *config.Config
	Fetcher *fetchers.DataFetcher
	Cache   *cache.Store
	Storage storage.StorageClient
	Metrics *observability.Metrics

	scheduler *cron.Cron
	log       *logger.Logger
}

// NewServer creates a new server instance with the configured cache
// backend.
func NewServer(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) (*Server, error) {
	storageClient, err := storage.NewStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return &Server{
		Config:  cfg,
		Fetcher: fetchers.NewDataFetcher(cfg.RequestTimeout, metrics),
		Cache:   cache.NewStore(storageClient, cfg.CacheObject, cfg.CacheMaxAge),
		Storage: storageClient,
		Metrics: metrics,
		log:     logger.GetGlobalLogger().WithComponent("server"),
	}, nil
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/api/space-weather", s.HandleSpaceWeather)
	mux.HandleFunc("/refresh", s.HandleRefresh)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", s.HandleDashboard)

	return mux
}

// StartScheduler begins the periodic background refresh. The schedule comes
// from config (hourly by default, matching the upstream feeds' cadence).
func (s *Server) StartScheduler() error {
	s.scheduler = cron.New()

	_, err := s.scheduler.AddFunc(s.Config.RefreshSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if _, err := s.RefreshCycle(ctx); err != nil {
			s.log.Error("Scheduled refresh failed", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh %q: %w", s.Config.RefreshSchedule, err)
	}

	s.scheduler.Start()
	s.log.Info("Refresh scheduler started", map[string]interface{}{"schedule": s.Config.RefreshSchedule})
	return nil
}

// RefreshCycle runs one complete fetch-normalize-write cycle and returns
// the new payload. The payload is returned even when the write fails so
// callers can still serve live data.
func (s *Server) RefreshCycle(ctx context.Context) (*models.WeatherPayload, error) {
	start := time.Now()

	payload, err := s.Fetcher.FetchAll(ctx, s.Config.Endpoints)
	if err != nil {
		return payload, err
	}

	if err := s.Cache.Write(ctx, payload); err != nil {
		return payload, err
	}

	if s.Metrics != nil {
		s.Metrics.CacheWrites.Inc()
		s.Metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	}

	return payload, nil
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
