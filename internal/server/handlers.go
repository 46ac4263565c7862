package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"auroracast/internal/dashboard"
	"auroracast/internal/fetchers"
	"auroracast/internal/models"
)

// refreshSummary is the trimmed JSON body returned by the manual refresh
// action. On failure only Ok and Error are set.
type refreshSummary struct {
	Ok        bool     `json:"ok"`
	FetchedAt string   `json:"fetched_at,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Bz        *float64 `json:"bz,omitempty"`
	Kp        *float64 `json:"kp,omitempty"`
	GScale    string   `json:"g_scale,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// HandleSpaceWeather serves the current payload: cached when fresh,
// refetched live when the cache is absent or stale. Rendering never fails;
// total upstream failure degrades to the all-null default structure.
func (s *Server) HandleSpaceWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	payload := s.currentPayload(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

// HandleRefresh forces a live fetch and cache write, returning the trimmed
// summary the page's refresh button consumes.
func (s *Server) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	payload, err := s.RefreshCycle(r.Context())
	if err != nil {
		s.log.Error("Manual refresh failed", err)
		json.NewEncoder(w).Encode(refreshSummary{Ok: false, Error: err.Error()})
		return
	}

	json.NewEncoder(w).Encode(refreshSummary{
		Ok:        true,
		FetchedAt: payload.FetchedAt,
		Speed:     payload.SolarWind.Speed,
		Bz:        payload.SolarWind.Bz,
		Kp:        payload.Kp.Current,
		GScale:    payload.Scales.G.Scale,
	})
}

// HandleDashboard serves the HTML status page rendered from the current
// payload.
func (s *Server) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	payload := s.currentPayload(r.Context())

	page, err := dashboard.BuildPage(payload)
	if err != nil {
		s.log.Error("Dashboard render failed", err)
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]string{
			"storage": "ok",
			"config":  "ok",
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// currentPayload implements the read path: cache read, freshness check,
// optional live refetch, default fallback. Every failure degrades to a
// well-defined value; this function never returns nil.
func (s *Server) currentPayload(ctx context.Context) *models.WeatherPayload {
	cached, err := s.Cache.Read(ctx)
	if err != nil {
		s.log.Error("Cache read failed", err)
		cached = nil
	}

	if !s.Cache.IsStale(cached) {
		s.recordCacheRead("hit")
		return cached
	}

	if cached == nil {
		s.recordCacheRead("miss")
	} else {
		s.recordCacheRead("stale")
	}

	live, err := s.RefreshCycle(ctx)
	if err == nil {
		return live
	}
	s.log.Error("Live refresh failed", err)

	// A write failure still produced a live payload; serve it.
	if !errors.Is(err, fetchers.ErrAllSourcesFailed) && live != nil {
		return live
	}

	// A stale cache still beats the empty default.
	if cached != nil {
		return cached
	}
	return models.DefaultPayload()
}

func (s *Server) recordCacheRead(result string) {
	if s.Metrics != nil {
		s.Metrics.CacheReads.WithLabelValues(result).Inc()
	}
}
