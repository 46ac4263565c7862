package fetchers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"auroracast/internal/config"
	"auroracast/internal/logger"
	"auroracast/internal/models"
	"auroracast/internal/observability"

	"github.com/go-resty/resty/v2"
)

// ErrAllSourcesFailed is returned by FetchAll when none of the five SWPC
// endpoints produced data. A partially absent cycle is not an error; each
// parser degrades to its structural default independently.
var ErrAllSourcesFailed = errors.New("all SWPC endpoints unavailable")

// DataFetcher pulls the five SWPC JSON feeds and assembles the normalized
// payload. One GET per endpoint per cycle; a failed attempt is final until
// the next cycle.
type DataFetcher struct {
	client  *resty.Client
	metrics *observability.Metrics
	log     *logger.Logger
}

// NewDataFetcher creates a fetcher with a fixed per-request timeout.
// Metrics may be nil when no registry is wired (one-shot CLI runs).
func NewDataFetcher(timeout time.Duration, metrics *observability.Metrics) *DataFetcher {
	client := resty.New()
	client.SetTimeout(timeout)

	return &DataFetcher{
		client:  client,
		metrics: metrics,
		log:     logger.GetGlobalLogger().WithComponent("fetchers"),
	}
}

// FetchAll fetches all endpoints sequentially, applies each parser, and
// assembles a complete payload stamped with the current UTC time. Absence
// of any one endpoint does not block the others. The returned error is
// non-nil only when every endpoint failed; the payload is still populated
// with structural defaults in that case.
func (f *DataFetcher) FetchAll(ctx context.Context, eps config.Endpoints) (*models.WeatherPayload, error) {
	f.log.Info("Fetching NOAA SWPC data")

	plasmaRaw := f.fetchRows(ctx, "plasma", eps.PlasmaURL)
	magRaw := f.fetchRows(ctx, "mag", eps.MagURL)
	kpRaw := f.fetchRows(ctx, "kp", eps.KpURL)
	scalesRaw := f.fetchDict(ctx, "scales", eps.ScalesURL)
	alertsRaw := f.fetchList(ctx, "alerts", eps.AlertsURL)

	kp := ParseKp(kpRaw)
	payload := &models.WeatherPayload{
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
		SolarWind: ParseSolarWind(plasmaRaw, magRaw),
		Kp:        kp,
		Scales:    ParseScales(scalesRaw),
		Aurora:    AuroraVisibility(kp.Current),
		Alerts:    ParseAlerts(alertsRaw),
	}

	f.log.Info("Fetch cycle complete", map[string]interface{}{
		"speed":   deref(payload.SolarWind.Speed),
		"bz":      deref(payload.SolarWind.Bz),
		"kp":      deref(payload.Kp.Current),
		"g_scale": payload.Scales.G.Scale,
		"alerts":  len(payload.Alerts),
	})

	if plasmaRaw == nil && magRaw == nil && kpRaw == nil && scalesRaw == nil && alertsRaw == nil {
		return payload, ErrAllSourcesFailed
	}
	return payload, nil
}

// fetchJSON performs one GET against an SWPC endpoint and returns the raw
// body. Transport failures and non-2xx responses are both errors; callers
// translate them into absence.
func (f *DataFetcher) fetchJSON(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("endpoint %s returned status %d", url, resp.StatusCode())
	}

	return resp.Body(), nil
}

// fetchRows fetches a row-oriented products feed (array of arrays with a
// header row). Returns nil on any failure so the parser falls back to its
// default structure.
func (f *DataFetcher) fetchRows(ctx context.Context, name, url string) [][]interface{} {
	body, err := f.fetchJSON(ctx, url)
	if err != nil {
		f.reportAbsent(name, err)
		return nil
	}

	var rows [][]interface{}
	if err := json.Unmarshal(body, &rows); err != nil {
		f.reportAbsent(name, err)
		return nil
	}

	f.recordFetch(name, "success")
	return rows
}

// fetchDict fetches an object-shaped feed (the scales endpoint).
func (f *DataFetcher) fetchDict(ctx context.Context, name, url string) map[string]interface{} {
	body, err := f.fetchJSON(ctx, url)
	if err != nil {
		f.reportAbsent(name, err)
		return nil
	}

	var dict map[string]interface{}
	if err := json.Unmarshal(body, &dict); err != nil {
		f.reportAbsent(name, err)
		return nil
	}

	f.recordFetch(name, "success")
	return dict
}

// fetchList fetches a list-of-objects feed (the alerts endpoint).
func (f *DataFetcher) fetchList(ctx context.Context, name, url string) []map[string]interface{} {
	body, err := f.fetchJSON(ctx, url)
	if err != nil {
		f.reportAbsent(name, err)
		return nil
	}

	var list []map[string]interface{}
	if err := json.Unmarshal(body, &list); err != nil {
		f.reportAbsent(name, err)
		return nil
	}

	f.recordFetch(name, "success")
	return list
}

// reportAbsent logs and counts a failed endpoint. The caller returns nil so
// the cycle continues with that source absent.
func (f *DataFetcher) reportAbsent(endpoint string, err error) {
	f.recordFetch(endpoint, "error")
	f.log.Warn("Endpoint unavailable", map[string]interface{}{
		"endpoint": endpoint,
		"error":    err.Error(),
	})
}

func (f *DataFetcher) recordFetch(endpoint, outcome string) {
	if f.metrics != nil {
		f.metrics.EndpointFetches.WithLabelValues(endpoint, outcome).Inc()
	}
}

// deref unwraps an optional float for logging, using nil for absent values.
func deref(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
