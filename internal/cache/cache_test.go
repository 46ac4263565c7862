package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auroracast/internal/models"
	"auroracast/internal/storage"
)

const testMaxAge = 120 * time.Minute

func newTestStore(t *testing.T) *Store {
	t.Helper()

	client, err := storage.NewLocalStorageClient(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewStore(client, "space_weather_cache.json", testMaxAge)
}

func samplePayload(fetchedAt string) *models.WeatherPayload {
	speed := 499.0
	density := 4.9
	bz := -3.4
	bt := 6.2
	kp := 2.67

	return &models.WeatherPayload{
		FetchedAt: fetchedAt,
		SolarWind: models.SolarWind{
			Speed:     &speed,
			Density:   &density,
			Bz:        &bz,
			Bt:        &bt,
			Timestamp: "2026-02-19 03:01:00.000",
			Timeseries: []models.SpeedSample{
				{Time: "2026-02-19 03:00:00.000", Speed: 412},
				{Time: "2026-02-19 03:01:00.000", Speed: 499},
			},
		},
		Kp: models.KpIndex{
			Current: &kp,
			History: []models.KpReading{
				{Time: "2026-02-19 00:00:00.000", Kp: 1.33},
				{Time: "2026-02-19 03:00:00.000", Kp: 2.67},
			},
		},
		Scales: models.DefaultStormScales(),
		Aurora: models.AuroraVisibility{Label: "Polar regions only (> 70°)", Latitude: intPtr(1)},
		Alerts: []models.AlertSummary{
			{ProductID: "K04W", IssueTime: "2026-02-19 02:05:00", Headline: "WARNING: K-index of 4 expected", Impacts: "High-latitude aurora."},
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	payload := samplePayload("2026-02-19T03:05:00Z")
	require.NoError(t, store.Write(ctx, payload))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, payload, got, "serialization must be lossless for the payload schema")
}

func TestReadAbsentCache(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Read(context.Background())
	require.NoError(t, err, "missing cache is absence, not an error")
	assert.Nil(t, got)
}

func TestReadCorruptCache(t *testing.T) {
	client, err := storage.NewLocalStorageClient(t.TempDir())
	require.NoError(t, err)
	store := NewStore(client, "space_weather_cache.json", testMaxAge)
	ctx := context.Background()

	require.NoError(t, client.StoreFile(ctx, "space_weather_cache.json", []byte("{not json")))

	got, err := store.Read(ctx)
	require.NoError(t, err, "corrupt cache is absence, not an error")
	assert.Nil(t, got)
}

func TestOverwriteLastWriterWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := samplePayload("2026-02-19T01:00:00Z")
	second := samplePayload("2026-02-19T02:00:00Z")
	require.NoError(t, store.Write(ctx, first))
	require.NoError(t, store.Write(ctx, second))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-19T02:00:00Z", got.FetchedAt)
}

func TestIsStale(t *testing.T) {
	store := newTestStore(t)

	now := time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	defer SetClock(nil)

	tests := []struct {
		name    string
		payload *models.WeatherPayload
		stale   bool
	}{
		{"119 minutes old is fresh", samplePayload(now.Add(-119 * time.Minute).Format(time.RFC3339)), false},
		{"121 minutes old is stale", samplePayload(now.Add(-121 * time.Minute).Format(time.RFC3339)), true},
		{"exactly at threshold is fresh", samplePayload(now.Add(-120 * time.Minute).Format(time.RFC3339)), false},
		{"missing timestamp is stale", samplePayload(""), true},
		{"unparseable timestamp is stale", samplePayload("yesterday-ish"), true},
		{"nil payload is stale", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.stale, store.IsStale(tt.payload))
		})
	}
}

func intPtr(v int) *int { return &v }
