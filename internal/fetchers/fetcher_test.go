package fetchers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auroracast/internal/config"
	"auroracast/internal/models"
)

const (
	fixturePlasma = `[["time_tag","density","speed","temperature"],
["2026-02-19 03:00:00.000","4.53","412.3","98000"],
["2026-02-19 03:01:00.000","4.87","498.7","99000"]]`
	fixtureMag = `[["time_tag","bx_gsm","by_gsm","bz_gsm","bt","lat_gsm","lon_gsm"],
["2026-02-19 03:01:00.000","1.0","2.0","-3.42","6.21","0","0"]]`
	fixtureKp = `[["time_tag","Kp","a_running","station_count"],
["2026-02-19 00:00:00.000","1.33","5","8"],
["2026-02-19 03:00:00.000","7.00","9","8"]]`
	fixtureScales = `{"0":{"DateStamp":"2026-02-19","G":{"Scale":"G1","Text":"Minor"},"S":{"Scale":"S0","Text":"None"},"R":{"Scale":"R0","Text":"None"}}}`
	fixtureAlerts = `[{"product_id":"K04W","issue_datetime":"2026-02-19 02:05:00","message":"Serial Number: 1\n\nWARNING: Geomagnetic K-index of 4 expected\n\nPotential Impacts: Aurora may be visible at high latitudes."}]`
)

// newSWPCServer serves canned responses for the five feed paths.
func newSWPCServer(t *testing.T) (*httptest.Server, config.Endpoints) {
	t.Helper()

	mux := http.NewServeMux()
	serve := func(path, body string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		})
	}
	serve("/plasma", fixturePlasma)
	serve("/mag", fixtureMag)
	serve("/kp", fixtureKp)
	serve("/scales", fixtureScales)
	serve("/alerts", fixtureAlerts)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server, config.Endpoints{
		PlasmaURL: server.URL + "/plasma",
		MagURL:    server.URL + "/mag",
		KpURL:     server.URL + "/kp",
		ScalesURL: server.URL + "/scales",
		AlertsURL: server.URL + "/alerts",
	}
}

func TestFetchAll(t *testing.T) {
	_, eps := newSWPCServer(t)
	fetcher := NewDataFetcher(5*time.Second, nil)

	payload, err := fetcher.FetchAll(context.Background(), eps)
	require.NoError(t, err)
	require.NotNil(t, payload)

	_, terr := time.Parse(time.RFC3339, payload.FetchedAt)
	assert.NoError(t, terr, "fetched_at must round-trip through RFC3339")

	require.NotNil(t, payload.SolarWind.Speed)
	assert.Equal(t, 499.0, *payload.SolarWind.Speed)
	require.NotNil(t, payload.SolarWind.Bz)
	assert.Equal(t, -3.4, *payload.SolarWind.Bz)

	require.NotNil(t, payload.Kp.Current)
	assert.Equal(t, 7.0, *payload.Kp.Current)

	assert.Equal(t, models.StormScale{Scale: "G1", Label: "Minor"}, payload.Scales.G)

	// Aurora derives from the current Kp.
	assert.Equal(t, "Mid-latitudes (< 50°)", payload.Aurora.Label)

	require.Len(t, payload.Alerts, 1)
	assert.Equal(t, "WARNING: Geomagnetic K-index of 4 expected", payload.Alerts[0].Headline)
	assert.Equal(t, "Aurora may be visible at high latitudes.", payload.Alerts[0].Impacts)
}

func TestFetchAllPartialFailure(t *testing.T) {
	_, eps := newSWPCServer(t)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	t.Cleanup(failing.Close)

	eps.KpURL = failing.URL
	eps.ScalesURL = failing.URL

	fetcher := NewDataFetcher(5*time.Second, nil)
	payload, err := fetcher.FetchAll(context.Background(), eps)

	require.NoError(t, err, "partial absence is not an error")
	assert.Nil(t, payload.Kp.Current)
	assert.Empty(t, payload.Kp.History)
	assert.Equal(t, models.DefaultStormScales(), payload.Scales)
	assert.Equal(t, "Unknown", payload.Aurora.Label)

	// The healthy endpoints still populate their sections.
	require.NotNil(t, payload.SolarWind.Speed)
	require.Len(t, payload.Alerts, 1)
}

func TestFetchAllTotalFailure(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(failing.Close)

	eps := config.Endpoints{
		PlasmaURL: failing.URL,
		MagURL:    failing.URL,
		KpURL:     failing.URL,
		ScalesURL: failing.URL,
		AlertsURL: failing.URL,
	}

	fetcher := NewDataFetcher(5*time.Second, nil)
	payload, err := fetcher.FetchAll(context.Background(), eps)

	require.ErrorIs(t, err, ErrAllSourcesFailed)
	require.NotNil(t, payload, "payload carries structural defaults even on total failure")
	assert.Equal(t, models.DefaultStormScales(), payload.Scales)
	assert.Empty(t, payload.Alerts)
}

func TestFetchAllMalformedBody(t *testing.T) {
	_, eps := newSWPCServer(t)

	malformed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	t.Cleanup(malformed.Close)

	eps.PlasmaURL = malformed.URL

	fetcher := NewDataFetcher(5*time.Second, nil)
	payload, err := fetcher.FetchAll(context.Background(), eps)

	require.NoError(t, err)
	assert.Nil(t, payload.SolarWind.Speed)
	require.NotNil(t, payload.SolarWind.Bz, "mag feed is independent of plasma")
}
