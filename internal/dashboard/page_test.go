package dashboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auroracast/internal/models"
)

func populatedPayload() *models.WeatherPayload {
	speed := 499.0
	density := 4.9
	bz := -3.4
	bt := 6.2
	kp := 5.33
	lat := 4

	return &models.WeatherPayload{
		FetchedAt: "2026-02-19T03:05:00Z",
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
				{Time: "2026-02-19 00:00:00.000", Kp: 3.67},
				{Time: "2026-02-19 03:00:00.000", Kp: 5.33},
			},
		},
		Scales: models.StormScales{
			G: models.StormScale{Scale: "G1", Label: "Minor"},
			S: models.StormScale{Scale: "S0", Label: "None"},
			R: models.StormScale{Scale: "R0", Label: "None"},
		},
		Aurora: models.AuroraVisibility{Label: "Northern-tier states (< 55°)", Latitude: &lat},
		Alerts: []models.AlertSummary{
			{
				ProductID: "K05W",
				IssueTime: "2026-02-19 02:05:00",
				Headline:  "WARNING: Geomagnetic K-index of 5 expected",
				Impacts:   "Aurora may be visible at high latitudes.",
			},
		},
	}
}

func TestBuildPagePopulated(t *testing.T) {
	page, err := BuildPage(populatedPayload())
	require.NoError(t, err)

	assert.Contains(t, page, "Space Weather")
	assert.Contains(t, page, "499")
	assert.Contains(t, page, "4.9")
	assert.Contains(t, page, "-3.4")
	assert.Contains(t, page, "5.33")
	assert.Contains(t, page, "G1")
	assert.Contains(t, page, "Minor")
	assert.Contains(t, page, "WARNING: Geomagnetic K-index of 5 expected")
	assert.Contains(t, page, "Aurora may be visible at high latitudes.")
	assert.Contains(t, page, "2026-02-19T03:05:00Z")

	// Both chart fragments made it into the shell.
	assert.Contains(t, page, "Solar Wind Speed")
	assert.Contains(t, page, "Planetary K-index")
}

func TestBuildPageDefaults(t *testing.T) {
	page, err := BuildPage(models.DefaultPayload())
	require.NoError(t, err, "the page renders even with nothing to show")

	assert.Contains(t, page, "—", "absent readings show a placeholder")
	assert.Contains(t, page, "G0")
	assert.Contains(t, page, "Quiet")
	assert.Contains(t, page, "Unknown")
	assert.Contains(t, page, "never")

	// No samples means no chart fragments and no alert section.
	assert.NotContains(t, page, "Solar Wind Speed")
	assert.NotContains(t, page, "Planetary K-index")
	assert.NotContains(t, page, "Active Alerts")
}

func TestBuildPageEscapesAlertText(t *testing.T) {
	payload := models.DefaultPayload()
	payload.Alerts = []models.AlertSummary{
		{Headline: "WARNING: <script>alert(1)</script>"},
	}

	page, err := BuildPage(payload)
	require.NoError(t, err)

	assert.NotContains(t, page, "<script>alert(1)</script>")
	assert.True(t, strings.Contains(page, "&lt;script&gt;"))
}

func TestBuildSpeedChartEmpty(t *testing.T) {
	assert.Empty(t, buildSpeedChart(models.DefaultPayload()))
}

func TestBuildKpChartEmpty(t *testing.T) {
	assert.Empty(t, buildKpChart(models.DefaultPayload()))
}
