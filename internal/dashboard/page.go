package dashboard

import (
	"bytes"
	"fmt"
	"html/template"

	"auroracast/internal/models"
)

// pageTemplate is the dashboard shell. Chart fragments are injected as
// pre-rendered HTML; everything else goes through normal escaping.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>Space Weather</title>
    <meta charset="utf-8">
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; background: #0b0e1a; color: #e8e8f0; }
        .container { max-width: 900px; margin: 0 auto; }
        h1 { text-align: center; }
        .readings { display: flex; flex-wrap: wrap; gap: 16px; margin: 20px 0; }
        .reading { background: #161b2e; padding: 16px 24px; border-radius: 8px; min-width: 120px; }
        .reading .value { font-size: 1.6em; font-weight: bold; }
        .reading .label { color: #9aa0b8; font-size: 0.85em; }
        .scales { margin: 20px 0; }
        .scale { display: inline-block; background: #161b2e; padding: 8px 16px; border-radius: 6px; margin-right: 8px; }
        .alerts { margin: 20px 0; }
        .alert { background: #161b2e; padding: 12px 16px; border-radius: 6px; margin-bottom: 8px; }
        .alert .impacts { color: #9aa0b8; font-size: 0.9em; }
        .chart { background: #ffffff; border-radius: 8px; margin: 20px 0; padding: 8px; }
        .footer { color: #9aa0b8; text-align: center; font-size: 0.85em; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Space Weather</h1>
        <div class="readings">
            <div class="reading"><div class="value">{{.Speed}}</div><div class="label">Wind speed (km/s)</div></div>
            <div class="reading"><div class="value">{{.Density}}</div><div class="label">Density (p/cm³)</div></div>
            <div class="reading"><div class="value">{{.Bz}}</div><div class="label">Bz (nT)</div></div>
            <div class="reading"><div class="value">{{.Kp}}</div><div class="label">Kp index</div></div>
        </div>
        <div class="scales">
            <span class="scale">{{.GScale.Scale}} — {{.GScale.Label}}</span>
            <span class="scale">{{.SScale.Scale}} — {{.SScale.Label}}</span>
            <span class="scale">{{.RScale.Scale}} — {{.RScale.Label}}</span>
            <span class="scale">Aurora: {{.Aurora}}</span>
        </div>
        {{if .SpeedChart}}<div class="chart">{{.SpeedChart}}</div>{{end}}
        {{if .KpChart}}<div class="chart">{{.KpChart}}</div>{{end}}
        {{if .Alerts}}
        <div class="alerts">
            <h3>Active Alerts</h3>
            {{range .Alerts}}
            <div class="alert">
                <div>{{.Headline}}</div>
                {{if .Impacts}}<div class="impacts">{{.Impacts}}</div>{{end}}
            </div>
            {{end}}
        </div>
        {{end}}
        <p class="footer">Data: NOAA SWPC · fetched {{.FetchedAt}}</p>
    </div>
</body>
</html>`

// pageData is the template view of a payload, with optional numbers already
// formatted for display.
type pageData struct {
	Speed      string
	Density    string
	Bz         string
	Kp         string
	GScale     models.StormScale
	SScale     models.StormScale
	RScale     models.StormScale
	Aurora     string
	SpeedChart template.HTML
	KpChart    template.HTML
	Alerts     []models.AlertSummary
	FetchedAt  string
}

// BuildPage renders the dashboard HTML for a payload. Absent readings show
// as an em-dash rather than breaking the page.
func BuildPage(payload *models.WeatherPayload) (string, error) {
	tmpl, err := template.New("dashboard").Parse(pageTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	data := pageData{
		Speed:      formatOptional(payload.SolarWind.Speed, 0),
		Density:    formatOptional(payload.SolarWind.Density, 1),
		Bz:         formatOptional(payload.SolarWind.Bz, 1),
		Kp:         formatOptional(payload.Kp.Current, 2),
		GScale:     payload.Scales.G,
		SScale:     payload.Scales.S,
		RScale:     payload.Scales.R,
		Aurora:     payload.Aurora.Label,
		SpeedChart: template.HTML(buildSpeedChart(payload)),
		KpChart:    template.HTML(buildKpChart(payload)),
		Alerts:     payload.Alerts,
		FetchedAt:  payload.FetchedAt,
	}
	if data.FetchedAt == "" {
		data.FetchedAt = "never"
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render dashboard: %w", err)
	}

	return buf.String(), nil
}

// formatOptional renders an optional reading with fixed precision, using a
// placeholder for absent values.
func formatOptional(v *float64, decimals int) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.*f", decimals, *v)
}
