package dashboard

import (
	"bytes"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"auroracast/internal/models"
)

// buildSpeedChart renders the solar wind speed timeseries as an embeddable
// line chart. Returns an empty string when there are no samples.
func buildSpeedChart(payload *models.WeatherPayload) string {
	samples := payload.SolarWind.Timeseries
	if len(samples) == 0 {
		return ""
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "800px",
			Height: "360px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Solar Wind Speed",
			Subtitle: "km/s, last two hours",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "km/s",
		}),
	)

	xAxis := make([]string, len(samples))
	speedData := make([]opts.LineData, len(samples))
	for i, sample := range samples {
		xAxis[i] = sample.Time
		speedData[i] = opts.LineData{Value: sample.Speed}
	}

	line.SetXAxis(xAxis).
		AddSeries("Speed", speedData).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: true}))

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return ""
	}

	return buf.String()
}

// buildKpChart renders the recent Kp history as an embeddable bar chart.
// Returns an empty string when there is no history.
func buildKpChart(payload *models.WeatherPayload) string {
	history := payload.Kp.History
	if len(history) == 0 {
		return ""
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "800px",
			Height: "360px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Planetary K-index",
			Subtitle: "Recent 3-hour readings",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Kp",
			Max:  9,
		}),
	)

	xAxis := make([]string, len(history))
	kpData := make([]opts.BarData, len(history))
	for i, reading := range history {
		xAxis[i] = reading.Time
		kpData[i] = opts.BarData{Value: reading.Kp}
	}

	bar.SetXAxis(xAxis).
		AddSeries("Kp", kpData)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return ""
	}

	return buf.String()
}
