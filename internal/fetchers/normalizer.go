package fetchers

import (
	"math"
	"strconv"
	"strings"

	"auroracast/internal/models"
)

// Limits applied while normalizing the raw SWPC feeds.
const (
	// MaxTimeseriesPoints caps the solar wind speed trend.
	MaxTimeseriesPoints = 60
	// MaxKpHistory is the number of recent Kp readings kept for the bar chart.
	MaxKpHistory = 24
	// MaxAlerts is the number of alert bulletins summarized.
	MaxAlerts = 5
)

// Row layouts of the SWPC "products" endpoints. Every feed ships a header
// row at index 0 which must be discarded.
//
//	plasma: [time_tag, density, speed, temperature]
//	mag:    [time_tag, bx, by, bz, bt, lat, lon]
//	kp:     [time_tag, Kp, a_running, station_count]
const (
	plasmaDensityCol = 1
	plasmaSpeedCol   = 2
	magBzCol         = 3
	magBtCol         = 4
	kpValueCol       = 1
)

// headlineKeywords mark the bulletin line used as the alert headline, in
// the order NOAA emits them. CONTINUED has no trailing colon upstream.
var headlineKeywords = []string{"WARNING:", "ALERT:", "WATCH:", "SUMMARY:", "CONTINUED"}

// boilerplatePrefixes are bulletin header lines skipped by the headline
// fallback scan.
var boilerplatePrefixes = []string{"Space Weather", "Serial", "Issue Time", "NOAA"}

// auroraTable maps Kp thresholds (descending) to visibility descriptions,
// following NOAA's Kp-to-latitude guidance.
var auroraTable = []struct {
	threshold int
	label     string
}{
	{9, "Equatorial regions (< 40°)"},
	{8, "Mid-latitudes (< 45°)"},
	{7, "Mid-latitudes (< 50°)"},
	{6, "Mid-latitudes (< 55°)"},
	{5, "Mid-latitudes (< 60°)"},
	{4, "High latitudes (< 65°)"},
	{3, "High latitudes (< 65°)"},
	{2, "Sub-auroral zone (> 65°)"},
	{1, "Polar regions only (> 70°)"},
	{0, "Not visible"},
}

// ParseSolarWind extracts the latest plasma and magnetic field reading from
// the two solar wind feeds and builds the speed timeseries.
//
// The latest reading is the most recent row whose density and speed both
// convert to numbers; trailing malformed rows are skipped, not errors. The
// timeseries keeps rows with strictly positive speed in input order and is
// downsampled with a fixed stride when it would exceed MaxTimeseriesPoints.
// The same newest-valid scan runs independently over the mag rows for Bz/Bt.
func ParseSolarWind(plasmaRaw, magRaw [][]interface{}) models.SolarWind {
	result := models.SolarWind{Timeseries: []models.SpeedSample{}}

	if len(plasmaRaw) > 1 {
		rows := plasmaRaw[1:]

		for i := len(rows) - 1; i >= 0; i-- {
			density, okD := floatCell(rows[i], plasmaDensityCol)
			speed, okS := floatCell(rows[i], plasmaSpeedCol)
			if !okD || !okS {
				continue
			}
			result.Density = roundPtr(density, 1)
			result.Speed = roundPtr(speed, 0)
			result.Timestamp, _ = stringCell(rows[i], 0)
			break
		}

		for _, row := range rows {
			speed, ok := floatCell(row, plasmaSpeedCol)
			if !ok || speed <= 0 {
				continue
			}
			t, _ := stringCell(row, 0)
			result.Timeseries = append(result.Timeseries, models.SpeedSample{
				Time:  t,
				Speed: round(speed, 0),
			})
		}
		result.Timeseries = downsample(result.Timeseries, MaxTimeseriesPoints)
	}

	if len(magRaw) > 1 {
		rows := magRaw[1:]
		for i := len(rows) - 1; i >= 0; i-- {
			bz, okZ := floatCell(rows[i], magBzCol)
			bt, okT := floatCell(rows[i], magBtCol)
			if !okZ || !okT {
				continue
			}
			result.Bz = roundPtr(bz, 1)
			result.Bt = roundPtr(bt, 1)
			break
		}
	}

	return result
}

// ParseKp extracts the current Kp value and up to MaxKpHistory recent
// readings. Rows that fail to convert are dropped individually; partial
// data never invalidates the whole response.
func ParseKp(kpRaw [][]interface{}) models.KpIndex {
	result := models.KpIndex{History: []models.KpReading{}}

	if len(kpRaw) <= 1 {
		return result
	}

	var readings []models.KpReading
	for _, row := range kpRaw[1:] {
		kp, ok := floatCell(row, kpValueCol)
		if !ok {
			continue
		}
		t, _ := stringCell(row, 0)
		readings = append(readings, models.KpReading{Time: t, Kp: kp})
	}

	if len(readings) > 0 {
		current := readings[len(readings)-1].Kp
		result.Current = &current
		if len(readings) > MaxKpHistory {
			readings = readings[len(readings)-MaxKpHistory:]
		}
		result.History = readings
	}

	return result
}

// ParseScales extracts the current G/S/R storm scale levels from the scales
// feed, which is keyed by lookback period ("0" = current). Missing entries
// default to the quiet state, never an error.
func ParseScales(scalesRaw map[string]interface{}) models.StormScales {
	result := models.DefaultStormScales()

	if scalesRaw == nil {
		return result
	}

	current, _ := scalesRaw["0"].(map[string]interface{})
	result.G = scaleEntry(current, "G")
	result.S = scaleEntry(current, "S")
	result.R = scaleEntry(current, "R")
	return result
}

// scaleEntry reads one (Scale, Text) pair out of the current period dict,
// defaulting to "<key>0"/"None" when absent.
func scaleEntry(current map[string]interface{}, key string) models.StormScale {
	scale := key + "0"
	label := "None"

	if entry, ok := current[key].(map[string]interface{}); ok {
		if s, ok := entry["Scale"].(string); ok && s != "" {
			scale = s
		}
		if t, ok := entry["Text"].(string); ok && t != "" {
			label = t
		}
	}

	return models.StormScale{Scale: scale, Label: label}
}

// ParseAlerts summarizes the first MaxAlerts bulletins (the feed is
// newest-first). The headline is the first line starting with one of the
// known keywords; the impacts field is the first "Potential Impacts:" line
// with the prefix stripped. When no keyword line exists, the first
// non-empty, non-boilerplate line serves as the headline. A bulletin with
// no matching lines yields empty fields, not an error.
func ParseAlerts(alertsRaw []map[string]interface{}) []models.AlertSummary {
	alerts := []models.AlertSummary{}

	for _, item := range alertsRaw {
		if len(alerts) >= MaxAlerts {
			break
		}

		message, _ := item["message"].(string)
		productID, _ := item["product_id"].(string)
		issueTime, _ := item["issue_datetime"].(string)

		headline, impacts := extractBulletinFields(message)

		alerts = append(alerts, models.AlertSummary{
			ProductID: productID,
			IssueTime: issueTime,
			Headline:  headline,
			Impacts:   impacts,
		})
	}

	return alerts
}

// extractBulletinFields line-scans a semi-structured SWPC bulletin. This is
// a best-effort heuristic, not a grammar; the keyword list and fallback
// order are load-bearing because NOAA does not formally specify the format.
func extractBulletinFields(message string) (headline, impacts string) {
	lines := strings.Split(message, "\n")

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if headline == "" && hasAnyPrefix(line, headlineKeywords) {
			headline = line
		}
		if impacts == "" && strings.HasPrefix(line, "Potential Impacts:") {
			impacts = strings.TrimSpace(strings.TrimPrefix(line, "Potential Impacts:"))
		}
	}

	if headline == "" {
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line != "" && !hasAnyPrefix(line, boilerplatePrefixes) {
				headline = line
				break
			}
		}
	}

	return headline, impacts
}

// AuroraVisibility maps the current Kp to a visibility label and threshold
// latitude using the descending NOAA table. A nil Kp yields "Unknown"; a Kp
// below every threshold (negative, which should not occur) yields
// "Not visible" with no latitude.
func AuroraVisibility(kp *float64) models.AuroraVisibility {
	if kp == nil {
		return models.AuroraVisibility{Label: "Unknown"}
	}

	for _, entry := range auroraTable {
		if *kp >= float64(entry.threshold) {
			threshold := entry.threshold
			return models.AuroraVisibility{Label: entry.label, Latitude: &threshold}
		}
	}

	return models.AuroraVisibility{Label: "Not visible"}
}

// downsample thins a timeseries to at most max points using a fixed integer
// stride, preserving chronological order.
func downsample(samples []models.SpeedSample, max int) []models.SpeedSample {
	if len(samples) <= max {
		return samples
	}

	stride := (len(samples) + max - 1) / max
	thinned := make([]models.SpeedSample, 0, max)
	for i := 0; i < len(samples); i += stride {
		thinned = append(thinned, samples[i])
	}
	return thinned
}

// hasAnyPrefix reports whether s starts with any of the given prefixes.
func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// floatCell converts one cell of a raw feed row to a float64. SWPC encodes
// numbers as strings but the decoder may also hand back JSON numbers or
// nulls, so all three are handled. Missing or malformed cells report !ok.
func floatCell(row []interface{}, idx int) (float64, bool) {
	if idx >= len(row) {
		return 0, false
	}
	switch v := row[idx].(type) {
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// stringCell reads one cell of a raw feed row as a string.
func stringCell(row []interface{}, idx int) (string, bool) {
	if idx >= len(row) {
		return "", false
	}
	s, ok := row[idx].(string)
	return s, ok
}

// round rounds v to the given number of decimal places.
func round(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}

// roundPtr rounds v and returns a pointer, for the optional payload fields.
func roundPtr(v float64, decimals int) *float64 {
	r := round(v, decimals)
	return &r
}
