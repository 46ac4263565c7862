package models

// WeatherPayload is the normalized space weather snapshot written to the
// cache and consumed by the web page. It is overwritten wholesale on every
// successful fetch cycle and never partially updated.
type WeatherPayload struct {
	FetchedAt string           `json:"fetched_at"`
	SolarWind SolarWind        `json:"solar_wind"`
	Kp        KpIndex          `json:"kp"`
	Scales    StormScales      `json:"scales"`
	Aurora    AuroraVisibility `json:"aurora"`
	Alerts    []AlertSummary   `json:"alerts"`
}

// SolarWind contains the latest solar wind reading plus a short speed
// timeseries for the trend chart. Speed is rounded to whole km/s, density
// and the magnetic field components to one decimal. Nil means the source
// had no usable value this cycle.
type SolarWind struct {
	Speed      *float64      `json:"speed"`
	Density    *float64      `json:"density"`
	Bz         *float64      `json:"bz"`
	Bt         *float64      `json:"bt"`
	Timestamp  string        `json:"timestamp"`
	Timeseries []SpeedSample `json:"timeseries"`
}

// SpeedSample is one (time, speed) point of the solar wind trend.
type SpeedSample struct {
	Time  string  `json:"time"`
	Speed float64 `json:"speed"`
}

// KpIndex holds the current planetary K-index and up to 24 recent readings
// in chronological order. Current always equals the last history entry when
// history is non-empty.
type KpIndex struct {
	Current *float64    `json:"current"`
	History []KpReading `json:"history"`
}

// KpReading is one (time, kp) observation.
type KpReading struct {
	Time string  `json:"time"`
	Kp   float64 `json:"kp"`
}

// StormScales carries the current NOAA G/S/R storm scale levels. All three
// keys are always present; missing upstream data yields the quiet defaults
// rather than an omitted entry.
type StormScales struct {
	G StormScale `json:"G"`
	S StormScale `json:"S"`
	R StormScale `json:"R"`
}

// StormScale is a (scale code, human label) pair, e.g. ("G1", "Minor").
type StormScale struct {
	Scale string `json:"scale"`
	Label string `json:"label"`
}

// AlertSummary is one SWPC alert bulletin reduced to the fields the widget
// shows. Headline and Impacts are best-effort extractions from the free-text
// message body and may be empty.
type AlertSummary struct {
	ProductID string `json:"product_id"`
	IssueTime string `json:"issue_time"`
	Headline  string `json:"headline"`
	Impacts   string `json:"impacts"`
}

// AuroraVisibility describes how far toward the equator aurora may be
// visible at the current Kp. Latitude is the matched Kp threshold from the
// NOAA table, nil when Kp is unknown or below every threshold.
type AuroraVisibility struct {
	Label    string `json:"label"`
	Latitude *int   `json:"latitude"`
}

// DefaultPayload returns the all-absent payload served when both the cache
// and a live fetch fail. Every field carries its structural default so the
// rendering layer never sees a missing key.
func DefaultPayload() *WeatherPayload {
	return &WeatherPayload{
		SolarWind: SolarWind{Timeseries: []SpeedSample{}},
		Kp:        KpIndex{History: []KpReading{}},
		Scales:    DefaultStormScales(),
		Aurora:    AuroraVisibility{Label: "Unknown"},
		Alerts:    []AlertSummary{},
	}
}

// DefaultStormScales returns the quiet/no-activity scale set used when the
// scales endpoint is absent.
func DefaultStormScales() StormScales {
	return StormScales{
		G: StormScale{Scale: "G0", Label: "Quiet"},
		S: StormScale{Scale: "S0", Label: "None"},
		R: StormScale{Scale: "R0", Label: "None"},
	}
}
