package risk

// Package risk implements the fusion core: index calculators, tier
// classifiers, temporal aggregation, decay extrapolation, tier fusion, the
// live-observation blender and the spell/window scanners. Everything here is
// pure and safe for concurrent use; optional values are pointers and absence
// always propagates as nil/unknown, never as a false zero.

// HourlySample is one normalized hourly reading after provider adapters have
// aligned weather and air series. Any field may be nil.
type HourlySample struct {
	Time      string   `json:"ts"` // ISO-8601, provider-local or UTC
	TempC     *float64 `json:"t_c,omitempty"`
	RH        *float64 `json:"rh_pct,omitempty"`
	PM25      *float64 `json:"pm25_ugm3,omitempty"`
	O3PPB     *float64 `json:"o3_ppb,omitempty"`
	WindSpeed *float64 `json:"wind_ms,omitempty"`
	Shortwave *float64 `json:"shortwave_wm2,omitempty"`
	Cloud     *float64 `json:"cloud_pct,omitempty"`
}

// HeatDetail carries the computed heat indices for one hour.
type HeatDetail struct {
	HeatIndexC *float64 `json:"heat_index_c"`
	WBGTC      *float64 `json:"wbgt_shade_c"`
	Tier       Tier     `json:"tier"`
}

// AQIDetail carries the computed AQI bundle for one hour or day.
type AQIDetail struct {
	PM25     *int        `json:"pm25"`
	O3       *int        `json:"o3"`
	Overall  *int        `json:"overall"`
	Category AQICategory `json:"tier"`
}

// Combined is the fused score/tier pair.
type Combined struct {
	Score int  `json:"score"`
	Tier  Tier `json:"tier"`
}

// TimelineEntry is one hour of the fused risk timeline. Derived and
// ephemeral; never persisted beyond a response.
type TimelineEntry struct {
	Time     string     `json:"ts"`
	TempC    *float64   `json:"t_c,omitempty"`
	RH       *float64   `json:"rh_pct,omitempty"`
	PM25     *float64   `json:"pm25_ugm3,omitempty"`
	O3PPB    *float64   `json:"o3_ppb,omitempty"`
	Heat     HeatDetail `json:"heat"`
	AQI      AQIDetail  `json:"aqi"`
	Combined Combined   `json:"combined"`
}

// Confidence labels for daily rows.
const (
	ConfidenceHigh = "high"
	ConfidenceLow  = "low"
	ConfidenceLive = "high (live override)"
)

// DailyRow is one calendar day of the unified risk table.
type DailyRow struct {
	Date       string `json:"date"` // YYYY-MM-DD
	Score      *int   `json:"score"`
	Tier       Tier   `json:"tier"`
	Confidence string `json:"confidence"`
}

// LiveReading is a live station observation used for the day-1 override.
type LiveReading struct {
	Station string   `json:"station,omitempty"`
	Time    string   `json:"ts,omitempty"`
	PM25    *float64 `json:"pm25_ugm3"`
	O3PPB   *float64 `json:"o3_ppb"`
}

// Spell is a run of consecutive days at or above the hazard threshold.
type Spell struct {
	Start string    `json:"start"`
	End   string    `json:"end"`
	Days  int       `json:"days"`
	Peak  SpellPeak `json:"peak"`
}

// SpellPeak is the worst day within a spell.
type SpellPeak struct {
	Tier  Tier `json:"tier"`
	Score *int `json:"score"`
}

// Float returns a pointer to v. Convenience for building optional fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
