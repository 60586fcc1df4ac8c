package risk

import "sort"

// dayKey extracts the YYYY-MM-DD prefix of an ISO timestamp, or "" when the
// timestamp is too short to carry a date.
func dayKey(ts string) string {
	if len(ts) < 10 {
		return ""
	}
	return ts[:10]
}

// GroupByDay buckets a fused timeline by calendar date, keyed on the
// timestamp's date prefix. Entries without a parseable date are dropped, not
// errored, so a day with zero valid readings is simply absent from the map.
func GroupByDay(timeline []TimelineEntry) map[string][]TimelineEntry {
	byDay := make(map[string][]TimelineEntry)
	for _, e := range timeline {
		day := dayKey(e.Time)
		if day == "" {
			continue
		}
		byDay[day] = append(byDay[day], e)
	}
	return byDay
}

// ReduceDay collapses one day's hours to its single worst moment, selected by
// the lexicographic (tier rank, score) key. Empty input yields (nil, unknown).
func ReduceDay(entries []TimelineEntry) (*int, Tier) {
	if len(entries) == 0 {
		return nil, TierUnknown
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if e.Combined.Tier.Rank() > best.Combined.Tier.Rank() ||
			(e.Combined.Tier.Rank() == best.Combined.Tier.Rank() && e.Combined.Score > best.Combined.Score) {
			best = e
		}
	}
	return Int(best.Combined.Score), best.Combined.Tier
}

// DailyRowsFromTimeline reduces a fused hourly timeline to date-ordered daily
// rows, each representing the day's worst hour at high confidence.
func DailyRowsFromTimeline(timeline []TimelineEntry) []DailyRow {
	byDay := GroupByDay(timeline)

	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	rows := make([]DailyRow, 0, len(days))
	for _, d := range days {
		score, tier := ReduceDay(byDay[d])
		rows = append(rows, DailyRow{
			Date:       d,
			Score:      score,
			Tier:       tier,
			Confidence: ConfidenceHigh,
		})
	}
	return rows
}

// WeatherDay is the per-day fold of a raw hourly weather series, used for the
// plain (non-fused) forecast view. Each field is nil when its source series
// has no values for that day.
type WeatherDay struct {
	Date      string   `json:"date"`
	TMax      *float64 `json:"tmax_c"`
	TMin      *float64 `json:"tmin_c"`
	RH        *float64 `json:"rh_pct"`
	WindMax   *float64 `json:"wind_max_ms"`
	Shortwave *float64 `json:"shortwave_sum_wm2"`
	Cloud     *float64 `json:"cloud_mean_pct"`
	Source    string   `json:"source"`

	RiskScore *float64 `json:"risk_score"`
	RiskTier  string   `json:"tier"`

	HeatwaveFlag       bool `json:"heatwave_flag"`
	HeatwavePersistent bool `json:"heatwave_persistent"`
}

// Raw daily risk ladder, separate from the fused hazard tiers.
const (
	WeatherTierUnknown  = "unknown"
	WeatherTierLow      = "low"
	WeatherTierModerate = "moderate"
	WeatherTierHigh     = "high"
	WeatherTierExtreme  = "extreme"
)

// FoldHourlyWeather groups raw hourly weather readings by calendar day and
// reduces them to TMAX/TMIN, mean RH, max wind, summed shortwave and mean
// cloud cover, then scores each day. Output is date-ordered.
func FoldHourlyWeather(samples []HourlySample, source string) []WeatherDay {
	type bins struct {
		temp, rh, wind, sw, cloud []float64
	}
	byDay := make(map[string]*bins)
	for _, s := range samples {
		day := dayKey(s.Time)
		if day == "" {
			continue
		}
		b, ok := byDay[day]
		if !ok {
			b = &bins{}
			byDay[day] = b
		}
		if s.TempC != nil {
			b.temp = append(b.temp, *s.TempC)
		}
		if s.RH != nil {
			b.rh = append(b.rh, *s.RH)
		}
		if s.WindSpeed != nil {
			b.wind = append(b.wind, *s.WindSpeed)
		}
		if s.Shortwave != nil {
			b.sw = append(b.sw, *s.Shortwave)
		}
		if s.Cloud != nil {
			b.cloud = append(b.cloud, *s.Cloud)
		}
	}

	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	out := make([]WeatherDay, 0, len(days))
	for _, d := range days {
		b := byDay[d]
		row := WeatherDay{
			Date:      d,
			TMax:      sliceMax(b.temp),
			TMin:      sliceMin(b.temp),
			RH:        sliceMean(b.rh),
			WindMax:   sliceMax(b.wind),
			Shortwave: sliceSum(b.sw),
			Cloud:     sliceMean(b.cloud),
			Source:    source,
		}
		row.RiskScore, row.RiskTier = ScoreWeatherDay(row.TMax, row.RH)
		out = append(out, row)
	}
	return out
}

// ScoreWeatherDay derives the raw daily risk score and ladder tier from TMAX
// and mean RH: clamp(0,100, 2*TMAX + 0.3*RH - 20). Either input missing
// yields (nil, unknown).
func ScoreWeatherDay(tmax, rh *float64) (*float64, string) {
	if tmax == nil || rh == nil {
		return nil, WeatherTierUnknown
	}
	score := *tmax*2.0 + *rh*0.3 - 20
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	var tier string
	switch {
	case score < 40:
		tier = WeatherTierLow
	case score < 60:
		tier = WeatherTierModerate
	case score < 80:
		tier = WeatherTierHigh
	default:
		tier = WeatherTierExtreme
	}
	return Float(score), tier
}

// FlagHeatwaves marks days whose TMAX reaches absHot and flags runs that have
// persisted for at least persistenceDays. Rows are updated in place and the
// slice is returned for chaining.
func FlagHeatwaves(rows []WeatherDay, absHot float64, persistenceDays int) []WeatherDay {
	consec := 0
	for i := range rows {
		hot := rows[i].TMax != nil && *rows[i].TMax >= absHot
		rows[i].HeatwaveFlag = hot
		if hot {
			consec++
		} else {
			consec = 0
		}
		rows[i].HeatwavePersistent = consec >= persistenceDays
	}
	return rows
}

func sliceMax(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return Float(m)
}

func sliceMin(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return Float(m)
}

func sliceMean(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return Float(sum / float64(len(vals)))
}

func sliceSum(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return Float(sum)
}
