package risk

import "math"

// Weights control the heat/air split in the combined score. They are assumed
// pre-validated to [0,1] at the configuration or request boundary and are not
// required to sum to 1.
type Weights struct {
	Heat float64 `json:"heat"`
	AQI  float64 `json:"aqi"`
}

// DefaultWeights is the stock 60/40 heat/air split.
var DefaultWeights = Weights{Heat: 0.6, AQI: 0.4}

// TierScore maps a hazard tier to its 0-100 contribution (rank * 25).
func TierScore(t Tier) int {
	return t.Rank() * 25
}

// CombineTiers fuses two independently classified hazard tiers into one
// weighted score and tier. If either input is extreme the result is extreme
// regardless of weights (worst tier wins); otherwise the tier follows the
// score ladder 88/63/38/>0.
func CombineTiers(heat, air Tier, w Weights) Combined {
	score := int(math.Round(w.Heat*float64(TierScore(heat)) + w.AQI*float64(TierScore(air))))

	var tier Tier
	switch {
	case score >= 88 || heat == TierExtreme || air == TierExtreme:
		tier = TierExtreme
	case score >= 63:
		tier = TierRisk
	case score >= 38:
		tier = TierCaution
	case score > 0:
		tier = TierSafe
	default:
		tier = TierUnknown
	}

	return Combined{Score: score, Tier: tier}
}

// FuseHourly derives the full composite timeline from normalized hourly
// samples: heat indices and tier, AQI bundle and category, and the weighted
// combination. Input order is preserved; inputs are not mutated.
func FuseHourly(samples []HourlySample, w Weights) []TimelineEntry {
	out := make([]TimelineEntry, 0, len(samples))
	for _, s := range samples {
		hi := HeatIndexC(s.TempC, s.RH)
		wb := WBGTShadeC(s.TempC, s.RH)
		heatTier := TierFromHeat(hi, wb)

		aqi := AQIBundle(s.PM25, s.O3PPB)

		out = append(out, TimelineEntry{
			Time:     s.Time,
			TempC:    s.TempC,
			RH:       s.RH,
			PM25:     s.PM25,
			O3PPB:    s.O3PPB,
			Heat:     HeatDetail{HeatIndexC: hi, WBGTC: wb, Tier: heatTier},
			AQI:      aqi,
			Combined: CombineTiers(heatTier, aqi.Category.HazardTier(), w),
		})
	}
	return out
}

// PeakEntry returns the worst hour of a timeline by (tier rank, score), or
// nil for an empty timeline.
func PeakEntry(timeline []TimelineEntry) *TimelineEntry {
	var peak *TimelineEntry
	for i := range timeline {
		e := &timeline[i]
		if peak == nil {
			peak = e
			continue
		}
		if e.Combined.Tier.Rank() > peak.Combined.Tier.Rank() ||
			(e.Combined.Tier.Rank() == peak.Combined.Tier.Rank() && e.Combined.Score > peak.Combined.Score) {
			peak = e
		}
	}
	return peak
}
