package risk

import (
	"math"
	"sort"
)

// DecayExtrapolate projects lastValue forward nDays via exponential decay
// toward zero, halving every halfLifeDays (floored at 0.5 to keep the rate
// finite). Element k (0-based) is the value k+1 days out. A nil lastValue
// yields an all-nil slice.
func DecayExtrapolate(lastValue *float64, nDays int, halfLifeDays float64) []*float64 {
	out := make([]*float64, nDays)
	if lastValue == nil {
		return out
	}
	lam := math.Ln2 / math.Max(0.5, halfLifeDays)
	for k := 1; k <= nDays; k++ {
		out[k-1] = Float(*lastValue * math.Exp(-lam*float64(k)))
	}
	return out
}

// MetFactor is the bounded fractional adjustment derived from one
// meteorological driver: slope per 2-unit departure from the reference,
// capped to ±0.20.
func MetFactor(value, reference, slopePer2 float64) float64 {
	adj := slopePer2 * ((value - reference) / 2.0)
	if adj > 0.20 {
		return 0.20
	}
	if adj < -0.20 {
		return -0.20
	}
	return adj
}

// Met adjustment slopes. Warmth raises both pollutants; ventilation disperses
// particulates but enhances ozone mixing, hence the sign difference.
const (
	tempSlope   = 0.03
	windSlopePM = -0.03
	windSlopeO3 = 0.01
)

// AdjustPM25 applies temperature and wind factors to a decayed PM2.5
// baseline, flooring the result at zero. Nil passes through.
func AdjustPM25(base *float64, tmax, refTmax, wind, refWind float64) *float64 {
	return adjustDecayed(base, tmax, refTmax, wind, refWind, windSlopePM)
}

// AdjustO3 applies temperature and wind factors to a decayed ozone baseline,
// flooring the result at zero. Nil passes through.
func AdjustO3(base *float64, tmax, refTmax, wind, refWind float64) *float64 {
	return adjustDecayed(base, tmax, refTmax, wind, refWind, windSlopeO3)
}

func adjustDecayed(base *float64, tmax, refTmax, wind, refWind, windSlope float64) *float64 {
	if base == nil {
		return nil
	}
	tempAdj := MetFactor(tmax, refTmax, tempSlope)
	windAdj := MetFactor(wind, refWind, windSlope)
	v := *base * (1.0 + tempAdj + windAdj)
	if v < 0 {
		v = 0
	}
	return Float(v)
}

// GroupSeriesByDay buckets a parallel (timestamp, value) hourly series into
// per-day value lists, dropping nil values. Lengths are clipped to the
// shorter of the two slices.
func GroupSeriesByDay(times []string, values []*float64) map[string][]float64 {
	n := len(times)
	if len(values) < n {
		n = len(values)
	}
	byDay := make(map[string][]float64)
	for i := 0; i < n; i++ {
		if values[i] == nil {
			continue
		}
		day := dayKey(times[i])
		if day == "" {
			continue
		}
		byDay[day] = append(byDay[day], *values[i])
	}
	return byDay
}

// DailyMean reduces each day's values to their mean.
func DailyMean(byDay map[string][]float64) map[string]*float64 {
	out := make(map[string]*float64, len(byDay))
	for d, vals := range byDay {
		out[d] = sliceMean(vals)
	}
	return out
}

// DailyMax reduces each day's values to their maximum.
func DailyMax(byDay map[string][]float64) map[string]*float64 {
	out := make(map[string]*float64, len(byDay))
	for d, vals := range byDay {
		out[d] = sliceMax(vals)
	}
	return out
}

// SortedDays returns the date keys of one or more per-day maps, merged and
// sorted ascending.
func SortedDays[V any](maps ...map[string]V) []string {
	seen := make(map[string]struct{})
	for _, m := range maps {
		for d := range m {
			seen[d] = struct{}{}
		}
	}
	days := make([]string, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}
