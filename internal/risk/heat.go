package risk

import "math"

func cToF(c float64) float64 { return c*9/5 + 32.0 }
func fToC(f float64) float64 { return (f - 32.0) * 5 / 9 }

// HeatIndexC computes the NWS heat index with Celsius in/out using the
// Rothfusz regression. Below the regression's documented validity range
// (t < 80F or RH < 40%) a mild linear approximation is used instead.
// Returns nil when either input is missing.
func HeatIndexC(tC, rh *float64) *float64 {
	if tC == nil || rh == nil {
		return nil
	}
	tF := cToF(*tC)
	r := *rh

	if tF < 80 || r < 40 {
		// Mild conditions: feels-like rises only slightly with humidity.
		return Float(fToC(tF + 0.2*(r/10.0)))
	}

	const (
		c1 = -42.379
		c2 = 2.04901523
		c3 = 10.14333127
		c4 = -0.22475541
		c5 = -0.00683783
		c6 = -0.05481717
		c7 = 0.00122874
		c8 = 0.00085282
		c9 = -0.00000199
	)

	hiF := c1 + c2*tF + c3*r + c4*tF*r + c5*tF*tF +
		c6*r*r + c7*tF*tF*r + c8*tF*r*r + c9*tF*tF*r*r

	// NWS low-humidity correction.
	if r < 13 && tF >= 80 && tF <= 112 {
		hiF -= ((13 - r) / 4) * math.Sqrt((17-math.Abs(tF-95.0))/17)
	}
	// NWS high-humidity correction.
	if r > 85 && tF >= 80 && tF <= 87 {
		hiF += 0.02 * (r - 85) * (87 - tF)
	}

	return Float(fToC(hiF))
}

// WBGTShadeC approximates wet-bulb globe temperature without solar or globe
// inputs: a shade-only proxy leaning on the heat index, pulled toward ambient
// to avoid overstatement. Returns nil when the heat index is undefined.
func WBGTShadeC(tC, rh *float64) *float64 {
	if tC == nil || rh == nil {
		return nil
	}
	hi := HeatIndexC(tC, rh)
	if hi == nil {
		return nil
	}
	return Float(0.6**hi + 0.4**tC)
}
