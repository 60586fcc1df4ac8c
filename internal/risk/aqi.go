package risk

import "math"

// US EPA style breakpoint tables mapping a concentration range to an AQI
// range. Concentrations above the last row return nil rather than clamping:
// the tables stop here and a pinned 500 would hide that the reading left
// their domain, so extreme out-of-range input stays "unknown".

type breakpoint struct {
	concLo, concHi float64
	aqiLo, aqiHi   int
}

// PM2.5 (µg/m³), 24h averaging basis.
var pm25Breakpoints = []breakpoint{
	{0.0, 12.0, 0, 50},
	{12.1, 35.4, 51, 100},
	{35.5, 55.4, 101, 150},
	{55.5, 150.4, 151, 200},
	{150.5, 250.4, 201, 300},
	{250.5, 350.4, 301, 400},
	{350.5, 500.4, 401, 500},
}

// Ozone (ppb), 8h basis; a 1h series is still a workable proxy.
var o3Breakpoints = []breakpoint{
	{0, 54, 0, 50},
	{55, 70, 51, 100},
	{71, 85, 101, 150},
	{86, 105, 151, 200},
	{106, 200, 201, 300}, // coarse upper bucket
}

func interpAQI(c float64, table []breakpoint) *int {
	for _, bp := range table {
		if c >= bp.concLo && c <= bp.concHi {
			v := float64(bp.aqiHi-bp.aqiLo)*(c-bp.concLo)/(bp.concHi-bp.concLo) + float64(bp.aqiLo)
			return Int(int(math.Round(v)))
		}
	}
	return nil
}

// AQIPM25 computes the PM2.5 sub-index from a µg/m³ concentration.
func AQIPM25(ugm3 *float64) *int {
	if ugm3 == nil {
		return nil
	}
	return interpAQI(*ugm3, pm25Breakpoints)
}

// AQIO3 computes the ozone sub-index from a ppb concentration.
func AQIO3(ppb *float64) *int {
	if ppb == nil {
		return nil
	}
	return interpAQI(*ppb, o3Breakpoints)
}

// AQIOverall is the worse of the two defined sub-indices, nil if both are
// undefined.
func AQIOverall(pm25Ugm3, o3PPB *float64) *int {
	aPM := AQIPM25(pm25Ugm3)
	aO3 := AQIO3(o3PPB)
	switch {
	case aPM == nil:
		return aO3
	case aO3 == nil:
		return aPM
	case *aO3 > *aPM:
		return aO3
	default:
		return aPM
	}
}

// AQIBundle computes the full sub-index/overall/category set for a reading.
func AQIBundle(pm25Ugm3, o3PPB *float64) AQIDetail {
	overall := AQIOverall(pm25Ugm3, o3PPB)
	return AQIDetail{
		PM25:     AQIPM25(pm25Ugm3),
		O3:       AQIO3(o3PPB),
		Overall:  overall,
		Category: AQICategoryFromIndex(overall),
	}
}

// ScoreFromAQI maps a raw 0-500 AQI linearly onto the 0-100 risk score scale.
// Nil maps to 0.
func ScoreFromAQI(aqi *int) int {
	if aqi == nil {
		return 0
	}
	s := int(math.Round(float64(*aqi) * 0.2))
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func invertAQI(aqi int, table []breakpoint) *float64 {
	for _, bp := range table {
		if aqi >= bp.aqiLo && aqi <= bp.aqiHi {
			span := float64(bp.aqiHi - bp.aqiLo)
			if span == 0 {
				return Float(bp.concLo)
			}
			c := (float64(aqi-bp.aqiLo)/span)*(bp.concHi-bp.concLo) + bp.concLo
			return Float(c)
		}
	}
	return nil
}

// PM25FromAQI inverts the PM2.5 sub-index back to a µg/m³ concentration.
// Stations like WAQI publish sub-indices rather than concentrations; the
// inverse lets such readings flow through the concentration-based pipeline.
func PM25FromAQI(aqi *int) *float64 {
	if aqi == nil {
		return nil
	}
	return invertAQI(*aqi, pm25Breakpoints)
}

// O3PPBFromAQI inverts the ozone sub-index back to a ppb concentration.
func O3PPBFromAQI(aqi *int) *float64 {
	if aqi == nil {
		return nil
	}
	return invertAQI(*aqi, o3Breakpoints)
}

// OzoneUgm3ToPPB converts an ozone mass concentration to an approximate
// mixing ratio. The ÷2 factor is a documented approximation for surface
// conditions, not an exact physical conversion.
func OzoneUgm3ToPPB(ugm3 *float64) *float64 {
	if ugm3 == nil {
		return nil
	}
	return Float(*ugm3 / 2.0)
}
