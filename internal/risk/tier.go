package risk

// Tier is the ordinal hazard category used for heat and for the combined
// heat/air result. Rank order is fixed; "worse" always means higher rank.
type Tier string

const (
	TierUnknown Tier = "unknown"
	TierSafe    Tier = "safe"
	TierCaution Tier = "caution"
	TierRisk    Tier = "risk"
	TierExtreme Tier = "extreme"
)

var tierRank = map[Tier]int{
	TierUnknown: 0,
	TierSafe:    1,
	TierCaution: 2,
	TierRisk:    3,
	TierExtreme: 4,
}

// Rank returns the tier's position on the hazard ladder. Unknown ranks 0 and
// never outranks a defined tier.
func (t Tier) Rank() int {
	return tierRank[t]
}

// Worse returns the higher-ranked of the two tiers.
func (t Tier) Worse(other Tier) Tier {
	if other.Rank() > t.Rank() {
		return other
	}
	return t
}

// AQICategory is the ordinal category ladder for a raw 0-500 AQI value.
type AQICategory string

const (
	AQIUnknown              AQICategory = "unknown"
	AQIGood                 AQICategory = "good"
	AQIModerate             AQICategory = "moderate"
	AQIUnhealthyForSensitve AQICategory = "unhealthy_for_sensitive"
	AQIUnhealthy            AQICategory = "unhealthy"
	AQIVeryUnhealthy        AQICategory = "very_unhealthy"
	AQIHazardous            AQICategory = "hazardous"
)

var aqiCategoryRank = map[AQICategory]int{
	AQIUnknown:              0,
	AQIGood:                 1,
	AQIModerate:             2,
	AQIUnhealthyForSensitve: 3,
	AQIUnhealthy:            4,
	AQIVeryUnhealthy:        5,
	AQIHazardous:            6,
}

// Rank returns the category's position on the AQI ladder.
func (c AQICategory) Rank() int {
	return aqiCategoryRank[c]
}

// HazardTier projects an AQI category onto the five-level hazard ladder so it
// can be fused with the heat tier. The projection is deliberately coarse:
// both mid categories collapse to caution, both unhealthy categories to risk.
func (c AQICategory) HazardTier() Tier {
	switch c {
	case AQIGood:
		return TierSafe
	case AQIModerate, AQIUnhealthyForSensitve:
		return TierCaution
	case AQIUnhealthy, AQIVeryUnhealthy:
		return TierRisk
	case AQIHazardous:
		return TierExtreme
	default:
		return TierUnknown
	}
}

// TierFromHeat classifies heat index and WBGT independently against fixed
// thresholds and returns the worse of the two tiers. A nil input yields
// unknown for its side; both nil yields unknown overall.
//
// Thresholds (approximate, shade conditions):
//
//	safe:    HI < 27  and WBGT < 25
//	caution: HI < 33  or  WBGT < 28
//	risk:    HI < 41  or  WBGT < 30.5
//	extreme: above
func TierFromHeat(hiC, wbgtC *float64) Tier {
	hiTier := TierUnknown
	if hiC != nil {
		switch {
		case *hiC < 27:
			hiTier = TierSafe
		case *hiC < 33:
			hiTier = TierCaution
		case *hiC < 41:
			hiTier = TierRisk
		default:
			hiTier = TierExtreme
		}
	}

	wbTier := TierUnknown
	if wbgtC != nil {
		switch {
		case *wbgtC < 25:
			wbTier = TierSafe
		case *wbgtC < 28:
			wbTier = TierCaution
		case *wbgtC < 30.5:
			wbTier = TierRisk
		default:
			wbTier = TierExtreme
		}
	}

	return hiTier.Worse(wbTier)
}

// AQICategoryFromIndex maps a raw AQI value to its category ladder.
func AQICategoryFromIndex(aqi *int) AQICategory {
	if aqi == nil {
		return AQIUnknown
	}
	switch {
	case *aqi <= 50:
		return AQIGood
	case *aqi <= 100:
		return AQIModerate
	case *aqi <= 150:
		return AQIUnhealthyForSensitve
	case *aqi <= 200:
		return AQIUnhealthy
	case *aqi <= 300:
		return AQIVeryUnhealthy
	default:
		return AQIHazardous
	}
}
