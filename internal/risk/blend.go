package risk

// BlendDayWithLive replaces a daily row's score, tier and confidence with
// values recomputed from a live station reading: the AQI bundle is rebuilt
// from the reading's PM2.5/O3, the overall 0-500 AQI is mapped linearly onto
// the 0-100 score scale, and confidence is stamped as a live override. The
// input row is never mutated; the date always carries over unchanged.
func BlendDayWithLive(row DailyRow, live LiveReading) DailyRow {
	bundle := AQIBundle(live.PM25, live.O3PPB)

	blended := row
	blended.Score = Int(ScoreFromAQI(bundle.Overall))
	blended.Tier = bundle.Category.HazardTier()
	blended.Confidence = ConfidenceLive
	return blended
}
