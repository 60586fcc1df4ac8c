package risk

// Window is a contiguous index span of a fused hourly timeline.
type Window struct {
	Start int `json:"start_idx"`
	End   int `json:"end_idx"`
}

// FirstWindowAtOrAbove returns the first contiguous run of hours whose
// combined tier is at or above minTier for at least neededHours, as inclusive
// index positions. Unlike FindSpells this stops at the first qualifying
// window: it backs a push-alert use case where only the next alertable span
// matters. Returns false when no window qualifies.
func FirstWindowAtOrAbove(timeline []TimelineEntry, minTier Tier, neededHours int) (Window, bool) {
	thresh := minTier.Rank()
	runStart := -1

	for i, e := range timeline {
		ok := e.Combined.Tier.Rank() >= thresh
		if ok && runStart < 0 {
			runStart = i
		}
		if !ok && runStart >= 0 {
			if i-runStart >= neededHours {
				return Window{Start: runStart, End: i - 1}, true
			}
			runStart = -1
		}
	}
	if runStart >= 0 && len(timeline)-runStart >= neededHours {
		return Window{Start: runStart, End: len(timeline) - 1}, true
	}
	return Window{}, false
}
