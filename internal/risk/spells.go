package risk

import (
	"fmt"
	"strings"
)

// FindSpells scans a date-ordered daily sequence for runs of consecutive
// qualifying days (tier rank >= risk) lasting at least minLen, including a
// run that reaches the end of the sequence. Every qualifying span is
// reported, with its peak day chosen by (tier rank, score).
func FindSpells(rows []DailyRow, minLen int) []Spell {
	var spells []Spell
	var run []DailyRow

	flush := func() {
		if len(run) >= minLen {
			spells = append(spells, spellFromRun(run))
		}
		run = nil
	}

	for _, r := range rows {
		if r.Tier.Rank() >= TierRisk.Rank() {
			run = append(run, r)
		} else {
			flush()
		}
	}
	flush()

	return spells
}

func spellFromRun(run []DailyRow) Spell {
	peak := run[0]
	for _, r := range run[1:] {
		if r.Tier.Rank() > peak.Tier.Rank() ||
			(r.Tier.Rank() == peak.Tier.Rank() && scoreOrZero(r.Score) > scoreOrZero(peak.Score)) {
			peak = r
		}
	}
	return Spell{
		Start: run[0].Date,
		End:   run[len(run)-1].Date,
		Days:  len(run),
		Peak:  SpellPeak{Tier: peak.Tier, Score: peak.Score},
	}
}

func scoreOrZero(s *int) int {
	if s == nil {
		return 0
	}
	return *s
}

// Narrative renders spells as one sentence each, or a fixed all-clear
// sentence when none were found.
func Narrative(spells []Spell) string {
	if len(spells) == 0 {
		return "No heatwave (>=3 consecutive days of risk/extreme) expected in the forecast window."
	}
	parts := make([]string, 0, len(spells))
	for _, s := range spells {
		parts = append(parts, fmt.Sprintf("Heatwave from %s to %s (%d days), peak %s.", s.Start, s.End, s.Days, s.Peak.Tier))
	}
	return strings.Join(parts, " ")
}
