package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(date string, score int, tier Tier) DailyRow {
	return DailyRow{Date: date, Score: Int(score), Tier: tier, Confidence: ConfidenceHigh}
}

func TestFindSpells(t *testing.T) {
	t.Run("single mid-sequence spell", func(t *testing.T) {
		rows := []DailyRow{
			day("2026-07-01", 20, TierSafe),
			day("2026-07-02", 70, TierRisk),
			day("2026-07-03", 75, TierRisk),
			day("2026-07-04", 68, TierRisk),
			day("2026-07-05", 25, TierSafe),
		}
		spells := FindSpells(rows, 3)
		require.Len(t, spells, 1)
		assert.Equal(t, "2026-07-02", spells[0].Start)
		assert.Equal(t, "2026-07-04", spells[0].End)
		assert.Equal(t, 3, spells[0].Days)
		assert.Equal(t, TierRisk, spells[0].Peak.Tier)
		assert.Equal(t, 75, *spells[0].Peak.Score)
	})

	t.Run("tail run counts", func(t *testing.T) {
		rows := []DailyRow{
			day("2026-07-01", 20, TierSafe),
			day("2026-07-02", 70, TierRisk),
			day("2026-07-03", 75, TierExtreme),
			day("2026-07-04", 68, TierRisk),
		}
		spells := FindSpells(rows, 3)
		require.Len(t, spells, 1)
		assert.Equal(t, "2026-07-04", spells[0].End)
		assert.Equal(t, TierExtreme, spells[0].Peak.Tier)
	})

	t.Run("short runs are ignored", func(t *testing.T) {
		rows := []DailyRow{
			day("2026-07-01", 70, TierRisk),
			day("2026-07-02", 70, TierRisk),
			day("2026-07-03", 20, TierSafe),
		}
		assert.Empty(t, FindSpells(rows, 3))
	})

	t.Run("multiple spells reported", func(t *testing.T) {
		rows := []DailyRow{
			day("2026-07-01", 70, TierRisk),
			day("2026-07-02", 70, TierRisk),
			day("2026-07-03", 70, TierRisk),
			day("2026-07-04", 20, TierSafe),
			day("2026-07-05", 90, TierExtreme),
			day("2026-07-06", 90, TierExtreme),
			day("2026-07-07", 85, TierExtreme),
		}
		spells := FindSpells(rows, 3)
		require.Len(t, spells, 2)
		assert.Equal(t, "2026-07-01", spells[0].Start)
		assert.Equal(t, "2026-07-05", spells[1].Start)
	})

	t.Run("peak tie breaks on score within equal tier", func(t *testing.T) {
		rows := []DailyRow{
			day("2026-07-01", 64, TierRisk),
			day("2026-07-02", 80, TierRisk),
			day("2026-07-03", 72, TierRisk),
		}
		spells := FindSpells(rows, 3)
		require.Len(t, spells, 1)
		assert.Equal(t, 80, *spells[0].Peak.Score)
	})

	t.Run("unknown days break a run", func(t *testing.T) {
		rows := []DailyRow{
			day("2026-07-01", 70, TierRisk),
			{Date: "2026-07-02", Tier: TierUnknown, Confidence: ConfidenceLow},
			day("2026-07-03", 70, TierRisk),
			day("2026-07-04", 70, TierRisk),
		}
		assert.Empty(t, FindSpells(rows, 3))
	})
}

func TestNarrative(t *testing.T) {
	assert.Contains(t, Narrative(nil), "No heatwave")

	spells := []Spell{
		{Start: "2026-07-02", End: "2026-07-04", Days: 3, Peak: SpellPeak{Tier: TierRisk, Score: Int(75)}},
		{Start: "2026-07-08", End: "2026-07-11", Days: 4, Peak: SpellPeak{Tier: TierExtreme, Score: Int(95)}},
	}
	story := Narrative(spells)
	assert.Equal(t, "Heatwave from 2026-07-02 to 2026-07-04 (3 days), peak risk. "+
		"Heatwave from 2026-07-08 to 2026-07-11 (4 days), peak extreme.", story)
}
