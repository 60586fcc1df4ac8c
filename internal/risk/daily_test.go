package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(ts string, score int, tier Tier) TimelineEntry {
	return TimelineEntry{Time: ts, Combined: Combined{Score: score, Tier: tier}}
}

func TestGroupByDay(t *testing.T) {
	t.Run("buckets by date prefix", func(t *testing.T) {
		timeline := []TimelineEntry{
			entry("2026-07-01T08:00", 10, TierSafe),
			entry("2026-07-01T14:00", 40, TierCaution),
			entry("2026-07-02T09:00", 20, TierSafe),
		}
		byDay := GroupByDay(timeline)
		require.Len(t, byDay, 2)
		assert.Len(t, byDay["2026-07-01"], 2)
		assert.Len(t, byDay["2026-07-02"], 1)
	})

	t.Run("day without valid entries is absent, not nil-filled", func(t *testing.T) {
		timeline := []TimelineEntry{
			entry("2026-07-01T08:00", 10, TierSafe),
			entry("bad", 99, TierExtreme), // unparseable date: dropped
			entry("", 99, TierExtreme),
		}
		byDay := GroupByDay(timeline)
		require.Len(t, byDay, 1)
		_, ok := byDay["2026-07-01"]
		assert.True(t, ok)
	})
}

func TestReduceDay(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		score, tier := ReduceDay(nil)
		assert.Nil(t, score)
		assert.Equal(t, TierUnknown, tier)
	})

	t.Run("worst moment represents the day", func(t *testing.T) {
		score, tier := ReduceDay([]TimelineEntry{
			entry("a", 90, TierCaution), // high score, lower tier
			entry("b", 70, TierRisk),    // tier rank wins
			entry("c", 65, TierRisk),
		})
		require.NotNil(t, score)
		assert.Equal(t, 70, *score)
		assert.Equal(t, TierRisk, tier)
	})
}

func TestDailyRowsFromTimeline(t *testing.T) {
	timeline := []TimelineEntry{
		entry("2026-07-02T14:00", 65, TierRisk),
		entry("2026-07-01T14:00", 40, TierCaution),
		entry("2026-07-01T16:00", 45, TierCaution),
	}
	rows := DailyRowsFromTimeline(timeline)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-07-01", rows[0].Date, "rows sorted by date")
	assert.Equal(t, 45, *rows[0].Score)
	assert.Equal(t, "2026-07-02", rows[1].Date)
	assert.Equal(t, TierRisk, rows[1].Tier)
	for _, r := range rows {
		assert.Equal(t, ConfidenceHigh, r.Confidence)
	}
}

func TestFoldHourlyWeather(t *testing.T) {
	samples := []HourlySample{
		{Time: "2026-07-01T06:00", TempC: Float(22), RH: Float(80), WindSpeed: Float(2), Shortwave: Float(0), Cloud: Float(50)},
		{Time: "2026-07-01T14:00", TempC: Float(36), RH: Float(40), WindSpeed: Float(5), Shortwave: Float(800), Cloud: Float(10)},
		{Time: "2026-07-02T14:00", RH: Float(55)}, // temperature missing all day
	}

	days := FoldHourlyWeather(samples, "open-meteo")
	require.Len(t, days, 2)

	d1 := days[0]
	assert.Equal(t, "2026-07-01", d1.Date)
	assert.Equal(t, 36.0, *d1.TMax)
	assert.Equal(t, 22.0, *d1.TMin)
	assert.Equal(t, 60.0, *d1.RH)
	assert.Equal(t, 5.0, *d1.WindMax)
	assert.Equal(t, 800.0, *d1.Shortwave)
	assert.Equal(t, 30.0, *d1.Cloud)
	// 2*36 + 0.3*60 - 20 = 70
	require.NotNil(t, d1.RiskScore)
	assert.Equal(t, 70.0, *d1.RiskScore)
	assert.Equal(t, WeatherTierHigh, d1.RiskTier)

	d2 := days[1]
	assert.Nil(t, d2.TMax)
	assert.Nil(t, d2.RiskScore)
	assert.Equal(t, WeatherTierUnknown, d2.RiskTier)
}

func TestScoreWeatherDay(t *testing.T) {
	score, tier := ScoreWeatherDay(Float(45), Float(90))
	require.NotNil(t, score)
	assert.Equal(t, 97.0, *score)
	assert.Equal(t, WeatherTierExtreme, tier)

	score, tier = ScoreWeatherDay(Float(10), Float(10))
	require.NotNil(t, score)
	assert.Equal(t, 3.0, *score, "clamped at the floor only when negative")
	assert.Equal(t, WeatherTierLow, tier)

	score, tier = ScoreWeatherDay(nil, Float(50))
	assert.Nil(t, score)
	assert.Equal(t, WeatherTierUnknown, tier)
}

func TestFlagHeatwaves(t *testing.T) {
	rows := []WeatherDay{
		{Date: "d1", TMax: Float(41)},
		{Date: "d2", TMax: Float(42)},
		{Date: "d3", TMax: Float(38)},
		{Date: "d4", TMax: Float(40)},
	}
	FlagHeatwaves(rows, 40.0, 2)

	assert.True(t, rows[0].HeatwaveFlag)
	assert.False(t, rows[0].HeatwavePersistent, "first hot day does not persist yet")
	assert.True(t, rows[1].HeatwavePersistent, "second consecutive hot day")
	assert.False(t, rows[2].HeatwaveFlag)
	assert.False(t, rows[3].HeatwavePersistent, "streak was broken")
}
