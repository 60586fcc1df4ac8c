package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlendDayWithLive(t *testing.T) {
	t.Run("recomputes score and tier from the reading", func(t *testing.T) {
		row := DailyRow{Date: "2026-07-01", Score: Int(85), Tier: TierExtreme, Confidence: ConfidenceHigh}
		live := LiveReading{Station: "Central", PM25: Float(80.0), O3PPB: Float(30.0)}

		out := BlendDayWithLive(row, live)

		// PM2.5 80 ug/m3 interpolates to AQI 164 (unhealthy).
		require.NotNil(t, out.Score)
		assert.Equal(t, 33, *out.Score)
		assert.Equal(t, TierRisk, out.Tier)
		assert.Equal(t, ConfidenceLive, out.Confidence)
		assert.Equal(t, "2026-07-01", out.Date)
	})

	t.Run("reading with no values yields unknown", func(t *testing.T) {
		row := DailyRow{Date: "2026-07-01", Score: Int(40), Tier: TierCaution, Confidence: ConfidenceHigh}

		out := BlendDayWithLive(row, LiveReading{Station: "Central"})

		require.NotNil(t, out.Score)
		assert.Equal(t, 0, *out.Score)
		assert.Equal(t, TierUnknown, out.Tier)
		assert.Equal(t, ConfidenceLive, out.Confidence)
	})

	t.Run("input row is not mutated", func(t *testing.T) {
		row := DailyRow{Date: "2026-07-01", Score: Int(85), Tier: TierExtreme, Confidence: ConfidenceHigh}

		_ = BlendDayWithLive(row, LiveReading{PM25: Float(5.0)})

		assert.Equal(t, 85, *row.Score)
		assert.Equal(t, TierExtreme, row.Tier)
		assert.Equal(t, ConfidenceHigh, row.Confidence)
	})
}
