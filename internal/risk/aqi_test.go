package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAQIPM25(t *testing.T) {
	t.Run("nil input", func(t *testing.T) {
		assert.Nil(t, AQIPM25(nil))
	})

	t.Run("breakpoint edges", func(t *testing.T) {
		cases := []struct {
			conc float64
			want int
		}{
			{0.0, 0},
			{12.0, 50},
			{12.1, 51},
			{35.4, 100},
			{55.4, 150},
			{150.4, 200},
			{500.4, 500},
		}
		for _, tc := range cases {
			got := AQIPM25(Float(tc.conc))
			require.NotNil(t, got, "conc=%.1f", tc.conc)
			assert.Equal(t, tc.want, *got, "conc=%.1f", tc.conc)
		}
	})

	t.Run("interpolates within a bucket", func(t *testing.T) {
		got := AQIPM25(Float(6.0))
		require.NotNil(t, got)
		assert.Equal(t, 25, *got)
	})

	t.Run("above top breakpoint stays unknown", func(t *testing.T) {
		assert.Nil(t, AQIPM25(Float(600.0)))
	})

	t.Run("negative concentration stays unknown", func(t *testing.T) {
		assert.Nil(t, AQIPM25(Float(-1.0)))
	})
}

func TestAQIO3(t *testing.T) {
	got := AQIO3(Float(60))
	require.NotNil(t, got)
	assert.Equal(t, 67, *got) // 51 + 49*(60-55)/15 = 67.33 -> 67

	assert.Nil(t, AQIO3(Float(250)), "beyond coarse upper bucket")
	assert.Nil(t, AQIO3(nil))
}

func TestAQIOverall(t *testing.T) {
	t.Run("max of both when defined", func(t *testing.T) {
		pm := Float(10.0) // AQI ~42
		o3 := Float(80.0) // AQI ~130
		got := AQIOverall(pm, o3)
		require.NotNil(t, got)
		assert.Equal(t, *AQIO3(o3), *got)
		assert.Equal(t, max(*AQIPM25(pm), *AQIO3(o3)), *got)
	})

	t.Run("falls back to the defined side", func(t *testing.T) {
		got := AQIOverall(Float(10.0), nil)
		require.NotNil(t, got)
		assert.Equal(t, *AQIPM25(Float(10.0)), *got)

		got = AQIOverall(nil, Float(80.0))
		require.NotNil(t, got)
		assert.Equal(t, *AQIO3(Float(80.0)), *got)
	})

	t.Run("nil when both missing", func(t *testing.T) {
		assert.Nil(t, AQIOverall(nil, nil))
	})
}

func TestAQICategoryFromIndex(t *testing.T) {
	cases := []struct {
		aqi  *int
		want AQICategory
	}{
		{nil, AQIUnknown},
		{Int(0), AQIGood},
		{Int(50), AQIGood},
		{Int(51), AQIModerate},
		{Int(100), AQIModerate},
		{Int(150), AQIUnhealthyForSensitve},
		{Int(200), AQIUnhealthy},
		{Int(300), AQIVeryUnhealthy},
		{Int(301), AQIHazardous},
		{Int(500), AQIHazardous},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AQICategoryFromIndex(tc.aqi))
	}
}

func TestScoreFromAQI(t *testing.T) {
	assert.Equal(t, 0, ScoreFromAQI(nil))
	assert.Equal(t, 30, ScoreFromAQI(Int(150)))
	assert.Equal(t, 100, ScoreFromAQI(Int(500)))
	assert.Equal(t, 100, ScoreFromAQI(Int(800)), "clamped to 100")
}

func TestOzoneUgm3ToPPB(t *testing.T) {
	assert.Nil(t, OzoneUgm3ToPPB(nil))
	got := OzoneUgm3ToPPB(Float(120))
	require.NotNil(t, got)
	assert.Equal(t, 60.0, *got)
}
