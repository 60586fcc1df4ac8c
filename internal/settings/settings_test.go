package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelychko/heat-air-risk/internal/risk"
)

func TestStore_Defaults(t *testing.T) {
	s := NewStore(Runtime{Weights: risk.DefaultWeights})

	snap := s.Snapshot()
	assert.Equal(t, PreferAuto, snap.ProviderPrefer)
	assert.Equal(t, 0.6, snap.Weights.Heat)
	assert.Equal(t, 0.4, snap.Weights.AQI)
}

func TestStore_ApplyPartialPatch(t *testing.T) {
	s := NewStore(Runtime{ProviderPrefer: PreferAuto, Weights: risk.DefaultWeights})

	prefer := PreferOpenMeteo
	got, err := s.Apply(Patch{ProviderPrefer: &prefer})
	require.NoError(t, err)
	assert.Equal(t, PreferOpenMeteo, got.ProviderPrefer)
	assert.Equal(t, 0.6, got.Weights.Heat, "untouched fields survive")

	wh := 0.8
	got, err = s.Apply(Patch{WeightHeat: &wh})
	require.NoError(t, err)
	assert.Equal(t, 0.8, got.Weights.Heat)
	assert.Equal(t, PreferOpenMeteo, got.ProviderPrefer)
}

func TestStore_RejectsInvalidPatch(t *testing.T) {
	s := NewStore(Runtime{Weights: risk.DefaultWeights})

	bad := 1.5
	_, err := s.Apply(Patch{WeightHeat: &bad})
	require.Error(t, err)

	provider := "noaa"
	_, err = s.Apply(Patch{ProviderPrefer: &provider})
	require.Error(t, err)

	// A rejected patch must not change anything.
	snap := s.Snapshot()
	assert.Equal(t, 0.6, snap.Weights.Heat)
	assert.Equal(t, PreferAuto, snap.ProviderPrefer)
}
