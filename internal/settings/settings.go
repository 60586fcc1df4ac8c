package settings

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/avelychko/heat-air-risk/internal/risk"
)

// Weather provider preference values.
const (
	PreferAuto        = "auto"
	PreferOpenMeteo   = "openmeteo"
	PreferOpenWeather = "openweather"
)

// Runtime is an immutable snapshot of the tunable settings. Entry points
// receive it by value so a request's computation never observes a mid-flight
// change.
type Runtime struct {
	ProviderPrefer string       `json:"weather_provider_prefer"`
	Weights        risk.Weights `json:"weights"`
}

// Patch is a partial update to the runtime settings. Nil fields are left
// unchanged. Weight bounds are enforced here, at the boundary; the fusion
// engine assumes pre-validated weights.
type Patch struct {
	ProviderPrefer *string  `json:"weather_provider_prefer,omitempty" validate:"omitempty,oneof=auto openmeteo openweather"`
	WeightHeat     *float64 `json:"weight_heat,omitempty" validate:"omitempty,gte=0,lte=1"`
	WeightAQI      *float64 `json:"weight_aqi,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Store holds the mutable runtime settings behind a lock.
type Store struct {
	mu       sync.RWMutex
	current  Runtime
	validate *validator.Validate
}

// NewStore creates a settings store with the given initial values.
func NewStore(initial Runtime) *Store {
	if initial.ProviderPrefer == "" {
		initial.ProviderPrefer = PreferAuto
	}
	return &Store{
		current:  initial,
		validate: validator.New(),
	}
}

// Snapshot returns the current settings by value.
func (s *Store) Snapshot() Runtime {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Apply validates the patch and merges it into the current settings,
// returning the resulting snapshot.
func (s *Store) Apply(p Patch) (Runtime, error) {
	if err := s.validate.Struct(p); err != nil {
		return Runtime{}, fmt.Errorf("invalid settings patch: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ProviderPrefer != nil {
		s.current.ProviderPrefer = *p.ProviderPrefer
	}
	if p.WeightHeat != nil {
		s.current.Weights.Heat = *p.WeightHeat
	}
	if p.WeightAQI != nil {
		s.current.Weights.AQI = *p.WeightAQI
	}
	// Weights deliberately need not sum to 1; callers own normalization.
	return s.current, nil
}
