package provider

import (
	"context"
	"errors"
)

// Location is a WGS84 point passed to every upstream client.
type Location struct {
	Lat float64
	Lon float64
}

// WeatherSeries is an hourly weather forecast normalized across providers.
// All slices are index-aligned with Times; a nil element means the provider
// did not report that hour.
type WeatherSeries struct {
	Source    string
	Times     []string
	TempC     []*float64
	RH        []*float64
	WindSpeed []*float64
	Shortwave []*float64
	Cloud     []*float64
}

// AirSeries is an hourly air-quality forecast normalized across providers.
// Ozone is in ppb regardless of the upstream unit.
type AirSeries struct {
	Source string
	Times  []string
	PM25   []*float64
	O3PPB  []*float64
}

// DailySeries carries provider-native daily aggregates, used where an
// upstream reports per-day values directly instead of hourly ones.
type DailySeries struct {
	Source    string
	Dates     []string
	TMax      []*float64
	TMin      []*float64
	RH        []*float64
	WindMax   []*float64
	Shortwave []*float64
	Cloud     []*float64
}

// LiveObservation is the freshest ground-station reading near a location.
type LiveObservation struct {
	Source  string   `json:"source"`
	Station string   `json:"station"`
	Time    string   `json:"time"`
	PM25    *float64 `json:"pm25"`
	O3PPB   *float64 `json:"o3_ppb"`
}

// WeatherProvider fetches an hourly weather forecast.
type WeatherProvider interface {
	Name() string
	FetchWeather(ctx context.Context, loc Location, days int) (WeatherSeries, error)
}

// AirProvider fetches an hourly air-quality forecast.
type AirProvider interface {
	Name() string
	FetchAir(ctx context.Context, loc Location, days int) (AirSeries, error)
}

// LiveProvider fetches the latest ground-station observation.
type LiveProvider interface {
	Name() string
	FetchLive(ctx context.Context, loc Location) (LiveObservation, error)
}

// DailyProvider fetches provider-native daily aggregates.
type DailyProvider interface {
	Name() string
	FetchDaily(ctx context.Context, loc Location, days int) (DailySeries, error)
}

// ErrUnavailable marks a provider that cannot serve requests as configured,
// e.g. a missing API key. The registry skips such providers during fallback.
var ErrUnavailable = errors.New("provider unavailable")
