package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avelychko/heat-air-risk/internal/settings"
)

// Registry holds the configured upstream clients and applies provider
// preference with fallback: a preferred provider that errors or is not
// configured hands over to the next one.
type Registry struct {
	weather []WeatherProvider
	air     AirProvider
	live    []LiveProvider
	daily   DailyProvider
}

// Keys carries the optional upstream credentials.
type Keys struct {
	OpenWeather string
	WAQI        string
	OpenAQ      string
}

// NewRegistry wires the default client set.
func NewRegistry(client *http.Client, keys Keys) *Registry {
	return &Registry{
		weather: []WeatherProvider{
			NewOpenMeteoWeather(client),
			NewOpenWeather(client, keys.OpenWeather),
		},
		air: NewOpenMeteoAir(client),
		live: []LiveProvider{
			NewWAQI(client, keys.WAQI),
			NewOpenAQ(client, keys.OpenAQ),
		},
		daily: NewNASAPower(client),
	}
}

// NewRegistryWith builds a registry from explicit clients, for tests.
func NewRegistryWith(weather []WeatherProvider, air AirProvider, live []LiveProvider, daily DailyProvider) *Registry {
	return &Registry{weather: weather, air: air, live: live, daily: daily}
}

// Weather fetches the hourly forecast from the preferred provider, falling
// back through the rest of the chain on failure.
func (r *Registry) Weather(ctx context.Context, loc Location, days int, prefer string) (WeatherSeries, error) {
	var errs []error
	for _, p := range r.orderedWeather(prefer) {
		series, err := p.FetchWeather(ctx, loc, days)
		if err == nil {
			return series, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
	}
	return WeatherSeries{}, fmt.Errorf("all weather providers failed: %w", errors.Join(errs...))
}

func (r *Registry) orderedWeather(prefer string) []WeatherProvider {
	if prefer == "" || prefer == settings.PreferAuto {
		return r.weather
	}
	ordered := make([]WeatherProvider, 0, len(r.weather))
	for _, p := range r.weather {
		if p.Name() == prefer {
			ordered = append(ordered, p)
		}
	}
	for _, p := range r.weather {
		if p.Name() != prefer {
			ordered = append(ordered, p)
		}
	}
	return ordered
}

// Air fetches the hourly air-quality forecast.
func (r *Registry) Air(ctx context.Context, loc Location, days int) (AirSeries, error) {
	return r.air.FetchAir(ctx, loc, days)
}

// Live fetches the freshest ground observation, trying each live source in
// order. Unconfigured sources are skipped silently.
func (r *Registry) Live(ctx context.Context, loc Location) (LiveObservation, error) {
	var errs []error
	for _, p := range r.live {
		obs, err := p.FetchLive(ctx, loc)
		if err == nil {
			return obs, nil
		}
		if !errors.Is(err, ErrUnavailable) {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	if len(errs) == 0 {
		return LiveObservation{}, fmt.Errorf("no live source configured: %w", ErrUnavailable)
	}
	return LiveObservation{}, fmt.Errorf("all live sources failed: %w", errors.Join(errs...))
}

// Daily fetches provider-native daily aggregates.
func (r *Registry) Daily(ctx context.Context, loc Location, days int) (DailySeries, error) {
	return r.daily.FetchDaily(ctx, loc, days)
}
