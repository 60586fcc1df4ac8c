// Package service orchestrates provider fetches and the risk fusion pipeline
// behind the HTTP layer.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avelychko/heat-air-risk/internal/cache"
	"github.com/avelychko/heat-air-risk/internal/observability"
	"github.com/avelychko/heat-air-risk/internal/provider"
	"github.com/avelychko/heat-air-risk/internal/risk"
	"github.com/avelychko/heat-air-risk/internal/settings"
	"github.com/avelychko/heat-air-risk/internal/snapshot"
)

// Pipeline constants. Horizons follow the upstream APIs: hourly air quality
// is reliable for five days, weather for ten.
const (
	maxAirDays     = 5
	maxWeatherDays = 10

	decayHalfLifeDays = 3.0
	fallbackRefTmax   = 30.0
	fallbackRefWind   = 2.0

	heatwaveAbsHotC     = 40.0
	heatwavePersistDays = 2
	spellMinDays        = 3
)

// Sources is the slice of the provider registry the service consumes.
type Sources interface {
	Weather(ctx context.Context, loc provider.Location, days int, prefer string) (provider.WeatherSeries, error)
	Air(ctx context.Context, loc provider.Location, days int) (provider.AirSeries, error)
	Live(ctx context.Context, loc provider.Location) (provider.LiveObservation, error)
	Daily(ctx context.Context, loc provider.Location, days int) (provider.DailySeries, error)
}

// Service wires sources, runtime settings, caches, metrics and snapshot
// persistence into the risk views.
type Service struct {
	sources   Sources
	settings  *settings.Store
	metrics   *observability.Collector
	snapshots *snapshot.Writer

	weatherCache *cache.TTL[provider.WeatherSeries]
	airCache     *cache.TTL[provider.AirSeries]
}

// New creates a Service. snapshots may be nil when persistence is not
// configured.
func New(sources Sources, st *settings.Store, metrics *observability.Collector, snapshots *snapshot.Writer, cacheTTL time.Duration) *Service {
	return &Service{
		sources:      sources,
		settings:     st,
		metrics:      metrics,
		snapshots:    snapshots,
		weatherCache: cache.New[provider.WeatherSeries](cacheTTL, 256),
		airCache:     cache.New[provider.AirSeries](cacheTTL, 256),
	}
}

// LocationView echoes the requested coordinate in responses.
type LocationView struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (s *Service) fetchWeather(ctx context.Context, loc provider.Location, days int, prefer string) (provider.WeatherSeries, error) {
	key := fmt.Sprintf("%.4f,%.4f,%d,%s", loc.Lat, loc.Lon, days, prefer)
	if series, ok := s.weatherCache.Get(key); ok {
		s.metrics.CacheHits.WithLabelValues("weather").Inc()
		return series, nil
	}
	s.metrics.CacheMisses.WithLabelValues("weather").Inc()

	start := time.Now()
	series, err := s.sources.Weather(ctx, loc, days, prefer)
	name := series.Source
	if name == "" {
		name = "weather"
	}
	s.metrics.RecordProviderFetch(name, time.Since(start), err)
	if err != nil {
		return provider.WeatherSeries{}, err
	}
	s.weatherCache.Set(key, series)
	return series, nil
}

func (s *Service) fetchAir(ctx context.Context, loc provider.Location, days int) (provider.AirSeries, error) {
	key := fmt.Sprintf("%.4f,%.4f,%d", loc.Lat, loc.Lon, days)
	if series, ok := s.airCache.Get(key); ok {
		s.metrics.CacheHits.WithLabelValues("air").Inc()
		return series, nil
	}
	s.metrics.CacheMisses.WithLabelValues("air").Inc()

	start := time.Now()
	series, err := s.sources.Air(ctx, loc, days)
	name := series.Source
	if name == "" {
		name = "air"
	}
	s.metrics.RecordProviderFetch(name, time.Since(start), err)
	if err != nil {
		return provider.AirSeries{}, err
	}
	s.airCache.Set(key, series)
	return series, nil
}

// mergeHourly joins a weather and an air series on their hourly timestamps.
// The weather timeline is the backbone; air values attach where the
// timestamps line up and stay nil elsewhere.
func mergeHourly(w provider.WeatherSeries, a provider.AirSeries) []risk.HourlySample {
	type airPoint struct {
		pm25 *float64
		o3   *float64
	}
	airByTime := make(map[string]airPoint, len(a.Times))
	for i, ts := range a.Times {
		p := airPoint{}
		if i < len(a.PM25) {
			p.pm25 = a.PM25[i]
		}
		if i < len(a.O3PPB) {
			p.o3 = a.O3PPB[i]
		}
		airByTime[ts] = p
	}

	samples := make([]risk.HourlySample, 0, len(w.Times))
	for i, ts := range w.Times {
		s := risk.HourlySample{Time: ts}
		if i < len(w.TempC) {
			s.TempC = w.TempC[i]
		}
		if i < len(w.RH) {
			s.RH = w.RH[i]
		}
		if i < len(w.WindSpeed) {
			s.WindSpeed = w.WindSpeed[i]
		}
		if i < len(w.Shortwave) {
			s.Shortwave = w.Shortwave[i]
		}
		if i < len(w.Cloud) {
			s.Cloud = w.Cloud[i]
		}
		if p, ok := airByTime[ts]; ok {
			s.PM25 = p.pm25
			s.O3PPB = p.o3
		}
		samples = append(samples, s)
	}
	return samples
}

// effectiveWeights resolves per-request weight overrides against the runtime
// settings. Overrides are assumed validated at the boundary.
func (s *Service) effectiveWeights(override *risk.Weights) risk.Weights {
	if override != nil {
		return *override
	}
	return s.settings.Snapshot().Weights
}

// CacheStats reports per-cache counters for the status endpoint.
func (s *Service) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"weather": s.weatherCache.Stats(),
		"air":     s.airCache.Stats(),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
