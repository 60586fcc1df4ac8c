package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avelychko/heat-air-risk/internal/provider"
	"github.com/avelychko/heat-air-risk/internal/risk"
)

// Daily forecast sources.
const (
	ForecastSourceForecast = "forecast" // hourly provider folded to days
	ForecastSourcePower    = "power"    // NASA POWER daily climatology
)

// DailyForecastView is the raw (non-fused) daily weather table.
type DailyForecastView struct {
	Location LocationView      `json:"location"`
	Source   string            `json:"source"`
	Days     []risk.WeatherDay `json:"days"`
}

// DailyForecast folds the hourly weather forecast to per-day aggregates with
// the raw risk score and heatwave flags, or serves NASA POWER dailies when
// the power source is requested.
func (s *Service) DailyForecast(ctx context.Context, loc provider.Location, days int, source string) (DailyForecastView, error) {
	days = clampInt(days, 1, maxWeatherDays)

	var rows []risk.WeatherDay
	var label string
	switch source {
	case ForecastSourcePower:
		series, err := s.fetchPowerDaily(ctx, loc, days)
		if err != nil {
			return DailyForecastView{}, err
		}
		rows = series
		label = ForecastSourcePower
	default:
		prefer := s.settings.Snapshot().ProviderPrefer
		wx, err := s.fetchWeather(ctx, loc, days, prefer)
		if err != nil {
			return DailyForecastView{}, fmt.Errorf("daily forecast: %w", err)
		}
		samples := mergeHourly(wx, provider.AirSeries{})
		rows = risk.FoldHourlyWeather(samples, wx.Source)
		label = wx.Source
	}

	risk.FlagHeatwaves(rows, heatwaveAbsHotC, heatwavePersistDays)
	s.metrics.RiskComputationsTotal.WithLabelValues("forecast-daily").Inc()

	return DailyForecastView{
		Location: LocationView{Lat: loc.Lat, Lon: loc.Lon},
		Source:   label,
		Days:     rows,
	}, nil
}

func (s *Service) fetchPowerDaily(ctx context.Context, loc provider.Location, days int) ([]risk.WeatherDay, error) {
	start := time.Now()
	series, err := s.sources.Daily(ctx, loc, days)
	s.metrics.RecordProviderFetch("nasa-power", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("daily forecast: %w", err)
	}

	rows := make([]risk.WeatherDay, 0, len(series.Dates))
	for i, date := range series.Dates {
		row := risk.WeatherDay{
			Date:      date,
			TMax:      at(series.TMax, i),
			TMin:      at(series.TMin, i),
			RH:        at(series.RH, i),
			WindMax:   at(series.WindMax, i),
			Shortwave: at(series.Shortwave, i),
			Cloud:     at(series.Cloud, i),
			Source:    series.Source,
		}
		row.RiskScore, row.RiskTier = risk.ScoreWeatherDay(row.TMax, row.RH)
		rows = append(rows, row)
	}
	return rows, nil
}

func at(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}
