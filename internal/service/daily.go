package service

import (
	"context"
	"fmt"

	"github.com/avelychko/heat-air-risk/internal/provider"
	"github.com/avelychko/heat-air-risk/internal/risk"
)

// DailyOptions shapes the unified daily risk table.
type DailyOptions struct {
	DaysHourly int
	ExtendDays int
	UseLive    bool
	Weights    *risk.Weights
}

// LiveOverrideView reports what happened to the day-1 live override, so a
// missing station is distinguishable from an override that was applied.
type LiveOverrideView struct {
	Applied bool   `json:"applied"`
	Source  string `json:"source,omitempty"`
	Station string `json:"station,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// DailyRiskView is the unified daily risk table response.
type DailyRiskView struct {
	Location        LocationView      `json:"location"`
	ProviderWeather string            `json:"provider_weather"`
	Weights         risk.Weights      `json:"weights"`
	LiveOverride    *LiveOverrideView `json:"live_override,omitempty"`
	Days            []risk.DailyRow   `json:"days"`
}

// DailyRisk builds the unified table: fused hourly risk reduced per day at
// high confidence, optionally overridden on day 1 by a live station reading,
// then extended past the forecast horizon with low-confidence decay rows.
func (s *Service) DailyRisk(ctx context.Context, loc provider.Location, opts DailyOptions) (DailyRiskView, error) {
	daysHourly := clampInt(opts.DaysHourly, 1, maxAirDays)
	extendDays := clampInt(opts.ExtendDays, 0, maxAirDays)
	prefer := s.settings.Snapshot().ProviderPrefer
	weights := s.effectiveWeights(opts.Weights)

	wx, err := s.fetchWeather(ctx, loc, daysHourly, prefer)
	if err != nil {
		return DailyRiskView{}, fmt.Errorf("daily risk: %w", err)
	}
	air, err := s.fetchAir(ctx, loc, daysHourly)
	if err != nil {
		return DailyRiskView{}, fmt.Errorf("daily risk: %w", err)
	}

	timeline := risk.FuseHourly(mergeHourly(wx, air), weights)
	rows := risk.DailyRowsFromTimeline(timeline)
	s.metrics.RiskComputationsTotal.WithLabelValues("daily").Inc()

	view := DailyRiskView{
		Location:        LocationView{Lat: loc.Lat, Lon: loc.Lon},
		ProviderWeather: wx.Source,
		Weights:         weights,
	}

	if opts.UseLive && len(rows) > 0 {
		view.LiveOverride = s.overrideDayOne(ctx, loc, rows)
	}

	if extendDays > 0 {
		extension, extErr := s.airDays(ctx, loc, daysHourly, extendDays)
		if extErr != nil {
			return DailyRiskView{}, fmt.Errorf("daily risk: %w", extErr)
		}
		for _, d := range extension {
			if d.Confidence != risk.ConfidenceLow {
				continue
			}
			// Extension days carry air-quality risk only; the heat dimension
			// has no forecast there.
			rows = append(rows, risk.DailyRow{
				Date:       d.Date,
				Score:      risk.Int(risk.ScoreFromAQI(d.AQI.Overall)),
				Tier:       d.AQI.Category.HazardTier(),
				Confidence: risk.ConfidenceLow,
			})
		}
	}

	view.Days = rows
	s.snapshots.Save("risk-daily", loc.Lat, loc.Lon, view)
	return view, nil
}

// overrideDayOne replaces the first row with a recomputation from the live
// station reading when one is available. Failures are reported, never fatal.
func (s *Service) overrideDayOne(ctx context.Context, loc provider.Location, rows []risk.DailyRow) *LiveOverrideView {
	obs, err := s.sources.Live(ctx, loc)
	if err != nil {
		return &LiveOverrideView{Applied: false, Reason: err.Error()}
	}
	if obs.PM25 == nil && obs.O3PPB == nil {
		return &LiveOverrideView{
			Applied: false,
			Source:  obs.Source,
			Station: obs.Station,
			Reason:  "station reported no usable pollutant values",
		}
	}

	rows[0] = risk.BlendDayWithLive(rows[0], risk.LiveReading{
		Station: obs.Station,
		Time:    obs.Time,
		PM25:    obs.PM25,
		O3PPB:   obs.O3PPB,
	})
	s.metrics.LiveOverridesTotal.Inc()
	return &LiveOverrideView{Applied: true, Source: obs.Source, Station: obs.Station}
}

// LiveAirView is the live station reading with its computed AQI bundle.
type LiveAirView struct {
	Location LocationView             `json:"location"`
	Reading  provider.LiveObservation `json:"reading"`
	AQI      risk.AQIDetail           `json:"aqi"`
}

// LiveAir fetches the freshest ground observation near the location.
func (s *Service) LiveAir(ctx context.Context, loc provider.Location) (LiveAirView, error) {
	obs, err := s.sources.Live(ctx, loc)
	if err != nil {
		return LiveAirView{}, fmt.Errorf("live air: %w", err)
	}
	return LiveAirView{
		Location: LocationView{Lat: loc.Lat, Lon: loc.Lon},
		Reading:  obs,
		AQI:      risk.AQIBundle(obs.PM25, obs.O3PPB),
	}, nil
}
