package service

import (
	"context"
	"fmt"

	"github.com/avelychko/heat-air-risk/internal/provider"
	"github.com/avelychko/heat-air-risk/internal/risk"
)

// HourlyOptions shapes the fused hourly view.
type HourlyOptions struct {
	Days    int
	Weights *risk.Weights

	// Alert scan over the fused timeline. AlertHours <= 0 disables it.
	AlertMinTier risk.Tier
	AlertHours   int
}

// AlertView is the first sustained window at or above the requested tier.
type AlertView struct {
	Start   string    `json:"start"`
	End     string    `json:"end"`
	Hours   int       `json:"hours"`
	MinTier risk.Tier `json:"min_tier"`
}

// HourlyRiskView is the fused hourly timeline response.
type HourlyRiskView struct {
	Location        LocationView         `json:"location"`
	ProviderWeather string               `json:"provider_weather"`
	Weights         risk.Weights         `json:"weights"`
	Hours           int                  `json:"hours"`
	Timeline        []risk.TimelineEntry `json:"timeline"`
	Peak            *risk.TimelineEntry  `json:"peak,omitempty"`
	Alert           *AlertView           `json:"alert,omitempty"`
}

// HourlyRisk builds the fused hourly timeline: weather and air joined on
// timestamps, indices computed, tiers fused per hour.
func (s *Service) HourlyRisk(ctx context.Context, loc provider.Location, opts HourlyOptions) (HourlyRiskView, error) {
	days := clampInt(opts.Days, 1, maxAirDays)
	prefer := s.settings.Snapshot().ProviderPrefer

	wx, err := s.fetchWeather(ctx, loc, days, prefer)
	if err != nil {
		return HourlyRiskView{}, fmt.Errorf("hourly risk: %w", err)
	}
	air, err := s.fetchAir(ctx, loc, days)
	if err != nil {
		return HourlyRiskView{}, fmt.Errorf("hourly risk: %w", err)
	}

	weights := s.effectiveWeights(opts.Weights)
	timeline := risk.FuseHourly(mergeHourly(wx, air), weights)
	s.metrics.RiskComputationsTotal.WithLabelValues("hourly").Inc()

	view := HourlyRiskView{
		Location:        LocationView{Lat: loc.Lat, Lon: loc.Lon},
		ProviderWeather: wx.Source,
		Weights:         weights,
		Hours:           len(timeline),
		Timeline:        timeline,
		Peak:            risk.PeakEntry(timeline),
	}
	if opts.AlertHours > 0 {
		if w, ok := risk.FirstWindowAtOrAbove(timeline, opts.AlertMinTier, opts.AlertHours); ok {
			view.Alert = &AlertView{
				Start:   timeline[w.Start].Time,
				End:     timeline[w.End].Time,
				Hours:   w.End - w.Start + 1,
				MinTier: opts.AlertMinTier,
			}
		}
	}

	s.snapshots.Save("risk-hourly", loc.Lat, loc.Lon, view)
	return view, nil
}
