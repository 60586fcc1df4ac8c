package service

import (
	"context"

	"github.com/avelychko/heat-air-risk/internal/provider"
	"github.com/avelychko/heat-air-risk/internal/risk"
)

// HeatwaveView is the spell analysis over the unified daily table.
type HeatwaveView struct {
	Location  LocationView    `json:"location"`
	Weights   risk.Weights    `json:"weights"`
	Days      []risk.DailyRow `json:"days"`
	Spells    []risk.Spell    `json:"spells"`
	Narrative string          `json:"narrative"`
}

// HeatwaveAnalysis runs the daily pipeline and scans the result for
// sustained spells of at least three consecutive risk-or-worse days.
func (s *Service) HeatwaveAnalysis(ctx context.Context, loc provider.Location, opts DailyOptions) (HeatwaveView, error) {
	daily, err := s.DailyRisk(ctx, loc, opts)
	if err != nil {
		return HeatwaveView{}, err
	}

	spells := risk.FindSpells(daily.Days, spellMinDays)
	s.metrics.RiskComputationsTotal.WithLabelValues("heatwave").Inc()

	view := HeatwaveView{
		Location:  daily.Location,
		Weights:   daily.Weights,
		Days:      daily.Days,
		Spells:    spells,
		Narrative: risk.Narrative(spells),
	}
	s.snapshots.Save("heatwave", loc.Lat, loc.Lon, view)
	return view, nil
}
