package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/avelychko/heat-air-risk/internal/provider"
	"github.com/avelychko/heat-air-risk/internal/risk"
)

// HeatHour is one hour of the heat-only view. Hours missing temperature or
// humidity are dropped rather than emitted with holes.
type HeatHour struct {
	Time  string    `json:"ts"`
	TempC float64   `json:"t_c"`
	RH    float64   `json:"rh_pct"`
	HIC   float64   `json:"hi_c"`
	WBGTC float64   `json:"wbgt_c"`
	Tier  risk.Tier `json:"tier"`
}

// HeatHourlyView is the heat-only hourly response.
type HeatHourlyView struct {
	Location LocationView `json:"location"`
	Provider string       `json:"provider"`
	Hours    int          `json:"hours"`
	Timeline []HeatHour   `json:"timeline"`
}

// HeatHourly computes heat index, WBGT and heat tier per forecast hour,
// ignoring air quality entirely.
func (s *Service) HeatHourly(ctx context.Context, loc provider.Location, days int) (HeatHourlyView, error) {
	days = clampInt(days, 1, maxWeatherDays)
	prefer := s.settings.Snapshot().ProviderPrefer

	wx, err := s.fetchWeather(ctx, loc, days, prefer)
	if err != nil {
		return HeatHourlyView{}, fmt.Errorf("heat hourly: %w", err)
	}

	view := HeatHourlyView{
		Location: LocationView{Lat: loc.Lat, Lon: loc.Lon},
		Provider: wx.Source,
	}
	for i, ts := range wx.Times {
		if i >= len(wx.TempC) || i >= len(wx.RH) || wx.TempC[i] == nil || wx.RH[i] == nil {
			continue
		}
		hi := risk.HeatIndexC(wx.TempC[i], wx.RH[i])
		wb := risk.WBGTShadeC(wx.TempC[i], wx.RH[i])
		view.Timeline = append(view.Timeline, HeatHour{
			Time:  ts,
			TempC: *wx.TempC[i],
			RH:    *wx.RH[i],
			HIC:   *hi,
			WBGTC: *wb,
			Tier:  risk.TierFromHeat(hi, wb),
		})
	}
	view.Hours = len(view.Timeline)
	s.metrics.RiskComputationsTotal.WithLabelValues("heat-hourly").Inc()
	return view, nil
}

// HeatDay reduces one day of heat hours: overnight minimum, peak heat index
// and peak WBGT, classified on the peaks.
type HeatDay struct {
	Date    string    `json:"date"`
	TMinC   float64   `json:"t_min_c"`
	HIMaxC  float64   `json:"hi_max_c"`
	WBGTMax float64   `json:"wbgt_max_c"`
	Tier    risk.Tier `json:"tier"`
}

// HeatDailyView is the heat-only daily response.
type HeatDailyView struct {
	Location LocationView `json:"location"`
	Provider string       `json:"provider"`
	Days     []HeatDay    `json:"days"`
}

// HeatDaily reduces the heat-only hourly view per calendar day.
func (s *Service) HeatDaily(ctx context.Context, loc provider.Location, days int) (HeatDailyView, error) {
	hourly, err := s.HeatHourly(ctx, loc, days)
	if err != nil {
		return HeatDailyView{}, err
	}

	type dayAgg struct {
		tMin, hiMax, wbMax float64
		seen               bool
	}
	byDay := make(map[string]*dayAgg)
	for _, h := range hourly.Timeline {
		if len(h.Time) < 10 {
			continue
		}
		d := h.Time[:10]
		agg, ok := byDay[d]
		if !ok {
			agg = &dayAgg{tMin: h.TempC, hiMax: h.HIC, wbMax: h.WBGTC, seen: true}
			byDay[d] = agg
			continue
		}
		agg.tMin = math.Min(agg.tMin, h.TempC)
		agg.hiMax = math.Max(agg.hiMax, h.HIC)
		agg.wbMax = math.Max(agg.wbMax, h.WBGTC)
	}

	dates := make([]string, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	view := HeatDailyView{Location: hourly.Location, Provider: hourly.Provider}
	for _, d := range dates {
		agg := byDay[d]
		view.Days = append(view.Days, HeatDay{
			Date:    d,
			TMinC:   round1(agg.tMin),
			HIMaxC:  round1(agg.hiMax),
			WBGTMax: round1(agg.wbMax),
			Tier:    risk.TierFromHeat(risk.Float(agg.hiMax), risk.Float(agg.wbMax)),
		})
	}
	return view, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
