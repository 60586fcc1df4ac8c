package service

import (
	"context"
	"fmt"

	"github.com/avelychko/heat-air-risk/internal/provider"
	"github.com/avelychko/heat-air-risk/internal/risk"
)

// AirHour is one hour of the raw air-quality view with its AQI bundle.
type AirHour struct {
	Time  string         `json:"ts"`
	PM25  *float64       `json:"pm25_ugm3"`
	O3PPB *float64       `json:"o3_ppb"`
	AQI   risk.AQIDetail `json:"aqi"`
}

// AirHourlyView is the hourly air-quality forecast response.
type AirHourlyView struct {
	Location LocationView `json:"location"`
	Source   string       `json:"source"`
	Hours    []AirHour    `json:"hours"`
}

// AirHourly returns the raw hourly AQ forecast with per-hour AQI bundles.
func (s *Service) AirHourly(ctx context.Context, loc provider.Location, days int) (AirHourlyView, error) {
	days = clampInt(days, 1, maxAirDays)
	air, err := s.fetchAir(ctx, loc, days)
	if err != nil {
		return AirHourlyView{}, fmt.Errorf("air hourly: %w", err)
	}

	view := AirHourlyView{
		Location: LocationView{Lat: loc.Lat, Lon: loc.Lon},
		Source:   air.Source,
	}
	for i, ts := range air.Times {
		var pm, o3 *float64
		if i < len(air.PM25) {
			pm = air.PM25[i]
		}
		if i < len(air.O3PPB) {
			o3 = air.O3PPB[i]
		}
		view.Hours = append(view.Hours, AirHour{
			Time:  ts,
			PM25:  pm,
			O3PPB: o3,
			AQI:   risk.AQIBundle(pm, o3),
		})
	}
	return view, nil
}

// AirDay is one day of the AQ summary. Forecast days carry high confidence;
// extension days are decay-extrapolated and marked low.
type AirDay struct {
	Date       string         `json:"date"`
	Source     string         `json:"source"`
	Confidence string         `json:"confidence"`
	PM25       *float64       `json:"pm25_ugm3"`
	O3PPB      *float64       `json:"o3_ppb"`
	AQI        risk.AQIDetail `json:"aqi"`
}

// AirSummaryView is the daily AQ summary response.
type AirSummaryView struct {
	Location LocationView `json:"location"`
	Days     []AirDay     `json:"days"`
}

// AirSummary rolls the hourly AQ forecast to daily means and, when asked,
// extends the table past the provider horizon by exponential decay of the
// last forecast day with bounded meteorological adjustments.
func (s *Service) AirSummary(ctx context.Context, loc provider.Location, aqDays, extendDays int) (AirSummaryView, error) {
	days, err := s.airDays(ctx, loc, aqDays, extendDays)
	if err != nil {
		return AirSummaryView{}, err
	}
	return AirSummaryView{
		Location: LocationView{Lat: loc.Lat, Lon: loc.Lon},
		Days:     days,
	}, nil
}

func (s *Service) airDays(ctx context.Context, loc provider.Location, aqDays, extendDays int) ([]AirDay, error) {
	aqDays = clampInt(aqDays, 1, maxAirDays)
	extendDays = clampInt(extendDays, 0, maxAirDays)

	air, err := s.fetchAir(ctx, loc, aqDays)
	if err != nil {
		return nil, fmt.Errorf("air summary: %w", err)
	}

	pm25Daily := risk.DailyMean(risk.GroupSeriesByDay(air.Times, air.PM25))
	o3Daily := risk.DailyMean(risk.GroupSeriesByDay(air.Times, air.O3PPB))
	forecastDates := risk.SortedDays(pm25Daily, o3Daily)

	out := make([]AirDay, 0, len(forecastDates)+extendDays)
	for _, d := range forecastDates {
		pm := pm25Daily[d]
		o3 := o3Daily[d]
		out = append(out, AirDay{
			Date:       d,
			Source:     air.Source,
			Confidence: risk.ConfidenceHigh,
			PM25:       pm,
			O3PPB:      o3,
			AQI:        risk.AQIBundle(pm, o3),
		})
	}
	if extendDays == 0 || len(forecastDates) == 0 {
		return out, nil
	}

	ext, err := s.extendAirDays(ctx, loc, forecastDates, pm25Daily, o3Daily, aqDays, extendDays)
	if err != nil {
		return nil, err
	}
	return append(out, ext...), nil
}

// extendAirDays builds the low-confidence tail: decay from the last forecast
// day, nudged by each extension day's TMAX and mean wind relative to the last
// forecast day's values.
func (s *Service) extendAirDays(
	ctx context.Context,
	loc provider.Location,
	forecastDates []string,
	pm25Daily, o3Daily map[string]*float64,
	aqDays, extendDays int,
) ([]AirDay, error) {
	prefer := s.settings.Snapshot().ProviderPrefer
	wxDays := aqDays + extendDays
	if wxDays > maxWeatherDays {
		wxDays = maxWeatherDays
	}
	wx, err := s.fetchWeather(ctx, loc, wxDays, prefer)
	if err != nil {
		return nil, fmt.Errorf("air summary extension: %w", err)
	}

	tmaxDaily := risk.DailyMax(risk.GroupSeriesByDay(wx.Times, wx.TempC))
	windDaily := risk.DailyMean(risk.GroupSeriesByDay(wx.Times, wx.WindSpeed))
	wxDates := risk.SortedDays(tmaxDaily)

	lastDate := forecastDates[len(forecastDates)-1]
	refTmax := fallbackRefTmax
	if v := tmaxDaily[lastDate]; v != nil {
		refTmax = *v
	}
	refWind := fallbackRefWind
	if v := windDaily[lastDate]; v != nil {
		refWind = *v
	}

	pmDecay := risk.DecayExtrapolate(pm25Daily[lastDate], extendDays, decayHalfLifeDays)
	o3Decay := risk.DecayExtrapolate(o3Daily[lastDate], extendDays, decayHalfLifeDays)

	lastIdx := indexOf(wxDates, lastDate)
	out := make([]AirDay, 0, extendDays)
	for i := 0; i < extendDays; i++ {
		date := fmt.Sprintf("+%dd", i+1)
		if lastIdx >= 0 && lastIdx+i+1 < len(wxDates) {
			date = wxDates[lastIdx+i+1]
		}

		tmax := refTmax
		if v := tmaxDaily[date]; v != nil {
			tmax = *v
		}
		wind := refWind
		if v := windDaily[date]; v != nil {
			wind = *v
		}

		pm := risk.AdjustPM25(pmDecay[i], tmax, refTmax, wind, refWind)
		o3 := risk.AdjustO3(o3Decay[i], tmax, refTmax, wind, refWind)

		out = append(out, AirDay{
			Date:       date,
			Source:     "extrapolated (decay + met adjustment)",
			Confidence: risk.ConfidenceLow,
			PM25:       pm,
			O3PPB:      o3,
			AQI:        risk.AQIBundle(pm, o3),
		})
	}
	return out, nil
}

func indexOf(haystack []string, needle string) int {
	for i, v := range haystack {
		if v == needle {
			return i
		}
	}
	return -1
}
