package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/avelychko/heat-air-risk/internal/risk"
)

// OpenWeather pulls the hourly forecast from the OpenWeather One Call API.
// Requires an API key; without one the provider reports ErrUnavailable so
// the registry falls back. One Call covers 48 hours regardless of the
// requested horizon.
type OpenWeather struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
	retry   RetryPolicy
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeather(client *http.Client, apiKey string) *OpenWeather {
	return &OpenWeather{
		name:    "openweather",
		baseURL: "https://api.openweathermap.org/data/3.0/onecall",
		apiKey:  apiKey,
		client:  client,
		retry:   defaultRetryPolicy(),
		circuit: newBreaker("openweather"),
	}
}

func (p *OpenWeather) Name() string { return p.name }

func (p *OpenWeather) FetchWeather(ctx context.Context, loc Location, days int) (WeatherSeries, error) {
	if p.apiKey == "" {
		return WeatherSeries{}, fmt.Errorf("openweather: missing api key: %w", ErrUnavailable)
	}

	values := url.Values{}
	values.Set("lat", formatCoord(loc.Lat))
	values.Set("lon", formatCoord(loc.Lon))
	values.Set("exclude", "current,minutely,daily,alerts")
	values.Set("units", "metric")
	values.Set("appid", p.apiKey)

	var payload struct {
		TimezoneOffset int `json:"timezone_offset"`
		Hourly         []struct {
			Dt        int64    `json:"dt"`
			Temp      *float64 `json:"temp"`
			Humidity  *float64 `json:"humidity"`
			WindSpeed *float64 `json:"wind_speed"`
			Clouds    *float64 `json:"clouds"`
			UVI       *float64 `json:"uvi"`
		} `json:"hourly"`
	}

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.client, p.circuit, p.retry, u, nil, &payload); err != nil {
		return WeatherSeries{}, fmt.Errorf("openweather: %w", err)
	}

	tz := time.FixedZone("local", payload.TimezoneOffset)
	out := WeatherSeries{Source: p.name}
	for _, h := range payload.Hourly {
		ts := time.Unix(h.Dt, 0).In(tz).Format("2006-01-02T15:04")
		out.Times = append(out.Times, ts)
		out.TempC = append(out.TempC, h.Temp)
		out.RH = append(out.RH, h.Humidity)
		out.WindSpeed = append(out.WindSpeed, h.WindSpeed)
		// One Call has no shortwave radiation; approximate from the UV index
		// when present so downstream daily folds stay populated.
		out.Shortwave = append(out.Shortwave, uviToShortwave(h.UVI))
		out.Cloud = append(out.Cloud, h.Clouds)
	}
	return out, nil
}

// uviToShortwave converts a UV index into a rough global shortwave irradiance
// in W/m². UVI 10 corresponds to roughly 250 mW/m² erythemal, which tracks
// around 1000 W/m² broadband under clear sky.
func uviToShortwave(uvi *float64) *float64 {
	if uvi == nil {
		return nil
	}
	return risk.Float(*uvi * 100.0)
}
