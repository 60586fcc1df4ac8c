package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"
)

// OpenMeteoWeather pulls the hourly weather forecast from the Open-Meteo
// forecast API. No API key required.
type OpenMeteoWeather struct {
	name    string
	baseURL string
	client  *http.Client
	retry   RetryPolicy
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoWeather(client *http.Client) *OpenMeteoWeather {
	return &OpenMeteoWeather{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		client:  client,
		retry:   defaultRetryPolicy(),
		circuit: newBreaker("openmeteo-weather"),
	}
}

func (p *OpenMeteoWeather) Name() string { return p.name }

func (p *OpenMeteoWeather) FetchWeather(ctx context.Context, loc Location, days int) (WeatherSeries, error) {
	values := url.Values{}
	values.Set("latitude", formatCoord(loc.Lat))
	values.Set("longitude", formatCoord(loc.Lon))
	values.Set("hourly", "temperature_2m,relative_humidity_2m,wind_speed_10m,shortwave_radiation,cloud_cover")
	values.Set("forecast_days", strconv.Itoa(days))
	values.Set("timezone", "auto")

	var payload struct {
		Hourly struct {
			Time         []string   `json:"time"`
			Temperature  []*float64 `json:"temperature_2m"`
			Humidity     []*float64 `json:"relative_humidity_2m"`
			WindSpeed    []*float64 `json:"wind_speed_10m"`
			Shortwave    []*float64 `json:"shortwave_radiation"`
			CloudCover   []*float64 `json:"cloud_cover"`
		} `json:"hourly"`
	}

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.client, p.circuit, p.retry, u, nil, &payload); err != nil {
		return WeatherSeries{}, fmt.Errorf("openmeteo weather: %w", err)
	}

	return WeatherSeries{
		Source:    p.name,
		Times:     payload.Hourly.Time,
		TempC:     payload.Hourly.Temperature,
		RH:        payload.Hourly.Humidity,
		WindSpeed: payload.Hourly.WindSpeed,
		Shortwave: payload.Hourly.Shortwave,
		Cloud:     payload.Hourly.CloudCover,
	}, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
