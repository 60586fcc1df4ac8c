package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/avelychko/heat-air-risk/internal/risk"
)

// OpenMeteoAir pulls the hourly air-quality forecast from the Open-Meteo
// air-quality API. Ozone comes back in µg/m³ and is converted to ppb.
type OpenMeteoAir struct {
	name    string
	baseURL string
	client  *http.Client
	retry   RetryPolicy
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoAir(client *http.Client) *OpenMeteoAir {
	return &OpenMeteoAir{
		name:    "openmeteo-air",
		baseURL: "https://air-quality-api.open-meteo.com/v1/air-quality",
		client:  client,
		retry:   defaultRetryPolicy(),
		circuit: newBreaker("openmeteo-air"),
	}
}

func (p *OpenMeteoAir) Name() string { return p.name }

func (p *OpenMeteoAir) FetchAir(ctx context.Context, loc Location, days int) (AirSeries, error) {
	values := url.Values{}
	values.Set("latitude", formatCoord(loc.Lat))
	values.Set("longitude", formatCoord(loc.Lon))
	values.Set("hourly", "pm2_5,ozone")
	values.Set("forecast_days", strconv.Itoa(days))
	values.Set("timezone", "auto")

	var payload struct {
		Hourly struct {
			Time  []string   `json:"time"`
			PM25  []*float64 `json:"pm2_5"`
			Ozone []*float64 `json:"ozone"`
		} `json:"hourly"`
	}

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.client, p.circuit, p.retry, u, nil, &payload); err != nil {
		return AirSeries{}, fmt.Errorf("openmeteo air: %w", err)
	}

	o3 := make([]*float64, len(payload.Hourly.Ozone))
	for i, v := range payload.Hourly.Ozone {
		o3[i] = risk.OzoneUgm3ToPPB(v)
	}

	return AirSeries{
		Source: p.name,
		Times:  payload.Hourly.Time,
		PM25:   payload.Hourly.PM25,
		O3PPB:  o3,
	}, nil
}
