package provider

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/avelychko/heat-air-risk/internal/risk"
)

// WAQI pulls the latest observation from the nearest WAQI ground station.
// The feed publishes AQI sub-indices, not concentrations; they are inverted
// through the breakpoint tables before entering the pipeline.
type WAQI struct {
	name    string
	baseURL string
	token   string
	client  *http.Client
	retry   RetryPolicy
	circuit *gobreaker.CircuitBreaker
}

func NewWAQI(client *http.Client, token string) *WAQI {
	return &WAQI{
		name:    "waqi",
		baseURL: "https://api.waqi.info",
		token:   token,
		client:  client,
		retry:   defaultRetryPolicy(),
		circuit: newBreaker("waqi"),
	}
}

func (p *WAQI) Name() string { return p.name }

func (p *WAQI) FetchLive(ctx context.Context, loc Location) (LiveObservation, error) {
	if p.token == "" {
		return LiveObservation{}, fmt.Errorf("waqi: missing token: %w", ErrUnavailable)
	}

	values := url.Values{}
	values.Set("token", p.token)
	u := fmt.Sprintf("%s/feed/geo:%s;%s/?%s",
		p.baseURL, formatCoord(loc.Lat), formatCoord(loc.Lon), values.Encode())

	var payload struct {
		Status string `json:"status"`
		Data   struct {
			City struct {
				Name string `json:"name"`
			} `json:"city"`
			Time struct {
				ISO string `json:"iso"`
			} `json:"time"`
			IAQI map[string]struct {
				V *float64 `json:"v"`
			} `json:"iaqi"`
		} `json:"data"`
	}

	if err := getJSON(ctx, p.client, p.circuit, p.retry, u, nil, &payload); err != nil {
		return LiveObservation{}, fmt.Errorf("waqi: %w", err)
	}
	if payload.Status != "ok" {
		return LiveObservation{}, fmt.Errorf("waqi: upstream status %q", payload.Status)
	}

	obs := LiveObservation{
		Source:  p.name,
		Station: payload.Data.City.Name,
		Time:    payload.Data.Time.ISO,
	}
	if pm, ok := payload.Data.IAQI["pm25"]; ok && pm.V != nil {
		obs.PM25 = risk.PM25FromAQI(risk.Int(int(math.Round(*pm.V))))
	}
	if o3, ok := payload.Data.IAQI["o3"]; ok && o3.V != nil {
		obs.O3PPB = risk.O3PPBFromAQI(risk.Int(int(math.Round(*o3.V))))
	}
	return obs, nil
}
