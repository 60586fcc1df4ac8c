package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/avelychko/heat-air-risk/internal/risk"
)

// OpenAQ pulls the latest reading from the nearest OpenAQ location. Used as
// the fallback live source when WAQI has no station nearby or no token is
// configured. Requires an API key.
type OpenAQ struct {
	name    string
	baseURL string
	apiKey  string
	radiusM int
	client  *http.Client
	retry   RetryPolicy
	circuit *gobreaker.CircuitBreaker
}

func NewOpenAQ(client *http.Client, apiKey string) *OpenAQ {
	return &OpenAQ{
		name:    "openaq",
		baseURL: "https://api.openaq.org/v3",
		apiKey:  apiKey,
		radiusM: 25000,
		client:  client,
		retry:   defaultRetryPolicy(),
		circuit: newBreaker("openaq"),
	}
}

func (p *OpenAQ) Name() string { return p.name }

type openAQLocation struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Sensors []struct {
		ID        int `json:"id"`
		Parameter struct {
			Name  string `json:"name"`
			Units string `json:"units"`
		} `json:"parameter"`
	} `json:"sensors"`
}

func (p *OpenAQ) FetchLive(ctx context.Context, loc Location) (LiveObservation, error) {
	if p.apiKey == "" {
		return LiveObservation{}, fmt.Errorf("openaq: missing api key: %w", ErrUnavailable)
	}
	header := http.Header{"X-API-Key": []string{p.apiKey}}

	values := url.Values{}
	values.Set("coordinates", fmt.Sprintf("%s,%s", formatCoord(loc.Lat), formatCoord(loc.Lon)))
	values.Set("radius", fmt.Sprintf("%d", p.radiusM))
	values.Set("limit", "1")

	var locPayload struct {
		Results []openAQLocation `json:"results"`
	}
	u := fmt.Sprintf("%s/locations?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.client, p.circuit, p.retry, u, header, &locPayload); err != nil {
		return LiveObservation{}, fmt.Errorf("openaq locations: %w", err)
	}
	if len(locPayload.Results) == 0 {
		return LiveObservation{}, fmt.Errorf("openaq: no station within %dm", p.radiusM)
	}
	station := locPayload.Results[0]

	var latest struct {
		Results []struct {
			SensorsID int      `json:"sensorsId"`
			Value     *float64 `json:"value"`
			Datetime  struct {
				Local string `json:"local"`
			} `json:"datetime"`
		} `json:"results"`
	}
	u = fmt.Sprintf("%s/locations/%d/latest", p.baseURL, station.ID)
	if err := getJSON(ctx, p.client, p.circuit, p.retry, u, header, &latest); err != nil {
		return LiveObservation{}, fmt.Errorf("openaq latest: %w", err)
	}

	obs := LiveObservation{Source: p.name, Station: station.Name}
	for _, r := range latest.Results {
		param, units := sensorParameter(station, r.SensorsID)
		switch param {
		case "pm25":
			obs.PM25 = r.Value
		case "o3":
			obs.O3PPB = normalizeOzone(r.Value, units)
		default:
			continue
		}
		if r.Datetime.Local > obs.Time {
			obs.Time = r.Datetime.Local
		}
	}
	return obs, nil
}

func sensorParameter(loc openAQLocation, sensorID int) (name, units string) {
	for _, s := range loc.Sensors {
		if s.ID == sensorID {
			return s.Parameter.Name, s.Parameter.Units
		}
	}
	return "", ""
}

// normalizeOzone converts an OpenAQ ozone value to ppb. Stations report in
// ppm, ppb, or µg/m³ depending on the network.
func normalizeOzone(v *float64, units string) *float64 {
	if v == nil {
		return nil
	}
	switch strings.ToLower(units) {
	case "ppm":
		return risk.Float(*v * 1000.0)
	case "ppb":
		return v
	default: // µg/m³ and friends
		return risk.OzoneUgm3ToPPB(v)
	}
}
