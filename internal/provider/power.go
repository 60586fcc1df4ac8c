package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/sony/gobreaker"

	"github.com/avelychko/heat-air-risk/internal/risk"
)

// NASAPower pulls daily meteorology from the NASA POWER API. POWER serves
// climatological dailies rather than a forecast, so it backs the raw daily
// view when the hourly providers are down, not the risk pipeline.
type NASAPower struct {
	name    string
	baseURL string
	client  *http.Client
	retry   RetryPolicy
	circuit *gobreaker.CircuitBreaker
	now     func() time.Time
}

func NewNASAPower(client *http.Client) *NASAPower {
	return &NASAPower{
		name:    "nasa-power",
		baseURL: "https://power.larc.nasa.gov/api/temporal/daily/point",
		client:  client,
		retry:   defaultRetryPolicy(),
		circuit: newBreaker("nasa-power"),
		now:     time.Now,
	}
}

func (p *NASAPower) Name() string { return p.name }

func (p *NASAPower) FetchDaily(ctx context.Context, loc Location, days int) (DailySeries, error) {
	// POWER publishes with a few days of latency; ask for a window ending
	// yesterday so the tail is mostly populated.
	end := p.now().UTC().AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -(days - 1))

	values := url.Values{}
	values.Set("latitude", formatCoord(loc.Lat))
	values.Set("longitude", formatCoord(loc.Lon))
	values.Set("start", start.Format("20060102"))
	values.Set("end", end.Format("20060102"))
	values.Set("parameters", "T2M_MAX,T2M_MIN,RH2M,WS10M,ALLSKY_SFC_SW_DWN,CLOUD_AMT")
	values.Set("community", "RE")
	values.Set("format", "JSON")

	var payload struct {
		Properties struct {
			Parameter map[string]map[string]*float64 `json:"parameter"`
		} `json:"properties"`
	}

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.client, p.circuit, p.retry, u, nil, &payload); err != nil {
		return DailySeries{}, fmt.Errorf("nasa power: %w", err)
	}

	params := payload.Properties.Parameter
	dates := powerDates(params["T2M_MAX"])

	out := DailySeries{Source: p.name}
	for _, d := range dates {
		iso, err := time.Parse("20060102", d)
		if err != nil {
			continue
		}
		out.Dates = append(out.Dates, iso.Format("2006-01-02"))
		out.TMax = append(out.TMax, powerValue(params, "T2M_MAX", d))
		out.TMin = append(out.TMin, powerValue(params, "T2M_MIN", d))
		out.RH = append(out.RH, powerValue(params, "RH2M", d))
		out.WindMax = append(out.WindMax, powerValue(params, "WS10M", d))
		out.Shortwave = append(out.Shortwave, powerValue(params, "ALLSKY_SFC_SW_DWN", d))
		out.Cloud = append(out.Cloud, powerValue(params, "CLOUD_AMT", d))
	}
	return out, nil
}

func powerDates(series map[string]*float64) []string {
	dates := make([]string, 0, len(series))
	for d := range series {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// powerValue reads one parameter for one day, mapping POWER's -999 missing
// sentinel to nil.
func powerValue(params map[string]map[string]*float64, key, date string) *float64 {
	series, ok := params[key]
	if !ok {
		return nil
	}
	v := series[date]
	if v == nil || *v <= -998 {
		return nil
	}
	return risk.Float(*v)
}
