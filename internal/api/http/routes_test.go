package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kelvins/geocoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelychko/heat-air-risk/internal/observability"
	"github.com/avelychko/heat-air-risk/internal/provider"
	"github.com/avelychko/heat-air-risk/internal/risk"
	"github.com/avelychko/heat-air-risk/internal/service"
	"github.com/avelychko/heat-air-risk/internal/settings"
)

type stubSources struct{}

func (stubSources) Weather(_ context.Context, _ provider.Location, days int, _ string) (provider.WeatherSeries, error) {
	base, _ := time.Parse("2006-01-02", "2026-07-01")
	n := days * 24
	s := provider.WeatherSeries{Source: "openmeteo"}
	for i := 0; i < n; i++ {
		s.Times = append(s.Times, base.Add(time.Duration(i)*time.Hour).Format("2006-01-02T15:04"))
		s.TempC = append(s.TempC, risk.Float(34.0))
		s.RH = append(s.RH, risk.Float(50.0))
		s.WindSpeed = append(s.WindSpeed, risk.Float(2.0))
	}
	return s, nil
}

func (stubSources) Air(_ context.Context, _ provider.Location, days int) (provider.AirSeries, error) {
	base, _ := time.Parse("2006-01-02", "2026-07-01")
	n := days * 24
	s := provider.AirSeries{Source: "openmeteo-air"}
	for i := 0; i < n; i++ {
		s.Times = append(s.Times, base.Add(time.Duration(i)*time.Hour).Format("2006-01-02T15:04"))
		s.PM25 = append(s.PM25, risk.Float(15.0))
		s.O3PPB = append(s.O3PPB, risk.Float(40.0))
	}
	return s, nil
}

func (stubSources) Live(context.Context, provider.Location) (provider.LiveObservation, error) {
	return provider.LiveObservation{
		Source:  "waqi",
		Station: "Test Station",
		PM25:    risk.Float(20.0),
		O3PPB:   risk.Float(30.0),
	}, nil
}

func (stubSources) Daily(context.Context, provider.Location, int) (provider.DailySeries, error) {
	return provider.DailySeries{
		Source: "nasa-power",
		Dates:  []string{"2026-06-30"},
		TMax:   []*float64{risk.Float(35.0)},
		RH:     []*float64{risk.Float(40.0)},
	}, nil
}

func newTestApp() *fiber.App {
	st := settings.NewStore(settings.Runtime{Weights: risk.DefaultWeights})
	metrics := observability.NewCollector("test")
	svc := service.New(stubSources{}, st, metrics, nil, time.Minute)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": true, "message": err.Error()})
		},
	})
	RegisterRoutes(app, NewHandlers(svc, st, metrics, "", map[string]bool{"waqi": true}))
	return app
}

func TestNewHandlers_ConfiguresGeocoderOnce(t *testing.T) {
	st := settings.NewStore(settings.Runtime{Weights: risk.DefaultWeights})
	metrics := observability.NewCollector("test_geocoder")
	svc := service.New(stubSources{}, st, metrics, nil, time.Minute)

	prev := geocoder.ApiKey
	t.Cleanup(func() { geocoder.ApiKey = prev })

	NewHandlers(svc, st, metrics, "configured-key", nil)
	assert.Equal(t, "configured-key", geocoder.ApiKey)

	// An empty key leaves whatever was configured before untouched.
	NewHandlers(svc, st, metrics, "", nil)
	assert.Equal(t, "configured-key", geocoder.ApiKey)
}

func TestHealth(t *testing.T) {
	app := newTestApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLocationValidation(t *testing.T) {
	app := newTestApp()

	t.Run("missing coordinates", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/risk/daily", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/risk/daily?lat=120&lon=0", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("city without geocoder key", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/risk/daily?city=London", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRiskDaily(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/risk/daily?lat=51.5&lon=-0.12&days_hourly=2&extend_days=2", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		ProviderWeather string `json:"provider_weather"`
		LiveOverride    *struct {
			Applied bool   `json:"applied"`
			Station string `json:"station"`
		} `json:"live_override"`
		Days []struct {
			Date       string `json:"date"`
			Confidence string `json:"confidence"`
		} `json:"days"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "openmeteo", body.ProviderWeather)
	require.NotNil(t, body.LiveOverride)
	assert.True(t, body.LiveOverride.Applied)
	assert.Equal(t, "Test Station", body.LiveOverride.Station)
	require.Len(t, body.Days, 4)
	assert.Equal(t, "2026-07-01", body.Days[0].Date)
	assert.Equal(t, "low", body.Days[3].Confidence)
}

func TestRiskHourly_WeightsValidation(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/api/v1/risk/hourly?lat=51.5&lon=-0.12&w_heat=1.7", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet,
		"/api/v1/risk/hourly?lat=51.5&lon=-0.12&alert_min_tier=spicy", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForecastDaily_SourceValidation(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/api/v1/forecast/daily?lat=51.5&lon=-0.12&source=crystal-ball", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet,
		"/api/v1/forecast/daily?lat=51.5&lon=-0.12&source=power", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminConfig(t *testing.T) {
	app := newTestApp()

	t.Run("read current settings", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/config", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body settings.Runtime
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 0.6, body.Weights.Heat)
	})

	t.Run("patch and read back", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/config",
			strings.NewReader(`{"weight_heat":0.8,"weather_provider_prefer":"openweather"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body settings.Runtime
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 0.8, body.Weights.Heat)
		assert.Equal(t, settings.PreferOpenWeather, body.ProviderPrefer)
	})

	t.Run("invalid patch is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/config",
			strings.NewReader(`{"weight_aqi":3.0}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAdminStatus(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/status", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Env    map[string]bool `json:"env"`
		Caches map[string]struct {
			Size int `json:"size"`
		} `json:"caches"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Env["waqi"])
	assert.Contains(t, body.Caches, "weather")
	assert.Contains(t, body.Caches, "air")
}
