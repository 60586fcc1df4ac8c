// Package httpapi exposes the risk views over HTTP.
package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/kelvins/geocoder"

	"github.com/avelychko/heat-air-risk/internal/observability"
	"github.com/avelychko/heat-air-risk/internal/provider"
	"github.com/avelychko/heat-air-risk/internal/risk"
	"github.com/avelychko/heat-air-risk/internal/service"
	"github.com/avelychko/heat-air-risk/internal/settings"
)

var validate = validator.New()

// Handlers bundles the dependencies of the HTTP layer.
type Handlers struct {
	svc         *service.Service
	settings    *settings.Store
	metrics     *observability.Collector
	geocoderKey string

	// Status summary of what upstream credentials are present.
	env map[string]bool
}

// NewHandlers creates the handler set. env lists configured integrations for
// the status endpoint (key name -> configured).
func NewHandlers(svc *service.Service, st *settings.Store, metrics *observability.Collector, geocoderKey string, env map[string]bool) *Handlers {
	// The geocoder key lives in package state; set it once here rather than
	// per request.
	if geocoderKey != "" {
		geocoder.ApiKey = geocoderKey
	}
	return &Handlers{
		svc:         svc,
		settings:    st,
		metrics:     metrics,
		geocoderKey: geocoderKey,
		env:         env,
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, h *Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "heat-air-risk"})
	})
	app.Get("/metrics", h.metrics.Handler())

	v1 := app.Group("/api/v1")

	v1.Get("/risk/hourly", h.riskHourly)
	v1.Get("/risk/daily", h.riskDaily)
	v1.Get("/risk/heatwave", h.riskHeatwave)
	v1.Get("/risk/heat/hourly", h.heatHourly)
	v1.Get("/risk/heat/daily", h.heatDaily)

	v1.Get("/forecast/air/hourly", h.airHourly)
	v1.Get("/forecast/air/summary", h.airSummary)
	v1.Get("/forecast/daily", h.forecastDaily)

	v1.Get("/sources/aq/live", h.liveAir)

	v1.Get("/admin/config", h.adminConfigGet)
	v1.Post("/admin/config", h.adminConfigPost)
	v1.Get("/admin/status", h.adminStatus)
}

// coordsQuery is the resolved request location.
type coordsQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

// resolveLocation accepts either lat/lon or a city name to geocode.
func (h *Handlers) resolveLocation(c *fiber.Ctx) (provider.Location, error) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr == "" && lonStr == "" {
		city := c.Query("city")
		if city == "" {
			return provider.Location{}, errors.New("lat and lon (or city) query parameters are required")
		}
		if h.geocoderKey == "" {
			return provider.Location{}, errors.New("city lookup requires a configured geocoder key; pass lat and lon instead")
		}
		loc, err := geocoder.Geocoding(geocoder.Address{City: city})
		if err != nil {
			return provider.Location{}, errors.New("geocoding failed for city " + strconv.Quote(city))
		}
		return provider.Location{Lat: loc.Latitude, Lon: loc.Longitude}, nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return provider.Location{}, errors.New("invalid lat")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return provider.Location{}, errors.New("invalid lon")
	}

	q := coordsQuery{Lat: lat, Lon: lon}
	if err := validate.Struct(q); err != nil {
		return provider.Location{}, err
	}
	return provider.Location{Lat: q.Lat, Lon: q.Lon}, nil
}

// queryWeights parses optional per-request weight overrides. Missing halves
// fall back to the runtime settings.
func (h *Handlers) queryWeights(c *fiber.Ctx) (*risk.Weights, error) {
	heatStr := c.Query("w_heat")
	aqiStr := c.Query("w_aqi")
	if heatStr == "" && aqiStr == "" {
		return nil, nil
	}

	w := h.settings.Snapshot().Weights
	if heatStr != "" {
		v, err := strconv.ParseFloat(heatStr, 64)
		if err != nil || v < 0 || v > 1 {
			return nil, errors.New("w_heat must be a number within [0,1]")
		}
		w.Heat = v
	}
	if aqiStr != "" {
		v, err := strconv.ParseFloat(aqiStr, 64)
		if err != nil || v < 0 || v > 1 {
			return nil, errors.New("w_aqi must be a number within [0,1]")
		}
		w.AQI = v
	}
	return &w, nil
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func queryBool(c *fiber.Ctx, key string, def bool) bool {
	switch c.Query(key) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return def
	}
}

func (h *Handlers) riskHourly(c *fiber.Ctx) error {
	loc, err := h.resolveLocation(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	weights, err := h.queryWeights(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	opts := service.HourlyOptions{
		Days:    queryInt(c, "days", 2),
		Weights: weights,
	}
	if hours := queryInt(c, "alert_hours", 3); hours > 0 {
		opts.AlertHours = hours
		opts.AlertMinTier = risk.Tier(c.Query("alert_min_tier", string(risk.TierRisk)))
		if opts.AlertMinTier.Rank() == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "alert_min_tier must be one of safe, caution, risk, extreme")
		}
	}

	view, err := h.svc.HourlyRisk(c.Context(), loc, opts)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(view)
}

func (h *Handlers) riskDaily(c *fiber.Ctx) error {
	loc, err := h.resolveLocation(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	weights, err := h.queryWeights(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	view, err := h.svc.DailyRisk(c.Context(), loc, service.DailyOptions{
		DaysHourly: queryInt(c, "days_hourly", 5),
		ExtendDays: queryInt(c, "extend_days", 5),
		UseLive:    queryBool(c, "use_live", true),
		Weights:    weights,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(view)
}

func (h *Handlers) riskHeatwave(c *fiber.Ctx) error {
	loc, err := h.resolveLocation(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	weights, err := h.queryWeights(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	view, err := h.svc.HeatwaveAnalysis(c.Context(), loc, service.DailyOptions{
		DaysHourly: queryInt(c, "days_hourly", 5),
		ExtendDays: queryInt(c, "extend_days", 5),
		UseLive:    queryBool(c, "use_live", true),
		Weights:    weights,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(view)
}

func (h *Handlers) heatHourly(c *fiber.Ctx) error {
	loc, err := h.resolveLocation(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	view, err := h.svc.HeatHourly(c.Context(), loc, queryInt(c, "days", 5))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(view)
}

func (h *Handlers) heatDaily(c *fiber.Ctx) error {
	loc, err := h.resolveLocation(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	view, err := h.svc.HeatDaily(c.Context(), loc, queryInt(c, "days", 10))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(view)
}

func (h *Handlers) airHourly(c *fiber.Ctx) error {
	loc, err := h.resolveLocation(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	view, err := h.svc.AirHourly(c.Context(), loc, queryInt(c, "days", 5))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(view)
}

func (h *Handlers) airSummary(c *fiber.Ctx) error {
	loc, err := h.resolveLocation(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	view, err := h.svc.AirSummary(c.Context(), loc,
		queryInt(c, "aq_days", 5), queryInt(c, "extend_days", 5))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(view)
}

func (h *Handlers) forecastDaily(c *fiber.Ctx) error {
	loc, err := h.resolveLocation(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	source := c.Query("source", service.ForecastSourceForecast)
	if source != service.ForecastSourceForecast && source != service.ForecastSourcePower {
		return fiber.NewError(fiber.StatusBadRequest, "source must be forecast or power")
	}
	view, err := h.svc.DailyForecast(c.Context(), loc, queryInt(c, "days", 10), source)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(view)
}

func (h *Handlers) liveAir(c *fiber.Ctx) error {
	loc, err := h.resolveLocation(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	view, err := h.svc.LiveAir(c.Context(), loc)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(view)
}

func (h *Handlers) adminConfigGet(c *fiber.Ctx) error {
	return c.JSON(h.settings.Snapshot())
}

func (h *Handlers) adminConfigPost(c *fiber.Ctx) error {
	var patch settings.Patch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	updated, err := h.settings.Apply(patch)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(updated)
}

func (h *Handlers) adminStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"settings": h.settings.Snapshot(),
		"env":      h.env,
		"caches":   h.svc.CacheStats(),
	})
}
