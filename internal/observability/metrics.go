// Package observability holds the Prometheus instrumentation shared across
// the service.
package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the service metrics.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ProviderFetchesTotal *prometheus.CounterVec
	ProviderFetchSeconds *prometheus.HistogramVec

	RiskComputationsTotal *prometheus.CounterVec
	LiveOverridesTotal    prometheus.Counter

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	SnapshotErrorsTotal prometheus.Counter
}

// NewCollector registers all metrics on a private registry so tests can
// create collectors independently.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method, and status",
			},
			[]string{"route", "method", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by route",
				Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"route"},
		),

		ProviderFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_fetches_total",
				Help:      "Upstream fetches by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),

		ProviderFetchSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_fetch_duration_seconds",
				Help:      "Upstream fetch duration in seconds by provider",
				Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
			[]string{"provider"},
		),

		RiskComputationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "risk_computations_total",
				Help:      "Risk pipeline runs by view",
			},
			[]string{"view"},
		),

		LiveOverridesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "live_overrides_total",
				Help:      "Daily rows replaced by a fresher ground observation",
			},
		),

		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Cache hits by cache name",
			},
			[]string{"cache"},
		),

		CacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Cache misses by cache name",
			},
			[]string{"cache"},
		),

		SnapshotErrorsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_errors_total",
				Help:      "Failed background snapshot writes",
			},
		),
	}
}

// RecordProviderFetch records one upstream call.
func (c *Collector) RecordProviderFetch(provider string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.ProviderFetchesTotal.WithLabelValues(provider, outcome).Inc()
	c.ProviderFetchSeconds.WithLabelValues(provider).Observe(d.Seconds())
}

// Middleware instruments every HTTP request. Route templates keep the
// cardinality bounded.
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		route := ctx.Route().Path
		status := ctx.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		c.HTTPRequestsTotal.WithLabelValues(route, ctx.Method(), strconv.Itoa(status)).Inc()
		c.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the scrape endpoint for this collector's registry.
func (c *Collector) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
}
