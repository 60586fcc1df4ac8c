package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/avelychko/heat-air-risk/internal/api/http"
	"github.com/avelychko/heat-air-risk/internal/config"
	"github.com/avelychko/heat-air-risk/internal/observability"
	"github.com/avelychko/heat-air-risk/internal/provider"
	"github.com/avelychko/heat-air-risk/internal/scheduler"
	"github.com/avelychko/heat-air-risk/internal/service"
	"github.com/avelychko/heat-air-risk/internal/settings"
	"github.com/avelychko/heat-air-risk/internal/snapshot"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	registry := provider.NewRegistry(httpClient, provider.Keys{
		OpenWeather: cfg.OpenWeatherAPIKey,
		WAQI:        cfg.WAQIToken,
		OpenAQ:      cfg.OpenAQAPIKey,
	})

	settingsStore := settings.NewStore(settings.Runtime{Weights: cfg.Weights})
	metrics := observability.NewCollector("heat_air_risk")

	// Snapshot persistence is optional; without Redis it is a no-op.
	var snapshots *snapshot.Writer
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		snapshots = snapshot.NewWriter(rdb, cfg.SnapshotTTL, metrics.SnapshotErrorsTotal.Inc)
	}

	svc := service.New(registry, settingsStore, metrics, snapshots, cfg.CacheTTL)

	// Scheduler keeps the configured locations warm.
	sched := scheduler.New(cfg.Locations, cfg.WarmInterval, svc)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "heat-air-risk",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(metrics.Middleware())

	env := map[string]bool{
		"openweather": cfg.OpenWeatherAPIKey != "",
		"waqi":        cfg.WAQIToken != "",
		"openaq":      cfg.OpenAQAPIKey != "",
		"geocoder":    cfg.GeocoderAPIKey != "",
		"redis":       cfg.RedisAddr != "",
	}
	httpapi.RegisterRoutes(app, httpapi.NewHandlers(svc, settingsStore, metrics, cfg.GeocoderAPIKey, env))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
