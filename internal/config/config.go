package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/avelychko/heat-air-risk/internal/risk"
)

// AppConfig is the process configuration, read once at startup.
type AppConfig struct {
	OpenWeatherAPIKey string
	WAQIToken         string
	OpenAQAPIKey      string
	GeocoderAPIKey    string

	// Default fusion weights, overridable per request and at runtime.
	Weights risk.Weights

	// Upstream response cache.
	CacheTTL time.Duration

	// Snapshot persistence; empty RedisAddr disables it.
	RedisAddr   string
	SnapshotTTL time.Duration

	// Cache-warming schedule for the configured locations.
	WarmInterval time.Duration
	Locations    []Location

	HTTPTimeout time.Duration
	Port        string
}

// Location is a named coordinate warmed by the scheduler.
type Location struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

// Load reads configuration from environment with sensible defaults. A
// locations YAML file is optional; without one the scheduler stays idle.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		WAQIToken:         os.Getenv("WAQI_TOKEN"),
		OpenAQAPIKey:      os.Getenv("OPENAQ_API_KEY"),
		GeocoderAPIKey:    os.Getenv("GEOCODER_API_KEY"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		Port:              getenvDefault("PORT", "8080"),
	}

	var err error
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SnapshotTTL, err = getenvDuration("SNAPSHOT_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.WarmInterval, err = getenvDuration("WARM_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}

	if cfg.Weights.Heat, err = getenvWeight("WEIGHT_HEAT", risk.DefaultWeights.Heat); err != nil {
		return nil, err
	}
	if cfg.Weights.AQI, err = getenvWeight("WEIGHT_AQI", risk.DefaultWeights.AQI); err != nil {
		return nil, err
	}

	if path := os.Getenv("LOCATIONS_FILE"); path != "" {
		cfg.Locations, err = loadLocations(path)
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func loadLocations(path string) ([]Location, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locations file: %w", err)
	}
	var doc struct {
		Locations []Location `yaml:"locations"`
	}
	if err := yaml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse locations file: %w", err)
	}
	for i, loc := range doc.Locations {
		if loc.Lat < -90 || loc.Lat > 90 || loc.Lon < -180 || loc.Lon > 180 {
			return nil, fmt.Errorf("locations[%d] %q: coordinate out of range", i, loc.Name)
		}
	}
	return doc.Locations, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvWeight(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	w, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if w < 0 || w > 1 {
		return 0, fmt.Errorf("invalid %s: must be within [0,1]", key)
	}
	return w, nil
}
