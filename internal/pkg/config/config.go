package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

// MapConfig is the fixed viewport and tile source of the map.
type MapConfig struct {
	Title        string
	TileURL      string
	Attribution  string
	MinZoom      int
	MaxZoom      int
	CenterLng    float64
	CenterLat    float64
	Zoom         float64
	ProbeTiles   bool
	ProbeTimeout time.Duration
	UserAgent    string
}

type POISource string

const (
	POISourceStatic   POISource = "static"
	POISourcePostgres POISource = "postgres"
)

type POIConfig struct {
	Source   POISource
	CacheTTL time.Duration
}

type SessionConfig struct {
	TTL time.Duration
}

type ObservabilityConfig struct {
	ServiceName  string
	MetricsAddr  string
	OTLPEndpoint string
	PprofAddr    string
}

type Config struct {
	Repositories  RepositoriesConfig
	Map           MapConfig
	POI           POIConfig
	Sessions      SessionConfig
	Observability ObservabilityConfig
	ServerPort    string
	AllowedOrigin []string
}

func Load() (*Config, error) {
	var errs []string
	fail := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5454"),
				DB:       getEnvOrDefault("POSTGRES_DB", "loci_citymap"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 10,
				MinConns: 1,
			},
		},
		Map: MapConfig{
			Title:       getEnvOrDefault("MAP_TITLE", "Explore Paris"),
			TileURL:     getEnvOrDefault("MAP_TILE_URL", "https://tile.openstreetmap.org/{z}/{x}/{y}.png"),
			Attribution: getEnvOrDefault("MAP_TILE_ATTRIBUTION", "© OpenStreetMap contributors"),
			UserAgent:   getEnvOrDefault("MAP_TILE_USER_AGENT", "loci-citymap/1.0"),
		},
		POI: POIConfig{
			Source: POISource(strings.ToLower(getEnvOrDefault("POI_SOURCE", string(POISourceStatic)))),
		},
		Observability: ObservabilityConfig{
			ServiceName:  getEnvOrDefault("OTEL_SERVICE_NAME", "loci-citymap"),
			MetricsAddr:  getEnvOrDefault("METRICS_ADDR", ":9092"),
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			PprofAddr:    os.Getenv("PPROF_ADDR"),
		},
		ServerPort:    getEnvOrDefault("SERVER_PORT", "8091"),
		AllowedOrigin: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
	}

	var err error
	cfg.Map.MinZoom, err = getIntOrDefault("MAP_MIN_ZOOM", 0)
	fail(err)
	cfg.Map.MaxZoom, err = getIntOrDefault("MAP_MAX_ZOOM", 19)
	fail(err)
	cfg.Map.CenterLng, err = getFloatOrDefault("MAP_CENTER_LNG", 2.3522)
	fail(err)
	cfg.Map.CenterLat, err = getFloatOrDefault("MAP_CENTER_LAT", 48.8566)
	fail(err)
	cfg.Map.Zoom, err = getFloatOrDefault("MAP_ZOOM", 12)
	fail(err)
	cfg.Map.ProbeTiles, err = getBoolOrDefault("MAP_PROBE_TILES", false)
	fail(err)
	cfg.Map.ProbeTimeout, err = getDurationOrDefault("MAP_PROBE_TIMEOUT", 3*time.Second)
	fail(err)
	cfg.POI.CacheTTL, err = getDurationOrDefault("POI_CACHE_TTL", 5*time.Minute)
	fail(err)
	cfg.Sessions.TTL, err = getDurationOrDefault("MAP_SESSION_TTL", 30*time.Minute)
	fail(err)

	switch cfg.POI.Source {
	case POISourceStatic:
	case POISourcePostgres:
		if cfg.Repositories.Postgres.Password == "" {
			errs = append(errs, "POSTGRES_PASSWORD environment variable is required when POI_SOURCE=postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("POI_SOURCE must be %q or %q, got %q", POISourceStatic, POISourcePostgres, cfg.POI.Source))
	}
	if cfg.Sessions.TTL <= 0 {
		errs = append(errs, "MAP_SESSION_TTL must be positive")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getFloatOrDefault(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getBoolOrDefault(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
