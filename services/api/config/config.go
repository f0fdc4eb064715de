package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sosodev/duration"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/pipeline"
)

const (
	defaultReadURL        = "https://servicio-iot-get-965769718448.northamerica-south1.run.app"
	defaultWriteURL       = "https://servicio-iot-965769718448.northamerica-south1.run.app"
	defaultPollInterval   = 10 * time.Second
	defaultRequestTimeout = 15 * time.Second
)

// Config holds environment-driven settings for the dashboard API.
type Config struct {
	Port             int
	ReadURL          string
	WriteURL         string
	PollInterval     time.Duration
	AlertWindow      time.Duration
	RequestTimeout   time.Duration
	SimulateWrites   bool
	ChartPoints      int
	DatabaseURL      string
	SensorLayoutFile string
	CORSOrigins      []string
	LogLevel         string
	LogFormat        string
	Thresholds       Thresholds
}

// Thresholds are the per-medium danger limits used by the simulator.
type Thresholds struct {
	Air   pipeline.Threshold
	Water pipeline.Threshold
	Soil  pipeline.Threshold
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:           8080,
		ReadURL:        defaultReadURL,
		WriteURL:       defaultWriteURL,
		PollInterval:   defaultPollInterval,
		AlertWindow:    pipeline.DefaultAlertWindow,
		RequestTimeout: defaultRequestTimeout,
		SimulateWrites: true,
		ChartPoints:    10,
		CORSOrigins:    []string{"*"},
		LogLevel:       "info",
		LogFormat:      "json",
		Thresholds: Thresholds{
			Air:   pipeline.Threshold{Limit: 40, AlertRatio: pipeline.DefaultAlertRatio},
			Water: pipeline.Threshold{Limit: 0.15, AlertRatio: pipeline.DefaultAlertRatio},
			Soil:  pipeline.Threshold{Limit: 1200, AlertRatio: pipeline.DefaultAlertRatio},
		},
	}

	if portStr := env("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := env("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if v := env("READ_URL"); v != "" {
		cfg.ReadURL = v
	}
	if v := env("WRITE_URL"); v != "" {
		cfg.WriteURL = v
	}

	var err error
	if cfg.PollInterval, err = durationEnv("POLL_INTERVAL", cfg.PollInterval); err != nil {
		return cfg, err
	}
	if cfg.AlertWindow, err = durationEnv("ALERT_WINDOW", cfg.AlertWindow); err != nil {
		return cfg, err
	}
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return cfg, err
	}

	if v := env("SIMULATE_WRITES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid SIMULATE_WRITES: %w", err)
		}
		cfg.SimulateWrites = b
	}

	if v := env("CHART_POINTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid CHART_POINTS: %s", v)
		}
		cfg.ChartPoints = n
	}

	cfg.DatabaseURL = env("DATABASE_URL")
	cfg.SensorLayoutFile = env("SENSOR_LAYOUT_FILE")

	if v := env("CORS_ORIGINS"); v != "" {
		origins := make([]string, 0)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}

	if v := env("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := env("LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}

	if cfg.Thresholds.Air.Limit, err = floatEnv("AIR_THRESHOLD", cfg.Thresholds.Air.Limit); err != nil {
		return cfg, err
	}
	if cfg.Thresholds.Water.Limit, err = floatEnv("WATER_THRESHOLD", cfg.Thresholds.Water.Limit); err != nil {
		return cfg, err
	}
	if cfg.Thresholds.Soil.Limit, err = floatEnv("SOIL_THRESHOLD", cfg.Thresholds.Soil.Limit); err != nil {
		return cfg, err
	}
	ratio, err := floatEnv("ALERT_RATIO", pipeline.DefaultAlertRatio)
	if err != nil {
		return cfg, err
	}
	if ratio <= 0 || ratio >= 1 {
		return cfg, fmt.Errorf("invalid ALERT_RATIO: %v must be between 0 and 1", ratio)
	}
	cfg.Thresholds.Air.AlertRatio = ratio
	cfg.Thresholds.Water.AlertRatio = ratio
	cfg.Thresholds.Soil.AlertRatio = ratio

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// ParseDuration accepts Go durations ("90s") and ISO 8601 ones ("PT2M").
func ParseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	iso, err := duration.Parse(strings.ToUpper(s))
	if err != nil {
		return 0, err
	}
	return iso.ToTimeDuration(), nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := env(key)
	if v == "" {
		return def, nil
	}
	d, err := ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return def, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := env(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", key, err)
	}
	if f <= 0 {
		return def, fmt.Errorf("invalid %s: must be positive", key)
	}
	return f, nil
}
