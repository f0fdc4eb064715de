package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr())
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 2*time.Minute, cfg.AlertWindow)
	assert.True(t, cfg.SimulateWrites)
	assert.Equal(t, 40.0, cfg.Thresholds.Air.Limit)
	assert.Equal(t, 0.15, cfg.Thresholds.Water.Limit)
	assert.Equal(t, 1200.0, cfg.Thresholds.Soil.Limit)
	assert.Equal(t, 0.7, cfg.Thresholds.Soil.AlertRatio)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("POLL_INTERVAL", "30s")
	t.Setenv("ALERT_WINDOW", "PT5M")
	t.Setenv("SIMULATE_WRITES", "false")
	t.Setenv("AIR_THRESHOLD", "35.5")
	t.Setenv("ALERT_RATIO", "0.8")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://dash.example.org")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, 5*time.Minute, cfg.AlertWindow)
	assert.False(t, cfg.SimulateWrites)
	assert.Equal(t, 35.5, cfg.Thresholds.Air.Limit)
	assert.Equal(t, 0.8, cfg.Thresholds.Water.AlertRatio)
	assert.Equal(t, []string{"http://localhost:5173", "https://dash.example.org"}, cfg.CORSOrigins)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"PORT":            "abc",
		"POLL_INTERVAL":   "soon",
		"SIMULATE_WRITES": "maybe",
		"CHART_POINTS":    "0",
		"SOIL_THRESHOLD":  "-1",
		"ALERT_RATIO":     "1.5",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := config.Load()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestParseDuration(t *testing.T) {
	d, err := config.ParseDuration("90s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	d, err = config.ParseDuration("pt2m")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)

	_, err = config.ParseDuration("later")
	assert.Error(t, err)
}
