package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Backend config: disabled unless a URL is set
	assert.False(t, cfg.Backend.Enabled())
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 5, cfg.Backend.PollAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Backend.PollInterval)

	// Store config: unbounded by default
	assert.Zero(t, cfg.Store.MaxSessions)

	// Analysis thresholds
	assert.Equal(t, float64(20), cfg.Analyze.CandidatePercent)
	assert.Equal(t, float64(25), cfg.Analyze.MediumPercent)
	assert.Equal(t, float64(50), cfg.Analyze.HighPercent)
	assert.Equal(t, float64(75), cfg.Analyze.CriticalPercent)
	assert.Equal(t, 5, cfg.Analyze.NPlusOneThreshold)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadOrDefault(t *testing.T) {
	// Should return default when no env vars set
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	// Setup environment variables
	envVars := map[string]string{
		"PORT":                       "9000",
		"HOST":                       "127.0.0.1",
		"BACKEND_URL":                "http://tempo:3100",
		"BACKEND_TIMEOUT":            "5s",
		"BACKEND_POLL_ATTEMPTS":      "10",
		"BACKEND_POLL_INTERVAL":      "250ms",
		"STORE_MAX_SESSIONS":         "64",
		"ANALYZE_NPLUSONE_THRESHOLD": "3",
		"LOG_LEVEL":                  "debug",
		"LOG_DEV":                    "true",
		"RATE_LIMIT_RPS":             "500",
		"RATE_LIMIT_BURST":           "1000",
		"RATE_LIMIT_ENABLED":         "false",
	}

	// Set environment variables
	for key, value := range envVars {
		err := os.Setenv(key, value)
		require.NoError(t, err)
		defer os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	// Verify server config
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)

	// Verify backend config
	assert.True(t, cfg.Backend.Enabled())
	assert.Equal(t, "http://tempo:3100", cfg.Backend.URL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 10, cfg.Backend.PollAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Backend.PollInterval)

	// Verify store and analysis config
	assert.Equal(t, 64, cfg.Store.MaxSessions)
	assert.Equal(t, 3, cfg.Analyze.NPlusOneThreshold)

	// Verify logging config
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	// Verify rate limit config
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	// Only set some environment variables
	err := os.Setenv("PORT", "3000")
	require.NoError(t, err)
	defer os.Unsetenv("PORT")

	err = os.Setenv("LOG_LEVEL", "warn")
	require.NoError(t, err)
	defer os.Unsetenv("LOG_LEVEL")

	cfg, err := Load()
	require.NoError(t, err)

	// Verify overridden values
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Verify default values still apply
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.False(t, cfg.Backend.Enabled())
	assert.Equal(t, 5, cfg.Backend.PollAttempts)
}
