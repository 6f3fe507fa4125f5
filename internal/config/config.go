package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Store     StoreConfig
	Analyze   AnalyzeConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// BackendConfig holds trace backend configuration. When URL is empty the
// service keeps spans in its local buffer and never talks to a backend.
type BackendConfig struct {
	URL          string        `envconfig:"BACKEND_URL" default:""`
	Timeout      time.Duration `envconfig:"BACKEND_TIMEOUT" default:"10s"`
	PollAttempts int           `envconfig:"BACKEND_POLL_ATTEMPTS" default:"5"`
	PollInterval time.Duration `envconfig:"BACKEND_POLL_INTERVAL" default:"500ms"`
}

// Enabled reports whether a trace backend is configured.
func (c BackendConfig) Enabled() bool {
	return c.URL != ""
}

// StoreConfig holds local span storage configuration. MaxSessions of zero
// means unbounded.
type StoreConfig struct {
	MaxSessions int `envconfig:"STORE_MAX_SESSIONS" default:"0"`
}

// AnalyzeConfig holds bottleneck analysis thresholds, all in percent of
// total request duration except the N+1 repetition count.
type AnalyzeConfig struct {
	CandidatePercent  float64 `envconfig:"ANALYZE_CANDIDATE_PERCENT" default:"20"`
	MediumPercent     float64 `envconfig:"ANALYZE_MEDIUM_PERCENT" default:"25"`
	HighPercent       float64 `envconfig:"ANALYZE_HIGH_PERCENT" default:"50"`
	CriticalPercent   float64 `envconfig:"ANALYZE_CRITICAL_PERCENT" default:"75"`
	NPlusOneThreshold int     `envconfig:"ANALYZE_NPLUSONE_THRESHOLD" default:"5"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Backend: BackendConfig{
			Timeout:      10 * time.Second,
			PollAttempts: 5,
			PollInterval: 500 * time.Millisecond,
		},
		Analyze: AnalyzeConfig{
			CandidatePercent:  20,
			MediumPercent:     25,
			HighPercent:       50,
			CriticalPercent:   75,
			NPlusOneThreshold: 5,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
