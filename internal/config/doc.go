// Package config provides 12-factor configuration management for the try service.
//
// Configuration is loaded from environment variables with sensible defaults.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Backend: trace backend connection and poll settings
//   - Store: local span storage bounds
//   - Analyze: bottleneck detection thresholds
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - BACKEND_URL, BACKEND_TIMEOUT, BACKEND_POLL_ATTEMPTS, BACKEND_POLL_INTERVAL
//   - STORE_MAX_SESSIONS
//   - ANALYZE_CANDIDATE_PERCENT, ANALYZE_MEDIUM_PERCENT, ANALYZE_HIGH_PERCENT,
//     ANALYZE_CRITICAL_PERCENT, ANALYZE_NPLUSONE_THRESHOLD
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
