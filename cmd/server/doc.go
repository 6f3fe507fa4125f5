// Package main is the entry point for the try service.
//
// This application captures per-request traces for requests that opt in with
// the X-Ouroboros-Try header, reconstructs the call tree, and flags likely
// bottlenecks. Spans either stay in a local in-process buffer or pass through
// to an external trace backend that is polled at query time.
//
// The server provides:
//   - REST API for debug session queries
//   - Capture middleware for opt-in requests
//   - Prometheus metrics
//   - Rate limiting and CORS
//
// Configuration:
//   - Environment variables (12-factor)
//   - Defaults for development
//
// Usage:
//
//	# Local buffer mode
//	./server
//
//	# Backend mode
//	BACKEND_URL=http://tempo:3100 ./server
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
