// Package http provides HTTP handlers and routing for the try REST API.
//
// This package implements all HTTP endpoints using the Gin framework: the
// debug-session query surface, session management, and health checks. It also
// carries the capture middleware that starts a debug session when a request
// arrives with the opt-in header.
//
// Endpoints:
//   - Health: / and /health
//   - Sessions: /api/try/sessions
//   - Queries: /api/try/:id/summary, /api/try/:id/trace, /api/try/:id/issues
//   - Deletion: DELETE /api/try/:id
//   - Direct trace lookup: /api/try/traces/:traceId
//
// Error mapping:
//   - Malformed identifiers are 400
//   - Unknown backend trace IDs are 404
//   - Backend outages on direct lookup are 503
//
// Example Usage:
//
//	handlers := http.NewHandlers(engine)
//	router.Use(http.Capture(engine, logger))
//	router.GET("/api/try/:id/summary", handlers.GetSummary)
package http
