// Package server provides HTTP server setup and initialization for the try
// service.
//
// This package orchestrates all components:
//   - HTTP routing with Gin framework
//   - Middleware stack (CORS, rate limiting, recovery, metrics, capture)
//   - Storage strategy selection (local buffer or backend pass-through)
//   - Engine wiring (store, retriever, analyzer, metrics)
//
// Server Lifecycle:
//  1. Load configuration from environment
//  2. Initialize logger (production or development)
//  3. Choose the storage strategy from the backend URL
//  4. Setup HTTP routes and middleware
//  5. Start HTTP server
//  6. Graceful shutdown on signal
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg, logger)
//	if err := srv.Run(cfg.Server.Host + ":" + cfg.Server.Port); err != nil {
//	    log.Fatal(err)
//	}
package server
