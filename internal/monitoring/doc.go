// Package monitoring exposes Prometheus metrics for the try engine: session
// gate decisions, spans recorded, backend polling, bundle outcomes, and the
// HTTP query surface.
package monitoring
