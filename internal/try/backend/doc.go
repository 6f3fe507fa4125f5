// Package backend is the HTTP client for an external Tempo-style trace
// store. The engine only needs two calls from it: search traces by the
// session-identifier tag, and fetch one trace's raw payload. A circuit
// breaker keeps a dead backend from stalling bundle queries.
package backend
