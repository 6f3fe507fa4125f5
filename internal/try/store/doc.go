// Package store buffers completed spans per debug session.
//
// Two strategies implement Store, selected once at startup by configuration:
//   - Local: an in-process concurrent map from session identifier to span
//     list, with a reverse index from backend trace ID to identifier.
//   - Passthrough: no buffering; used when an external trace backend indexes
//     tagged spans itself.
package store
