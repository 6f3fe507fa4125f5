package store

import (
	"time"

	"github.com/whitesnakegang/ouroboros-sub007/internal/shared/id"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/trace"
)

// Store receives completed spans tagged with a session identifier and serves
// them back for bundle assembly.
type Store interface {
	// Append records one completed span under tryID. Safe for concurrent
	// writers on the same identifier (parallel child spans complete out of
	// order).
	Append(tryID id.TryID, span trace.SpanRecord)
	// ByIdentifier returns the spans recorded for tryID in arrival order.
	ByIdentifier(tryID id.TryID) ([]trace.SpanRecord, bool)
	// ByTraceID resolves a backend trace ID to its session identifier.
	ByTraceID(traceID string) (id.TryID, bool)
	// Exists reports whether tryID has any record.
	Exists(tryID id.TryID) bool
	// Delete removes the session and its reverse-index entry.
	Delete(tryID id.TryID) bool
	// Sessions lists the sessions currently held.
	Sessions() []Session
}

// Session summarizes one stored debug session.
type Session struct {
	Identifier id.TryID  `json:"identifier"`
	TraceID    string    `json:"traceId,omitempty"`
	SpanCount  int       `json:"spanCount"`
	Created    time.Time `json:"created"`
}
