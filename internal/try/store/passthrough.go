package store

import (
	"go.uber.org/zap"

	"github.com/whitesnakegang/ouroboros-sub007/internal/shared/id"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/trace"
)

// Passthrough is the storage strategy used when an external trace backend is
// configured. Spans are not buffered here: the recorder has already tagged
// them with the session identifier, so the backend's native export path
// indexes them and retrieval goes through the backend query API.
type Passthrough struct {
	logger *zap.Logger
}

// NewPassthrough creates the tag-only store.
func NewPassthrough(logger *zap.Logger) *Passthrough {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Passthrough{logger: logger}
}

// Append is a deliberate no-op: the span travels to the backend through the
// instrumentation collaborator's exporter.
func (p *Passthrough) Append(tryID id.TryID, span trace.SpanRecord) {
	p.logger.Debug("span passed through to backend export",
		zap.String("try_id", tryID.String()),
		zap.String("span", span.Name),
	)
}

// ByIdentifier never has local data.
func (p *Passthrough) ByIdentifier(id.TryID) ([]trace.SpanRecord, bool) { return nil, false }

// ByTraceID never has local data.
func (p *Passthrough) ByTraceID(string) (id.TryID, bool) { return "", false }

// Exists is always false; the backend owns existence.
func (p *Passthrough) Exists(id.TryID) bool { return false }

// Delete has nothing to delete locally.
func (p *Passthrough) Delete(id.TryID) bool { return false }

// Sessions has nothing to list locally.
func (p *Passthrough) Sessions() []Session { return nil }
