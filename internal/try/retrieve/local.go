package retrieve

import (
	"context"
	"time"

	"github.com/whitesnakegang/ouroboros-sub007/internal/shared/id"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/store"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/trace"
)

// Local serves traces straight from the in-process span store. Spans are
// synchronously visible once the marked request completes, so Poll resolves
// on the first search with no artificial delay.
type Local struct {
	store store.Store
}

// NewLocal creates a retriever over the local span store.
func NewLocal(s store.Store) *Local {
	return &Local{store: s}
}

// Search returns the trace ID recorded for tryID, if its spans carried one.
func (l *Local) Search(_ context.Context, tryID id.TryID) ([]string, error) {
	spans, ok := l.store.ByIdentifier(tryID)
	if !ok {
		return nil, nil
	}
	for _, s := range spans {
		if s.TraceID != "" {
			return []string{s.TraceID}, nil
		}
	}
	return nil, nil
}

// Poll resolves immediately; local data either exists or it never will.
func (l *Local) Poll(ctx context.Context, tryID id.TryID, _ int, _ time.Duration) (string, error) {
	ids, err := l.Search(ctx, tryID)
	if err != nil || len(ids) == 0 {
		return "", err
	}
	return ids[0], nil
}

// Fetch resolves the trace ID back to its session and returns the buffered
// spans.
func (l *Local) Fetch(_ context.Context, traceID string) ([]trace.SpanRecord, error) {
	tryID, ok := l.store.ByTraceID(traceID)
	if !ok {
		return nil, nil
	}
	spans, ok := l.store.ByIdentifier(tryID)
	if !ok {
		return nil, nil
	}
	return spans, nil
}

// Available is always true for local storage.
func (l *Local) Available() bool { return true }
