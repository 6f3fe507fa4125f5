package retrieve

import (
	"context"
	"time"

	"github.com/whitesnakegang/ouroboros-sub007/internal/shared/id"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/trace"
)

// Retriever obtains the complete raw trace for a session identifier,
// already normalized to the canonical span list.
type Retriever interface {
	// Search returns the trace IDs known for tryID.
	Search(ctx context.Context, tryID id.TryID) ([]string, error)
	// Poll repeatedly searches until a trace ID appears, sleeping interval
	// between attempts and giving up after maxAttempts. It returns "" with a
	// nil error when no trace showed up in time; the caller degrades to
	// PENDING. Poll never blocks beyond maxAttempts x interval.
	Poll(ctx context.Context, tryID id.TryID, maxAttempts int, interval time.Duration) (string, error)
	// Fetch returns the normalized spans of one trace, or (nil, nil) when
	// the trace does not exist.
	Fetch(ctx context.Context, traceID string) ([]trace.SpanRecord, error)
	// Available reports whether this retriever can serve queries right now.
	Available() bool
}

// poll is the shared bounded-retry loop.
func poll(ctx context.Context, tryID id.TryID, maxAttempts int, interval time.Duration,
	search func(context.Context, id.TryID) ([]string, error)) (string, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ids, err := search(ctx, tryID)
		if err == nil && len(ids) > 0 {
			return ids[0], nil
		}
		if err != nil && attempt == maxAttempts {
			return "", err
		}
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(interval):
			}
		}
	}
	return "", nil
}
