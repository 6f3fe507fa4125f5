package retrieve

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/whitesnakegang/ouroboros-sub007/internal/shared/id"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/backend"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/normalize"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/trace"
)

// Backend retrieves traces from the external trace store and normalizes the
// raw payload on the way out.
type Backend struct {
	client    *backend.Client
	converter *normalize.Converter
	logger    *zap.Logger
}

// NewBackend creates a retriever over the trace backend client.
func NewBackend(client *backend.Client, converter *normalize.Converter, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{client: client, converter: converter, logger: logger}
}

// Search asks the backend for traces tagged with tryID.
func (b *Backend) Search(ctx context.Context, tryID id.TryID) ([]string, error) {
	return b.client.Search(ctx, tryID)
}

// Poll retries Search with the shared bounded loop; backends index spans
// asynchronously, so the first attempts routinely miss.
func (b *Backend) Poll(ctx context.Context, tryID id.TryID, maxAttempts int, interval time.Duration) (string, error) {
	start := time.Now()
	traceID, err := poll(ctx, tryID, maxAttempts, interval, b.Search)
	b.logger.Debug("backend poll finished",
		zap.String("try_id", tryID.String()),
		zap.String("trace_id", traceID),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	return traceID, err
}

// Fetch downloads and normalizes one trace.
func (b *Backend) Fetch(ctx context.Context, traceID string) ([]trace.SpanRecord, error) {
	raw, err := b.client.Fetch(ctx, traceID)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return b.converter.Convert(raw)
}

// Available mirrors the client's circuit state.
func (b *Backend) Available() bool {
	return b.client.Available()
}
