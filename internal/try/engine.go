package try

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/whitesnakegang/ouroboros-sub007/internal/monitoring"
	"github.com/whitesnakegang/ouroboros-sub007/internal/shared/id"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/analyze"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/backend"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/propagate"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/retrieve"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/sampler"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/store"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/trace"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/tree"
)

// Config holds engine retrieval settings.
type Config struct {
	// PollAttempts and PollInterval bound the backend poll loop.
	PollAttempts int
	PollInterval time.Duration
}

// Deps wires the engine's collaborators. Store and Retriever are chosen
// together at startup: local buffer with local retriever, or backend
// pass-through with backend retriever.
type Deps struct {
	Store     store.Store
	Retriever retrieve.Retriever
	Analyzer  *analyze.Analyzer
	Metrics   *monitoring.Metrics
	Logger    *zap.Logger
	// UsesBackend marks the backend strategy; it decides whether a store
	// miss means NOT_FOUND (local owns all data) or PENDING (the backend
	// may still be indexing).
	UsesBackend bool
}

// Engine assembles trace bundles for debug sessions: it records spans during
// the marked request and, on query, retrieves the trace, rebuilds the call
// tree, and runs bottleneck analysis.
type Engine struct {
	store       store.Store
	retriever   retrieve.Retriever
	analyzer    *analyze.Analyzer
	metrics     *monitoring.Metrics
	logger      *zap.Logger
	cfg         Config
	usesBackend bool
}

// New creates the engine.
func New(deps Deps, cfg Config) *Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Analyzer == nil {
		deps.Analyzer = analyze.New(analyze.Config{}, deps.Logger)
	}
	if cfg.PollAttempts <= 0 {
		cfg.PollAttempts = 5
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	return &Engine{
		store:       deps.Store,
		retriever:   deps.Retriever,
		analyzer:    deps.Analyzer,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		cfg:         cfg,
		usesBackend: deps.UsesBackend,
	}
}

// Append records one completed span for a session. It is the entry point
// for the instrumentation collaborator's span-completion events. The span is
// tagged with the session identifier so an external backend can index it.
func (e *Engine) Append(tryID id.TryID, span trace.SpanRecord) {
	if span.Attributes == nil {
		span.Attributes = map[string]string{}
	}
	span.Attributes[backend.TryIDTagKey] = tryID.String()

	e.store.Append(tryID, span)

	if e.metrics != nil {
		e.metrics.SpansRecorded.Inc()
		e.metrics.SessionsStored.Set(float64(len(e.store.Sessions())))
	}
}

// Record wraps one call boundary in a span: it times fn and appends the span
// when a session identifier is attached to ctx. With no identifier attached
// the function runs untouched, so unmarked requests pay nothing. This is the
// explicit opt-in form of method interception: each instrumented call site
// wraps itself.
func (e *Engine) Record(ctx context.Context, name string, kind trace.Kind, fn func(context.Context) error) error {
	if sampler.DecideFromContext(ctx) == sampler.Drop {
		return fn(ctx)
	}
	tryID, _ := propagate.FromContext(ctx)

	spanID := id.NewSpanID()
	var parentID string
	if parent, ok := propagate.SpanFromContext(ctx); ok {
		parentID = parent.String()
	}
	var traceID string
	if tid, ok := propagate.TraceFromContext(ctx); ok {
		traceID = tid.String()
	}

	start := time.Now().UnixNano()
	err := fn(propagate.WithSpan(ctx, spanID))
	end := time.Now().UnixNano()

	span := trace.SpanRecord{
		ID:            spanID.String(),
		ParentID:      parentID,
		TraceID:       traceID,
		Name:          name,
		Kind:          kind,
		StartNanos:    start,
		EndNanos:      end,
		DurationNanos: end - start,
	}
	if err != nil {
		span.Attributes = map[string]string{"error": err.Error()}
	}
	e.Append(tryID, span)
	return err
}

// GetSummary returns the condensed bundle view for one session.
func (e *Engine) GetSummary(ctx context.Context, identifier string) (*Summary, error) {
	tryID, err := ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	b := e.bundle(ctx, tryID)
	return &Summary{
		Identifier:      b.Identifier,
		TraceID:         b.TraceID,
		Status:          b.Status,
		HTTPStatusCode:  httpStatusOf(b.RootNodes),
		TotalDurationMs: b.TotalDurationMs,
		SpanCount:       b.SpanCount,
		IssueCount:      len(b.Issues),
	}, nil
}

// GetTrace returns the reconstructed call tree for one session.
func (e *Engine) GetTrace(ctx context.Context, identifier string) (*TraceView, error) {
	tryID, err := ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	b := e.bundle(ctx, tryID)
	return &TraceView{
		Identifier:      b.Identifier,
		TraceID:         b.TraceID,
		Status:          b.Status,
		TotalDurationMs: b.TotalDurationMs,
		RootNodes:       b.RootNodes,
	}, nil
}

// GetIssues returns the detected bottlenecks for one session.
func (e *Engine) GetIssues(ctx context.Context, identifier string) (*IssuesView, error) {
	tryID, err := ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	b := e.bundle(ctx, tryID)
	return &IssuesView{
		Identifier: b.Identifier,
		Status:     b.Status,
		Issues:     b.Issues,
	}, nil
}

// GetTraceByID fetches one trace directly by backend trace ID.
func (e *Engine) GetTraceByID(ctx context.Context, traceID string) (*TraceView, error) {
	if !e.retriever.Available() {
		return nil, ErrBackendUnavailable
	}
	spans, err := e.retriever.Fetch(ctx, traceID)
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return nil, ErrNotFound
	}

	total := trace.TotalDurationMs(spans)
	return &TraceView{
		TraceID:         traceID,
		Status:          trace.StatusCompleted,
		TotalDurationMs: total,
		RootNodes:       tree.Build(spans, total),
	}, nil
}

// DeleteTrace removes the session from local storage. Returns false when
// there was nothing to delete.
func (e *Engine) DeleteTrace(identifier string) (bool, error) {
	tryID, err := ParseIdentifier(identifier)
	if err != nil {
		return false, err
	}

	deleted := e.store.Delete(tryID)
	if deleted && e.metrics != nil {
		e.metrics.SessionsStored.Set(float64(len(e.store.Sessions())))
	}
	return deleted, nil
}

// Sessions lists the sessions currently held in local storage.
func (e *Engine) Sessions() []store.Session {
	return e.store.Sessions()
}

// BackendAvailable reports whether the retrieval path can serve queries.
func (e *Engine) BackendAvailable() bool {
	return e.retriever.Available()
}

// bundle assembles the full result for one session, never returning an
// error: retrieval trouble degrades to PENDING and assembly trouble to
// FAILED, so diagnostic queries cannot abort the host request.
func (e *Engine) bundle(ctx context.Context, tryID id.TryID) *trace.TraceBundle {
	b := &trace.TraceBundle{
		Identifier: tryID.String(),
		Status:     trace.StatusPending,
	}
	defer func() {
		if e.metrics != nil {
			e.metrics.BundlesByStatus.WithLabelValues(string(b.Status)).Inc()
		}
	}()

	// Local buffer first.
	if spans, ok := e.store.ByIdentifier(tryID); ok {
		if len(spans) == 0 {
			return b
		}
		e.assemble(b, firstTraceID(spans), spans)
		return b
	}

	if !e.usesBackend {
		b.Status = trace.StatusNotFound
		return b
	}

	if !e.retriever.Available() {
		e.logger.Warn("trace backend unavailable, degrading to pending",
			zap.String("try_id", tryID.String()),
		)
		return b
	}

	pollStart := time.Now()
	traceID, err := e.retriever.Poll(ctx, tryID, e.cfg.PollAttempts, e.cfg.PollInterval)
	if e.metrics != nil {
		e.metrics.BackendPolls.Inc()
		e.metrics.BackendPollDuration.Observe(time.Since(pollStart).Seconds())
	}
	if err != nil {
		e.logger.Warn("backend poll failed, degrading to pending",
			zap.String("try_id", tryID.String()),
			zap.Error(err),
		)
		return b
	}
	if traceID == "" {
		return b
	}

	spans, err := e.retriever.Fetch(ctx, traceID)
	if err != nil {
		b.Status = trace.StatusFailed
		b.Error = err.Error()
		e.logger.Error("trace fetch failed",
			zap.String("try_id", tryID.String()),
			zap.String("trace_id", traceID),
			zap.Error(err),
		)
		return b
	}
	if len(spans) == 0 {
		return b
	}

	e.assemble(b, traceID, spans)
	return b
}

// assemble runs the normalize-build-analyze pipeline over a resolved span
// list and completes the bundle.
func (e *Engine) assemble(b *trace.TraceBundle, traceID string, spans []trace.SpanRecord) {
	total := trace.TotalDurationMs(spans)

	b.TraceID = traceID
	b.Status = trace.StatusCompleted
	b.TotalDurationMs = total
	b.SpanCount = len(spans)
	b.RootNodes = tree.Build(spans, total)
	b.Issues = e.analyzer.Analyze(spans, total)

	if e.metrics != nil {
		for _, issue := range b.Issues {
			e.metrics.IssuesDetected.WithLabelValues(string(issue.Type)).Inc()
		}
	}
}

func firstTraceID(spans []trace.SpanRecord) string {
	for _, s := range spans {
		if s.TraceID != "" {
			return s.TraceID
		}
	}
	return ""
}

// httpStatusOf extracts the HTTP status code recorded on a server root span,
// if any.
func httpStatusOf(roots []*trace.SpanNode) int {
	for _, root := range roots {
		for _, key := range []string{"http.status_code", "http.response.status_code"} {
			if v, ok := root.Span.Attributes[key]; ok {
				if code, err := strconv.Atoi(v); err == nil {
					return code
				}
			}
		}
	}
	return 0
}
