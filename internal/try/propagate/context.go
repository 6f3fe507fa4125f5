package propagate

import (
	"context"

	"github.com/whitesnakegang/ouroboros-sub007/internal/shared/id"
)

// Context keys for session propagation
type contextKey string

const (
	tryIDKey   contextKey = "try_id"
	spanIDKey  contextKey = "span_id"
	traceIDKey contextKey = "trace_id"
)

// Attach binds tryID to the context for the current logical request and
// returns the identifier actually in effect. Attaching is idempotent: if an
// identifier is already bound, it is reused and the context is returned
// unchanged. This prevents duplicate sessions on re-entrant dispatch, e.g.
// an error handler re-invoking the instrumented path.
func Attach(ctx context.Context, tryID id.TryID) (context.Context, id.TryID) {
	if existing, ok := FromContext(ctx); ok {
		return ctx, existing
	}
	return context.WithValue(ctx, tryIDKey, tryID), tryID
}

// FromContext returns the attached session identifier, if any.
func FromContext(ctx context.Context) (id.TryID, bool) {
	tryID, ok := ctx.Value(tryIDKey).(id.TryID)
	return tryID, ok && tryID != ""
}

// Detach returns a context with no session identifier bound. Callers holding
// the pre-attach context can equally let it go out of scope; Detach exists
// for exit paths that must keep the derived context alive.
func Detach(ctx context.Context) context.Context {
	if _, ok := FromContext(ctx); !ok {
		return ctx
	}
	return context.WithValue(ctx, tryIDKey, id.TryID(""))
}

// WithSpan records spanID as the current span, making it the parent of any
// span recorded further down the call chain.
func WithSpan(ctx context.Context, spanID id.SpanID) context.Context {
	return context.WithValue(ctx, spanIDKey, spanID)
}

// SpanFromContext returns the current span identifier, if any.
func SpanFromContext(ctx context.Context) (id.SpanID, bool) {
	spanID, ok := ctx.Value(spanIDKey).(id.SpanID)
	return spanID, ok && spanID != ""
}

// WithTrace records the backend trace identifier the session's spans belong
// to, so spans recorded deeper in the call chain carry a consistent trace ID.
func WithTrace(ctx context.Context, traceID id.TraceID) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceFromContext returns the current trace identifier, if any.
func TraceFromContext(ctx context.Context) (id.TraceID, bool) {
	traceID, ok := ctx.Value(traceIDKey).(id.TraceID)
	return traceID, ok && traceID != ""
}

// Wrap decorates a task for submission to another goroutine or worker pool.
// The session identifier and current span attached at submission time are
// captured and restored for the duration of the task, then dropped with the
// task's context regardless of outcome.
func Wrap(ctx context.Context, task func(context.Context)) func() {
	tryID, hasTry := FromContext(ctx)
	spanID, hasSpan := SpanFromContext(ctx)
	traceID, hasTrace := TraceFromContext(ctx)

	return func() {
		inner := context.Background()
		if hasTry {
			inner, _ = Attach(inner, tryID)
		}
		if hasSpan {
			inner = WithSpan(inner, spanID)
		}
		if hasTrace {
			inner = WithTrace(inner, traceID)
		}
		task(inner)
	}
}
