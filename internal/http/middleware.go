package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/whitesnakegang/ouroboros-sub007/internal/monitoring"
	"github.com/whitesnakegang/ouroboros-sub007/internal/shared/id"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/propagate"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/sampler"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/trace"
)

const (
	// HeaderTry is the request header that opts a request into capture.
	HeaderTry = "X-Ouroboros-Try"
	// HeaderTryID is the response header echoing the issued identifier.
	HeaderTryID = "X-Ouroboros-Try-Id"
)

// Capture starts a debug session for requests carrying the opt-in header.
// It mints the session identifier, attaches it to the request context so
// downstream call sites record spans, and closes the session with a root
// server span once the handler returns. Requests without the header pass
// through untouched.
func Capture(engine *try.Engine, metrics *monitoring.Metrics, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if sampler.Decide(c.GetHeader(HeaderTry) != "") == sampler.Drop {
			if metrics != nil {
				metrics.SessionsDropped.Inc()
			}
			c.Next()
			return
		}

		traceID := id.NewTraceID()
		rootSpanID := id.NewSpanID()

		// Attach keeps an identifier the context already carries, so the
		// span below is always appended under the identifier in effect.
		ctx, tryID := propagate.Attach(c.Request.Context(), id.NewTryID())
		ctx = propagate.WithTrace(ctx, traceID)
		ctx = propagate.WithSpan(ctx, rootSpanID)
		c.Request = c.Request.WithContext(ctx)

		c.Header(HeaderTryID, tryID.String())
		if metrics != nil {
			metrics.SessionsStarted.Inc()
		}
		logger.Debug("debug session started",
			zap.String("try_id", tryID.String()),
			zap.String("path", c.Request.URL.Path),
		)

		start := time.Now().UnixNano()
		c.Next()
		end := time.Now().UnixNano()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		engine.Append(tryID, trace.SpanRecord{
			ID:            rootSpanID.String(),
			TraceID:       traceID.String(),
			Name:          c.Request.Method + " " + route,
			Kind:          trace.KindServer,
			StartNanos:    start,
			EndNanos:      end,
			DurationNanos: end - start,
			Attributes: map[string]string{
				"http.method":      c.Request.Method,
				"http.route":       route,
				"http.status_code": strconv.Itoa(c.Writer.Status()),
			},
		})
	}
}
