// Package normalize converts backend-specific raw trace payloads into the
// canonical flat span list the tree builder and analyzer operate on.
package normalize

import (
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/whitesnakegang/ouroboros-sub007/internal/try/trace"
)

// Converter flattens raw payloads into SpanRecords.
type Converter struct {
	logger *zap.Logger
}

// New creates a converter.
func New(logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{logger: logger}
}

// Convert parses raw and returns the spans in encounter order, flattening
// the batch/scope nesting. Individual malformed spans are dropped with a log
// line; only an unparseable envelope is an error.
func (c *Converter) Convert(raw []byte) ([]trace.SpanRecord, error) {
	var p payload
	if err := sonic.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("malformed trace payload: %w", err)
	}

	batches := p.Batches
	if len(batches) == 0 {
		batches = p.ResourceSpans
	}

	var spans []trace.SpanRecord
	for _, batch := range batches {
		scopes := batch.ScopeSpans
		if len(scopes) == 0 {
			scopes = batch.InstrumentationLibrarySpans
		}
		for _, scope := range scopes {
			for _, rs := range scope.Spans {
				record, err := c.convertSpan(rs)
				if err != nil {
					c.logger.Warn("dropping malformed span", zap.Error(err))
					continue
				}
				spans = append(spans, record)
			}
		}
	}
	return spans, nil
}

func (c *Converter) convertSpan(raw rawSpan) (trace.SpanRecord, error) {
	if raw.SpanID == "" {
		return trace.SpanRecord{}, fmt.Errorf("span %q has no id", raw.Name)
	}

	start := int64(raw.StartTimeUnixNano)
	end := int64(raw.EndTimeUnixNano)

	var duration int64
	switch {
	case raw.DurationNanos != nil:
		duration = int64(*raw.DurationNanos)
	case end > start:
		duration = end - start
	default:
		duration = 0
	}

	return trace.SpanRecord{
		ID:            raw.SpanID,
		ParentID:      raw.ParentSpanID,
		TraceID:       raw.TraceID,
		Name:          raw.Name,
		Kind:          trace.ParseKind(raw.Kind),
		StartNanos:    start,
		EndNanos:      end,
		DurationNanos: duration,
		Attributes:    decodeAttributes(raw.Attributes),
	}, nil
}

// decodeAttributes flattens attribute variants to strings. Each attribute
// carries at most one variant; decoding priority is string, integer, double,
// bool. Attributes with no value in any variant are dropped.
func decodeAttributes(attrs []rawAttribute) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for _, attr := range attrs {
		switch {
		case attr.Value.StringValue != nil:
			out[attr.Key] = *attr.Value.StringValue
		case attr.Value.IntValue != nil:
			out[attr.Key] = strconv.FormatInt(int64(*attr.Value.IntValue), 10)
		case attr.Value.DoubleValue != nil:
			out[attr.Key] = strconv.FormatFloat(*attr.Value.DoubleValue, 'f', -1, 64)
		case attr.Value.BoolValue != nil:
			out[attr.Key] = strconv.FormatBool(*attr.Value.BoolValue)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
