package normalize

import (
	"bytes"
	"strconv"
)

// Raw payload shapes as Tempo-style backends return them. Both the "batches"
// (Tempo HTTP API) and "resourceSpans" (plain OTLP JSON) envelopes appear in
// the wild, as do "scopeSpans" and the older "instrumentationLibrarySpans".

type payload struct {
	Batches       []resourceSpans `json:"batches"`
	ResourceSpans []resourceSpans `json:"resourceSpans"`
}

type resourceSpans struct {
	ScopeSpans                  []scopeSpans `json:"scopeSpans"`
	InstrumentationLibrarySpans []scopeSpans `json:"instrumentationLibrarySpans"`
}

type scopeSpans struct {
	Spans []rawSpan `json:"spans"`
}

type rawSpan struct {
	TraceID           string         `json:"traceId"`
	SpanID            string         `json:"spanId"`
	ParentSpanID      string         `json:"parentSpanId"`
	Name              string         `json:"name"`
	Kind              string         `json:"kind"`
	StartTimeUnixNano flexInt64      `json:"startTimeUnixNano"`
	EndTimeUnixNano   flexInt64      `json:"endTimeUnixNano"`
	DurationNanos     *flexInt64     `json:"durationNanos"`
	Attributes        []rawAttribute `json:"attributes"`
}

type rawAttribute struct {
	Key   string   `json:"key"`
	Value rawValue `json:"value"`
}

// rawValue carries at most one of the variant fields. Pointers distinguish
// "absent" from zero values.
type rawValue struct {
	StringValue *string    `json:"stringValue"`
	IntValue    *flexInt64 `json:"intValue"`
	DoubleValue *float64   `json:"doubleValue"`
	BoolValue   *bool      `json:"boolValue"`
}

// flexInt64 decodes an int64 that protojson-style encoders emit as either a
// JSON number or a quoted string (uint64 fields are strings in OTLP JSON).
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*f = flexInt64(v)
	return nil
}
