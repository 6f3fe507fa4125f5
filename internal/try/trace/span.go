package trace

import "strings"

// Kind classifies the role a span played in the request flow.
type Kind string

const (
	KindUnspecified Kind = "UNSPECIFIED"
	KindInternal    Kind = "INTERNAL"
	KindServer      Kind = "SERVER"
	KindClient      Kind = "CLIENT"
	KindProducer    Kind = "PRODUCER"
	KindConsumer    Kind = "CONSUMER"
)

// ParseKind maps a backend kind string to the canonical Kind.
// Unrecognized or absent values map to KindInternal.
func ParseKind(s string) Kind {
	k := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "SPAN_KIND_"))
	switch Kind(k) {
	case KindInternal, KindServer, KindClient, KindProducer, KindConsumer, KindUnspecified:
		return Kind(k)
	default:
		return KindInternal
	}
}

// SpanRecord is one timed unit of work in canonical form.
// Immutable once normalized.
type SpanRecord struct {
	ID            string            `json:"id"`
	ParentID      string            `json:"parentId,omitempty"`
	TraceID       string            `json:"traceId,omitempty"`
	Name          string            `json:"name"`
	Kind          Kind              `json:"kind"`
	StartNanos    int64             `json:"startNanos"`
	EndNanos      int64             `json:"endNanos"`
	DurationNanos int64             `json:"durationNanos"`
	Attributes    map[string]string `json:"attributes,omitempty"`
}

// DurationMs returns the span duration in whole milliseconds (truncating).
func (s SpanRecord) DurationMs() int64 {
	return s.DurationNanos / 1_000_000
}

// TotalDurationMs computes the wall-clock extent of a trace in milliseconds:
// latest end minus earliest start over all spans.
func TotalDurationMs(spans []SpanRecord) int64 {
	if len(spans) == 0 {
		return 0
	}
	minStart := spans[0].StartNanos
	maxEnd := spans[0].EndNanos
	for _, s := range spans[1:] {
		if s.StartNanos < minStart {
			minStart = s.StartNanos
		}
		if s.EndNanos > maxEnd {
			maxEnd = s.EndNanos
		}
	}
	if maxEnd < minStart {
		return 0
	}
	return (maxEnd - minStart) / 1_000_000
}

// SpanNode wraps a SpanRecord with its position in the reconstructed call
// tree and its timing breakdown. Built transiently per retrieval.
type SpanNode struct {
	Span           SpanRecord  `json:"span"`
	Children       []*SpanNode `json:"children,omitempty"`
	DurationMs     int64       `json:"durationMs"`
	SelfDurationMs int64       `json:"selfDurationMs"`
	Percentage     float64     `json:"percentage"`
	SelfPercentage float64     `json:"selfPercentage"`
}

// IssueType names the kind of bottleneck a heuristic flagged.
type IssueType string

const (
	IssueSlowHTTP    IssueType = "SLOW_HTTP"
	IssueDBQuerySlow IssueType = "DB_QUERY_SLOW"
	IssueNPlusOne    IssueType = "N_PLUS_ONE"
	IssueSlowSpan    IssueType = "SLOW_SPAN"
)

// Severity ranks how much of the request a flagged span consumed.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Issue is one flagged bottleneck with supporting evidence.
type Issue struct {
	Type           IssueType `json:"type"`
	Severity       Severity  `json:"severity"`
	Summary        string    `json:"summary"`
	SpanName       string    `json:"spanName"`
	DurationMs     int64     `json:"durationMs"`
	Evidence       []string  `json:"evidence,omitempty"`
	Recommendation string    `json:"recommendation"`
}

// Status tracks the lifecycle of a trace bundle retrieval.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusNotFound  Status = "NOT_FOUND"
)

// TraceBundle is the fully assembled result for one debug session.
type TraceBundle struct {
	Identifier      string      `json:"identifier"`
	TraceID         string      `json:"traceId,omitempty"`
	Status          Status      `json:"status"`
	Error           string      `json:"error,omitempty"`
	TotalDurationMs int64       `json:"totalDurationMs"`
	SpanCount       int         `json:"spanCount"`
	RootNodes       []*SpanNode `json:"rootNodes,omitempty"`
	Issues          []Issue     `json:"issues,omitempty"`
}
