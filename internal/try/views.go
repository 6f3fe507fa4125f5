package try

import "github.com/whitesnakegang/ouroboros-sub007/internal/try/trace"

// Summary is the condensed query result for one debug session.
type Summary struct {
	Identifier      string       `json:"identifier"`
	TraceID         string       `json:"traceId,omitempty"`
	Status          trace.Status `json:"status"`
	HTTPStatusCode  int          `json:"httpStatusCode,omitempty"`
	TotalDurationMs int64        `json:"totalDurationMs"`
	SpanCount       int          `json:"spanCount"`
	IssueCount      int          `json:"issueCount"`
}

// TraceView is the reconstructed call tree for one session.
type TraceView struct {
	Identifier      string            `json:"identifier,omitempty"`
	TraceID         string            `json:"traceId,omitempty"`
	Status          trace.Status      `json:"status"`
	TotalDurationMs int64             `json:"totalDurationMs"`
	RootNodes       []*trace.SpanNode `json:"rootNodes"`
}

// IssuesView is the detected-bottleneck list for one session.
type IssuesView struct {
	Identifier string        `json:"identifier"`
	Status     trace.Status  `json:"status"`
	Issues     []trace.Issue `json:"issues"`
}
