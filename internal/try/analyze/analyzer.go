// Package analyze applies threshold and pattern heuristics to a flat span
// list to flag likely performance bottlenecks.
package analyze

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/whitesnakegang/ouroboros-sub007/internal/try/trace"
)

// Config holds detection thresholds. All percentages are shares of total
// request duration.
type Config struct {
	// CandidatePercent is the share of total duration at which a span
	// becomes a bottleneck candidate.
	CandidatePercent float64
	// Severity band lower bounds.
	MediumPercent   float64
	HighPercent     float64
	CriticalPercent float64
	// NPlusOneThreshold is the sibling repetition count above which a group
	// of identical data-access spans is flagged.
	NPlusOneThreshold int
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		CandidatePercent:  20,
		MediumPercent:     25,
		HighPercent:       50,
		CriticalPercent:   75,
		NPlusOneThreshold: 5,
	}
}

// Analyzer produces ranked issues from a flat span list.
type Analyzer struct {
	cfg    Config
	logger *zap.Logger
}

// New creates an analyzer. Zero thresholds fall back to the defaults.
func New(cfg Config, logger *zap.Logger) *Analyzer {
	def := DefaultConfig()
	if cfg.CandidatePercent <= 0 {
		cfg.CandidatePercent = def.CandidatePercent
	}
	if cfg.MediumPercent <= 0 {
		cfg.MediumPercent = def.MediumPercent
	}
	if cfg.HighPercent <= 0 {
		cfg.HighPercent = def.HighPercent
	}
	if cfg.CriticalPercent <= 0 {
		cfg.CriticalPercent = def.CriticalPercent
	}
	if cfg.NPlusOneThreshold <= 0 {
		cfg.NPlusOneThreshold = def.NPlusOneThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

var recommendations = map[trace.IssueType]string{
	trace.IssueDBQuerySlow: "Review the query plan and indexes for this data access; consider fetching less data or caching the result.",
	trace.IssueSlowHTTP:    "Review the remote call: add a timeout, parallelize with other work, or cache the response.",
	trace.IssueNPlusOne:    "Batch the repeated lookups into a single query or add eager loading on the parent fetch.",
	trace.IssueSlowSpan:    "Review the implementation of this operation; it dominates the request's latency.",
}

// Analyze flags bottleneck spans and structural patterns. A panic inside a
// heuristic is recovered and yields an empty issue list: analysis is
// diagnostic tooling and must never fail the host request.
func (a *Analyzer) Analyze(spans []trace.SpanRecord, totalDurationMs int64) (issues []trace.Issue) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("issue analysis panicked", zap.Any("panic", r))
			issues = nil
		}
	}()

	issues = append(issues, a.slowSpans(spans, totalDurationMs)...)
	issues = append(issues, a.nPlusOne(spans, totalDurationMs)...)

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].DurationMs > issues[j].DurationMs
	})
	return issues
}

// slowSpans applies the percentage threshold with first-match-wins
// classification, so each span yields at most one issue.
func (a *Analyzer) slowSpans(spans []trace.SpanRecord, totalDurationMs int64) []trace.Issue {
	if totalDurationMs <= 0 {
		return nil
	}

	var issues []trace.Issue
	for _, s := range spans {
		// The inbound request span is the denominator of every percentage;
		// flagging it would flag every trace.
		if s.Kind == trace.KindServer {
			continue
		}
		pct := float64(s.DurationMs()) / float64(totalDurationMs) * 100
		if pct < a.cfg.CandidatePercent {
			continue
		}

		issueType := trace.IssueSlowSpan
		switch {
		case isDataAccess(s.Name):
			issueType = trace.IssueDBQuerySlow
		case isHTTPCall(s):
			issueType = trace.IssueSlowHTTP
		}

		issues = append(issues, trace.Issue{
			Type:       issueType,
			Severity:   a.severity(pct),
			Summary:    fmt.Sprintf("%s took %.1f%% of the request", s.Name, pct),
			SpanName:   s.Name,
			DurationMs: s.DurationMs(),
			Evidence: []string{
				fmt.Sprintf("duration: %dms", s.DurationMs()),
				fmt.Sprintf("share of total: %.1f%%", pct),
				fmt.Sprintf("kind: %s", s.Kind),
			},
			Recommendation: recommendations[issueType],
		})
	}
	return issues
}

// nPlusOne flags groups of identical data-access spans repeated under one
// parent. The rule is structural: it fires regardless of how slow each
// individual span is.
func (a *Analyzer) nPlusOne(spans []trace.SpanRecord, totalDurationMs int64) []trace.Issue {
	type group struct {
		count      int
		durationMs int64
		name       string
	}
	groups := make(map[string]*group)
	var keys []string

	for _, s := range spans {
		if !isDataAccess(s.Name) {
			continue
		}
		key := s.ParentID + "\x00" + normalizeName(s.Name)
		g, ok := groups[key]
		if !ok {
			g = &group{name: s.Name}
			groups[key] = g
			keys = append(keys, key)
		}
		g.count++
		g.durationMs += s.DurationMs()
	}

	var issues []trace.Issue
	for _, key := range keys {
		g := groups[key]
		if g.count <= a.cfg.NPlusOneThreshold {
			continue
		}

		severity := trace.SeverityLow
		if totalDurationMs > 0 {
			severity = a.severityFloorLow(float64(g.durationMs) / float64(totalDurationMs) * 100)
		}

		issues = append(issues, trace.Issue{
			Type:       trace.IssueNPlusOne,
			Severity:   severity,
			Summary:    fmt.Sprintf("%s executed %d times under the same parent", g.name, g.count),
			SpanName:   g.name,
			DurationMs: g.durationMs,
			Evidence: []string{
				fmt.Sprintf("repetitions: %d", g.count),
				fmt.Sprintf("combined duration: %dms", g.durationMs),
			},
			Recommendation: recommendations[trace.IssueNPlusOne],
		})
	}
	return issues
}

// severity maps a percentage to its band. Callers only pass values at or
// above the candidate threshold.
func (a *Analyzer) severity(pct float64) trace.Severity {
	switch {
	case pct >= a.cfg.CriticalPercent:
		return trace.SeverityCritical
	case pct >= a.cfg.HighPercent:
		return trace.SeverityHigh
	case pct >= a.cfg.MediumPercent:
		return trace.SeverityMedium
	default:
		return trace.SeverityLow
	}
}

// severityFloorLow is severity for aggregate percentages that may fall
// below the candidate threshold.
func (a *Analyzer) severityFloorLow(pct float64) trace.Severity {
	if pct < a.cfg.CandidatePercent {
		return trace.SeverityLow
	}
	return a.severity(pct)
}

// isDataAccess matches the data-access naming convention instrumented code
// follows (SomethingRepository.method, "query" in the span name, SQL verbs).
func isDataAccess(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "repository") ||
		strings.Contains(lower, "query") ||
		strings.HasPrefix(lower, "select ") ||
		strings.HasPrefix(lower, "insert ") ||
		strings.HasPrefix(lower, "update ") ||
		strings.HasPrefix(lower, "delete ")
}

var httpMethods = []string{"GET ", "POST ", "PUT ", "DELETE ", "PATCH ", "HEAD ", "OPTIONS "}

// isHTTPCall matches outbound HTTP spans: CLIENT kind, or the method-first
// naming convention HTTP instrumentation uses.
func isHTTPCall(s trace.SpanRecord) bool {
	if s.Kind == trace.KindClient {
		return true
	}
	upper := strings.ToUpper(s.Name)
	for _, m := range httpMethods {
		if strings.HasPrefix(upper, m) {
			return true
		}
	}
	return strings.HasPrefix(upper, "HTTP ")
}

// normalizeName collapses trailing identifiers so "findById(42)" and
// "findById(43)" group together.
func normalizeName(name string) string {
	if i := strings.IndexAny(name, "(["); i > 0 {
		return name[:i]
	}
	return name
}
