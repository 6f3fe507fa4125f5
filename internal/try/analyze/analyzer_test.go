package analyze

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whitesnakegang/ouroboros-sub007/internal/try/trace"
)

func ms(n int64) int64 { return n * 1_000_000 }

func span(id, parent, name string, kind trace.Kind, durMs int64) trace.SpanRecord {
	return trace.SpanRecord{
		ID:            id,
		ParentID:      parent,
		Name:          name,
		Kind:          kind,
		StartNanos:    0,
		EndNanos:      ms(durMs),
		DurationNanos: ms(durMs),
	}
}

func TestAnalyzeSlowRepositoryCall(t *testing.T) {
	// A 1000ms request whose repository call takes 600ms.
	spans := []trace.SpanRecord{
		span("s1", "", "handleRequest", trace.KindServer, 1000),
		span("s2", "s1", "repository.findAll", trace.KindInternal, 600),
	}

	issues := New(Config{}, nil).Analyze(spans, 1000)
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, trace.IssueDBQuerySlow, issue.Type)
	assert.Equal(t, trace.SeverityHigh, issue.Severity)
	assert.Equal(t, "repository.findAll", issue.SpanName)
	assert.Equal(t, int64(600), issue.DurationMs)
	assert.NotEmpty(t, issue.Evidence)
	assert.NotEmpty(t, issue.Recommendation)
}

func TestAnalyzeClassificationPriority(t *testing.T) {
	tests := []struct {
		name     string
		span     trace.SpanRecord
		expected trace.IssueType
	}{
		{
			name:     "repository name wins over client kind",
			span:     span("s", "", "UserRepository.query", trace.KindClient, 500),
			expected: trace.IssueDBQuerySlow,
		},
		{
			name:     "client kind is a slow HTTP call",
			span:     span("s", "", "call payment service", trace.KindClient, 500),
			expected: trace.IssueSlowHTTP,
		},
		{
			name:     "method-prefixed name is a slow HTTP call",
			span:     span("s", "", "GET /inventory", trace.KindInternal, 500),
			expected: trace.IssueSlowHTTP,
		},
		{
			name:     "anything else is a generic slow span",
			span:     span("s", "", "renderTemplate", trace.KindInternal, 500),
			expected: trace.IssueSlowSpan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := New(Config{}, nil).Analyze([]trace.SpanRecord{tt.span}, 1000)
			require.Len(t, issues, 1, "one span must yield at most one issue")
			assert.Equal(t, tt.expected, issues[0].Type)
		})
	}
}

func TestAnalyzeSeverityBands(t *testing.T) {
	tests := []struct {
		durMs    int64
		expected trace.Severity
	}{
		{200, trace.SeverityLow},      // 20%
		{240, trace.SeverityLow},      // 24%
		{250, trace.SeverityMedium},   // 25%
		{490, trace.SeverityMedium},   // 49%
		{500, trace.SeverityHigh},     // 50%
		{740, trace.SeverityHigh},     // 74%
		{750, trace.SeverityCritical}, // 75%
		{1000, trace.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dms", tt.durMs), func(t *testing.T) {
			spans := []trace.SpanRecord{span("s", "", "work", trace.KindInternal, tt.durMs)}
			issues := New(Config{}, nil).Analyze(spans, 1000)
			require.Len(t, issues, 1)
			assert.Equal(t, tt.expected, issues[0].Severity)
		})
	}
}

func TestAnalyzeBelowThresholdIsQuiet(t *testing.T) {
	spans := []trace.SpanRecord{
		span("s1", "", "handleRequest", trace.KindServer, 1000),
		span("s2", "s1", "fastOperation", trace.KindInternal, 199),
	}

	assert.Empty(t, New(Config{}, nil).Analyze(spans, 1000))
}

func TestAnalyzeNPlusOne(t *testing.T) {
	// Ten sibling repository calls, each 5% of the total: below the slow-span
	// threshold individually, but structurally an N+1.
	spans := []trace.SpanRecord{span("p", "", "handleRequest", trace.KindServer, 1000)}
	for i := 0; i < 10; i++ {
		spans = append(spans, span(fmt.Sprintf("c%d", i), "p", "repository.findById", trace.KindInternal, 50))
	}

	issues := New(Config{}, nil).Analyze(spans, 1000)
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, trace.IssueNPlusOne, issue.Type)
	assert.Equal(t, "repository.findById", issue.SpanName)
	assert.Equal(t, int64(500), issue.DurationMs)
	assert.Equal(t, trace.SeverityHigh, issue.Severity, "ten 5%% spans combine to 50%%")
}

func TestAnalyzeNPlusOneGroupsByNormalizedName(t *testing.T) {
	spans := []trace.SpanRecord{span("p", "", "handleRequest", trace.KindServer, 1000)}
	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("repository.findById(%d)", i)
		spans = append(spans, span(fmt.Sprintf("c%d", i), "p", name, trace.KindInternal, 10))
	}

	issues := New(Config{}, nil).Analyze(spans, 1000)
	require.Len(t, issues, 1)
	assert.Equal(t, trace.IssueNPlusOne, issues[0].Type)
}

func TestAnalyzeNPlusOneRequiresSameParent(t *testing.T) {
	// Six repetitions split across two parents never exceed the threshold.
	var spans []trace.SpanRecord
	for i := 0; i < 3; i++ {
		spans = append(spans, span(fmt.Sprintf("a%d", i), "p1", "repository.findById", trace.KindInternal, 10))
		spans = append(spans, span(fmt.Sprintf("b%d", i), "p2", "repository.findById", trace.KindInternal, 10))
	}

	assert.Empty(t, New(Config{}, nil).Analyze(spans, 1000))
}

func TestAnalyzeZeroTotalDuration(t *testing.T) {
	spans := []trace.SpanRecord{span("s", "", "work", trace.KindInternal, 100)}
	assert.Empty(t, New(Config{}, nil).Analyze(spans, 0), "zero total must not divide")
}

func TestAnalyzeConfigurableThresholds(t *testing.T) {
	cfg := Config{CandidatePercent: 50, HighPercent: 60, CriticalPercent: 90, MediumPercent: 55, NPlusOneThreshold: 2}
	spans := []trace.SpanRecord{
		span("s1", "", "work", trace.KindInternal, 400), // 40%, below raised threshold
		span("s2", "", "other", trace.KindInternal, 700),
	}

	issues := New(cfg, nil).Analyze(spans, 1000)
	require.Len(t, issues, 1)
	assert.Equal(t, "other", issues[0].SpanName)
	assert.Equal(t, trace.SeverityHigh, issues[0].Severity)
}

func TestAnalyzeOrdersByDuration(t *testing.T) {
	spans := []trace.SpanRecord{
		span("s1", "", "medium", trace.KindInternal, 300),
		span("s2", "", "slowest", trace.KindInternal, 600),
	}

	issues := New(Config{}, nil).Analyze(spans, 1000)
	require.Len(t, issues, 2)
	assert.Equal(t, "slowest", issues[0].SpanName)
	assert.Equal(t, "medium", issues[1].SpanName)
}
