package retrieve

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whitesnakegang/ouroboros-sub007/internal/shared/id"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/backend"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/normalize"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/store"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/trace"
)

func TestPollResolvesOnLaterAttempt(t *testing.T) {
	tryID := id.NewTryID()
	var calls int32

	search := func(ctx context.Context, got id.TryID) ([]string, error) {
		require.Equal(t, tryID, got)
		if atomic.AddInt32(&calls, 1) < 3 {
			return nil, nil
		}
		return []string{"trace-3"}, nil
	}

	start := time.Now()
	traceID, err := poll(context.Background(), tryID, 3, 100*time.Millisecond, search)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, "trace-3", traceID)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond, "two sleeps must elapse before the third attempt")
}

func TestPollGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	search := func(context.Context, id.TryID) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	}

	start := time.Now()
	traceID, err := poll(context.Background(), id.NewTryID(), 3, 20*time.Millisecond, search)

	require.NoError(t, err)
	assert.Empty(t, traceID)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	assert.Less(t, time.Since(start), 200*time.Millisecond, "poll must not block past maxAttempts x interval")
}

func TestPollStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	search := func(context.Context, id.TryID) ([]string, error) {
		cancel()
		return nil, nil
	}

	_, err := poll(ctx, id.NewTryID(), 5, time.Second, search)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPollReportsFinalError(t *testing.T) {
	searchErr := errors.New("backend down")
	search := func(context.Context, id.TryID) ([]string, error) {
		return nil, searchErr
	}

	_, err := poll(context.Background(), id.NewTryID(), 2, time.Millisecond, search)
	assert.ErrorIs(t, err, searchErr)
}

func TestLocalRetriever(t *testing.T) {
	local := store.NewLocal(0, nil)
	tryID := id.NewTryID()
	local.Append(tryID, trace.SpanRecord{ID: "s1", TraceID: "t1", Name: "op", DurationNanos: 1})

	r := NewLocal(local)
	require.True(t, r.Available())

	t.Run("poll resolves immediately", func(t *testing.T) {
		start := time.Now()
		traceID, err := r.Poll(context.Background(), tryID, 10, time.Second)
		require.NoError(t, err)
		assert.Equal(t, "t1", traceID)
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("fetch returns buffered spans", func(t *testing.T) {
		spans, err := r.Fetch(context.Background(), "t1")
		require.NoError(t, err)
		require.Len(t, spans, 1)
		assert.Equal(t, "s1", spans[0].ID)
	})

	t.Run("unknown identifier polls empty", func(t *testing.T) {
		traceID, err := r.Poll(context.Background(), id.NewTryID(), 10, time.Second)
		require.NoError(t, err)
		assert.Empty(t, traceID)
	})

	t.Run("unknown trace fetches nil", func(t *testing.T) {
		spans, err := r.Fetch(context.Background(), "missing")
		require.NoError(t, err)
		assert.Nil(t, spans)
	})
}

func TestBackendRetrieverFetchNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/search":
			_, _ = w.Write([]byte(`{"traces":[{"traceID":"t9"}]}`))
		case "/api/traces/t9":
			_, _ = w.Write([]byte(`{"batches":[{"scopeSpans":[{"spans":[
				{"traceId":"t9","spanId":"s1","name":"GET /x","kind":"SPAN_KIND_SERVER",
				 "startTimeUnixNano":"0","endTimeUnixNano":"1000000"}
			]}]}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := backend.New(backend.Config{URL: srv.URL, Timeout: time.Second}, nil)
	r := NewBackend(client, normalize.New(nil), nil)
	require.True(t, r.Available())

	traceID, err := r.Poll(context.Background(), id.NewTryID(), 3, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "t9", traceID)

	spans, err := r.Fetch(context.Background(), traceID)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, trace.KindServer, spans[0].Kind)
}
