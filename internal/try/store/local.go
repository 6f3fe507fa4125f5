package store

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/whitesnakegang/ouroboros-sub007/internal/shared/id"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/trace"
)

// Local buffers spans in process memory, keyed by session identifier, with a
// reverse index from backend trace ID to identifier.
//
// Sessions are kept until explicitly deleted; there is no automatic TTL.
// MaxSessions (0 = unlimited) bounds memory by evicting the oldest session
// when a new one would exceed the cap.
type Local struct {
	mu          sync.RWMutex
	sessions    map[id.TryID]*localSession
	byTrace     map[string]id.TryID
	order       []id.TryID
	maxSessions int
	logger      *zap.Logger
}

type localSession struct {
	mu      sync.Mutex
	spans   []trace.SpanRecord
	traceID string
	created time.Time
}

// NewLocal creates an in-process span store.
func NewLocal(maxSessions int, logger *zap.Logger) *Local {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Local{
		sessions:    make(map[id.TryID]*localSession),
		byTrace:     make(map[string]id.TryID),
		maxSessions: maxSessions,
		logger:      logger,
	}
}

// Append records a completed span. Contention is limited to the identifier's
// own bucket except when a new session or trace ID mapping is created.
func (l *Local) Append(tryID id.TryID, span trace.SpanRecord) {
	sess := l.session(tryID)

	sess.mu.Lock()
	sess.spans = append(sess.spans, span)
	needIndex := span.TraceID != "" && sess.traceID == ""
	if needIndex {
		sess.traceID = span.TraceID
	}
	sess.mu.Unlock()

	if needIndex {
		l.mu.Lock()
		// Index only while this session is still the live one for tryID;
		// a concurrent Delete between the bucket write and here must not
		// leave a stale mapping behind.
		if cur, ok := l.sessions[tryID]; ok && cur == sess {
			l.byTrace[span.TraceID] = tryID
		}
		l.mu.Unlock()
	}
}

func (l *Local) session(tryID id.TryID) *localSession {
	l.mu.RLock()
	sess, ok := l.sessions[tryID]
	l.mu.RUnlock()
	if ok {
		return sess
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if sess, ok = l.sessions[tryID]; ok {
		return sess
	}

	if l.maxSessions > 0 && len(l.order) >= l.maxSessions {
		oldest := l.order[0]
		l.order = l.order[1:]
		l.evictLocked(oldest)
	}

	sess = &localSession{created: time.Now()}
	l.sessions[tryID] = sess
	l.order = append(l.order, tryID)
	return sess
}

func (l *Local) evictLocked(tryID id.TryID) {
	sess, ok := l.sessions[tryID]
	if !ok {
		return
	}
	delete(l.sessions, tryID)
	sess.mu.Lock()
	traceID := sess.traceID
	sess.mu.Unlock()
	if traceID != "" {
		delete(l.byTrace, traceID)
	}
	l.logger.Warn("evicted oldest debug session",
		zap.String("try_id", tryID.String()),
		zap.Int("max_sessions", l.maxSessions),
	)
}

// ByIdentifier returns a copy of the spans recorded for tryID.
func (l *Local) ByIdentifier(tryID id.TryID) ([]trace.SpanRecord, bool) {
	l.mu.RLock()
	sess, ok := l.sessions[tryID]
	l.mu.RUnlock()
	if !ok {
		return nil, false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	spans := make([]trace.SpanRecord, len(sess.spans))
	copy(spans, sess.spans)
	return spans, true
}

// ByTraceID resolves a backend trace ID through the reverse index.
func (l *Local) ByTraceID(traceID string) (id.TryID, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	tryID, ok := l.byTrace[traceID]
	return tryID, ok
}

// Exists reports whether tryID has a session.
func (l *Local) Exists(tryID id.TryID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.sessions[tryID]
	return ok
}

// Delete removes the session and both index entries.
func (l *Local) Delete(tryID id.TryID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	sess, ok := l.sessions[tryID]
	if !ok {
		return false
	}
	delete(l.sessions, tryID)
	sess.mu.Lock()
	traceID := sess.traceID
	sess.mu.Unlock()
	if traceID != "" {
		delete(l.byTrace, traceID)
	}
	for i, other := range l.order {
		if other == tryID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// Sessions lists stored sessions, oldest first.
func (l *Local) Sessions() []Session {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Session, 0, len(l.order))
	for _, tryID := range l.order {
		sess, ok := l.sessions[tryID]
		if !ok {
			continue
		}
		sess.mu.Lock()
		out = append(out, Session{
			Identifier: tryID,
			TraceID:    sess.traceID,
			SpanCount:  len(sess.spans),
			Created:    sess.created,
		})
		sess.mu.Unlock()
	}
	return out
}
