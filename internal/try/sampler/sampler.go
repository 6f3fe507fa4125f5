// Package sampler is the pre-span gate deciding whether a request is
// instrumented at all. Decisions are pure: no I/O, no allocation beyond the
// result, and no spans are created while deciding. When the decision is
// Drop, no span-recording work happens anywhere downstream.
package sampler

import (
	"context"

	"github.com/whitesnakegang/ouroboros-sub007/internal/try/propagate"
)

// Decision is the gate outcome for one request or call site.
type Decision int

const (
	// Drop means no instrumentation for this request.
	Drop Decision = iota
	// Record means spans are captured for this request.
	Record
)

// String returns the string representation of the decision.
func (d Decision) String() string {
	switch d {
	case Record:
		return "record"
	case Drop:
		return "drop"
	default:
		return "unknown"
	}
}

// Decide evaluates the transport-supplied debug flag for an inbound request.
func Decide(debugRequested bool) Decision {
	if debugRequested {
		return Record
	}
	return Drop
}

// DecideFromContext is the fallback for call sites where the raw transport
// signal is unreachable (nested and internal spans): Record iff a session
// identifier is currently attached.
func DecideFromContext(ctx context.Context) Decision {
	if _, ok := propagate.FromContext(ctx); ok {
		return Record
	}
	return Drop
}
