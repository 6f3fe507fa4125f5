// Package id provides centralized ID generation for the try engine.
//
// Two ID families exist:
//   - TryID: the opaque per-request debug-session token, a canonical UUID
//     string. Minted once per marked request and never reused.
//   - Span/trace IDs: random hex tokens in the wire format trace backends
//     expect (8-byte span IDs, 16-byte trace IDs).
//
// Typed wrappers keep the families from being mixed up at compile time.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// TryID identifies one debug session (one marked request).
type TryID string

// SpanID identifies a single span.
type SpanID string

// TraceID identifies a complete trace in backend wire format.
type TraceID string

// NewTryID mints a new session identifier.
func NewTryID() TryID {
	return TryID(uuid.NewString())
}

// ParseTryID validates the canonical UUID textual form.
func ParseTryID(s string) (TryID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("malformed try identifier %q: %w", s, err)
	}
	// Normalize to the canonical lowercase hyphenated form.
	return TryID(parsed.String()), nil
}

// IsValidTryID reports whether s is a well-formed session identifier.
func IsValidTryID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// NewSpanID generates a random 8-byte span ID in hex.
func NewSpanID() SpanID {
	return SpanID(randomHex(8))
}

// NewTraceID generates a random 16-byte trace ID in hex.
func NewTraceID() TraceID {
	return TraceID(randomHex(16))
}

func (t TryID) String() string   { return string(t) }
func (s SpanID) String() string  { return string(s) }
func (t TraceID) String() string { return string(t) }

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf)
}
