package try

import (
	"errors"
	"fmt"

	"github.com/whitesnakegang/ouroboros-sub007/internal/shared/id"
)

var (
	// ErrInvalidIdentifier rejects malformed session identifiers at the
	// boundary, before any storage or backend access.
	ErrInvalidIdentifier = errors.New("invalid try identifier")

	// ErrNotFound marks a trace lookup that resolved to nothing.
	ErrNotFound = errors.New("trace not found")

	// ErrBackendUnavailable marks the external trace backend as unreachable
	// or disabled. Bundle queries degrade to PENDING instead of surfacing it.
	ErrBackendUnavailable = errors.New("trace backend unavailable")
)

// ParseIdentifier validates the textual identifier form. It is the single
// entry point for caller-supplied identifiers; everything past it works with
// the typed TryID.
func ParseIdentifier(s string) (id.TryID, error) {
	tryID, err := id.ParseTryID(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidIdentifier, err)
	}
	return tryID, nil
}
