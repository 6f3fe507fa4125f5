// Package resilience provides a circuit breaker guarding calls to the
// external trace backend. While the circuit is open the retriever reports
// the backend as unavailable and bundle queries degrade to PENDING instead
// of piling timeouts onto the host request.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned when the circuit rejects a call outright.
var ErrOpen = errors.New("circuit breaker is open")

// State represents the circuit state.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures trip and recovery behavior.
type Settings struct {
	// FailureThreshold is the number of consecutive failures that opens the
	// circuit.
	FailureThreshold int
	// Cooldown is how long the circuit stays open before allowing a probe.
	Cooldown time.Duration
	// OnStateChange is invoked on every transition.
	OnStateChange func(name string, from, to State)
}

// Breaker implements a consecutive-failure circuit breaker.
type Breaker struct {
	name     string
	settings Settings

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
}

// New creates a breaker. Zero-valued settings get conservative defaults.
func New(name string, settings Settings) *Breaker {
	if settings.FailureThreshold <= 0 {
		settings.FailureThreshold = 5
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = 30 * time.Second
	}
	return &Breaker{
		name:     name,
		settings: settings,
		state:    StateClosed,
	}
}

// Name returns the breaker's name.
func (b *Breaker) Name() string { return b.name }

// State returns the current state, accounting for cooldown expiry.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked(time.Now())
}

// Do runs fn if the circuit allows it, recording the outcome.
func (b *Breaker) Do(fn func() error) error {
	if !b.allow() {
		return ErrOpen
	}

	err := fn()
	b.record(err == nil)
	return err
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked(time.Now()) != StateOpen
}

func (b *Breaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	state := b.stateLocked(now)

	if success {
		b.failures = 0
		if state != StateClosed {
			b.transition(state, StateClosed, now)
		}
		return
	}

	b.failures++
	if state == StateHalfOpen || b.failures >= b.settings.FailureThreshold {
		if state != StateOpen {
			b.transition(state, StateOpen, now)
		}
		b.openedAt = now
	}
}

// stateLocked resolves the effective state, promoting open to half-open once
// the cooldown has elapsed. Callers must hold b.mu.
func (b *Breaker) stateLocked(now time.Time) State {
	if b.state == StateOpen && now.Sub(b.openedAt) >= b.settings.Cooldown {
		b.transition(StateOpen, StateHalfOpen, now)
	}
	return b.state
}

func (b *Breaker) transition(from, to State, now time.Time) {
	b.state = to
	if to == StateClosed {
		b.failures = 0
	}
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, from, to)
	}
}
