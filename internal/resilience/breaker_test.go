package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	b := New("test", Settings{FailureThreshold: 3, Cooldown: time.Minute})

	for i := 0; i < 10; i++ {
		require.NoError(t, b.Do(func() error { return nil }))
	}
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := New("test", Settings{FailureThreshold: 3, Cooldown: time.Minute})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Do(func() error { return errBoom }), errBoom)
	}
	assert.Equal(t, StateOpen, b.State())

	err := b.Do(func() error {
		t.Fatal("call should not run while open")
		return nil
	})
	assert.ErrorIs(t, err, ErrOpen)
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := New("test", Settings{FailureThreshold: 3, Cooldown: time.Minute})

	_ = b.Do(func() error { return errBoom })
	_ = b.Do(func() error { return errBoom })
	require.NoError(t, b.Do(func() error { return nil }))
	_ = b.Do(func() error { return errBoom })
	_ = b.Do(func() error { return errBoom })

	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b := New("test", Settings{FailureThreshold: 1, Cooldown: 10 * time.Millisecond})

	_ = b.Do(func() error { return errBoom })
	require.Equal(t, StateOpen, b.State())

	time.Sleep(15 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, b.State())

	// A successful probe closes the circuit.
	require.NoError(t, b.Do(func() error { return nil }))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b := New("test", Settings{FailureThreshold: 1, Cooldown: 10 * time.Millisecond})

	_ = b.Do(func() error { return errBoom })
	time.Sleep(15 * time.Millisecond)
	require.Equal(t, StateHalfOpen, b.State())

	_ = b.Do(func() error { return errBoom })
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerStateChangeCallback(t *testing.T) {
	var transitions []State
	b := New("test", Settings{
		FailureThreshold: 1,
		Cooldown:         time.Minute,
		OnStateChange: func(name string, from, to State) {
			assert.Equal(t, "test", name)
			transitions = append(transitions, to)
		},
	})

	_ = b.Do(func() error { return errBoom })
	require.Equal(t, []State{StateOpen}, transitions)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
