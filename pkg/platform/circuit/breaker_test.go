package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_Transitions(t *testing.T) {
	b := New("pan", WithFailureThreshold(2), WithSuccessThreshold(2))
	assert.Equal(t, "pan", b.Name())
	assert.Equal(t, StateClosed, b.State())

	useFallback, change := b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.Equal(t, "open", b.State().String())

	t.Run("failure while open does not re-report", func(t *testing.T) {
		useFallback, change := b.RecordFailure()
		assert.True(t, useFallback)
		assert.Equal(t, StateChange{}, change)
	})

	t.Run("closes after consecutive successes", func(t *testing.T) {
		usePrimary, change := b.RecordSuccess()
		assert.False(t, usePrimary)
		assert.False(t, change.Closed)

		usePrimary, change = b.RecordSuccess()
		assert.True(t, usePrimary)
		assert.True(t, change.Closed)
		assert.False(t, b.IsOpen())
	})
}

func TestBreaker_SuccessResetsFailureStreak(t *testing.T) {
	b := New("aadhaar", WithFailureThreshold(2))
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	assert.False(t, b.IsOpen(), "failures must be consecutive")
}

func TestBreaker_AllowAfterCooldown(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b := New("pan",
		WithFailureThreshold(1),
		WithCooldown(30*time.Second),
		WithClock(func() time.Time { return now }),
	)
	assert.True(t, b.Allow())

	b.RecordFailure()
	assert.False(t, b.Allow())

	now = now.Add(29 * time.Second)
	assert.False(t, b.Allow())

	now = now.Add(time.Second)
	assert.True(t, b.Allow(), "probe admitted once cooldown elapses")

	b.RecordFailure()
	assert.False(t, b.Allow(), "failed probe restarts the cooldown")
}

func TestBreaker_NoCooldownStaysOpen(t *testing.T) {
	b := New("pan", WithFailureThreshold(1))
	b.RecordFailure()
	assert.False(t, b.Allow())

	b.Reset()
	assert.True(t, b.Allow())
	assert.Equal(t, StateClosed, b.State())
}
