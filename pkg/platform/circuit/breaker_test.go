package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBreakerStartsClosed(t *testing.T) {
	b := New("remote-api")
	assert.Equal(t, "remote-api", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.False(t, b.IsOpen())
	assert.True(t, b.Allow())
}

func TestRecordFailure(t *testing.T) {
	t.Run("opens on the threshold failure", func(t *testing.T) {
		b := New("remote-api", WithFailureThreshold(3))
		for range 2 {
			fallback, change := b.RecordFailure()
			require.False(t, fallback)
			require.False(t, change.Opened)
		}
		fallback, change := b.RecordFailure()
		assert.True(t, fallback)
		assert.True(t, change.Opened)
		assert.True(t, b.IsOpen())
	})

	t.Run("already open reports no transition", func(t *testing.T) {
		b := New("remote-api", WithFailureThreshold(1))
		b.RecordFailure()
		fallback, change := b.RecordFailure()
		assert.True(t, fallback)
		assert.Equal(t, StateChange{}, change)
	})

	t.Run("success breaks the streak", func(t *testing.T) {
		b := New("remote-api", WithFailureThreshold(3))
		b.RecordFailure()
		b.RecordFailure()
		b.RecordSuccess()
		b.RecordFailure()
		b.RecordFailure()
		assert.False(t, b.IsOpen())
		b.RecordFailure()
		assert.True(t, b.IsOpen())
	})
}

func TestRecordSuccess(t *testing.T) {
	t.Run("closes after the success threshold", func(t *testing.T) {
		b := New("remote-api", WithFailureThreshold(1), WithSuccessThreshold(2))
		b.RecordFailure()

		primary, change := b.RecordSuccess()
		assert.False(t, primary)
		assert.False(t, change.Closed)

		primary, change = b.RecordSuccess()
		assert.True(t, primary)
		assert.True(t, change.Closed)
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("failure while open restarts recovery", func(t *testing.T) {
		b := New("remote-api", WithFailureThreshold(1), WithSuccessThreshold(3))
		b.RecordFailure()
		b.RecordSuccess()
		b.RecordSuccess()
		b.RecordFailure()

		b.RecordSuccess()
		b.RecordSuccess()
		assert.True(t, b.IsOpen())
		b.RecordSuccess()
		assert.False(t, b.IsOpen())
	})
}

func TestAllowProbesAfterCooldown(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := New("remote-api", WithFailureThreshold(1), WithCooldown(time.Second), WithClock(func() time.Time { return now }))

	b.RecordFailure()
	assert.False(t, b.Allow(), "open breaker rejects until cooldown")

	now = now.Add(time.Second)
	assert.True(t, b.Allow(), "one probe after cooldown")
	assert.False(t, b.Allow(), "next probe waits another cooldown")
}

func TestReset(t *testing.T) {
	b := New("remote-api", WithFailureThreshold(1))
	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
	assert.Equal(t, "closed", b.State().String())
	assert.Equal(t, "open", StateOpen.String())
}
