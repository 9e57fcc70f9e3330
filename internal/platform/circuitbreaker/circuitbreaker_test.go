package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream unavailable")

func newTestBreaker(now *time.Time) *Breaker {
	b := New(Config{FailureThreshold: 2, SuccessThreshold: 2, Timeout: time.Minute, HalfOpenMaxRequests: 1})
	b.now = func() time.Time { return *now }
	return b
}

func fail() error    { return errUpstream }
func succeed() error { return nil }

func TestBreakerOpensAfterThreshold(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newTestBreaker(&now)

	assert.ErrorIs(t, b.Execute(fail, nil), errUpstream)
	assert.Equal(t, StateClosed, b.State())
	assert.ErrorIs(t, b.Execute(fail, nil), errUpstream)
	assert.Equal(t, StateOpen, b.State())

	called := false
	err := b.Execute(func() error { called = true; return nil }, nil)
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newTestBreaker(&now)

	_ = b.Execute(fail, nil)
	require.NoError(t, b.Execute(succeed, nil))
	_ = b.Execute(fail, nil)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerIgnoresUncountedErrors(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newTestBreaker(&now)
	permanent := func(error) bool { return false }

	for i := 0; i < 5; i++ {
		_ = b.Execute(fail, permanent)
	}
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newTestBreaker(&now)
	_ = b.Execute(fail, nil)
	_ = b.Execute(fail, nil)
	require.Equal(t, StateOpen, b.State())

	now = now.Add(time.Minute)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Execute(succeed, nil))
	assert.Equal(t, StateHalfOpen, b.State())
	require.NoError(t, b.Execute(succeed, nil))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newTestBreaker(&now)
	_ = b.Execute(fail, nil)
	_ = b.Execute(fail, nil)

	now = now.Add(time.Minute)
	assert.ErrorIs(t, b.Execute(fail, nil), errUpstream)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerReset(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newTestBreaker(&now)
	_ = b.Execute(fail, nil)
	_ = b.Execute(fail, nil)

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
}
