package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransient(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func(context.Context) error {
		calls++
		if calls < 3 {
			return NewTransientError(eris.New("page load error net::ERR_CONNECTION_RESET"))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := eris.New("profile does not exist")
	err := Do(context.Background(), fastConfig(), func(context.Context) error {
		calls++
		return permanent
	})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func(context.Context) error {
		calls++
		return NewTransientError(eris.New("i/o timeout"))
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, fastConfig(), func(context.Context) error {
		calls++
		cancel()
		return NewTransientError(eris.New("i/o timeout"))
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoValReturnsValue(t *testing.T) {
	calls := 0
	got, err := DoVal(context.Background(), fastConfig(), func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", NewTransientError(eris.New("tls handshake timeout"))
		}
		return "snapshot", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "snapshot", got)
	assert.Equal(t, 2, calls)
}

func TestDoValShouldRetryOverride(t *testing.T) {
	cfg := fastConfig()
	cfg.ShouldRetry = func(error) bool { return false }
	calls := 0
	_, err := DoVal(context.Background(), cfg, func(context.Context) (int, error) {
		calls++
		return 0, NewTransientError(eris.New("i/o timeout"))
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoOnRetryCallback(t *testing.T) {
	var attempts []int
	cfg := fastConfig()
	cfg.OnRetry = func(attempt int, _ error) { attempts = append(attempts, attempt) }
	_ = Do(context.Background(), cfg, func(context.Context) error {
		return NewTransientError(eris.New("i/o timeout"))
	})
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestIsTransientBrowserNavigation(t *testing.T) {
	assert.True(t, IsTransient(eris.New("page load error net::ERR_TIMED_OUT")))
	assert.True(t, IsTransient(eris.New("lookup example.com: no such host")))
	assert.False(t, IsTransient(eris.New("authentication failed")))
	assert.False(t, IsTransient(nil))
}

func TestComputeBackoffCapped(t *testing.T) {
	cfg := applyDefaults(RetryConfig{
		InitialBackoff: time.Second,
		MaxBackoff:     4 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0,
		MaxAttempts:    10,
	})
	assert.Equal(t, time.Second, computeBackoff(0, cfg))
	assert.Equal(t, 2*time.Second, computeBackoff(1, cfg))
	assert.Equal(t, 4*time.Second, computeBackoff(2, cfg))
	assert.Equal(t, 4*time.Second, computeBackoff(5, cfg))
}
