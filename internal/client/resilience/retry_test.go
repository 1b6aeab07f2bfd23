package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notesapp/internal/client/resilience"
)

var errTransient = errors.New("transient failure")

func testConfig() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    4,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     8 * time.Millisecond,
		BackoffFactor:  2.0,
		ShouldRetry:    func(error) bool { return true },
	}
}

func TestExecuteStopsAfterFirstSuccess(t *testing.T) {
	retry := resilience.NewRetry("test", testConfig())

	attempts := 0
	err := retry.Execute(context.Background(), func(context.Context) error {
		attempts++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	retry := resilience.NewRetry("test", testConfig())

	attempts := 0
	err := retry.Execute(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errTransient
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestExecuteExhaustsAttemptBudget(t *testing.T) {
	retry := resilience.NewRetry("test", testConfig())

	attempts := 0
	err := retry.Execute(context.Background(), func(context.Context) error {
		attempts++
		return errTransient
	})

	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, 4, attempts, "initial attempt plus three retries")
}

func TestExecuteRespectsShouldRetry(t *testing.T) {
	cfg := testConfig()
	cfg.ShouldRetry = func(err error) bool { return !errors.Is(err, errTransient) }
	retry := resilience.NewRetry("test", cfg)

	attempts := 0
	err := retry.Execute(context.Background(), func(context.Context) error {
		attempts++
		return errTransient
	})

	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, attempts, "non-retryable errors fail immediately")
}

func TestExecuteBackoffDoublesBetweenAttempts(t *testing.T) {
	cfg := testConfig()
	cfg.InitialBackoff = 10 * time.Millisecond
	cfg.MaxBackoff = 100 * time.Millisecond
	retry := resilience.NewRetry("test", cfg)

	var timestamps []time.Time
	err := retry.Execute(context.Background(), func(context.Context) error {
		timestamps = append(timestamps, time.Now())
		return errTransient
	})
	require.ErrorIs(t, err, errTransient)
	require.Len(t, timestamps, 4)

	// Задержки 10ms, 20ms, 40ms; таймеры могут только опаздывать.
	expected := cfg.InitialBackoff
	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		assert.GreaterOrEqual(t, gap, expected, "delay before attempt %d", i+1)
		expected = time.Duration(float64(expected) * cfg.BackoffFactor)
	}
}

func TestExecuteAbortsOnContextCancellation(t *testing.T) {
	cfg := testConfig()
	cfg.InitialBackoff = time.Minute
	retry := resilience.NewRetry("test", cfg)

	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	done := make(chan error, 1)
	go func() {
		done <- retry.Execute(ctx, func(context.Context) error {
			attempts++
			return errTransient
		})
	}()

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, resilience.ErrContextCanceled)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts, "cancellation interrupts the backoff wait")
	case <-time.After(time.Second):
		t.Fatal("retry was not cancelled in time")
	}
}
