package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"intent-insights/internal/common/logger"
)

func TestRetryWithBackoff(t *testing.T) {
	retry := RetryConfig{MaxRetries: 4, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
	log := logger.NewTestLogger(t)

	t.Run("succeeds after transient failures", func(t *testing.T) {
		attempts := 0
		err := RetryWithBackoff(context.Background(), retry, log, "op", func(context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("rpc error: code = Unavailable")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		attempts := 0
		err := RetryWithBackoff(context.Background(), retry, log, "op", func(context.Context) error {
			attempts++
			return errors.New("permission denied")
		})
		assert.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		attempts := 0
		err := RetryWithBackoff(context.Background(), retry, log, "op", func(context.Context) error {
			attempts++
			return errors.New("connection refused")
		})
		assert.ErrorContains(t, err, "connection refused")
		assert.Equal(t, 4, attempts)
	})

	t.Run("honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		slow := RetryConfig{MaxRetries: 3, BaseDelay: time.Hour}
		err := RetryWithBackoff(ctx, slow, log, "op", func(context.Context) error {
			return errors.New("timeout")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(errors.New("context deadline exceeded")))
	assert.True(t, IsTransient(errors.New("dial tcp: lookup zeebe: no such host")))
	assert.False(t, IsTransient(errors.New("NOT_FOUND: process not deployed")))
}
