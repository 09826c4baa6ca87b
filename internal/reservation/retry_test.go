package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryRecoversFromTransientFault(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryExhaustsBudget(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return errors.New("connection refused")
	})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Equal(t, 3, calls)
}

// Final errors carry a definite logical answer and must pass through on
// the first attempt, untouched.
func TestWithRetryFinalErrorsNotRetried(t *testing.T) {
	for _, final := range []error{
		ErrShowNotFound,
		ErrSeatOutOfRange,
		ErrSeatTaken,
		ErrBookingNotFound,
		ErrNotOwner,
		ErrAlreadyCancelled,
	} {
		calls := 0
		err := withRetry(context.Background(), 3, time.Millisecond, func() error {
			calls++
			return final
		})
		assert.ErrorIs(t, err, final)
		assert.Equal(t, 1, calls, "%v must not be retried", final)
	}
}

func TestWithRetryContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	err := withRetry(ctx, 3, time.Hour, func() error {
		calls++
		return errors.New("connection refused")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
