package client

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/latticeeth/evmkit/evmerr"
)

// RetryPolicy configures RpcRetry's backoff schedule.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy matches spec.md §4.6: exponential backoff with
// jitter, capped at 2s, 5 attempts.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: 2 * time.Second}

// RpcRetry runs op, retrying only when the failure is I/O-class per
// *evmerr.RpcError.Retryable() (connection errors and revert-free
// {-32000,-32005,-32603,-32016} codes); anything else — including any
// revert — returns immediately. On exhaustion it fails with
// *evmerr.RetryExhaustedError carrying every attempt's cause.
func RpcRetry[T any](ctx context.Context, policy RetryPolicy, op func(ctx context.Context) (T, error)) (T, error) {
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy
	}
	var zero T
	var attempts []error
	delay := policy.BaseDelay

	for i := 0; i < policy.MaxAttempts; i++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		attempts = append(attempts, err)
		if !isRetryable(err) {
			return zero, err
		}
		if i == policy.MaxAttempts-1 {
			break
		}
		slog.Debug("client: retrying after error", "attempt", i+1, "err", err, "delay", delay)
		select {
		case <-ctx.Done():
			return zero, &evmerr.CancelledError{}
		case <-time.After(delay + jitter(delay)):
		}
		delay *= 2
		if delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}
	}
	return zero, &evmerr.RetryExhaustedError{Attempts: attempts}
}

func isRetryable(err error) bool {
	switch e := err.(type) {
	case *evmerr.RpcError:
		return e.Retryable()
	case *evmerr.ConnectionLostError:
		return true
	case *evmerr.TimeoutError:
		return true
	default:
		return false
	}
}

func jitter(d time.Duration) time.Duration {
	half := int64(d) / 2
	if half <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(half))
}
