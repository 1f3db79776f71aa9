package commands

import (
	"context"
	"time"

	"fulfillment/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds the replay of a whole transaction after a transient
// persistence failure (serialization failure or deadlock).
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy replays up to three times, starting at 25ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		InitialInterval: 25 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
	}
}

// NoRetry runs every transaction exactly once.
func NoRetry() RetryPolicy {
	return RetryPolicy{}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		exp.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		exp.MaxInterval = p.MaxInterval
	}
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, p.MaxRetries), ctx)
}

// inTx runs op until it succeeds, fails with a non transient error, or the
// retries are exhausted. op must open and close its own unit of work so that
// every attempt starts from a clean transaction.
func inTx[T any](ctx context.Context, p RetryPolicy, op func() (T, error)) (T, error) {
	return backoff.RetryWithData(func() (T, error) {
		result, err := op()
		if err != nil && !errs.IsRetryable(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}, p.backOff(ctx))
}

// inTxNoResult is inTx for operations without a result.
func inTxNoResult(ctx context.Context, p RetryPolicy, op func() error) error {
	_, err := inTx(ctx, p, func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}
