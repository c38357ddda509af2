// Package retryx implements the caller-side retry policy for the persistence
// core: storage and relational failures are retried with backoff, everything
// else is surfaced immediately.
//
// The services themselves never retry; embedding layers wrap their service
// calls in Do to apply the policy.
package retryx

import (
	"context"
	"time"

	"github.com/avolkovs/paintrack/internal/common"
	"github.com/sethvargo/go-retry"
)

// Do runs fn with fibonacci backoff, retrying only errors that
// common.IsRetryable classifies as transient. Validation, not-found and
// conflict errors abort immediately. maxRetries bounds the attempt count.
func Do(ctx context.Context, base time.Duration, maxRetries uint64, fn func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(maxRetries, retry.NewFibonacci(base))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if common.IsRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
