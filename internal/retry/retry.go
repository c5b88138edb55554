package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"service-fulfillment/internal/apperr"
)

// Policy bounds one retry cycle of an outbound call.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	Jitter      float64
}

// Notify is called after each failed attempt with the delay before the next one.
type Notify func(err error, next time.Duration)

// Do runs op until it succeeds, fails fatally, or the attempt budget runs out.
// Fatal means a non-retryable error, an open circuit, or a cancelled context;
// the last error is returned unwrapped. A RetryAfterError joined into the
// operation error overrides the computed delay.
func Do[T any](ctx context.Context, p Policy, notify Notify, op func() (T, error)) (T, error) {
	wrapped := func() (T, error) {
		v, err := op()
		if err == nil {
			return v, nil
		}
		// An open breaker will not close within one cycle; fail the run
		// and let a later one try again.
		if errors.Is(err, apperr.CircuitOpen) {
			return v, backoff.Permanent(err)
		}
		if !apperr.Retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}
	var fn backoff.Notify
	if notify != nil {
		fn = backoff.Notify(notify)
	}
	return backoff.RetryNotifyWithData(wrapped, p.backoff(ctx), fn)
}

// DoVoid is Do for operations without a result.
func DoVoid(ctx context.Context, p Policy, notify Notify, op func() error) error {
	_, err := Do(ctx, p, notify, func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}

// Delays returns the policy's delay sequence without an attempt cap, for
// callers that drive their own attempt loop.
func (p Policy) Delays() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.RandomizationFactor = p.Jitter
	b.Multiplier = p.Multiplier
	b.MaxInterval = p.MaxDelay
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func (p Policy) backoff(ctx context.Context) backoff.BackOffContext {
	bo := p.Delays()
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	bo = backoff.WithMaxRetries(bo, uint64(attempts-1))
	return backoff.WithContext(bo, ctx)
}
