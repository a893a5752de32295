// Package retry runs an operation under a bounded exponential backoff policy
package retry

import (
	"context"
	"time"

	perr "reviewpulse/internal/platform/errors"
	"reviewpulse/internal/platform/logger"

	"github.com/cenkalti/backoff/v5"
)

// Policy bounds how often and how quickly an operation is retried
// MaxAttempts counts the first call, so 1 means no retry
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64

	// Retryable decides which errors earn another attempt, nil uses perr.Retryable
	Retryable func(error) bool
}

// Once is the policy of a single attempt
var Once = Policy{MaxAttempts: 1}

func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = 500 * time.Millisecond
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = 10 * time.Second
	}
	if p.Multiplier < 1 {
		p.Multiplier = 2
	}
	if p.Retryable == nil {
		p.Retryable = perr.Retryable
	}
	return p
}

// Do calls op until it succeeds, fails with a non retryable error, runs out of attempts or ctx ends
func Do[T any](ctx context.Context, p Policy, what string, op func(context.Context) (T, error)) (T, error) {
	p = p.normalized()
	if p.MaxAttempts == 1 {
		return op(ctx)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = p.Multiplier

	log := logger.C(ctx)
	return backoff.Retry(ctx, func() (T, error) {
		v, err := op(ctx)
		if err != nil && !p.Retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(p.MaxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().Err(err).Str("op", what).Dur("retry_in", next).Msg("retrying")
		}),
	)
}
