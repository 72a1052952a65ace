package llm

import (
	"context"
	"errors"
	"math"
	"time"
)

// RetryProvider is a decorator that retries transient failures with
// exponential backoff. The policy is deliberately identical for every
// provider: one schedule, no per-backend tuning, so orchestration latency
// stays predictable.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with the retry policy.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error

	for attempt := range r.config.MaxAttempts {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) {
			return nil, err
		}

		// Last attempt: report exhaustion instead of sleeping again.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff(attempt, err)):
		}
	}

	return nil, &ErrRetriesExhausted{
		Op:       OperationFrom(ctx),
		Attempts: r.config.MaxAttempts,
		Err:      lastErr,
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryable classifies an error as transient (retry) or permanent (fail now).
// Rate limits, timeouts, connection failures, and provider 5xx responses are
// transient. The taxonomy is checked before anything else: an ErrTimeout
// from an expired per-attempt deadline wraps context.DeadlineExceeded, and
// it must still be retried. A bare context error means the caller gave up;
// it never matches the taxonomy and is permanent, like client errors,
// unexpected failures, and malformed responses.
func retryable(err error) bool {
	var (
		rateLimited *ErrRateLimited
		timeout     *ErrTimeout
		connFailed  *ErrConnectionFailed
		serverErr   *ErrServerError
	)
	switch {
	case errors.As(err, &rateLimited),
		errors.As(err, &timeout),
		errors.As(err, &connFailed),
		errors.As(err, &serverErr):
		return true
	}

	return false
}

// backoff computes the wait before the next attempt: base * 2^attempt,
// capped at MaxWait. A server-supplied Retry-After wins for rate limits.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimited
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.BaseDelay) * math.Pow(2, float64(attempt))
	if max := float64(r.config.MaxWait); r.config.MaxWait > 0 && wait > max {
		wait = max
	}
	return time.Duration(wait)
}
