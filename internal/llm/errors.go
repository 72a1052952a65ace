package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrRateLimited indicates the provider rejected the call with a rate limit
// response (HTTP 429). Retryable.
type ErrRateLimited struct {
	RetryAfter time.Duration // server-suggested wait, 0 if not provided
	Err        error
}

func (e *ErrRateLimited) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider rate limited (retry after %s): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("provider rate limited: %v", e.Err)
}

func (e *ErrRateLimited) Unwrap() error { return e.Err }

// ErrTimeout indicates the call exceeded its per-attempt deadline. Retryable.
type ErrTimeout struct {
	Err error
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("provider call timed out: %v", e.Err)
}

func (e *ErrTimeout) Unwrap() error { return e.Err }

// ErrConnectionFailed indicates the provider could not be reached at the
// network level. Retryable.
type ErrConnectionFailed struct {
	Err error
}

func (e *ErrConnectionFailed) Error() string {
	return fmt.Sprintf("provider connection failed: %v", e.Err)
}

func (e *ErrConnectionFailed) Unwrap() error { return e.Err }

// ErrClientError indicates the provider rejected the request as malformed or
// unauthorized (HTTP 4xx other than 429). Not retryable: the same request
// would fail the same way.
type ErrClientError struct {
	Status int
	Err    error
}

func (e *ErrClientError) Error() string {
	return fmt.Sprintf("provider client error (status %d): %v", e.Status, e.Err)
}

func (e *ErrClientError) Unwrap() error { return e.Err }

// ErrServerError indicates a provider-side failure (HTTP 5xx). Retryable.
type ErrServerError struct {
	Status int
	Err    error
}

func (e *ErrServerError) Error() string {
	return fmt.Sprintf("provider server error (status %d): %v", e.Status, e.Err)
}

func (e *ErrServerError) Unwrap() error { return e.Err }

// ErrUnexpected indicates a failure that fits no other category, usually a
// programming error or an SDK surprise. Not retryable.
type ErrUnexpected struct {
	Err error
}

func (e *ErrUnexpected) Error() string {
	return fmt.Sprintf("unexpected provider failure: %v", e.Err)
}

func (e *ErrUnexpected) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the provider answered, but with content that
// does not satisfy the requested schema or is otherwise unusable. Not
// retryable here: malformed output is handled by the caller, which has
// already paid for the retries on transport failures.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid provider response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrRetriesExhausted is returned after all attempts for a call have failed.
// It carries the operation label and the failure from the final attempt.
type ErrRetriesExhausted struct {
	Op       string
	Attempts int
	Err      error
}

func (e *ErrRetriesExhausted) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *ErrRetriesExhausted) Unwrap() error { return e.Err }
