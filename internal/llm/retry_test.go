package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
	}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	p := WithRetry(mock, retryConfig())

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_TransientFailuresRetried(t *testing.T) {
	transients := []error{
		&ErrRateLimited{Err: errors.New("429")},
		&ErrTimeout{Err: errors.New("deadline")},
		&ErrConnectionFailed{Err: errors.New("refused")},
		&ErrServerError{Status: 503, Err: errors.New("unavailable")},
	}

	for _, transient := range transients {
		mock := NewMockProvider(
			MockResponse{Err: transient},
			MockResponse{Content: json.RawMessage(`{"ok":true}`)},
		)
		p := WithRetry(mock, retryConfig())

		resp, err := p.Generate(context.Background(), Request{})
		if err != nil {
			t.Fatalf("%T: unexpected error: %v", transient, err)
		}
		if string(resp.Content) != `{"ok":true}` {
			t.Fatalf("%T: unexpected content: %s", transient, resp.Content)
		}
		if mock.CallCount() != 2 {
			t.Fatalf("%T: expected 2 calls, got %d", transient, mock.CallCount())
		}
	}
}

// deadlineProvider blocks until the request context expires, then reports
// the failure the way the SDK bindings classify an expired deadline.
type deadlineProvider struct {
	calls int
}

func (p *deadlineProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	p.calls++
	<-ctx.Done()
	return nil, &ErrTimeout{Err: fmt.Errorf("request: %w", ctx.Err())}
}

func (p *deadlineProvider) ModelID() string { return "deadline-test" }

func TestRetry_PerAttemptTimeoutRetried(t *testing.T) {
	inner := &deadlineProvider{}
	p := WithRetry(WithTimeout(inner, 2*time.Millisecond), retryConfig())

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}

	// Every attempt times out, so the policy must run all of them.
	if inner.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", inner.calls)
	}

	var exhausted *ErrRetriesExhausted
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got: %T", err)
	}
	var timeout *ErrTimeout
	if !errors.As(err, &timeout) {
		t.Fatalf("expected wrapped ErrTimeout, got: %v", err)
	}
}

func TestRetry_PermanentFailuresNotRetried(t *testing.T) {
	permanents := []error{
		&ErrClientError{Status: 400, Err: errors.New("bad request")},
		&ErrUnexpected{Err: errors.New("boom")},
		&ErrInvalidResponse{Content: json.RawMessage(`bad`), Err: errors.New("schema")},
	}

	for _, permanent := range permanents {
		mock := NewMockProvider(
			MockResponse{Err: permanent},
			MockResponse{Content: json.RawMessage(`{"ok":true}`)}, // Won't be reached.
		)
		p := WithRetry(mock, retryConfig())

		_, err := p.Generate(context.Background(), Request{})
		if err == nil {
			t.Fatalf("%T: expected error", permanent)
		}
		if mock.CallCount() != 1 {
			t.Fatalf("%T: expected 1 call (no retry), got %d", permanent, mock.CallCount())
		}
	}
}

func TestRetry_ExhaustionReturnsTypedError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrServerError{Status: 500, Err: errors.New("down")}},
		MockResponse{Err: &ErrServerError{Status: 500, Err: errors.New("down")}},
		MockResponse{Err: &ErrServerError{Status: 502, Err: errors.New("still down")}},
	)
	p := WithRetry(mock, retryConfig())

	ctx := WithOperation(context.Background(), "question-generation")
	_, err := p.Generate(ctx, Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}

	var exhausted *ErrRetriesExhausted
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got: %T", err)
	}
	if exhausted.Op != "question-generation" {
		t.Errorf("expected operation label, got %q", exhausted.Op)
	}
	if exhausted.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", exhausted.Attempts)
	}

	// The originating failure from the final attempt stays reachable.
	var serverErr *ErrServerError
	if !errors.As(err, &serverErr) || serverErr.Status != 502 {
		t.Errorf("expected wrapped final ErrServerError 502, got: %v", err)
	}
}

func TestRetry_BackoffDoubles(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxWait:     1 * time.Second,
	}}

	cause := &ErrServerError{Status: 500}
	if got := r.backoff(0, cause); got != 100*time.Millisecond {
		t.Errorf("attempt 0: got %s", got)
	}
	if got := r.backoff(1, cause); got != 200*time.Millisecond {
		t.Errorf("attempt 1: got %s", got)
	}
	if got := r.backoff(5, cause); got != 1*time.Second {
		t.Errorf("attempt 5 should cap at MaxWait, got %s", got)
	}
}

func TestRetry_RateLimitHonorsRetryAfter(t *testing.T) {
	r := &RetryProvider{config: retryConfig()}

	cause := &ErrRateLimited{RetryAfter: 42 * time.Millisecond}
	if got := r.backoff(0, cause); got != 42*time.Millisecond {
		t.Errorf("expected server-suggested wait, got %s", got)
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrConnectionFailed{Err: errors.New("refused")}},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	p := WithRetry(mock, retryConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", mock.CallCount())
	}
}
