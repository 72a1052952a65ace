package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/rteja/assessly/internal/store"
)

// LoggingProvider is a decorator that records every provider call in the
// event log: operation, model, token usage, latency, and outcome.
type LoggingProvider struct {
	inner  Provider
	events store.EventRepo
}

// WithLogging wraps a Provider with call logging. A nil repo disables
// logging without changing behavior.
func WithLogging(p Provider, events store.EventRepo) Provider {
	if events == nil {
		return p
	}
	return &LoggingProvider{inner: p, events: events}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	event := store.ProviderCallEvent{
		Model:     l.inner.ModelID(),
		Operation: OperationFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}

	if resp != nil {
		event.Model = resp.Model
		event.InputTokens = resp.Usage.InputTokens
		event.OutputTokens = resp.Usage.OutputTokens
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}

	// Logging failures never fail the request.
	if logErr := l.events.AppendProviderCall(ctx, event); logErr != nil {
		slog.Warn("failed to record provider call event", "error", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
