package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ProviderCallEvent records one call to an LLM provider: which model was
// asked to do what, how long it took, how many tokens it consumed, and
// whether it succeeded.
type ProviderCallEvent struct {
	ID           int64
	Timestamp    time.Time
	Model        string
	Operation    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRepo provides append access to the provider call log.
type EventRepo interface {
	AppendProviderCall(ctx context.Context, ev ProviderCallEvent) error
}

// QueryOpts configures provider call queries.
type QueryOpts struct {
	Limit     int       // max results, newest first (0 = 50)
	Operation string    // filter by operation name ("" = all)
	Since     time.Time // timestamp >= Since (zero = all)
}

// ModelStats aggregates provider calls per model.
type ModelStats struct {
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// Events returns an EventRepo backed by this store.
func (s *Store) Events() EventRepo {
	return &eventRepo{db: s.db}
}

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendProviderCall(ctx context.Context, ev ProviderCallEvent) error {
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO provider_calls
			(timestamp, model, operation, input_tokens, output_tokens, latency_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.Format(time.RFC3339Nano), ev.Model, ev.Operation,
		ev.InputTokens, ev.OutputTokens, ev.LatencyMs, ev.Success, ev.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("insert provider call: %w", err)
	}
	return nil
}

// ListProviderCalls returns provider call events, newest first.
func (s *Store) ListProviderCalls(ctx context.Context, opts QueryOpts) ([]ProviderCallEvent, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, timestamp, model, operation, input_tokens, output_tokens,
			latency_ms, success, error_message
		FROM provider_calls WHERE 1=1`
	args := []any{}
	if opts.Operation != "" {
		query += " AND operation = ?"
		args = append(args, opts.Operation)
	}
	if !opts.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, opts.Since.Format(time.RFC3339Nano))
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query provider calls: %w", err)
	}
	defer rows.Close()

	var events []ProviderCallEvent
	for rows.Next() {
		var ev ProviderCallEvent
		var ts string
		if err := rows.Scan(&ev.ID, &ts, &ev.Model, &ev.Operation,
			&ev.InputTokens, &ev.OutputTokens, &ev.LatencyMs, &ev.Success, &ev.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan provider call: %w", err)
		}
		if ev.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// CallStats aggregates the provider call log per model.
func (s *Store) CallStats(ctx context.Context) ([]ModelStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT model,
			COUNT(*),
			SUM(CASE WHEN success THEN 0 ELSE 1 END),
			SUM(input_tokens),
			SUM(output_tokens),
			AVG(latency_ms)
		FROM provider_calls
		GROUP BY model
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query call stats: %w", err)
	}
	defer rows.Close()

	var stats []ModelStats
	for rows.Next() {
		var st ModelStats
		if err := rows.Scan(&st.Model, &st.Calls, &st.Failures,
			&st.InputTokens, &st.OutputTokens, &st.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan call stats: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
