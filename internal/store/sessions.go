package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rteja/assessly/internal/assess"
	"github.com/rteja/assessly/internal/session"
)

// SessionRepo is a session.Store backed by SQLite. Mutations run in a
// transaction under a process-wide mutex, which serializes concurrent
// appends the same way the in-memory store does.
type SessionRepo struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

var _ session.Store = (*SessionRepo)(nil)

// Sessions returns a session.Store backed by this store.
func (s *Store) Sessions() *SessionRepo {
	return &SessionRepo{db: s.db, now: time.Now}
}

func (r *SessionRepo) Create(ctx context.Context, topic string, difficulty assess.Difficulty) (*assess.Session, error) {
	now := r.now().UTC()
	sess := &assess.Session{
		ID:                uuid.NewString(),
		Topic:             topic,
		CurrentDifficulty: difficulty,
		History:           []assess.PerformanceRecord{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, topic, current_difficulty, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.Topic, sess.CurrentDifficulty.String(),
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

func (r *SessionRepo) Get(ctx context.Context, id string) (*assess.Session, error) {
	return r.load(ctx, r.db, id)
}

func (r *SessionRepo) RecordAttempt(ctx context.Context, id string, rec assess.PerformanceRecord) (*assess.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	sess, err := r.load(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	// Tag with the difficulty in force at append time, not the caller's
	// snapshot, so concurrent submits cannot record a stale level.
	rec.Difficulty = sess.CurrentDifficulty

	_, err = tx.ExecContext(ctx,
		`INSERT INTO performance_records
			(session_id, question_id, score, is_correct, difficulty, answered_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, rec.QuestionID, rec.Score, rec.IsCorrect,
		rec.Difficulty.String(), rec.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert performance record: %w", err)
	}

	sess.History = append(sess.History, rec)
	sess.CurrentDifficulty = assess.NextDifficulty(sess.History, sess.CurrentDifficulty)
	sess.UpdatedAt = r.now().UTC()

	_, err = tx.ExecContext(ctx,
		`UPDATE sessions SET current_difficulty = ?, updated_at = ? WHERE id = ?`,
		sess.CurrentDifficulty.String(), sess.UpdatedAt.Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return sess, nil
}

func (r *SessionRepo) PutQuestion(ctx context.Context, sessionID string, q assess.Question) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO questions (id, session_id, text, difficulty, topic, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		q.ID, sessionID, q.Text, q.Difficulty.String(), q.Topic,
		q.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (r *SessionRepo) GetQuestion(ctx context.Context, sessionID, questionID string) (*assess.Question, error) {
	var q assess.Question
	var difficulty, createdAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, text, difficulty, topic, created_at
		FROM questions WHERE id = ? AND session_id = ?`,
		questionID, sessionID,
	).Scan(&q.ID, &q.Text, &difficulty, &q.Topic, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &session.QuestionNotFoundError{SessionID: sessionID, QuestionID: questionID}
	}
	if err != nil {
		return nil, fmt.Errorf("query question: %w", err)
	}

	if q.Difficulty, err = assess.ParseDifficulty(difficulty); err != nil {
		return nil, fmt.Errorf("question %s: %w", questionID, err)
	}
	if q.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("question %s created_at: %w", questionID, err)
	}
	return &q, nil
}

// querier covers both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SessionRepo) load(ctx context.Context, q querier, id string) (*assess.Session, error) {
	var sess assess.Session
	var difficulty, createdAt, updatedAt string

	err := q.QueryRowContext(ctx,
		`SELECT id, topic, current_difficulty, created_at, updated_at
		FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.Topic, &difficulty, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &session.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	if sess.CurrentDifficulty, err = assess.ParseDifficulty(difficulty); err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	if sess.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("session %s created_at: %w", id, err)
	}
	if sess.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("session %s updated_at: %w", id, err)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT question_id, score, is_correct, difficulty, answered_at
		FROM performance_records WHERE session_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("query performance records: %w", err)
	}
	defer rows.Close()

	sess.History = []assess.PerformanceRecord{}
	for rows.Next() {
		var rec assess.PerformanceRecord
		var recDifficulty, answeredAt string
		if err := rows.Scan(&rec.QuestionID, &rec.Score, &rec.IsCorrect, &recDifficulty, &answeredAt); err != nil {
			return nil, fmt.Errorf("scan performance record: %w", err)
		}
		if rec.Difficulty, err = assess.ParseDifficulty(recDifficulty); err != nil {
			return nil, fmt.Errorf("session %s record: %w", id, err)
		}
		if rec.Timestamp, err = time.Parse(time.RFC3339Nano, answeredAt); err != nil {
			return nil, fmt.Errorf("session %s record answered_at: %w", id, err)
		}
		sess.History = append(sess.History, rec)
	}
	return &sess, rows.Err()
}
