// Package session manages assessment session state: creation, lookup, and
// the append-only performance history that drives difficulty adaptation.
package session

import (
	"context"
	"fmt"

	"github.com/rteja/assessly/internal/assess"
)

// NotFoundError reports a lookup for a session that does not exist.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session %s not found", e.ID)
}

// QuestionNotFoundError reports a lookup for a question that was never
// issued in the given session.
type QuestionNotFoundError struct {
	SessionID  string
	QuestionID string
}

func (e *QuestionNotFoundError) Error() string {
	return fmt.Sprintf("question %s not found in session %s", e.QuestionID, e.SessionID)
}

// Store persists sessions and the questions issued within them.
//
// Implementations serialize mutations per session: concurrent RecordAttempt
// calls on the same session append both records without losing either, and
// each append sees the history left by the previous one. Reads return deep
// copies so callers can never mutate stored state.
type Store interface {
	// Create starts a new session for the topic at the given difficulty
	// and returns it with a fresh ID.
	Create(ctx context.Context, topic string, difficulty assess.Difficulty) (*assess.Session, error)

	// Get returns a copy of the session, or NotFoundError.
	Get(ctx context.Context, id string) (*assess.Session, error)

	// RecordAttempt appends a performance record to the session's history,
	// recomputes the current difficulty from the updated history, and
	// returns the updated session.
	RecordAttempt(ctx context.Context, id string, rec assess.PerformanceRecord) (*assess.Session, error)

	// PutQuestion stores a question issued to the session so its text is
	// available when the answer comes back.
	PutQuestion(ctx context.Context, sessionID string, q assess.Question) error

	// GetQuestion returns a question previously issued to the session,
	// or QuestionNotFoundError.
	GetQuestion(ctx context.Context, sessionID, questionID string) (*assess.Question, error)
}
