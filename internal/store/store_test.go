package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rteja/assessly/internal/assess"
	"github.com/rteja/assessly/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestProviderCallLog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	events := s.Events()

	calls := []ProviderCallEvent{
		{Model: "gpt-4o-mini", Operation: "question-generation", InputTokens: 120, OutputTokens: 60, LatencyMs: 900, Success: true},
		{Model: "gemini-2.5-flash", Operation: "question-generation", InputTokens: 115, OutputTokens: 70, LatencyMs: 700, Success: true},
		{Model: "gpt-4o-mini", Operation: "answer-evaluation", LatencyMs: 1500, Success: false, ErrorMessage: "provider server error (status 503)"},
	}
	for _, ev := range calls {
		require.NoError(t, events.AppendProviderCall(ctx, ev))
	}

	got, err := s.ListProviderCalls(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Newest first.
	assert.Equal(t, "answer-evaluation", got[0].Operation)
	assert.False(t, got[0].Success)
	assert.Equal(t, "provider server error (status 503)", got[0].ErrorMessage)
	assert.False(t, got[0].Timestamp.IsZero())

	filtered, err := s.ListProviderCalls(ctx, QueryOpts{Operation: "question-generation"})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	stats, err := s.CallStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "gpt-4o-mini", stats[0].Model)
	assert.Equal(t, 2, stats[0].Calls)
	assert.Equal(t, 1, stats[0].Failures)
	assert.Equal(t, 120, stats[0].InputTokens)
	assert.Equal(t, 60, stats[0].OutputTokens)
}

func TestSessionRepo_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Sessions()

	created, err := repo.Create(ctx, "data structures", assess.Medium)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "data structures", got.Topic)
	assert.Equal(t, assess.Medium, got.CurrentDifficulty)
	assert.Empty(t, got.History)

	_, err = repo.Get(ctx, "missing")
	var notFound *session.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ID)
}

func TestSessionRepo_RecordAttemptAdaptsDifficulty(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Sessions()

	sess, err := repo.Create(ctx, "algebra", assess.Medium)
	require.NoError(t, err)

	for _, score := range []int{85, 92} {
		sess, err = repo.RecordAttempt(ctx, sess.ID,
			assess.NewPerformanceRecord("q", score, assess.Medium, time.Now()))
		require.NoError(t, err)
	}
	assert.Equal(t, assess.Hard, sess.CurrentDifficulty)

	// Reload from disk: history and difficulty survive.
	got, err := repo.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, assess.Hard, got.CurrentDifficulty)
	require.Len(t, got.History, 2)
	assert.True(t, got.History[0].IsCorrect)
	assert.Equal(t, 85, got.History[0].Score)
	assert.Equal(t, assess.Medium, got.History[0].Difficulty)
}

func TestSessionRepo_QuestionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Sessions()

	sess, err := repo.Create(ctx, "geometry", assess.Easy)
	require.NoError(t, err)

	q := assess.Question{
		ID:         "q-1",
		Text:       "What is the area of a circle with radius 2?",
		Difficulty: assess.Easy,
		Topic:      "geometry",
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.PutQuestion(ctx, sess.ID, q))

	got, err := repo.GetQuestion(ctx, sess.ID, "q-1")
	require.NoError(t, err)
	assert.Equal(t, q.Text, got.Text)
	assert.Equal(t, assess.Easy, got.Difficulty)

	_, err = repo.GetQuestion(ctx, sess.ID, "q-2")
	var qNotFound *session.QuestionNotFoundError
	require.ErrorAs(t, err, &qNotFound)
	assert.Equal(t, "q-2", qNotFound.QuestionID)
}
