package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rteja/assessly/internal/assess"
)

func TestMemoryStore_CreateAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	created, err := s.Create(ctx, "Go concurrency", assess.Medium)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated session ID")
	}
	if created.Topic != "Go concurrency" {
		t.Errorf("topic: got %q", created.Topic)
	}
	if created.CurrentDifficulty != assess.Medium {
		t.Errorf("difficulty: got %v", created.CurrentDifficulty)
	}
	if len(created.History) != 0 {
		t.Errorf("expected empty history, got %d records", len(created.History))
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != created.ID || got.Topic != created.Topic {
		t.Errorf("Get returned a different session: %+v", got)
	}
}

func TestMemoryStore_GetUnknownSession(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "no-such-session")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got: %v", err)
	}
	if notFound.ID != "no-such-session" {
		t.Errorf("expected error to carry the session ID, got %q", notFound.ID)
	}
}

func TestMemoryStore_RecordAttemptAdaptsDifficulty(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sess, err := s.Create(ctx, "algebra", assess.Medium)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// One correct answer: not enough history to change anything.
	sess, err = s.RecordAttempt(ctx, sess.ID,
		assess.NewPerformanceRecord("q1", 90, assess.Medium, time.Now()))
	if err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if sess.CurrentDifficulty != assess.Medium {
		t.Errorf("after 1 record: got %v, want Medium", sess.CurrentDifficulty)
	}

	// Second consecutive correct at Medium: promote to Hard.
	sess, err = s.RecordAttempt(ctx, sess.ID,
		assess.NewPerformanceRecord("q2", 85, assess.Medium, time.Now()))
	if err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if sess.CurrentDifficulty != assess.Hard {
		t.Errorf("after 2 correct at Medium: got %v, want Hard", sess.CurrentDifficulty)
	}
	if len(sess.History) != 2 {
		t.Errorf("history length: got %d, want 2", len(sess.History))
	}
}

func TestMemoryStore_ReturnedSessionIsACopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sess, _ := s.Create(ctx, "topic", assess.Easy)
	sess.Topic = "mutated"
	sess.History = append(sess.History, assess.PerformanceRecord{QuestionID: "fake"})

	got, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Topic != "topic" {
		t.Error("mutating a returned session leaked into the store")
	}
	if len(got.History) != 0 {
		t.Error("appending to a returned history leaked into the store")
	}
}

func TestMemoryStore_QuestionRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sess, _ := s.Create(ctx, "geometry", assess.Easy)

	q := assess.Question{
		ID:         "q-123",
		Text:       "What is the sum of the angles of a triangle?",
		Difficulty: assess.Easy,
		Topic:      "geometry",
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.PutQuestion(ctx, sess.ID, q); err != nil {
		t.Fatalf("PutQuestion: %v", err)
	}

	got, err := s.GetQuestion(ctx, sess.ID, "q-123")
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if got.Text != q.Text {
		t.Errorf("question text: got %q", got.Text)
	}

	_, err = s.GetQuestion(ctx, sess.ID, "q-999")
	var qNotFound *QuestionNotFoundError
	if !errors.As(err, &qNotFound) {
		t.Fatalf("expected QuestionNotFoundError, got: %v", err)
	}
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sess, _ := s.Create(ctx, "topic", assess.Medium)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func(i int) {
			defer wg.Done()
			rec := assess.NewPerformanceRecord("q", 50+i%50, assess.Medium, time.Now())
			if _, err := s.RecordAttempt(ctx, sess.ID, rec); err != nil {
				t.Errorf("RecordAttempt: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.History) != n {
		t.Fatalf("expected %d records, got %d", n, len(got.History))
	}
}
