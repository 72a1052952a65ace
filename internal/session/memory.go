package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rteja/assessly/internal/assess"
)

// MemoryStore is an in-memory Store. It is the default backend and the one
// used in tests; sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memSession

	now func() time.Time
}

type memSession struct {
	mu        sync.Mutex
	sess      *assess.Session
	questions map[string]assess.Question
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memSession),
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, topic string, difficulty assess.Difficulty) (*assess.Session, error) {
	now := m.now().UTC()
	sess := &assess.Session{
		ID:                uuid.NewString(),
		Topic:             topic,
		CurrentDifficulty: difficulty,
		History:           []assess.PerformanceRecord{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	m.mu.Lock()
	m.sessions[sess.ID] = &memSession{
		sess:      sess,
		questions: make(map[string]assess.Question),
	}
	m.mu.Unlock()

	return sess.Clone(), nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*assess.Session, error) {
	ms, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.sess.Clone(), nil
}

func (m *MemoryStore) RecordAttempt(_ context.Context, id string, rec assess.PerformanceRecord) (*assess.Session, error) {
	ms, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	// Tag with the difficulty in force at append time, not the caller's
	// snapshot, so concurrent submits cannot record a stale level.
	rec.Difficulty = ms.sess.CurrentDifficulty
	ms.sess.History = append(ms.sess.History, rec)
	ms.sess.CurrentDifficulty = assess.NextDifficulty(ms.sess.History, ms.sess.CurrentDifficulty)
	ms.sess.UpdatedAt = m.now().UTC()

	return ms.sess.Clone(), nil
}

func (m *MemoryStore) PutQuestion(_ context.Context, sessionID string, q assess.Question) error {
	ms, err := m.lookup(sessionID)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	ms.questions[q.ID] = q
	ms.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetQuestion(_ context.Context, sessionID, questionID string) (*assess.Question, error) {
	ms, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	q, ok := ms.questions[questionID]
	if !ok {
		return nil, &QuestionNotFoundError{SessionID: sessionID, QuestionID: questionID}
	}
	return &q, nil
}

func (m *MemoryStore) lookup(id string) (*memSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms, ok := m.sessions[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return ms, nil
}
