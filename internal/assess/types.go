// Package assess holds the value types shared across the assessment core:
// questions, evaluation results, performance records, and sessions.
package assess

import "time"

// CorrectThreshold is the minimum score considered a correct answer.
const CorrectThreshold = 80

// Question is a generated assessment question. Immutable after creation.
type Question struct {
	ID         string     `json:"question_id"`
	Text       string     `json:"question_text"`
	Difficulty Difficulty `json:"difficulty"`
	Topic      string     `json:"topic"`
	CreatedAt  time.Time  `json:"created_at"`
}

// EvaluationResult is the outcome of scoring one answer. Immutable.
// IsCorrect always agrees with Score >= CorrectThreshold.
type EvaluationResult struct {
	Score               int        `json:"score"`
	IsCorrect           bool       `json:"is_correct"`
	FeedbackText        string     `json:"feedback_text"`
	SuggestedDifficulty Difficulty `json:"suggested_difficulty"`
}

// PerformanceRecord captures one scored attempt within a session.
// Immutable once created; construct via NewPerformanceRecord so that
// IsCorrect is always derived from the score.
type PerformanceRecord struct {
	QuestionID string     `json:"question_id"`
	Score      int        `json:"score"`
	IsCorrect  bool       `json:"is_correct"`
	Difficulty Difficulty `json:"difficulty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// NewPerformanceRecord builds a record for a scored attempt. IsCorrect is
// derived from the score, never supplied by the caller.
func NewPerformanceRecord(questionID string, score int, difficulty Difficulty, at time.Time) PerformanceRecord {
	return PerformanceRecord{
		QuestionID: questionID,
		Score:      score,
		IsCorrect:  score >= CorrectThreshold,
		Difficulty: difficulty,
		Timestamp:  at,
	}
}

// Session is one learner's assessment session. The history is append-only:
// records are never reordered or mutated in place, and insertion order is
// chronological order.
type Session struct {
	ID                string              `json:"session_id"`
	Topic             string              `json:"topic"`
	CurrentDifficulty Difficulty          `json:"current_difficulty"`
	History           []PerformanceRecord `json:"performance_history"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// Clone returns a deep copy of the session. Stores hand out clones so that
// callers can never mutate the owned record.
func (s *Session) Clone() *Session {
	cp := *s
	cp.History = make([]PerformanceRecord, len(s.History))
	copy(cp.History, s.History)
	return &cp
}
