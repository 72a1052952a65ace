// Package evaluation scores student answers through the hybrid provider
// client.
package evaluation

import (
	"context"
	"fmt"

	"github.com/rteja/assessly/internal/assess"
	"github.com/rteja/assessly/internal/hybrid"
	"github.com/rteja/assessly/internal/llm"
)

// Low temperature for consistency: two evaluations of the same answer
// should land close enough to merge meaningfully.
const (
	evaluationTemperature = 0.3
	evaluationMaxTokens   = 1000
)

// EvaluationError reports that no provider could evaluate the answer.
type EvaluationError struct {
	QuestionID string
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluating answer to question %s: %v", e.QuestionID, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// Service scores answers against the question that was asked.
type Service struct {
	client *hybrid.Client
}

// NewService creates a Service over the hybrid client.
func NewService(client *hybrid.Client) *Service {
	return &Service{client: client}
}

// Evaluate scores one answer. Both providers are asked for a structured
// evaluation and their results are merged; both failing surfaces an
// EvaluationError carrying the question identifier.
func (s *Service) Evaluate(ctx context.Context, q *assess.Question, answerText string) (*assess.EvaluationResult, error) {
	ctx = llm.WithOperation(ctx, "answer-evaluation")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPrompt(q.Topic, q.Text, answerText)},
		},
		Schema:      EvaluationSchema,
		MaxTokens:   evaluationMaxTokens,
		Temperature: evaluationTemperature,
	}

	result, err := s.client.MergedEvaluation(ctx, req)
	if err != nil {
		return nil, &EvaluationError{QuestionID: q.ID, Err: err}
	}
	return result, nil
}
