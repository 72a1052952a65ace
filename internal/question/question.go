// Package question generates assessment questions through the hybrid
// provider client.
package question

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rteja/assessly/internal/assess"
	"github.com/rteja/assessly/internal/hybrid"
	"github.com/rteja/assessly/internal/llm"
)

// High temperature for variety: two providers generating the same stock
// question defeats the point of racing them.
const generationTemperature = 0.9

// GenerationError reports that no provider could produce a question.
type GenerationError struct {
	Topic      string
	Difficulty assess.Difficulty
	Err        error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating %s question about %q: %v", e.Difficulty, e.Topic, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Service generates questions for a topic at a requested difficulty.
type Service struct {
	client *hybrid.Client
	now    func() time.Time
}

// NewService creates a Service over the hybrid client.
func NewService(client *hybrid.Client) *Service {
	return &Service{client: client, now: time.Now}
}

// Generate produces one question. The winning provider text is wrapped with
// a fresh unique identifier; both providers failing surfaces a
// GenerationError carrying the topic and difficulty.
func (s *Service) Generate(ctx context.Context, topic string, difficulty assess.Difficulty) (*assess.Question, error) {
	ctx = llm.WithOperation(ctx, "question-generation")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPrompt(topic, difficulty)},
		},
		Temperature: generationTemperature,
	}

	text, err := s.client.BestText(ctx, req)
	if err != nil {
		return nil, &GenerationError{Topic: topic, Difficulty: difficulty, Err: err}
	}

	return &assess.Question{
		ID:         uuid.NewString(),
		Text:       text,
		Difficulty: difficulty,
		Topic:      topic,
		CreatedAt:  s.now().UTC(),
	}, nil
}
