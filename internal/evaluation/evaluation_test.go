package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rteja/assessly/internal/assess"
	"github.com/rteja/assessly/internal/hybrid"
	"github.com/rteja/assessly/internal/llm"
)

func evalJSON(score int, correct bool, feedback, difficulty string) llm.MockResponse {
	payload, _ := json.Marshal(map[string]any{
		"score":                score,
		"is_correct":           correct,
		"feedback_text":        feedback,
		"suggested_difficulty": difficulty,
	})
	return llm.MockResponse{Content: payload}
}

func testQuestion() *assess.Question {
	return &assess.Question{
		ID:         "q-1",
		Text:       "How does a B-tree keep lookups logarithmic?",
		Difficulty: assess.Medium,
		Topic:      "databases",
	}
}

func TestEvaluate_MergesBothProviders(t *testing.T) {
	primary := llm.NewMockProvider(evalJSON(90, true, "Strong grasp of node fanout.", "Hard"))
	secondary := llm.NewMockProvider(evalJSON(70, false, "Missing rebalancing.", "Medium"))
	svc := NewService(hybrid.New(primary, secondary))

	got, err := svc.Evaluate(context.Background(), testQuestion(), "It keeps nodes wide and balanced.")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got.Score != 82 || got.IsCorrect {
		t.Errorf("unexpected merge: %+v", got)
	}
	if got.SuggestedDifficulty != assess.Hard {
		t.Errorf("expected primary's difficulty suggestion, got %v", got.SuggestedDifficulty)
	}
}

func TestEvaluate_RequestShape(t *testing.T) {
	primary := llm.NewMockProvider(evalJSON(88, true, "Good.", "Hard"))
	secondary := llm.NewMockProvider(evalJSON(82, true, "Fine.", "Medium"))
	svc := NewService(hybrid.New(primary, secondary))

	q := testQuestion()
	if _, err := svc.Evaluate(context.Background(), q, "Wide nodes, shallow tree."); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if len(primary.Calls) != 1 {
		t.Fatalf("expected 1 primary call, got %d", len(primary.Calls))
	}
	req := primary.Calls[0]
	if req.Schema != EvaluationSchema {
		t.Error("expected the evaluation schema on the request")
	}
	if req.Temperature != evaluationTemperature || req.MaxTokens != evaluationMaxTokens {
		t.Errorf("unexpected sampling params: temp=%v maxTokens=%d", req.Temperature, req.MaxTokens)
	}
	user := req.Messages[0].Content
	for _, want := range []string{q.Topic, q.Text, "Wide nodes, shallow tree."} {
		if !strings.Contains(user, want) {
			t.Errorf("prompt missing %q:\n%s", want, user)
		}
	}
}

func TestEvaluate_BothProvidersFail(t *testing.T) {
	down := llm.MockResponse{Err: errors.New("down")}
	svc := NewService(hybrid.New(llm.NewMockProvider(down), llm.NewMockProvider(down)))

	_, err := svc.Evaluate(context.Background(), testQuestion(), "answer")

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got: %v", err)
	}
	if evalErr.QuestionID != "q-1" {
		t.Errorf("expected error to carry the question ID, got %q", evalErr.QuestionID)
	}
}
