package hybrid

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rteja/assessly/internal/assess"
	"github.com/rteja/assessly/internal/llm"
)

// evalPayload is the wire shape each provider is asked to return. Pointer
// fields distinguish "missing" from zero values.
type evalPayload struct {
	Score               *int   `json:"score"`
	IsCorrect           *bool  `json:"is_correct"`
	FeedbackText        string `json:"feedback_text"`
	SuggestedDifficulty string `json:"suggested_difficulty"`
}

// MergedEvaluation runs the request on both providers and merges their
// structured evaluations. A leg whose payload does not parse or validate
// has failed; parse failures are not retried here, the invoker already
// retried transport failures. If only one leg survives its result is
// returned unchanged.
func (c *Client) MergedEvaluation(ctx context.Context, req llm.Request) (*assess.EvaluationResult, error) {
	pOut, sOut := c.invokeBoth(ctx, req)

	pRes, pErr := evalResult(pOut)
	sRes, sErr := evalResult(sOut)

	switch {
	case pErr != nil && sErr != nil:
		return nil, &ErrBothProvidersFailed{Primary: pErr, Secondary: sErr}
	case pErr != nil:
		return sRes, nil
	case sErr != nil:
		return pRes, nil
	}

	return merge(pRes, sRes), nil
}

func evalResult(out outcome) (*assess.EvaluationResult, error) {
	if out.err != nil {
		return nil, out.err
	}
	return parseEvaluation(out.resp.Content)
}

// parseEvaluation validates one leg's raw payload. Any defect makes the
// whole leg fail: a missing field, a score outside [0,100], empty feedback,
// or an unknown difficulty.
func parseEvaluation(raw json.RawMessage) (*assess.EvaluationResult, error) {
	var p evalPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: err}
	}

	if p.Score == nil {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: fmt.Errorf("missing score")}
	}
	if *p.Score < 0 || *p.Score > 100 {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: fmt.Errorf("score %d outside [0,100]", *p.Score)}
	}
	if p.IsCorrect == nil {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: fmt.Errorf("missing is_correct")}
	}

	feedback := strings.TrimSpace(p.FeedbackText)
	if feedback == "" {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: fmt.Errorf("empty feedback_text")}
	}

	difficulty, err := assess.ParseDifficulty(p.SuggestedDifficulty)
	if err != nil {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: err}
	}

	return &assess.EvaluationResult{
		Score:               *p.Score,
		IsCorrect:           *p.IsCorrect,
		FeedbackText:        feedback,
		SuggestedDifficulty: difficulty,
	}, nil
}

// merge combines two valid evaluations. The score is a 60/40 weighted
// average favoring the primary; correctness requires agreement, so the
// merged result can be marked incorrect even when the merged score clears
// the threshold. Feedback comes from the primary unless the secondary's is
// more than 1.5x longer. The difficulty suggestion is the primary's alone.
func merge(primary, secondary *assess.EvaluationResult) *assess.EvaluationResult {
	score := int(math.Round(float64(primary.Score)*0.6 + float64(secondary.Score)*0.4))

	feedback := primary.FeedbackText
	if float64(len(secondary.FeedbackText)) > 1.5*float64(len(primary.FeedbackText)) {
		feedback = secondary.FeedbackText
	}

	return &assess.EvaluationResult{
		Score:               score,
		IsCorrect:           primary.IsCorrect && secondary.IsCorrect,
		FeedbackText:        feedback,
		SuggestedDifficulty: primary.SuggestedDifficulty,
	}
}
