package evaluation

import "github.com/rteja/assessly/internal/llm"

// EvaluationSchema defines the JSON schema for structured answer
// evaluations. Both providers are asked for exactly this shape.
var EvaluationSchema = &llm.Schema{
	Name:        "answer-evaluation",
	Description: "A scored evaluation of a student's answer with feedback",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     100,
				"description": "Overall answer quality from 0 (insufficient) to 100 (excellent)",
			},
			"is_correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the answer is considered correct (score >= 80)",
			},
			"feedback_text": map[string]any{
				"type":        "string",
				"description": "Detailed, actionable feedback for the student, organized in paragraphs",
			},
			"suggested_difficulty": map[string]any{
				"type":        "string",
				"enum":        []any{"Easy", "Medium", "Hard"},
				"description": "Recommended difficulty for the next question",
			},
		},
		"required":             []any{"score", "is_correct", "feedback_text", "suggested_difficulty"},
		"additionalProperties": false,
	},
}
