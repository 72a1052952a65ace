package evaluation

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert educator and mentor who provides comprehensive, detailed feedback. Your evaluations are thorough, specific, and educational. You identify both strengths and areas for improvement with concrete examples, so students understand not just what they got wrong but exactly how to improve. You write in paragraphs with clear structure and provide at least 5 sentences of actionable feedback. You always respond with valid JSON in the exact format specified.`

// buildPrompt constructs the evaluation prompt for one answer.
func buildPrompt(topic, questionText, answerText string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Question: %s\n", questionText)
	fmt.Fprintf(&b, "Student Answer: %s\n", answerText)

	b.WriteString(`
Evaluate the answer against these criteria: accuracy, completeness, clarity, depth of understanding, and relevance to what was asked.

Provide:
1. A score from 0-100:
   - 90-100: excellent - accurate, complete, clear, shows deep understanding
   - 80-89: good - mostly correct with minor gaps
   - 70-79: satisfactory - correct basics but missing depth or with some errors
   - 60-69: needs improvement - partial understanding with significant gaps
   - below 60: insufficient - major misunderstandings or incomplete
2. Whether the answer is correct (a score of 80 or above is correct).
3. Detailed feedback (at least 5 sentences) covering: what the student did well with specific points they made, what was missing or inaccurate, concrete suggestions for improvement, the key concepts to remember, and an encouraging close. Be specific, mention actual concepts, give partial credit for correct elements, and keep the tone friendly.
4. A suggested difficulty for the next question: "Hard" for a score of 85 or above, "Medium" for 70-84, "Easy" below 70.

Respond as JSON:
{
  "score": <integer 0-100>,
  "is_correct": <boolean>,
  "feedback_text": "<detailed feedback in paragraphs>",
  "suggested_difficulty": "<Easy|Medium|Hard>"
}`)

	return b.String()
}
