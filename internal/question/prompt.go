package question

import (
	"fmt"
	"strings"

	"github.com/rteja/assessly/internal/assess"
)

const systemPrompt = `You are an expert educator and assessment designer with deep knowledge across multiple subjects. Your questions are known for being clear, focused, and educational. You create questions that test genuine understanding and help students learn through practice. Generate questions that are specific, practical, and appropriate to the difficulty level.`

var difficultyGuidelines = map[assess.Difficulty]string{
	assess.Easy: `Easy level:
- Focus on fundamental concepts and basic definitions.
- Test recall and basic comprehension; answerable in 2-3 sentences.
- Openings like "What is...", "Define...", "List the main components of...".
- Avoid complex scenarios, multi-step reasoning, or advanced terminology.
- Target someone learning the topic for the first time.`,
	assess.Medium: `Medium level:
- Focus on practical application and how concepts relate.
- Test why things matter; expect 3-4 sentences with examples.
- Openings like "How does... work in practice?", "Why is... important?", "What happens when...".
- Include real-world scenarios and cause-and-effect.
- Target someone with basic knowledge who needs to apply it.`,
	assess.Hard: `Hard level:
- Focus on advanced analysis, evaluation, and synthesis.
- Test trade-offs and complex problem solving; expect detailed reasoning.
- Openings like "Analyze the trade-offs between...", "Design a solution for...", "How would you optimize...".
- Include edge cases, system design, and performance considerations.
- Target someone with solid understanding who can think critically.`,
}

// buildPrompt constructs the generation prompt for one topic and level.
func buildPrompt(topic string, difficulty assess.Difficulty) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a high-quality %s level interview question about %s.\n\n", difficulty, topic)
	b.WriteString(difficultyGuidelines[difficulty])
	b.WriteString("\n\nRequirements:\n")
	b.WriteString("- Focus on ONE specific aspect of the topic, not a general overview.\n")
	b.WriteString("- Make it crystal clear what you are asking, with no ambiguity.\n")
	b.WriteString("- Keep it practical and commonly encountered in real scenarios.\n")
	b.WriteString("- Match the complexity to the difficulty level exactly.\n")
	b.WriteString("- Start with a clear question word (What, How, Why, When, ...).\n")
	b.WriteString("- Keep it concise but complete: 1-2 sentences, conversational, interview-style.\n")
	b.WriteString("- Generate a unique question, not a stock interview question.\n")
	b.WriteString("\nReturn ONLY the question text. No preamble, no explanation, no formatting marks, no quotes.")

	return b.String()
}
