package hybrid

import (
	"strings"
	"unicode"
)

// questionOpeners are the openings that mark a well-formed question or
// prompt. Matched case-insensitively against the start of the text.
var questionOpeners = []string{
	"what", "how", "why", "when", "where", "which", "who",
	"can", "could", "would", "should",
	"explain", "describe", "analyze",
}

// scoreQuestion rates a candidate question text on a 0-100 scale. The
// heuristic is deterministic so that the same pair of candidates always
// picks the same winner:
//
//	base 50
//	+20 if length in [50,150], else +10 if length in [30,200]
//	+10 if the text contains a digit
//	+15 if it opens with a question word
//	+5  if it ends with '?'
//
// capped at 100.
func scoreQuestion(text string) int {
	t := strings.TrimSpace(text)
	score := 50

	length := len([]rune(t))
	switch {
	case length >= 50 && length <= 150:
		score += 20
	case length >= 30 && length <= 200:
		score += 10
	}

	if strings.ContainsFunc(t, unicode.IsDigit) {
		score += 10
	}

	lower := strings.ToLower(t)
	for _, opener := range questionOpeners {
		if strings.HasPrefix(lower, opener) {
			score += 15
			break
		}
	}

	if strings.HasSuffix(t, "?") {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}
