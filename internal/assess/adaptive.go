package assess

// NextDifficulty decides the difficulty for the next question from the
// session's performance history. It is a pure function of the history and
// the current level, invoked after every newly appended record.
//
// Only the last two records are inspected, and only when both attempts were
// made at the same level:
//
//	Medium + both correct   -> Hard
//	Hard   + both incorrect -> Medium
//	Medium + both incorrect -> Easy
//
// Everything else leaves the level unchanged, so Hard acts as a ceiling and
// Easy as a floor.
func NextDifficulty(history []PerformanceRecord, current Difficulty) Difficulty {
	if len(history) < 2 {
		return current
	}

	last := history[len(history)-1]
	prev := history[len(history)-2]

	// The window is only meaningful when both attempts were at the same level.
	if last.Difficulty != prev.Difficulty {
		return current
	}

	d := last.Difficulty
	bothCorrect := last.IsCorrect && prev.IsCorrect
	bothIncorrect := !last.IsCorrect && !prev.IsCorrect

	switch {
	case d == Medium && bothCorrect:
		return Hard
	case d == Hard && bothIncorrect:
		return Medium
	case d == Medium && bothIncorrect:
		return Easy
	}

	return current
}
