package assess

import "fmt"

// Difficulty is a question difficulty level. The three levels are totally
// ordered Easy < Medium < Hard; the ordering only matters for adjacency
// (step up / step down), never for arithmetic.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// String returns the canonical wire value for the difficulty.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// Valid reports whether d is one of the three defined levels.
func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Hard
}

// ParseDifficulty converts a wire value into a Difficulty.
// Only the exact canonical forms "Easy", "Medium", and "Hard" are accepted.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "Easy":
		return Easy, nil
	case "Medium":
		return Medium, nil
	case "Hard":
		return Hard, nil
	}
	return 0, fmt.Errorf("invalid difficulty %q: must be one of Easy, Medium, Hard", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid difficulty value %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
