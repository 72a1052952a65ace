package assess

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewPerformanceRecord_DerivesCorrectness(t *testing.T) {
	tests := []struct {
		score int
		want  bool
	}{
		{0, false},
		{79, false},
		{80, true},
		{100, true},
	}

	for _, tt := range tests {
		r := NewPerformanceRecord("q1", tt.score, Medium, time.Now())
		if r.IsCorrect != tt.want {
			t.Errorf("score %d: IsCorrect = %v, want %v", tt.score, r.IsCorrect, tt.want)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, s := range []string{"Easy", "Medium", "Hard"} {
		d, err := ParseDifficulty(s)
		if err != nil {
			t.Fatalf("ParseDifficulty(%q): %v", s, err)
		}
		if d.String() != s {
			t.Errorf("round trip %q: got %q", s, d.String())
		}
	}

	for _, s := range []string{"easy", "HARD", "medium ", "", "Extreme"} {
		if _, err := ParseDifficulty(s); err == nil {
			t.Errorf("ParseDifficulty(%q): expected error", s)
		}
	}
}

func TestDifficulty_Ordering(t *testing.T) {
	if !(Easy < Medium && Medium < Hard) {
		t.Fatal("expected Easy < Medium < Hard")
	}
}

func TestDifficulty_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		D Difficulty `json:"d"`
	}{Hard})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"d":"Hard"}` {
		t.Errorf("unexpected JSON: %s", b)
	}

	var out struct {
		D Difficulty `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"d":"Medium"}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.D != Medium {
		t.Errorf("got %s, want Medium", out.D)
	}

	if err := json.Unmarshal([]byte(`{"d":"bogus"}`), &out); err == nil {
		t.Error("expected error for invalid difficulty")
	}
}

func TestSession_CloneIsIndependent(t *testing.T) {
	s := &Session{
		ID:      "s1",
		Topic:   "go concurrency",
		History: []PerformanceRecord{NewPerformanceRecord("q1", 90, Medium, time.Now())},
	}

	cp := s.Clone()
	cp.History = append(cp.History, NewPerformanceRecord("q2", 10, Medium, time.Now()))
	cp.History[0].Score = 0

	if len(s.History) != 1 {
		t.Fatalf("clone append leaked into original: %d records", len(s.History))
	}
	if s.History[0].Score != 90 {
		t.Errorf("clone mutation leaked into original: score %d", s.History[0].Score)
	}
}
