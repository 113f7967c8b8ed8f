package game

import (
	"reflect"
	"testing"
)

func marks(s string) []Mark {
	out := make([]Mark, len(s))
	for i, c := range s {
		switch c {
		case 'c':
			out[i] = MarkCorrect
		case 'p':
			out[i] = MarkPresent
		default:
			out[i] = MarkAbsent
		}
	}
	return out
}

func TestFeedback(t *testing.T) {
	tests := []struct {
		name     string
		guess    string
		solution string
		want     []Mark
	}{
		{"all correct", "CRANE", "CRANE", marks("ccccc")},
		{"all absent", "BUMPH", "SLATE", marks("aaaaa")},
		{"anagram with one fixed letter", "NACRE", "CRANE", marks("ppppc")},
		// Solution has one L; the guess's first L must come up empty
		// because the positional match already consumed it.
		{"duplicate guess letter single solution letter", "LLAMA", "SLATE", marks("accaa")},
		// Solution ALLEY has two Ls; the stray guess L still scores.
		{"duplicate letters both credited", "LLAMA", "ALLEY", marks("pcpaa")},
		// Correct position consumes the slot before the present pass.
		{"correct consumes before present", "EERIE", "SLATE", marks("aaaac")},
		{"turkish runes", "ÇİÇEK", "ÇİÇEK", marks("ccccc")},
		{"turkish partial", "ŞEKER", "KEBAP", marks("acpaa")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Feedback(tt.guess, tt.solution)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Feedback(%q, %q) = %v, want %v", tt.guess, tt.solution, got, tt.want)
			}
		})
	}
}

func TestFeedbackNeverOvercounts(t *testing.T) {
	// correct+present marks for a letter never exceed its multiplicity in
	// the solution.
	guess, solution := "AAAAA", "ABBBA"
	got := Feedback(guess, solution)
	hits := 0
	for _, m := range got {
		if m != MarkAbsent {
			hits++
		}
	}
	if hits != 2 {
		t.Errorf("Feedback(%q, %q) credited A %d times, want 2 (%v)", guess, solution, hits, got)
	}
}

func TestWinScore(t *testing.T) {
	tests := []struct {
		attempts int
		want     int
	}{
		{1, 120},
		{2, 100},
		{3, 80},
		{4, 60},
		{5, 40},
		{6, 20},
		{0, 20},  // out of range falls back to multiplier 1
		{7, 20},  // out of range falls back to multiplier 1
		{-3, 20}, // out of range falls back to multiplier 1
	}
	for _, tt := range tests {
		if got := WinScore(tt.attempts); got != tt.want {
			t.Errorf("WinScore(%d) = %d, want %d", tt.attempts, got, tt.want)
		}
	}
}

func TestLossScore(t *testing.T) {
	tests := []struct {
		name string
		fb   []Mark
		want int
	}{
		{"two correct one present", marks("ccpaa"), 5},
		{"nothing", marks("aaaaa"), 0},
		{"all present", marks("ppppp"), 5},
		{"four correct", marks("cccca"), 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LossScore(tt.fb); got != tt.want {
				t.Errorf("LossScore(%v) = %d, want %d", tt.fb, got, tt.want)
			}
		})
	}
}

func TestAllCorrect(t *testing.T) {
	if !AllCorrect(marks("ccccc")) {
		t.Error("AllCorrect(ccccc) = false, want true")
	}
	if AllCorrect(marks("ccccp")) {
		t.Error("AllCorrect(ccccp) = true, want false")
	}
}
