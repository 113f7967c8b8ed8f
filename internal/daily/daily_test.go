package daily

import (
	"testing"
	"time"

	"wordcast/internal/words"
)

func TestDateKey(t *testing.T) {
	// 23:30 in UTC-2 is already the next day in UTC.
	loc := time.FixedZone("west", -2*3600)
	tm := time.Date(2026, 3, 14, 23, 30, 0, 0, loc)
	if got := DateKey(tm); got != "2026-03-15" {
		t.Errorf("DateKey = %q, want 2026-03-15", got)
	}
}

func TestWordIndexDeterministic(t *testing.T) {
	const salt = "test_salt"
	a := WordIndex("2026-03-14", words.LangEN, salt, 1000)
	for i := 0; i < 10; i++ {
		if b := WordIndex("2026-03-14", words.LangEN, salt, 1000); b != a {
			t.Fatalf("WordIndex not deterministic: %d vs %d", a, b)
		}
	}
}

func TestWordIndexVariesWithInputs(t *testing.T) {
	const salt = "test_salt"
	base := WordIndex("2026-03-14", words.LangEN, salt, 100000)
	if WordIndex("2026-03-15", words.LangEN, salt, 100000) == base {
		t.Error("changing the date did not change the index")
	}
	if WordIndex("2026-03-14", words.LangTR, salt, 100000) == base {
		t.Error("changing the language did not change the index")
	}
	if WordIndex("2026-03-14", words.LangEN, "other_salt", 100000) == base {
		t.Error("changing the salt did not change the index")
	}
}

func TestWordIndexBounds(t *testing.T) {
	for n := 1; n < 50; n++ {
		idx := WordIndex("2026-03-14", words.LangEN, "s", n)
		if idx < 0 || idx >= n {
			t.Fatalf("WordIndex out of bounds: %d for len %d", idx, n)
		}
	}
	if WordIndex("2026-03-14", words.LangEN, "s", 0) != 0 {
		t.Error("WordIndex with empty list should be 0")
	}
}

func TestSolutionForDeterministic(t *testing.T) {
	if err := words.Init(); err != nil {
		t.Fatalf("words.Init() error = %v", err)
	}
	a := SolutionFor("2026-03-14", words.LangTR, "salt")
	b := SolutionFor("2026-03-14", words.LangTR, "salt")
	if a == "" || a != b {
		t.Errorf("SolutionFor not stable: %q vs %q", a, b)
	}
}

func TestIsNextDay(t *testing.T) {
	tests := []struct {
		prev, cur string
		want      bool
	}{
		{"2026-03-14", "2026-03-15", true},
		{"2026-02-28", "2026-03-01", true},
		{"2024-02-28", "2024-02-29", true}, // leap year
		{"2026-12-31", "2027-01-01", true},
		{"2026-03-14", "2026-03-16", false},
		{"2026-03-15", "2026-03-14", false},
		{"2026-03-14", "2026-03-14", false},
		{"", "2026-03-14", false},
		{"garbage", "2026-03-14", false},
	}
	for _, tt := range tests {
		if got := IsNextDay(tt.prev, tt.cur); got != tt.want {
			t.Errorf("IsNextDay(%q, %q) = %v, want %v", tt.prev, tt.cur, got, tt.want)
		}
	}
}

func TestWeekRanges(t *testing.T) {
	// 2026-03-14 is a Saturday.
	sat := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	start, end := CurrentWeekRange(sat)
	if start != "2026-03-09" || end != "2026-03-15" {
		t.Errorf("CurrentWeekRange = [%s, %s], want [2026-03-09, 2026-03-15]", start, end)
	}

	start, end = PrevWeekRange(sat)
	if start != "2026-03-02" || end != "2026-03-08" {
		t.Errorf("PrevWeekRange = [%s, %s], want [2026-03-02, 2026-03-08]", start, end)
	}

	// A Monday belongs to its own week.
	mon := time.Date(2026, 3, 9, 0, 30, 0, 0, time.UTC)
	if ws := WeekStart(mon); ws != "2026-03-09" {
		t.Errorf("WeekStart(monday) = %s, want 2026-03-09", ws)
	}
	// Sunday closes the week that started the previous Monday.
	sun := time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC)
	if ws := WeekStart(sun); ws != "2026-03-09" {
		t.Errorf("WeekStart(sunday) = %s, want 2026-03-09", ws)
	}
}
