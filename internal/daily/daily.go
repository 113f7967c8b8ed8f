// internal/daily/daily.go
//
// Calendar and deterministic word-selection helpers.
// All date math uses UTC: date keys, streak adjacency, and week ranges are
// computed against the same fixed reference timezone.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"wordcast/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date and language using
// HMAC(salt, "YYYY-MM-DD|lang") % answersLen. The same inputs always select
// the same word; without the salt the index is effectively unpredictable.
func WordIndex(dateKey string, lang words.Language, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dateKey + "|" + string(lang)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for modulus distribution
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}

// SolutionFor picks the day's answer for a language from its loaded list.
func SolutionFor(dateKey string, lang words.Language, salt string) string {
	list := words.List(lang)
	if len(list) == 0 {
		return ""
	}
	return list[WordIndex(dateKey, lang, salt, len(list))]
}

// IsNextDay reports whether cur is exactly the calendar day after prev.
// Malformed keys are never adjacent.
func IsNextDay(prev, cur string) bool {
	p, err := time.Parse("2006-01-02", prev)
	if err != nil {
		return false
	}
	c, err := time.Parse("2006-01-02", cur)
	if err != nil {
		return false
	}
	return p.AddDate(0, 0, 1).Equal(c)
}

// WeekStart returns the date key of the Monday of t's week.
func WeekStart(t time.Time) string {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return DateKey(t.AddDate(0, 0, -offset))
}

// CurrentWeekRange returns [Monday, Sunday] date keys for t's week.
func CurrentWeekRange(t time.Time) (start, end string) {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	return DateKey(monday), DateKey(monday.AddDate(0, 0, 6))
}

// PrevWeekRange returns [Monday, Sunday] date keys for the week before t's.
func PrevWeekRange(t time.Time) (start, end string) {
	return CurrentWeekRange(t.UTC().AddDate(0, 0, -7))
}
