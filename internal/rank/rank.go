// internal/rank/rank.go
//
// Pure leaderboard ranking over persisted daily results.
//
// Ordering is score DESC, attempts ASC, created_at ASC. Ranks use standard
// competition ranking: entries with equal scores share the lowest rank of
// the group and the next distinct score's rank equals the count of entries
// ranked before it (1,1,3 — not dense 1,1,2).

package rank

import (
	"sort"

	"wordcast/internal/repo"
)

// Entry is one ranked leaderboard row.
type Entry struct {
	Rank     int    `json:"rank"`
	FID      int64  `json:"fid"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Attempts int    `json:"attempts"`
	Won      bool   `json:"won"`
	Date     string `json:"date"`
	Wallet   string `json:"-"` // carried through for reward distribution
}

// Daily ranks all results for a single day.
// The rows are expected to already be filtered to one date.
func Daily(rows []repo.ResultRow, limit int) []Entry {
	return rank(rows, limit)
}

// PerUserBest selects each user's single best-scoring row (tie-break:
// fewer attempts, then earliest creation) and ranks the selection. Used
// for both the weekly leaderboard (rows filtered to the week) and the
// all-time best-scores leaderboard (unfiltered rows).
func PerUserBest(rows []repo.ResultRow, limit int) []Entry {
	best := make(map[int64]repo.ResultRow, len(rows))
	for _, r := range rows {
		cur, ok := best[r.FID]
		if !ok || better(r, cur) {
			best[r.FID] = r
		}
	}
	selected := make([]repo.ResultRow, 0, len(best))
	for _, r := range best {
		selected = append(selected, r)
	}
	return rank(selected, limit)
}

// better reports whether a beats b as a user's representative row.
func better(a, b repo.ResultRow) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Attempts != b.Attempts {
		return a.Attempts < b.Attempts
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func rank(rows []repo.ResultRow, limit int) []Entry {
	sorted := make([]repo.ResultRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		if sorted[i].Attempts != sorted[j].Attempts {
			return sorted[i].Attempts < sorted[j].Attempts
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	if limit <= 0 {
		limit = 20
	}
	out := make([]Entry, 0, limit)
	for i, r := range sorted {
		if i >= limit {
			break
		}
		rk := i + 1
		// Equal scores share the rank of the first entry in the group.
		if i > 0 && r.Score == sorted[i-1].Score {
			rk = out[i-1].Rank
		}
		out = append(out, Entry{
			Rank:     rk,
			FID:      r.FID,
			Username: r.Username,
			Score:    r.Score,
			Attempts: r.Attempts,
			Won:      r.Won,
			Date:     r.Date,
			Wallet:   r.Wallet,
		})
	}
	return out
}
