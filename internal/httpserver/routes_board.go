// internal/httpserver/routes_board.go
//
// Leaderboard and reward endpoints.
//   - GET  /leaderboard/daily   → today's (or ?date=) ranking
//   - GET  /leaderboard/weekly  → current week, best day per user
//   - GET  /leaderboard/best    → all-time, best day per user
//   - GET  /rewards/preview     → last week's winners (admin)
//   - POST /rewards/distribute  → pay last week's winners (admin)
//   - GET  /rewards/history     → the caller's reward ledger rows
//
// Ranking uses competition ranking throughout: tied scores share a rank and
// the next distinct score skips past the whole tie group.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"wordcast/internal/daily"
	"wordcast/internal/metrics"
	"wordcast/internal/rank"
)

const defaultBoardLimit = 20

func limitParam(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			return n
		}
	}
	return defaultBoardLimit
}

// -----------------------------------------------------------------------------
// leaderboards

func (s *Server) handleDailyBoard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now())
	}
	rows, err := s.db.ListResults(r.Context(), date, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"date": date,
		"top":  rank.Daily(rows, limitParam(r)),
	})
}

func (s *Server) handleWeeklyBoard(w http.ResponseWriter, r *http.Request) {
	start, end := daily.CurrentWeekRange(time.Now())
	rows, err := s.db.ListResults(r.Context(), start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"weekStart": start,
		"weekEnd":   end,
		"top":       rank.PerUserBest(rows, limitParam(r)),
	})
}

func (s *Server) handleBestBoard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.ListResults(r.Context(), "", "")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"top": rank.PerUserBest(rows, limitParam(r)),
	})
}

// -----------------------------------------------------------------------------
// rewards

func (s *Server) handleRewardsPreview(w http.ResponseWriter, r *http.Request) {
	p, err := s.dist.PreviewWeekly(r.Context(), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(p)
}

func (s *Server) handleRewardsDistribute(w http.ResponseWriter, r *http.Request) {
	outcomes, err := s.dist.Distribute(r.Context(), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	for _, o := range outcomes {
		if o.Status == "sent" {
			metrics.RewardsPaid.WithLabelValues(strconv.Itoa(o.Rank)).Inc()
		}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"results": outcomes})
}

func (s *Server) handleRewardsHistory(w http.ResponseWriter, r *http.Request) {
	me := caller(r)
	rows, err := s.db.ListRewardsForUser(r.Context(), me.FID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"rewards": rows})
}
