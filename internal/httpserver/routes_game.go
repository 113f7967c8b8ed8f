// internal/httpserver/routes_game.go
//
// Game and profile endpoints. All of them run behind requireIdentity.
//   - POST /game/start     → create or reuse today's session
//   - POST /game/guess     → apply one guess
//   - POST /game/complete  → durably record a finished game
//   - POST /game/hint      → reveal one letter (once per session)
//   - GET  /profile/me     → profile + streak + today's result
//   - POST /profile/wallet → set the payout wallet address

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"wordcast/internal/game"
	"wordcast/internal/metrics"
	"wordcast/internal/pay"
	"wordcast/internal/repo"
	"wordcast/internal/words"
)

// -----------------------------------------------------------------------------
// /game/start

type startReq struct {
	Language string `json:"language"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Language == "" {
		req.Language = string(words.LangEN)
	}
	lang, err := words.ParseLanguage(req.Language)
	if err != nil {
		http.Error(w, `{"error":"invalid_language"}`, http.StatusBadRequest)
		return
	}

	me := caller(r)
	res, err := s.svc.StartGame(r.Context(), me.FID, lang, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	mode := "ranked"
	if res.IsPractice {
		mode = "practice"
	}
	metrics.GamesStarted.WithLabelValues(string(lang), mode).Inc()
	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// /game/guess

type guessReq struct {
	SessionID string `json:"sessionId"`
	Guess     string `json:"guess"`
}

type guessRes struct {
	Feedback          []game.Mark `json:"feedback"`
	AttemptsUsed      int         `json:"attemptsUsed"`
	Won               bool        `json:"won"`
	RemainingAttempts int         `json:"remainingAttempts"`
	GameOver          bool        `json:"gameOver"`
	Solution          string      `json:"solution,omitempty"`
	Score             *int        `json:"score,omitempty"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	me := caller(r)
	res, err := s.svc.SubmitGuess(r.Context(), req.SessionID, me.FID, req.Guess)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	metrics.GuessesSubmitted.Inc()

	out := guessRes{
		Feedback:          res.Feedback,
		AttemptsUsed:      res.Attempts,
		Won:               res.Won,
		RemainingAttempts: res.Remaining,
		GameOver:          res.GameOver,
	}
	if res.GameOver {
		// Only terminal responses carry the solution and score.
		out.Solution = res.Solution
		score := res.Score
		out.Score = &score
	}
	_ = json.NewEncoder(w).Encode(out)
}

// -----------------------------------------------------------------------------
// /game/complete

type completeReq struct {
	SessionID string `json:"sessionId"`
	TxHash    string `json:"txHash"`
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	me := caller(r)
	res, err := s.svc.CompleteGame(r.Context(), req.SessionID, me.FID, req.TxHash, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	mode := "ranked"
	switch {
	case res.IsPractice:
		mode = "practice"
	case !res.ScoreRecorded:
		mode = "duplicate"
	}
	metrics.GamesCompleted.WithLabelValues(mode, boolLabel(res.ScoreRecorded)).Inc()
	_ = json.NewEncoder(w).Encode(res)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// -----------------------------------------------------------------------------
// /game/hint

type hintReq struct {
	SessionID string `json:"sessionId"`
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req hintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	me := caller(r)
	hint, err := s.svc.GetHint(req.SessionID, me.FID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(hint)
}

// -----------------------------------------------------------------------------
// /profile

func (s *Server) handleProfileMe(w http.ResponseWriter, r *http.Request) {
	me := caller(r)
	profile, err := s.db.GetProfile(r.Context(), me.FID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	streak, err := s.db.GetOrCreateStreak(r.Context(), me.FID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	today := time.Now().UTC().Format("2006-01-02")
	var todayResult *repo.DailyResult
	if res, err := s.db.GetDailyResult(r.Context(), me.FID, today); err == nil {
		todayResult = res
	} else if !errors.Is(err, repo.ErrNotFound) {
		writeServiceError(w, err)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"profile": profile,
		"streak":  streak,
		"today":   todayResult,
	})
}

type walletReq struct {
	Address string `json:"address"`
}

func (s *Server) handleSetWallet(w http.ResponseWriter, r *http.Request) {
	var req walletReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if !pay.IsValidAddress(req.Address) {
		http.Error(w, `{"error":"invalid_address"}`, http.StatusBadRequest)
		return
	}
	me := caller(r)
	if err := s.db.SetWallet(r.Context(), me.FID, req.Address); err != nil {
		writeServiceError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
