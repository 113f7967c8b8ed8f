// internal/play/service.go
//
// Game session orchestration: start, guess, complete, hint.
//
// State machine per session: playing → won/lost → completed. The terminal
// outcome is entered exactly once, when a guess matches the solution or the
// sixth attempt is consumed; completed is entered exactly once, when a
// well-formed payment proof is accepted and the result durably processed.
//
// Anti-abuse properties enforced here:
//   - single active session per user per day/language (start reuses it);
//   - ownership re-checked on every call even though the session token is
//     itself a capability;
//   - the solution is never revealed on in-progress responses;
//   - per-session locking so concurrent duplicate guesses cannot both
//     observe the same attempt count;
//   - duplicate completions (retries, races) absorb silently into a
//     successful response that records nothing.

package play

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"

	"wordcast/internal/daily"
	"wordcast/internal/game"
	"wordcast/internal/pay"
	"wordcast/internal/repo"
	"wordcast/internal/store"
	"wordcast/internal/words"
)

// Config carries the service's tunables.
type Config struct {
	// DailySalt keys the deterministic word derivation. Secret.
	DailySalt string

	// RandomWords switches solution selection from the deterministic
	// daily derivation to a random pick per session.
	RandomWords bool

	// RankedAlways disables practice-mode detection (dev/test override).
	RankedAlways bool
}

// Repo is the slice of the persistent store this service needs.
// *repo.Store implementations satisfy it.
type Repo interface {
	GetDailyResult(ctx context.Context, fid int64, date string) (*repo.DailyResult, error)
	CreateDailyResult(ctx context.Context, r repo.DailyResult) error
	GetOrCreateStreak(ctx context.Context, fid int64) (*repo.Streak, error)
	UpdateStreak(ctx context.Context, s repo.Streak) error
}

// Service wires the session registry, the persistent store, and the word
// oracle into the start/guess/complete/hint operations.
type Service struct {
	sessions store.Store
	db       Repo
	cfg      Config
}

func NewService(sessions store.Store, db Repo, cfg Config) *Service {
	return &Service{sessions: sessions, db: db, cfg: cfg}
}

// StartResult is returned by StartGame.
type StartResult struct {
	SessionID   string `json:"sessionId"`
	MaxAttempts int    `json:"maxAttempts"`
	IsPractice  bool   `json:"isPracticeMode"`
}

// StartGame returns a playable session for (user, today, language),
// reusing the user's active session when one exists for the same day and
// language. Repeated calls therefore hand back the same session token,
// which is the anti-multi-session defense.
func (s *Service) StartGame(ctx context.Context, userID int64, lang words.Language, now time.Time) (*StartResult, error) {
	today := daily.DateKey(now)

	practice, err := s.isPractice(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	if sess, ok := s.sessions.FindActiveForUser(userID); ok {
		sess.Lock()
		if sess.Date == today && sess.Language == lang {
			// Refresh the flag: the calendar day may have advanced
			// since the session was created.
			sess.Practice = practice
			id := sess.ID
			sess.Unlock()
			return &StartResult{SessionID: id, MaxAttempts: game.MaxAttempts, IsPractice: practice}, nil
		}
		id := sess.ID
		sess.Unlock()
		s.sessions.Remove(id)
	}

	var solution string
	if s.cfg.RandomWords {
		solution = words.RandomAnswer(lang)
	} else {
		solution = daily.SolutionFor(today, lang, s.cfg.DailySalt)
	}
	sess := s.sessions.Create(userID, lang, solution, today, practice)
	log.Debug().Int64("fid", userID).Str("lang", string(lang)).Str("date", today).
		Bool("practice", practice).Msg("session created")
	return &StartResult{SessionID: sess.ID, MaxAttempts: game.MaxAttempts, IsPractice: practice}, nil
}

// isPractice reports whether the user already holds a ranked result today.
func (s *Service) isPractice(ctx context.Context, userID int64, today string) (bool, error) {
	if s.cfg.RankedAlways {
		return false, nil
	}
	_, err := s.db.GetDailyResult(ctx, userID, today)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// GuessResult is returned by SubmitGuess. Solution and Score carry values
// only when GameOver is true; the solution must never leak earlier.
type GuessResult struct {
	Feedback  []game.Mark
	Attempts  int
	Won       bool
	Remaining int
	GameOver  bool
	Solution  string
	Score     int
}

// SubmitGuess validates, applies, and scores one guess.
func (s *Service) SubmitGuess(ctx context.Context, sessionID string, userID int64, rawGuess string) (*GuessResult, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.UserID != userID {
		return nil, ErrForbidden
	}

	normalized := words.Normalize(rawGuess, sess.Language)
	if !words.IsWellFormed(normalized, sess.Language) {
		return nil, ErrInvalidGuess
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Finished() || sess.Attempts >= game.MaxAttempts {
		return nil, ErrNoAttempts
	}

	sess.Guesses = append(sess.Guesses, normalized)
	sess.Attempts++

	feedback := game.Feedback(normalized, sess.Solution)
	won := normalized == sess.Solution
	gameOver := won || sess.Attempts == game.MaxAttempts

	res := &GuessResult{
		Feedback:  feedback,
		Attempts:  sess.Attempts,
		Won:       won,
		Remaining: game.MaxAttempts - sess.Attempts,
		GameOver:  gameOver,
	}
	if gameOver {
		if won {
			sess.Outcome = game.OutcomeWon
			sess.FinalScore = game.WinScore(sess.Attempts)
		} else {
			sess.Outcome = game.OutcomeLost
			sess.FinalScore = game.LossScore(feedback)
		}
		res.Solution = sess.Solution
		res.Score = sess.FinalScore
	}
	return res, nil
}

// CompleteResult is returned by CompleteGame. ScoreRecorded is false when
// the completion was practice mode or a duplicate; the call still succeeds.
type CompleteResult struct {
	Streak        int  `json:"streak"`
	MaxStreak     int  `json:"maxStreak"`
	IsPractice    bool `json:"isPracticeMode"`
	ScoreRecorded bool `json:"scoreRecorded"`
}

// CompleteGame durably records a finished session.
//
// The proof is validated by format only; on-chain settlement is trusted to
// the caller. Practice mode is re-validated against the store at this
// moment rather than trusting the flag captured at session start, which
// closes the race where the day advanced or a concurrent ranked completion
// landed in between. A uniqueness violation on the result insert is
// absorbed as a benign duplicate, never surfaced as an error.
func (s *Service) CompleteGame(ctx context.Context, sessionID string, userID int64, proof string, now time.Time) (*CompleteResult, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.UserID != userID {
		return nil, ErrForbidden
	}
	if !pay.IsValidProof(proof) {
		return nil, ErrInvalidProof
	}

	sess.Lock()
	defer sess.Unlock()

	if !sess.Finished() {
		return nil, ErrGameNotFinished
	}

	today := daily.DateKey(now)
	_, err := s.db.GetDailyResult(ctx, userID, today)
	hasRanked := err == nil
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	practice := sess.Practice && hasRanked

	if practice || hasRanked {
		return s.completeWithoutRecord(ctx, sess, practice)
	}

	err = s.db.CreateDailyResult(ctx, repo.DailyResult{
		FID:      userID,
		Date:     today,
		Attempts: sess.Attempts,
		Won:      sess.Outcome == game.OutcomeWon,
		Score:    sess.FinalScore,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		// Lost the insert race to a concurrent completion.
		return s.completeWithoutRecord(ctx, sess, practice)
	}
	if err != nil {
		return nil, err
	}

	st, err := s.db.GetOrCreateStreak(ctx, userID)
	if err != nil {
		return nil, err
	}
	if daily.IsNextDay(st.LastPlayed, today) {
		st.Current++
	} else {
		st.Current = 1
	}
	if st.Current > st.Max {
		st.Max = st.Current
	}
	st.LastPlayed = today
	if err := s.db.UpdateStreak(ctx, *st); err != nil {
		return nil, err
	}

	sess.Completed = true
	log.Info().Int64("fid", userID).Str("date", today).Int("score", sess.FinalScore).
		Int("streak", st.Current).Msg("ranked completion recorded")
	return &CompleteResult{
		Streak:        st.Current,
		MaxStreak:     st.Max,
		ScoreRecorded: true,
	}, nil
}

// completeWithoutRecord marks the session completed and reports the
// current streak values without writing a result or touching the streak.
func (s *Service) completeWithoutRecord(ctx context.Context, sess *game.Session, practice bool) (*CompleteResult, error) {
	st, err := s.db.GetOrCreateStreak(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	sess.Completed = true
	return &CompleteResult{
		Streak:     st.Current,
		MaxStreak:  st.Max,
		IsPractice: practice,
	}, nil
}

// Hint reveals one solution letter at a random position.
type Hint struct {
	Position int    `json:"position"`
	Letter   string `json:"letter"`
}

// GetHint reveals a letter once per session. The one-shot limit is
// enforced here rather than trusted to the client.
func (s *Service) GetHint(sessionID string, userID int64) (*Hint, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.UserID != userID {
		return nil, ErrForbidden
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Finished() {
		return nil, ErrGameFinished
	}
	if sess.HintUsed {
		return nil, ErrHintUsed
	}

	runes := []rune(sess.Solution)
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(runes))))
	pos := int(nBig.Int64())
	sess.HintUsed = true
	return &Hint{Position: pos, Letter: string(runes[pos])}, nil
}
