// internal/game/types.go
//
// Core type definitions for the daily word game.
// Defines:
//   - Mark: per-letter result of a guess (correct/present/absent).
//   - Outcome: coarse session state (in_progress/won/lost).
//   - Session: server-side state for one in-progress or finished puzzle.

package game

import (
	"sync"

	"wordcast/internal/words"
)

// Mark represents the evaluation result for a single letter in a guess.
//   - "correct": letter is in the answer at this position.
//   - "present": letter is in the answer at a different position.
//   - "absent":  letter does not occur in the answer (or all its
//     occurrences are already accounted for).
type Mark string

const (
	MarkCorrect Mark = "correct"
	MarkPresent Mark = "present"
	MarkAbsent  Mark = "absent"
)

// Outcome is the session's game state. It transitions exactly once from
// OutcomeInProgress to a terminal value.
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeWon        Outcome = "won"
	OutcomeLost       Outcome = "lost"
)

// MaxAttempts is the number of guesses allowed per session.
const MaxAttempts = 6

// Session holds the ephemeral state of a single daily puzzle attempt.
// The embedded mutex serializes guess application and completion for the
// session so concurrent double-submissions cannot double-apply.
//
// Invariants (enforced by the play service):
//   - Attempts <= MaxAttempts and len(Guesses) == Attempts.
//   - Outcome is terminal iff the puzzle was won or Attempts == MaxAttempts.
//   - FinalScore is set exactly when Outcome becomes terminal.
//   - Completed flips to true at most once, on durable completion.
type Session struct {
	sync.Mutex

	ID         string         // opaque capability token
	UserID     int64          // owner identity (fid)
	Solution   string         // uppercase answer, fixed at creation
	Language   words.Language // fixed at creation
	Guesses    []string       // normalized guesses, append-only
	Attempts   int
	Outcome    Outcome
	FinalScore int
	Practice   bool   // user already had a ranked result when created
	Date       string // YYYY-MM-DD the session was opened for
	HintUsed   bool
	Completed  bool
}

// Finished reports whether the session reached a terminal outcome.
func (s *Session) Finished() bool {
	return s.Outcome != OutcomeInProgress
}
