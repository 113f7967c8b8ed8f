// internal/game/engine.go
//
// Pure guess evaluation and scoring.
// Responsibilities:
//   - Score guesses against the answer with the classic two-pass algorithm.
//   - Compute win scores (attempt-count multiplier) and loss scores.
//
// Notes:
//   - Works on runes, not bytes: Turkish answers contain multi-byte letters.
//   - All functions are pure and total; validation happens in the play
//     service before they are called.

package game

// winMultipliers is indexed by attempts-1: winning on the first guess is
// worth six times the base, the sixth guess once the base.
var winMultipliers = [MaxAttempts]int{6, 5, 4, 3, 2, 1}

// baseWinScore is the per-win base before the attempt multiplier.
const baseWinScore = 20

// Feedback implements the standard two-pass evaluation.
//
// Pass 1:
//   - Mark exact position matches as correct.
//   - Count the remaining (non-correct) answer letters.
//
// Pass 2:
//   - For each non-correct guess letter: if unconsumed answer occurrences
//     remain, mark present and consume one; otherwise mark absent.
//
// This yields correct behavior for repeated letters in guess and answer:
// the total of correct+present marks for any letter never exceeds its
// multiplicity in the answer.
func Feedback(guess, solution string) []Mark {
	guessRunes := []rune(guess)
	solRunes := []rune(solution)
	n := len(guessRunes)
	res := make([]Mark, n)

	counts := make(map[rune]int, n)
	for i := 0; i < n; i++ {
		if guessRunes[i] == solRunes[i] {
			res[i] = MarkCorrect
		} else {
			counts[solRunes[i]]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == MarkCorrect {
			continue
		}
		if counts[guessRunes[i]] > 0 {
			res[i] = MarkPresent
			counts[guessRunes[i]]--
		} else {
			res[i] = MarkAbsent
		}
	}
	return res
}

// AllCorrect returns true if every mark is MarkCorrect.
func AllCorrect(marks []Mark) bool {
	for _, m := range marks {
		if m != MarkCorrect {
			return false
		}
	}
	return true
}

// WinScore computes the score for a won game: base 20 times the attempt
// multiplier (attempt 1 → 120, attempt 6 → 20). Attempts outside 1..6
// fall back to multiplier 1.
func WinScore(attempts int) int {
	mult := 1
	if attempts >= 1 && attempts <= MaxAttempts {
		mult = winMultipliers[attempts-1]
	}
	return baseWinScore * mult
}

// LossScore computes the consolation score from the final (losing) guess:
// two points per correct letter, one per present. No multiplier applies.
func LossScore(finalFeedback []Mark) int {
	score := 0
	for _, m := range finalFeedback {
		switch m {
		case MarkCorrect:
			score += 2
		case MarkPresent:
			score++
		}
	}
	return score
}
