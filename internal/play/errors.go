// internal/play/errors.go
//
// Error taxonomy for the game session service. Every member maps to a
// distinct, user-actionable failure at the HTTP boundary; duplicate
// completions deliberately do not appear here because they degrade to a
// successful no-op response.

package play

import "errors"

var (
	// ErrSessionNotFound: unknown or expired session token. Clients
	// should start a new game.
	ErrSessionNotFound = errors.New("session not found")

	// ErrForbidden: the session belongs to a different identity.
	ErrForbidden = errors.New("session owned by another user")

	// ErrInvalidGuess: the normalized guess is not 5 letters from the
	// session language's alphabet.
	ErrInvalidGuess = errors.New("invalid guess")

	// ErrNoAttempts: the session already consumed all guesses.
	ErrNoAttempts = errors.New("no attempts remaining")

	// ErrGameNotFinished: completion or hint requested before a
	// terminal outcome / after one, respectively.
	ErrGameNotFinished = errors.New("game not finished")

	// ErrGameFinished: a hint was requested on a finished session.
	ErrGameFinished = errors.New("game already finished")

	// ErrInvalidProof: the payment proof is not a well-formed
	// transaction hash.
	ErrInvalidProof = errors.New("invalid payment proof")

	// ErrHintUsed: the session's single hint was already taken.
	ErrHintUsed = errors.New("hint already used")
)
