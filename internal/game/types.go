// internal/game/types.go
//
// Core type definitions for the Wordle game engine.
// Defines:
//   - Verdict: per-letter result of a guess (exact/present/absent).
//   - Sequence: the five verdicts for one guess.
//   - Outcome: round status (in progress/won/lost).
//   - The engine's sentinel errors.

package game

import "errors"

const (
	// WordLength is the number of letters in targets and guesses.
	WordLength = 5

	// MaxAttempts is the number of guesses allowed per round. It matches the
	// size of the guess-distribution statistic.
	MaxAttempts = 6
)

var (
	// ErrInvalidLength is returned when a target or guess is not WordLength letters.
	ErrInvalidLength = errors.New("game: word must be 5 letters")

	// ErrRoundOver is returned when a guess is submitted after the round finished.
	ErrRoundOver = errors.New("game: round is over")

	// ErrRoundNotStarted is returned when a guess is submitted before Start.
	ErrRoundNotStarted = errors.New("game: round not started")
)

// Verdict is the evaluation result for a single letter of a guess.
//   - "exact":   letter is in the target at this position.
//   - "present": letter is in the target at another, unclaimed position.
//   - "absent":  letter has no usable occurrence in the target.
type Verdict string

const (
	VerdictExact   Verdict = "exact"
	VerdictPresent Verdict = "present"
	VerdictAbsent  Verdict = "absent"
)

// Sequence holds one verdict per guess position.
type Sequence [WordLength]Verdict

// IsExactMatch reports whether every position is exact.
func (s Sequence) IsExactMatch() bool {
	for _, v := range s {
		if v != VerdictExact {
			return false
		}
	}
	return true
}

// Ints encodes the sequence as -1 (absent), 0 (present), 1 (exact).
func (s Sequence) Ints() []int {
	out := make([]int, len(s))
	for i, v := range s {
		switch v {
		case VerdictExact:
			out[i] = 1
		case VerdictPresent:
			out[i] = 0
		default:
			out[i] = -1
		}
	}
	return out
}

// Outcome is the status of a round. It only moves forward:
// in_progress → won, or in_progress → lost.
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeWon        Outcome = "won"
	OutcomeLost       Outcome = "lost"
)

// Terminal reports whether the round has finished.
func (o Outcome) Terminal() bool {
	return o == OutcomeWon || o == OutcomeLost
}
