// internal/game/score.go
//
// Guess evaluation. Two policies are available:
//
// PolicyReference (default) is the classic two-pass check:
//
//	Pass 1: a letter equal to the target letter at the same position is
//	        exact; otherwise it is present if the target contains it anywhere,
//	        else absent.
//	Pass 2: for every exact position whose letter occurs exactly once in the
//	        target, any other position holding that letter and marked present
//	        is demoted to absent.
//
// Pass 2 only looks at letters that were matched exactly, so a guess that
// repeats a letter with no exact match keeps every copy present ("xaayz"
// against "abcde" scores two presents for one 'a').
//
// PolicyFrequency caps credit per letter at its count in the target: exact
// matches are claimed first, then presents left to right from the unmatched
// target letters.

package game

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Policy selects how repeated letters are credited.
type Policy int

const (
	PolicyReference Policy = iota
	PolicyFrequency
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyReference:
		return "reference"
	case PolicyFrequency:
		return "frequency"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps a configuration name to a Policy. Empty means reference.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "reference":
		return PolicyReference, nil
	case "frequency":
		return PolicyFrequency, nil
	default:
		return 0, fmt.Errorf("game: unknown scoring policy %q", name)
	}
}

// Evaluator scores guesses under a fixed policy. The zero value uses
// PolicyReference.
type Evaluator struct {
	policy Policy
}

// NewEvaluator returns an Evaluator for p.
func NewEvaluator(p Policy) Evaluator {
	return Evaluator{policy: p}
}

// Policy returns the evaluator's policy.
func (e Evaluator) Policy() Policy { return e.policy }

// Evaluate scores guess against target with PolicyReference.
func Evaluate(target, guess string) (Sequence, error) {
	return Evaluator{}.Evaluate(target, guess)
}

// Evaluate scores guess against target. Comparison is exact on characters;
// callers lowercase both sides first.
func (e Evaluator) Evaluate(target, guess string) (Sequence, error) {
	if utf8.RuneCountInString(target) != WordLength || utf8.RuneCountInString(guess) != WordLength {
		return Sequence{}, ErrInvalidLength
	}
	t, g := []rune(target), []rune(guess)
	if e.policy == PolicyFrequency {
		return scoreFrequency(t, g), nil
	}
	return scoreReference(t, g), nil
}

func scoreReference(target, guess []rune) Sequence {
	var out Sequence

	for i := range guess {
		switch {
		case guess[i] == target[i]:
			out[i] = VerdictExact
		case count(target, guess[i]) > 0:
			out[i] = VerdictPresent
		default:
			out[i] = VerdictAbsent
		}
	}

	for i := range guess {
		if out[i] != VerdictExact || count(target, guess[i]) != 1 {
			continue
		}
		for j := range guess {
			if j != i && guess[j] == guess[i] && out[j] == VerdictPresent {
				out[j] = VerdictAbsent
			}
		}
	}
	return out
}

func scoreFrequency(target, guess []rune) Sequence {
	var out Sequence
	remaining := make(map[rune]int, WordLength)

	for i := range guess {
		if guess[i] == target[i] {
			out[i] = VerdictExact
		} else {
			remaining[target[i]]++
		}
	}

	for i := range guess {
		if out[i] == VerdictExact {
			continue
		}
		if remaining[guess[i]] > 0 {
			out[i] = VerdictPresent
			remaining[guess[i]]--
		} else {
			out[i] = VerdictAbsent
		}
	}
	return out
}

// count returns how many times r occurs in word.
func count(word []rune, r rune) int {
	n := 0
	for _, c := range word {
		if c == r {
			n++
		}
	}
	return n
}
