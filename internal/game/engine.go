// internal/game/engine.go
//
// Round state machine for a single Wordle round.
// Responsibilities:
//   - Obtain a target word from an injected Picker at Start.
//   - Normalise and score guesses with the configured Evaluator.
//   - Track attempts and the in_progress → won/lost transition.
//
// Notes:
//   - Dictionary membership is the caller's check (words.Store.IsValidGuess);
//     the round only enforces length.
//   - After the outcome is terminal further guesses fail with ErrRoundOver,
//     unless the round was built WithLenientFinish, in which case they are
//     scored and counted but the outcome no longer changes.
//   - Snapshot/Resume give rounds a JSON form for the round stores.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Picker supplies target words.
type Picker interface {
	Pick() (string, error)
}

// PickerFunc adapts a function to Picker, e.g. PickerFunc(store.RandomWord).
type PickerFunc func() (string, error)

// Pick calls f.
func (f PickerFunc) Pick() (string, error) { return f() }

// Option configures a Round.
type Option func(*Round)

// WithPolicy sets the scoring policy.
func WithPolicy(p Policy) Option {
	return func(r *Round) { r.eval = NewEvaluator(p) }
}

// WithLenientFinish accepts guesses after the round has finished.
func WithLenientFinish() Option {
	return func(r *Round) { r.lenient = true }
}

// Round is one game: a hidden target and up to MaxAttempts guesses.
// A Round is not safe for concurrent use.
type Round struct {
	id       string
	picker   Picker
	eval     Evaluator
	lenient  bool
	started  bool
	target   string
	attempts int
	outcome  Outcome
	guesses  []string
}

// NewRound builds a round that draws its targets from p. Call Start before
// submitting guesses.
func NewRound(p Picker, opts ...Option) *Round {
	r := &Round{picker: p, outcome: OutcomeInProgress}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start picks a new target and resets the round.
func (r *Round) Start() error {
	if r.picker == nil {
		return errors.New("game: round has no word picker")
	}
	w, err := r.picker.Pick()
	if err != nil {
		return fmt.Errorf("game: pick target: %w", err)
	}
	w = normalize(w)
	if utf8.RuneCountInString(w) != WordLength {
		return fmt.Errorf("game: target %q: %w", w, ErrInvalidLength)
	}

	r.id = randomID()
	r.target = w
	r.attempts = 0
	r.outcome = OutcomeInProgress
	r.guesses = nil
	r.started = true
	return nil
}

// Submit scores guess against the target and advances the round.
// The verdicts are returned whether or not the outcome changed.
func (r *Round) Submit(guess string) (Sequence, error) {
	if !r.started {
		return Sequence{}, ErrRoundNotStarted
	}
	if r.outcome.Terminal() && !r.lenient {
		return Sequence{}, ErrRoundOver
	}

	guess = normalize(guess)
	seq, err := r.eval.Evaluate(r.target, guess)
	if err != nil {
		return Sequence{}, err
	}

	r.attempts++
	r.guesses = append(r.guesses, guess)

	if r.outcome.Terminal() {
		return seq, nil
	}
	if seq.IsExactMatch() {
		r.outcome = OutcomeWon
	} else if r.attempts >= MaxAttempts {
		r.outcome = OutcomeLost
	}
	return seq, nil
}

// ID returns the identifier assigned at Start.
func (r *Round) ID() string { return r.id }

// Outcome returns the current status.
func (r *Round) Outcome() Outcome { return r.outcome }

// Attempts returns how many guesses have been scored.
func (r *Round) Attempts() int { return r.attempts }

// Target returns the hidden word.
func (r *Round) Target() string { return r.target }

// Guesses returns a copy of the scored guesses in order.
func (r *Round) Guesses() []string {
	return append([]string(nil), r.guesses...)
}

// Policy returns the scoring policy in use.
func (r *Round) Policy() Policy { return r.eval.Policy() }

// Result is what the statistics store needs from a finished round.
type Result struct {
	Won      bool
	Attempts int
	Target   string
}

// Result returns the round result once the outcome is terminal.
func (r *Round) Result() (Result, bool) {
	if !r.outcome.Terminal() {
		return Result{}, false
	}
	return Result{Won: r.outcome == OutcomeWon, Attempts: r.attempts, Target: r.target}, true
}

// Snapshot is the serialisable state of a started round.
type Snapshot struct {
	ID       string   `json:"id"`
	Target   string   `json:"target"`
	Attempts int      `json:"attempts"`
	Outcome  Outcome  `json:"outcome"`
	Guesses  []string `json:"guesses"`
	Policy   string   `json:"policy"`
	Lenient  bool     `json:"lenient,omitempty"`
}

// Snapshot captures the round's state.
func (r *Round) Snapshot() Snapshot {
	return Snapshot{
		ID:       r.id,
		Target:   r.target,
		Attempts: r.attempts,
		Outcome:  r.outcome,
		Guesses:  r.Guesses(),
		Policy:   r.eval.Policy().String(),
		Lenient:  r.lenient,
	}
}

// Resume rebuilds a started round from a snapshot. The resumed round has no
// picker, so it cannot be restarted.
func Resume(s Snapshot) (*Round, error) {
	if utf8.RuneCountInString(s.Target) != WordLength {
		return nil, fmt.Errorf("game: resume %s: %w", s.ID, ErrInvalidLength)
	}
	switch s.Outcome {
	case OutcomeInProgress, OutcomeWon, OutcomeLost:
	default:
		return nil, fmt.Errorf("game: resume %s: unknown outcome %q", s.ID, s.Outcome)
	}
	if s.Attempts < 0 || s.Attempts != len(s.Guesses) {
		return nil, fmt.Errorf("game: resume %s: %d attempts for %d guesses", s.ID, s.Attempts, len(s.Guesses))
	}
	p, err := ParsePolicy(s.Policy)
	if err != nil {
		return nil, err
	}
	return &Round{
		id:       s.ID,
		eval:     NewEvaluator(p),
		lenient:  s.Lenient,
		started:  true,
		target:   s.Target,
		attempts: s.Attempts,
		outcome:  s.Outcome,
		guesses:  append([]string(nil), s.Guesses...),
	}, nil
}

// normalize trims and lowercases a word.
func normalize(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
