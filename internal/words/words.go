// internal/words/words.go
//
// Word list management for the game engine.
//
// Responsibilities:
//   - Load the list of valid five-letter words once, from a file, a reader,
//     or the embedded default list.
//   - Supply a uniformly random target word.
//   - Answer case-insensitive "is this an acceptable guess" queries.
//
// Load behaviour:
//   - The first successful load wins; later loads are no-ops.
//   - A source that cannot be read fails with ErrDataUnavailable and leaves
//     the store empty, so a later load may retry.
//   - Lines are trimmed and lowercased. Blank lines and "#" comments are
//     skipped, as are entries that are not exactly 5 letters a–z.
//
// A Store is owned by whoever builds rounds and is passed in explicitly;
// there is no package-level word list.
package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/chriscastillo1/wordle/assets"
)

// Length is the number of letters in every word of the list.
const Length = 5

var (
	// ErrDataUnavailable is returned when the word source cannot be read.
	ErrDataUnavailable = errors.New("words: word list unavailable")

	// ErrEmptyWordList is returned when selecting from, or loading, an empty list.
	ErrEmptyWordList = errors.New("words: word list is empty")
)

// Rand supplies random indexes in [0, n).
type Rand interface {
	Intn(n int) int
}

// cryptoRand draws indexes from crypto/rand.
type cryptoRand struct{}

func (cryptoRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// Option configures a Store.
type Option func(*Store)

// WithRand replaces the crypto-backed index source (useful in tests).
func WithRand(r Rand) Option {
	return func(s *Store) { s.rand = r }
}

// Store holds the set of valid words.
type Store struct {
	mu     sync.RWMutex
	list   []string            // load order, for random picks and daily indexes
	set    map[string]struct{} // membership
	loaded bool
	rand   Rand
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{set: make(map[string]struct{}), rand: cryptoRand{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads one word per line from the file at path.
func (s *Store) Load(path string) error {
	if s.Loaded() {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	defer f.Close()
	return s.LoadReader(f)
}

// LoadEmbedded loads the default list compiled into the binary.
func (s *Store) LoadEmbedded() error {
	if s.Loaded() {
		return nil
	}
	f, err := assets.Words()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	defer f.Close()
	return s.LoadReader(f)
}

// LoadReader loads words from r. It is a no-op once the store is loaded.
func (s *Store) LoadReader(r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}

	var (
		list    []string
		set     = make(map[string]struct{})
		skipped int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if !isWord(w) {
			skipped++
			continue
		}
		if _, dup := set[w]; dup {
			continue
		}
		set[w] = struct{}{}
		list = append(list, w)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	if len(list) == 0 {
		return ErrEmptyWordList
	}

	s.list, s.set, s.loaded = list, set, true
	log.Debug().Int("words", len(list)).Int("skipped", skipped).Msg("word list loaded")
	return nil
}

// RandomWord returns a uniformly selected word from the list.
func (s *Store) RandomWord() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.list) == 0 {
		return "", ErrEmptyWordList
	}
	return s.list[s.rand.Intn(len(s.list))], nil
}

// IsValidGuess reports whether candidate is in the list, ignoring case and
// surrounding whitespace.
func (s *Store) IsValidGuess(candidate string) bool {
	w := strings.ToLower(strings.TrimSpace(candidate))
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.set[w]
	return ok
}

// Len returns the number of loaded words.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

// At returns the i-th word in load order.
func (s *Store) At(i int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.list) == 0 {
		return "", ErrEmptyWordList
	}
	if i < 0 || i >= len(s.list) {
		return "", fmt.Errorf("words: index %d out of range [0,%d)", i, len(s.list))
	}
	return s.list[i], nil
}

// Loaded reports whether a load has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// isWord reports whether w is exactly Length lowercase ASCII letters.
func isWord(w string) bool {
	if len(w) != Length {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}
