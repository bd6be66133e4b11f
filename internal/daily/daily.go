// internal/daily/daily.go
//
// Deterministic target word per calendar day.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/chriscastillo1/wordle/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % answersLen.
func WordIndex(date time.Time, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}

// Source picks the day's word from a word store. It satisfies game.Picker.
type Source struct {
	Words *words.Store
	Salt  string
	Now   func() time.Time
}

// Pick returns the word for the current day.
func (s Source) Pick() (string, error) {
	_, _, w, err := s.Today()
	return w, err
}

// Today returns the current date key, the word index and the word for it.
func (s Source) Today() (date string, idx int, word string, err error) {
	now := s.now()
	idx = WordIndex(now, s.Salt, s.Words.Len())
	word, err = s.Words.At(idx)
	return DateKey(now), idx, word, err
}

func (s Source) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
