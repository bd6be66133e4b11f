package words

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

// fixedRand returns queued indexes, then 0.
type fixedRand struct {
	next []int
	seen []int
}

func (r *fixedRand) Intn(n int) int {
	r.seen = append(r.seen, n)
	if len(r.next) == 0 {
		return 0
	}
	v := r.next[0]
	r.next = r.next[1:]
	return v
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

type StoreSuite struct {
	suite.Suite
	store *Store
	rand  *fixedRand
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.rand = &fixedRand{}
	s.store = New(WithRand(s.rand))
}

func (s *StoreSuite) writeList(body string) string {
	path := filepath.Join(s.T().TempDir(), "words.txt")
	s.Require().NoError(os.WriteFile(path, []byte(body), 0o644))
	return path
}

func (s *StoreSuite) TestEmptyByDefault() {
	s.False(s.store.Loaded())
	s.Equal(0, s.store.Len())
	s.False(s.store.IsValidGuess("crane"))

	_, err := s.store.RandomWord()
	s.ErrorIs(err, ErrEmptyWordList)
}

func (s *StoreSuite) TestLoadFile() {
	path := s.writeList("crane\ntreat\napple\n")

	s.Require().NoError(s.store.Load(path))
	s.True(s.store.Loaded())
	s.Equal(3, s.store.Len())
	s.True(s.store.IsValidGuess("treat"))
}

func (s *StoreSuite) TestLoadNormalisesAndFilters() {
	body := "# comment\n  CRANE  \n\ntreat\nToo\ntoolong\nab1de\ncrane\n"

	s.Require().NoError(s.store.LoadReader(strings.NewReader(body)))
	s.Equal(2, s.store.Len())
	first, err := s.store.At(0)
	s.Require().NoError(err)
	s.Equal("crane", first)
}

func (s *StoreSuite) TestLoadTwiceKeepsFirstList() {
	s.Require().NoError(s.store.LoadReader(strings.NewReader("crane\ntreat\n")))
	s.Require().NoError(s.store.LoadReader(strings.NewReader("apple\nhappy\nlever\n")))

	s.Equal(2, s.store.Len())
	s.True(s.store.IsValidGuess("crane"))
	s.False(s.store.IsValidGuess("apple"))
}

func (s *StoreSuite) TestLoadSameFileTwiceDoesNotDuplicate() {
	path := s.writeList("crane\ntreat\n")

	s.Require().NoError(s.store.Load(path))
	s.Require().NoError(s.store.Load(path))
	s.Equal(2, s.store.Len())
}

func (s *StoreSuite) TestLoadMissingFile() {
	err := s.store.Load(filepath.Join(s.T().TempDir(), "missing.txt"))

	s.ErrorIs(err, ErrDataUnavailable)
	s.ErrorIs(err, os.ErrNotExist)
	s.False(s.store.Loaded())
	s.Equal(0, s.store.Len())
}

func (s *StoreSuite) TestLoadReadErrorLeavesStoreEmpty() {
	err := s.store.LoadReader(failingReader{})

	s.ErrorIs(err, ErrDataUnavailable)
	s.False(s.store.Loaded())
	_, err = s.store.RandomWord()
	s.ErrorIs(err, ErrEmptyWordList)
}

func (s *StoreSuite) TestRetryAfterFailedLoad() {
	s.Require().Error(s.store.LoadReader(failingReader{}))
	s.Require().NoError(s.store.LoadReader(strings.NewReader("crane\n")))
	s.True(s.store.IsValidGuess("crane"))
}

func (s *StoreSuite) TestLoadWithoutValidWords() {
	err := s.store.LoadReader(strings.NewReader("# nothing\nab\n"))

	s.ErrorIs(err, ErrEmptyWordList)
	s.False(s.store.Loaded())
}

func (s *StoreSuite) TestIsValidGuessIgnoresCase() {
	s.Require().NoError(s.store.LoadReader(strings.NewReader("crane\n")))

	s.True(s.store.IsValidGuess("CRANE"))
	s.True(s.store.IsValidGuess("Crane"))
	s.True(s.store.IsValidGuess(" crane "))
	s.False(s.store.IsValidGuess("crank"))
	s.False(s.store.IsValidGuess(""))
}

func (s *StoreSuite) TestRandomWordUsesWholeList() {
	s.Require().NoError(s.store.LoadReader(strings.NewReader("crane\ntreat\napple\n")))
	s.rand.next = []int{2, 0}

	w, err := s.store.RandomWord()
	s.Require().NoError(err)
	s.Equal("apple", w)

	w, err = s.store.RandomWord()
	s.Require().NoError(err)
	s.Equal("crane", w)

	// every draw ranges over all three words, including the last
	s.Equal([]int{3, 3}, s.rand.seen)
}

func (s *StoreSuite) TestAtOutOfRange() {
	s.Require().NoError(s.store.LoadReader(strings.NewReader("crane\n")))

	_, err := s.store.At(1)
	s.Error(err)
	_, err = s.store.At(-1)
	s.Error(err)
}

func (s *StoreSuite) TestLoadEmbedded() {
	s.Require().NoError(s.store.LoadEmbedded())
	s.Greater(s.store.Len(), 100)
	s.True(s.store.IsValidGuess("crane"))
}

func TestCryptoRandInRange(t *testing.T) {
	r := cryptoRand{}
	for i := 0; i < 100; i++ {
		v := r.Intn(5)
		if v < 0 || v >= 5 {
			t.Fatalf("Intn(5) = %d", v)
		}
	}
	if got := r.Intn(0); got != 0 {
		t.Fatalf("Intn(0) = %d", got)
	}
}
