package accounts

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/chriscastillo1/wordle/internal/db"
)

type AccountsSuite struct {
	suite.Suite
	db    *sql.DB
	store *Store
	ctx   context.Context
	now   time.Time
}

func TestAccountsSuite(t *testing.T) {
	suite.Run(t, new(AccountsSuite))
}

func (s *AccountsSuite) SetupTest() {
	conn, err := db.Open(filepath.Join(s.T().TempDir(), "wordle.db"))
	s.Require().NoError(err)
	s.db = conn
	s.now = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	s.store = NewStore(conn, WithBcryptCost(bcrypt.MinCost), WithClock(func() time.Time { return s.now }))
	s.ctx = context.Background()
}

func (s *AccountsSuite) TearDownTest() {
	s.NoError(s.db.Close())
}

func (s *AccountsSuite) mustCreate(name string) *User {
	u, err := s.store.Create(s.ctx, name, "password1")
	s.Require().NoError(err)
	return u
}

func (s *AccountsSuite) TestCreate() {
	u, err := s.store.Create(s.ctx, "  alice ", "password1")
	s.Require().NoError(err)
	s.Equal("alice", u.Username)
	s.NotEmpty(u.ID)
	s.True(u.CreatedAt.Equal(s.now))
	s.Nil(u.LastLoginAt)

	got, err := s.store.FindByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("alice", got.Username)
	s.True(got.CreatedAt.Equal(s.now))
}

func (s *AccountsSuite) TestCreateRejectsTakenNameCaseInsensitively() {
	s.mustCreate("alice")

	_, err := s.store.Create(s.ctx, "ALICE", "password2")
	s.ErrorIs(err, ErrUsernameTaken)
}

func (s *AccountsSuite) TestCreateValidates() {
	cases := []struct {
		name, user, pass string
		want             error
	}{
		{"short name", "al", "password1", ErrInvalidUsername},
		{"long name", strings.Repeat("a", 25), "password1", ErrInvalidUsername},
		{"bad char", "al-ice", "password1", ErrInvalidUsername},
		{"short password", "alice", "short", ErrInvalidPassword},
		{"long password", "alice", strings.Repeat("p", 73), ErrInvalidPassword},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.store.Create(s.ctx, tc.user, tc.pass)
			s.ErrorIs(err, tc.want)
		})
	}
}

func (s *AccountsSuite) TestAuthenticate() {
	s.mustCreate("alice")
	s.now = s.now.Add(time.Hour)

	u, err := s.store.Authenticate(s.ctx, "Alice", "password1")
	s.Require().NoError(err)
	s.Require().NotNil(u.LastLoginAt)
	s.True(u.LastLoginAt.Equal(s.now))

	st, err := s.store.Stats(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Require().NotNil(st.LastLoginAt)
	s.True(st.LastLoginAt.Equal(s.now))
}

func (s *AccountsSuite) TestAuthenticateFailures() {
	s.mustCreate("alice")

	_, err := s.store.Authenticate(s.ctx, "alice", "wrong-password")
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.store.Authenticate(s.ctx, "bob", "password1")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AccountsSuite) TestFindMissing() {
	_, err := s.store.FindByID(s.ctx, "nope")
	s.ErrorIs(err, ErrUserNotFound)
	_, err = s.store.FindByUsername(s.ctx, "nope")
	s.ErrorIs(err, ErrUserNotFound)
	_, err = s.store.Stats(s.ctx, "nope")
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *AccountsSuite) TestRecordResultUpdatesStats() {
	u := s.mustCreate("alice")

	results := []GameRecord{
		{ID: "g1", Answer: "crane", Won: true, Attempts: 3},
		{ID: "g2", Answer: "treat", Won: true, Attempts: 4},
		{ID: "g3", Answer: "apple", Won: false, Attempts: 6},
		{ID: "g4", Answer: "happy", Won: true, Attempts: 3},
	}
	for _, r := range results {
		_, err := s.store.RecordResult(s.ctx, u.ID, r)
		s.Require().NoError(err)
	}

	st, err := s.store.Stats(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(4, st.GamesPlayed)
	s.Equal(3, st.GamesWon)
	s.Equal(1, st.CurrentStreak)
	s.Equal(2, st.MaxStreak)
	s.Equal([6]int{0, 0, 2, 1, 0, 0}, st.Distribution)
	s.Equal(75, st.WinPercent())
}

func (s *AccountsSuite) TestRecordResultIsIdempotentPerGame() {
	u := s.mustCreate("alice")
	rec := GameRecord{ID: "g1", Answer: "crane", Won: true, Attempts: 2}

	_, err := s.store.RecordResult(s.ctx, u.ID, rec)
	s.Require().NoError(err)
	st, err := s.store.RecordResult(s.ctx, u.ID, rec)
	s.Require().NoError(err)

	s.Equal(1, st.GamesPlayed)
	s.Equal(1, st.Distribution[1])

	hist, err := s.store.History(s.ctx, u.ID, 0)
	s.Require().NoError(err)
	s.Len(hist, 1)
}

func (s *AccountsSuite) TestRecordResultRejectsBadAttempts() {
	u := s.mustCreate("alice")

	_, err := s.store.RecordResult(s.ctx, u.ID, GameRecord{ID: "g1", Won: true, Attempts: 7})
	s.ErrorIs(err, ErrInvalidAttempts)

	st, err := s.store.Stats(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Zero(st.GamesPlayed)
}

func (s *AccountsSuite) TestRecordResultUnknownUser() {
	_, err := s.store.RecordResult(s.ctx, "ghost", GameRecord{ID: "g1", Won: false, Attempts: 6})
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *AccountsSuite) TestHistoryNewestFirst() {
	u := s.mustCreate("alice")
	for i, id := range []string{"g1", "g2", "g3"} {
		s.now = s.now.Add(time.Minute)
		_, err := s.store.RecordResult(s.ctx, u.ID, GameRecord{ID: id, Answer: "crane", Won: true, Attempts: i + 1})
		s.Require().NoError(err)
	}

	hist, err := s.store.History(s.ctx, u.ID, 2)
	s.Require().NoError(err)
	s.Require().Len(hist, 2)
	s.Equal("g3", hist[0].ID)
	s.Equal("g2", hist[1].ID)
	s.Equal("normal", hist[0].Mode)
	s.True(hist[0].FinishedAt.Equal(s.now))
}

func (s *AccountsSuite) TestLeaderboard() {
	alice := s.mustCreate("alice")
	bob := s.mustCreate("bob")
	s.mustCreate("carol")

	win := func(userID, id string) {
		_, err := s.store.RecordResult(s.ctx, userID, GameRecord{ID: id, Answer: "crane", Won: true, Attempts: 2})
		s.Require().NoError(err)
	}
	win(bob.ID, "b1")
	win(bob.ID, "b2")
	win(alice.ID, "a1")

	rows, err := s.store.Leaderboard(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	s.Equal("bob", rows[0].Username)
	s.Equal(1, rows[0].Rank)
	s.Equal(2, rows[0].GamesWon)
	s.Equal(2, rows[0].MaxStreak)
	s.Equal("alice", rows[1].Username)
	s.Equal("carol", rows[2].Username)
	s.Equal(3, rows[2].Rank)

	top, err := s.store.Leaderboard(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(top, 1)
}

func TestStatsApply(t *testing.T) {
	var st Stats

	assert.NoError(t, st.Apply(true, 1))
	assert.NoError(t, st.Apply(true, 6))
	assert.NoError(t, st.Apply(false, 6))
	assert.NoError(t, st.Apply(true, 2))

	assert.Equal(t, 4, st.GamesPlayed)
	assert.Equal(t, 3, st.GamesWon)
	assert.Equal(t, 1, st.CurrentStreak)
	assert.Equal(t, 2, st.MaxStreak)
	assert.Equal(t, [6]int{1, 1, 0, 0, 0, 1}, st.Distribution)

	assert.ErrorIs(t, st.Apply(true, 0), ErrInvalidAttempts)
	assert.ErrorIs(t, st.Apply(true, 7), ErrInvalidAttempts)
	assert.Equal(t, 4, st.GamesPlayed, "rejected results leave stats untouched")
}

func TestWinPercent(t *testing.T) {
	assert.Equal(t, 0, Stats{}.WinPercent())
	assert.Equal(t, 67, Stats{GamesPlayed: 3, GamesWon: 2}.WinPercent())
	assert.Equal(t, 100, Stats{GamesPlayed: 5, GamesWon: 5}.WinPercent())
}
