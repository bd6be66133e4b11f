package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/chriscastillo1/wordle/internal/game"
)

// StoreSuite runs the same behaviour checks against every backend.
type StoreSuite struct {
	suite.Suite
	newStore func(t *testing.T) Store
	store    Store
	ctx      context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(*testing.T) Store { return NewMemoryStore() }})
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(t *testing.T) Store {
		mini := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return NewRedisStore(client, DefaultRedisConfig())
	}})
}

func (s *StoreSuite) SetupTest() {
	s.store = s.newStore(s.T())
	s.ctx = context.Background()
}

func record(id string) *Record {
	return &Record{
		ID:     id,
		UserID: "user-1",
		Mode:   "normal",
		Round: game.Snapshot{
			ID:       id,
			Target:   "crane",
			Attempts: 1,
			Outcome:  game.OutcomeInProgress,
			Guesses:  []string{"treat"},
			Policy:   "reference",
		},
		StartedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *StoreSuite) TestCreateAndGet() {
	s.Require().NoError(s.store.Create(s.ctx, record("r1")))

	got, err := s.store.Get(s.ctx, "r1")
	s.Require().NoError(err)
	s.Equal("user-1", got.UserID)
	s.Equal("crane", got.Round.Target)
	s.Equal([]string{"treat"}, got.Round.Guesses)
	s.True(got.StartedAt.Equal(record("r1").StartedAt))
}

func (s *StoreSuite) TestCreateRefusesExistingID() {
	s.Require().NoError(s.store.Create(s.ctx, record("r1")))

	r := record("r1")
	r.UserID = "user-2"
	s.ErrorIs(s.store.Create(s.ctx, r), ErrExists)

	got, err := s.store.Get(s.ctx, "r1")
	s.Require().NoError(err)
	s.Equal("user-1", got.UserID)
}

func (s *StoreSuite) TestGetNotFound() {
	_, err := s.store.Get(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoreSuite) TestUpdate() {
	s.Require().NoError(s.store.Create(s.ctx, record("r1")))

	got, err := s.store.Update(s.ctx, "r1", func(r *Record) error {
		r.Round.Attempts = 2
		r.Round.Guesses = append(r.Round.Guesses, "crane")
		r.Round.Outcome = game.OutcomeWon
		return nil
	})
	s.Require().NoError(err)
	s.Equal(game.OutcomeWon, got.Round.Outcome)

	got, err = s.store.Get(s.ctx, "r1")
	s.Require().NoError(err)
	s.Equal(game.OutcomeWon, got.Round.Outcome)
	s.Len(got.Round.Guesses, 2)
}

func (s *StoreSuite) TestUpdateAbortsOnError() {
	s.Require().NoError(s.store.Create(s.ctx, record("r1")))
	boom := errors.New("boom")

	_, err := s.store.Update(s.ctx, "r1", func(r *Record) error {
		r.Round.Attempts = 5
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.store.Get(s.ctx, "r1")
	s.Require().NoError(err)
	s.Equal(1, got.Round.Attempts)
}

func (s *StoreSuite) TestUpdateNotFound() {
	_, err := s.store.Update(s.ctx, "missing", func(*Record) error { return nil })
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoreSuite) TestConcurrentUpdatesAllLand() {
	s.Require().NoError(s.store.Create(s.ctx, record("r1")))

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Update(s.ctx, "r1", func(r *Record) error {
				r.Round.Attempts++
				return nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.NoError(err)
	}

	got, err := s.store.Get(s.ctx, "r1")
	s.Require().NoError(err)
	s.Equal(1+writers, got.Round.Attempts)
}

func (s *StoreSuite) TestStoredRecordIsIsolatedFromCaller() {
	r := record("r1")
	s.Require().NoError(s.store.Create(s.ctx, r))
	r.Round.Guesses[0] = "mutated"

	got, err := s.store.Get(s.ctx, "r1")
	s.Require().NoError(err)
	s.Equal("treat", got.Round.Guesses[0])
}

func (s *StoreSuite) TestSnapshotResumes() {
	s.Require().NoError(s.store.Create(s.ctx, record("r1")))
	got, err := s.store.Get(s.ctx, "r1")
	s.Require().NoError(err)

	round, err := game.Resume(got.Round)
	s.Require().NoError(err)
	seq, err := round.Submit("crane")
	s.Require().NoError(err)
	s.True(seq.IsExactMatch())
	s.Equal(2, round.Attempts())
}

func TestMemoryStoreExpiresRecords(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewMemoryStore(WithTTL(time.Hour), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	if err := st.Create(ctx, record("r1")); err != nil {
		t.Fatal(err)
	}
	now = now.Add(30 * time.Minute)
	if _, err := st.Update(ctx, "r1", func(*Record) error { return nil }); err != nil {
		t.Fatal(err)
	}

	// the update pushed expiry out to 13:30
	now = now.Add(45 * time.Minute)
	if _, err := st.Get(ctx, "r1"); err != nil {
		t.Fatalf("expected record to be live, got %v", err)
	}

	now = now.Add(time.Hour)
	if _, err := st.Get(ctx, "r1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
	if _, err := st.Update(ctx, "r1", func(*Record) error { return nil }); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound from Update, got %v", err)
	}

	// creating another round sweeps the expired one out of the map
	if err := st.Create(ctx, record("r2")); err != nil {
		t.Fatal(err)
	}
	m := st.(*memory)
	if _, ok := m.records["r1"]; ok {
		t.Fatal("expired record was not swept")
	}
	if len(m.records) != 1 {
		t.Fatalf("records = %d, want 1", len(m.records))
	}

	// an expired ID can be reused
	if err := st.Create(ctx, record("r1")); err != nil {
		t.Fatalf("expected expired ID to be reusable, got %v", err)
	}
}

func TestRedisStoreAppliesTTL(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	defer client.Close()

	cfg := DefaultRedisConfig()
	cfg.RoundTTL = time.Hour
	st := NewRedisStore(client, cfg)

	if err := st.Create(context.Background(), record("r1")); err != nil {
		t.Fatal(err)
	}
	if ttl := mini.TTL(roundKey("r1")); ttl != time.Hour {
		t.Fatalf("ttl = %v, want 1h", ttl)
	}

	mini.FastForward(2 * time.Hour)
	if _, err := st.Get(context.Background(), "r1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestNewRedisConnects(t *testing.T) {
	mini := miniredis.RunT(t)
	cfg := DefaultRedisConfig()
	cfg.URL = "redis://" + mini.Addr()

	st, err := NewRedis(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	if err := st.Create(context.Background(), record("r1")); err != nil {
		t.Fatal(err)
	}
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	cfg := DefaultRedisConfig()
	cfg.URL = "not-a-url"
	if _, err := NewRedis(cfg); err == nil {
		t.Fatal("expected error")
	}
}
