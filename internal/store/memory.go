// internal/store/memory.go
//
// Persistence for in-flight rounds served over HTTP, plus the in-memory
// implementation of the Store interface.
//
// Characteristics of the memory store:
//   - Records are keyed by round ID in a map and copied on the way in and out.
//   - Concurrency-safe via RWMutex; Update holds the write lock for the whole
//     read-modify-write.
//   - Records expire after the configured TTL, like the Redis store.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chriscastillo1/wordle/internal/game"
)

var (
	// ErrNotFound is returned for unknown or expired round IDs.
	ErrNotFound = errors.New("store: round not found")

	// ErrExists is returned by Create when the ID is already taken.
	ErrExists = errors.New("store: round already exists")

	// ErrConflict is returned by Update when the record kept changing
	// underneath it.
	ErrConflict = errors.New("store: concurrent update")
)

// Record is a round plus who is playing it.
type Record struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId,omitempty"` // empty for guests
	Mode      string        `json:"mode"`             // "normal" | "daily"
	Round     game.Snapshot `json:"round"`
	StartedAt time.Time     `json:"startedAt"`
}

// UpdateFunc mutates a record in place. Returning an error aborts the update
// and nothing is written. It may run more than once on backends that retry.
type UpdateFunc func(r *Record) error

// Store defines the persistence interface for rounds.
// Implementations: memory (this file) and Redis (redis.go).
type Store interface {
	// Create persists a new record, or returns ErrExists.
	Create(ctx context.Context, r *Record) error

	// Get retrieves a record by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Update applies fn to the stored record atomically and returns the
	// written record. Concurrent updates of one ID never interleave.
	Update(ctx context.Context, id string, fn UpdateFunc) (*Record, error)
}

// sweepInterval bounds how often Create scans for expired records.
const sweepInterval = time.Minute

type entry struct {
	rec     Record
	expires time.Time // zero: never
}

type memory struct {
	mu        sync.RWMutex
	records   map[string]entry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// MemoryOption configures the memory store.
type MemoryOption func(*memory)

// WithTTL expires records ttl after their last write. Zero keeps them forever.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(m *memory) { m.ttl = ttl }
}

// WithClock replaces time.Now (tests).
func WithClock(now func() time.Time) MemoryOption {
	return func(m *memory) { m.now = now }
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore(opts ...MemoryOption) Store {
	m := &memory{records: make(map[string]entry), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *memory) Create(ctx context.Context, r *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	if _, ok := m.live(r.ID, now); ok {
		return ErrExists
	}
	m.put(clone(*r), now)
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.live(id, m.now())
	if !ok {
		return nil, ErrNotFound
	}
	c := clone(e.rec)
	return &c, nil
}

func (m *memory) Update(ctx context.Context, id string, fn UpdateFunc) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	e, ok := m.live(id, now)
	if !ok {
		return nil, ErrNotFound
	}
	r := clone(e.rec)
	if err := fn(&r); err != nil {
		return nil, err
	}
	r.ID = id
	m.put(clone(r), now)
	return &r, nil
}

// live returns the entry for id unless it is missing or expired.
// Callers hold m.mu.
func (m *memory) live(id string, now time.Time) (entry, bool) {
	e, ok := m.records[id]
	if !ok || (!e.expires.IsZero() && !now.Before(e.expires)) {
		return entry{}, false
	}
	return e, true
}

func (m *memory) put(r Record, now time.Time) {
	e := entry{rec: r}
	if m.ttl > 0 {
		e.expires = now.Add(m.ttl)
	}
	m.records[r.ID] = e
}

// sweep drops expired records at most once per sweepInterval.
// Callers hold the write lock.
func (m *memory) sweep(now time.Time) {
	if m.ttl <= 0 || now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now
	for id, e := range m.records {
		if !now.Before(e.expires) {
			delete(m.records, id)
		}
	}
}

// clone copies the guess slice so callers cannot mutate stored state.
func clone(r Record) Record {
	r.Round.Guesses = append([]string(nil), r.Round.Guesses...)
	return r
}
