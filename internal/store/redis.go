// internal/store/redis.go
//
// Redis implementation of the Store interface. Records are JSON strings
// with a TTL; Update uses WATCH/MULTI.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "wordle"

// roundKey returns the Redis key for a round record.
func roundKey(id string) string {
	return fmt.Sprintf("%s:round:%s", keyPrefix, id)
}

// RedisConfig holds Redis connection and expiry settings.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	PoolSize     int
	MinIdleConns int

	// RoundTTL bounds how long an abandoned round is kept.
	RoundTTL time.Duration

	// UpdateRetries caps optimistic retries in Update.
	UpdateRetries int
}

func (c RedisConfig) maxRetries() int {
	if c.UpdateRetries <= 0 {
		return 1
	}
	return c.UpdateRetries
}

// DefaultRedisConfig returns defaults for the Redis round store.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		URL:           "redis://localhost:6379",
		PoolSize:      10,
		MinIdleConns:  2,
		RoundTTL:      24 * time.Hour,
		UpdateRetries: 100,
	}
}

// RedisStore keeps round records as JSON strings with a TTL.
type RedisStore struct {
	client *redis.Client
	cfg    RedisConfig
}

var _ Store = (*RedisStore)(nil)

// NewRedis connects to Redis and verifies the connection.
func NewRedis(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client, cfg: cfg}, nil
}

// NewRedisStore wraps an existing client (for testing).
func NewRedisStore(client *redis.Client, cfg RedisConfig) *RedisStore {
	return &RedisStore{client: client, cfg: cfg}
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Create stores r with SET NX so an existing round is never replaced.
func (s *RedisStore) Create(ctx context.Context, r *Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, roundKey(r.ID), data, s.cfg.RoundTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrExists
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	data, err := s.client.Get(ctx, roundKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Update is optimistic: it WATCHes the key, applies fn and writes the result
// in a MULTI block, retrying when another writer got there first.
func (s *RedisStore) Update(ctx context.Context, id string, fn UpdateFunc) (*Record, error) {
	key := roundKey(id)
	var out *Record

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var r Record
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		if err := fn(&r); err != nil {
			return err
		}
		r.ID = id
		next, err := json.Marshal(&r)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, s.cfg.RoundTTL)
			return nil
		})
		if err == nil {
			out = &r
		}
		return err
	}

	for i := 0; i < s.cfg.maxRetries(); i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, ErrConflict
}
