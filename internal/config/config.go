// internal/config/config.go
//
// Process configuration read from the environment.
// A .env file in the working directory is loaded first when present;
// real environment variables take precedence over it.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/chriscastillo1/wordle/internal/game"
)

// Round store backends.
const (
	RoundStoreMemory = "memory"
	RoundStoreRedis  = "redis"
)

// Config is everything the server and CLI need to start.
type Config struct {
	Port     string
	LogLevel string

	WordsFile    string // empty: embedded list
	DatabasePath string

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool

	RoundStore string
	RedisURL   string
	RoundTTL   time.Duration

	ScoringPolicy game.Policy
	StrictRounds  bool
	DailySalt     string
}

// Load reads .env (if any) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment without touching .env.
func FromEnv() (*Config, error) {
	c := &Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		WordsFile:    os.Getenv("WORDS_FILE"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/wordle.db"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		CookieName:   getEnv("COOKIE_NAME", "wordle_token"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:   getEnv("APP_ENV", "development") == "production",
		RoundStore:   strings.ToLower(getEnv("ROUND_STORE", RoundStoreMemory)),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
	}

	var err error
	if c.JWTExpiresDays, err = strconv.Atoi(getEnv("JWT_EXPIRES_DAYS", "14")); err != nil || c.JWTExpiresDays <= 0 {
		return nil, fmt.Errorf("config: JWT_EXPIRES_DAYS must be a positive integer")
	}
	if c.RoundTTL, err = time.ParseDuration(getEnv("ROUND_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("config: ROUND_TTL: %w", err)
	}
	if c.ScoringPolicy, err = game.ParsePolicy(os.Getenv("SCORING_POLICY")); err != nil {
		return nil, fmt.Errorf("config: SCORING_POLICY: %w", err)
	}
	if c.StrictRounds, err = strconv.ParseBool(getEnv("STRICT_ROUNDS", "true")); err != nil {
		return nil, fmt.Errorf("config: STRICT_ROUNDS: %w", err)
	}
	switch c.RoundStore {
	case RoundStoreMemory, RoundStoreRedis:
	default:
		return nil, fmt.Errorf("config: ROUND_STORE must be %q or %q, got %q", RoundStoreMemory, RoundStoreRedis, c.RoundStore)
	}
	return c, nil
}

// JWTExpiry is the token lifetime.
func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
