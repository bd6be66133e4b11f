// internal/accounts/stats.go
//
// Per-user statistics, game history and the all-time leaderboard.

package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chriscastillo1/wordle/internal/game"
)

// Stats are a user's lifetime results.
type Stats struct {
	GamesPlayed   int                   `json:"gamesPlayed"`
	GamesWon      int                   `json:"gamesWon"`
	CurrentStreak int                   `json:"currentStreak"`
	MaxStreak     int                   `json:"maxStreak"`
	Distribution  [game.MaxAttempts]int `json:"guessDistribution"` // [n] = won on attempt n+1
	LastLoginAt   *time.Time            `json:"lastLoginAt,omitempty"`
}

// Apply folds one finished round into the stats. Losses reset the current
// streak and leave the distribution alone.
func (s *Stats) Apply(won bool, attempts int) error {
	if won && (attempts < 1 || attempts > game.MaxAttempts) {
		return ErrInvalidAttempts
	}
	s.GamesPlayed++
	if !won {
		s.CurrentStreak = 0
		return nil
	}
	s.GamesWon++
	s.CurrentStreak++
	if s.CurrentStreak > s.MaxStreak {
		s.MaxStreak = s.CurrentStreak
	}
	s.Distribution[attempts-1]++
	return nil
}

// WinPercent returns the rounded share of games won, 0 with no games.
func (s Stats) WinPercent() int {
	if s.GamesPlayed == 0 {
		return 0
	}
	return (s.GamesWon*100 + s.GamesPlayed/2) / s.GamesPlayed
}

// GameRecord is one finished round in a user's history.
type GameRecord struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"`
	Answer     string    `json:"answer"`
	Won        bool      `json:"won"`
	Attempts   int       `json:"attempts"`
	FinishedAt time.Time `json:"finishedAt"`
}

// RecordResult appends rec to the user's history and updates their stats in
// one transaction. Recording the same game ID twice is a no-op.
func (s *Store) RecordResult(ctx context.Context, userID string, rec GameRecord) (*Stats, error) {
	if rec.Won && (rec.Attempts < 1 || rec.Attempts > game.MaxAttempts) {
		return nil, ErrInvalidAttempts
	}
	if rec.ID == "" {
		rec.ID = genID()
	}
	if rec.Mode == "" {
		rec.Mode = "normal"
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = s.now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	st, err := loadStats(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO games (id, user_id, mode, answer, won, attempts, finished_at)
		 VALUES (?,?,?,?,?,?,?)`,
		rec.ID, userID, rec.Mode, rec.Answer, rec.Won, rec.Attempts,
		rec.FinishedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return st, nil
	}

	if err := st.Apply(rec.Won, rec.Attempts); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET games_played=?, games_won=?, current_streak=?, max_streak=? WHERE id=?`,
		st.GamesPlayed, st.GamesWon, st.CurrentStreak, st.MaxStreak, userID); err != nil {
		return nil, fmt.Errorf("update stats: %w", err)
	}
	if rec.Won {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO guess_distribution (user_id, attempt, wins) VALUES (?,?,1)
			 ON CONFLICT (user_id, attempt) DO UPDATE SET wins = wins + 1`,
			userID, rec.Attempts); err != nil {
			return nil, fmt.Errorf("update distribution: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return st, nil
}

// Stats returns the user's statistics.
func (s *Store) Stats(ctx context.Context, userID string) (*Stats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()
	return loadStats(ctx, tx, userID)
}

func loadStats(ctx context.Context, tx *sql.Tx, userID string) (*Stats, error) {
	var (
		st        Stats
		lastLogin sql.NullString
	)
	err := tx.QueryRowContext(ctx,
		`SELECT games_played, games_won, current_streak, max_streak, last_login_at FROM users WHERE id=?`,
		userID,
	).Scan(&st.GamesPlayed, &st.GamesWon, &st.CurrentStreak, &st.MaxStreak, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := parseTime(lastLogin.String)
		st.LastLoginAt = &t
	}

	rows, err := tx.QueryContext(ctx, `SELECT attempt, wins FROM guess_distribution WHERE user_id=?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var attempt, wins int
		if err := rows.Scan(&attempt, &wins); err != nil {
			return nil, err
		}
		if attempt >= 1 && attempt <= game.MaxAttempts {
			st.Distribution[attempt-1] = wins
		}
	}
	return &st, rows.Err()
}

// History returns the user's most recent finished games, newest first.
func (s *Store) History(ctx context.Context, userID string, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, answer, won, attempts, finished_at
		 FROM games WHERE user_id=? ORDER BY finished_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRecord{}
	for rows.Next() {
		var (
			g        GameRecord
			finished string
		)
		if err := rows.Scan(&g.ID, &g.Mode, &g.Answer, &g.Won, &g.Attempts, &finished); err != nil {
			return nil, err
		}
		g.FinishedAt = parseTime(finished)
		out = append(out, g)
	}
	return out, rows.Err()
}

// LeaderboardRow is one ranked user.
type LeaderboardRow struct {
	Rank        int    `json:"rank"`
	Username    string `json:"username"`
	GamesWon    int    `json:"gamesWon"`
	GamesPlayed int    `json:"gamesPlayed"`
	MaxStreak   int    `json:"maxStreak"`
}

// Leaderboard ranks users by games won, ties broken by username.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT username, games_won, games_played, max_streak
		 FROM users ORDER BY games_won DESC, lower(username) ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaderboardRow, 0, limit)
	for rows.Next() {
		r := LeaderboardRow{Rank: len(out) + 1}
		if err := rows.Scan(&r.Username, &r.GamesWon, &r.GamesPlayed, &r.MaxStreak); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
