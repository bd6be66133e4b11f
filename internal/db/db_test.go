package db

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAppliesMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wordle.db")

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"users", "guess_distribution", "games", "daily_results"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	var applied int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&applied))
	assert.Equal(t, 3, applied)
}

func TestOpenTwiceIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordle.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	var applied int
	require.NoError(t, second.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&applied))
	assert.Equal(t, 3, applied)
}

func TestMigrateRollsBackBrokenScript(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "wordle.db"))
	require.NoError(t, err)
	defer db.Close()

	broken := fstest.MapFS{
		"900_broken.sql": {Data: []byte(`CREATE TABLE half (id INTEGER); NOT SQL AT ALL;`)},
	}
	require.Error(t, Migrate(db, broken))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations WHERE name='900_broken.sql'`).Scan(&n))
	assert.Equal(t, 0, n)
}
