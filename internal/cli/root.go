// internal/cli/root.go
//
// The wordle command tree: the HTTP server, terminal play and account
// utilities.

package cli

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chriscastillo1/wordle/internal/accounts"
	"github.com/chriscastillo1/wordle/internal/config"
	"github.com/chriscastillo1/wordle/internal/db"
	"github.com/chriscastillo1/wordle/internal/words"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	cfg *config.Config

	// test hooks
	wordOpts    []words.Option
	accountOpts []accounts.Option
	now         func() time.Time
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	var logLevel, wordsFile, dbPath string

	rootCmd := &cobra.Command{
		Use:   "wordle",
		Short: "Guess the five-letter word in six tries",
		Long: `wordle plays rounds of the five-letter word game in the terminal and
serves the same game as a JSON HTTP API.

Configuration comes from the environment (and a .env file when present);
the flags below override it.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				c.LogLevel = logLevel
			}
			if wordsFile != "" {
				c.WordsFile = wordsFile
			}
			if dbPath != "" {
				c.DatabasePath = dbPath
			}

			lvl, err := zerolog.ParseLevel(c.LogLevel)
			if err != nil {
				return fmt.Errorf("log level %q: %w", c.LogLevel, err)
			}
			zerolog.SetGlobalLevel(lvl)
			// the server logs JSON; interactive commands get readable stderr output
			if cmd.Name() != "serve" {
				log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen})
			}

			a.cfg = c
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (env: LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&wordsFile, "words", "", "Word list file, one word per line (env: WORDS_FILE)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (env: DATABASE_PATH)")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newPlayCmd(a))
	rootCmd.AddCommand(newSignupCmd(a))
	rootCmd.AddCommand(newStatsCmd(a))
	rootCmd.AddCommand(newLeaderboardCmd(a))
	rootCmd.AddCommand(newWordsCmd(a))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadWords loads the configured word list, or the embedded one.
func (a *app) loadWords() (*words.Store, error) {
	ws := words.New(a.wordOpts...)
	var err error
	if a.cfg.WordsFile == "" {
		err = ws.LoadEmbedded()
	} else {
		err = ws.Load(a.cfg.WordsFile)
	}
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	return ws, nil
}

func (a *app) openDB() (*sql.DB, error) {
	return db.Open(a.cfg.DatabasePath)
}

func (a *app) accounts(conn *sql.DB) *accounts.Store {
	opts := append([]accounts.Option(nil), a.accountOpts...)
	if a.now != nil {
		opts = append(opts, accounts.WithClock(a.now))
	}
	return accounts.NewStore(conn, opts...)
}

func (a *app) clock() func() time.Time {
	if a.now != nil {
		return a.now
	}
	return time.Now
}
