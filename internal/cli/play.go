// internal/cli/play.go
//
// Interactive terminal play.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chriscastillo1/wordle/internal/accounts"
	"github.com/chriscastillo1/wordle/internal/daily"
	"github.com/chriscastillo1/wordle/internal/game"
	"github.com/chriscastillo1/wordle/internal/words"
)

// errQuit ends the session without an error.
var errQuit = errors.New("quit")

func newPlayCmd(a *app) *cobra.Command {
	var user, policy string
	var dailyMode, plain bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Play rounds in the terminal. Enter a guess per line; an empty line gives up
and shows the answer. With --user, finished and abandoned rounds count toward
that account's statistics, an abandoned round as a loss.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.loadWords()
			if err != nil {
				return err
			}
			p := a.cfg.ScoringPolicy
			if policy != "" {
				if p, err = game.ParsePolicy(policy); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			s := &session{
				in:        bufio.NewReader(cmd.InOrStdin()),
				out:       out,
				theme:     newTheme(out, plain),
				words:     ws,
				policy:    p,
				dailyMode: dailyMode,
				salt:      a.cfg.DailySalt,
				now:       a.clock(),
			}

			if user != "" {
				conn, err := a.openDB()
				if err != nil {
					return err
				}
				defer conn.Close()
				s.accounts = a.accounts(conn)
				s.daily = daily.NewStore(conn)

				pw, err := readPassword(cmd.InOrStdin(), s.in, out, "Password: ")
				if err != nil {
					return err
				}
				u, err := s.accounts.Authenticate(cmd.Context(), user, pw)
				if errors.Is(err, accounts.ErrInvalidCredentials) {
					return errors.New("invalid username or password")
				}
				if err != nil {
					return err
				}
				s.user = u
				fmt.Fprintf(out, "Signed in as %s.\n", u.Username)
			}
			return s.run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Account to record results for (password is prompted)")
	cmd.Flags().BoolVar(&dailyMode, "daily", false, "Play today's word")
	cmd.Flags().StringVar(&policy, "policy", "", "Scoring policy: reference or frequency (env: SCORING_POLICY)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Mark tiles with brackets instead of colour")

	return cmd
}

// session is one interactive play-through of one or more rounds.
type session struct {
	in    *bufio.Reader
	out   io.Writer
	theme *theme
	words *words.Store

	accounts *accounts.Store // nil for guests
	daily    *daily.Store
	user     *accounts.User

	policy    game.Policy
	dailyMode bool
	salt      string
	now       func() time.Time
}

func (s *session) run(ctx context.Context) error {
	for {
		if err := s.playRound(ctx); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
		if s.dailyMode {
			return nil
		}
		again, err := prompt(s.in, s.out, "Play again? [y/N] ")
		if err != nil || !strings.HasPrefix(strings.ToLower(again), "y") {
			return nil
		}
	}
}

func (s *session) playRound(ctx context.Context) error {
	var (
		picker    game.Picker = game.PickerFunc(s.words.RandomWord)
		date      string
		wordIndex int
	)
	if s.dailyMode {
		src := daily.Source{Words: s.words, Salt: s.salt, Now: s.now}
		var err error
		if date, wordIndex, _, err = src.Today(); err != nil {
			return err
		}
		if s.user != nil {
			played, err := s.daily.AlreadyPlayed(ctx, s.user.ID, date)
			if err != nil {
				return err
			}
			if played {
				fmt.Fprintf(s.out, "You already played the daily word for %s.\n", date)
				return errQuit
			}
		}
		picker = src
	}

	round := game.NewRound(picker, game.WithPolicy(s.policy))
	if err := round.Start(); err != nil {
		return err
	}
	started := s.now()
	b := newBoard(s.theme)
	fmt.Fprintf(s.out, "Guess the %d-letter word in %d tries. An empty line gives up.\n", game.WordLength, game.MaxAttempts)

	for !round.Outcome().Terminal() {
		line, err := prompt(s.in, s.out, fmt.Sprintf("Guess %d/%d: ", round.Attempts()+1, game.MaxAttempts))
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		guess := strings.ToLower(line)
		if guess == "" {
			fmt.Fprintf(s.out, "The word was %s.\n", strings.ToUpper(round.Target()))
			// giving up after seeing the answer counts as a loss
			forfeit := game.Result{Target: round.Target(), Attempts: round.Attempts()}
			if err := s.record(ctx, round.ID(), forfeit, date, wordIndex, started); err != nil {
				return err
			}
			return errQuit
		}
		if utf8.RuneCountInString(guess) != game.WordLength {
			fmt.Fprintf(s.out, "Guesses must be %d letters.\n", game.WordLength)
			continue
		}
		if !s.words.IsValidGuess(guess) {
			fmt.Fprintf(s.out, "%s is not in the word list.\n", strings.ToUpper(guess))
			continue
		}
		seq, err := round.Submit(guess)
		if err != nil {
			return err
		}
		b.add(guess, seq)
		fmt.Fprint(s.out, b.render())
	}

	result, _ := round.Result()
	if result.Won {
		fmt.Fprintf(s.out, "Solved in %d/%d!\n", result.Attempts, game.MaxAttempts)
	} else {
		fmt.Fprintf(s.out, "Out of guesses. The word was %s.\n", strings.ToUpper(result.Target))
	}
	return s.record(ctx, round.ID(), result, date, wordIndex, started)
}

// record stores a finished round for the signed-in user and shows their stats.
func (s *session) record(ctx context.Context, id string, result game.Result, date string, wordIndex int, started time.Time) error {
	if s.user == nil {
		return nil
	}
	mode := "normal"
	if s.dailyMode {
		mode = "daily"
	}
	st, err := s.accounts.RecordResult(ctx, s.user.ID, accounts.GameRecord{
		ID:       id,
		Mode:     mode,
		Answer:   result.Target,
		Won:      result.Won,
		Attempts: result.Attempts,
	})
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	if s.dailyMode {
		err := s.daily.InsertResult(ctx, daily.Result{
			UserID:    s.user.ID,
			Date:      date,
			WordIndex: wordIndex,
			Won:       result.Won,
			Guesses:   result.Attempts,
			ElapsedMs: s.now().Sub(started).Milliseconds(),
		})
		if err != nil {
			log.Warn().Err(err).Msg("record daily result")
		}
	}
	printStats(s.out, s.theme, s.user.Username, st)
	return nil
}

// prompt prints label and reads one trimmed line. A final line without a
// newline is returned with a nil error.
func prompt(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads a password without echo when in is a terminal, and as a
// plain line otherwise (pipes, tests).
func readPassword(in io.Reader, r *bufio.Reader, w io.Writer, label string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(w, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(w)
		return string(b), err
	}
	line, err := prompt(r, w, label)
	if errors.Is(err, io.EOF) {
		return "", errors.New("password required")
	}
	return line, err
}
