// internal/cli/account.go
//
// Account commands: signup, stats and leaderboard.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chriscastillo1/wordle/internal/accounts"
)

func newSignupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signup NAME",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()
			pw, err := readPassword(cmd.InOrStdin(), in, out, "Password: ")
			if err != nil {
				return err
			}
			confirm, err := readPassword(cmd.InOrStdin(), in, out, "Confirm password: ")
			if err != nil {
				return err
			}
			if pw != confirm {
				return errors.New("passwords do not match")
			}

			u, err := a.accounts(conn).Create(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Created account %s.\n", u.Username)
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "stats NAME",
		Short: "Show an account's statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			store := a.accounts(conn)
			u, err := store.FindByUsername(cmd.Context(), args[0])
			if errors.Is(err, accounts.ErrUserNotFound) {
				return fmt.Errorf("no account named %q", args[0])
			}
			if err != nil {
				return err
			}
			st, err := store.Stats(cmd.Context(), u.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printStats(out, newTheme(out, plain), u.Username, st)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Draw the histogram without colour")
	return cmd
}

func newLeaderboardCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the players with the most wins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			rows, err := a.accounts(conn).Leaderboard(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No players yet.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tPLAYER\tWON\tPLAYED\tMAX STREAK")
			for _, r := range rows {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\n", r.Rank, r.Username, r.GamesWon, r.GamesPlayed, r.MaxStreak)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of players to show")
	return cmd
}
