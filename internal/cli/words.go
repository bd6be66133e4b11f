// internal/cli/words.go
//
// Word list utilities.

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newWordsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Word list utilities",
	}
	cmd.AddCommand(newWordsCheckCmd(a))
	return cmd
}

func newWordsCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check WORD...",
		Short: "Report whether each word is an accepted guess",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.loadWords()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, w := range args {
				verdict := "not in word list"
				if ws.IsValidGuess(w) {
					verdict = "ok"
				}
				fmt.Fprintf(out, "%-8s %s\n", strings.ToLower(strings.TrimSpace(w)), verdict)
			}
			fmt.Fprintf(out, "(%d words loaded)\n", ws.Len())
			return nil
		},
	}
}
