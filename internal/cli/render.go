// internal/cli/render.go
//
// Terminal rendering for boards, the keyboard and statistics.

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chriscastillo1/wordle/internal/accounts"
	"github.com/chriscastillo1/wordle/internal/game"
)

var keyboardRows = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"}

// theme renders tiles for one output stream. In plain mode verdicts are shown
// with brackets instead of colour: [A] exact, (A) present, ' a ' absent.
type theme struct {
	plain   bool
	tiles   map[game.Verdict]lipgloss.Style
	unknown lipgloss.Style
	header  lipgloss.Style
	subtle  lipgloss.Style
	bar     lipgloss.Style
}

func newTheme(w io.Writer, plain bool) *theme {
	r := lipgloss.NewRenderer(w)
	tile := r.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("15"))
	return &theme{
		plain: plain,
		tiles: map[game.Verdict]lipgloss.Style{
			game.VerdictExact:   tile.Background(lipgloss.Color("28")),  // green
			game.VerdictPresent: tile.Background(lipgloss.Color("178")), // yellow
			game.VerdictAbsent:  tile.Background(lipgloss.Color("240")), // grey
		},
		unknown: r.NewStyle().Padding(0, 1),
		header:  r.NewStyle().Bold(true),
		subtle:  r.NewStyle().Foreground(lipgloss.Color("8")),
		bar:     r.NewStyle().Background(lipgloss.Color("28")).Foreground(lipgloss.Color("15")),
	}
}

func (t *theme) tile(r rune, v game.Verdict) string {
	up := strings.ToUpper(string(r))
	if !t.plain {
		return t.tiles[v].Render(up)
	}
	switch v {
	case game.VerdictExact:
		return "[" + up + "]"
	case game.VerdictPresent:
		return "(" + up + ")"
	default:
		return " " + string(r) + " "
	}
}

// board accumulates a round's scored guesses and the best verdict seen per letter.
type board struct {
	theme *theme
	rows  []string
	keys  map[rune]game.Verdict
}

func newBoard(t *theme) *board {
	return &board{theme: t, keys: make(map[rune]game.Verdict)}
}

func rank(v game.Verdict) int {
	switch v {
	case game.VerdictExact:
		return 3
	case game.VerdictPresent:
		return 2
	case game.VerdictAbsent:
		return 1
	}
	return 0
}

func (b *board) add(guess string, seq game.Sequence) {
	tiles := make([]string, 0, game.WordLength)
	for i, r := range []rune(guess) {
		tiles = append(tiles, b.theme.tile(r, seq[i]))
		if rank(seq[i]) > rank(b.keys[r]) {
			b.keys[r] = seq[i]
		}
	}
	b.rows = append(b.rows, strings.Join(tiles, " "))
}

// render draws the guesses so far, blank rows for the remaining attempts, and
// the keyboard.
func (b *board) render() string {
	var sb strings.Builder
	for _, row := range b.rows {
		sb.WriteString(row)
		sb.WriteByte('\n')
	}
	blank := strings.TrimRight(strings.Repeat(b.theme.subtle.Render(" _ ")+" ", game.WordLength), " ")
	for i := len(b.rows); i < game.MaxAttempts; i++ {
		sb.WriteString(blank)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	for _, row := range keyboardRows {
		keys := make([]string, 0, len(row))
		for _, r := range row {
			if v, ok := b.keys[r]; ok {
				keys = append(keys, b.theme.tile(r, v))
			} else {
				keys = append(keys, b.theme.unknown.Render(strings.ToUpper(string(r))))
			}
		}
		sb.WriteString(strings.Join(keys, ""))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// printStats writes a statistics panel with a guess distribution histogram.
func printStats(w io.Writer, t *theme, name string, st *accounts.Stats) {
	fmt.Fprintln(w, t.header.Render("Statistics for "+name))
	fmt.Fprintf(w, "Played: %d  Win %%: %d  Current streak: %d  Max streak: %d\n",
		st.GamesPlayed, st.WinPercent(), st.CurrentStreak, st.MaxStreak)
	fmt.Fprintln(w, t.subtle.Render("Guess distribution"))

	most := 1
	for _, n := range st.Distribution {
		if n > most {
			most = n
		}
	}
	const width = 20
	for i, n := range st.Distribution {
		bar := strings.Repeat(" ", n*width/most)
		if t.plain {
			bar = strings.Repeat("#", n*width/most)
		} else if bar != "" {
			bar = t.bar.Render(bar)
		}
		fmt.Fprintf(w, "%d | %s %d\n", i+1, bar, n)
	}
}
