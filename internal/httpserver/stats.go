// internal/httpserver/stats.go
//
// Routes for statistics, game history and the leaderboards.

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
)

// mountStatsRoutes registers the profile routes (auth required) and the
// public leaderboards.
func (s *Server) mountStatsRoutes() {
	s.r.With(s.requireAuth()).Get("/stats/me", s.handleMyStats)
	s.r.With(s.requireAuth()).Get("/games/mine", s.handleMyGames)
	s.r.Get("/leaderboard", s.handleLeaderboard)
	s.mountDaily(s.r.With(s.withOptionalAuth()))
}

func (s *Server) handleMyStats(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	st, err := s.accounts.Stats(r.Context(), me.ID)
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("load stats")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         me.ID,
		"username":   me.Username,
		"stats":      st,
		"winPercent": st.WinPercent(),
	})
}

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	games, err := s.accounts.History(r.Context(), me.ID, queryLimit(r, 50, 200))
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("load history")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.accounts.Leaderboard(r.Context(), queryLimit(r, 10, 100))
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// queryLimit reads ?limit=, falling back to def and clamping to ceiling.
func queryLimit(r *http.Request, def, ceiling int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return def
	}
	if n > ceiling {
		return ceiling
	}
	return n
}
