// internal/httpserver/routes_daily.go
//
// Read-only routes for the Daily Challenge. Daily rounds themselves are played
// through POST /game/new {"mode":"daily"} and POST /game/guess.
//   - GET /daily/today       → today's date key and whether the caller has played
//   - GET /daily/leaderboard → top 20 results for today (or ?date=YYYY-MM-DD)

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/chriscastillo1/wordle/internal/daily"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/today", s.handleDailyToday)
		r.Get("/leaderboard", s.handleDailyLeaderboard)
	})
}

// todayRes is returned by /daily/today.
type todayRes struct {
	Date   string `json:"date"`
	Played bool   `json:"played"` // always false for guests
}

func (s *Server) handleDailyToday(w http.ResponseWriter, r *http.Request) {
	res := todayRes{Date: daily.DateKey(s.now())}
	if me := currentUser(r); me != nil {
		played, err := s.daily.AlreadyPlayed(r.Context(), me.ID, res.Date)
		if err != nil {
			log.Error().Err(err).Msg("daily lookup")
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		res.Played = played
	}
	writeJSON(w, http.StatusOK, res)
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleDailyLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	rows, err := s.daily.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
