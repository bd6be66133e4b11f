// internal/httpserver/game.go
//
// Round endpoints: starting normal and daily rounds, and scoring guesses
// against the round store.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/chriscastillo1/wordle/internal/accounts"
	"github.com/chriscastillo1/wordle/internal/daily"
	"github.com/chriscastillo1/wordle/internal/game"
	"github.com/chriscastillo1/wordle/internal/store"
)

// Round modes.
const (
	modeNormal = "normal"
	modeDaily  = "daily"
)

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode string `json:"mode"` // "normal" | "daily"
}
type newGameRes struct {
	GameID      string `json:"gameId"`
	Mode        string `json:"mode"`
	MaxAttempts int    `json:"maxAttempts"`
	WordLength  int    `json:"wordLength"`
	Attempts    int    `json:"attempts"` // non-zero when resuming a daily round
}

// dailyRoundID is the one round a signed-in player gets per day.
func dailyRoundID(userID, date string) string {
	return "daily:" + userID + ":" + date
}

// handleNewGame starts a round and keeps it in the round store. A signed-in
// player asking for the daily word again gets the round they already opened.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Mode == "" {
		req.Mode = modeNormal
	}
	me := currentUser(r)
	now := s.now().UTC()

	var (
		picker game.Picker
		id     string
	)
	switch req.Mode {
	case modeNormal:
		picker = game.PickerFunc(s.words.RandomWord)
	case modeDaily:
		picker = s.dailySource()
		if me != nil {
			date := daily.DateKey(now)
			played, err := s.daily.AlreadyPlayed(r.Context(), me.ID, date)
			if err != nil {
				log.Error().Err(err).Str("user", me.ID).Msg("daily lookup")
				writeError(w, http.StatusInternalServerError, "db_error")
				return
			}
			if played {
				writeError(w, http.StatusConflict, "already_played")
				return
			}
			id = dailyRoundID(me.ID, date)
		}
	default:
		writeError(w, http.StatusBadRequest, "invalid_mode")
		return
	}

	opts := []game.Option{game.WithPolicy(s.cfg.ScoringPolicy)}
	if !s.cfg.StrictRounds {
		opts = append(opts, game.WithLenientFinish())
	}
	round := game.NewRound(picker, opts...)
	if err := round.Start(); err != nil {
		log.Error().Err(err).Msg("start round")
		writeError(w, http.StatusServiceUnavailable, "word_list_unavailable")
		return
	}
	if id == "" {
		id = round.ID()
	}

	rec := &store.Record{
		ID:        id,
		Mode:      req.Mode,
		Round:     round.Snapshot(),
		StartedAt: now,
	}
	if me != nil {
		rec.UserID = me.ID
	}
	err := s.rounds.Create(r.Context(), rec)
	if errors.Is(err, store.ErrExists) && req.Mode == modeDaily {
		rec, err = s.rounds.Get(r.Context(), id)
		if err == nil && rec.Round.Outcome.Terminal() {
			writeError(w, http.StatusConflict, "already_played")
			return
		}
	}
	if err != nil {
		log.Error().Err(err).Str("gameId", id).Msg("save round")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	writeJSON(w, http.StatusOK, newGameRes{
		GameID:      rec.ID,
		Mode:        rec.Mode,
		MaxAttempts: game.MaxAttempts,
		WordLength:  game.WordLength,
		Attempts:    rec.Round.Attempts,
	})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Verdicts []game.Verdict `json:"verdicts"`
	Marks    []int          `json:"marks"` // -1 absent, 0 present, 1 exact
	State    game.Outcome   `json:"state"`
	Attempts int            `json:"attempts"`
	Answer   string         `json:"answer,omitempty"` // only once the round is over
}

// guessError aborts a round update with an HTTP status and error code.
type guessError struct {
	status int
	code   string
	err    error // logged when set
}

func (e *guessError) Error() string { return e.code }

// handleGuess scores a guess against a stored round and, when the round
// finishes for a signed-in player, records the result best effort. The whole
// load-score-save runs inside one store update so concurrent guesses on a
// round are applied one at a time.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	me := currentUser(r)
	guess := strings.ToLower(strings.TrimSpace(req.Guess))

	var (
		round   *game.Round
		seq     game.Sequence
		wasOver bool
	)
	rec, err := s.rounds.Update(r.Context(), req.GameID, func(rec *store.Record) error {
		if rec.UserID != "" && (me == nil || me.ID != rec.UserID) {
			// someone else's round
			return &guessError{status: http.StatusNotFound, code: "not_found"}
		}
		rd, err := game.Resume(rec.Round)
		if err != nil {
			return &guessError{status: http.StatusInternalServerError, code: "corrupt_round", err: err}
		}
		wasOver = rd.Outcome().Terminal()
		if wasOver && s.cfg.StrictRounds {
			return &guessError{status: http.StatusConflict, code: "round_over"}
		}
		if utf8.RuneCountInString(guess) != game.WordLength {
			return &guessError{status: http.StatusBadRequest, code: "invalid_length"}
		}
		if !s.words.IsValidGuess(guess) {
			return &guessError{status: http.StatusBadRequest, code: "not_in_word_list"}
		}

		seq, err = rd.Submit(guess)
		switch {
		case errors.Is(err, game.ErrRoundOver):
			return &guessError{status: http.StatusConflict, code: "round_over"}
		case errors.Is(err, game.ErrInvalidLength):
			return &guessError{status: http.StatusBadRequest, code: "invalid_length"}
		case err != nil:
			return &guessError{status: http.StatusInternalServerError, code: "guess_failed", err: err}
		}
		rec.Round = rd.Snapshot()
		round = rd
		return nil
	})

	var ge *guessError
	switch {
	case errors.As(err, &ge):
		if ge.err != nil {
			log.Error().Err(ge.err).Str("gameId", req.GameID).Msg(ge.code)
		}
		writeError(w, ge.status, ge.code)
		return
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "busy")
		return
	case err != nil:
		log.Error().Err(err).Str("gameId", req.GameID).Msg("save round")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	res := guessRes{
		Verdicts: seq[:],
		Marks:    seq.Ints(),
		State:    round.Outcome(),
		Attempts: round.Attempts(),
	}
	if result, done := round.Result(); done {
		res.Answer = result.Target
		if !wasOver && me != nil {
			s.recordFinish(r.Context(), me, rec, result)
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// recordFinish persists stats (and the daily result) for a finished round.
// Failures are logged, never returned: the player already has their answer.
func (s *Server) recordFinish(ctx context.Context, me *authUser, rec *store.Record, result game.Result) {
	_, err := s.accounts.RecordResult(ctx, me.ID, accounts.GameRecord{
		ID:         rec.ID,
		Mode:       rec.Mode,
		Answer:     result.Target,
		Won:        result.Won,
		Attempts:   result.Attempts,
		FinishedAt: s.now().UTC(),
	})
	if err != nil {
		log.Warn().Err(err).Str("user", me.ID).Str("gameId", rec.ID).Msg("record result")
	}

	if rec.Mode != modeDaily {
		return
	}
	err = s.daily.InsertResult(ctx, daily.Result{
		UserID:    me.ID,
		Date:      daily.DateKey(rec.StartedAt),
		WordIndex: daily.WordIndex(rec.StartedAt, s.cfg.DailySalt, s.words.Len()),
		Won:       result.Won,
		Guesses:   result.Attempts,
		ElapsedMs: s.now().Sub(rec.StartedAt).Milliseconds(),
	})
	if err != nil {
		log.Warn().Err(err).Str("user", me.ID).Msg("record daily result")
	}
}

func (s *Server) dailySource() daily.Source {
	return daily.Source{Words: s.words, Salt: s.cfg.DailySalt, Now: s.now}
}
