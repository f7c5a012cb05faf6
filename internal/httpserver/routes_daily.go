// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily challenge.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's game for a configuration
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → top results for a date + configuration
//
// Each user plays each (date, language, length) once, enforced by the DB
// and the in-memory session map. Active sessions are held in memory and
// the result is persisted on completion. Word selection is deterministic
// from date + salt, so everyone in a configuration shares the answer.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/motle/server/internal/daily"
	"github.com/motle/server/internal/game"
	"github.com/motle/server/internal/words"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // keyed userID|date|language|length
	mu       sync.Mutex               // guards sessions
}

// dailySession holds transient in-memory state for an in-progress daily game.
type dailySession struct {
	Game      *game.Session
	UserID    string
	Date      string
	WordIndex int
	Start     time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		salt:     s.cfg.DailySalt,
		sessions: make(map[string]*dailySession),
	}
	if s.db != nil {
		dd.store = daily.NewStore(s.db)
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// sessionKey builds the map key for one user's daily game.
func sessionKey(userID, date, language string, length int) string {
	return userID + "|" + date + "|" + language + "|" + strconv.Itoa(length)
}

// userID returns the authenticated user ID if logged in, otherwise the
// stable anonymous cookie ID.
func (d *dailyServer) userID(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// resolveConfig applies server defaults and loads the word list.
func (d *dailyServer) resolveConfig(language string, length int) (string, int, *words.List, error) {
	if language == "" {
		language = d.srv.cfg.DefaultLanguage
	}
	if length == 0 {
		length = d.srv.cfg.DefaultLength
	}
	list, err := words.Load(language, length)
	return language, length, list, err
}

type dailyNewReq struct {
	Language string `json:"language"`
	Length   int    `json:"length"`
}

// handleNew starts (or rejects) today's daily game for the caller.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	if d.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no_database")
		return
	}
	var req dailyNewReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	language, length, list, err := d.resolveConfig(req.Language, req.Length)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_language_or_length")
		return
	}

	uid := d.userID(w, r)
	now := time.Now()
	date := daily.DateKey(now)
	idx := daily.WordIndex(now, d.salt, language, length, list.Len())

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date, language, length)
	if err != nil {
		log.Error().Err(err).Msg("daily already-played check")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		writeError(w, http.StatusConflict, "already_played")
		return
	}

	key := sessionKey(uid, date, language, length)
	d.mu.Lock()
	defer d.mu.Unlock()
	if ds, ok := d.sessions[key]; ok {
		if ds.Game.Finished() {
			// Terminal session is the blocking record for the day even
			// if the result row failed to persist.
			writeError(w, http.StatusConflict, "already_played")
			return
		}
		// Resume the open session rather than minting a fresh one.
		writeJSON(w, http.StatusOK, map[string]any{
			"gameId": ds.Game.ID, "date": date,
			"wordLength": ds.Game.WordLength, "guessLimit": ds.Game.GuessLimit,
			"resumed": true,
		})
		return
	}

	g, err := game.New(language, list, list.At(idx))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "empty_word_list")
		return
	}
	d.sessions[key] = &dailySession{
		Game:      g,
		UserID:    uid,
		Date:      date,
		WordIndex: idx,
		Start:     now,
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"gameId": g.ID, "date": date,
		"wordLength": g.WordLength, "guessLimit": g.GuessLimit,
	})
}

type dailyGuessReq struct {
	Language string `json:"language"`
	Length   int    `json:"length"`
	Guess    string `json:"guess"`
}

// handleGuess applies a guess to the caller's open daily session,
// persisting the result when the game finishes.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	if d.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no_database")
		return
	}
	var req dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	language, length, _, err := d.resolveConfig(req.Language, req.Length)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_language_or_length")
		return
	}

	uid := d.userID(w, r)
	date := daily.DateKey(time.Now())
	key := sessionKey(uid, date, language, length)

	d.mu.Lock()
	ds, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "no_active_session")
		return
	}

	marks, state, err := ds.Game.SubmitGuess(req.Guess)
	if err != nil {
		var gerr *game.Error
		if errors.As(err, &gerr) {
			writeError(w, http.StatusUnprocessableEntity, gerr.Code)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_guess")
		return
	}

	res := map[string]any{
		"marks":            marks,
		"state":            state,
		"guessesRemaining": ds.Game.GuessLimit - len(ds.Game.Guesses),
	}
	if ds.Game.Finished() {
		res["answer"] = ds.Game.Answer
		d.srv.recordOutcome(r, ds.Game)
		// Losses are persisted too: the row is what blocks a replay of
		// the (now known) answer for the rest of the day.
		err := d.store.InsertResult(r.Context(), daily.Result{
			UserID:    uid,
			Date:      date,
			Language:  language,
			Length:    length,
			WordIndex: ds.WordIndex,
			Won:       state == game.StateWon,
			Guesses:   len(ds.Game.Guesses),
			ElapsedMs: int(time.Since(ds.Start).Milliseconds()),
		})
		if err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// handleLeaderboard returns the top results for a date + configuration.
// Defaults to today and the server's default configuration.
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if d.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no_database")
		return
	}
	q := r.URL.Query()
	date := q.Get("date")
	if date == "" {
		date = daily.DateKey(time.Now())
	}
	length := 0
	if v := q.Get("length"); v != "" {
		length, _ = strconv.Atoi(v)
	}
	language, length, _, err := d.resolveConfig(q.Get("language"), length)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_language_or_length")
		return
	}
	limit := 20
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	rows, err := d.store.Leaderboard(r.Context(), date, language, length, limit)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date": date, "language": language, "length": length, "rows": rows,
	})
}
