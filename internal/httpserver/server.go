// internal/httpserver/server.go
//
// HTTP wiring for the motle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/languages", "/stats".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess,
//     GET /game/{id}.
//   - Daily challenge endpoints (optional auth): mounted under /daily.
//   - WebSocket live play: GET /ws.
//   - Auth + profile endpoints (require auth): /auth/*, /stats/me.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token
//     is present; routes still run for guests.
//   - The DB handle may be nil (tests, ephemeral servers); DB writes are
//     best-effort ownership/counter rows, never required for play.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/motle/server/internal/config"
	"github.com/motle/server/internal/game"
	"github.com/motle/server/internal/stats"
	"github.com/motle/server/internal/store"
	"github.com/motle/server/internal/words"
)

// Server bundles router, config, in-memory session store, stats aggregator,
// and the (optional) DB handle.
type Server struct {
	r     *chi.Mux
	cfg   *config.Config
	store store.Store
	agg   *stats.Aggregator
	db    *sql.DB
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg *config.Config, st store.Store, agg *stats.Aggregator, db *sql.DB) *Server {
	s := &Server{r: chi.NewRouter(), cfg: cfg, store: st, agg: agg, db: db}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "motle",
			"endpoints": []string{"/health", "/languages", "POST /game/new", "POST /game/guess", "GET /game/{id}", "/stats", "/ws", "/auth/*", "/daily/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		langs, lists, total := words.Counts()
		writeJSON(w, http.StatusOK, map[string]int{"languages": langs, "lists": lists, "words": total})
	})

	// Word catalog
	s.r.Get("/languages", s.handleLanguages)

	// Game endpoints — optional auth (guests can play)
	s.r.With(s.withOptionalAuth()).Post("/game/new", s.handleNewGame)
	s.r.With(s.withOptionalAuth()).Post("/game/guess", s.handleGuess)
	s.r.Get("/game/{id}", s.handleGetGame)

	// Per-configuration aggregate stats
	s.r.Get("/stats", s.handleStats)

	// Live play over WebSocket
	s.r.Get("/ws", s.handleWS)

	// Daily challenge — optional auth (guests keyed by anon cookie)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.ClientOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits {"error": code} with the given status.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// ------------------------------ catalog ------------------------------------

// handleLanguages lists loaded languages and the word lengths each carries.
func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	type langInfo struct {
		Language string `json:"language"`
		Lengths  []int  `json:"lengths"`
	}
	out := []langInfo{}
	for _, lang := range words.Languages() {
		out = append(out, langInfo{Language: lang, Lengths: words.Lengths(lang)})
	}
	writeJSON(w, http.StatusOK, out)
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Language string `json:"language"` // defaults to cfg.DefaultLanguage
	Length   int    `json:"length"`   // defaults to cfg.DefaultLength
	Answer   string `json:"answer"`   // optional fixed answer (testing)
}
type newGameRes struct {
	GameID     string `json:"gameId"`
	Language   string `json:"language"`
	WordLength int    `json:"wordLength"`
	GuessLimit int    `json:"guessLimit"`
}

// handleNewGame creates a new in-memory session and persists a DB "owner"
// row (user_id or anonymous_id) for history and counters.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Language == "" {
		req.Language = s.cfg.DefaultLanguage
	}
	if req.Length == 0 {
		req.Length = s.cfg.DefaultLength
	}

	list, err := words.Load(req.Language, req.Length)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_language_or_length")
		return
	}
	g, err := game.New(req.Language, list, req.Answer)
	if err != nil {
		var gerr *game.Error
		if errors.As(err, &gerr) {
			writeError(w, http.StatusUnprocessableEntity, gerr.Code)
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "invalid_request")
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	s.insertGameRow(w, r, g)

	writeJSON(w, http.StatusOK, newGameRes{
		GameID:     g.ID,
		Language:   g.Language,
		WordLength: g.WordLength,
		GuessLimit: g.GuessLimit,
	})
}

// insertGameRow persists the ownership row for a new game (best effort).
func (s *Server) insertGameRow(w http.ResponseWriter, r *http.Request, g *game.Session) {
	if s.db == nil {
		return
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		_, err := s.db.Exec(`INSERT INTO games (id, user_id, language, length, started_at, status, guesses)
		                     VALUES (?,?,?,?,?,?,0)`, g.ID, me.ID, g.Language, g.WordLength, now, "playing")
		if err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("insert user game row")
		}
	} else {
		anon := s.ensureAnonID(w, r)
		_, err := s.db.Exec(`INSERT INTO games (id, anonymous_id, language, length, started_at, status, guesses)
		                     VALUES (?,?,?,?,?,?,0)`, g.ID, anon, g.Language, g.WordLength, now, "playing")
		if err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("insert anon game row")
		}
	}
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Marks            []game.Mark `json:"marks"`
	State            game.State  `json:"state"`
	GuessesRemaining int         `json:"guessesRemaining"`
	Answer           string      `json:"answer,omitempty"` // revealed once finished
}

// handleGuess applies a guess to an in-memory session, persists progress,
// and records terminal outcomes into the aggregator and user counters.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	marks, state, err := g.SubmitGuess(req.Guess)
	if err != nil {
		var gerr *game.Error
		if errors.As(err, &gerr) {
			writeError(w, http.StatusUnprocessableEntity, gerr.Code)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_guess")
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	if g.Finished() {
		s.recordOutcome(r, g)
	}
	s.bumpGameRow(w, r, g, state)

	res := guessRes{
		Marks:            marks,
		State:            state,
		GuessesRemaining: g.GuessLimit - len(g.Guesses),
	}
	if g.Finished() {
		res.Answer = g.Answer
	}
	writeJSON(w, http.StatusOK, res)
}

// recordOutcome feeds a terminal session into the per-configuration
// aggregator. Failures are logged, never surfaced to the player.
func (s *Server) recordOutcome(r *http.Request, g *game.Session) {
	var err error
	if g.State == game.StateWon {
		_, err = s.agg.RecordWin(r.Context(), g.Language, g.WordLength, len(g.Guesses))
	} else {
		_, err = s.agg.RecordDefeat(r.Context(), g.Language, g.WordLength)
	}
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("record outcome")
	}
}

// bumpGameRow updates the ownership row's counters and, on a terminal
// state, the owning user's games/wins/streak (best effort, in one tx).
func (s *Server) bumpGameRow(w http.ResponseWriter, r *http.Request, g *game.Session, state game.State) {
	if s.db == nil {
		return
	}
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	ownerClause := `anonymous_id=?`
	ownerArg := any(s.ensureAnonID(w, r))
	if me != nil {
		ownerClause = `user_id=?`
		ownerArg = any(me.ID)
	}

	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("begin tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET guesses = guesses + 1 WHERE id=? AND `+ownerClause, g.ID, ownerArg); err != nil {
		log.Warn().Err(err).Msg("update guesses")
	}
	if state == game.StateWon || state == game.StateLost {
		if _, err := tx.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=? AND `+ownerClause,
			string(state), time.Now().UTC().Format(time.RFC3339), g.ID, ownerArg); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if me != nil {
			if err := s.bumpUserStats(tx, me.ID, state == game.StateWon); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump user stats")
			}
		}
	}
	_ = tx.Commit()
}

// handleGetGame returns a session snapshot. The answer is included only
// after the session has finished.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	snap := g.Snapshot()
	out := map[string]any{"game": snap}
	if g.Finished() {
		out["answer"] = g.Answer
	}
	writeJSON(w, http.StatusOK, out)
}

// ------------------------------ STATS --------------------------------------

// handleStats returns the aggregate counters for a (language, length) key.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")
	if language == "" {
		language = s.cfg.DefaultLanguage
	}
	length := s.cfg.DefaultLength
	if v := r.URL.Query().Get("length"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_length")
			return
		}
		length = n
	}
	st, err := s.agg.Get(r.Context(), language, length)
	if err != nil {
		log.Error().Err(err).Msg("load stats")
		writeError(w, http.StatusInternalServerError, "stats_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"language": language,
		"length":   length,
		"wins":     st.Wins,
		"defeats":  st.Defeats,
		"played":   st.Played(),
		"after":    st.After,
	})
}
