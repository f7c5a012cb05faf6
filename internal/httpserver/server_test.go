package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/motle/server/internal/config"
	"github.com/motle/server/internal/httpserver"
	"github.com/motle/server/internal/stats"
	"github.com/motle/server/internal/store"
)

// newTestServer builds a server with in-memory stores and no database.
func newTestServer() *httpserver.Server {
	cfg := &config.Config{
		ClientOrigin:    "http://localhost:5173",
		JWTSecret:       "test_secret",
		JWTExpiresDays:  14,
		CookieName:      "motle_token",
		DailySalt:       "test_salt",
		DefaultLanguage: "en",
		DefaultLength:   5,
	}
	agg := stats.NewAggregator(stats.NewMemoryStore())
	return httpserver.New(cfg, store.NewMemoryStore(), agg, nil)
}

func doJSON(t *testing.T, srv *httpserver.Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	srv := newTestServer()
	rec, out := doJSON(t, srv, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if out["ok"] != true {
		t.Fatalf("unexpected body: %v", out)
	}
}

func TestLanguages(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/languages", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out []struct {
		Language string `json:"language"`
		Lengths  []int  `json:"lengths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) < 2 {
		t.Fatalf("expected at least en and es, got %v", out)
	}
}

func TestGamePlayThrough(t *testing.T) {
	srv := newTestServer()

	rec, out := doJSON(t, srv, http.MethodPost, "/game/new",
		map[string]any{"language": "en", "length": 5, "answer": "crane"})
	if rec.Code != http.StatusOK {
		t.Fatalf("new game: expected 200, got %d (%v)", rec.Code, out)
	}
	gameID, _ := out["gameId"].(string)
	if gameID == "" {
		t.Fatalf("missing gameId: %v", out)
	}
	if out["guessLimit"].(float64) != 6 {
		t.Fatalf("expected guess limit 6, got %v", out["guessLimit"])
	}

	// Unknown word: recoverable 422, session untouched.
	rec, out = doJSON(t, srv, http.MethodPost, "/game/guess",
		map[string]any{"gameId": gameID, "guess": "zzzzz"})
	if rec.Code != http.StatusUnprocessableEntity || out["error"] != "not_in_word_list" {
		t.Fatalf("expected 422 not_in_word_list, got %d %v", rec.Code, out)
	}

	// Wrong length.
	rec, out = doJSON(t, srv, http.MethodPost, "/game/guess",
		map[string]any{"gameId": gameID, "guess": "cran"})
	if rec.Code != http.StatusUnprocessableEntity || out["error"] != "invalid_length" {
		t.Fatalf("expected 422 invalid_length, got %d %v", rec.Code, out)
	}

	// A real miss.
	rec, out = doJSON(t, srv, http.MethodPost, "/game/guess",
		map[string]any{"gameId": gameID, "guess": "slate"})
	if rec.Code != http.StatusOK {
		t.Fatalf("guess: expected 200, got %d (%v)", rec.Code, out)
	}
	if out["state"] != "playing" {
		t.Fatalf("expected playing, got %v", out["state"])
	}
	if out["guessesRemaining"].(float64) != 5 {
		t.Fatalf("expected 5 remaining, got %v", out["guessesRemaining"])
	}

	// The win.
	rec, out = doJSON(t, srv, http.MethodPost, "/game/guess",
		map[string]any{"gameId": gameID, "guess": "crane"})
	if rec.Code != http.StatusOK {
		t.Fatalf("winning guess: expected 200, got %d (%v)", rec.Code, out)
	}
	if out["state"] != "won" {
		t.Fatalf("expected won, got %v", out["state"])
	}
	if out["answer"] != "crane" {
		t.Fatalf("answer should be revealed on finish, got %v", out["answer"])
	}

	// Terminal session rejects further guesses.
	rec, out = doJSON(t, srv, http.MethodPost, "/game/guess",
		map[string]any{"gameId": gameID, "guess": "slate"})
	if rec.Code != http.StatusUnprocessableEntity || out["error"] != "session_over" {
		t.Fatalf("expected 422 session_over, got %d %v", rec.Code, out)
	}
}

func TestStatsReflectOutcomes(t *testing.T) {
	srv := newTestServer()

	// One win in two guesses.
	_, out := doJSON(t, srv, http.MethodPost, "/game/new",
		map[string]any{"answer": "crane"})
	gameID := out["gameId"].(string)
	doJSON(t, srv, http.MethodPost, "/game/guess", map[string]any{"gameId": gameID, "guess": "slate"})
	doJSON(t, srv, http.MethodPost, "/game/guess", map[string]any{"gameId": gameID, "guess": "crane"})

	rec, out := doJSON(t, srv, http.MethodGet, "/stats?language=en&length=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", rec.Code)
	}
	if out["wins"].(float64) != 1 || out["defeats"].(float64) != 0 {
		t.Fatalf("unexpected stats: %v", out)
	}
	after := out["after"].(map[string]any)
	if after["2"].(float64) != 1 {
		t.Fatalf("expected after[2]=1, got %v", after)
	}
}

func TestNewGameUnknownLanguage(t *testing.T) {
	srv := newTestServer()
	rec, out := doJSON(t, srv, http.MethodPost, "/game/new",
		map[string]any{"language": "xx", "length": 5})
	if rec.Code != http.StatusBadRequest || out["error"] != "unknown_language_or_length" {
		t.Fatalf("expected 400 unknown_language_or_length, got %d %v", rec.Code, out)
	}
}

// A fixed answer whose length disagrees with the requested configuration
// must be rejected up front, not detonate later inside scoring.
func TestNewGameRejectsMismatchedAnswer(t *testing.T) {
	srv := newTestServer()
	rec, out := doJSON(t, srv, http.MethodPost, "/game/new",
		map[string]any{"language": "en", "length": 5, "answer": "toolongword"})
	if rec.Code != http.StatusUnprocessableEntity || out["error"] != "invalid_length" {
		t.Fatalf("expected 422 invalid_length, got %d %v", rec.Code, out)
	}

	// And a matching game is still playable end to end.
	rec, out = doJSON(t, srv, http.MethodPost, "/game/new",
		map[string]any{"language": "en", "length": 5, "answer": "crane"})
	if rec.Code != http.StatusOK {
		t.Fatalf("valid answer rejected: %d %v", rec.Code, out)
	}
	gameID := out["gameId"].(string)
	rec, out = doJSON(t, srv, http.MethodPost, "/game/guess",
		map[string]any{"gameId": gameID, "guess": "slate"})
	if rec.Code != http.StatusOK || out["state"] != "playing" {
		t.Fatalf("guess after valid fixed answer: %d %v", rec.Code, out)
	}
}

func TestGuessUnknownGame(t *testing.T) {
	srv := newTestServer()
	rec, out := doJSON(t, srv, http.MethodPost, "/game/guess",
		map[string]any{"gameId": "missing", "guess": "crane"})
	if rec.Code != http.StatusNotFound || out["error"] != "not_found" {
		t.Fatalf("expected 404 not_found, got %d %v", rec.Code, out)
	}
}

func TestGetGameHidesAnswerWhilePlaying(t *testing.T) {
	srv := newTestServer()
	_, out := doJSON(t, srv, http.MethodPost, "/game/new",
		map[string]any{"answer": "crane"})
	gameID := out["gameId"].(string)

	rec, out := doJSON(t, srv, http.MethodGet, "/game/"+gameID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get game: expected 200, got %d", rec.Code)
	}
	if _, leaked := out["answer"]; leaked {
		t.Fatal("answer leaked on an unfinished session")
	}
	g := out["game"].(map[string]any)
	if g["state"] != "playing" {
		t.Fatalf("unexpected state: %v", g["state"])
	}
}

func TestAuthRequiresDatabase(t *testing.T) {
	srv := newTestServer()
	rec, out := doJSON(t, srv, http.MethodPost, "/auth/signup",
		map[string]any{"username": "player_one", "password": "hunter2hunter2"})
	if rec.Code != http.StatusServiceUnavailable || out["error"] != "no_database" {
		t.Fatalf("expected 503 no_database, got %d %v", rec.Code, out)
	}
}
