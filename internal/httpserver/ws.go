// internal/httpserver/ws.go
//
// WebSocket live play. A browser client keeps one connection open and
// plays over typed JSON messages instead of per-guess POSTs.
//
// Inbound:
//   {"type":"start","language":"en","length":5}
//   {"type":"guess","word":"crane"}
// Outbound:
//   {"type":"started", ...}   session dimensions
//   {"type":"result", ...}    marks + state after a guess
//   {"type":"error","code":..} recoverable rejection; connection stays open
//
// One connection owns one session at a time; a new "start" replaces the
// previous session, mirroring the reset semantics of the HTTP flow.

package httpserver

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/motle/server/internal/game"
	"github.com/motle/server/internal/words"
)

type wsInbound struct {
	Type     string `json:"type"`
	Language string `json:"language,omitempty"`
	Length   int    `json:"length,omitempty"`
	Word     string `json:"word,omitempty"`
}

type wsOutbound struct {
	Type             string      `json:"type"`
	Code             string      `json:"code,omitempty"`
	GameID           string      `json:"gameId,omitempty"`
	Language         string      `json:"language,omitempty"`
	WordLength       int         `json:"wordLength,omitempty"`
	GuessLimit       int         `json:"guessLimit,omitempty"`
	Marks            []game.Mark `json:"marks,omitempty"`
	State            game.State  `json:"state,omitempty"`
	GuessesRemaining int         `json:"guessesRemaining,omitempty"`
	Answer           string      `json:"answer,omitempty"`
}

// handleWS upgrades the connection and runs the per-connection play loop.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == s.cfg.ClientOrigin
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade")
		return
	}
	defer conn.Close()

	// The connection goroutine exclusively owns the session; no locking.
	var sess *game.Session

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("ws read")
			}
			return
		}

		switch in.Type {
		case "start":
			language := in.Language
			if language == "" {
				language = s.cfg.DefaultLanguage
			}
			length := in.Length
			if length == 0 {
				length = s.cfg.DefaultLength
			}
			list, err := words.Load(language, length)
			if err != nil {
				s.wsError(conn, "unknown_language_or_length")
				continue
			}
			sess, err = game.New(language, list, "")
			if err != nil {
				s.wsError(conn, "empty_word_list")
				continue
			}
			_ = conn.WriteJSON(wsOutbound{
				Type:       "started",
				GameID:     sess.ID,
				Language:   sess.Language,
				WordLength: sess.WordLength,
				GuessLimit: sess.GuessLimit,
			})

		case "guess":
			if sess == nil {
				s.wsError(conn, "no_active_session")
				continue
			}
			marks, state, err := sess.SubmitGuess(in.Word)
			if err != nil {
				if gerr, ok := err.(*game.Error); ok {
					s.wsError(conn, gerr.Code)
				} else {
					s.wsError(conn, "invalid_guess")
				}
				continue
			}
			out := wsOutbound{
				Type:             "result",
				GameID:           sess.ID,
				Marks:            marks,
				State:            state,
				GuessesRemaining: sess.GuessLimit - len(sess.Guesses),
			}
			if sess.Finished() {
				out.Answer = sess.Answer
				s.recordOutcome(r, sess)
			}
			_ = conn.WriteJSON(out)

		default:
			s.wsError(conn, "unknown_message_type")
		}
	}
}

// wsError writes a recoverable error message; the connection stays open.
func (s *Server) wsError(conn *websocket.Conn, code string) {
	_ = conn.WriteJSON(wsOutbound{Type: "error", Code: code})
}
