// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Mark:    per-letter result of a guess (correct/partial/absent).
//   - State:   coarse session state (playing/won/lost).
//   - Guess:   a scored guess (word + marks).
//   - Session: state for a single in-progress or finished game.

package game

import "sync"

// Mark represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "correct": letter is in the answer at this exact position.
//   - "partial": letter exists in the answer but in a different position.
//   - "absent":  letter does not occur in the remaining answer letters.
type Mark string

const (
	MarkCorrect Mark = "correct"
	MarkPartial      = "partial"
	MarkAbsent       = "absent"
)

// State is the coarse lifecycle state of a session.
// Won and lost are terminal; no further guesses are accepted.
type State string

const (
	StatePlaying State = "playing"
	StateWon           = "won"
	StateLost          = "lost"
)

// Guess is one scored guess: the submitted word and its per-letter marks.
type Guess struct {
	Word  string `json:"word"`
	Marks []Mark `json:"marks"`
}

// Session holds the state of a single game session.
//
// The guess limit is always WordLength+1, so a four-letter game allows
// five guesses and an eight-letter game allows nine.
//
// Sessions are safe for concurrent use: SubmitGuess, Finished and
// Snapshot serialize on an internal mutex, so two simultaneous guesses
// for the same game cannot both slip past the terminal-state check.
type Session struct {
	ID         string  // unique session identifier (UUID)
	Language   string  // word-list language code, e.g. "en"
	Answer     string  // the solution word (always lowercase)
	WordLength int     // letters per word (rune count, 4..8)
	GuessLimit int     // maximum guesses allowed (WordLength + 1)
	Guesses    []Guess // scored guesses made so far, in order
	State      State   // playing, won, or lost

	dict Dictionary // validates guess membership; set by New
	mu   sync.Mutex // guards Guesses and State
}

// Snapshot is the caller-facing view of a session returned by
// Session.Snapshot: current state, history, and remaining attempts.
type Snapshot struct {
	ID               string  `json:"id"`
	Language         string  `json:"language"`
	WordLength       int     `json:"wordLength"`
	GuessLimit       int     `json:"guessLimit"`
	State            State   `json:"state"`
	Guesses          []Guess `json:"guesses"`
	GuessesRemaining int     `json:"guessesRemaining"`
}
