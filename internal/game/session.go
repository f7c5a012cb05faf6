// internal/game/session.go
//
// Session lifecycle for a single game.
// Responsibilities:
//   - Create new sessions with a target drawn from the word list.
//   - Validate and apply guesses (length, dictionary membership).
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Word lists are provided through the Dictionary interface so callers
//     can plug in the words package or a fixture list in tests.
//   - Every rejection returns a sentinel error and leaves the session
//     unchanged; callers may retry.

package game

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Rejection sentinels. All are recoverable: the session is untouched and
// the caller may submit again (or, for ErrSessionOver, start a new session).
var (
	ErrEmptyWordList = NewError("empty_word_list", "word list has no candidate words")
	ErrInvalidLength = NewError("invalid_length", "guess length does not match the word length")
	ErrNotInWordList = NewError("not_in_word_list", "guess is not a recognized word")
	ErrSessionOver   = NewError("session_over", "session already finished")
)

// Error is a rejection with a stable machine-readable code.
type Error struct {
	Code string
	msg  string
}

// NewError constructs a session Error.
func NewError(code, msg string) *Error { return &Error{Code: code, msg: msg} }

func (e *Error) Error() string { return e.msg }

// Dictionary is the word-list collaborator a session draws its answer from
// and validates guesses against. Implemented by words.List.
type Dictionary interface {
	// Length is the rune length of every word in the list.
	Length() int
	// Len is the number of candidate words.
	Len() int
	// Contains reports whether w (lowercase) is in the list.
	Contains(w string) bool
	// Random returns a uniformly random word from the list.
	Random() string
}

// New constructs a session for the given language and dictionary.
// If withAnswer is non-empty it is used as the answer (testing hook);
// otherwise the answer is drawn uniformly at random from dict.
// Returns ErrEmptyWordList if dict has no words, and ErrInvalidLength if
// withAnswer does not match the dictionary's word length — every answer
// must satisfy the same length invariant guesses are checked against.
func New(language string, dict Dictionary, withAnswer string) (*Session, error) {
	if dict.Len() == 0 {
		return nil, ErrEmptyWordList
	}
	length := dict.Length()
	ans := strings.ToLower(strings.TrimSpace(withAnswer))
	if ans == "" {
		ans = dict.Random()
	} else if utf8.RuneCountInString(ans) != length {
		return nil, ErrInvalidLength
	}
	return &Session{
		ID:         uuid.NewString(),
		Language:   language,
		Answer:     ans,
		WordLength: length,
		GuessLimit: length + 1,
		Guesses:    []Guess{},
		State:      StatePlaying,
		dict:       dict,
	}, nil
}

// SubmitGuess validates and scores a guess, mutating the session state.
// Returns the per-letter marks and the resulting state.
//
// Validation rules, in order:
//   - Session must still be playing (ErrSessionOver).
//   - Guess must be exactly WordLength runes (ErrInvalidLength).
//   - Guess must be in the dictionary (ErrNotInWordList).
//
// State transitions:
//   - All marks correct → won.
//   - Guess count reaches GuessLimit without a win → lost.
//   - Otherwise the session stays playing.
func (s *Session) SubmitGuess(word string) ([]Mark, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State != StatePlaying {
		return nil, s.State, ErrSessionOver
	}
	word = strings.ToLower(strings.TrimSpace(word))
	if utf8.RuneCountInString(word) != s.WordLength {
		return nil, s.State, ErrInvalidLength
	}
	if !s.dict.Contains(word) {
		return nil, s.State, ErrNotInWordList
	}

	marks := Score(word, s.Answer)
	s.Guesses = append(s.Guesses, Guess{Word: word, Marks: marks})

	if allCorrect(marks) {
		s.State = StateWon
	} else if len(s.Guesses) >= s.GuessLimit {
		s.State = StateLost
	}
	return marks, s.State, nil
}

// Finished reports whether the session reached a terminal state.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.State != StatePlaying
}

// Snapshot returns the caller-facing view of the session. The guess
// history is copied so the snapshot stays stable if more guesses land.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	guesses := make([]Guess, len(s.Guesses))
	copy(guesses, s.Guesses)
	return Snapshot{
		ID:               s.ID,
		Language:         s.Language,
		WordLength:       s.WordLength,
		GuessLimit:       s.GuessLimit,
		State:            s.State,
		Guesses:          guesses,
		GuessesRemaining: s.GuessLimit - len(s.Guesses),
	}
}
