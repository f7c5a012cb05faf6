// internal/game/score.go
//
// Guess scoring for a single row of the board.
// Implements the standard two-pass algorithm over runes so that
// non-ASCII alphabets (ñ, ü, å, ...) score correctly.

package game

// Score compares guess against answer and returns one Mark per letter.
//
// Pass 1:
//   - Mark exact position matches as correct.
//   - Count the remaining (non-matched) answer letters.
//
// Pass 2:
//   - For each non-correct guess letter: if unconsumed count remains for
//     that letter, mark partial and decrement; otherwise mark absent.
//
// Pass 1 runs to completion before pass 2 starts, so an exact match always
// consumes its answer letter ahead of any partial claim. Each answer letter
// is consumed at most once, which keeps repeated guess letters from being
// over-credited when the answer holds fewer instances.
//
// Precondition: guess and answer have equal rune length. The session
// validates before calling; Score itself does not re-check.
func Score(guess, answer string) []Mark {
	guessRunes := []rune(guess)
	answerRunes := []rune(answer)
	n := len(answerRunes)
	marks := make([]Mark, n)

	// Rune frequency for the non-matched answer positions.
	remaining := make(map[rune]int, n)

	for i := 0; i < n; i++ {
		if guessRunes[i] == answerRunes[i] {
			marks[i] = MarkCorrect
		} else {
			remaining[answerRunes[i]]++
		}
	}

	for i := 0; i < n; i++ {
		if marks[i] == MarkCorrect {
			continue
		}
		if remaining[guessRunes[i]] > 0 {
			marks[i] = MarkPartial
			remaining[guessRunes[i]]--
		} else {
			marks[i] = MarkAbsent
		}
	}
	return marks
}

// allCorrect returns true if every mark is MarkCorrect.
func allCorrect(marks []Mark) bool {
	for _, m := range marks {
		if m != MarkCorrect {
			return false
		}
	}
	return true
}
