package game

import "testing"

// marksEqual is a small helper for comparing mark slices.
func marksEqual(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScoreExactMatch(t *testing.T) {
	marks := Score("abcde", "abcde")
	if len(marks) != 5 {
		t.Fatalf("expected 5 marks, got %d", len(marks))
	}
	for i, m := range marks {
		if m != MarkCorrect {
			t.Fatalf("position %d: expected correct, got %s", i, m)
		}
	}
}

func TestScoreAllPartial(t *testing.T) {
	marks := Score("edcba", "abcde")
	want := []Mark{MarkPartial, MarkPartial, MarkCorrect, MarkPartial, MarkPartial}
	// middle letter "c" is in position; the rest are displaced
	if !marksEqual(marks, want) {
		t.Fatalf("unexpected marks: %v", marks)
	}
}

// TestScoreDuplicateLetters is the duplicate-letter edge case: the answer
// "speed" holds one s and two e's, and no position matches exactly, so
// nothing is consumed in pass 1. Both guess e's find an unconsumed e and
// earn partial; a third e would not.
func TestScoreDuplicateLetters(t *testing.T) {
	marks := Score("erase", "speed")
	want := []Mark{MarkPartial, MarkAbsent, MarkAbsent, MarkPartial, MarkPartial}
	if !marksEqual(marks, want) {
		t.Fatalf("erase vs speed: got %v, want %v", marks, want)
	}

	// With both answer e's consumed by the exact matches, every other
	// guess e scores absent.
	marks = Score("eeeee", "speed")
	want = []Mark{MarkAbsent, MarkAbsent, MarkCorrect, MarkCorrect, MarkAbsent}
	if !marksEqual(marks, want) {
		t.Fatalf("eeeee vs speed: got %v, want %v", marks, want)
	}
}

// TestScoreExactConsumesBeforePartial pins pass ordering: the answer's only
// "e" is taken by the exact match at the last position, so the earlier "e"
// in the guess scores absent, not partial.
func TestScoreExactConsumesBeforePartial(t *testing.T) {
	marks := Score("eerie", "while")
	if marks[0] != MarkAbsent {
		t.Fatalf("leading e should be absent, got %s", marks[0])
	}
	if marks[4] != MarkCorrect {
		t.Fatalf("trailing e should be correct, got %s", marks[4])
	}
}

func TestScoreCreditNeverExceedsAnswerCount(t *testing.T) {
	cases := []struct{ guess, answer string }{
		{"erase", "speed"},
		{"llama", "salad"},
		{"eerie", "tepee"},
		{"aaaaa", "about"},
	}
	for _, tc := range cases {
		marks := Score(tc.guess, tc.answer)
		if len(marks) != len([]rune(tc.answer)) {
			t.Fatalf("%s vs %s: wrong mark count %d", tc.guess, tc.answer, len(marks))
		}
		credit := map[rune]int{}
		for i, r := range []rune(tc.guess) {
			switch marks[i] {
			case MarkCorrect, MarkPartial:
				credit[r]++
			case MarkAbsent:
			default:
				t.Fatalf("%s vs %s: invalid mark %q", tc.guess, tc.answer, marks[i])
			}
		}
		have := map[rune]int{}
		for _, r := range []rune(tc.answer) {
			have[r]++
		}
		for r, n := range credit {
			if n > have[r] {
				t.Fatalf("%s vs %s: letter %c credited %d times, answer has %d",
					tc.guess, tc.answer, r, n, have[r])
			}
		}
	}
}

// Non-ASCII alphabets must score by rune, not byte.
func TestScoreUnicode(t *testing.T) {
	marks := Score("señal", "señal")
	if len(marks) != 5 {
		t.Fatalf("expected 5 marks for señal, got %d", len(marks))
	}
	for i, m := range marks {
		if m != MarkCorrect {
			t.Fatalf("position %d: expected correct, got %s", i, m)
		}
	}

	marks = Score("ñandu", "señal")
	if marks[0] != MarkPartial {
		t.Fatalf("displaced ñ should be partial, got %s", marks[0])
	}
	if marks[1] != MarkPartial {
		t.Fatalf("displaced a should be partial, got %s", marks[1])
	}
}
