// internal/words/words.go
//
// Word list management for the game engine.
//
// Responsibilities:
//   - Load per-language, per-length word lists from an on-disk directory
//     (WORDS_DIR) or fall back to the embedded defaults in assets/.
//   - Maintain one List per (language, length) with a lookup set and a
//     uniform random picker.
//   - Supply catalog queries: Languages, Lengths, Load, Counts.
//
// File layout (what the importer writes):
//   <language>/length4.json .. <language>/length8.json
//   each file a JSON array of words.
//
// Load-time filtering:
//   • Words are trimmed and lowercased.
//   • Words whose rune count does not match the file's length are dropped.
//   • Words with too few distinct letters are dropped (unique letters must
//     exceed length/2), matching the importer.
//
// Environment variables:
//   WORDS_DIR=/path/to/lists   (one subdirectory per language)
//
// Initialization runs once (sync.Once).

package words

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/motle/server/assets"
)

// Supported word lengths, matching the importer's output range.
const (
	MinLength = 4
	MaxLength = 8
)

var (
	initOnce   sync.Once
	catalog    map[string]map[int]*List // language → length → list
	initialErr error
)

// List is the set of valid words for one (language, length) configuration.
// It implements game.Dictionary.
type List struct {
	language string
	length   int
	words    []string
	set      map[string]struct{}
}

// Language returns the list's language code.
func (l *List) Language() string { return l.language }

// Length is the rune length of every word in the list.
func (l *List) Length() int { return l.length }

// Len is the number of candidate words.
func (l *List) Len() int { return len(l.words) }

// Words returns the underlying word slice. Callers must not mutate it.
func (l *List) Words() []string { return l.words }

// Contains reports whether w is a valid word in this list.
func (l *List) Contains(w string) bool {
	_, ok := l.set[strings.ToLower(w)]
	return ok
}

// Random returns a cryptographically random word from the list.
// Falls back to the first word if the random source misbehaves.
func (l *List) Random() string {
	if len(l.words) == 0 {
		return ""
	}
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(l.words))))
	if err != nil {
		return l.words[0]
	}
	return l.words[nBig.Int64()]
}

// At returns the word at index i (used by the daily mode's deterministic
// word selection).
func (l *List) At(i int) string { return l.words[i] }

// Init loads the word catalog exactly once.
// Returns an error if no list could be loaded at all.
func Init() error {
	initOnce.Do(func() {
		var fsys fs.FS = assets.FS
		if dir := os.Getenv("WORDS_DIR"); dir != "" {
			fsys = os.DirFS(dir)
		}
		catalog, initialErr = loadCatalog(fsys)
	})
	return initialErr
}

// loadCatalog walks fsys expecting <language>/length<N>.json entries.
func loadCatalog(fsys fs.FS) (map[string]map[int]*List, error) {
	out := make(map[string]map[int]*List)

	langs, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("words: read root: %w", err)
	}
	for _, entry := range langs {
		if !entry.IsDir() {
			continue
		}
		lang := entry.Name()
		for n := MinLength; n <= MaxLength; n++ {
			name := lang + "/length" + strconv.Itoa(n) + ".json"
			raw, err := fs.ReadFile(fsys, name)
			if err != nil {
				continue // not every language carries every length
			}
			list, err := parseList(lang, n, raw)
			if err != nil {
				return nil, fmt.Errorf("words: %s: %w", name, err)
			}
			if list.Len() == 0 {
				continue
			}
			if out[lang] == nil {
				out[lang] = make(map[int]*List)
			}
			out[lang][n] = list
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("words: no word lists found")
	}
	return out, nil
}

// parseList decodes a JSON word array and applies the load-time filters.
func parseList(language string, length int, raw []byte) (*List, error) {
	var in []string
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}
	l := &List{
		language: language,
		length:   length,
		set:      make(map[string]struct{}, len(in)),
	}
	for _, w := range in {
		w = strings.ToLower(strings.TrimSpace(w))
		runes := []rune(w)
		if len(runes) != length {
			continue
		}
		if distinct(runes) <= length/2 {
			continue
		}
		if _, dup := l.set[w]; dup {
			continue
		}
		l.set[w] = struct{}{}
		l.words = append(l.words, w)
	}
	return l, nil
}

// distinct counts unique runes in rs.
func distinct(rs []rune) int {
	seen := make(map[rune]struct{}, len(rs))
	for _, r := range rs {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// Load returns the list for (language, length), or an error naming the
// missing configuration.
func Load(language string, length int) (*List, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	if lists, ok := catalog[language]; ok {
		if l, ok := lists[length]; ok {
			return l, nil
		}
	}
	return nil, fmt.Errorf("words: no list for language %q length %d", language, length)
}

// Languages returns the loaded language codes, sorted.
func Languages() []string {
	if err := Init(); err != nil {
		return nil
	}
	out := make([]string, 0, len(catalog))
	for lang := range catalog {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Lengths returns the word lengths available for a language, sorted.
func Lengths(language string) []int {
	if err := Init(); err != nil {
		return nil
	}
	lists := catalog[language]
	out := make([]int, 0, len(lists))
	for n := range lists {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Counts returns totals across the catalog: (languages, lists, words).
func Counts() (languages, lists, words int) {
	if err := Init(); err != nil {
		return 0, 0, 0
	}
	languages = len(catalog)
	for _, byLen := range catalog {
		lists += len(byLen)
		for _, l := range byLen {
			words += l.Len()
		}
	}
	return languages, lists, words
}
