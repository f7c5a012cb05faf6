// internal/stats/stats.go
//
// Win/loss statistics per (language, word length) configuration.
//
// The aggregator keeps purely additive counters: total wins, total defeats,
// and a histogram of how many guesses winning sessions needed ("after").
// The histogram counts the winning guess itself, so a first-try win lands
// in after[1]. Invariant: the sum over after equals wins.
//
// Persistence goes through the Store interface; implementations exist for
// memory (tests, ephemeral servers) and SQLite.

package stats

import (
	"context"
	"strconv"
)

// Stats holds the counters for one configuration key.
type Stats struct {
	Wins    int         `json:"wins"`
	Defeats int         `json:"defeats"`
	After   map[int]int `json:"after"` // guesses-used-at-win → win tally
}

// NewStats returns an empty, usable Stats value.
func NewStats() *Stats {
	return &Stats{After: make(map[int]int)}
}

// Clone returns an independent copy of s.
func (s *Stats) Clone() *Stats {
	out := &Stats{
		Wins:    s.Wins,
		Defeats: s.Defeats,
		After:   make(map[int]int, len(s.After)),
	}
	for k, v := range s.After {
		out.After[k] = v
	}
	return out
}

// Played is the total number of terminal sessions recorded.
func (s *Stats) Played() int { return s.Wins + s.Defeats }

// Store is the persisted key-value capability the aggregator writes through.
// Load returns (nil, nil) when nothing is stored under key yet.
type Store interface {
	Load(ctx context.Context, key string) (*Stats, error)
	Save(ctx context.Context, key string, s *Stats) error
}

// Key derives the storage key for a (language, length) configuration.
func Key(language string, length int) string {
	return language + ":" + strconv.Itoa(length)
}

// Aggregator records terminal session outcomes into a Store.
type Aggregator struct {
	store Store
}

// NewAggregator constructs an Aggregator over store.
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// Get loads the stats for a configuration, returning zeroed counters when
// nothing has been recorded yet.
func (a *Aggregator) Get(ctx context.Context, language string, length int) (*Stats, error) {
	s, err := a.store.Load(ctx, Key(language, length))
	if err != nil {
		return nil, err
	}
	if s == nil {
		return NewStats(), nil
	}
	return s, nil
}

// RecordWin increments the win counters for a session won in guessesUsed
// guesses and persists the result.
func (a *Aggregator) RecordWin(ctx context.Context, language string, length, guessesUsed int) (*Stats, error) {
	s, err := a.Get(ctx, language, length)
	if err != nil {
		return nil, err
	}
	s.Wins++
	s.After[guessesUsed]++
	if err := a.store.Save(ctx, Key(language, length), s); err != nil {
		return nil, err
	}
	return s, nil
}

// RecordDefeat increments the defeat counter and persists the result.
func (a *Aggregator) RecordDefeat(ctx context.Context, language string, length int) (*Stats, error) {
	s, err := a.Get(ctx, language, length)
	if err != nil {
		return nil, err
	}
	s.Defeats++
	if err := a.store.Save(ctx, Key(language, length), s); err != nil {
		return nil, err
	}
	return s, nil
}
