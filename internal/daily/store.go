// internal/daily/store.go
//
// SQLite persistence for daily challenge results and the per-day
// leaderboard. One result per user per (date, language, length),
// enforced by a UNIQUE constraint (see sql/001_init.sql).

package daily

import (
	"context"
	"database/sql"
)

// Result is a single user's finished daily attempt. Losses are recorded
// too: any row, won or not, marks the configuration as played for the day.
type Result struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	Language  string `json:"language"`
	Length    int    `json:"length"`
	WordIndex int    `json:"wordIndex"`
	Won       bool   `json:"won"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Store wraps the daily_results table.
type Store struct{ db *sql.DB }

// NewStore constructs a Store over an open database handle.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether the user recorded a result for the
// given date and configuration.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date, language string, length int) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results
		 WHERE user_id=? AND date=? AND language=? AND length=?`,
		userID, date, language, length,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records a result. Duplicate (user, date, configuration)
// rows are ignored rather than erroring.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results
		     (user_id, date, language, length, word_index, won, guesses, elapsed_ms)
		 VALUES (?,?,?,?,?,?,?,?)`,
		r.UserID, r.Date, r.Language, r.Length, r.WordIndex, r.Won, r.Guesses, r.ElapsedMs,
	)
	return err
}

// LBRow is one leaderboard entry.
type LBRow struct {
	UserID    string `json:"userId"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Leaderboard fetches the fastest winning results for a date and
// configuration, ordered by elapsed time, then guesses, then insertion
// order. Losses count as played but never rank.
func (s *Store) Leaderboard(ctx context.Context, date, language string, length, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, guesses, elapsed_ms
		 FROM daily_results
		 WHERE date=? AND language=? AND length=? AND won=1
		 ORDER BY elapsed_ms ASC, guesses ASC, created_at ASC
		 LIMIT ?`, date, language, length, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LBRow
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Guesses, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
