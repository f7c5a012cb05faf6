// internal/stats/sqlite.go
//
// SQLite-backed implementation of the stats Store interface.
// Rows live in the stats table (see sql/001_init.sql); one row per
// configuration key, with the after-histogram serialized as JSON.

package stats

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore constructs a Store over an open database handle.
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

// Load reads the row for key, or (nil, nil) if absent.
func (s *sqliteStore) Load(ctx context.Context, key string) (*Stats, error) {
	var wins, defeats int
	var afterJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT wins, defeats, after FROM stats WHERE cfg_key=?`, key,
	).Scan(&wins, &defeats, &afterJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stats: load %s: %w", key, err)
	}
	out := &Stats{Wins: wins, Defeats: defeats, After: make(map[int]int)}
	if afterJSON != "" {
		if err := json.Unmarshal([]byte(afterJSON), &out.After); err != nil {
			return nil, fmt.Errorf("stats: decode %s: %w", key, err)
		}
	}
	return out, nil
}

// Save upserts the row for key.
func (s *sqliteStore) Save(ctx context.Context, key string, st *Stats) error {
	afterJSON, err := json.Marshal(st.After)
	if err != nil {
		return fmt.Errorf("stats: encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO stats (cfg_key, wins, defeats, after)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(cfg_key) DO UPDATE SET wins=excluded.wins,
            defeats=excluded.defeats, after=excluded.after`,
		key, st.Wins, st.Defeats, string(afterJSON),
	)
	if err != nil {
		return fmt.Errorf("stats: save %s: %w", key, err)
	}
	return nil
}
