package daily_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/motle/server/internal/daily"
)

// openTestDB opens an in-memory database carrying the daily_results schema
// from sql/001_init.sql.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// every :memory: connection is a distinct database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE daily_results (
		user_id    TEXT NOT NULL,
		date       TEXT NOT NULL,
		language   TEXT NOT NULL,
		length     INTEGER NOT NULL,
		word_index INTEGER NOT NULL,
		won        INTEGER NOT NULL DEFAULT 1,
		guesses    INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		UNIQUE(user_id, date, language, length)
	)`)
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

// A loss must mark the configuration as played for the day; otherwise the
// player could restart against an answer they have already seen.
func TestLossBlocksReplay(t *testing.T) {
	ctx := context.Background()
	st := daily.NewStore(openTestDB(t))

	err := st.InsertResult(ctx, daily.Result{
		UserID: "u1", Date: "2024-03-02", Language: "en", Length: 5,
		WordIndex: 7, Won: false, Guesses: 6, ElapsedMs: 90000,
	})
	if err != nil {
		t.Fatalf("InsertResult: %v", err)
	}

	played, err := st.AlreadyPlayed(ctx, "u1", "2024-03-02", "en", 5)
	if err != nil {
		t.Fatalf("AlreadyPlayed: %v", err)
	}
	if !played {
		t.Fatal("a recorded loss must count as played")
	}

	// Other configurations and days stay open.
	if played, _ := st.AlreadyPlayed(ctx, "u1", "2024-03-02", "en", 6); played {
		t.Fatal("other length should not be blocked")
	}
	if played, _ := st.AlreadyPlayed(ctx, "u1", "2024-03-03", "en", 5); played {
		t.Fatal("other day should not be blocked")
	}
}

func TestLeaderboardExcludesLossesAndOrders(t *testing.T) {
	ctx := context.Background()
	st := daily.NewStore(openTestDB(t))

	rows := []daily.Result{
		{UserID: "slow", Date: "2024-03-02", Language: "en", Length: 5, WordIndex: 7, Won: true, Guesses: 3, ElapsedMs: 60000},
		{UserID: "fast", Date: "2024-03-02", Language: "en", Length: 5, WordIndex: 7, Won: true, Guesses: 5, ElapsedMs: 20000},
		{UserID: "loser", Date: "2024-03-02", Language: "en", Length: 5, WordIndex: 7, Won: false, Guesses: 6, ElapsedMs: 10000},
	}
	for _, r := range rows {
		if err := st.InsertResult(ctx, r); err != nil {
			t.Fatalf("InsertResult %s: %v", r.UserID, err)
		}
	}

	lb, err := st.Leaderboard(ctx, "2024-03-02", "en", 5, 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(lb) != 2 {
		t.Fatalf("expected 2 ranked rows, got %d", len(lb))
	}
	if lb[0].UserID != "fast" || lb[1].UserID != "slow" {
		t.Fatalf("unexpected order: %+v", lb)
	}
}

func TestInsertResultIgnoresDuplicates(t *testing.T) {
	ctx := context.Background()
	st := daily.NewStore(openTestDB(t))

	r := daily.Result{
		UserID: "u1", Date: "2024-03-02", Language: "en", Length: 5,
		WordIndex: 7, Won: true, Guesses: 2, ElapsedMs: 15000,
	}
	if err := st.InsertResult(ctx, r); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	r.Guesses = 6
	if err := st.InsertResult(ctx, r); err != nil {
		t.Fatalf("duplicate insert should be ignored, got %v", err)
	}

	lb, err := st.Leaderboard(ctx, "2024-03-02", "en", 5, 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(lb) != 1 || lb[0].Guesses != 2 {
		t.Fatalf("duplicate overwrote the original row: %+v", lb)
	}
}
