// Package sqlite persists the leaderboard in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"arith-recall/internal/domain"
	"github.com/Masterminds/squirrel"

	_ "modernc.org/sqlite" // SQLite driver.
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// LeaderboardStore keeps ranked rows in the leaderboard_entries table.
type LeaderboardStore struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*LeaderboardStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	store := &LeaderboardStore{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *LeaderboardStore) Close() error {
	return s.db.Close()
}

func (s *LeaderboardStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS leaderboard_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			total_time REAL NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_leaderboard_rank ON leaderboard_entries(score DESC, total_time ASC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("sqlite: migrate: %w", err)
		}
	}
	return nil
}

func (s *LeaderboardStore) ReadAll(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	query, args, err := sqlBuilder.
		Select("name", "score", "total_time", "created_at").
		From("leaderboard_entries").
		OrderBy("score DESC", "total_time ASC", "id ASC").
		Limit(domain.MaxLeaderboardEntries).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0)
	for rows.Next() {
		var (
			e       domain.LeaderboardEntry
			created string
		)
		if err := rows.Scan(&e.Name, &e.Score, &e.TotalTime, &created); err != nil {
			return nil, fmt.Errorf("sqlite: scan leaderboard: %w", err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("sqlite: parse created_at %q: %w", created, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// WriteAll replaces the stored rows with the ranked list inside one transaction.
func (s *LeaderboardStore) WriteAll(ctx context.Context, entries []domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	ranked := domain.RankLeaderboard(entries)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM leaderboard_entries`); err != nil {
		return nil, fmt.Errorf("sqlite: clear leaderboard: %w", err)
	}
	if len(ranked) > 0 {
		insert := sqlBuilder.Insert("leaderboard_entries").Columns("name", "score", "total_time", "created_at")
		for _, e := range ranked {
			insert = insert.Values(e.Name, e.Score, e.TotalTime, e.CreatedAt.UTC().Format(time.RFC3339Nano))
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("sqlite: insert leaderboard: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit: %w", err)
	}
	return ranked, nil
}
