package postgres

import (
	"context"
	"fmt"

	"arith-recall/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// LeaderboardStore keeps leaderboard rows in the leaderboard_entries table.
type LeaderboardStore struct {
	pool *pgxpool.Pool
}

func NewLeaderboardStore(pool *pgxpool.Pool) *LeaderboardStore {
	return &LeaderboardStore{pool: pool}
}

func (s *LeaderboardStore) ReadAll(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name, score, total_time, created_at
		FROM leaderboard_entries
		ORDER BY score DESC, total_time ASC, id ASC
		LIMIT $1`, domain.MaxLeaderboardEntries)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0)
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.Name, &e.Score, &e.TotalTime, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return entries, nil
}

// WriteAll replaces the table contents with the ranked list in one transaction.
// Rows are inserted in rank order so the serial id keeps ties stable.
func (s *LeaderboardStore) WriteAll(ctx context.Context, entries []domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	ranked := domain.RankLeaderboard(entries)
	err := s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM leaderboard_entries`); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		for _, e := range ranked {
			batch.Queue(`INSERT INTO leaderboard_entries (name, score, total_time, created_at) VALUES ($1, $2, $3, $4)`,
				e.Name, e.Score, e.TotalTime, e.CreatedAt)
		}
		results := tx.SendBatch(ctx, batch)
		for range ranked {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return err
			}
		}
		return results.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("write leaderboard: %w", err)
	}
	return ranked, nil
}
