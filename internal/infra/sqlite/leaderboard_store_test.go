package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"arith-recall/internal/app"
	"arith-recall/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *LeaderboardStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "leaderboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLeaderboardStoreEmpty(t *testing.T) {
	store := openStore(t)
	entries, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLeaderboardStoreRanksAndPersists(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	board := app.NewLeaderboard(store, time.Second)

	for _, e := range []domain.LeaderboardEntry{
		{Name: "A", Score: 20, TotalTime: 100},
		{Name: "B", Score: 25, TotalTime: 120},
		{Name: "C", Score: 20, TotalTime: 90},
	} {
		_, err := board.Add(ctx, e)
		require.NoError(t, err)
	}

	entries, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"B", "C", "A"}, []string{entries[0].Name, entries[1].Name, entries[2].Name})
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestLeaderboardStoreKeepsTopEntries(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	created := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)

	entries := make([]domain.LeaderboardEntry, 0, 120)
	for i := 0; i < 120; i++ {
		entries = append(entries, domain.LeaderboardEntry{Name: "p", Score: i % 31, TotalTime: float64(i), CreatedAt: created})
	}
	saved, err := store.WriteAll(ctx, entries)
	require.NoError(t, err)
	assert.Len(t, saved, domain.MaxLeaderboardEntries)

	read, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, read)
}
