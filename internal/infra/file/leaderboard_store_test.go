package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"arith-recall/internal/domain"
)

func TestLeaderboardStoreMissingFileIsEmpty(t *testing.T) {
	store := NewLeaderboardStore(filepath.Join(t.TempDir(), "nested", "leaderboard.json"))
	entries, err := store.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty leaderboard, got %d entries", len(entries))
	}
}

func TestLeaderboardStoreWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "leaderboard.json")
	store := NewLeaderboardStore(path)
	ctx := context.Background()
	created := time.Date(2024, 11, 22, 9, 30, 0, 0, time.UTC)

	_, err := store.WriteAll(ctx, []domain.LeaderboardEntry{
		{Name: "A", Score: 10, TotalTime: 20, CreatedAt: created},
		{Name: "B", Score: 10, TotalTime: 15, CreatedAt: created},
		{Name: "C", Score: 9, TotalTime: 5, CreatedAt: created},
	})
	if err != nil {
		t.Fatalf("WriteAll() failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("leaderboard file was not created: %v", err)
	}

	// a fresh store reads what the previous one wrote
	entries, err := NewLeaderboardStore(path).ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	if len(entries) != 3 || entries[0].Name != "B" || entries[1].Name != "A" || entries[2].Name != "C" {
		t.Fatalf("unexpected order %+v", entries)
	}
	if !entries[0].CreatedAt.Equal(created) {
		t.Fatalf("expected createdAt %v, got %v", created, entries[0].CreatedAt)
	}

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".leaderboard-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("temporary files left behind: %v", leftovers)
	}
}

func TestLeaderboardStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.json")
	if err := os.WriteFile(path, []byte("[{"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	if _, err := NewLeaderboardStore(path).ReadAll(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}
