package memory

import (
	"context"
	"testing"

	"arith-recall/internal/domain"
)

func TestLeaderboardStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewLeaderboardStore(NewKV())

	entries, err := store.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read empty: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty leaderboard, got %d", len(entries))
	}

	saved, err := store.WriteAll(ctx, []domain.LeaderboardEntry{
		{Name: "A", Score: 10, TotalTime: 20},
		{Name: "B", Score: 10, TotalTime: 15},
		{Name: "C", Score: 9, TotalTime: 5},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if saved[0].Name != "B" {
		t.Fatalf("expected B first, got %+v", saved)
	}

	entries, err = store.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 3 || entries[0].Name != "B" || entries[1].Name != "A" || entries[2].Name != "C" {
		t.Fatalf("unexpected order %+v", entries)
	}
}

func TestLeaderboardStoreCorruptValue(t *testing.T) {
	kv := NewKV()
	kv.Set(LeaderboardKey, []byte("{not json"))
	if _, err := NewLeaderboardStore(kv).ReadAll(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}
