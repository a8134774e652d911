package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"arith-recall/internal/domain"
)

// LeaderboardKey is the key the leaderboard list is stored under.
const LeaderboardKey = "leaderboard"

// KV is a process-local key/value store holding serialized values.
type KV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewKV() *KV {
	return &KV{data: make(map[string][]byte)}
}

func (kv *KV) Get(key string) ([]byte, bool) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.data[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

func (kv *KV) Set(key string, value []byte) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	kv.data[key] = stored
}

// LeaderboardStore keeps the leaderboard as one JSON value in a KV.
type LeaderboardStore struct {
	kv *KV
}

func NewLeaderboardStore(kv *KV) *LeaderboardStore {
	return &LeaderboardStore{kv: kv}
}

func (s *LeaderboardStore) ReadAll(_ context.Context) ([]domain.LeaderboardEntry, error) {
	raw, ok := s.kv.Get(LeaderboardKey)
	if !ok {
		return []domain.LeaderboardEntry{}, nil
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return domain.RankLeaderboard(entries), nil
}

func (s *LeaderboardStore) WriteAll(_ context.Context, entries []domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	ranked := domain.RankLeaderboard(entries)
	raw, err := json.Marshal(ranked)
	if err != nil {
		return nil, fmt.Errorf("encode leaderboard: %w", err)
	}
	s.kv.Set(LeaderboardKey, raw)
	return ranked, nil
}
