package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"arith-recall/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultLeaderboardKey holds the whole ranked list as one JSON string.
const DefaultLeaderboardKey = "quiz:leaderboard"

// LeaderboardStore keeps the leaderboard under a single Redis key.
type LeaderboardStore struct {
	client *redis.Client
	key    string
}

func NewLeaderboardStore(client *redis.Client, key string) *LeaderboardStore {
	if key == "" {
		key = DefaultLeaderboardKey
	}
	return &LeaderboardStore{client: client, key: key}
}

func (s *LeaderboardStore) ReadAll(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.LeaderboardEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return domain.RankLeaderboard(entries), nil
}

func (s *LeaderboardStore) WriteAll(ctx context.Context, entries []domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	ranked := domain.RankLeaderboard(entries)
	raw, err := json.Marshal(ranked)
	if err != nil {
		return nil, fmt.Errorf("encode leaderboard: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return nil, fmt.Errorf("set leaderboard: %w", err)
	}
	return ranked, nil
}
