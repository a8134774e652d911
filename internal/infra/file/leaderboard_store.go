// Package file persists the leaderboard as a JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"arith-recall/internal/domain"
)

// LeaderboardStore reads and rewrites a single JSON file. Writes go through a
// temporary file and rename so readers never see a partial document.
type LeaderboardStore struct {
	path string
	mu   sync.Mutex
}

func NewLeaderboardStore(path string) *LeaderboardStore {
	return &LeaderboardStore{path: path}
}

func (s *LeaderboardStore) ReadAll(_ context.Context) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *LeaderboardStore) WriteAll(_ context.Context, entries []domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ranked := domain.RankLeaderboard(entries)
	data, err := json.MarshalIndent(ranked, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("file: encode leaderboard: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("file: create directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".leaderboard-*.json")
	if err != nil {
		return nil, fmt.Errorf("file: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("file: write leaderboard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("file: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return nil, fmt.Errorf("file: replace leaderboard: %w", err)
	}
	return ranked, nil
}

func (s *LeaderboardStore) readLocked() ([]domain.LeaderboardEntry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.LeaderboardEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file: read leaderboard: %w", err)
	}
	if len(data) == 0 {
		return []domain.LeaderboardEntry{}, nil
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("file: decode leaderboard: %w", err)
	}
	return domain.RankLeaderboard(entries), nil
}
