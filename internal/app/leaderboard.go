package app

import (
	"context"
	"time"

	"arith-recall/internal/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// LeaderboardStore persists a whole leaderboard. Implementations return entries
// ranked by domain.RankLeaderboard.
type LeaderboardStore interface {
	ReadAll(ctx context.Context) ([]domain.LeaderboardEntry, error)
	WriteAll(ctx context.Context, entries []domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error)
}

// Leaderboard is the best-effort facade over a LeaderboardStore.
type Leaderboard struct {
	store   LeaderboardStore
	timeout time.Duration
	now     func() time.Time
	sf      singleflight.Group
	log     *logrus.Entry
}

func NewLeaderboard(store LeaderboardStore, timeout time.Duration) *Leaderboard {
	return &Leaderboard{
		store:   store,
		timeout: timeout,
		now:     time.Now,
		log:     logrus.WithField("component", "leaderboard"),
	}
}

// ReadAll returns the ranked leaderboard; storage failures degrade to an empty list.
func (l *Leaderboard) ReadAll(ctx context.Context) []domain.LeaderboardEntry {
	result, err, _ := l.sf.Do("leaderboard", func() (interface{}, error) {
		ctx, cancel := l.withTimeout(ctx)
		defer cancel()
		return l.store.ReadAll(ctx)
	})
	if err != nil {
		l.log.Warnf("read leaderboard: %v", err)
		return []domain.LeaderboardEntry{}
	}
	return domain.RankLeaderboard(result.([]domain.LeaderboardEntry))
}

// Add appends an entry and persists the re-ranked list. The name is truncated and
// CreatedAt is stamped when unset. Only ErrInvalidEntry is returned; storage failures
// are logged and degrade to an empty list (failed read, nothing written) or to the
// unsaved ranked list (failed write).
func (l *Leaderboard) Add(ctx context.Context, entry domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	if entry.Name == "" || entry.Score < 0 || entry.TotalTime < 0 {
		return nil, domain.ErrInvalidEntry
	}
	entry.Name = domain.TruncateName(entry.Name)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = l.now().UTC()
	}

	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	// A failed read must not overwrite the stored list with a single entry.
	current, err := l.store.ReadAll(ctx)
	if err != nil {
		l.log.Warnf("read leaderboard before add: %v", err)
		return []domain.LeaderboardEntry{}, nil
	}
	ranked := domain.RankLeaderboard(append(current, entry))

	saved, err := l.store.WriteAll(ctx, ranked)
	if err != nil {
		l.log.Warnf("write leaderboard: %v", err)
		return ranked, nil
	}
	return domain.RankLeaderboard(saved), nil
}

func (l *Leaderboard) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.timeout)
}
