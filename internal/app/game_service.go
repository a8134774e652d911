package app

import (
	"context"
	"time"

	"arith-recall/internal/domain"
)

// GameRepository abstracts where live engines are kept (in-memory, Redis-marked, etc).
// Engines are shared by every connection that joined the same game id.
type GameRepository interface {
	// Acquire returns the engine for gameID, creating it if needed, and counts one more holder.
	Acquire(gameID string) *Engine
	Get(gameID string) (*Engine, bool)
	// Release drops one holder. The last release closes the engine and forgets it.
	Release(gameID string)
}

// GameService contains the game use cases exposed to transports.
type GameService struct {
	games       GameRepository
	leaderboard *Leaderboard
}

func NewGameService(games GameRepository, leaderboard *Leaderboard) *GameService {
	return &GameService{games: games, leaderboard: leaderboard}
}

// EngineFactory returns a constructor suitable for GameRepository implementations.
func EngineFactory(generator *Generator, timing Timing) func(gameID string) *Engine {
	return func(gameID string) *Engine {
		return NewEngine(gameID, generator, timing)
	}
}

// Join returns the engine for gameID, creating an idle one if needed. Every Join
// must be paired with a Leave.
func (s *GameService) Join(_ context.Context, gameID string) *Engine {
	return s.games.Acquire(gameID)
}

func (s *GameService) Start(_ context.Context, gameID string) (Snapshot, error) {
	engine, ok := s.games.Get(gameID)
	if !ok {
		return Snapshot{}, domain.ErrGameNotFound
	}
	return engine.Start()
}

func (s *GameService) Reset(_ context.Context, gameID string) (Snapshot, error) {
	engine, ok := s.games.Get(gameID)
	if !ok {
		return Snapshot{}, domain.ErrGameNotFound
	}
	return engine.Reset(), nil
}

func (s *GameService) SubmitAnswer(_ context.Context, gameID string, problemID int, raw string) (Ack, error) {
	engine, ok := s.games.Get(gameID)
	if !ok {
		return Ack{}, domain.ErrGameNotFound
	}
	return engine.Submit(problemID, raw)
}

// SaveScore stores the finished game's result under name and returns the new leaderboard.
func (s *GameService) SaveScore(ctx context.Context, gameID, name string) ([]domain.LeaderboardEntry, error) {
	engine, ok := s.games.Get(gameID)
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	report, err := engine.Report()
	if err != nil {
		return nil, err
	}
	return s.leaderboard.Add(ctx, domain.LeaderboardEntry{
		Name:      name,
		Score:     report.Score,
		TotalTime: (time.Duration(report.TotalTimeMs) * time.Millisecond).Seconds(),
	})
}

func (s *GameService) Leaderboard(ctx context.Context) []domain.LeaderboardEntry {
	return s.leaderboard.ReadAll(ctx)
}

// AddEntry records an externally submitted result; createdAt is always stamped here.
func (s *GameService) AddEntry(ctx context.Context, entry domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	entry.CreatedAt = time.Time{}
	return s.leaderboard.Add(ctx, entry)
}

// Leave detaches one participant. When the last one leaves the engine clock is
// cancelled before the session is dropped.
func (s *GameService) Leave(_ context.Context, gameID string) {
	s.games.Release(gameID)
}
