package memory

import (
	"sync"

	"arith-recall/internal/app"
)

type liveGame struct {
	engine *app.Engine
	refs   int
}

// GameStore is an in-memory implementation of app.GameRepository.
type GameStore struct {
	newGame func(gameID string) *app.Engine

	mu    sync.RWMutex
	games map[string]*liveGame
}

func NewGameStore(newGame func(gameID string) *app.Engine) *GameStore {
	return &GameStore{
		newGame: newGame,
		games:   make(map[string]*liveGame),
	}
}

func (s *GameStore) Acquire(gameID string) *app.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[gameID]
	if !ok {
		g = &liveGame{engine: s.newGame(gameID)}
		s.games[gameID] = g
	}
	g.refs++
	return g.engine
}

func (s *GameStore) Get(gameID string) (*app.Engine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[gameID]
	if !ok {
		return nil, false
	}
	return g.engine, true
}

// Release drops one holder; the last one closes the engine, stopping its clock.
func (s *GameStore) Release(gameID string) {
	s.mu.Lock()
	g, ok := s.games[gameID]
	if !ok {
		s.mu.Unlock()
		return
	}
	g.refs--
	if g.refs > 0 {
		s.mu.Unlock()
		return
	}
	delete(s.games, gameID)
	s.mu.Unlock()
	g.engine.Close()
}

// Len reports how many games are live.
func (s *GameStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
