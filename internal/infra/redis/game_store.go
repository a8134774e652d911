package redis

import (
	"context"
	"sync"
	"time"

	"arith-recall/internal/app"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// GameKeyPrefix prefixes the per-game liveness keys.
const GameKeyPrefix = "quiz:game:"

type liveGame struct {
	engine *app.Engine
	refs   int
}

// GameStore is a Redis-aware implementation of app.GameRepository.
// Engines run in-process; Redis only carries a liveness marker per game so other
// instances and operators can see which games are active.
type GameStore struct {
	client  *redis.Client
	ttl     time.Duration
	newGame func(gameID string) *app.Engine
	log     *logrus.Entry

	mu    sync.RWMutex
	games map[string]*liveGame
}

func NewGameStore(client *redis.Client, ttl time.Duration, newGame func(gameID string) *app.Engine) *GameStore {
	return &GameStore{
		client:  client,
		ttl:     ttl,
		newGame: newGame,
		log:     logrus.WithField("component", "games"),
		games:   make(map[string]*liveGame),
	}
}

// Acquire also refreshes the liveness marker.
func (s *GameStore) Acquire(gameID string) *app.Engine {
	s.mu.Lock()
	g, ok := s.games[gameID]
	if !ok {
		g = &liveGame{engine: s.newGame(gameID)}
		s.games[gameID] = g
	}
	g.refs++
	s.mu.Unlock()

	if err := s.client.Set(context.Background(), s.key(gameID), "1", s.ttl).Err(); err != nil {
		s.log.Debugf("mark game %s live: %v", gameID, err)
	}
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
	if err := s.client.Del(context.Background(), s.key(gameID)).Err(); err != nil {
		s.log.Debugf("clear game %s marker: %v", gameID, err)
	}
}

func (s *GameStore) key(gameID string) string {
	return GameKeyPrefix + gameID
}

// ActiveGames counts the live game markers of every instance sharing the Redis.
func ActiveGames(ctx context.Context, client *redis.Client) (int, error) {
	count := 0
	iter := client.Scan(ctx, 0, GameKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	return count, nil
}
