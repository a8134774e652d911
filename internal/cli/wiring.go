package cli

import (
	"context"
	"fmt"
	"time"

	"arith-recall/internal/app"
	"arith-recall/internal/config"
	"arith-recall/internal/infra/file"
	"arith-recall/internal/infra/memory"
	pgstore "arith-recall/internal/infra/postgres"
	redisstore "arith-recall/internal/infra/redis"
	"arith-recall/internal/infra/sqlite"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// deps holds everything built from config plus the closers to release it.
type deps struct {
	redis   *redis.Client
	store   app.LeaderboardStore
	closers []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func timingFromConfig(cfg config.Config) app.Timing {
	def := app.DefaultTiming()
	return app.Timing{
		StartDelay: config.Duration(cfg.Game.StartDelay, def.StartDelay),
		Tick:       config.Duration(cfg.Game.Tick, def.Tick),
		Period:     config.Duration(cfg.Game.Period, def.Period),
	}
}

func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	d := &deps{}
	if cfg.Redis.Addr != "" {
		d.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		client := d.redis
		d.closers = append(d.closers, func() { _ = client.Close() })
	}

	store, err := buildLeaderboardStore(ctx, cfg, d)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.store = store
	return d, nil
}

func buildLeaderboardStore(ctx context.Context, cfg config.Config, d *deps) (app.LeaderboardStore, error) {
	switch cfg.Leaderboard.Backend {
	case config.BackendMemory:
		return memory.NewLeaderboardStore(memory.NewKV()), nil
	case config.BackendFile:
		return file.NewLeaderboardStore(cfg.Leaderboard.FilePath), nil
	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.Leaderboard.SQLitePath)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, func() { _ = store.Close() })
		return store, nil
	case config.BackendRedis:
		if d.redis == nil {
			return nil, fmt.Errorf("redis backend selected but redis.addr is empty")
		}
		return redisstore.NewLeaderboardStore(d.redis, ""), nil
	case config.BackendPostgres:
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, pool.Close)
		return pgstore.NewLeaderboardStore(pool), nil
	default:
		return nil, fmt.Errorf("unknown leaderboard backend %q", cfg.Leaderboard.Backend)
	}
}

func buildGames(cfg config.Config, d *deps) app.GameRepository {
	factory := app.EngineFactory(app.NewGenerator(cfg.Game.Seed), timingFromConfig(cfg))
	if d.redis != nil {
		return redisstore.NewGameStore(d.redis, config.Duration(cfg.Redis.TTL, 10*time.Minute), factory)
	}
	return memory.NewGameStore(factory)
}
