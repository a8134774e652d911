package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Leaderboard backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Game struct {
		StartDelay string `yaml:"start_delay"`
		Tick       string `yaml:"tick"`
		Period     string `yaml:"period"`
		Seed       int64  `yaml:"seed"`
	} `yaml:"game"`
	Leaderboard struct {
		Backend    string `yaml:"backend"`
		FilePath   string `yaml:"file_path"`
		SQLitePath string `yaml:"sqlite_path"`
		Timeout    string `yaml:"timeout"`
	} `yaml:"leaderboard"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Game.StartDelay = "1s"
	cfg.Game.Tick = "100ms"
	cfg.Game.Period = "3s"
	cfg.Leaderboard.Backend = BackendMemory
	cfg.Leaderboard.FilePath = "data/leaderboard.json"
	cfg.Leaderboard.SQLitePath = "data/leaderboard.db"
	cfg.Leaderboard.Timeout = "2s"
	cfg.Redis.TTL = "10m"
	return cfg
}

// Load reads .env (if any), then the YAML config at path over the defaults, then
// environment overrides. A missing config file is not an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	fillDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Leaderboard.Backend, "LEADERBOARD_BACKEND")
	setString(&cfg.Leaderboard.FilePath, "LEADERBOARD_FILE")
	setString(&cfg.Leaderboard.SQLitePath, "LEADERBOARD_SQLITE")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Postgres.URL, "POSTGRES_URL")
	if v := os.Getenv("GAME_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Game.Seed = seed
		}
	}
}

// fillDefaults restores defaults for keys the YAML file set to empty values.
func fillDefaults(cfg *Config) {
	def := Default()
	orDefault(&cfg.Server.Port, def.Server.Port)
	orDefault(&cfg.Log.Level, def.Log.Level)
	orDefault(&cfg.Log.Format, def.Log.Format)
	orDefault(&cfg.Leaderboard.Backend, def.Leaderboard.Backend)
	orDefault(&cfg.Leaderboard.FilePath, def.Leaderboard.FilePath)
	orDefault(&cfg.Leaderboard.SQLitePath, def.Leaderboard.SQLitePath)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func orDefault(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return fallback
}
