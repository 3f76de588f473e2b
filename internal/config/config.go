package config

import (
	"fmt"
	"time"

	"connect-four/internal/domain"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	DBPath        string        `env:"DB_PATH" envDefault:"connectfour.db"`
	ServerPort    string        `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	PointsForWin  uint32        `env:"POINTS_FOR_WIN" envDefault:"5"`
	PointsForLoss uint32        `env:"POINTS_FOR_LOSS" envDefault:"2"`
	PointsForDraw uint32        `env:"POINTS_FOR_DRAW" envDefault:"3"`
	ChallengeTTL  time.Duration `env:"CHALLENGE_TTL" envDefault:"0s"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
	IDGenerator   string        `env:"ID_GENERATOR" envDefault:"nanoid"`
}

func Load() (*Config, error) {
	// a missing .env is fine; the environment still applies
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	switch cfg.IDGenerator {
	case "nanoid", "sequence":
	default:
		return nil, fmt.Errorf("ID_GENERATOR must be nanoid or sequence, got %q", cfg.IDGenerator)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	if cfg.ChallengeTTL < 0 {
		return nil, fmt.Errorf("CHALLENGE_TTL must not be negative")
	}
	if cfg.ChallengeTTL > 0 && cfg.SweepInterval <= 0 {
		return nil, fmt.Errorf("SWEEP_INTERVAL must be positive when CHALLENGE_TTL is set")
	}

	return cfg, nil
}

func (c *Config) Points() domain.Points {
	return domain.Points{
		Win:  c.PointsForWin,
		Loss: c.PointsForLoss,
		Draw: c.PointsForDraw,
	}
}

// LogLoaded records the effective configuration once at startup.
func LogLoaded(cfg *Config, logger zerolog.Logger) {
	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Uint32("points_for_win", cfg.PointsForWin).
		Uint32("points_for_loss", cfg.PointsForLoss).
		Uint32("points_for_draw", cfg.PointsForDraw).
		Dur("challenge_ttl", cfg.ChallengeTTL).
		Dur("sweep_interval", cfg.SweepInterval).
		Str("id_generator", cfg.IDGenerator).
		Msg("configuration loaded")
}
