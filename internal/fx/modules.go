package fx

import (
	"database/sql"

	"connect-four/internal/config"
	"connect-four/internal/database"
	"connect-four/internal/db"
	"connect-four/internal/domain"
	"connect-four/internal/events"
	"connect-four/internal/game"
	"connect-four/internal/idgen"
	"connect-four/internal/logger"
	"connect-four/internal/repository"
	"connect-four/internal/server"
	"connect-four/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvidePoints(cfg *config.Config) domain.Points {
	return cfg.Points()
}

func ProvideIDGenerator(cfg *config.Config) game.IDGenerator {
	if cfg.IDGenerator == "sequence" {
		return idgen.NewSequence()
	}
	return idgen.NewNanoID()
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Invoke(config.LogLoaded),
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewChallengeRepository),
	fx.Provide(repository.NewScoreCardRepository),
	fx.Provide(repository.NewNonceRepository),
	fx.Provide(
		fx.Annotate(repository.NewStore, fx.As(new(game.Store))),
	),
	// game
	fx.Provide(ProvidePoints),
	fx.Provide(ProvideIDGenerator),
	fx.Provide(
		fx.Annotate(events.NewLogSink, fx.As(new(events.Sink))),
	),
	// svc
	fx.Provide(service.NewGameService),
	fx.Provide(service.NewSweeper),
	// server
	fx.Provide(server.NewGameServer),
)
