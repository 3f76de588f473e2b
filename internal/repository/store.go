package repository

import (
	"context"
	"database/sql"
	"fmt"

	"connect-four/internal/db"
	"connect-four/internal/game"

	"github.com/rs/zerolog"
)

type repositories struct {
	*MatchRepository
	*ChallengeRepository
	*ScoreCardRepository
	*NonceRepository
}

// Store is the SQLite game.Store. Direct calls autocommit; WithinTx binds
// every repository to one transaction.
type Store struct {
	repositories
	db      *sql.DB
	queries *db.Queries
	logger  zerolog.Logger
}

func NewStore(
	sqlDB *sql.DB,
	queries *db.Queries,
	matches *MatchRepository,
	challenges *ChallengeRepository,
	scorecards *ScoreCardRepository,
	nonces *NonceRepository,
	logger zerolog.Logger,
) *Store {
	return &Store{
		repositories: repositories{
			MatchRepository:     matches,
			ChallengeRepository: challenges,
			ScoreCardRepository: scorecards,
			NonceRepository:     nonces,
		},
		db:      sqlDB,
		queries: queries,
		logger:  logger,
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx game.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	bound := &repositories{
		MatchRepository:     s.MatchRepository.withTx(qtx),
		ChallengeRepository: s.ChallengeRepository.withTx(qtx),
		ScoreCardRepository: s.ScoreCardRepository.withTx(qtx),
		NonceRepository:     s.NonceRepository.withTx(qtx),
	}

	if err := fn(ctx, bound); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
