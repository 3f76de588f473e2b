package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"connect-four/internal/db"
	"connect-four/internal/domain"
	"connect-four/internal/game"

	"github.com/rs/zerolog"
)

type ChallengeRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewChallengeRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *ChallengeRepository {
	return &ChallengeRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *ChallengeRepository) withTx(qtx *db.Queries) *ChallengeRepository {
	return &ChallengeRepository{queries: qtx, db: r.db, logger: r.logger}
}

func (r *ChallengeRepository) GetChallenge(ctx context.Context, participant, counterparty domain.ParticipantID) (domain.MatchID, error) {
	id, err := r.queries.GetChallenge(ctx, db.GetChallengeParams{
		Participant:  string(participant),
		Counterparty: string(counterparty),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", game.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get challenge %s/%s: %w", participant, counterparty, err)
	}
	return domain.MatchID(id), nil
}

func (r *ChallengeRepository) PutChallenge(ctx context.Context, participant, counterparty domain.ParticipantID, id domain.MatchID) error {
	err := r.queries.UpsertChallenge(ctx, db.UpsertChallengeParams{
		Participant:  string(participant),
		Counterparty: string(counterparty),
		MatchID:      string(id),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert challenge %s/%s: %w", participant, counterparty, err)
	}
	return nil
}

func (r *ChallengeRepository) DeleteChallenge(ctx context.Context, participant, counterparty domain.ParticipantID) error {
	err := r.queries.DeleteChallenge(ctx, db.DeleteChallengeParams{
		Participant:  string(participant),
		Counterparty: string(counterparty),
	})
	if err != nil {
		return fmt.Errorf("failed to delete challenge %s/%s: %w", participant, counterparty, err)
	}
	return nil
}
