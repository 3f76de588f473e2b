package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"connect-four/internal/db"
	"connect-four/internal/domain"

	"github.com/rs/zerolog"
)

type ScoreCardRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
	now     func() time.Time
}

func NewScoreCardRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *ScoreCardRepository {
	return &ScoreCardRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
		now:     time.Now,
	}
}

func (r *ScoreCardRepository) withTx(qtx *db.Queries) *ScoreCardRepository {
	return &ScoreCardRepository{queries: qtx, db: r.db, logger: r.logger, now: r.now}
}

// GetScoreCard returns a zero card for participants that never played.
func (r *ScoreCardRepository) GetScoreCard(ctx context.Context, p domain.ParticipantID) (domain.ScoreCard, error) {
	row, err := r.queries.GetScorecard(ctx, string(p))
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Debug().Str("participant", string(p)).Msg("scorecard not found, using zero card")
		return domain.ScoreCard{}, nil
	}
	if err != nil {
		return domain.ScoreCard{}, fmt.Errorf("failed to get scorecard %s: %w", p, err)
	}

	return domain.ScoreCard{
		Played:  uint64(row.Played),
		Won:     uint64(row.Won),
		Draw:    uint64(row.Draw),
		Lost:    uint64(row.Lost),
		Ongoing: uint64(row.Ongoing),
		Points:  row.Points,
	}, nil
}

func (r *ScoreCardRepository) PutScoreCard(ctx context.Context, p domain.ParticipantID, card domain.ScoreCard) error {
	err := r.queries.UpsertScorecard(ctx, db.UpsertScorecardParams{
		Participant: string(p),
		Played:      int64(card.Played),
		Won:         int64(card.Won),
		Draw:        int64(card.Draw),
		Lost:        int64(card.Lost),
		Ongoing:     int64(card.Ongoing),
		Points:      card.Points,
		UpdatedAt:   toMillis(r.now()),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert scorecard %s: %w", p, err)
	}
	return nil
}
