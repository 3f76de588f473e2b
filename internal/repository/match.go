package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"connect-four/internal/db"
	"connect-four/internal/domain"
	"connect-four/internal/game"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *MatchRepository) withTx(qtx *db.Queries) *MatchRepository {
	return &MatchRepository{queries: qtx, db: r.db, logger: r.logger}
}

func (r *MatchRepository) GetMatch(ctx context.Context, id domain.MatchID) (*game.Match, error) {
	row, err := r.queries.GetMatch(ctx, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %s: %w", id, err)
	}
	return matchFromRow(row)
}

func (r *MatchRepository) PutMatch(ctx context.Context, m *game.Match) error {
	var lastMover *string
	if m.LastMover != nil {
		s := string(*m.LastMover)
		lastMover = &s
	}
	var board *string
	if m.Board != nil {
		s := m.Board.String()
		board = &s
	}

	err := r.queries.UpsertMatch(ctx, db.UpsertMatchParams{
		ID:        string(m.ID),
		PlayerOne: string(m.PlayerOne),
		PlayerTwo: string(m.PlayerTwo),
		Accepted:  m.Accepted,
		Active:    m.Active,
		LastMover: lastMover,
		Outcome:   m.Outcome.String(),
		Board:     board,
		CreatedAt: toMillis(m.CreatedAt),
		UpdatedAt: toMillis(m.UpdatedAt),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert match %s: %w", m.ID, err)
	}
	return nil
}

func (r *MatchRepository) DeleteMatch(ctx context.Context, id domain.MatchID) error {
	if err := r.queries.DeleteMatch(ctx, string(id)); err != nil {
		return fmt.Errorf("failed to delete match %s: %w", id, err)
	}
	return nil
}

func (r *MatchRepository) ListMatchIDs(ctx context.Context) ([]domain.MatchID, error) {
	rows, err := r.queries.ListMatchIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	ids := make([]domain.MatchID, len(rows))
	for i, id := range rows {
		ids[i] = domain.MatchID(id)
	}
	return ids, nil
}

func (r *MatchRepository) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*game.Match, error) {
	rows, err := r.queries.ListPendingMatchesBefore(ctx, db.ListPendingMatchesBeforeParams{
		CreatedAt: toMillis(cutoff),
		Limit:     int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending matches: %w", err)
	}

	matches := make([]*game.Match, 0, len(rows))
	for _, row := range rows {
		m, err := matchFromRow(row)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func matchFromRow(row db.Match) (*game.Match, error) {
	m := &game.Match{
		ID:        domain.MatchID(row.ID),
		PlayerOne: domain.ParticipantID(row.PlayerOne),
		PlayerTwo: domain.ParticipantID(row.PlayerTwo),
		Accepted:  row.Accepted,
		Active:    row.Active,
		CreatedAt: fromMillis(row.CreatedAt),
		UpdatedAt: fromMillis(row.UpdatedAt),
	}
	if err := m.Outcome.UnmarshalText([]byte(row.Outcome)); err != nil {
		return nil, fmt.Errorf("match %s: %w", row.ID, err)
	}
	if row.LastMover != nil {
		last := domain.ParticipantID(*row.LastMover)
		m.LastMover = &last
	}
	if row.Board != nil {
		board, err := game.ParseBoard(*row.Board)
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", row.ID, err)
		}
		m.Board = board
	}
	return m, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
