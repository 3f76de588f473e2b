package repository

import (
	"context"
	"database/sql"
	"fmt"

	"connect-four/internal/db"

	"github.com/rs/zerolog"
)

type NonceRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewNonceRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *NonceRepository {
	return &NonceRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *NonceRepository) withTx(qtx *db.Queries) *NonceRepository {
	return &NonceRepository{queries: qtx, db: r.db, logger: r.logger}
}

func (r *NonceRepository) NextNonce(ctx context.Context) (uint64, error) {
	value, err := r.queries.NextNonce(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to advance nonce: %w", err)
	}
	return uint64(value), nil
}
