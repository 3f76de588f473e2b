package game

import (
	"context"
	"errors"
	"time"

	"connect-four/internal/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// MatchStore persists matches. DeleteMatch on a missing id is a no-op.
// Listings are in creation order; ListPendingBefore returns at most limit
// unaccepted matches created before cutoff.
type MatchStore interface {
	GetMatch(ctx context.Context, id domain.MatchID) (*Match, error)
	PutMatch(ctx context.Context, m *Match) error
	DeleteMatch(ctx context.Context, id domain.MatchID) error
	ListMatchIDs(ctx context.Context) ([]domain.MatchID, error)
	ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*Match, error)
}

// ChallengeStore keeps the ordered (participant, counterparty) index.
// Callers write both orderings of a pair. Deleting a missing entry is
// not an error.
type ChallengeStore interface {
	GetChallenge(ctx context.Context, participant, counterparty domain.ParticipantID) (domain.MatchID, error)
	PutChallenge(ctx context.Context, participant, counterparty domain.ParticipantID, id domain.MatchID) error
	DeleteChallenge(ctx context.Context, participant, counterparty domain.ParticipantID) error
}

// ScoreCardStore returns a zero ScoreCard for unknown participants.
type ScoreCardStore interface {
	GetScoreCard(ctx context.Context, p domain.ParticipantID) (domain.ScoreCard, error)
	PutScoreCard(ctx context.Context, p domain.ParticipantID, card domain.ScoreCard) error
}

// NonceStore is the persisted monotonic identifier counter.
type NonceStore interface {
	NextNonce(ctx context.Context) (uint64, error)
}

type Tx interface {
	MatchStore
	ChallengeStore
	ScoreCardStore
	NonceStore
}

// Store reads committed state directly and applies writes through
// WithinTx. If fn returns an error nothing it wrote is kept.
type Store interface {
	Tx
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// IDGenerator turns the next nonce into an opaque match identifier.
type IDGenerator interface {
	NewMatchID(nonce uint64) (domain.MatchID, error)
}
