package game

import (
	"context"
	"errors"
	"fmt"

	"connect-four/internal/domain"
)

// ChallengeRegistry maps an unordered participant pair to its single
// live match. Both orderings are stored so either side can look it up.
type ChallengeRegistry struct {
	store  ChallengeStore
	nonces NonceStore
	ids    IDGenerator
}

func NewChallengeRegistry(store ChallengeStore, nonces NonceStore, ids IDGenerator) *ChallengeRegistry {
	return &ChallengeRegistry{store: store, nonces: nonces, ids: ids}
}

func (r *ChallengeRegistry) Create(ctx context.Context, challenger, opponent domain.ParticipantID) (domain.MatchID, error) {
	if challenger == opponent {
		return "", ErrCannotPlayYourself
	}
	for _, pair := range [][2]domain.ParticipantID{{challenger, opponent}, {opponent, challenger}} {
		exists, err := r.exists(ctx, pair[0], pair[1])
		if err != nil {
			return "", err
		}
		if exists {
			return "", ErrChallengeExists
		}
	}

	nonce, err := r.nonces.NextNonce(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to advance nonce: %w", err)
	}
	id, err := r.ids.NewMatchID(nonce)
	if err != nil {
		return "", fmt.Errorf("failed to generate match id: %w", err)
	}

	if err := r.store.PutChallenge(ctx, challenger, opponent, id); err != nil {
		return "", fmt.Errorf("failed to put challenge: %w", err)
	}
	if err := r.store.PutChallenge(ctx, opponent, challenger, id); err != nil {
		return "", fmt.Errorf("failed to put challenge: %w", err)
	}
	return id, nil
}

// Lookup returns the live match for the pair in either order.
func (r *ChallengeRegistry) Lookup(ctx context.Context, a, b domain.ParticipantID) (domain.MatchID, error) {
	id, err := r.store.GetChallenge(ctx, a, b)
	if errors.Is(err, ErrNotFound) {
		return "", ErrGameDoesNotExist
	}
	if err != nil {
		return "", fmt.Errorf("failed to get challenge: %w", err)
	}
	return id, nil
}

// Remove is idempotent.
func (r *ChallengeRegistry) Remove(ctx context.Context, a, b domain.ParticipantID) error {
	if err := r.store.DeleteChallenge(ctx, a, b); err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	if err := r.store.DeleteChallenge(ctx, b, a); err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	return nil
}

func (r *ChallengeRegistry) exists(ctx context.Context, a, b domain.ParticipantID) (bool, error) {
	_, err := r.store.GetChallenge(ctx, a, b)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get challenge: %w", err)
	}
	return true, nil
}
