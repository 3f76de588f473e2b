package game_test

import (
	"context"
	"testing"
	"time"

	"connect-four/internal/domain"
	"connect-four/internal/game"
	"connect-four/internal/idgen"
	"connect-four/internal/storage/memory"

	"github.com/stretchr/testify/require"
)

var testPoints = domain.Points{Win: 5, Loss: 2, Draw: 3}

type fixture struct {
	store    *memory.Store
	ledger   *game.ScoreLedger
	registry *game.ChallengeRegistry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	return &fixture{
		store:    store,
		ledger:   game.NewScoreLedger(store, testPoints),
		registry: game.NewChallengeRegistry(store, store, idgen.NewSequence()),
	}
}

// activeMatch returns an accepted match between "alice" (player one) and "bob".
func (f *fixture) activeMatch(t *testing.T) *game.Match {
	t.Helper()
	ctx := context.Background()
	id, err := f.registry.Create(ctx, "alice", "bob")
	require.NoError(t, err)
	m := game.NewMatch(id, "alice", "bob", time.Unix(1700000000, 0))
	require.NoError(t, m.Accept(ctx, "bob", f.ledger))
	return m
}

func (f *fixture) card(t *testing.T, p domain.ParticipantID) domain.ScoreCard {
	t.Helper()
	card, err := f.ledger.Get(context.Background(), p)
	require.NoError(t, err)
	return card
}
