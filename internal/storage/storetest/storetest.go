// Package storetest holds behavior every game.Store implementation must share.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"connect-four/internal/domain"
	"connect-four/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a fresh store from newStore in each subtest.
func Run(t *testing.T, newStore func(t *testing.T) game.Store) {
	t.Run("match round trip", func(t *testing.T) { testMatchRoundTrip(t, newStore(t)) })
	t.Run("match listing", func(t *testing.T) { testMatchListing(t, newStore(t)) })
	t.Run("challenges", func(t *testing.T) { testChallenges(t, newStore(t)) })
	t.Run("scorecards", func(t *testing.T) { testScoreCards(t, newStore(t)) })
	t.Run("nonce", func(t *testing.T) { testNonce(t, newStore(t)) })
	t.Run("commit", func(t *testing.T) { testCommit(t, newStore(t)) })
	t.Run("rollback", func(t *testing.T) { testRollback(t, newStore(t)) })
}

var base = time.UnixMilli(1_700_000_000_000).UTC()

func testMatchRoundTrip(t *testing.T, s game.Store) {
	ctx := context.Background()

	_, err := s.GetMatch(ctx, "missing")
	assert.ErrorIs(t, err, game.ErrNotFound)

	m := game.NewMatch("m1", "alice", "bob", base)
	require.NoError(t, s.PutMatch(ctx, m))

	got, err := s.GetMatch(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantID("alice"), got.PlayerOne)
	assert.Equal(t, domain.ParticipantID("bob"), got.PlayerTwo)
	assert.False(t, got.Accepted)
	assert.Nil(t, got.Board)
	assert.Nil(t, got.LastMover)
	assert.True(t, base.Equal(got.CreatedAt))

	board := game.NewBoard()
	_, err = board.Drop(3, domain.PlayerOne)
	require.NoError(t, err)
	last := domain.ParticipantID("alice")
	m.Accepted, m.Active, m.Board, m.LastMover = true, true, board, &last
	m.UpdatedAt = base.Add(time.Minute)
	require.NoError(t, s.PutMatch(ctx, m))

	got, err = s.GetMatch(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, got.Active)
	require.NotNil(t, got.Board)
	assert.Equal(t, board.Grid(), got.Board.Grid())
	require.NotNil(t, got.LastMover)
	assert.Equal(t, last, *got.LastMover)
	assert.True(t, base.Add(time.Minute).Equal(got.UpdatedAt))

	m.Outcome, m.Active, m.Board = domain.WonBy(domain.Two), false, nil
	require.NoError(t, s.PutMatch(ctx, m))
	got, err = s.GetMatch(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.WonBy(domain.Two), got.Outcome)
	assert.Nil(t, got.Board)

	require.NoError(t, s.DeleteMatch(ctx, "m1"))
	require.NoError(t, s.DeleteMatch(ctx, "m1"))
	_, err = s.GetMatch(ctx, "m1")
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func testMatchListing(t *testing.T, s game.Store) {
	ctx := context.Background()

	ids, err := s.ListMatchIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	third := game.NewMatch("a", "alice", "bob", base.Add(2*time.Second))
	first := game.NewMatch("c", "carol", "dave", base)
	second := game.NewMatch("b", "erin", "frank", base.Add(time.Second))
	second.Accepted, second.Active, second.Board = true, true, game.NewBoard()
	for _, m := range []*game.Match{third, first, second} {
		require.NoError(t, s.PutMatch(ctx, m))
	}

	ids, err = s.ListMatchIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.MatchID{"c", "b", "a"}, ids)

	pending, err := s.ListPendingBefore(ctx, base.Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.MatchID{"c", "a"}, matchIDs(pending))

	pending, err = s.ListPendingBefore(ctx, base.Add(time.Hour), 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.MatchID{"c"}, matchIDs(pending))

	pending, err = s.ListPendingBefore(ctx, base, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func testChallenges(t *testing.T, s game.Store) {
	ctx := context.Background()
	require.NoError(t, s.PutMatch(ctx, game.NewMatch("m1", "alice", "bob", base)))

	_, err := s.GetChallenge(ctx, "alice", "bob")
	assert.ErrorIs(t, err, game.ErrNotFound)

	require.NoError(t, s.PutChallenge(ctx, "alice", "bob", "m1"))
	id, err := s.GetChallenge(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.MatchID("m1"), id)

	// only the written ordering exists
	_, err = s.GetChallenge(ctx, "bob", "alice")
	assert.ErrorIs(t, err, game.ErrNotFound)

	require.NoError(t, s.DeleteChallenge(ctx, "alice", "bob"))
	require.NoError(t, s.DeleteChallenge(ctx, "alice", "bob"))
	_, err = s.GetChallenge(ctx, "alice", "bob")
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func testScoreCards(t *testing.T, s game.Store) {
	ctx := context.Background()

	card, err := s.GetScoreCard(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, domain.ScoreCard{}, card)

	want := domain.ScoreCard{Played: 3, Won: 1, Draw: 1, Lost: 1, Points: -4}
	require.NoError(t, s.PutScoreCard(ctx, "alice", want))
	card, err = s.GetScoreCard(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, want, card)
}

func testNonce(t *testing.T, s game.Store) {
	ctx := context.Background()
	for want := uint64(1); want <= 3; want++ {
		n, err := s.NextNonce(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func testCommit(t *testing.T, s game.Store) {
	ctx := context.Background()

	err := s.WithinTx(ctx, func(ctx context.Context, tx game.Tx) error {
		// the registry writes challenges before the match exists
		if err := tx.PutChallenge(ctx, "alice", "bob", "m1"); err != nil {
			return err
		}
		if err := tx.PutChallenge(ctx, "bob", "alice", "m1"); err != nil {
			return err
		}
		if _, err := tx.NextNonce(ctx); err != nil {
			return err
		}
		return tx.PutMatch(ctx, game.NewMatch("m1", "alice", "bob", base))
	})
	require.NoError(t, err)

	id, err := s.GetChallenge(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.MatchID("m1"), id)
	_, err = s.GetMatch(ctx, "m1")
	require.NoError(t, err)
	n, err := s.NextNonce(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
}

func testRollback(t *testing.T, s game.Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(ctx context.Context, tx game.Tx) error {
		if err := tx.PutMatch(ctx, game.NewMatch("m1", "alice", "bob", base)); err != nil {
			return err
		}
		if err := tx.PutChallenge(ctx, "alice", "bob", "m1"); err != nil {
			return err
		}
		if err := tx.PutScoreCard(ctx, "alice", domain.ScoreCard{Played: 1}); err != nil {
			return err
		}
		if _, err := tx.NextNonce(ctx); err != nil {
			return err
		}

		got, err := tx.GetMatch(ctx, "m1")
		if err != nil {
			return err
		}
		assert.Equal(t, domain.ParticipantID("bob"), got.PlayerTwo)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.GetMatch(ctx, "m1")
	assert.ErrorIs(t, err, game.ErrNotFound)
	_, err = s.GetChallenge(ctx, "alice", "bob")
	assert.ErrorIs(t, err, game.ErrNotFound)
	card, err := s.GetScoreCard(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, card)
	n, err := s.NextNonce(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}

func matchIDs(ms []*game.Match) []domain.MatchID {
	ids := make([]domain.MatchID, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return ids
}
