package game_test

import (
	"context"
	"testing"
	"time"

	"connect-four/internal/domain"
	"connect-four/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var drawMoves = []int{
	5, 4, 5, 0, 6, 2, 4, 5, 5, 0, 4, 1, 1, 0, 4, 5, 6, 5, 3, 1, 1,
	2, 2, 6, 2, 6, 6, 3, 6, 2, 0, 3, 0, 3, 3, 4, 3, 1, 4, 2, 1, 0,
}

func TestNewMatchIsPending(t *testing.T) {
	m := game.NewMatch("m1", "alice", "bob", time.Now())

	assert.Equal(t, game.Pending, m.State())
	assert.False(t, m.Accepted)
	assert.False(t, m.Active)
	assert.Nil(t, m.Board)
	assert.Nil(t, m.LastMover)
	assert.Equal(t, domain.ParticipantID("alice"), m.NextMover())
}

func TestAccept(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := game.NewMatch("m1", "alice", "bob", time.Now())

	err := m.Accept(ctx, "alice", f.ledger)
	assert.ErrorIs(t, err, game.ErrCannotAcceptOwnChallenge)
	assert.False(t, m.Accepted)

	require.NoError(t, m.Accept(ctx, "bob", f.ledger))
	assert.Equal(t, game.Active, m.State())
	assert.True(t, m.Active)
	require.NotNil(t, m.Board)
	assert.Equal(t, domain.Grid{}, m.Board.Grid())
	assert.Equal(t, uint64(1), f.card(t, "alice").Played)
	assert.Equal(t, uint64(1), f.card(t, "bob").Played)

	err = m.Accept(ctx, "bob", f.ledger)
	assert.ErrorIs(t, err, game.ErrActiveGameExists)
	assert.Equal(t, uint64(1), f.card(t, "bob").Played)
}

func TestPlayBeforeAccept(t *testing.T) {
	f := newFixture(t)
	m := game.NewMatch("m1", "alice", "bob", time.Now())

	_, err := m.Play(context.Background(), "alice", 0, f.ledger, f.registry)
	assert.ErrorIs(t, err, game.ErrBoardNotReady)
}

func TestPlayAlternatesTurns(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.activeMatch(t)

	_, err := m.Play(ctx, "bob", 0, f.ledger, f.registry)
	assert.ErrorIs(t, err, game.ErrNotYourMove)

	movers := []domain.ParticipantID{"alice", "bob", "alice", "bob"}
	for i, mover := range movers {
		out, err := m.Play(ctx, mover, i, f.ledger, f.registry)
		require.NoError(t, err)
		assert.False(t, out.Terminal())
		require.NotNil(t, m.LastMover)
		assert.Equal(t, mover, *m.LastMover)

		_, err = m.Play(ctx, mover, i, f.ledger, f.registry)
		assert.ErrorIs(t, err, game.ErrNotYourMove)
	}

	assert.Equal(t, domain.PlayerOne, m.Board.At(0, 0))
	assert.Equal(t, domain.PlayerTwo, m.Board.At(0, 1))
}

func TestPlayErrorsLeaveMatchUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.activeMatch(t)

	for i := 0; i < domain.Rows; i++ {
		mover := m.NextMover()
		_, err := m.Play(ctx, mover, 2, f.ledger, f.registry)
		require.NoError(t, err)
	}
	before := m.Board.Grid()
	last := *m.LastMover

	_, err := m.Play(ctx, m.NextMover(), 2, f.ledger, f.registry)
	assert.ErrorIs(t, err, game.ErrColumnFull)
	_, err = m.Play(ctx, m.NextMover(), domain.Columns, f.ledger, f.registry)
	assert.ErrorIs(t, err, game.ErrInvalidColumn)
	_, err = m.Play(ctx, m.NextMover(), -1, f.ledger, f.registry)
	assert.ErrorIs(t, err, game.ErrInvalidColumn)

	assert.Equal(t, before, m.Board.Grid())
	assert.Equal(t, last, *m.LastMover)
	assert.True(t, m.Active)
}

func TestPlayVerticalWin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.activeMatch(t)

	for i := 0; i < 3; i++ {
		_, err := m.Play(ctx, "alice", 0, f.ledger, f.registry)
		require.NoError(t, err)
		_, err = m.Play(ctx, "bob", 1, f.ledger, f.registry)
		require.NoError(t, err)
	}
	out, err := m.Play(ctx, "alice", 0, f.ledger, f.registry)
	require.NoError(t, err)

	assert.Equal(t, domain.WonBy(domain.One), out)
	assert.Equal(t, game.Ended, m.State())
	assert.False(t, m.Active)
	assert.Nil(t, m.Board)
	assert.Nil(t, m.View().Board)

	winner, ok := m.Winner()
	require.True(t, ok)
	assert.Equal(t, domain.ParticipantID("alice"), winner)

	assert.Equal(t, domain.ScoreCard{Played: 1, Won: 1, Points: 5}, f.card(t, "alice"))
	assert.Equal(t, domain.ScoreCard{Played: 1, Lost: 1, Points: -2}, f.card(t, "bob"))

	_, err = f.registry.Lookup(ctx, "alice", "bob")
	assert.ErrorIs(t, err, game.ErrGameDoesNotExist)

	_, err = m.Play(ctx, "bob", 1, f.ledger, f.registry)
	assert.ErrorIs(t, err, game.ErrGameEnded)
}

func TestPlayWinBySecondPlayer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.activeMatch(t)

	// bob builds a row on top of alice's coins
	moves := []int{0, 0, 1, 1, 2, 2, 6, 3, 6, 3}
	var out domain.Outcome
	for _, c := range moves[:len(moves)-2] {
		var err error
		out, err = m.Play(ctx, m.NextMover(), c, f.ledger, f.registry)
		require.NoError(t, err)
		require.False(t, out.Terminal())
	}
	out, err := m.Play(ctx, "alice", 5, f.ledger, f.registry)
	require.NoError(t, err)
	require.False(t, out.Terminal())
	out, err = m.Play(ctx, "bob", 3, f.ledger, f.registry)
	require.NoError(t, err)

	assert.Equal(t, domain.WonBy(domain.Two), out)
	assert.Equal(t, domain.ScoreCard{Played: 1, Lost: 1, Points: -2}, f.card(t, "alice"))
	assert.Equal(t, domain.ScoreCard{Played: 1, Won: 1, Points: 5}, f.card(t, "bob"))
}

func TestPlayDraw(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.activeMatch(t)

	var out domain.Outcome
	for i, c := range drawMoves {
		var err error
		out, err = m.Play(ctx, m.NextMover(), c, f.ledger, f.registry)
		require.NoError(t, err, "move %d", i)
		if i < len(drawMoves)-1 {
			require.False(t, out.Terminal(), "move %d", i)
		}
	}

	assert.Equal(t, domain.Drawn(), out)
	assert.False(t, m.Active)
	assert.Nil(t, m.Board)
	_, ok := m.Winner()
	assert.False(t, ok)

	assert.Equal(t, domain.ScoreCard{Played: 1, Draw: 1, Points: 3}, f.card(t, "alice"))
	assert.Equal(t, domain.ScoreCard{Played: 1, Draw: 1, Points: 3}, f.card(t, "bob"))

	_, err := f.registry.Lookup(ctx, "bob", "alice")
	assert.ErrorIs(t, err, game.ErrGameDoesNotExist)
}

func TestView(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.activeMatch(t)

	_, err := m.Play(ctx, "alice", 3, f.ledger, f.registry)
	require.NoError(t, err)

	v := m.View()
	assert.Equal(t, m.ID, v.ID)
	assert.True(t, v.Accepted)
	assert.True(t, v.Active)
	require.NotNil(t, v.LastMover)
	assert.Equal(t, domain.ParticipantID("alice"), *v.LastMover)
	require.NotNil(t, v.Board)
	assert.Equal(t, domain.PlayerOne, v.Board[0][3])

	// the view is a copy
	v.Board[0][3] = domain.PlayerTwo
	assert.Equal(t, domain.PlayerOne, m.Board.At(0, 3))
}
