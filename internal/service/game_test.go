package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"connect-four/internal/database"
	"connect-four/internal/db"
	"connect-four/internal/domain"
	"connect-four/internal/events"
	"connect-four/internal/game"
	"connect-four/internal/idgen"
	"connect-four/internal/repository"
	"connect-four/internal/storage/memory"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var points = domain.Points{Win: 5, Loss: 2, Draw: 3}

var drawMoves = []int{
	5, 4, 5, 0, 6, 2, 4, 5, 5, 0, 4, 1, 1, 0, 4, 5, 6, 5, 3, 1, 1,
	2, 2, 6, 2, 6, 6, 3, 6, 2, 0, 3, 0, 3, 3, 4, 3, 1, 4, 2, 1, 0,
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func memoryStore(t *testing.T) game.Store {
	return memory.New()
}

func sqliteStore(t *testing.T) game.Store {
	t.Helper()
	logger := zerolog.Nop()
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "games.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	queries := db.New(sqlDB)
	return repository.NewStore(
		sqlDB,
		queries,
		repository.NewMatchRepository(sqlDB, queries, logger),
		repository.NewChallengeRepository(sqlDB, queries, logger),
		repository.NewScoreCardRepository(sqlDB, queries, logger),
		repository.NewNonceRepository(sqlDB, queries, logger),
		logger,
	)
}

var stores = []struct {
	name string
	new  func(t *testing.T) game.Store
}{
	{"memory", memoryStore},
	{"sqlite", sqliteStore},
}

func newTestService(t *testing.T, store game.Store) (*GameService, *events.Recorder, *clock) {
	t.Helper()
	rec := &events.Recorder{}
	clk := &clock{now: time.UnixMilli(1_700_000_000_000).UTC()}
	svc := NewGameService(store, idgen.NewSequence(), rec, points, zerolog.Nop())
	svc.now = clk.Now
	return svc, rec, clk
}

func forEachStore(t *testing.T, fn func(t *testing.T, svc *GameService, rec *events.Recorder, clk *clock)) {
	for _, s := range stores {
		t.Run(s.name, func(t *testing.T) {
			svc, rec, clk := newTestService(t, s.new(t))
			fn(t, svc, rec, clk)
		})
	}
}

func TestVerticalWinScenario(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *GameService, rec *events.Recorder, _ *clock) {
		ctx := context.Background()

		id, err := svc.Challenge(ctx, "1", "2")
		require.NoError(t, err)
		assert.Equal(t, domain.MatchID("match-1"), id)
		require.NoError(t, svc.Accept(ctx, "2", "1"))

		for i := 0; i < 3; i++ {
			out, err := svc.Play(ctx, "1", "2", 0)
			require.NoError(t, err)
			assert.Equal(t, domain.Outcome{}, out)
			_, err = svc.Play(ctx, "2", "1", 1)
			require.NoError(t, err)
		}
		out, err := svc.Play(ctx, "1", "2", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.WonBy(domain.One), out)

		card, err := svc.GetScoreCard(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, domain.ScoreCard{Played: 1, Won: 1, Points: 5}, card)
		card, err = svc.GetScoreCard(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, domain.ScoreCard{Played: 1, Lost: 1, Points: -2}, card)

		view, err := svc.GetMatch(ctx, id)
		require.NoError(t, err)
		assert.True(t, view.Accepted)
		assert.False(t, view.Active)
		assert.Equal(t, domain.WonBy(domain.One), view.Outcome)
		assert.Nil(t, view.Board)

		// the pair is free again
		_, err = svc.Play(ctx, "2", "1", 1)
		assert.ErrorIs(t, err, game.ErrGameDoesNotExist)
		_, err = svc.Play(ctx, "1", "2", 1)
		assert.ErrorIs(t, err, game.ErrGameDoesNotExist)
		next, err := svc.Challenge(ctx, "2", "1")
		require.NoError(t, err)
		assert.Equal(t, domain.MatchID("match-2"), next)

		kinds := rec.Kinds()
		require.Len(t, kinds, 2+1+7+2+2)
		assert.Equal(t, []domain.EventKind{
			domain.EventChallengeReceived,
			domain.EventGameCreated,
			domain.EventChallengeAccepted,
		}, kinds[:3])
		assert.Equal(t, []domain.EventKind{
			domain.EventMoveMade,
			domain.EventGameWon,
			domain.EventGameEnded,
		}, kinds[9:12])
		won := rec.Events()[10]
		assert.Equal(t, domain.ParticipantID("1"), won.Winner)
		assert.Equal(t, id, won.MatchID)
	})
}

func TestDrawScenario(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *GameService, rec *events.Recorder, _ *clock) {
		ctx := context.Background()

		id, err := svc.Challenge(ctx, "alice", "bob")
		require.NoError(t, err)
		require.NoError(t, svc.Accept(ctx, "bob", "alice"))

		players := [2]domain.ParticipantID{"alice", "bob"}
		var out domain.Outcome
		for i, c := range drawMoves {
			out, err = svc.Play(ctx, players[i%2], players[(i+1)%2], c)
			require.NoError(t, err, "move %d", i)
		}
		assert.Equal(t, domain.Drawn(), out)

		for _, p := range players {
			card, err := svc.GetScoreCard(ctx, p)
			require.NoError(t, err)
			assert.Equal(t, domain.ScoreCard{Played: 1, Draw: 1, Points: 3}, card)
		}

		view, err := svc.GetMatch(ctx, id)
		require.NoError(t, err)
		assert.False(t, view.Active)
		assert.Equal(t, domain.Drawn(), view.Outcome)

		kinds := rec.Kinds()
		assert.Equal(t, []domain.EventKind{domain.EventGameDrawn, domain.EventGameEnded}, kinds[len(kinds)-2:])
	})
}

func TestChallengeErrors(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *GameService, rec *events.Recorder, _ *clock) {
		ctx := context.Background()

		_, err := svc.Challenge(ctx, "1", "1")
		assert.ErrorIs(t, err, game.ErrCannotPlayYourself)

		_, err = svc.Challenge(ctx, "1", "2")
		require.NoError(t, err)
		rec.Reset()

		_, err = svc.Challenge(ctx, "1", "2")
		assert.ErrorIs(t, err, game.ErrChallengeExists)
		_, err = svc.Challenge(ctx, "2", "1")
		assert.ErrorIs(t, err, game.ErrChallengeExists)

		// an accepted match still blocks the pair
		require.NoError(t, svc.Accept(ctx, "2", "1"))
		_, err = svc.Challenge(ctx, "2", "1")
		assert.ErrorIs(t, err, game.ErrChallengeExists)

		ids, err := svc.ListMatches(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.MatchID{"match-1"}, ids)
		assert.Equal(t, []domain.EventKind{domain.EventChallengeAccepted}, rec.Kinds())
	})
}

func TestAcceptErrors(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *GameService, rec *events.Recorder, _ *clock) {
		ctx := context.Background()

		err := svc.Accept(ctx, "2", "1")
		assert.ErrorIs(t, err, game.ErrChallengeDoesNotExist)
		err = svc.Accept(ctx, "1", "1")
		assert.ErrorIs(t, err, game.ErrCannotPlayYourself)

		_, err = svc.Challenge(ctx, "1", "2")
		require.NoError(t, err)

		err = svc.Accept(ctx, "1", "2")
		assert.ErrorIs(t, err, game.ErrCannotAcceptOwnChallenge)

		require.NoError(t, svc.Accept(ctx, "2", "1"))
		err = svc.Accept(ctx, "2", "1")
		assert.ErrorIs(t, err, game.ErrActiveGameExists)

		for _, p := range []domain.ParticipantID{"1", "2"} {
			card, err := svc.GetScoreCard(ctx, p)
			require.NoError(t, err)
			assert.Equal(t, uint64(1), card.Played)
		}
		assert.Equal(t, []domain.EventKind{
			domain.EventChallengeReceived,
			domain.EventGameCreated,
			domain.EventChallengeAccepted,
		}, rec.Kinds())
	})
}

func TestPlayErrors(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *GameService, rec *events.Recorder, _ *clock) {
		ctx := context.Background()

		_, err := svc.Play(ctx, "1", "2", 0)
		assert.ErrorIs(t, err, game.ErrGameDoesNotExist)

		id, err := svc.Challenge(ctx, "1", "2")
		require.NoError(t, err)
		_, err = svc.Play(ctx, "1", "2", 0)
		assert.ErrorIs(t, err, game.ErrChallengeNotYetAccepted)

		require.NoError(t, svc.Accept(ctx, "2", "1"))
		_, err = svc.Play(ctx, "2", "1", 0)
		assert.ErrorIs(t, err, game.ErrNotYourMove)

		for i := 0; i < domain.Rows; i++ {
			mover, other := domain.ParticipantID("1"), domain.ParticipantID("2")
			if i%2 == 1 {
				mover, other = other, mover
			}
			_, err := svc.Play(ctx, mover, other, 4)
			require.NoError(t, err)
		}
		before, err := svc.GetMatch(ctx, id)
		require.NoError(t, err)
		rec.Reset()

		_, err = svc.Play(ctx, "1", "2", 4)
		assert.ErrorIs(t, err, game.ErrColumnFull)
		_, err = svc.Play(ctx, "1", "2", 7)
		assert.ErrorIs(t, err, game.ErrInvalidColumn)
		_, err = svc.Play(ctx, "1", "2", -1)
		assert.ErrorIs(t, err, game.ErrInvalidColumn)
		_, err = svc.Play(ctx, "2", "1", 0)
		assert.ErrorIs(t, err, game.ErrNotYourMove)

		after, err := svc.GetMatch(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, before, after)
		assert.Empty(t, rec.Kinds())
	})
}

func TestDecline(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *GameService, rec *events.Recorder, _ *clock) {
		ctx := context.Background()

		err := svc.Decline(ctx, "2", "1")
		assert.ErrorIs(t, err, game.ErrChallengeDoesNotExist)

		// the challenged side refuses
		id, err := svc.Challenge(ctx, "1", "2")
		require.NoError(t, err)
		require.NoError(t, svc.Decline(ctx, "2", "1"))
		_, err = svc.GetMatch(ctx, id)
		assert.ErrorIs(t, err, game.ErrGameDoesNotExist)
		err = svc.Accept(ctx, "2", "1")
		assert.ErrorIs(t, err, game.ErrChallengeDoesNotExist)

		// the challenger withdraws
		_, err = svc.Challenge(ctx, "1", "2")
		require.NoError(t, err)
		require.NoError(t, svc.Decline(ctx, "1", "2"))

		_, err = svc.Challenge(ctx, "1", "2")
		require.NoError(t, err)
		require.NoError(t, svc.Accept(ctx, "2", "1"))
		err = svc.Decline(ctx, "1", "2")
		assert.ErrorIs(t, err, game.ErrActiveGameExists)

		ids, err := svc.ListMatches(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.MatchID{"match-3"}, ids)

		denied := 0
		for _, e := range rec.Events() {
			if e.Kind == domain.EventChallengeDenied {
				denied++
			}
		}
		assert.Equal(t, 2, denied)

		card, err := svc.GetScoreCard(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), card.Played)
	})
}

func TestGetMatch(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *GameService, _ *events.Recorder, _ *clock) {
		ctx := context.Background()

		_, err := svc.GetMatch(ctx, "nope")
		assert.ErrorIs(t, err, game.ErrGameDoesNotExist)

		ids, err := svc.ListMatches(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)
		assert.NotNil(t, ids)

		id, err := svc.Challenge(ctx, "alice", "bob")
		require.NoError(t, err)
		view, err := svc.GetMatch(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.ParticipantID("alice"), view.PlayerOne)
		assert.Equal(t, domain.ParticipantID("bob"), view.PlayerTwo)
		assert.False(t, view.Accepted)
		assert.Nil(t, view.Board)

		require.NoError(t, svc.Accept(ctx, "bob", "alice"))
		_, err = svc.Play(ctx, "alice", "bob", 3)
		require.NoError(t, err)

		view, err = svc.GetMatch(ctx, id)
		require.NoError(t, err)
		assert.True(t, view.Active)
		require.NotNil(t, view.Board)
		assert.Equal(t, domain.PlayerOne, view.Board[0][3])
		require.NotNil(t, view.LastMover)
		assert.Equal(t, domain.ParticipantID("alice"), *view.LastMover)
		assert.True(t, view.UpdatedAt.After(view.CreatedAt))
	})
}

func TestExpirePending(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *GameService, rec *events.Recorder, clk *clock) {
		ctx := context.Background()

		stale, err := svc.Challenge(ctx, "a", "b")
		require.NoError(t, err)
		_, err = svc.Challenge(ctx, "c", "d")
		require.NoError(t, err)
		require.NoError(t, svc.Accept(ctx, "d", "c"))

		clk.Advance(time.Hour)
		cutoff := clk.Now()
		fresh, err := svc.Challenge(ctx, "e", "f")
		require.NoError(t, err)
		rec.Reset()

		n, err := svc.ExpirePending(ctx, cutoff)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = svc.GetMatch(ctx, stale)
		assert.ErrorIs(t, err, game.ErrGameDoesNotExist)
		_, err = svc.GetMatch(ctx, fresh)
		require.NoError(t, err)
		_, err = svc.Challenge(ctx, "b", "a")
		require.NoError(t, err)

		evs := rec.Events()
		require.NotEmpty(t, evs)
		assert.Equal(t, domain.EventChallengeExpired, evs[0].Kind)
		assert.Equal(t, stale, evs[0].MatchID)
		assert.Equal(t, domain.ParticipantID("a"), evs[0].Actor)

		n, err = svc.ExpirePending(ctx, cutoff)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestDisjointPairsRunConcurrently(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *GameService, _ *events.Recorder, _ *clock) {
		ctx := context.Background()
		const pairs = 8

		g, gCtx := errgroup.WithContext(ctx)
		for i := 0; i < pairs; i++ {
			p1 := domain.ParticipantID(fmt.Sprintf("p%d-one", i))
			p2 := domain.ParticipantID(fmt.Sprintf("p%d-two", i))
			g.Go(func() error {
				if _, err := svc.Challenge(gCtx, p1, p2); err != nil {
					return err
				}
				if err := svc.Accept(gCtx, p2, p1); err != nil {
					return err
				}
				for k := 0; k < 3; k++ {
					if _, err := svc.Play(gCtx, p1, p2, 0); err != nil {
						return err
					}
					if _, err := svc.Play(gCtx, p2, p1, 1); err != nil {
						return err
					}
				}
				out, err := svc.Play(gCtx, p1, p2, 0)
				if err != nil {
					return err
				}
				if out != domain.WonBy(domain.One) {
					return fmt.Errorf("unexpected outcome %s", out)
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())

		ids, err := svc.ListMatches(ctx)
		require.NoError(t, err)
		assert.Len(t, ids, pairs)
		assert.Zero(t, svc.locks.size())
	})
}

func TestSamePairIsSerialized(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *GameService, _ *events.Recorder, _ *clock) {
		ctx := context.Background()
		const attempts = 10

		var created, rejected atomic.Int32
		g, gCtx := errgroup.WithContext(ctx)
		for i := 0; i < attempts; i++ {
			challenger, opponent := domain.ParticipantID("x"), domain.ParticipantID("y")
			if i%2 == 1 {
				challenger, opponent = opponent, challenger
			}
			g.Go(func() error {
				_, err := svc.Challenge(gCtx, challenger, opponent)
				switch {
				case err == nil:
					created.Add(1)
				case game.CodeOf(err) == game.CodeChallengeExists:
					rejected.Add(1)
				default:
					return err
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())

		assert.Equal(t, int32(1), created.Load())
		assert.Equal(t, int32(attempts-1), rejected.Load())
	})
}
