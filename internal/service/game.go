package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"connect-four/internal/constants"
	"connect-four/internal/domain"
	"connect-four/internal/events"
	"connect-four/internal/game"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type GameService struct {
	store  game.Store
	ids    game.IDGenerator
	sink   events.Sink
	points domain.Points
	locks  *pairLocks
	now    func() time.Time
	logger zerolog.Logger
}

func NewGameService(store game.Store, ids game.IDGenerator, sink events.Sink, points domain.Points, logger zerolog.Logger) *GameService {
	return &GameService{
		store:  store,
		ids:    ids,
		sink:   sink,
		points: points,
		locks:  newPairLocks(),
		now:    time.Now,
		logger: logger.With().Str("component", "game").Logger(),
	}
}

// Challenge opens a pending match with challenger as player one.
func (s *GameService) Challenge(ctx context.Context, challenger, opponent domain.ParticipantID) (domain.MatchID, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	unlock := s.locks.lock(challenger, opponent)
	defer unlock()

	var id domain.MatchID
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx game.Tx) error {
		registry := game.NewChallengeRegistry(tx, tx, s.ids)

		var err error
		id, err = registry.Create(ctx, challenger, opponent)
		if err != nil {
			return err
		}
		return tx.PutMatch(ctx, game.NewMatch(id, challenger, opponent, s.now()))
	})
	if err != nil {
		s.logFailure(err, "challenge", challenger, opponent)
		return "", err
	}

	s.logger.Info().
		Str("match_id", string(id)).
		Str("challenger", string(challenger)).
		Str("opponent", string(opponent)).
		Msg("challenge created")
	s.emit(ctx,
		domain.Event{Kind: domain.EventChallengeReceived, MatchID: id, Actor: challenger, Counterparty: opponent},
		domain.Event{Kind: domain.EventGameCreated, MatchID: id, Actor: challenger, Counterparty: opponent},
	)
	return id, nil
}

// Accept starts the pending match challenger opened against participant.
func (s *GameService) Accept(ctx context.Context, participant, challenger domain.ParticipantID) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if participant == challenger {
		return game.ErrCannotPlayYourself
	}

	unlock := s.locks.lock(participant, challenger)
	defer unlock()

	var id domain.MatchID
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx game.Tx) error {
		m, err := s.lookup(ctx, tx, participant, challenger, game.ErrChallengeDoesNotExist)
		if err != nil {
			return err
		}
		id = m.ID

		if err := m.Accept(ctx, participant, game.NewScoreLedger(tx, s.points)); err != nil {
			return err
		}
		m.UpdatedAt = s.now()
		return tx.PutMatch(ctx, m)
	})
	if err != nil {
		s.logFailure(err, "accept", participant, challenger)
		return err
	}

	s.logger.Info().
		Str("match_id", string(id)).
		Str("participant", string(participant)).
		Str("challenger", string(challenger)).
		Msg("challenge accepted")
	s.emit(ctx, domain.Event{Kind: domain.EventChallengeAccepted, MatchID: id, Actor: participant, Counterparty: challenger})
	return nil
}

// Decline withdraws or refuses a pending challenge. Either side may do it.
func (s *GameService) Decline(ctx context.Context, participant, other domain.ParticipantID) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if participant == other {
		return game.ErrCannotPlayYourself
	}

	unlock := s.locks.lock(participant, other)
	defer unlock()

	var id domain.MatchID
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx game.Tx) error {
		m, err := s.lookup(ctx, tx, participant, other, game.ErrChallengeDoesNotExist)
		if err != nil {
			return err
		}
		if m.Accepted {
			return game.ErrActiveGameExists
		}
		id = m.ID
		return s.discard(ctx, tx, m)
	})
	if err != nil {
		s.logFailure(err, "decline", participant, other)
		return err
	}

	s.logger.Info().
		Str("match_id", string(id)).
		Str("participant", string(participant)).
		Str("other", string(other)).
		Msg("challenge declined")
	s.emit(ctx, domain.Event{Kind: domain.EventChallengeDenied, MatchID: id, Actor: participant, Counterparty: other})
	return nil
}

// Play drops participant's coin into column of the match against opponent.
func (s *GameService) Play(ctx context.Context, participant, opponent domain.ParticipantID, column int) (domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	unlock := s.locks.lock(participant, opponent)
	defer unlock()

	var (
		m       *game.Match
		outcome domain.Outcome
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx game.Tx) error {
		var err error
		m, err = s.lookup(ctx, tx, participant, opponent, game.ErrGameDoesNotExist)
		if err != nil {
			return err
		}
		if !m.Accepted {
			return game.ErrChallengeNotYetAccepted
		}

		ledger := game.NewScoreLedger(tx, s.points)
		registry := game.NewChallengeRegistry(tx, tx, s.ids)
		outcome, err = m.Play(ctx, participant, column, ledger, registry)
		if err != nil {
			return err
		}
		m.UpdatedAt = s.now()
		return tx.PutMatch(ctx, m)
	})
	if err != nil {
		s.logFailure(err, "play", participant, opponent)
		return domain.Outcome{}, err
	}

	s.logger.Debug().
		Str("match_id", string(m.ID)).
		Str("participant", string(participant)).
		Int("column", column).
		Str("outcome", outcome.String()).
		Msg("move made")

	evs := []domain.Event{
		{Kind: domain.EventMoveMade, MatchID: m.ID, Actor: participant, Counterparty: opponent, Column: column},
	}
	switch outcome.Kind {
	case domain.Win:
		winner, _ := m.Winner()
		evs = append(evs, domain.Event{Kind: domain.EventGameWon, MatchID: m.ID, Actor: participant, Counterparty: opponent, Winner: winner})
	case domain.Draw:
		evs = append(evs, domain.Event{Kind: domain.EventGameDrawn, MatchID: m.ID, Actor: participant, Counterparty: opponent})
	}
	if outcome.Terminal() {
		evs = append(evs, domain.Event{Kind: domain.EventGameEnded, MatchID: m.ID, Actor: participant, Counterparty: opponent})
		s.logger.Info().
			Str("match_id", string(m.ID)).
			Str("outcome", outcome.String()).
			Msg("game ended")
	}
	s.emit(ctx, evs...)
	return outcome, nil
}

func (s *GameService) GetScoreCard(ctx context.Context, participant domain.ParticipantID) (domain.ScoreCard, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	card, err := game.NewScoreLedger(s.store, s.points).Get(ctx, participant)
	if err != nil {
		s.logger.Error().Err(err).Str("participant", string(participant)).Msg("failed to get scorecard")
		return domain.ScoreCard{}, err
	}
	return card, nil
}

func (s *GameService) GetMatch(ctx context.Context, id domain.MatchID) (domain.MatchView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	m, err := s.store.GetMatch(ctx, id)
	if errors.Is(err, game.ErrNotFound) {
		return domain.MatchView{}, game.ErrGameDoesNotExist
	}
	if err != nil {
		s.logger.Error().Err(err).Str("match_id", string(id)).Msg("failed to get match")
		return domain.MatchView{}, err
	}
	return m.View(), nil
}

func (s *GameService) ListMatches(ctx context.Context) ([]domain.MatchID, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	ids, err := s.store.ListMatchIDs(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list matches")
		return nil, err
	}
	if ids == nil {
		ids = []domain.MatchID{}
	}
	return ids, nil
}

// ExpirePending removes up to one batch of unaccepted challenges created
// before cutoff and reports how many were removed.
func (s *GameService) ExpirePending(ctx context.Context, cutoff time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	candidates, err := s.store.ListPendingBefore(ctx, cutoff, constants.SweepBatchLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list pending matches")
		return 0, fmt.Errorf("failed to list pending matches: %w", err)
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	var (
		mu      sync.Mutex
		expired []*game.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(constants.SweepConcurrency)
	for _, c := range candidates {
		c := c
		g.Go(func() error {
			m, err := s.expire(gCtx, c.ID, cutoff)
			if err != nil {
				return fmt.Errorf("failed to expire match %s: %w", c.ID, err)
			}
			if m != nil {
				mu.Lock()
				expired = append(expired, m)
				mu.Unlock()
			}
			return nil
		})
	}
	err = g.Wait()

	for _, m := range expired {
		s.emit(ctx, domain.Event{Kind: domain.EventChallengeExpired, MatchID: m.ID, Actor: m.PlayerOne, Counterparty: m.PlayerTwo})
	}
	if err != nil {
		s.logger.Error().Err(err).Int("expired", len(expired)).Msg("failed to expire pending matches")
		return len(expired), err
	}

	s.logger.Info().Int("expired", len(expired)).Time("cutoff", cutoff).Msg("pending matches expired")
	return len(expired), nil
}

// expire re-reads the match under its pair lock; it may have been
// accepted or declined since it was listed.
func (s *GameService) expire(ctx context.Context, id domain.MatchID, cutoff time.Time) (*game.Match, error) {
	m, err := s.store.GetMatch(ctx, id)
	if errors.Is(err, game.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(m.PlayerOne, m.PlayerTwo)
	defer unlock()

	var removed *game.Match
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx game.Tx) error {
		current, err := tx.GetMatch(ctx, id)
		if errors.Is(err, game.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if current.Accepted || !current.CreatedAt.Before(cutoff) {
			return nil
		}
		removed = current
		return s.discard(ctx, tx, current)
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// lookup resolves the live match of a pair, reporting missing with notFound.
func (s *GameService) lookup(ctx context.Context, tx game.Tx, a, b domain.ParticipantID, notFound error) (*game.Match, error) {
	registry := game.NewChallengeRegistry(tx, tx, s.ids)
	id, err := registry.Lookup(ctx, a, b)
	if errors.Is(err, game.ErrGameDoesNotExist) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}

	m, err := tx.GetMatch(ctx, id)
	if errors.Is(err, game.ErrNotFound) {
		s.logger.Warn().Str("match_id", string(id)).Msg("registry points at a missing match")
		return nil, notFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %s: %w", id, err)
	}
	return m, nil
}

func (s *GameService) discard(ctx context.Context, tx game.Tx, m *game.Match) error {
	registry := game.NewChallengeRegistry(tx, tx, s.ids)
	if err := registry.Remove(ctx, m.PlayerOne, m.PlayerTwo); err != nil {
		return err
	}
	if err := tx.DeleteMatch(ctx, m.ID); err != nil {
		return fmt.Errorf("failed to delete match %s: %w", m.ID, err)
	}
	return nil
}

func (s *GameService) emit(ctx context.Context, evs ...domain.Event) {
	for _, e := range evs {
		s.sink.Emit(ctx, e)
	}
}

func (s *GameService) logFailure(err error, op string, a, b domain.ParticipantID) {
	if code := game.CodeOf(err); code != game.CodeUnknown {
		s.logger.Debug().
			Str("op", op).
			Str("code", string(code)).
			Str("participant", string(a)).
			Str("counterparty", string(b)).
			Msg("operation rejected")
		return
	}
	s.logger.Error().
		Err(err).
		Str("op", op).
		Str("participant", string(a)).
		Str("counterparty", string(b)).
		Msg("operation failed")
}
