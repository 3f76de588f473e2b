// Package memory provides an in-process implementation of game.Store.
//
// Committed state is an immutable snapshot guarded by an RWMutex. A
// transaction works on a private copy and publishes it on success, so
// readers never see a partial write. Write transactions are serialized.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"connect-four/internal/domain"
	"connect-four/internal/game"
)

type pairKey struct {
	participant  domain.ParticipantID
	counterparty domain.ParticipantID
}

type state struct {
	matches    map[domain.MatchID]*game.Match
	challenges map[pairKey]domain.MatchID
	cards      map[domain.ParticipantID]domain.ScoreCard
	nonce      uint64
}

func newState() *state {
	return &state{
		matches:    make(map[domain.MatchID]*game.Match),
		challenges: make(map[pairKey]domain.MatchID),
		cards:      make(map[domain.ParticipantID]domain.ScoreCard),
	}
}

func (s *state) clone() *state {
	out := &state{
		matches:    make(map[domain.MatchID]*game.Match, len(s.matches)),
		challenges: make(map[pairKey]domain.MatchID, len(s.challenges)),
		cards:      make(map[domain.ParticipantID]domain.ScoreCard, len(s.cards)),
		nonce:      s.nonce,
	}
	for k, v := range s.matches {
		out.matches[k] = copyMatch(v)
	}
	for k, v := range s.challenges {
		out.challenges[k] = v
	}
	for k, v := range s.cards {
		out.cards[k] = v
	}
	return out
}

// Store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	committed *state
	writeMu   sync.Mutex
}

func New() *Store {
	return &Store{committed: newState()}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx game.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(ctx, &tx{st: work}); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}

func (s *Store) read() *tx {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &tx{st: s.committed}
}

func (s *Store) GetMatch(ctx context.Context, id domain.MatchID) (*game.Match, error) {
	return s.read().GetMatch(ctx, id)
}

func (s *Store) ListMatchIDs(ctx context.Context) ([]domain.MatchID, error) {
	return s.read().ListMatchIDs(ctx)
}

func (s *Store) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*game.Match, error) {
	return s.read().ListPendingBefore(ctx, cutoff, limit)
}

func (s *Store) GetChallenge(ctx context.Context, participant, counterparty domain.ParticipantID) (domain.MatchID, error) {
	return s.read().GetChallenge(ctx, participant, counterparty)
}

func (s *Store) GetScoreCard(ctx context.Context, p domain.ParticipantID) (domain.ScoreCard, error) {
	return s.read().GetScoreCard(ctx, p)
}

func (s *Store) PutMatch(ctx context.Context, m *game.Match) error {
	return s.WithinTx(ctx, func(ctx context.Context, tx game.Tx) error { return tx.PutMatch(ctx, m) })
}

func (s *Store) DeleteMatch(ctx context.Context, id domain.MatchID) error {
	return s.WithinTx(ctx, func(ctx context.Context, tx game.Tx) error { return tx.DeleteMatch(ctx, id) })
}

func (s *Store) PutChallenge(ctx context.Context, participant, counterparty domain.ParticipantID, id domain.MatchID) error {
	return s.WithinTx(ctx, func(ctx context.Context, tx game.Tx) error {
		return tx.PutChallenge(ctx, participant, counterparty, id)
	})
}

func (s *Store) DeleteChallenge(ctx context.Context, participant, counterparty domain.ParticipantID) error {
	return s.WithinTx(ctx, func(ctx context.Context, tx game.Tx) error {
		return tx.DeleteChallenge(ctx, participant, counterparty)
	})
}

func (s *Store) PutScoreCard(ctx context.Context, p domain.ParticipantID, card domain.ScoreCard) error {
	return s.WithinTx(ctx, func(ctx context.Context, tx game.Tx) error { return tx.PutScoreCard(ctx, p, card) })
}

func (s *Store) NextNonce(ctx context.Context) (uint64, error) {
	var n uint64
	err := s.WithinTx(ctx, func(ctx context.Context, tx game.Tx) error {
		var err error
		n, err = tx.NextNonce(ctx)
		return err
	})
	return n, err
}

// tx reads and writes one state value without locking. The committed
// snapshot is only ever read through it.
type tx struct {
	st *state
}

func (t *tx) GetMatch(ctx context.Context, id domain.MatchID) (*game.Match, error) {
	m, ok := t.st.matches[id]
	if !ok {
		return nil, game.ErrNotFound
	}
	return copyMatch(m), nil
}

func (t *tx) PutMatch(ctx context.Context, m *game.Match) error {
	t.st.matches[m.ID] = copyMatch(m)
	return nil
}

func (t *tx) DeleteMatch(ctx context.Context, id domain.MatchID) error {
	delete(t.st.matches, id)
	return nil
}

func (t *tx) ListMatchIDs(ctx context.Context) ([]domain.MatchID, error) {
	ms := t.sorted(func(*game.Match) bool { return true })
	ids := make([]domain.MatchID, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return ids, nil
}

func (t *tx) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*game.Match, error) {
	ms := t.sorted(func(m *game.Match) bool {
		return !m.Accepted && m.CreatedAt.Before(cutoff)
	})
	if limit >= 0 && len(ms) > limit {
		ms = ms[:limit]
	}
	return ms, nil
}

func (t *tx) sorted(keep func(*game.Match) bool) []*game.Match {
	out := make([]*game.Match, 0, len(t.st.matches))
	for _, m := range t.st.matches {
		if keep(m) {
			out = append(out, copyMatch(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (t *tx) GetChallenge(ctx context.Context, participant, counterparty domain.ParticipantID) (domain.MatchID, error) {
	id, ok := t.st.challenges[pairKey{participant, counterparty}]
	if !ok {
		return "", game.ErrNotFound
	}
	return id, nil
}

func (t *tx) PutChallenge(ctx context.Context, participant, counterparty domain.ParticipantID, id domain.MatchID) error {
	t.st.challenges[pairKey{participant, counterparty}] = id
	return nil
}

func (t *tx) DeleteChallenge(ctx context.Context, participant, counterparty domain.ParticipantID) error {
	delete(t.st.challenges, pairKey{participant, counterparty})
	return nil
}

func (t *tx) GetScoreCard(ctx context.Context, p domain.ParticipantID) (domain.ScoreCard, error) {
	return t.st.cards[p], nil
}

func (t *tx) PutScoreCard(ctx context.Context, p domain.ParticipantID, card domain.ScoreCard) error {
	t.st.cards[p] = card
	return nil
}

func (t *tx) NextNonce(ctx context.Context) (uint64, error) {
	t.st.nonce++
	return t.st.nonce, nil
}

func copyMatch(m *game.Match) *game.Match {
	out := *m
	if m.LastMover != nil {
		last := *m.LastMover
		out.LastMover = &last
	}
	if m.Board != nil {
		b := *m.Board
		out.Board = &b
	}
	return &out
}
