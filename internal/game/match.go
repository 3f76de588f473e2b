package game

import (
	"context"
	"time"

	"connect-four/internal/domain"
)

type State uint8

const (
	Pending State = iota
	Active
	Ended
)

func (s State) String() string {
	switch s {
	case Active:
		return "in_progress"
	case Ended:
		return "ended"
	default:
		return "pending"
	}
}

// Match is one game between a challenger (PlayerOne) and the challenged
// participant (PlayerTwo). Board is non-nil only while Active.
type Match struct {
	ID        domain.MatchID
	PlayerOne domain.ParticipantID
	PlayerTwo domain.ParticipantID
	Accepted  bool
	Active    bool
	LastMover *domain.ParticipantID
	Outcome   domain.Outcome
	Board     *Board
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewMatch(id domain.MatchID, challenger, opponent domain.ParticipantID, now time.Time) *Match {
	return &Match{
		ID:        id,
		PlayerOne: challenger,
		PlayerTwo: opponent,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (m *Match) State() State {
	switch {
	case m.Outcome.Terminal():
		return Ended
	case m.Accepted:
		return Active
	default:
		return Pending
	}
}

// NextMover is inferred from the last mover; the challenger opens.
func (m *Match) NextMover() domain.ParticipantID {
	if m.LastMover == nil {
		return m.PlayerOne
	}
	return m.Other(*m.LastMover)
}

// Other returns the opposing participant of p.
func (m *Match) Other(p domain.ParticipantID) domain.ParticipantID {
	if p == m.PlayerOne {
		return m.PlayerTwo
	}
	return m.PlayerOne
}

func (m *Match) seatOf(p domain.ParticipantID) domain.Player {
	if p == m.PlayerOne {
		return domain.One
	}
	return domain.Two
}

func (m *Match) participantFor(p domain.Player) domain.ParticipantID {
	if p == domain.One {
		return m.PlayerOne
	}
	return m.PlayerTwo
}

// Accept moves a pending match to in-progress and counts it as played
// for both participants.
func (m *Match) Accept(ctx context.Context, by domain.ParticipantID, ledger *ScoreLedger) error {
	if by == m.PlayerOne {
		return ErrCannotAcceptOwnChallenge
	}
	if m.Accepted {
		return ErrActiveGameExists
	}
	if err := ledger.ApplyAcceptance(ctx, m.PlayerOne, m.PlayerTwo); err != nil {
		return err
	}
	m.Board = NewBoard()
	m.Accepted = true
	m.Active = true
	return nil
}

// Play drops the mover's coin into column and resolves the outcome. On a
// terminal outcome the ledger is updated and the pair leaves the
// registry. m is left untouched when an error is returned.
func (m *Match) Play(ctx context.Context, mover domain.ParticipantID, column int, ledger *ScoreLedger, registry *ChallengeRegistry) (domain.Outcome, error) {
	if m.Outcome.Terminal() {
		return m.Outcome, ErrGameEnded
	}
	if !m.Active || m.Board == nil {
		return m.Outcome, ErrBoardNotReady
	}
	if mover != m.NextMover() {
		return m.Outcome, ErrNotYourMove
	}

	coin := m.seatOf(mover).Coin()

	board := *m.Board
	row, err := board.Drop(column, coin)
	if err != nil {
		return m.Outcome, err
	}

	outcome := domain.Outcome{}
	if winner, ok := board.WinnerThrough(row, column); ok {
		p, _ := winner.Player()
		outcome = domain.WonBy(p)
	} else if board.IsFull() {
		outcome = domain.Drawn()
	}

	pts := ledger.Points()
	switch outcome.Kind {
	case domain.Win:
		w := m.participantFor(outcome.Winner)
		if err := ledger.ApplyWin(ctx, w, m.Other(w), pts.Win, pts.Loss); err != nil {
			return m.Outcome, err
		}
	case domain.Draw:
		if err := ledger.ApplyDraw(ctx, m.PlayerOne, m.PlayerTwo, pts.Draw); err != nil {
			return m.Outcome, err
		}
	}
	if outcome.Terminal() {
		if err := registry.Remove(ctx, m.PlayerOne, m.PlayerTwo); err != nil {
			return m.Outcome, err
		}
	}

	last := mover
	m.LastMover = &last
	m.Outcome = outcome
	if outcome.Terminal() {
		m.Active = false
		m.Board = nil
	} else {
		m.Board = &board
	}
	return outcome, nil
}

// Winner returns the winning participant of an ended match.
func (m *Match) Winner() (domain.ParticipantID, bool) {
	if m.Outcome.Kind != domain.Win {
		return "", false
	}
	return m.participantFor(m.Outcome.Winner), true
}

func (m *Match) View() domain.MatchView {
	v := domain.MatchView{
		ID:        m.ID,
		PlayerOne: m.PlayerOne,
		PlayerTwo: m.PlayerTwo,
		Accepted:  m.Accepted,
		Active:    m.Active,
		Outcome:   m.Outcome,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.LastMover != nil {
		last := *m.LastMover
		v.LastMover = &last
	}
	if m.Active && m.Board != nil {
		g := m.Board.Grid()
		v.Board = &g
	}
	return v
}
