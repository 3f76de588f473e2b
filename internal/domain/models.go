package domain

import (
	"fmt"
	"time"
)

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

type ParticipantID string

type MatchID string

// Coin is the value occupying one board cell.
type Coin uint8

const (
	Empty     Coin = 0
	PlayerOne Coin = 1
	PlayerTwo Coin = 2
)

func (c Coin) String() string {
	switch c {
	case Empty:
		return "empty"
	case PlayerOne:
		return "player_one"
	case PlayerTwo:
		return "player_two"
	default:
		return fmt.Sprintf("coin(%d)", uint8(c))
	}
}

// Player returns the side owning the coin. Empty has no owner.
func (c Coin) Player() (Player, bool) {
	switch c {
	case PlayerOne:
		return One, true
	case PlayerTwo:
		return Two, true
	default:
		return 0, false
	}
}

type Player uint8

const (
	One Player = 1
	Two Player = 2
)

func (p Player) Coin() Coin {
	if p == One {
		return PlayerOne
	}
	return PlayerTwo
}

func (p Player) String() string {
	if p == One {
		return "one"
	}
	return "two"
}

// Grid is a 6x7 board, row 0 at the bottom.
type Grid [Rows][Columns]Coin

type OutcomeKind uint8

const (
	InProgress OutcomeKind = iota
	Win
	Draw
)

// Outcome is the result classification of a match. Winner is only
// meaningful when Kind is Win.
type Outcome struct {
	Kind   OutcomeKind
	Winner Player
}

func WonBy(p Player) Outcome { return Outcome{Kind: Win, Winner: p} }

func Drawn() Outcome { return Outcome{Kind: Draw} }

func (o Outcome) Terminal() bool { return o.Kind != InProgress }

func (o Outcome) String() string {
	switch o.Kind {
	case Win:
		return "won_by_" + o.Winner.String()
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "in_progress", "":
		*o = Outcome{}
	case "won_by_one":
		*o = WonBy(One)
	case "won_by_two":
		*o = WonBy(Two)
	case "draw":
		*o = Drawn()
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}

// ScoreCard carries cumulative statistics for one participant.
// Ongoing is kept for data-shape compatibility and is never updated.
type ScoreCard struct {
	Played  uint64 `json:"played"`
	Won     uint64 `json:"won"`
	Draw    uint64 `json:"draw"`
	Lost    uint64 `json:"lost"`
	Ongoing uint64 `json:"ongoing"`
	Points  int64  `json:"points"`
}

// Points configures the ledger deltas applied on match resolution.
type Points struct {
	Win  uint32
	Loss uint32
	Draw uint32
}

// MatchView is the read-only projection of a match. Board is nil unless
// the match is active.
type MatchView struct {
	ID        MatchID        `json:"id"`
	PlayerOne ParticipantID  `json:"player_one"`
	PlayerTwo ParticipantID  `json:"player_two"`
	Accepted  bool           `json:"accepted"`
	Active    bool           `json:"active"`
	LastMover *ParticipantID `json:"last_mover,omitempty"`
	Outcome   Outcome        `json:"outcome"`
	Board     *Grid          `json:"board,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type EventKind string

const (
	EventChallengeReceived EventKind = "challenge_received"
	EventChallengeAccepted EventKind = "challenge_accepted"
	EventChallengeDenied   EventKind = "challenge_denied"
	EventChallengeExpired  EventKind = "challenge_expired"
	EventGameCreated       EventKind = "game_created"
	EventMoveMade          EventKind = "move_made"
	EventGameWon           EventKind = "game_won"
	EventGameDrawn         EventKind = "game_drawn"
	EventGameEnded         EventKind = "game_ended"
)

// Event is a notification about a committed state change.
type Event struct {
	Kind         EventKind
	MatchID      MatchID
	Actor        ParticipantID
	Counterparty ParticipantID
	Winner       ParticipantID // game_won only
	Column       int           // move_made only
}
