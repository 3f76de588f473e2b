package game

import (
	"context"
	"fmt"

	"connect-four/internal/domain"
)

// ScoreLedger owns every scorecard mutation. Nothing else writes cards.
type ScoreLedger struct {
	store  ScoreCardStore
	points domain.Points
}

func NewScoreLedger(store ScoreCardStore, points domain.Points) *ScoreLedger {
	return &ScoreLedger{store: store, points: points}
}

func (l *ScoreLedger) Points() domain.Points {
	return l.points
}

func (l *ScoreLedger) Get(ctx context.Context, p domain.ParticipantID) (domain.ScoreCard, error) {
	card, err := l.store.GetScoreCard(ctx, p)
	if err != nil {
		return domain.ScoreCard{}, fmt.Errorf("failed to get scorecard for %s: %w", p, err)
	}
	return card, nil
}

func (l *ScoreLedger) ApplyAcceptance(ctx context.Context, p1, p2 domain.ParticipantID) error {
	return l.update(ctx, func(c *domain.ScoreCard) { c.Played++ }, p1, p2)
}

func (l *ScoreLedger) ApplyWin(ctx context.Context, winner, loser domain.ParticipantID, winPoints, lossPoints uint32) error {
	if err := l.update(ctx, func(c *domain.ScoreCard) {
		c.Won++
		c.Points += int64(winPoints)
	}, winner); err != nil {
		return err
	}
	return l.update(ctx, func(c *domain.ScoreCard) {
		c.Lost++
		c.Points -= int64(lossPoints)
	}, loser)
}

func (l *ScoreLedger) ApplyDraw(ctx context.Context, p1, p2 domain.ParticipantID, drawPoints uint32) error {
	return l.update(ctx, func(c *domain.ScoreCard) {
		c.Draw++
		c.Points += int64(drawPoints)
	}, p1, p2)
}

func (l *ScoreLedger) update(ctx context.Context, fn func(*domain.ScoreCard), participants ...domain.ParticipantID) error {
	for _, p := range participants {
		card, err := l.Get(ctx, p)
		if err != nil {
			return err
		}
		fn(&card)
		if err := l.store.PutScoreCard(ctx, p, card); err != nil {
			return fmt.Errorf("failed to put scorecard for %s: %w", p, err)
		}
	}
	return nil
}
