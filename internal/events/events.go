// Package events delivers committed game events to observers.
package events

import (
	"context"
	"sync"

	"connect-four/internal/domain"

	"github.com/rs/zerolog"
)

// Sink receives events after the state change they describe is committed.
type Sink interface {
	Emit(ctx context.Context, e domain.Event)
}

// LogSink writes each event as a structured log record.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("component", "events").Logger()}
}

func (s *LogSink) Emit(ctx context.Context, e domain.Event) {
	ev := s.logger.Info().
		Str("event", string(e.Kind)).
		Str("match_id", string(e.MatchID))
	if e.Actor != "" {
		ev = ev.Str("actor", string(e.Actor))
	}
	if e.Counterparty != "" {
		ev = ev.Str("counterparty", string(e.Counterparty))
	}
	switch e.Kind {
	case domain.EventGameWon:
		ev = ev.Str("winner", string(e.Winner))
	case domain.EventMoveMade:
		ev = ev.Int("column", e.Column)
	}
	ev.Msg("game event")
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *Recorder) Emit(ctx context.Context, e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Kinds() []domain.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
