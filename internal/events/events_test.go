package events

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"connect-four/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSinkWritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(zerolog.New(&buf))

	sink.Emit(context.Background(), domain.Event{
		Kind:         domain.EventGameWon,
		MatchID:      "match-1",
		Actor:        "alice",
		Counterparty: "bob",
		Winner:       "alice",
	})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "game_won", rec["event"])
	assert.Equal(t, "match-1", rec["match_id"])
	assert.Equal(t, "alice", rec["winner"])
	assert.Equal(t, "events", rec["component"])
}

func TestRecorderKeepsOrder(t *testing.T) {
	var rec Recorder

	rec.Emit(context.Background(), domain.Event{Kind: domain.EventGameCreated})
	rec.Emit(context.Background(), domain.Event{Kind: domain.EventChallengeReceived})

	want := []domain.EventKind{domain.EventGameCreated, domain.EventChallengeReceived}
	assert.Equal(t, want, rec.Kinds())

	rec.Reset()
	assert.Empty(t, rec.Events())
}
