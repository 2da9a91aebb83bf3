package mq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func sample() *GameResult {
	return &GameResult{
		MatchID:   "m-1",
		Room:      "ABC123",
		Result:    "Red Wins!",
		Winner:    "red",
		ScoreRed:  2,
		ScoreBlue: 1,
		Duration:  180,
		Players:   []PlayerResult{{ID: "host", Name: "Host", Team: "red"}},
		Timestamp: 1700000000,
	}
}

func TestEncodeUsesSnakeCaseKeys(t *testing.T) {
	body, err := Encode(sample())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, msgpack.Unmarshal(body, &raw))
	assert.Equal(t, "m-1", raw["match_id"])
	assert.Contains(t, raw, "score_red")

	back, err := Decode(body)
	require.NoError(t, err)
	assert.Equal(t, sample(), back)
}

func TestHandleOutcomes(t *testing.T) {
	ctx := context.Background()
	body, err := Encode(sample())
	require.NoError(t, err)

	var saved *GameResult
	ok := func(_ context.Context, r *GameResult) error { saved = r; return nil }
	assert.Equal(t, Ack, Handle(ctx, body, ok))
	assert.Equal(t, "m-1", saved.MatchID)

	fail := func(context.Context, *GameResult) error { return errors.New("db down") }
	assert.Equal(t, Requeue, Handle(ctx, body, fail))

	assert.Equal(t, Drop, Handle(ctx, []byte("garbage"), ok))

	empty, err := msgpack.Marshal(&GameResult{Result: "Draw!"})
	require.NoError(t, err)
	assert.Equal(t, Drop, Handle(ctx, empty, ok))
}

func TestDiscardAcceptsEverything(t *testing.T) {
	assert.NoError(t, Discard{}.PublishGameResult(context.Background(), sample()))
}
