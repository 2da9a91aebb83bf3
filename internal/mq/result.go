package mq

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ContentType marks result bodies on the queue.
const ContentType = "application/msgpack"

// GameResult is published once per finished match.
type GameResult struct {
	MatchID   string         `msgpack:"match_id" json:"match_id"`
	Room      string         `msgpack:"room" json:"room"`
	Result    string         `msgpack:"result" json:"result"`
	Winner    string         `msgpack:"winner" json:"winner"` // "red", "blue" or "" on a draw
	ScoreRed  int            `msgpack:"score_red" json:"score_red"`
	ScoreBlue int            `msgpack:"score_blue" json:"score_blue"`
	Duration  float64        `msgpack:"duration" json:"duration"`
	Players   []PlayerResult `msgpack:"players" json:"players"`
	Timestamp int64          `msgpack:"timestamp" json:"timestamp"`
}

type PlayerResult struct {
	ID   string `msgpack:"id" json:"id"`
	Name string `msgpack:"name" json:"name"`
	Team string `msgpack:"team" json:"team"`
	Bot  bool   `msgpack:"bot" json:"bot"`
}

func Encode(r *GameResult) ([]byte, error) {
	b, err := msgpack.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode game result: %w", err)
	}
	return b, nil
}

func Decode(body []byte) (*GameResult, error) {
	var r GameResult
	if err := msgpack.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode game result: %w", err)
	}
	if r.MatchID == "" {
		return nil, fmt.Errorf("decode game result: missing match_id")
	}
	return &r, nil
}
