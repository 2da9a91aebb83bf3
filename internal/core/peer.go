package core

import (
	"context"

	"mygame/football/internal/mq"
	pb "mygame/football/proto"
)

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -destination=./mocks/core_mock.go -package=mocks . ResultSink,Directory

// Peer is one end of a participant channel as seen by the authority.
type Peer interface {
	ID() string
	Send(m pb.Message) error
	Close()
}

// ResultSink receives the result of every finished match.
type ResultSink interface {
	PublishGameResult(ctx context.Context, r *mq.GameResult) error
}

// Directory advertises rooms to other services.
type Directory interface {
	SaveRoom(ctx context.Context, code string, data map[string]interface{}) error
	UpdateRoom(ctx context.Context, code string, data map[string]interface{}) error
	RemoveRoom(ctx context.Context, code string) error
}
