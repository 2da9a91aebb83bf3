package mq

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"
)

// SaveFunc persists one result. An error requeues the delivery.
type SaveFunc func(ctx context.Context, r *GameResult) error

type Consumer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func DialConsumer(url, queue string) (*Consumer, error) {
	conn, ch, err := open(url, queue)
	if err != nil {
		return nil, err
	}
	return &Consumer{conn: conn, ch: ch, queue: queue}, nil
}

// Run consumes until ctx is done or the broker closes the channel.
func (c *Consumer) Run(ctx context.Context, save SaveFunc) error {
	msgs, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}
	log.Info().Str("queue", c.queue).Msg("mq consumer started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("mq delivery channel closed")
			}
			switch Handle(ctx, msg.Body, save) {
			case Ack:
				msg.Ack(false)
			case Requeue:
				msg.Nack(false, true)
			case Drop:
				msg.Nack(false, false)
			}
		}
	}
}

func (c *Consumer) Close() error {
	c.ch.Close()
	return c.conn.Close()
}

type Outcome int

const (
	Ack Outcome = iota
	Requeue
	Drop
)

// Handle decides the fate of one delivery: undecodable bodies are dropped,
// failed saves requeued.
func Handle(ctx context.Context, body []byte, save SaveFunc) Outcome {
	r, err := Decode(body)
	if err != nil {
		log.Warn().Err(err).Msg("dropping malformed result")
		return Drop
	}
	if err := save(ctx, r); err != nil {
		log.Error().Err(err).Str("match", r.MatchID).Msg("save result failed")
		return Requeue
	}
	log.Info().Str("match", r.MatchID).Str("result", r.Result).Msg("game result saved")
	return Ack
}
