// Package mq moves finished match results over AMQP.
package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"
)

type Producer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// Dial connects and declares the durable result queue.
func Dial(url, queue string) (*Producer, error) {
	conn, ch, err := open(url, queue)
	if err != nil {
		return nil, err
	}
	return &Producer{conn: conn, ch: ch, queue: queue}, nil
}

func open(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("mq connect: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("mq channel: %w", err)
	}
	// 声明队列
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("mq queue declare: %w", err)
	}
	return conn, ch, nil
}

func (p *Producer) PublishGameResult(ctx context.Context, r *GameResult) error {
	body, err := Encode(r)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err = p.ch.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  ContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    r.MatchID,
		Timestamp:    time.Unix(r.Timestamp, 0),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish result %s: %w", r.MatchID, err)
	}
	return nil
}

func (p *Producer) Close() error {
	p.ch.Close()
	return p.conn.Close()
}

// Discard is used when no broker is configured.
type Discard struct{}

func (Discard) PublishGameResult(_ context.Context, r *GameResult) error {
	log.Info().Str("match", r.MatchID).Str("result", r.Result).Msg("no broker configured, result not published")
	return nil
}
