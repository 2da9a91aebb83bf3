package core

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"mygame/football/internal/model"
	"mygame/football/internal/physics"
	pb "mygame/football/proto"
)

// Controller reads the local control state once per frame.
type Controller func(p *Participant) pb.Input

// Renderer is handed the participant after every frame.
type Renderer func(p *Participant)

// ChaseController steers the player owned by id to the far side of the ball
// from the goal it attacks and kicks whenever the ball is in reach.
func ChaseController(id string) Controller {
	return func(p *Participant) pb.Input {
		m := p.Match()
		if m == nil || p.Phase() != PhaseRunning {
			return pb.Input{}
		}
		me := m.Find(id)
		if me == nil {
			return pb.Input{}
		}
		goal := model.V(me.Team.TargetGoalX(), model.FieldHeight/2)
		behind := m.Ball.Pos.Sub(goal.Sub(m.Ball.Pos).Norm().Scale(model.PlayerRadius))

		var in pb.Input
		if to := behind.Sub(me.Pos); to.Len() > 2 {
			d := to.Norm()
			in.StickX, in.StickY, in.StickActive = d.X, d.Y, true
		}
		in.Kick = me.Pos.Dist(m.Ball.Pos) < physics.ContactDistance()+6
		return in
	}
}

type arrival struct {
	at  time.Time
	msg pb.Message
}

// RunParticipant drives p over conn until the connection closes or ctx
// ends. The network reader only queues arrivals; the frame loop is the
// single goroutine touching p.
func RunParticipant(ctx context.Context, conn *WebSocketConn, p *Participant, frame time.Duration, control Controller, render Renderer) error {
	if frame <= 0 {
		frame = 16 * time.Millisecond
	}
	g, ctx := errgroup.WithContext(ctx)
	arrivals := make(chan arrival, 64)

	g.Go(func() error {
		defer close(arrivals)
		return conn.ReadLoop(ctx, func(data []byte) {
			msg, err := pb.Unmarshal(data)
			if err != nil {
				log.Debug().Err(err).Msg("dropping undecodable frame")
				return
			}
			select {
			case arrivals <- arrival{at: time.Now(), msg: msg}:
			case <-ctx.Done():
			}
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(frame)
		defer ticker.Stop()
		defer p.Close()

		for {
			select {
			case <-ctx.Done():
				return nil
			case a, ok := <-arrivals:
				if !ok {
					return nil
				}
				p.Handle(a.at, a.msg)
			case now := <-ticker.C:
				if control != nil {
					p.SetInput(control(p))
				}
				p.Frame(now)
				if render != nil {
					render(p)
				}
			}
		}
	})

	err := g.Wait()
	conn.Close()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
