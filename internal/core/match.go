package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"mygame/football/internal/agent"
	"mygame/football/internal/lobby"
	"mygame/football/internal/model"
	"mygame/football/internal/mq"
	"mygame/football/internal/netsync"
	"mygame/football/internal/physics"
	pb "mygame/football/proto"
)

// Match exposes the authoritative state to the owning goroutine. It is nil
// until a match starts.
func (r *Room) Match() *model.Match { return r.match }

func (r *Room) Phase() Phase { return r.phase }

// StartAt sets the match up from the current roster, tells every peer and
// enters the countdown.
func (r *Room) StartAt(now time.Time, minutes int) error {
	if r.phase != PhaseLobby {
		return ErrStarted
	}
	duration, err := lobby.Minutes(minutes)
	if err != nil {
		return err
	}
	roster := r.lobby.Roster()
	if roster.Size() == 0 {
		return ErrEmptyRoster
	}

	r.setPhase(PhaseSetup)
	seed := r.opts.Seed
	if seed == 0 {
		seed = uint64(now.UnixNano())
	}
	r.match = model.New(roster, duration)
	r.planner = agent.NewPlanner(r.opts.Agent, r.opts.Physics, seed)
	r.matchID = uuid.NewString()
	r.latest = physics.Inputs{}
	r.snapshots.Reset()
	r.over = false
	r.result = ""
	r.lastTick = now

	red, blue := netsync.RosterOf(roster)
	r.broadcast(&pb.Start{Red: red, Blue: blue, Duration: duration, DisplayOnly: r.lobby.DisplayOnly})

	r.until = now.Add(r.opts.Countdown)
	r.setPhase(PhaseCountdown)
	log.Info().Str("room", r.Code).Str("match", r.matchID).Int("players", roster.Size()).
		Float64("duration", duration).Msg("match starting")
	return nil
}

// Tick advances the phase machine to now. Physics and agents only run in
// PhaseRunning, and so does the match clock.
func (r *Room) Tick(now time.Time) {
	var elapsed time.Duration
	if !r.lastTick.IsZero() && now.After(r.lastTick) {
		elapsed = now.Sub(r.lastTick)
	}
	r.lastTick = now

	switch r.phase {
	case PhaseCountdown:
		if !now.Before(r.until) {
			r.setPhase(PhaseRunning)
		}
	case PhaseRunning:
		r.step(now, elapsed)
	case PhaseGoalPause:
		if !now.Before(r.until) {
			r.match.ResetPositions()
			r.setPhase(PhaseRunning)
		}
	}

	if r.live() && r.snapshots.Due(now) {
		r.broadcastState()
	}
}

func (r *Room) live() bool {
	switch r.phase {
	case PhaseCountdown, PhaseRunning, PhaseGoalPause:
		return true
	}
	return false
}

func (r *Room) step(now time.Time, elapsed time.Duration) {
	m := r.match
	dt := model.StepFor(elapsed)

	r.planner.Update(m, dt)
	goal := r.engine.Step(m, r.latest, dt)

	m.TimeLeft -= elapsed.Seconds()
	if m.TimeLeft <= 0 {
		m.TimeLeft = 0
		r.end(now)
		return
	}
	if goal != nil {
		log.Info().Str("room", r.Code).Stringer("scorer", goal.Scorer).
			Int("red", m.Score.Red).Int("blue", m.Score.Blue).Msg("goal")
		r.until = now.Add(r.opts.GoalPause)
		r.setPhase(PhaseGoalPause)
	}
}

// end runs once per match: final snapshot, GAME_OVER, result hand-off.
func (r *Room) end(now time.Time) {
	if r.over {
		return
	}
	r.over = true
	m := r.match
	r.result = m.Result()
	r.setPhase(PhaseEnded)

	r.broadcastState()
	r.broadcast(&pb.GameOver{Result: r.result, ScoreRed: m.Score.Red, ScoreBlue: m.Score.Blue})
	log.Info().Str("room", r.Code).Str("match", r.matchID).Str("result", r.result).
		Int("red", m.Score.Red).Int("blue", m.Score.Blue).Msg("match over")

	res := r.gameResult(now)
	sink := r.opts.Sink
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sink.PublishGameResult(ctx, res); err != nil {
			log.Error().Err(err).Str("match", res.MatchID).Msg("publish result failed")
		}
	}()
}

func (r *Room) setPhase(p Phase) {
	if r.phase == p {
		return
	}
	r.phase = p
	r.publish()
	if p != PhaseSetup {
		r.advertise()
	}
}

func (r *Room) broadcastState() {
	if len(r.peers) > 0 {
		if r.lobby.DisplayOnly {
			r.broadcast(netsync.CaptureHUD(r.match))
		} else {
			r.broadcast(netsync.Capture(r.match))
		}
	}
	r.publish()
}

func (r *Room) gameResult(now time.Time) *mq.GameResult {
	m := r.match
	res := &mq.GameResult{
		MatchID:   r.matchID,
		Room:      r.Code,
		Result:    r.result,
		ScoreRed:  m.Score.Red,
		ScoreBlue: m.Score.Blue,
		Duration:  m.Duration,
		Timestamp: now.Unix(),
	}
	if t, ok := m.Score.Winner(); ok {
		res.Winner = t.String()
	}
	for _, p := range m.Players {
		res.Players = append(res.Players, mq.PlayerResult{
			ID:   p.Key(),
			Name: p.Name,
			Team: p.Team.String(),
			Bot:  p.Agent() != nil,
		})
	}
	return res
}
