// Package agent decides where autonomous players run and when they kick.
// Decisions are re-evaluated on a jittered per-player timer; physics turns
// the resulting target and kick intent into motion.
package agent

import (
	"math"
	"math/rand/v2"

	"mygame/football/internal/model"
	"mygame/football/internal/physics"
)

type Planner struct {
	T     Tuning
	reach float64
	rng   *rand.Rand
}

// NewPlanner seeds its own random source; equal seeds replay equal matches.
func NewPlanner(t Tuning, pr physics.Params, seed uint64) *Planner {
	return &Planner{
		T:     t,
		reach: pr.ReachDistance(),
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Update counts down every agent's replan timer and re-plans those due.
func (pl *Planner) Update(m *model.Match, dt float64) {
	for _, p := range m.Players {
		a := p.Agent()
		if a == nil {
			continue
		}
		a.Replan -= dt
		if a.Replan > 0 {
			continue
		}
		a.Replan = pl.T.ReplanMin + pl.rng.Float64()*pl.T.ReplanJitter
		pl.Plan(m, p)
	}
}

// Plan chooses a new target and kick intent for one agent.
func (pl *Planner) Plan(m *model.Match, p *model.Player) {
	a := p.Agent()
	if a == nil {
		return
	}
	switch {
	case p.Goalkeeper():
		pl.keeper(m, p, a)
	case Closest(m, p.Team) == p:
		pl.striker(m, p, a)
	default:
		pl.support(m, p, a)
	}
	a.Target = a.Target.Add(pl.separation(m, p))
}

// Closest returns the outfield player of team t nearest to the ball.
func Closest(m *model.Match, t model.Team) *model.Player {
	var best *model.Player
	bestDist := math.Inf(1)
	for _, p := range m.Players {
		if p.Team != t || p.Goalkeeper() {
			continue
		}
		if d := p.Pos.Dist(m.Ball.Pos); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

func (pl *Planner) noise(span float64) float64 { return (pl.rng.Float64() - 0.5) * 2 * span }

func (pl *Planner) keeper(m *model.Match, p *model.Player, a *model.Agent) {
	t := pl.T
	ball := m.Ball.Pos
	losing := m.Losing(p.Team)
	fwd := p.Team.Forward()

	lineX := p.Team.OwnGoalX() + fwd*t.KeeperLine
	forward := t.KeeperForward
	if losing {
		forward = t.KeeperForwardLost
	}
	distFactor := math.Min(math.Abs(ball.X-lineX)/(model.FieldWidth/2), 1)
	y := ball.Y + pl.noise(t.KeeperNoise)
	a.Target = model.V(
		lineX+fwd*forward*distFactor,
		clampf(y, model.GoalTop-t.KeeperBand, model.GoalBottom+t.KeeperBand),
	)
	a.Intent = nil

	rush, side := t.RushRange, t.RushSide
	if losing {
		rush, side = t.RushRangeLosing, t.RushSideLosing
	}
	// side is measured from the keeper's own goal
	limit := model.FieldWidth * side
	ourHalf := ball.X < limit
	if p.Team == model.Blue {
		ourHalf = ball.X > model.FieldWidth-limit
	}
	if ourHalf && p.Pos.Dist(ball) < rush {
		a.Target = ball
		a.Intent = &model.KickIntent{
			Aim:   model.V(model.FieldWidth/2+fwd*model.FieldWidth/4, pl.rng.Float64()*model.FieldHeight),
			Power: 1,
		}
	}
}

func (pl *Planner) support(m *model.Match, p *model.Player, a *model.Agent) {
	t := pl.T
	ball := m.Ball.Pos
	own := p.Team.OwnGoalX()
	defending := (ball.X-model.FieldWidth/2)*p.Team.Forward() < 0

	if defending {
		a.Target = model.V((ball.X+own)/2, ball.Y)
	} else {
		y := model.FieldHeight * 0.25
		if ball.Y < model.FieldHeight/2 {
			y = model.FieldHeight * 0.75
		}
		a.Target = model.V(ball.X+p.Team.Forward()*t.SupportAhead, y)
	}

	a.Intent = nil
	if p.Pos.Dist(ball) <= pl.reach+t.ClearRange {
		a.Intent = &model.KickIntent{Aim: pl.goalAim(p.Team), Power: 1}
	}
}

// separation nudges an agent away from nearby teammates.
func (pl *Planner) separation(m *model.Match, p *model.Player) model.Vec {
	t := pl.T
	var push model.Vec
	for _, o := range m.Players {
		if o == p || o.Team != p.Team {
			continue
		}
		off := p.Pos.Sub(o.Pos)
		d := off.Len()
		if d <= 0 || d >= t.SeparationRadius {
			continue
		}
		force := (t.SeparationRadius - d) / t.SeparationRadius
		push = push.Add(off.Scale(force * t.SeparationStrength / d))
	}
	return push
}

// goalAim is a point inside the opponent's goal mouth, spread at random.
func (pl *Planner) goalAim(t model.Team) model.Vec {
	half := (model.GoalHeight/2 - model.BallRadius) * pl.T.AimSpread
	return model.V(t.TargetGoalX(), model.FieldHeight/2+pl.noise(half))
}

func clampf(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
