package agent

import (
	"math"

	"mygame/football/internal/model"
	"mygame/football/internal/physics"
)

// striker drives the player closest to the ball. In priority order it
// shoots when close and lined up, passes to a clearly better teammate,
// shoots under pressure, dribbles, contests, or walks around behind the ball.
func (pl *Planner) striker(m *model.Match, p *model.Player, a *model.Agent) {
	t := pl.T
	ball := m.Ball.Pos
	goal := model.V(p.Team.TargetGoalX(), model.FieldHeight/2)
	toGoal := goal.Sub(ball)
	aim := toGoal.Norm()
	distGoal := toGoal.Len()
	align := ball.Sub(p.Pos).Norm().Dot(aim)
	pressed := opponentNear(m, p.Team, ball, t.Pressure)
	inContact := p.Pos.Dist(ball) <= pl.reach

	a.Target = ball
	a.Intent = nil

	shot := shotValue(distGoal, align, t.ShotRange)
	mate, passScore := pl.bestPass(m, p)

	switch {
	case distGoal <= t.CloseShot && align >= t.ShootAlign:
		a.Intent = &model.KickIntent{Aim: pl.goalAim(p.Team), Power: 1}
	case mate != nil && passScore > shot+t.PassAdvantage:
		target := mate.Pos.Add(mate.Vel.Scale(t.PassLead))
		a.Intent = &model.KickIntent{
			Aim:   target,
			Power: clampf(ball.Dist(target)/t.PassMax+0.3, 0.45, 1),
		}
	case pressed && align >= t.PressureAlign && distGoal <= t.ShotRange:
		a.Intent = &model.KickIntent{Aim: pl.goalAim(p.Team), Power: 1}
	case align >= t.ShootAlign:
		a.Target = ball.Add(aim.Scale(t.DribbleLead))
	case pressed || inContact:
		a.Target = ball
	default:
		a.Target = ball.Sub(aim.Scale(physics.ContactDistance() + t.BehindGap))
	}
}

// shotValue scores a direct shot on a 0..100 scale.
func shotValue(distGoal, align, rng float64) float64 {
	if distGoal >= rng || align <= 0 {
		return 0
	}
	return (1 - distGoal/rng) * 100 * align
}

// bestPass returns the highest scoring open teammate, if any.
func (pl *Planner) bestPass(m *model.Match, p *model.Player) (*model.Player, float64) {
	t := pl.T
	ball := m.Ball.Pos
	goal := model.V(p.Team.TargetGoalX(), model.FieldHeight/2)
	opponents := m.Teammates(p.Team.Opponent())

	var best *model.Player
	bestScore := math.Inf(-1)
	for _, mate := range m.Teammates(p.Team) {
		if mate == p || mate.Goalkeeper() {
			continue
		}
		d := ball.Dist(mate.Pos)
		if d < t.PassMin || d > t.PassMax {
			continue
		}
		if !laneClear(ball, mate.Pos, opponents, t.PassLane) {
			continue
		}

		progress := (mate.Pos.X - ball.X) * p.Team.Forward()
		open := t.OpenCap
		for _, o := range opponents {
			open = math.Min(open, o.Pos.Dist(mate.Pos))
		}
		score := progress*0.5 + open*0.4 + shotValue(mate.Pos.Dist(goal), 1, t.ShotRange)*0.5
		if score > bestScore {
			best, bestScore = mate, score
		}
	}
	return best, bestScore
}

// laneClear reports whether no opponent stands within width of the segment.
func laneClear(from, to model.Vec, opponents []*model.Player, width float64) bool {
	for _, o := range opponents {
		if segmentDist(o.Pos, from, to) < width {
			return false
		}
	}
	return true
}

func segmentDist(p, a, b model.Vec) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Dist(a)
	}
	t := clampf(p.Sub(a).Dot(ab)/l2, 0, 1)
	return p.Dist(a.Add(ab.Scale(t)))
}

func opponentNear(m *model.Match, t model.Team, at model.Vec, radius float64) bool {
	for _, o := range m.Players {
		if o.Team != t && o.Pos.Dist(at) < radius {
			return true
		}
	}
	return false
}
