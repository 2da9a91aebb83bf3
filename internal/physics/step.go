package physics

import "mygame/football/internal/model"

// Goal is emitted by Step when a ball crosses a goal line.
type Goal struct {
	Scorer model.Team
}

// Engine advances a match. It holds no match state of its own.
type Engine struct {
	Params Params
}

func NewEngine(pr Params) *Engine { return &Engine{Params: pr} }

// Step advances the match by dt nominal ticks (clamped to [0, MaxStep]).
// A goal is credited and the match reset before Step returns; the rest of
// that step is skipped.
func (e *Engine) Step(m *model.Match, in Inputs, dt float64) *Goal {
	dt = clamp(dt, 0, model.MaxStep)
	if dt == 0 {
		return nil
	}
	pr := e.Params

	Separate(m.Players)

	if scorer, scored := moveBall(&m.Ball, pr, dt); scored {
		m.RegisterGoal(scorer)
		return &Goal{Scorer: scorer}
	}

	for _, p := range m.Players {
		sample := in[p.Owner]
		steer(p, desired(p, sample, pr), pr)

		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		constrain(p, pr)
		touch(p, &m.Ball, pr)
		kick(p, &m.Ball, sample, pr)

		if p.Cooldown > 0 {
			p.Cooldown -= dt
		}
	}
	return nil
}

// Separate pushes overlapping players apart, half the overlap each.
func Separate(players []*model.Player) {
	minDist := 2 * radius
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			a, b := players[i], players[j]
			n, depth, ok := pushOut(a.Pos, b.Pos, minDist, model.V(1, 0))
			if !ok {
				continue
			}
			push := n.Scale(depth / 2)
			a.Pos = a.Pos.Sub(push)
			b.Pos = b.Pos.Add(push)
		}
	}
}
