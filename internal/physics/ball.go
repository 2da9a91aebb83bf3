package physics

import (
	"math"

	"mygame/football/internal/model"
)

const (
	br = model.BallRadius
	w  = model.FieldWidth
	h  = model.FieldHeight
)

func inMouth(y float64) bool { return y > model.GoalTop && y < model.GoalBottom }

// moveBall integrates the ball and resolves walls, nets and goal lines.
// It reports the scoring team when the ball has fully crossed a goal line.
func moveBall(b *model.Ball, pr Params, dt float64) (model.Team, bool) {
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	b.Vel = b.Vel.Scale(math.Pow(pr.Friction, dt))

	if b.Pos.Y-br < 0 {
		b.Pos.Y = br
		b.Vel.Y *= -pr.Restitution
	} else if b.Pos.Y+br > h {
		b.Pos.Y = h - br
		b.Vel.Y *= -pr.Restitution
	}

	switch {
	case b.Pos.X-br < 0:
		if !inMouth(b.Pos.Y) {
			b.Pos.X = br
			b.Vel.X *= -pr.Restitution
			return 0, false
		}
		if b.Pos.X < -br {
			return model.Blue, true
		}
		if b.Pos.X-br < -model.GoalDepth {
			b.Pos.X = -model.GoalDepth + br
			b.Vel.X *= -pr.Restitution
		}
		netWalls(b, pr)
	case b.Pos.X+br > w:
		if !inMouth(b.Pos.Y) {
			b.Pos.X = w - br
			b.Vel.X *= -pr.Restitution
			return 0, false
		}
		if b.Pos.X > w+br {
			return model.Red, true
		}
		if b.Pos.X+br > w+model.GoalDepth {
			b.Pos.X = w + model.GoalDepth - br
			b.Vel.X *= -pr.Restitution
		}
		netWalls(b, pr)
	}
	return 0, false
}

// netWalls keeps a ball that is inside the goal mouth between the side nets.
func netWalls(b *model.Ball, pr Params) {
	if b.Pos.Y-br < model.GoalTop {
		b.Pos.Y = model.GoalTop + br
		b.Vel.Y *= -pr.Restitution
	} else if b.Pos.Y+br > model.GoalBottom {
		b.Pos.Y = model.GoalBottom - br
		b.Vel.Y *= -pr.Restitution
	}
}
