package physics

import (
	"math"

	"mygame/football/internal/model"
)

const radius = model.PlayerRadius

// steer blends the player's velocity toward the requested one.
func steer(p *model.Player, want model.Vec, pr Params) {
	p.Vel = p.Vel.Add(want.Sub(p.Vel).Scale(pr.Accel))
}

// desired computes the velocity a player is trying to reach this tick.
func desired(p *model.Player, in Input, pr Params) model.Vec {
	if a := p.Agent(); a != nil {
		to := a.Target.Sub(p.Pos)
		if to.Len() <= pr.ArriveRadius {
			return model.Vec{}
		}
		return to.Norm().Scale(pr.Speed(p))
	}
	return in.Direction().Scale(pr.Speed(p))
}

// constrain applies the positional corrections that keep a player on the
// pitch and out of the goal frame.
func constrain(p *model.Player, pr Params) {
	m := pr.Margin
	p.Pos.Y = clamp(p.Pos.Y, -m, h+m)

	minX, maxX := -m, w+m
	if p.Goalkeeper() {
		minX = -model.GoalDepth + radius
		maxX = w + model.GoalDepth - radius
	} else {
		if p.Pos.X < radius+5 {
			postBarrier(p, 0, 1)
		}
		if p.Pos.X > w-radius-5 {
			postBarrier(p, w, -1)
		}
	}
	p.Pos.X = clamp(p.Pos.X, minX, maxX)

	if p.Pos.X < 0 || p.Pos.X > w {
		sideNets(p)
	}

	// Behind the goal line only the net is walkable.
	if p.Pos.X < -m && !mouthBand(p.Pos.Y) {
		p.Pos.X = -m
	}
	if p.Pos.X > w+m && !mouthBand(p.Pos.Y) {
		p.Pos.X = w + m
	}
}

func mouthBand(y float64) bool { return y >= model.GoalTop && y <= model.GoalBottom }

// postBarrier deflects a field player around the posts of the goal at
// lineX and keeps it in front of the mouth. inward is +1 for the left goal.
func postBarrier(p *model.Player, lineX, inward float64) {
	switch {
	case p.Pos.Y <= model.GoalTop:
		aroundPost(p, model.V(lineX, model.GoalTop))
	case p.Pos.Y >= model.GoalBottom:
		aroundPost(p, model.V(lineX, model.GoalBottom))
	default:
		edge := lineX + inward*radius
		if inward > 0 && p.Pos.X < edge || inward < 0 && p.Pos.X > edge {
			p.Pos.X = edge
		}
	}
}

func aroundPost(p *model.Player, post model.Vec) {
	if n, _, ok := pushOut(post, p.Pos, radius, model.V(1, 0)); ok {
		p.Pos = post.Add(n.Scale(radius))
	}
}

// sideNets pushes a player standing behind a goal line off the net walls.
func sideNets(p *model.Player) {
	if math.Abs(p.Pos.Y-model.GoalTop) < radius {
		if p.Pos.Y < model.GoalTop {
			p.Pos.Y = model.GoalTop - radius
		} else {
			p.Pos.Y = model.GoalTop + radius
		}
	}
	if math.Abs(p.Pos.Y-model.GoalBottom) < radius {
		if p.Pos.Y > model.GoalBottom {
			p.Pos.Y = model.GoalBottom + radius
		} else {
			p.Pos.Y = model.GoalBottom - radius
		}
	}
}

// touch resolves player/ball overlap: the ball is pushed clear and either
// carried along (dribble) or bounced off a standing player.
func touch(p *model.Player, b *model.Ball, pr Params) {
	n, depth, ok := pushOut(p.Pos, b.Pos, ContactDistance(), model.V(p.Team.Forward(), 0))
	if !ok {
		return
	}
	b.Pos = b.Pos.Add(n.Scale(depth + 1))

	speed := p.Vel.Len()
	if speed > pr.DribbleThreshold {
		speed *= pr.DribbleFactor
	} else {
		speed = math.Max(b.Vel.Len()*pr.BounceDamping, pr.BounceMin)
	}
	b.Vel = n.Scale(speed)
}

// kick fires the human request or pending agent intent when allowed.
// It reports whether the ball was struck.
func kick(p *model.Player, b *model.Ball, in Input, pr Params) bool {
	if p.Cooldown > 0 {
		return false
	}
	d := b.Pos.Dist(p.Pos)
	if d > pr.ReachDistance() {
		return false
	}

	if a := p.Agent(); a != nil {
		if a.Intent == nil {
			return false
		}
		dir := a.Intent.Aim.Sub(b.Pos).Norm()
		if dir == (model.Vec{}) {
			dir = b.Pos.Sub(p.Pos).Norm()
		}
		b.Vel = dir.Scale(pr.Power(p, d) * a.Intent.Power)
		a.Intent = nil
		p.Cooldown = pr.AgentCooldown
		return true
	}

	if !in.Kick {
		return false
	}
	dir := b.Pos.Sub(p.Pos).Norm()
	if dir == (model.Vec{}) {
		dir = model.V(p.Team.Forward(), 0)
	}
	b.Vel = dir.Scale(pr.Power(p, d))
	p.Cooldown = pr.HumanCooldown
	return true
}
