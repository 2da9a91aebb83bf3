package netsync

import (
	"math"
	"time"

	"mygame/football/internal/model"
	"mygame/football/internal/physics"
	pb "mygame/football/proto"
)

// Latch accumulates local control state between sends. A kick pressed at
// any point since the last Sample is reported even if already released.
type Latch struct {
	cur  pb.Input
	kick bool
}

// Set records the current control state.
func (l *Latch) Set(in pb.Input) {
	l.cur = in
	if in.Kick {
		l.kick = true
	}
}

// Sample returns the state to send and clears the latched kick.
func (l *Latch) Sample() pb.Input {
	out := l.cur
	out.Kick = l.cur.Kick || l.kick
	l.kick = false
	return out
}

func (l *Latch) Reset() { *l = Latch{} }

// Cadence is a fixed-interval timer polled from the frame loop.
type Cadence struct {
	Interval time.Duration
	last     time.Time
}

// Due reports whether an interval has passed since the last firing and, if
// so, rearms the timer at now.
func (c *Cadence) Due(now time.Time) bool {
	if !c.last.IsZero() && now.Sub(c.last) < c.Interval {
		return false
	}
	c.last = now
	return true
}

func (c *Cadence) Reset() { c.last = time.Time{} }

// ToPhysics converts a wire sample. Non-finite stick values make the whole
// sample neutral.
func ToPhysics(in *pb.Input) physics.Input {
	if in == nil || !finite(in.StickX) || !finite(in.StickY) {
		return physics.Input{}
	}
	return physics.Input{
		Up:          in.Up,
		Down:        in.Down,
		Left:        in.Left,
		Right:       in.Right,
		Stick:       model.V(in.StickX, in.StickY),
		StickActive: in.StickActive,
		Kick:        in.Kick,
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
