package netsync

import (
	"time"

	"mygame/football/internal/model"
	pb "mygame/football/proto"
)

const (
	DefaultDelay   = 120 * time.Millisecond
	DefaultMaxSize = 30
)

type entry struct {
	at   time.Time
	snap *pb.StateUpdate
}

// Buffer holds received snapshots stamped with their local arrival time and
// plays them back a fixed delay behind real time.
type Buffer struct {
	Delay   time.Duration
	MaxSize int

	entries []entry
}

func NewBuffer(delay time.Duration, maxSize int) *Buffer {
	if maxSize < 2 {
		maxSize = DefaultMaxSize
	}
	return &Buffer{Delay: delay, MaxSize: maxSize}
}

// Push appends a snapshot, dropping the oldest beyond MaxSize.
func (b *Buffer) Push(at time.Time, s *pb.StateUpdate) {
	b.entries = append(b.entries, entry{at: at, snap: s})
	if over := len(b.entries) - b.MaxSize; over > 0 {
		b.entries = append(b.entries[:0], b.entries[over:]...)
	}
}

func (b *Buffer) Len() int { return len(b.entries) }

// Reset discards everything buffered.
func (b *Buffer) Reset() { b.entries = b.entries[:0] }

// Sample renders the state at now minus the interpolation delay.
func (b *Buffer) Sample(now time.Time) (Frame, bool) {
	return b.SampleAt(now.Add(-b.Delay))
}

// SampleAt renders the state at an explicit playback time. Entries older
// than the bracketing pair are discarded. With a single entry its state is
// held unchanged.
func (b *Buffer) SampleAt(render time.Time) (Frame, bool) {
	if len(b.entries) == 0 {
		return Frame{}, false
	}
	drop := 0
	for len(b.entries)-drop >= 2 && !b.entries[drop+1].at.After(render) {
		drop++
	}
	if drop > 0 {
		b.entries = append(b.entries[:0], b.entries[drop:]...)
	}
	if len(b.entries) == 1 {
		return blend(b.entries[0].snap, b.entries[0].snap, 0), true
	}

	from, to := b.entries[0], b.entries[1]
	span := to.at.Sub(from.at)
	if span < time.Millisecond {
		span = time.Millisecond
	}
	alpha := float64(render.Sub(from.at)) / float64(span)
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	return blend(from.snap, to.snap, alpha), true
}

// Frame is an interpolated view of a snapshot pair.
type Frame struct {
	Ball     Body
	Players  []PlayerFrame
	Score    model.Score
	TimeLeft float64
}

// Body is position, direction and speed, with velocity rebuilt from them.
type Body struct {
	Pos   model.Vec
	Dir   model.Vec
	Speed float64
}

func (b Body) Vel() model.Vec { return b.Dir.Scale(b.Speed) }

type PlayerFrame struct {
	Owner string
	ID    string
	Team  model.Team
	Slot  int
	Role  model.Role
	Body
}

func (p PlayerFrame) Key() string { return model.IdentityKey(p.Owner, p.ID, p.Team, p.Slot) }

func bodyOf(m pb.Motion) Body {
	return Body{Pos: model.V(m.X, m.Y), Dir: model.V(m.DirX, m.DirY), Speed: m.Speed}
}

func lerpBody(a, b Body, t float64) Body {
	return Body{
		Pos:   a.Pos.Lerp(b.Pos, t),
		Dir:   a.Dir.Lerp(b.Dir, t),
		Speed: a.Speed + (b.Speed-a.Speed)*t,
	}
}

func playerFrame(s pb.PlayerState) PlayerFrame {
	return PlayerFrame{
		Owner: s.Owner,
		ID:    s.ID,
		Team:  model.Team(s.Team),
		Slot:  s.Slot,
		Role:  model.Role(s.Role),
		Body:  bodyOf(s.Motion),
	}
}

// blend interpolates from a toward b. Players present in only one of the
// two snapshots are taken as they are.
func blend(a, b *pb.StateUpdate, t float64) Frame {
	f := Frame{
		Ball:     lerpBody(bodyOf(a.Ball), bodyOf(b.Ball), t),
		Score:    model.Score{Red: a.ScoreRed, Blue: a.ScoreBlue},
		TimeLeft: a.TimeLeft + (b.TimeLeft-a.TimeLeft)*t,
	}
	if t >= 1 {
		f.Score = model.Score{Red: b.ScoreRed, Blue: b.ScoreBlue}
	}

	prev := make(map[string]PlayerFrame, len(a.Players))
	for _, s := range a.Players {
		pf := playerFrame(s)
		prev[pf.Key()] = pf
	}
	seen := make(map[string]bool, len(b.Players))
	for _, s := range b.Players {
		next := playerFrame(s)
		key := next.Key()
		seen[key] = true
		if old, ok := prev[key]; ok {
			next.Body = lerpBody(old.Body, next.Body, t)
		}
		f.Players = append(f.Players, next)
	}
	for _, s := range a.Players {
		pf := playerFrame(s)
		if !seen[pf.Key()] {
			f.Players = append(f.Players, pf)
		}
	}
	return f
}
