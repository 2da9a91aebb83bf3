package core

import (
	"fmt"
	"time"

	"mygame/football/internal/lobby"
	"mygame/football/internal/model"
)

// LocalSetup describes an offline match against bots. Red counts the
// host's slot unless Watch is set.
type LocalSetup struct {
	Red     int // 1..4
	Blue    int // 0..4
	Minutes int
	Watch   bool // no human: every slot is an agent
}

func DefaultLocalSetup() LocalSetup { return LocalSetup{Red: 3, Blue: 3, Minutes: 3} }

// RunLocal plays a whole match with no peers on a simulated clock starting
// at start, and returns the final view of the room. Without Watch the host
// holds a red slot and stands idle.
func RunLocal(opts Options, s LocalSetup, start time.Time) (Info, error) {
	if s.Red < 1 || s.Red > model.MaxPerTeam {
		return Info{}, fmt.Errorf("core: %d red players, want 1..%d", s.Red, model.MaxPerTeam)
	}
	if s.Blue < 0 || s.Blue > model.MaxPerTeam {
		return Info{}, fmt.Errorf("core: %d blue players, want 0..%d", s.Blue, model.MaxPerTeam)
	}
	opts.DisplayOnly = s.Watch
	r, err := NewRoom(lobby.NewCode(), opts)
	if err != nil {
		return Info{}, err
	}

	l := r.Lobby()
	red := s.Red
	if !s.Watch {
		red--
	}
	for i := 0; i < red; i++ {
		if _, err := l.AddBot(model.Red); err != nil {
			return Info{}, err
		}
	}
	for i := 0; i < s.Blue; i++ {
		if _, err := l.AddBot(model.Blue); err != nil {
			return Info{}, err
		}
	}

	if err := r.StartAt(start, s.Minutes); err != nil {
		return Info{}, err
	}
	now := start
	for r.Phase() != PhaseEnded {
		now = now.Add(r.opts.Tick)
		r.Tick(now)
	}
	return r.Info(), nil
}
