// Package netsync turns authoritative match state into snapshots and back
// into smooth motion on participants.
package netsync

import (
	"mygame/football/internal/model"
	pb "mygame/football/proto"
)

// MotionOf expresses a velocity as unit direction plus speed, quantized
// to the wire grid.
func MotionOf(pos, vel model.Vec) pb.Motion {
	dir := vel.Norm()
	return pb.Motion{
		X:     pb.Quantize(pos.X, pb.PosScale),
		Y:     pb.Quantize(pos.Y, pb.PosScale),
		DirX:  pb.Quantize(dir.X, pb.DirScale),
		DirY:  pb.Quantize(dir.Y, pb.DirScale),
		Speed: pb.Quantize(vel.Len(), pb.SpeedScale),
	}
}

// Capture samples the authoritative match.
func Capture(m *model.Match) *pb.StateUpdate {
	s := &pb.StateUpdate{
		Ball:      MotionOf(m.Ball.Pos, m.Ball.Vel),
		Players:   make([]pb.PlayerState, 0, len(m.Players)),
		ScoreRed:  m.Score.Red,
		ScoreBlue: m.Score.Blue,
		TimeLeft:  pb.Quantize(m.TimeLeft, pb.TimeScale),
	}
	for _, p := range m.Players {
		s.Players = append(s.Players, pb.PlayerState{
			Owner:  p.Owner,
			ID:     p.ID,
			Team:   uint8(p.Team),
			Slot:   p.Slot,
			Role:   uint8(p.Role),
			Motion: MotionOf(p.Pos, p.Vel),
		})
	}
	return s
}

// CaptureHUD samples only score and clock.
func CaptureHUD(m *model.Match) *pb.HUDUpdate {
	return &pb.HUDUpdate{
		ScoreRed:  m.Score.Red,
		ScoreBlue: m.Score.Blue,
		TimeLeft:  pb.Quantize(m.TimeLeft, pb.TimeScale),
	}
}

// RosterOf converts a roster to its wire lists.
func RosterOf(r model.Roster) (red, blue []pb.RosterEntry) {
	conv := func(slots []model.Slot) []pb.RosterEntry {
		out := make([]pb.RosterEntry, 0, len(slots))
		for _, s := range slots {
			out = append(out, pb.RosterEntry{ID: s.ID, Name: s.Name, Bot: s.Bot})
		}
		return out
	}
	return conv(r.Red), conv(r.Blue)
}

// RosterFrom is the inverse of RosterOf.
func RosterFrom(red, blue []pb.RosterEntry) model.Roster {
	conv := func(list []pb.RosterEntry) []model.Slot {
		out := make([]model.Slot, 0, len(list))
		for _, e := range list {
			out = append(out, model.Slot{ID: e.ID, Name: e.Name, Bot: e.Bot})
		}
		return out
	}
	return model.Roster{Red: conv(red), Blue: conv(blue)}
}
