package proto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// dec keeps the first type error met while decoding a message body.
type dec struct{ err error }

func (d *dec) keep(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *dec) flag(f field) bool {
	v, err := f.flag()
	d.keep(err)
	return v
}

func (d *dec) int(f field) int {
	v, err := f.sint()
	d.keep(err)
	return int(v)
}

// enum reads a small integer and rejects anything above limit.
func (d *dec) enum(f field, limit uint8, what string) uint8 {
	v, err := f.sint()
	if err == nil && (v < 0 || v > int64(limit)) {
		err = fmt.Errorf("%w: %s %d out of range", ErrMalformed, what, v)
	}
	d.keep(err)
	return uint8(v)
}

func (d *dec) fixed(f field, scale float64) float64 {
	v, err := f.fixed(scale)
	d.keep(err)
	return v
}

func (d *dec) str(f field) string {
	v, err := f.raw()
	d.keep(err)
	return string(v)
}

func (d *dec) sub(f field, decode func([]byte) error) {
	v, err := f.raw()
	if err == nil {
		err = decode(v)
	}
	d.keep(err)
}

// --- roster ---

func (e RosterEntry) append(b enc) enc {
	return b.str(1, e.ID).str(2, e.Name).flag(3, e.Bot)
}

func (e *RosterEntry) decode(b []byte) error {
	var d dec
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			e.ID = d.str(f)
		case 2:
			e.Name = d.str(f)
		case 3:
			e.Bot = d.flag(f)
		}
		return d.err
	})
}

func appendRoster(b enc, redNum, blueNum protowire.Number, red, blue []RosterEntry) enc {
	for _, e := range red {
		b = b.msg(redNum, e.append(nil))
	}
	for _, e := range blue {
		b = b.msg(blueNum, e.append(nil))
	}
	return b
}

func decodeEntry(d *dec, f field, into *[]RosterEntry) {
	var e RosterEntry
	d.sub(f, e.decode)
	*into = append(*into, e)
}

func (m *RosterUpdate) appendBody(b []byte) []byte {
	return appendRoster(b, 1, 2, m.Red, m.Blue)
}

func (m *RosterUpdate) decodeBody(b []byte) error {
	var d dec
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			decodeEntry(&d, f, &m.Red)
		case 2:
			decodeEntry(&d, f, &m.Blue)
		}
		return d.err
	})
}

// --- start ---

func (m *Start) appendBody(b []byte) []byte {
	e := appendRoster(b, 1, 2, m.Red, m.Blue)
	return e.fixed(3, m.Duration, TimeScale).flag(4, m.DisplayOnly)
}

func (m *Start) decodeBody(b []byte) error {
	var d dec
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			decodeEntry(&d, f, &m.Red)
		case 2:
			decodeEntry(&d, f, &m.Blue)
		case 3:
			m.Duration = d.fixed(f, TimeScale)
		case 4:
			m.DisplayOnly = d.flag(f)
		}
		return d.err
	})
}

// --- input ---

func (m *Input) appendBody(b []byte) []byte {
	return enc(b).
		flag(1, m.Up).flag(2, m.Down).flag(3, m.Left).flag(4, m.Right).
		fixed(5, m.StickX, DirScale).fixed(6, m.StickY, DirScale).
		flag(7, m.StickActive).flag(8, m.Kick)
}

func (m *Input) decodeBody(b []byte) error {
	var d dec
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.Up = d.flag(f)
		case 2:
			m.Down = d.flag(f)
		case 3:
			m.Left = d.flag(f)
		case 4:
			m.Right = d.flag(f)
		case 5:
			m.StickX = d.fixed(f, DirScale)
		case 6:
			m.StickY = d.fixed(f, DirScale)
		case 7:
			m.StickActive = d.flag(f)
		case 8:
			m.Kick = d.flag(f)
		}
		return d.err
	})
}

// --- snapshot ---

func (m Motion) append(b enc) enc {
	return b.fixed(1, m.X, PosScale).fixed(2, m.Y, PosScale).
		fixed(3, m.DirX, DirScale).fixed(4, m.DirY, DirScale).
		fixed(5, m.Speed, SpeedScale)
}

func (m *Motion) decode(b []byte) error {
	var d dec
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.X = d.fixed(f, PosScale)
		case 2:
			m.Y = d.fixed(f, PosScale)
		case 3:
			m.DirX = d.fixed(f, DirScale)
		case 4:
			m.DirY = d.fixed(f, DirScale)
		case 5:
			m.Speed = d.fixed(f, SpeedScale)
		}
		return d.err
	})
}

func (p PlayerState) append(b enc) enc {
	return b.str(1, p.Owner).str(2, p.ID).
		sint(3, int64(p.Team)).sint(4, int64(p.Slot)).sint(5, int64(p.Role)).
		msg(6, p.Motion.append(nil))
}

func (p *PlayerState) decode(b []byte) error {
	var d dec
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			p.Owner = d.str(f)
		case 2:
			p.ID = d.str(f)
		case 3:
			p.Team = d.enum(f, TeamBlue, "team")
		case 4:
			p.Slot = d.int(f)
		case 5:
			p.Role = d.enum(f, MaxRole, "role")
		case 6:
			d.sub(f, p.Motion.decode)
		}
		return d.err
	})
}

func (m *StateUpdate) appendBody(b []byte) []byte {
	e := enc(b).msg(1, m.Ball.append(nil))
	for _, p := range m.Players {
		e = e.msg(2, p.append(nil))
	}
	return e.sint(3, int64(m.ScoreRed)).sint(4, int64(m.ScoreBlue)).fixed(5, m.TimeLeft, TimeScale)
}

func (m *StateUpdate) decodeBody(b []byte) error {
	var d dec
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			d.sub(f, m.Ball.decode)
		case 2:
			var p PlayerState
			d.sub(f, p.decode)
			m.Players = append(m.Players, p)
		case 3:
			m.ScoreRed = d.int(f)
		case 4:
			m.ScoreBlue = d.int(f)
		case 5:
			m.TimeLeft = d.fixed(f, TimeScale)
		}
		return d.err
	})
}

// --- hud / game over ---

func (m *HUDUpdate) appendBody(b []byte) []byte {
	return enc(b).sint(1, int64(m.ScoreRed)).sint(2, int64(m.ScoreBlue)).fixed(3, m.TimeLeft, TimeScale)
}

func (m *HUDUpdate) decodeBody(b []byte) error {
	var d dec
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.ScoreRed = d.int(f)
		case 2:
			m.ScoreBlue = d.int(f)
		case 3:
			m.TimeLeft = d.fixed(f, TimeScale)
		}
		return d.err
	})
}

func (m *GameOver) appendBody(b []byte) []byte {
	return enc(b).str(1, m.Result).sint(2, int64(m.ScoreRed)).sint(3, int64(m.ScoreBlue))
}

func (m *GameOver) decodeBody(b []byte) error {
	var d dec
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.Result = d.str(f)
		case 2:
			m.ScoreRed = d.int(f)
		case 3:
			m.ScoreBlue = d.int(f)
		}
		return d.err
	})
}
