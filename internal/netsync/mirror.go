package netsync

import "mygame/football/internal/model"

// Mirror applies interpolated frames onto a participant's local copy of the
// match. It never runs physics or agents.
type Mirror struct {
	Match *model.Match
	index map[string]*model.Player
	taken map[int]bool
}

// NewMirror wraps m, which may already hold players built from the roster.
func NewMirror(m *model.Match) *Mirror {
	if m == nil {
		m = &model.Match{}
		m.Ball.Reset()
	}
	mr := &Mirror{
		Match: m,
		index: make(map[string]*model.Player, len(m.Players)),
		taken: make(map[int]bool, len(m.Players)),
	}
	for _, p := range m.Players {
		mr.index[p.Key()] = p
		mr.taken[p.Number] = true
	}
	return mr
}

// Apply overwrites ball and player motion from f. Identities never seen
// before get a mirror on the spot. Score and clock are not interpolated;
// they arrive through SetScoreboard.
func (mr *Mirror) Apply(f Frame) {
	m := mr.Match
	m.Ball.Pos = f.Ball.Pos
	m.Ball.Vel = f.Ball.Vel()

	for _, pf := range f.Players {
		p := mr.lookup(pf)
		p.Role = pf.Role
		p.Pos = pf.Pos
		p.Vel = pf.Vel()
	}
}

func (mr *Mirror) lookup(pf PlayerFrame) *model.Player {
	key := pf.Key()
	if p, ok := mr.index[key]; ok {
		return p
	}
	p := &model.Player{
		Owner:   pf.Owner,
		ID:      pf.ID,
		Team:    pf.Team,
		Slot:    pf.Slot,
		Role:    pf.Role,
		Number:  model.FreeNumber(model.JerseyFor(key, pf.Team, pf.Slot), mr.taken),
		Start:   pf.Pos,
		Control: model.Human{},
	}
	mr.index[key] = p
	mr.taken[p.Number] = true
	mr.Match.Players = append(mr.Match.Players, p)
	return p
}

// SetScoreboard overwrites score and clock as soon as an update lands.
func (mr *Mirror) SetScoreboard(s model.Score, timeLeft float64) {
	mr.Match.Score = s
	mr.Match.TimeLeft = timeLeft
}

// Len is the number of mirrored players.
func (mr *Mirror) Len() int { return len(mr.index) }
