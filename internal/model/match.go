package model

// Slot describes one roster entry.
type Slot struct {
	ID   string
	Name string
	Bot  bool
}

// Roster is the ordered team lists a match is set up from.
type Roster struct {
	Red  []Slot
	Blue []Slot
}

func (r Roster) Team(t Team) []Slot {
	if t == Red {
		return r.Red
	}
	return r.Blue
}

func (r Roster) Size() int { return len(r.Red) + len(r.Blue) }

type Score struct {
	Red  int
	Blue int
}

func (s Score) Of(t Team) int {
	if t == Red {
		return s.Red
	}
	return s.Blue
}

func (s *Score) Add(t Team) {
	if t == Red {
		s.Red++
	} else {
		s.Blue++
	}
}

// Winner returns the leading team, or false on a draw.
func (s Score) Winner() (Team, bool) {
	switch {
	case s.Red > s.Blue:
		return Red, true
	case s.Blue > s.Red:
		return Blue, true
	}
	return Red, false
}

// Match is the whole simulation state. Physics, agents and the network layer
// all receive it explicitly.
type Match struct {
	Ball     Ball
	Players  []*Player
	Score    Score
	TimeLeft float64 // seconds
	Duration float64
}

// StartPos is the kickoff spot of a roster slot.
func StartPos(t Team, slot int) Vec {
	x := FieldWidth * 0.1
	if t == Blue {
		x = FieldWidth * 0.9
	}
	return V(x, FieldHeight*(0.2+float64(slot+1)*0.15))
}

// New builds a match in its Setup state: players placed, numbered and
// goalkeepers assigned.
func New(r Roster, duration float64) *Match {
	m := &Match{Duration: ClampDuration(duration)}
	m.TimeLeft = m.Duration
	m.Ball.Reset()

	for _, t := range []Team{Red, Blue} {
		for i, s := range r.Team(t) {
			p := &Player{
				Owner: s.ID,
				ID:    s.ID,
				Name:  s.Name,
				Team:  t,
				Slot:  i,
				Start: StartPos(t, i),
			}
			if s.Bot {
				p.Control = &Agent{}
			} else {
				p.Control = Human{}
			}
			p.Reset()
			m.Players = append(m.Players, p)
		}
	}
	AssignNumbers(m.Players)
	AssignGoalkeepers(m.Players)
	return m
}

// AssignNumbers gives every player a unique jersey. The hashed number is
// kept when free, otherwise the next free number upward wins.
func AssignNumbers(players []*Player) {
	taken := make(map[int]bool, len(players))
	for _, p := range players {
		p.Number = FreeNumber(JerseyFor(p.Key(), p.Team, p.Slot), taken)
		taken[p.Number] = true
	}
}

// FreeNumber returns n when it is not taken, otherwise the next free
// number upward, wrapping past JerseyMax.
func FreeNumber(n int, taken map[int]bool) int {
	for i := 0; i < JerseyMax && taken[n]; i++ {
		n = n%JerseyMax + 1
	}
	return n
}

// AssignGoalkeepers sets one goalkeeper per team, only when both teams field
// more than one player.
func AssignGoalkeepers(players []*Player) {
	var red, blue []*Player
	for _, p := range players {
		p.Role = RoleField
		if p.Team == Red {
			red = append(red, p)
		} else {
			blue = append(blue, p)
		}
	}
	if len(red) < 2 || len(blue) < 2 {
		return
	}
	for _, side := range []struct {
		list []*Player
		salt string
	}{{red, "red-goalie"}, {blue, "blue-goalie"}} {
		ids := make([]string, len(side.list))
		for i, p := range side.list {
			ids[i] = p.Key()
		}
		side.list[GoalkeeperIndex(ids, side.salt)].Role = RoleGoalkeeper
	}
}

// ResetPositions puts ball and players back on their kickoff spots.
func (m *Match) ResetPositions() {
	m.Ball.Reset()
	for _, p := range m.Players {
		p.Reset()
	}
}

// RegisterGoal credits the scorer and restarts play from kickoff.
func (m *Match) RegisterGoal(scorer Team) {
	m.Score.Add(scorer)
	m.ResetPositions()
}

// Teammates returns the players of t in roster order.
func (m *Match) Teammates(t Team) []*Player {
	out := make([]*Player, 0, MaxPerTeam)
	for _, p := range m.Players {
		if p.Team == t {
			out = append(out, p)
		}
	}
	return out
}

// Find looks a player up by identity key.
func (m *Match) Find(key string) *Player {
	for _, p := range m.Players {
		if p.Key() == key {
			return p
		}
	}
	return nil
}

// Losing reports whether t trails.
func (m *Match) Losing(t Team) bool {
	return m.Score.Of(t) < m.Score.Of(t.Opponent())
}

// Result is the end-of-match text shown to everyone.
func (m *Match) Result() string {
	w, ok := m.Score.Winner()
	switch {
	case !ok:
		return "Draw!"
	case w == Red:
		return "Red Wins!"
	}
	return "Blue Wins!"
}
