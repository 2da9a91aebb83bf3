package model

import "fmt"

type Team uint8

const (
	Red Team = iota
	Blue
)

func (t Team) String() string {
	if t == Blue {
		return "blue"
	}
	return "red"
}

func (t Team) Opponent() Team {
	if t == Red {
		return Blue
	}
	return Red
}

// Forward is +1 for the team attacking toward x = FieldWidth, -1 otherwise.
func (t Team) Forward() float64 {
	if t == Red {
		return 1
	}
	return -1
}

// OwnGoalX is the x of the goal line this team defends.
func (t Team) OwnGoalX() float64 {
	if t == Red {
		return 0
	}
	return FieldWidth
}

// TargetGoalX is the x of the goal line this team attacks.
func (t Team) TargetGoalX() float64 { return t.Opponent().OwnGoalX() }

type Role uint8

const (
	RoleField Role = iota
	RoleGoalkeeper
	RoleDefender
	RoleAttacker
)

func (r Role) String() string {
	switch r {
	case RoleGoalkeeper:
		return "goalkeeper"
	case RoleDefender:
		return "defender"
	case RoleAttacker:
		return "attacker"
	}
	return "field"
}

type Ball struct {
	Pos Vec
	Vel Vec
}

// Reset places the ball on the centre spot at rest.
func (b *Ball) Reset() {
	b.Pos = V(FieldWidth/2, FieldHeight/2)
	b.Vel = Vec{}
}

// Control is either Human or *Agent.
type Control interface {
	control()
}

// Human marks a player whose velocity comes from an input sample.
type Human struct{}

// Agent is the scratch state of an autonomous player.
type Agent struct {
	Target Vec
	Replan float64 // ticks until the next decision
	Intent *KickIntent
}

// KickIntent is a kick the agent wants to take as soon as the ball is in reach.
type KickIntent struct {
	Aim   Vec
	Power float64 // fraction of the falloff power, 0..1
}

func (Human) control()  {}
func (*Agent) control() {}

type Player struct {
	Owner  string // "host", a participant id or a bot id
	ID     string
	Name   string
	Team   Team
	Slot   int
	Role   Role
	Number int

	Pos   Vec
	Vel   Vec
	Start Vec

	Cooldown float64
	Control  Control
}

// Agent returns the autonomous state, or nil for a human-driven player.
func (p *Player) Agent() *Agent {
	a, _ := p.Control.(*Agent)
	return a
}

func (p *Player) Human() bool {
	_, ok := p.Control.(Human)
	return ok
}

func (p *Player) Goalkeeper() bool { return p.Role == RoleGoalkeeper }

// Key identifies a player across snapshots.
func (p *Player) Key() string { return IdentityKey(p.Owner, p.ID, p.Team, p.Slot) }

// IdentityKey falls back from owner id to generic id to a team/slot composite.
func IdentityKey(owner, id string, team Team, slot int) string {
	switch {
	case owner != "":
		return owner
	case id != "":
		return id
	}
	return fmt.Sprintf("%s-%d", team, slot)
}

// Reset returns the player to its kickoff position at rest.
func (p *Player) Reset() {
	p.Pos = p.Start
	p.Vel = Vec{}
	p.Cooldown = 0
	if a := p.Agent(); a != nil {
		a.Target = p.Start
		a.Intent = nil
	}
}
