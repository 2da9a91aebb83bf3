package physics

import "mygame/football/internal/model"

// Params holds every tunable of the arcade physics. All speeds are in field
// units per nominal tick.
type Params struct {
	Friction    float64 `mapstructure:"friction"`
	Restitution float64 `mapstructure:"restitution"`
	Margin      float64 `mapstructure:"margin"`
	Accel       float64 `mapstructure:"accel"`

	PlayerSpeed     float64 `mapstructure:"player_speed"`
	AgentSpeed      float64 `mapstructure:"agent_speed"`
	GoalkeeperSpeed float64 `mapstructure:"goalkeeper_speed"`
	ArriveRadius    float64 `mapstructure:"arrive_radius"`

	KickPower      float64 `mapstructure:"kick_power"`
	KickReach      float64 `mapstructure:"kick_reach"`
	KickFloor      float64 `mapstructure:"kick_floor"`
	GoalkeeperKick float64 `mapstructure:"goalkeeper_kick"`
	HumanCooldown  float64 `mapstructure:"human_cooldown"`
	AgentCooldown  float64 `mapstructure:"agent_cooldown"`

	DribbleThreshold float64 `mapstructure:"dribble_threshold"`
	DribbleFactor    float64 `mapstructure:"dribble_factor"`
	BounceDamping    float64 `mapstructure:"bounce_damping"`
	BounceMin        float64 `mapstructure:"bounce_min"`
}

func DefaultParams() Params {
	return Params{
		Friction:    0.975,
		Restitution: 0.8,
		Margin:      15,
		Accel:       0.04,

		PlayerSpeed:     2,
		AgentSpeed:      2,
		GoalkeeperSpeed: 0.75,
		ArriveRadius:    5,

		KickPower:      8,
		KickReach:      5,
		KickFloor:      0.2,
		GoalkeeperKick: 1.25,
		HumanCooldown:  10,
		AgentCooldown:  60,

		DribbleThreshold: 0.1,
		DribbleFactor:    1.1,
		BounceDamping:    0.5,
		BounceMin:        0.5,
	}
}

// ContactDistance is the centre distance at which player and ball touch.
func ContactDistance() float64 { return model.PlayerRadius + model.BallRadius }

// ReachDistance is the farthest centre distance a kick can be taken from.
func (pr Params) ReachDistance() float64 { return ContactDistance() + pr.KickReach }

// MaxPower is the full kick power for the player's role.
func (pr Params) MaxPower(p *model.Player) float64 {
	if p.Goalkeeper() {
		return pr.KickPower * pr.GoalkeeperKick
	}
	return pr.KickPower
}

// Power attenuates MaxPower linearly from contact distance down to
// KickFloor at the edge of reach.
func (pr Params) Power(p *model.Player, dist float64) float64 {
	lo, hi := ContactDistance(), pr.ReachDistance()
	f := 0.0
	if hi > lo {
		f = (dist - lo) / (hi - lo)
	}
	f = clamp(f, 0, 1)
	return pr.MaxPower(p) * (pr.KickFloor + (1-pr.KickFloor)*(1-f))
}

// Speed is the top running speed for the player's role and control mode.
func (pr Params) Speed(p *model.Player) float64 {
	s := pr.PlayerSpeed
	if p.Agent() != nil {
		s = pr.AgentSpeed
	}
	if p.Goalkeeper() {
		s *= pr.GoalkeeperSpeed
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
