package agent

// Tuning collects the decision thresholds. Distances are field units, times
// are nominal ticks.
type Tuning struct {
	ReplanMin    float64 `mapstructure:"replan_min"`
	ReplanJitter float64 `mapstructure:"replan_jitter"`

	KeeperLine        float64 `mapstructure:"keeper_line"`
	KeeperForward     float64 `mapstructure:"keeper_forward"`
	KeeperForwardLost float64 `mapstructure:"keeper_forward_losing"`
	KeeperNoise       float64 `mapstructure:"keeper_noise"`
	KeeperBand        float64 `mapstructure:"keeper_band"`
	RushRange         float64 `mapstructure:"rush_range"`
	RushRangeLosing   float64 `mapstructure:"rush_range_losing"`
	RushSide          float64 `mapstructure:"rush_side"`
	RushSideLosing    float64 `mapstructure:"rush_side_losing"`

	ShotRange     float64 `mapstructure:"shot_range"`
	CloseShot     float64 `mapstructure:"close_shot"`
	ShootAlign    float64 `mapstructure:"shoot_align"`
	PressureAlign float64 `mapstructure:"pressure_align"`
	Pressure      float64 `mapstructure:"pressure"`
	AimSpread     float64 `mapstructure:"aim_spread"`

	PassMin       float64 `mapstructure:"pass_min"`
	PassMax       float64 `mapstructure:"pass_max"`
	PassLane      float64 `mapstructure:"pass_lane"`
	PassAdvantage float64 `mapstructure:"pass_advantage"`
	PassLead      float64 `mapstructure:"pass_lead"`
	OpenCap       float64 `mapstructure:"open_cap"`

	DribbleLead float64 `mapstructure:"dribble_lead"`
	BehindGap   float64 `mapstructure:"behind_gap"`

	SupportAhead float64 `mapstructure:"support_ahead"`
	ClearRange   float64 `mapstructure:"clear_range"`

	SeparationRadius   float64 `mapstructure:"separation_radius"`
	SeparationStrength float64 `mapstructure:"separation_strength"`
}

func DefaultTuning() Tuning {
	return Tuning{
		ReplanMin:    10,
		ReplanJitter: 10,

		KeeperLine:        30,
		KeeperForward:     60,
		KeeperForwardLost: 120,
		KeeperNoise:       40,
		KeeperBand:        10,
		RushRange:         250,
		RushRangeLosing:   500,
		RushSide:          0.4,
		RushSideLosing:    0.7,

		ShotRange:     260,
		CloseShot:     180,
		ShootAlign:    0.7,
		PressureAlign: 0.35,
		Pressure:      60,
		AimSpread:     0.6,

		PassMin:       60,
		PassMax:       350,
		PassLane:      20 + 15,
		PassAdvantage: 15,
		PassLead:      10,
		OpenCap:       150,

		DribbleLead: 30,
		BehindGap:   10,

		SupportAhead: 150,
		ClearRange:   40,

		SeparationRadius:   100,
		SeparationStrength: 50,
	}
}
