package model

import "time"

// Field geometry, in field units. The origin is the top-left corner of the
// pitch; the goals sit outside x = 0 and x = FieldWidth.
const (
	FieldWidth   = 800.0
	FieldHeight  = 500.0
	GoalHeight   = 125.0
	GoalDepth    = 40.0
	PlayerRadius = 15.0
	BallRadius   = 8.0

	GoalTop    = (FieldHeight - GoalHeight) / 2
	GoalBottom = (FieldHeight + GoalHeight) / 2
)

// Match rules.
const (
	MaxPerTeam      = 4
	JerseyMax       = 25
	DefaultDuration = 180.0 // seconds
	MinDuration     = 60.0
	MaxDuration     = 300.0

	CountdownDuration = 3 * time.Second
	GoalPauseDuration = 1500 * time.Millisecond
)

// NominalTick is the frame length all per-tick constants are tuned for.
const NominalTick = 16670 * time.Microsecond

// MaxStep caps dt after a stall.
const MaxStep = 4.0

// StepFor converts an elapsed wall-clock interval into a tick scalar.
func StepFor(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	dt := float64(elapsed) / float64(NominalTick)
	if dt > MaxStep {
		dt = MaxStep
	}
	return dt
}

// ClampDuration keeps a requested match length inside the accepted range.
func ClampDuration(sec float64) float64 {
	switch {
	case sec <= 0:
		return DefaultDuration
	case sec < MinDuration:
		return MinDuration
	case sec > MaxDuration:
		return MaxDuration
	}
	return sec
}
