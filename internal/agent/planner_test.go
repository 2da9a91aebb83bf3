package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygame/football/internal/model"
	"mygame/football/internal/physics"
)

func newPlanner(seed uint64) *Planner {
	return NewPlanner(DefaultTuning(), physics.DefaultParams(), seed)
}

func agentAt(team model.Team, x, y float64) *model.Player {
	pos := model.V(x, y)
	return &model.Player{Team: team, Pos: pos, Start: pos, Control: &model.Agent{}}
}

func matchWith(ball model.Vec, players ...*model.Player) *model.Match {
	m := &model.Match{Players: players}
	m.Ball.Pos = ball
	return m
}

func TestReplanTimerIsJittered(t *testing.T) {
	pl := newPlanner(7)
	p := agentAt(model.Red, 100, 100)
	m := matchWith(model.V(400, 250), p)

	pl.Update(m, 1)
	first := p.Agent().Replan
	assert.GreaterOrEqual(t, first, 10.0)
	assert.Less(t, first, 20.0)

	// not due yet: nothing changes
	p.Agent().Target = model.V(1, 1)
	pl.Update(m, 1)
	assert.Equal(t, model.V(1, 1), p.Agent().Target)
	assert.InDelta(t, first-1, p.Agent().Replan, 1e-9)
}

func TestPlannerIsDeterministicPerSeed(t *testing.T) {
	run := func() []model.Vec {
		pl := newPlanner(42)
		keeper := agentAt(model.Red, 30, 250)
		keeper.Role = model.RoleGoalkeeper
		m := matchWith(model.V(500, 200), keeper, agentAt(model.Red, 300, 250), agentAt(model.Red, 200, 100))
		var out []model.Vec
		for i := 0; i < 50; i++ {
			pl.Update(m, 4)
			for _, p := range m.Players {
				out = append(out, p.Agent().Target)
			}
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestKeeperHoldsGoalBandWhenBallFar(t *testing.T) {
	pl := newPlanner(1)
	keeper := agentAt(model.Red, 30, 250)
	keeper.Role = model.RoleGoalkeeper
	m := matchWith(model.V(700, 250), keeper)

	for i := 0; i < 20; i++ {
		pl.Plan(m, keeper)
		a := keeper.Agent()
		assert.InDelta(t, 90, a.Target.X, 1e-9)
		assert.GreaterOrEqual(t, a.Target.Y, model.GoalTop-10)
		assert.LessOrEqual(t, a.Target.Y, model.GoalBottom+10)
		assert.Nil(t, a.Intent)
	}
}

func TestKeeperRushesAndClears(t *testing.T) {
	pl := newPlanner(1)
	keeper := agentAt(model.Blue, 770, 250)
	keeper.Role = model.RoleGoalkeeper
	m := matchWith(model.V(650, 260), keeper)

	pl.Plan(m, keeper)
	a := keeper.Agent()
	assert.Equal(t, m.Ball.Pos, a.Target)
	require.NotNil(t, a.Intent)
	assert.InDelta(t, 200, a.Intent.Aim.X, 1e-9)
}

func TestLosingKeeperPlaysFurtherForward(t *testing.T) {
	pl := newPlanner(1)
	keeper := agentAt(model.Red, 30, 250)
	keeper.Role = model.RoleGoalkeeper
	m := matchWith(model.V(790, 250), keeper)
	m.Score = model.Score{Blue: 2}

	pl.Plan(m, keeper)
	assert.InDelta(t, 150, keeper.Agent().Target.X, 1e-9)
}

func TestStrikerShootsWhenCloseAndAligned(t *testing.T) {
	pl := newPlanner(3)
	p := agentAt(model.Red, 615, 250)
	m := matchWith(model.V(640, 250), p)

	pl.Plan(m, p)
	a := p.Agent()
	require.NotNil(t, a.Intent)
	assert.Equal(t, model.FieldWidth, a.Intent.Aim.X)
	assert.InDelta(t, model.FieldHeight/2, a.Intent.Aim.Y, model.GoalHeight/2)
	assert.Equal(t, 1.0, a.Intent.Power)
}

func TestStrikerPassesToOpenTeammate(t *testing.T) {
	pl := newPlanner(3)
	p := agentAt(model.Red, 300, 250)
	mate := agentAt(model.Red, 500, 100)
	m := matchWith(model.V(320, 250), p, mate)

	pl.Plan(m, p)
	a := p.Agent()
	require.NotNil(t, a.Intent)
	assert.Equal(t, mate.Pos, a.Intent.Aim)
	assert.Greater(t, a.Intent.Power, 0.45)
}

func TestBlockedLaneIsNotAPass(t *testing.T) {
	pl := newPlanner(3)
	p := agentAt(model.Red, 300, 250)
	mate := agentAt(model.Red, 500, 250)
	blocker := agentAt(model.Blue, 410, 250)
	m := matchWith(model.V(320, 250), p, mate, blocker)

	got, _ := pl.bestPass(m, p)
	assert.Nil(t, got)
}

func TestStrikerRepositionsBehindBall(t *testing.T) {
	pl := newPlanner(3)
	p := agentAt(model.Red, 440, 250)
	m := matchWith(model.V(400, 250), p)

	pl.Plan(m, p)
	a := p.Agent()
	assert.Nil(t, a.Intent)
	assert.InDelta(t, 400-physics.ContactDistance()-10, a.Target.X, 1e-9)
	assert.InDelta(t, 250, a.Target.Y, 1e-9)
}

func TestStrikerContestsWhenOpponentNear(t *testing.T) {
	pl := newPlanner(3)
	p := agentAt(model.Red, 440, 250)
	opp := agentAt(model.Blue, 380, 250)
	m := matchWith(model.V(400, 250), p, opp)

	pl.Plan(m, p)
	assert.Equal(t, m.Ball.Pos, p.Agent().Target)
}

func TestStrikerDribblesWhenAlignedButFar(t *testing.T) {
	pl := newPlanner(3)
	p := agentAt(model.Red, 180, 250)
	m := matchWith(model.V(200, 250), p)

	pl.Plan(m, p)
	a := p.Agent()
	assert.Nil(t, a.Intent)
	assert.InDelta(t, 230, a.Target.X, 1e-9)
}

func TestSupportDefendsAndAttacks(t *testing.T) {
	pl := newPlanner(5)
	striker := agentAt(model.Red, 210, 100)
	support := agentAt(model.Red, 600, 400)
	m := matchWith(model.V(200, 100), striker, support)

	pl.Plan(m, support)
	assert.Equal(t, model.V(100, 100), support.Agent().Target)

	m.Ball.Pos = model.V(600, 100)
	striker.Pos = model.V(610, 100)
	support.Pos = model.V(100, 400)
	pl.Plan(m, support)
	assert.Equal(t, model.V(750, 375), support.Agent().Target)
}

func TestSeparationPushesApart(t *testing.T) {
	pl := newPlanner(5)
	p := agentAt(model.Red, 100, 100)
	o := agentAt(model.Red, 150, 100)
	foe := agentAt(model.Blue, 110, 100)
	m := matchWith(model.V(400, 250), p, o, foe)

	push := pl.separation(m, p)
	assert.InDelta(t, -25, push.X, 1e-9)
	assert.InDelta(t, 0, push.Y, 1e-9)
}

func TestClosestIgnoresGoalkeeper(t *testing.T) {
	keeper := agentAt(model.Red, 20, 250)
	keeper.Role = model.RoleGoalkeeper
	field := agentAt(model.Red, 300, 250)
	m := matchWith(model.V(30, 250), keeper, field)
	assert.Same(t, field, Closest(m, model.Red))
}
