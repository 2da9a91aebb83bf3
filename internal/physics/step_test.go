package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"mygame/football/internal/model"
)

func human(owner string, pos model.Vec) *model.Player {
	return &model.Player{Owner: owner, Pos: pos, Start: pos, Control: model.Human{}}
}

func bot(pos model.Vec) *model.Player {
	return &model.Player{Owner: "bot-1", Pos: pos, Start: pos, Control: &model.Agent{Target: pos}}
}

func newMatch(players ...*model.Player) *model.Match {
	m := &model.Match{Players: players, Duration: 180, TimeLeft: 180}
	m.Ball.Reset()
	return m
}

func TestBallFrictionIsFrameRateIndependent(t *testing.T) {
	e := NewEngine(DefaultParams())

	one := newMatch()
	one.Ball.Vel = model.V(4, 0)
	e.Step(one, nil, 2)

	two := newMatch()
	two.Ball.Vel = model.V(4, 0)
	e.Step(two, nil, 1)
	e.Step(two, nil, 1)

	assert.InDelta(t, two.Ball.Vel.X, one.Ball.Vel.X, 1e-9)
	assert.InDelta(t, 4*0.975*0.975, one.Ball.Vel.X, 1e-9)
}

func TestStepClampsLargeDt(t *testing.T) {
	e := NewEngine(DefaultParams())
	m := newMatch()
	m.Ball.Vel = model.V(1, 0)
	e.Step(m, nil, 100)
	assert.InDelta(t, model.FieldWidth/2+model.MaxStep, m.Ball.Pos.X, 1e-9)
}

func TestBallBouncesOffTopAndSideWalls(t *testing.T) {
	e := NewEngine(DefaultParams())
	m := newMatch()
	m.Ball.Pos = model.V(400, 10)
	m.Ball.Vel = model.V(0, -5)
	e.Step(m, nil, 1)
	assert.Equal(t, model.BallRadius, m.Ball.Pos.Y)
	assert.InDelta(t, 5*0.975*0.8, m.Ball.Vel.Y, 1e-9)

	m.Ball.Pos = model.V(5, 50)
	m.Ball.Vel = model.V(-5, 0)
	e.Step(m, nil, 1)
	assert.Equal(t, model.BallRadius, m.Ball.Pos.X)
	assert.InDelta(t, 5*0.975*0.8, m.Ball.Vel.X, 1e-9)
}

func TestGoalRegisteredOncePerCrossing(t *testing.T) {
	e := NewEngine(DefaultParams())
	p := human("host", model.V(200, 200))
	m := newMatch(p)
	p.Pos = model.V(300, 300)
	p.Vel = model.V(1, 1)
	m.Ball.Pos = model.V(-7, model.FieldHeight/2)
	m.Ball.Vel = model.V(-5, 0)

	goal := e.Step(m, nil, 1)
	require.NotNil(t, goal)
	assert.Equal(t, model.Blue, goal.Scorer)
	assert.Equal(t, model.Score{Blue: 1}, m.Score)
	assert.Equal(t, model.V(model.FieldWidth/2, model.FieldHeight/2), m.Ball.Pos)
	assert.Equal(t, model.Vec{}, m.Ball.Vel)
	assert.Equal(t, p.Start, p.Pos)
	assert.Equal(t, model.Vec{}, p.Vel)

	assert.Nil(t, e.Step(m, nil, 1))
	assert.Equal(t, model.Score{Blue: 1}, m.Score)
}

func TestRightGoalCreditsRed(t *testing.T) {
	e := NewEngine(DefaultParams())
	m := newMatch()
	m.Ball.Pos = model.V(model.FieldWidth+7, model.FieldHeight/2)
	m.Ball.Vel = model.V(5, 0)
	goal := e.Step(m, nil, 1)
	require.NotNil(t, goal)
	assert.Equal(t, model.Red, goal.Scorer)
}

func TestBallInsideNetStaysBetweenSideNets(t *testing.T) {
	e := NewEngine(DefaultParams())
	m := newMatch()
	m.Ball.Pos = model.V(-2, model.GoalTop+9)
	m.Ball.Vel = model.V(0, -4)
	assert.Nil(t, e.Step(m, nil, 1))
	assert.Equal(t, model.GoalTop+model.BallRadius, m.Ball.Pos.Y)
	assert.Greater(t, m.Ball.Vel.Y, 0.0)
}

func TestKickPowerFalloff(t *testing.T) {
	pr := DefaultParams()
	field := &model.Player{}
	keeper := &model.Player{Role: model.RoleGoalkeeper}

	assert.InDelta(t, 8.0, pr.Power(field, ContactDistance()), 1e-12)
	assert.InDelta(t, 10.0, pr.Power(keeper, ContactDistance()), 1e-12)
	assert.InDelta(t, 8*0.2, pr.Power(field, pr.ReachDistance()), 1e-12)
	assert.InDelta(t, 10*0.2, pr.Power(keeper, pr.ReachDistance()), 1e-12)

	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Float64Range(ContactDistance(), pr.ReachDistance()).Draw(t, "a")
		b := rapid.Float64Range(a, pr.ReachDistance()).Draw(t, "b")
		if pr.Power(field, a) < pr.Power(field, b) {
			t.Fatalf("power increased from %v to %v", a, b)
		}
	})
}

func TestHumanKickFiresTowardBall(t *testing.T) {
	e := NewEngine(DefaultParams())
	p := human("p1", model.V(100, 100))
	m := newMatch(p)
	m.Ball.Pos = model.V(125, 100)

	e.Step(m, Inputs{"p1": {Kick: true}}, 1)

	assert.InDelta(t, 8*(0.2+0.8*0.6), m.Ball.Vel.X, 1e-9)
	assert.InDelta(t, 0, m.Ball.Vel.Y, 1e-9)
	assert.InDelta(t, 9, p.Cooldown, 1e-9)

	// cooldown blocks a second kick
	m.Ball.Vel = model.Vec{}
	m.Ball.Pos = model.V(125, 100)
	e.Step(m, Inputs{"p1": {Kick: true}}, 1)
	assert.Equal(t, model.Vec{}, m.Ball.Vel)
}

func TestKickOutOfReachIsIgnored(t *testing.T) {
	e := NewEngine(DefaultParams())
	p := human("p1", model.V(100, 100))
	m := newMatch(p)
	m.Ball.Pos = model.V(130, 100)
	e.Step(m, Inputs{"p1": {Kick: true}}, 1)
	assert.Equal(t, model.Vec{}, m.Ball.Vel)
	assert.Zero(t, p.Cooldown)
}

func TestAgentIntentKicksTowardAim(t *testing.T) {
	e := NewEngine(DefaultParams())
	p := bot(model.V(100, 100))
	p.Agent().Intent = &model.KickIntent{Aim: model.V(824, 100), Power: 1}
	m := newMatch(p)
	m.Ball.Pos = model.V(124, 100)

	e.Step(m, nil, 1)

	assert.Greater(t, m.Ball.Vel.X, 0.0)
	assert.InDelta(t, 0, m.Ball.Vel.Y, 1e-9)
	assert.Nil(t, p.Agent().Intent)
	assert.InDelta(t, 59, p.Cooldown, 1e-9)
}

func TestDribbleCarriesBall(t *testing.T) {
	e := NewEngine(DefaultParams())
	p := human("p1", model.V(100, 100))
	p.Vel = model.V(2, 0)
	m := newMatch(p)
	m.Ball.Pos = model.V(120, 100)

	e.Step(m, nil, 1)

	runner := 2 - 2*0.04
	assert.InDelta(t, runner*1.1, m.Ball.Vel.X, 1e-9)
	assert.InDelta(t, 100+runner+model.PlayerRadius+model.BallRadius+1, m.Ball.Pos.X, 1e-9)
}

func TestStandingPlayerBouncesBall(t *testing.T) {
	e := NewEngine(DefaultParams())
	p := human("p1", model.V(100, 100))
	m := newMatch(p)
	m.Ball.Pos = model.V(118, 100)
	m.Ball.Vel = model.V(-1, 0)

	e.Step(m, nil, 1)

	assert.InDelta(t, 0.5, m.Ball.Vel.X, 1e-9)
	assert.Greater(t, m.Ball.Pos.X-p.Pos.X, ContactDistance())
}

func TestBounceDampingIsConfigurable(t *testing.T) {
	pr := DefaultParams()
	pr.BounceDamping = 0.9
	e := NewEngine(pr)
	p := human("p1", model.V(100, 100))
	m := newMatch(p)
	m.Ball.Pos = model.V(122, 100)
	m.Ball.Vel = model.V(-4, 0)

	e.Step(m, nil, 1)

	assert.InDelta(t, 4*0.975*0.9, m.Ball.Vel.X, 1e-9)
}

func TestSeparatePushesPlayersApartSymmetrically(t *testing.T) {
	a := human("a", model.V(100, 100))
	b := human("b", model.V(110, 100))
	Separate([]*model.Player{a, b})
	assert.InDelta(t, 2*model.PlayerRadius, a.Pos.Dist(b.Pos), 1e-9)
	assert.InDelta(t, 90, a.Pos.X, 1e-9)
	assert.InDelta(t, 120, b.Pos.X, 1e-9)
}

func TestGoalkeeperMayEnterNetButFieldPlayerMayNot(t *testing.T) {
	pr := DefaultParams()

	keeper := human("k", model.V(-30, model.FieldHeight/2))
	keeper.Role = model.RoleGoalkeeper
	constrain(keeper, pr)
	assert.Equal(t, -model.GoalDepth+model.PlayerRadius, keeper.Pos.X)

	field := human("f", model.V(-30, model.FieldHeight/2))
	constrain(field, pr)
	assert.Equal(t, model.PlayerRadius, field.Pos.X)

	outside := human("o", model.V(-30, 40))
	constrain(outside, pr)
	assert.Equal(t, -pr.Margin, outside.Pos.X)
}

func TestPostDeflection(t *testing.T) {
	pr := DefaultParams()
	p := human("p", model.V(3, model.GoalTop-4))
	constrain(p, pr)
	assert.InDelta(t, model.PlayerRadius, p.Pos.Dist(model.V(0, model.GoalTop)), 1e-9)
}

func TestInputDirection(t *testing.T) {
	diag := Input{Up: true, Right: true}.Direction()
	assert.InDelta(t, 1, diag.Len(), 1e-9)

	stick := Input{Stick: model.V(0.5, 0), StickActive: true, Left: true}.Direction()
	assert.Equal(t, model.V(0.5, 0), stick)

	over := Input{Stick: model.V(3, 4), StickActive: true}.Direction()
	assert.InDelta(t, 1, over.Len(), 1e-9)
}

func TestPushOut(t *testing.T) {
	n, depth, ok := pushOut(model.V(0, 0), model.V(6, 8), 15, model.V(1, 0))
	require.True(t, ok)
	assert.InDelta(t, 0.6, n.X, 1e-9)
	assert.InDelta(t, 0.8, n.Y, 1e-9)
	assert.InDelta(t, 5, depth, 1e-9)

	_, _, ok = pushOut(model.V(0, 0), model.V(12, 9), 14, model.V(1, 0))
	assert.False(t, ok)

	n, depth, ok = pushOut(model.V(5, 5), model.V(5, 5), 20, model.V(-1, 0))
	require.True(t, ok)
	assert.Equal(t, model.V(-1, 0), n)
	assert.Equal(t, 20.0, depth)
}

func TestSeparateLeavesNoOverlap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := human("a", model.V(rapid.Float64Range(100, 200).Draw(t, "ax"), rapid.Float64Range(100, 200).Draw(t, "ay")))
		b := human("b", a.Pos.Add(model.V(rapid.Float64Range(-19, 19).Draw(t, "dx"), rapid.Float64Range(-19, 19).Draw(t, "dy"))))
		mid := a.Pos.Add(b.Pos).Scale(0.5)
		Separate([]*model.Player{a, b})
		if d := a.Pos.Dist(b.Pos); d < 2*model.PlayerRadius-1e-9 {
			t.Fatalf("players still overlap: %v", d)
		}
		if got := a.Pos.Add(b.Pos).Scale(0.5); got.Dist(mid) > 1e-9 {
			t.Fatalf("midpoint moved from %v to %v", mid, got)
		}
	})
}

func TestCoincidentBallIsPushedForward(t *testing.T) {
	e := NewEngine(DefaultParams())
	p := human("p1", model.V(300, 200))
	p.Team = model.Blue
	m := newMatch(p)
	m.Ball.Pos = p.Pos

	e.Step(m, nil, 1)

	assert.Less(t, m.Ball.Pos.X, p.Pos.X-ContactDistance())
	assert.InDelta(t, 0, m.Ball.Pos.Y-p.Pos.Y, 1e-9)
}
