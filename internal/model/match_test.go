package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func roster(red, blue int) Roster {
	var r Roster
	for i := 0; i < red; i++ {
		r.Red = append(r.Red, Slot{ID: fmt.Sprintf("r%d", i), Name: "R", Bot: i > 0})
	}
	for i := 0; i < blue; i++ {
		r.Blue = append(r.Blue, Slot{ID: fmt.Sprintf("bot-%d", i), Bot: true})
	}
	return r
}

func TestHashIsStable(t *testing.T) {
	assert.Equal(t, 0, Hash(""))
	assert.Equal(t, 97, Hash("a"))
	assert.Equal(t, 97*31+98, Hash("ab"))
	assert.GreaterOrEqual(t, Hash("a fairly long identity string that overflows"), 0)
}

func TestJerseysUniqueAndInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		red := rapid.IntRange(0, MaxPerTeam).Draw(t, "red")
		blue := rapid.IntRange(0, MaxPerTeam).Draw(t, "blue")
		ids := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z0-9-]{1,12}`), red+blue, red+blue, rapid.ID[string]).Draw(t, "ids")

		var r Roster
		for i, id := range ids {
			if i < red {
				r.Red = append(r.Red, Slot{ID: id})
			} else {
				r.Blue = append(r.Blue, Slot{ID: id, Bot: true})
			}
		}
		m := New(r, 0)
		seen := map[int]bool{}
		for _, p := range m.Players {
			if p.Number < 1 || p.Number > JerseyMax {
				t.Fatalf("jersey %d out of range", p.Number)
			}
			if seen[p.Number] {
				t.Fatalf("duplicate jersey %d", p.Number)
			}
			seen[p.Number] = true
		}
	})
}

func TestGoalkeeperAssignmentIsDeterministic(t *testing.T) {
	r := roster(3, 4)
	first := New(r, 0)
	for i := 0; i < 5; i++ {
		again := New(r, 0)
		for j, p := range again.Players {
			assert.Equal(t, first.Players[j].Role, p.Role)
		}
	}

	for _, team := range []Team{Red, Blue} {
		keepers := 0
		for _, p := range first.Teammates(team) {
			if p.Goalkeeper() {
				keepers++
			}
		}
		assert.Equal(t, 1, keepers, team.String())
	}
}

func TestNoGoalkeeperWhenATeamIsAlone(t *testing.T) {
	m := New(roster(1, 3), 0)
	for _, p := range m.Players {
		assert.Equal(t, RoleField, p.Role)
	}
}

func TestSetupPlacesAndControlsPlayers(t *testing.T) {
	m := New(roster(2, 2), 120)
	require.Len(t, m.Players, 4)
	assert.Equal(t, 120.0, m.TimeLeft)

	host := m.Players[0]
	assert.True(t, host.Human())
	assert.Nil(t, host.Agent())
	assert.InDelta(t, 80, host.Pos.X, 1e-9)
	assert.InDelta(t, 175, host.Pos.Y, 1e-9)

	bot := m.Players[3]
	assert.NotNil(t, bot.Agent())
	assert.Equal(t, Blue, bot.Team)
	assert.InDelta(t, 720, bot.Pos.X, 1e-9)
	assert.InDelta(t, 250, bot.Pos.Y, 1e-9)
}

func TestRegisterGoalResetsPositions(t *testing.T) {
	m := New(roster(2, 2), 0)
	m.Ball.Pos = V(-20, 250)
	m.Ball.Vel = V(-3, 0)
	m.Players[1].Pos = V(400, 400)
	m.Players[1].Vel = V(1, 1)

	m.RegisterGoal(Blue)

	assert.Equal(t, Score{Blue: 1}, m.Score)
	assert.Equal(t, V(FieldWidth/2, FieldHeight/2), m.Ball.Pos)
	assert.Equal(t, Vec{}, m.Ball.Vel)
	assert.Equal(t, m.Players[1].Start, m.Players[1].Pos)
	assert.Equal(t, Vec{}, m.Players[1].Vel)
	assert.True(t, m.Losing(Red))
	assert.Equal(t, "Blue Wins!", m.Result())
}

func TestIdentityKeyFallback(t *testing.T) {
	assert.Equal(t, "host", IdentityKey("host", "x", Red, 0))
	assert.Equal(t, "x", IdentityKey("", "x", Red, 0))
	assert.Equal(t, "blue-2", IdentityKey("", "", Blue, 2))
}

func TestStepForClamps(t *testing.T) {
	assert.Equal(t, 0.0, StepFor(-1))
	assert.InDelta(t, 1.0, StepFor(NominalTick), 1e-9)
	assert.Equal(t, MaxStep, StepFor(NominalTick*10))
}

func TestFreeNumberSearchesUpwardAndWraps(t *testing.T) {
	assert.Equal(t, 5, FreeNumber(5, map[int]bool{4: true}))
	assert.Equal(t, 7, FreeNumber(5, map[int]bool{5: true, 6: true}))
	assert.Equal(t, 1, FreeNumber(JerseyMax, map[int]bool{JerseyMax: true}))
}
