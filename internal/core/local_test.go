package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygame/football/internal/model"
)

func TestRunLocalPlaysToTheWhistle(t *testing.T) {
	info, err := RunLocal(Options{Seed: 11}, LocalSetup{Red: 2, Blue: 2, Minutes: 1, Watch: true}, t0)
	require.NoError(t, err)

	assert.Equal(t, PhaseEnded, info.Phase)
	assert.Zero(t, info.TimeLeft)
	assert.Len(t, info.Roster.Red, 2)
	assert.Len(t, info.Roster.Blue, 2)
	want := (&model.Match{Score: info.Score}).Result()
	assert.Equal(t, want, info.Result)
}

func TestRunLocalSeatsIdleHost(t *testing.T) {
	info, err := RunLocal(Options{Seed: 5}, LocalSetup{Red: 1, Blue: 1, Minutes: 1}, t0)
	require.NoError(t, err)
	require.Len(t, info.Roster.Red, 1)
	assert.Equal(t, "host", info.Roster.Red[0].ID)
	assert.Len(t, info.Roster.Blue, 1)
}

func TestRunLocalRejectsBadSides(t *testing.T) {
	for _, s := range []LocalSetup{
		{Red: 5, Blue: 1},
		{Red: 0, Blue: 1},
		{Red: 2, Blue: 5},
		{Red: 2, Blue: -1},
	} {
		_, err := RunLocal(Options{}, s, t0)
		assert.Error(t, err, "%+v", s)
	}
}

func TestRunLocalUnevenSides(t *testing.T) {
	info, err := RunLocal(Options{Seed: 3}, LocalSetup{Red: 4, Blue: 2, Minutes: 1}, t0)
	require.NoError(t, err)
	assert.Len(t, info.Roster.Red, 4)
	assert.Len(t, info.Roster.Blue, 2)
	assert.Equal(t, "host", info.Roster.Red[0].ID)

	info, err = RunLocal(Options{Seed: 3}, LocalSetup{Red: 1, Blue: 0, Minutes: 1, Watch: true}, t0)
	require.NoError(t, err)
	assert.Len(t, info.Roster.Red, 1)
	assert.Empty(t, info.Roster.Blue)
	assert.Equal(t, PhaseEnded, info.Phase)
}

func TestDefaultLocalSetup(t *testing.T) {
	assert.Equal(t, LocalSetup{Red: 3, Blue: 3, Minutes: 3}, DefaultLocalSetup())
}
