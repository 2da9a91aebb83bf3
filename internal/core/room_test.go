package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"mygame/football/internal/core/mocks"
	"mygame/football/internal/lobby"
	"mygame/football/internal/model"
	"mygame/football/internal/mq"
	"mygame/football/internal/physics"
	pb "mygame/football/proto"
)

func init() { lobby.PasswordCost = bcrypt.MinCost }

var t0 = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time { return t0.Add(d) }

type fakePeer struct {
	id     string
	mu     sync.Mutex
	got    []pb.Message
	closed bool
}

func (f *fakePeer) ID() string { return f.id }

func (f *fakePeer) Send(m pb.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, m)
	return nil
}

func (f *fakePeer) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakePeer) count(k pb.Kind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.got {
		if m.Kind() == k {
			n++
		}
	}
	return n
}

func (f *fakePeer) last(k pb.Kind) pb.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.got) - 1; i >= 0; i-- {
		if f.got[i].Kind() == k {
			return f.got[i]
		}
	}
	return nil
}

func newTestRoom(t *testing.T, opts Options) *Room {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	r, err := NewRoom("ABC123", opts)
	require.NoError(t, err)
	return r
}

// startedRoom has the host on red with a bot, p2 on blue, and is past the
// countdown at t0+3s.
func startedRoom(t *testing.T, opts Options) (*Room, *fakePeer, *fakePeer) {
	t.Helper()
	r := newTestRoom(t, opts)
	host, p2 := &fakePeer{id: lobby.HostID}, &fakePeer{id: "p2"}
	require.NoError(t, r.join(host, ""))
	require.NoError(t, r.join(p2, "Ana"))
	_, err := r.lobby.AddBot(model.Red)
	require.NoError(t, err)
	require.NoError(t, r.StartAt(t0, 0))
	r.Tick(at(3 * time.Second))
	require.Equal(t, PhaseRunning, r.Phase())
	return r, host, p2
}

func TestStartBroadcastsRosterAndCountsDown(t *testing.T) {
	r := newTestRoom(t, Options{})
	host, p2 := &fakePeer{id: lobby.HostID}, &fakePeer{id: "p2"}
	require.NoError(t, r.join(host, ""))
	require.NoError(t, r.join(p2, "Ana"))
	assert.Equal(t, 2, host.count(pb.KindRosterUpdate))

	require.NoError(t, r.StartAt(t0, 0))
	assert.Equal(t, PhaseCountdown, r.Phase())
	start := p2.last(pb.KindStart).(*pb.Start)
	assert.Equal(t, 180.0, start.Duration)
	assert.Equal(t, []pb.RosterEntry{{ID: "host", Name: "Host"}}, start.Red)
	assert.Equal(t, []pb.RosterEntry{{ID: "p2", Name: "Ana"}}, start.Blue)
	assert.NotEmpty(t, r.Info().MatchID)

	assert.ErrorIs(t, r.StartAt(t0, 0), ErrStarted)

	r.Tick(at(time.Second))
	assert.Equal(t, PhaseCountdown, r.Phase())
	assert.Equal(t, 180.0, r.Match().TimeLeft)
	assert.Equal(t, 1, p2.count(pb.KindStateUpdate))

	r.Tick(at(3 * time.Second))
	assert.Equal(t, PhaseRunning, r.Phase())
	assert.Equal(t, 180.0, r.Match().TimeLeft)

	r.Tick(at(3*time.Second + 20*time.Millisecond))
	assert.InDelta(t, 179.98, r.Match().TimeLeft, 1e-9)
}

func TestSnapshotCadence(t *testing.T) {
	r, host, _ := startedRoom(t, Options{})
	before := host.count(pb.KindStateUpdate)
	for ms := 16; ms <= 700; ms += 16 {
		r.Tick(at(3*time.Second + time.Duration(ms)*time.Millisecond))
	}
	sent := host.count(pb.KindStateUpdate) - before
	assert.Equal(t, 8, sent)
}

func TestStartValidation(t *testing.T) {
	empty := newTestRoom(t, Options{DisplayOnly: true})
	assert.ErrorIs(t, empty.StartAt(t0, 0), ErrEmptyRoster)

	r := newTestRoom(t, Options{})
	assert.ErrorIs(t, r.StartAt(t0, 9), lobby.ErrBadDuration)
	assert.Equal(t, PhaseLobby, r.Phase())
}

func TestGoalFreezesPlayThenResumes(t *testing.T) {
	r, _, _ := startedRoom(t, Options{})
	m := r.Match()
	kick := at(3*time.Second + 16*time.Millisecond)
	m.Ball.Pos = model.V(-7, model.FieldHeight/2)
	m.Ball.Vel = model.V(-5, 0)

	r.Tick(kick)
	require.Equal(t, PhaseGoalPause, r.Phase())
	assert.Equal(t, model.Score{Blue: 1}, m.Score)
	clock := m.TimeLeft

	// nothing moves and the clock stands still
	m.Ball.Pos = model.V(100, 100)
	m.Ball.Vel = model.V(3, 0)
	r.Tick(kick.Add(time.Second))
	assert.Equal(t, model.V(100, 100), m.Ball.Pos)
	assert.Equal(t, clock, m.TimeLeft)

	r.Tick(kick.Add(model.GoalPauseDuration))
	assert.Equal(t, PhaseRunning, r.Phase())
	assert.Equal(t, model.V(model.FieldWidth/2, model.FieldHeight/2), m.Ball.Pos)
	assert.Equal(t, model.Vec{}, m.Ball.Vel)
	for _, p := range m.Players {
		assert.Equal(t, p.Start, p.Pos, p.Key())
	}
	assert.Equal(t, model.Score{Blue: 1}, m.Score)
}

func TestMatchEndsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockResultSink(ctrl)
	published := make(chan *mq.GameResult, 1)
	sink.EXPECT().PublishGameResult(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *mq.GameResult) error {
			published <- r
			return nil
		}).Times(1)

	r, host, p2 := startedRoom(t, Options{Sink: sink})
	m := r.Match()
	m.Score = model.Score{Red: 2, Blue: 1}
	m.TimeLeft = 0.01

	r.Tick(at(3*time.Second + 16*time.Millisecond))
	require.Equal(t, PhaseEnded, r.Phase())
	assert.Equal(t, 0.0, m.TimeLeft)

	for i := 1; i <= 5; i++ {
		r.Tick(at(3*time.Second + time.Duration(16+i*100)*time.Millisecond))
	}
	for _, peer := range []*fakePeer{host, p2} {
		assert.Equal(t, 1, peer.count(pb.KindGameOver))
		over := peer.last(pb.KindGameOver).(*pb.GameOver)
		assert.Equal(t, &pb.GameOver{Result: "Red Wins!", ScoreRed: 2, ScoreBlue: 1}, over)
	}
	assert.Equal(t, "Red Wins!", r.Info().Result)

	select {
	case res := <-published:
		assert.Equal(t, "red", res.Winner)
		assert.Equal(t, "ABC123", res.Room)
		assert.Equal(t, r.Info().MatchID, res.MatchID)
		assert.Len(t, res.Players, 3)
	case <-time.After(2 * time.Second):
		t.Fatal("result not published")
	}
}

func TestDisplayOnlyRoomSendsHUD(t *testing.T) {
	r := newTestRoom(t, Options{DisplayOnly: true})
	screen, pad := &fakePeer{id: lobby.HostID}, &fakePeer{id: "pad"}
	require.NoError(t, r.join(screen, ""))
	require.NoError(t, r.join(pad, ""))
	_, err := r.lobby.AddBot(model.Red)
	require.NoError(t, err)

	roster := r.lobby.Roster()
	require.Len(t, roster.Red, 1)
	assert.Equal(t, "bot-1", roster.Red[0].ID)
	assert.Equal(t, "pad", roster.Blue[0].ID)

	require.NoError(t, r.StartAt(t0, 1))
	assert.True(t, pad.last(pb.KindStart).(*pb.Start).DisplayOnly)
	r.Tick(at(100 * time.Millisecond))
	assert.Equal(t, 1, pad.count(pb.KindHUDUpdate))
	assert.Zero(t, pad.count(pb.KindStateUpdate))
}

func TestJoinAndLeaveRules(t *testing.T) {
	r := newTestRoom(t, Options{})
	first, second := &fakePeer{id: "p2"}, &fakePeer{id: "p2"}
	require.NoError(t, r.join(first, ""))
	require.NoError(t, r.join(second, ""))
	assert.True(t, first.closed)
	assert.Len(t, r.lobby.Roster().Blue, 1)

	r.leave(second)
	assert.Empty(t, r.lobby.Roster().Blue)
	assert.Equal(t, 0, r.Info().Peers)

	r, _, p2 := startedRoom(t, Options{})
	assert.ErrorIs(t, r.join(&fakePeer{id: "late"}, ""), ErrStarted)

	r.latest["p2"] = physics.Input{Right: true}
	r.leave(p2)
	assert.NotNil(t, r.Match().Find("p2"), "player stays on the pitch")
	assert.NotContains(t, r.latest, "p2")
}

func TestStaleExitKeepsReplacement(t *testing.T) {
	r := newTestRoom(t, Options{})
	old, fresh := &fakePeer{id: "p2"}, &fakePeer{id: "p2"}
	require.NoError(t, r.join(old, "Ana"))
	require.NoError(t, r.join(fresh, "Ana"))
	require.True(t, old.closed)

	// the replaced connection unwinds after the new one is attached
	r.leave(old)
	assert.Equal(t, 1, r.Info().Peers)
	assert.Len(t, r.lobby.Roster().Blue, 1)
	assert.True(t, r.lobby.Has("p2"))

	before, stale := fresh.count(pb.KindRosterUpdate), old.count(pb.KindRosterUpdate)
	_, err := r.lobby.AddBot(model.Red)
	require.NoError(t, err)
	r.rosterChanged()
	assert.Equal(t, before+1, fresh.count(pb.KindRosterUpdate))
	assert.Equal(t, stale, old.count(pb.KindRosterUpdate))

	r.leave(fresh)
	assert.Zero(t, r.Info().Peers)
	assert.False(t, r.lobby.Has("p2"))
}

func TestInfoFields(t *testing.T) {
	r := newTestRoom(t, Options{Password: "pw"})
	f := r.Info().Fields()
	assert.Equal(t, "lobby", f["phase"])
	assert.Equal(t, 1, f["red"])
	assert.Equal(t, true, f["locked"])
	assert.Equal(t, "0-0", f["score"])
}

func TestRoomLoopCommands(t *testing.T) {
	r := newTestRoom(t, Options{Password: "pw", Countdown: 20 * time.Millisecond})
	go r.Run()
	defer r.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.ErrorIs(t, r.Admit(ctx, "nope"), lobby.ErrWrongPassword)
	require.NoError(t, r.Admit(ctx, "pw"))

	peer := &fakePeer{id: "p2"}
	require.NoError(t, r.Enter(ctx, peer, "Ana"))
	bot, err := r.AddBot(ctx, model.Blue)
	require.NoError(t, err)
	to, err := r.Move(ctx, bot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Red, to)
	assert.ErrorIs(t, r.RemoveBot(ctx, "p2"), lobby.ErrNotBot)
	assert.ErrorIs(t, r.ReturnToLobby(ctx), ErrNotEnded)
	assert.ErrorIs(t, r.RemoveParticipant(ctx, "p2"), ErrConnected)
	assert.ErrorIs(t, r.RemoveParticipant(ctx, "ghost"), lobby.ErrNotFound)

	r.Input("p2", &pb.Input{Right: true})
	r.Input("ghost", &pb.Input{Left: true})
	var seen physics.Inputs
	require.NoError(t, r.do(ctx, func(time.Time) error {
		seen = physics.Inputs{}
		for k, v := range r.latest {
			seen[k] = v
		}
		return nil
	}))
	assert.Equal(t, physics.Inputs{"p2": {Right: true}}, seen)

	// malformed samples arrive as nil and neutralise the player
	r.Input("p2", nil)
	require.NoError(t, r.do(ctx, func(time.Time) error {
		seen = physics.Inputs{"p2": r.latest["p2"]}
		return nil
	}))
	assert.Equal(t, physics.Input{}, seen["p2"])

	require.NoError(t, r.Start(ctx, 1))
	assert.ErrorIs(t, r.Admit(ctx, "pw"), ErrStarted)
	_, err = r.AddBot(ctx, model.Red)
	assert.ErrorIs(t, err, ErrStarted)

	require.Eventually(t, func() bool { return r.Info().Phase == PhaseRunning }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, peer.count(pb.KindStart))

	r.Exit(peer)
	r.Stop()
	<-r.Done()
	assert.True(t, peer.closed || r.Info().Peers == 0)
	assert.ErrorIs(t, r.Enter(ctx, &fakePeer{id: "x"}, ""), ErrClosed)
	_, err = r.AddBot(ctx, model.Red)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestReturnToLobbyAfterMatch(t *testing.T) {
	r, host, _ := startedRoom(t, Options{})
	r.Match().TimeLeft = 0
	r.Tick(at(3*time.Second + 16*time.Millisecond))
	require.Equal(t, PhaseEnded, r.Phase())

	rosterBefore := host.count(pb.KindRosterUpdate)
	go r.Run()
	defer r.Stop()
	require.NoError(t, r.ReturnToLobby(context.Background()))
	assert.Equal(t, PhaseLobby, r.Info().Phase)
	assert.Equal(t, rosterBefore+1, host.count(pb.KindRosterUpdate))
}
