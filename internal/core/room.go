package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"mygame/football/internal/agent"
	"mygame/football/internal/lobby"
	"mygame/football/internal/model"
	"mygame/football/internal/mq"
	"mygame/football/internal/netsync"
	"mygame/football/internal/physics"
	pb "mygame/football/proto"
)

var (
	ErrStarted     = errors.New("core: match already started")
	ErrNotEnded    = errors.New("core: match has not ended")
	ErrEmptyRoster = errors.New("core: roster is empty")
	ErrClosed      = errors.New("core: room closed")
	ErrConnected   = errors.New("core: participant is connected")
)

type Phase uint8

const (
	PhaseLobby Phase = iota
	PhaseSetup
	PhaseCountdown
	PhaseRunning
	PhaseGoalPause
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseCountdown:
		return "countdown"
	case PhaseRunning:
		return "running"
	case PhaseGoalPause:
		return "goal_pause"
	case PhaseEnded:
		return "ended"
	}
	return "lobby"
}

// Options configure a room. Zero durations take the defaults.
type Options struct {
	Tick      time.Duration // authority frame clock
	Snapshot  time.Duration
	Countdown time.Duration
	GoalPause time.Duration

	Physics physics.Params
	Agent   agent.Tuning
	Seed    uint64 // 0 seeds each match from the clock

	DisplayOnly bool
	Password    string

	Sink      ResultSink
	Directory Directory
}

func DefaultOptions() Options {
	return Options{
		Tick:      model.NominalTick,
		Snapshot:  70 * time.Millisecond,
		Countdown: model.CountdownDuration,
		GoalPause: model.GoalPauseDuration,
		Physics:   physics.DefaultParams(),
		Agent:     agent.DefaultTuning(),
	}
}

func (o *Options) fill() {
	d := DefaultOptions()
	if o.Tick <= 0 {
		o.Tick = d.Tick
	}
	if o.Snapshot <= 0 {
		o.Snapshot = d.Snapshot
	}
	if o.Countdown <= 0 {
		o.Countdown = d.Countdown
	}
	if o.GoalPause <= 0 {
		o.GoalPause = d.GoalPause
	}
	if o.Physics == (physics.Params{}) {
		o.Physics = d.Physics
	}
	if o.Agent == (agent.Tuning{}) {
		o.Agent = d.Agent
	}
}

type registration struct {
	peer  Peer
	name  string
	reply chan error
}

type inputSample struct {
	peer string
	in   physics.Input
}

type command struct {
	fn    func(now time.Time) error
	reply chan error
}

// Room is the authority for one match. All of its state is owned by the
// goroutine running Run; everything else talks to it through channels.
// When Run is not used (local mode, tests) the caller owns the room and may
// call Tick, StartAt and Lobby directly.
type Room struct {
	Code string
	opts Options

	register   chan registration
	unregister chan Peer
	inputs     chan inputSample
	commands   chan command
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once

	lobby  *lobby.Lobby
	peers  map[string]Peer
	latest physics.Inputs

	phase     Phase
	until     time.Time
	lastTick  time.Time
	matchID   string
	match     *model.Match
	engine    *physics.Engine
	planner   *agent.Planner
	snapshots netsync.Cadence
	over      bool
	result    string

	lastActive time.Time
	info       atomic.Pointer[Info]
}

func NewRoom(code string, opts Options) (*Room, error) {
	opts.fill()
	if opts.Directory == nil {
		opts.Directory = nopDirectory{}
	}
	if opts.Sink == nil {
		opts.Sink = mq.Discard{}
	}
	r := &Room{
		Code:       code,
		opts:       opts,
		register:   make(chan registration),
		unregister: make(chan Peer),
		inputs:     make(chan inputSample),
		commands:   make(chan command),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		lobby:      lobby.New(code, opts.DisplayOnly),
		peers:      make(map[string]Peer),
		latest:     physics.Inputs{},
		engine:     physics.NewEngine(opts.Physics),
		snapshots:  netsync.Cadence{Interval: opts.Snapshot},
		lastActive: time.Now(),
	}
	if err := r.lobby.SetPassword(opts.Password); err != nil {
		return nil, err
	}
	r.publish()
	return r, nil
}

func (r *Room) Run() {
	ticker := time.NewTicker(r.opts.Tick)
	defer ticker.Stop()
	defer close(r.done)

	for {
		select {
		case <-r.stop:
			r.teardown()
			return

		case reg := <-r.register:
			reg.reply <- r.join(reg.peer, reg.name)

		case p := <-r.unregister:
			r.leave(p)

		case s := <-r.inputs:
			if _, ok := r.peers[s.peer]; ok {
				r.latest[s.peer] = s.in
			}

		case cmd := <-r.commands:
			cmd.reply <- cmd.fn(time.Now())

		case now := <-ticker.C:
			r.Tick(now)
		}
	}
}

// Stop ends Run. It is safe to call more than once.
func (r *Room) Stop() { r.stopOnce.Do(func() { close(r.stop) }) }

// Done is closed once Run has returned.
func (r *Room) Done() <-chan struct{} { return r.done }

// Enter attaches a connected participant.
func (r *Room) Enter(ctx context.Context, p Peer, name string) error {
	reg := registration{peer: p, name: name, reply: make(chan error, 1)}
	select {
	case r.register <- reg:
	case <-r.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reg.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Exit detaches a participant. A peer that has since been replaced by a
// newer connection with the same id is ignored. It never blocks on a
// stopped room.
func (r *Room) Exit(p Peer) {
	select {
	case r.unregister <- p:
	case <-r.done:
	}
}

// Input records the latest control sample of a participant. A nil sample
// is neutral.
func (r *Room) Input(id string, in *pb.Input) {
	select {
	case r.inputs <- inputSample{peer: id, in: netsync.ToPhysics(in)}:
	case <-r.done:
	}
}

func (r *Room) do(ctx context.Context, fn func(now time.Time) error) error {
	cmd := command{fn: fn, reply: make(chan error, 1)}
	select {
	case r.commands <- cmd:
	case <-r.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Admit checks whether a new participant may be handed a ticket.
func (r *Room) Admit(ctx context.Context, password string) error {
	return r.do(ctx, func(time.Time) error {
		if r.phase != PhaseLobby {
			return ErrStarted
		}
		if err := r.lobby.CheckPassword(password); err != nil {
			return err
		}
		if r.lobby.Roster().Size() >= 2*model.MaxPerTeam {
			return lobby.ErrRoomFull
		}
		return nil
	})
}

func (r *Room) AddBot(ctx context.Context, t model.Team) (model.Slot, error) {
	var s model.Slot
	err := r.do(ctx, func(time.Time) error {
		if r.phase != PhaseLobby {
			return ErrStarted
		}
		var err error
		if s, err = r.lobby.AddBot(t); err != nil {
			return err
		}
		r.rosterChanged()
		return nil
	})
	return s, err
}

func (r *Room) RemoveBot(ctx context.Context, id string) error {
	return r.do(ctx, func(time.Time) error {
		if r.phase != PhaseLobby {
			return ErrStarted
		}
		if err := r.lobby.RemoveBot(id); err != nil {
			return err
		}
		r.rosterChanged()
		return nil
	})
}

func (r *Room) Move(ctx context.Context, id string) (model.Team, error) {
	var to model.Team
	err := r.do(ctx, func(time.Time) error {
		if r.phase != PhaseLobby {
			return ErrStarted
		}
		var err error
		if to, err = r.lobby.Move(id); err != nil {
			return err
		}
		r.rosterChanged()
		return nil
	})
	return to, err
}

// RemoveParticipant drops the slot of a participant who is no longer
// connected.
func (r *Room) RemoveParticipant(ctx context.Context, id string) error {
	return r.do(ctx, func(time.Time) error {
		if r.phase != PhaseLobby {
			return ErrStarted
		}
		if _, online := r.peers[id]; online || id == lobby.HostID {
			return ErrConnected
		}
		if !r.lobby.Leave(id) {
			return lobby.ErrNotFound
		}
		r.rosterChanged()
		return nil
	})
}

// Start begins the match; minutes is 1..5, 0 for the default.
func (r *Room) Start(ctx context.Context, minutes int) error {
	return r.do(ctx, func(now time.Time) error { return r.StartAt(now, minutes) })
}

// ReturnToLobby reopens a finished room for another match.
func (r *Room) ReturnToLobby(ctx context.Context) error {
	return r.do(ctx, func(now time.Time) error {
		if r.phase != PhaseEnded {
			return ErrNotEnded
		}
		r.match = nil
		r.planner = nil
		r.setPhase(PhaseLobby)
		r.rosterChanged()
		return nil
	})
}

// Lobby exposes the roster to the owning goroutine.
func (r *Room) Lobby() *lobby.Lobby { return r.lobby }

func (r *Room) join(p Peer, name string) error {
	id := p.ID()
	if r.phase != PhaseLobby {
		return ErrStarted
	}
	if id != lobby.HostID && !r.lobby.Has(id) {
		if _, err := r.lobby.Join(id, name); err != nil {
			return err
		}
	}
	if old, ok := r.peers[id]; ok {
		old.Close()
	}
	r.peers[id] = p
	log.Info().Str("room", r.Code).Str("peer", id).Msg("peer joined")
	r.rosterChanged()
	return nil
}

func (r *Room) leave(p Peer) {
	id := p.ID()
	if cur, ok := r.peers[id]; !ok || cur != p {
		return
	}
	delete(r.peers, id)
	delete(r.latest, id)
	log.Info().Str("room", r.Code).Str("peer", id).Str("phase", r.phase.String()).Msg("peer left")

	// In a running match the player stays on the pitch, idle.
	if r.phase == PhaseLobby && id != lobby.HostID && r.lobby.Leave(id) {
		r.rosterChanged()
		return
	}
	r.touch()
}

func (r *Room) rosterChanged() {
	red, blue := netsync.RosterOf(r.lobby.Roster())
	r.broadcast(&pb.RosterUpdate{Red: red, Blue: blue})
	r.touch()
	r.advertise()
}

func (r *Room) touch() {
	r.lastActive = time.Now()
	r.publish()
}

func (r *Room) teardown() {
	for id, p := range r.peers {
		p.Close()
		delete(r.peers, id)
	}
	r.latest = physics.Inputs{}
	log.Info().Str("room", r.Code).Msg("room closed")
	r.publish()
}

func (r *Room) broadcast(m pb.Message) {
	for id, p := range r.peers {
		if err := p.Send(m); err != nil {
			log.Debug().Err(err).Str("room", r.Code).Str("peer", id).Stringer("kind", m.Kind()).Msg("send failed")
		}
	}
}

// Info is a read-only view of a room, safe to read from any goroutine.
type Info struct {
	Code        string
	MatchID     string
	Phase       Phase
	Roster      model.Roster
	Score       model.Score
	TimeLeft    float64
	Result      string
	Peers       int
	Locked      bool
	DisplayOnly bool
	LastActive  time.Time
}

// Fields is the directory hash of the room.
func (i Info) Fields() map[string]interface{} {
	return map[string]interface{}{
		"phase":        i.Phase.String(),
		"match_id":     i.MatchID,
		"red":          len(i.Roster.Red),
		"blue":         len(i.Roster.Blue),
		"peers":        i.Peers,
		"locked":       i.Locked,
		"display_only": i.DisplayOnly,
		"score":        fmt.Sprintf("%d-%d", i.Score.Red, i.Score.Blue),
	}
}

func (r *Room) Info() Info { return *r.info.Load() }

func (r *Room) publish() {
	info := &Info{
		Code:        r.Code,
		MatchID:     r.matchID,
		Phase:       r.phase,
		Roster:      r.lobby.Roster(),
		Result:      r.result,
		Peers:       len(r.peers),
		Locked:      r.lobby.Locked(),
		DisplayOnly: r.lobby.DisplayOnly,
		LastActive:  r.lastActive,
	}
	if r.match != nil {
		info.Score = r.match.Score
		info.TimeLeft = r.match.TimeLeft
	}
	r.info.Store(info)
}

func (r *Room) advertise() {
	fields := r.Info().Fields()
	dir := r.opts.Directory
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := dir.UpdateRoom(ctx, r.Code, fields); err != nil {
			log.Warn().Err(err).Str("room", r.Code).Msg("directory update failed")
		}
	}()
}

type nopDirectory struct{}

func (nopDirectory) SaveRoom(context.Context, string, map[string]interface{}) error   { return nil }
func (nopDirectory) UpdateRoom(context.Context, string, map[string]interface{}) error { return nil }
func (nopDirectory) RemoveRoom(context.Context, string) error                         { return nil }
