package core

import (
	"time"

	"github.com/rs/zerolog/log"

	"mygame/football/internal/model"
	"mygame/football/internal/netsync"
	pb "mygame/football/proto"
)

// Sender is the upstream half of a participant channel.
type Sender interface {
	Send(m pb.Message) error
}

type ParticipantOptions struct {
	Countdown  time.Duration
	InputEvery time.Duration
	Delay      time.Duration
	BufferSize int
}

func DefaultParticipantOptions() ParticipantOptions {
	return ParticipantOptions{
		Countdown:  model.CountdownDuration,
		InputEvery: 70 * time.Millisecond,
		Delay:      netsync.DefaultDelay,
		BufferSize: netsync.DefaultMaxSize,
	}
}

// Participant is the replicated side of a match. It never simulates: it
// buffers snapshots, interpolates them onto a mirror and forwards latched
// input. Handle, SetInput, Frame and Close must be called from one goroutine.
type Participant struct {
	out  Sender
	opts ParticipantOptions

	phase       Phase
	until       time.Time
	roster      model.Roster
	displayOnly bool

	mirror  *netsync.Mirror
	buf     *netsync.Buffer
	latch   netsync.Latch
	cadence netsync.Cadence
	hud     pb.HUDUpdate
	over    *pb.GameOver
}

func NewParticipant(out Sender, opts ParticipantOptions) *Participant {
	d := DefaultParticipantOptions()
	if opts.Countdown <= 0 {
		opts.Countdown = d.Countdown
	}
	if opts.InputEvery <= 0 {
		opts.InputEvery = d.InputEvery
	}
	if opts.Delay < 0 {
		opts.Delay = d.Delay
	}
	return &Participant{
		out:     out,
		opts:    opts,
		buf:     netsync.NewBuffer(opts.Delay, opts.BufferSize),
		cadence: netsync.Cadence{Interval: opts.InputEvery},
	}
}

// Handle applies a message that arrived at the given local time.
func (p *Participant) Handle(at time.Time, m pb.Message) {
	switch msg := m.(type) {
	case *pb.RosterUpdate:
		p.roster = netsync.RosterFrom(msg.Red, msg.Blue)
		if p.phase == PhaseEnded {
			p.reset()
		}

	case *pb.Start:
		p.reset()
		p.roster = netsync.RosterFrom(msg.Red, msg.Blue)
		p.displayOnly = msg.DisplayOnly
		p.mirror = netsync.NewMirror(model.New(p.roster, msg.Duration))
		p.until = at.Add(p.opts.Countdown)
		p.phase = PhaseCountdown
		log.Debug().Int("players", p.roster.Size()).Msg("match start received")

	case *pb.StateUpdate:
		if p.mirror == nil {
			return
		}
		// positions replay behind real time, the scoreboard does not
		p.buf.Push(at, msg)
		p.scoreboard(pb.HUDUpdate{ScoreRed: msg.ScoreRed, ScoreBlue: msg.ScoreBlue, TimeLeft: msg.TimeLeft})

	case *pb.HUDUpdate:
		p.scoreboard(*msg)

	case *pb.GameOver:
		p.over = msg
		p.phase = PhaseEnded
		p.latch.Reset()
	}
}

func (p *Participant) scoreboard(h pb.HUDUpdate) {
	p.hud = h
	if p.mirror != nil {
		p.mirror.SetScoreboard(model.Score{Red: h.ScoreRed, Blue: h.ScoreBlue}, h.TimeLeft)
	}
}

// SetInput records the local control state; kicks latch until sent.
func (p *Participant) SetInput(in pb.Input) { p.latch.Set(in) }

// Frame runs one render step: local countdown, input send on its cadence,
// and interpolated playback onto the mirror.
func (p *Participant) Frame(now time.Time) {
	if p.phase == PhaseCountdown && !now.Before(p.until) {
		p.phase = PhaseRunning
	}
	if p.phase == PhaseRunning && p.cadence.Due(now) {
		in := p.latch.Sample()
		if err := p.out.Send(&in); err != nil {
			log.Debug().Err(err).Msg("input send failed")
		}
	}
	if p.mirror == nil {
		return
	}
	if f, ok := p.buf.Sample(now); ok {
		p.mirror.Apply(f)
	}
}

// Close returns to the pre-match state and drops everything buffered.
func (p *Participant) Close() {
	p.reset()
	p.roster = model.Roster{}
}

func (p *Participant) reset() {
	p.phase = PhaseLobby
	p.mirror = nil
	p.buf.Reset()
	p.latch.Reset()
	p.cadence.Reset()
	p.hud = pb.HUDUpdate{}
	p.over = nil
	p.displayOnly = false
}

func (p *Participant) Phase() Phase             { return p.phase }
func (p *Participant) Roster() model.Roster     { return p.roster }
func (p *Participant) DisplayOnly() bool        { return p.displayOnly }
func (p *Participant) Result() *pb.GameOver     { return p.over }
func (p *Participant) Buffered() int            { return p.buf.Len() }
func (p *Participant) Scoreboard() pb.HUDUpdate { return p.hud }

// Match is the mirrored state to render, nil before a match starts.
func (p *Participant) Match() *model.Match {
	if p.mirror == nil {
		return nil
	}
	return p.mirror.Match
}
