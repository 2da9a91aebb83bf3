// Package proto defines the messages exchanged between the authority and its
// participants and their protobuf wire encoding.
package proto

import "fmt"

type Kind uint8

const (
	KindRosterUpdate Kind = iota + 1
	KindStart
	KindInput
	KindStateUpdate
	KindHUDUpdate
	KindGameOver
)

func (k Kind) String() string {
	switch k {
	case KindRosterUpdate:
		return "ROSTER_UPDATE"
	case KindStart:
		return "START"
	case KindInput:
		return "INPUT"
	case KindStateUpdate:
		return "STATE_UPDATE"
	case KindHUDUpdate:
		return "HUD_UPDATE"
	case KindGameOver:
		return "GAME_OVER"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Message is one of the six packet types. The set is closed.
type Message interface {
	Kind() Kind
	appendBody(b []byte) []byte
	decodeBody(b []byte) error
}

// Team and role values travel as small integers.
const (
	TeamRed  uint8 = 0
	TeamBlue uint8 = 1

	MaxRole uint8 = 3
)

type RosterEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bot  bool   `json:"bot"`
}

// RosterUpdate replaces the participant's view of both team lists.
type RosterUpdate struct {
	Red  []RosterEntry
	Blue []RosterEntry
}

// Start begins a match with the given rosters.
type Start struct {
	Red         []RosterEntry
	Blue        []RosterEntry
	Duration    float64 // seconds
	DisplayOnly bool
}

// Input is a participant's latched control sample.
type Input struct {
	Up, Down, Left, Right bool

	StickX, StickY float64
	StickActive    bool

	Kick bool
}

// Motion is position plus unit direction and scalar speed.
type Motion struct {
	X, Y       float64
	DirX, DirY float64
	Speed      float64
}

type PlayerState struct {
	Owner  string
	ID     string
	Team   uint8
	Slot   int
	Role   uint8
	Motion Motion
}

// StateUpdate is a full snapshot.
type StateUpdate struct {
	Ball      Motion
	Players   []PlayerState
	ScoreRed  int
	ScoreBlue int
	TimeLeft  float64
}

// HUDUpdate carries only what a scoreboard needs.
type HUDUpdate struct {
	ScoreRed  int
	ScoreBlue int
	TimeLeft  float64
}

type GameOver struct {
	Result    string
	ScoreRed  int
	ScoreBlue int
}

func (*RosterUpdate) Kind() Kind { return KindRosterUpdate }
func (*Start) Kind() Kind        { return KindStart }
func (*Input) Kind() Kind        { return KindInput }
func (*StateUpdate) Kind() Kind  { return KindStateUpdate }
func (*HUDUpdate) Kind() Kind    { return KindHUDUpdate }
func (*GameOver) Kind() Kind     { return KindGameOver }

// New returns an empty message of kind k.
func New(k Kind) (Message, error) {
	switch k {
	case KindRosterUpdate:
		return &RosterUpdate{}, nil
	case KindStart:
		return &Start{}, nil
	case KindInput:
		return &Input{}, nil
	case KindStateUpdate:
		return &StateUpdate{}, nil
	case KindHUDUpdate:
		return &HUDUpdate{}, nil
	case KindGameOver:
		return &GameOver{}, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %d", ErrMalformed, k)
}
