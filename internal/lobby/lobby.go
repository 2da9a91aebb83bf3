// Package lobby keeps the pre-match roster of a room. A Lobby is owned by the
// room's goroutine and is not safe for concurrent use.
package lobby

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"mygame/football/internal/model"
)

const HostID = "host"

var (
	ErrTeamFull      = errors.New("lobby: team is full")
	ErrRoomFull      = errors.New("lobby: room is full")
	ErrNotFound      = errors.New("lobby: no such member")
	ErrNotBot        = errors.New("lobby: member is not a bot")
	ErrDuplicate     = errors.New("lobby: already joined")
	ErrWrongPassword = errors.New("lobby: wrong password")
	ErrBadDuration   = errors.New("lobby: duration must be 1 to 5 minutes")
)

// NewCode returns a fresh 6 character upper-case hex room code.
func NewCode() string {
	id := uuid.New()
	return strings.ToUpper(hex.EncodeToString(id[:3]))
}

// ValidCode reports whether s looks like a room code.
func ValidCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

type Lobby struct {
	Code        string
	DisplayOnly bool

	red, blue []model.Slot
	password  []byte // bcrypt hash; nil when open
	bots      int
	humans    int
}

// New opens a lobby. The host takes a red slot unless it only displays the
// match.
func New(code string, displayOnly bool) *Lobby {
	l := &Lobby{Code: code, DisplayOnly: displayOnly}
	if !displayOnly {
		l.red = append(l.red, model.Slot{ID: HostID, Name: "Host"})
	}
	return l
}

func (l *Lobby) team(t model.Team) *[]model.Slot {
	if t == model.Red {
		return &l.red
	}
	return &l.blue
}

// Join seats a participant: blue while it has room, red otherwise.
func (l *Lobby) Join(id, name string) (model.Team, error) {
	if _, _, ok := l.find(id); ok {
		return 0, fmt.Errorf("%w: %s", ErrDuplicate, id)
	}
	t := model.Blue
	if len(l.blue) >= model.MaxPerTeam {
		t = model.Red
	}
	list := l.team(t)
	if len(*list) >= model.MaxPerTeam {
		return 0, ErrRoomFull
	}
	l.humans++
	if name == "" {
		name = fmt.Sprintf("Player %d", l.humans)
	}
	*list = append(*list, model.Slot{ID: id, Name: name})
	return t, nil
}

// Leave drops a participant from whichever team holds it.
func (l *Lobby) Leave(id string) bool {
	t, i, ok := l.find(id)
	if !ok {
		return false
	}
	list := l.team(t)
	*list = append((*list)[:i], (*list)[i+1:]...)
	return true
}

// AddBot appends a new bot to t.
func (l *Lobby) AddBot(t model.Team) (model.Slot, error) {
	list := l.team(t)
	if len(*list) >= model.MaxPerTeam {
		return model.Slot{}, fmt.Errorf("%w: %s", ErrTeamFull, t)
	}
	l.bots++
	s := model.Slot{ID: fmt.Sprintf("bot-%d", l.bots), Name: fmt.Sprintf("Bot %d", l.bots), Bot: true}
	*list = append(*list, s)
	return s, nil
}

// RemoveBot removes a bot by id. Humans can only leave.
func (l *Lobby) RemoveBot(id string) error {
	t, i, ok := l.find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	list := l.team(t)
	if !(*list)[i].Bot {
		return fmt.Errorf("%w: %s", ErrNotBot, id)
	}
	*list = append((*list)[:i], (*list)[i+1:]...)
	return nil
}

// Move switches a member to the other team, appending it there.
func (l *Lobby) Move(id string) (model.Team, error) {
	from, i, ok := l.find(id)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	to := from.Opponent()
	dst := l.team(to)
	if len(*dst) >= model.MaxPerTeam {
		return from, fmt.Errorf("%w: %s", ErrTeamFull, to)
	}
	src := l.team(from)
	s := (*src)[i]
	*src = append((*src)[:i], (*src)[i+1:]...)
	*dst = append(*dst, s)
	return to, nil
}

func (l *Lobby) find(id string) (model.Team, int, bool) {
	for _, t := range []model.Team{model.Red, model.Blue} {
		for i, s := range *l.team(t) {
			if s.ID == id {
				return t, i, true
			}
		}
	}
	return 0, 0, false
}

func (l *Lobby) Has(id string) bool {
	_, _, ok := l.find(id)
	return ok
}

// Roster returns a copy of both team lists.
func (l *Lobby) Roster() model.Roster {
	return model.Roster{
		Red:  append([]model.Slot(nil), l.red...),
		Blue: append([]model.Slot(nil), l.blue...),
	}
}

// Minutes converts a requested match length to seconds. Zero picks the
// default.
func Minutes(n int) (float64, error) {
	if n == 0 {
		return model.DefaultDuration, nil
	}
	if n < 1 || n > 5 {
		return 0, fmt.Errorf("%w: got %d", ErrBadDuration, n)
	}
	return float64(n) * 60, nil
}
