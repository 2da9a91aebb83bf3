package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"mygame/football/internal/lobby"
	"mygame/football/internal/ticket"
)

// Manager is the registry of live rooms.
type Manager struct {
	Tickets     *ticket.Issuer
	IdleTimeout time.Duration

	opts  Options
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewManager(opts Options, tickets *ticket.Issuer, idle time.Duration) *Manager {
	if opts.Directory == nil {
		opts.Directory = nopDirectory{}
	}
	if idle <= 0 {
		idle = time.Minute
	}
	return &Manager{
		Tickets:     tickets,
		IdleTimeout: idle,
		opts:        opts,
		rooms:       make(map[string]*Room),
	}
}

// CreateRoom opens a room under a fresh code and starts its loop.
func (m *Manager) CreateRoom(displayOnly bool, password string) (*Room, error) {
	opts := m.opts
	opts.DisplayOnly = displayOnly
	opts.Password = password

	// bcrypt runs outside the lock; a colliding code builds another room.
	var room *Room
	for room == nil {
		r, err := NewRoom(lobby.NewCode(), opts)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		if m.rooms[r.Code] == nil {
			m.rooms[r.Code] = r
			room = r
		}
		m.mu.Unlock()
	}
	code := room.Code

	go room.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.opts.Directory.SaveRoom(ctx, code, room.Info().Fields()); err != nil {
		log.Warn().Err(err).Str("room", code).Msg("directory save failed")
	}
	log.Info().Str("room", code).Bool("display_only", displayOnly).Bool("locked", password != "").Msg("room created")
	return room, nil
}

func (m *Manager) GetRoom(code string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[code]
}

// List returns every room's info ordered by code.
func (m *Manager) List() []Info {
	m.mu.RLock()
	out := make([]Info, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r.Info())
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (m *Manager) RemoveRoom(code string) bool {
	m.mu.Lock()
	room, ok := m.rooms[code]
	delete(m.rooms, code)
	m.mu.Unlock()
	if !ok {
		return false
	}
	room.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	select {
	case <-room.Done():
	case <-ctx.Done():
		log.Warn().Str("room", code).Msg("room loop did not stop in time")
	}
	if err := m.opts.Directory.RemoveRoom(ctx, code); err != nil {
		log.Warn().Err(err).Str("room", code).Msg("directory remove failed")
	}
	return true
}

// StartCleanupTask closes idle rooms every 30 seconds until ctx ends.
func (m *Manager) StartCleanupTask(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.CleanupEmptyRooms(now)
		}
	}
}

// CleanupEmptyRooms removes rooms nobody has been connected to for longer
// than IdleTimeout and returns how many went.
func (m *Manager) CleanupEmptyRooms(now time.Time) int {
	var idle []string
	m.mu.RLock()
	for code, r := range m.rooms {
		info := r.Info()
		if info.Peers == 0 && now.Sub(info.LastActive) > m.IdleTimeout {
			idle = append(idle, code)
		}
	}
	m.mu.RUnlock()

	n := 0
	for _, code := range idle {
		if m.RemoveRoom(code) {
			log.Info().Str("room", code).Msg("idle room removed")
			n++
		}
	}
	return n
}

// Shutdown stops every room.
func (m *Manager) Shutdown() {
	m.mu.RLock()
	codes := make([]string, 0, len(m.rooms))
	for code := range m.rooms {
		codes = append(codes, code)
	}
	m.mu.RUnlock()
	for _, code := range codes {
		m.RemoveRoom(code)
	}
}
