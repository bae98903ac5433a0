package loop

import (
	"slices"
	"sync"
	"time"
)

// EventType identifies a lobby event.
type EventType int

const (
	// EventShutdown tells a session the server is going away.
	EventShutdown EventType = iota
)

// Event is sent from the lobby to a session.
type Event struct {
	Type EventType
}

// Session is one connected player. Each session runs its own Game.
type Session struct {
	ID     int
	Player string
	Joined time.Time
	Events chan Event
	lobby  *Lobby
}

// Players returns the number of sessions in the lobby.
func (s *Session) Players() int {
	if s == nil || s.lobby == nil {
		return 1
	}
	return s.lobby.Count()
}

// Lobby tracks the sessions of a multi-user server so they can be counted
// and notified on shutdown.
type Lobby struct {
	mu       sync.RWMutex
	sessions map[int]*Session
	nextID   int
}

// NewLobby creates an empty lobby.
func NewLobby() *Lobby {
	return &Lobby{
		sessions: make(map[int]*Session),
		nextID:   1,
	}
}

// Join registers a new session for player.
func (l *Lobby) Join(player string) *Session {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := &Session{
		ID:     l.nextID,
		Player: player,
		Joined: time.Now(),
		Events: make(chan Event, 4),
		lobby:  l,
	}
	l.nextID++
	l.sessions[s.ID] = s
	return s
}

// Leave removes a session and closes its event channel.
func (l *Lobby) Leave(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.sessions[id]; ok {
		close(s.Events)
		delete(l.sessions, id)
	}
}

// Count returns the number of active sessions.
func (l *Lobby) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sessions)
}

// Players returns the player names of the active sessions, sorted.
func (l *Lobby) Players() []string {
	l.mu.RLock()
	names := make([]string, 0, len(l.sessions))
	for _, s := range l.sessions {
		names = append(names, s.Player)
	}
	l.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Shutdown notifies every session and waits until all have left or the
// timeout expires.
func (l *Lobby) Shutdown(timeout time.Duration) {
	l.mu.RLock()
	for _, s := range l.sessions {
		select {
		case s.Events <- Event{Type: EventShutdown}:
		default:
		}
	}
	l.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.Count() == 0 {
			return
		}
		select {
		case <-deadline:
			return
		case <-ticker.C:
		}
	}
}
