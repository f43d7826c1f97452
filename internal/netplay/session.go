package netplay

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vovakirdan/quadpong/internal/game"
)

// ConnState is the connection lifecycle state machine.
type ConnState int

const (
	StateIdle ConnState = iota
	StateConnecting
	StateWarming
	StateConnected
	StateError
	StateRetrying
	StateServerDown
	StateServerStarting
)

// String returns a human-readable state name.
func (s ConnState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateWarming:
		return "warming"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	case StateRetrying:
		return "retrying"
	case StateServerDown:
		return "server_down"
	case StateServerStarting:
		return "server_starting"
	default:
		return "unknown"
	}
}

// Session tracks one client's identity within a room: created on the first
// connect attempt, mutated on reconnect and side switches, dropped on
// teardown.
type Session struct {
	mu        sync.Mutex
	clientID  string
	roomID    string
	side      game.Side
	spectator bool
	peers     int
}

// NewSession creates a session with a fresh client id.
func NewSession(roomID string, spectator bool) *Session {
	return &Session{
		clientID:  uuid.NewString(),
		roomID:    roomID,
		spectator: spectator,
	}
}

// ClientID returns the stable client identifier, reused across reconnects
// so the server can re-seat the session.
func (s *Session) ClientID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientID
}

// RoomID returns the joined room.
func (s *Session) RoomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

// Side returns the assigned paddle side (SideNone for spectators).
func (s *Session) Side() game.Side {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.side
}

// SetSide records the server-assigned side.
func (s *Session) SetSide(side game.Side) {
	s.mu.Lock()
	s.side = side
	s.mu.Unlock()
}

// Spectator reports whether this session requested spectating.
func (s *Session) Spectator() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spectator
}

// Peers returns the last reported peer count.
func (s *Session) Peers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peers
}

// SetPeers records the reported peer count.
func (s *Session) SetPeers(n int) {
	s.mu.Lock()
	s.peers = n
	s.mu.Unlock()
}
