package netplay

import "github.com/vovakirdan/quadpong/internal/game"

// ClientEvent is the interface for events the connection manager publishes
// to its subscriber (the TUI layer).
type ClientEvent interface {
	clientEvent()
}

// StateEvent announces a connection state transition.
type StateEvent struct {
	State ConnState
	Err   string // Set when State == StateError
}

func (StateEvent) clientEvent() {}

// NoticeEvent is a staged user-facing message emitted while a slow endpoint
// warms up. It never implies an abort.
type NoticeEvent struct {
	Stage   int
	Message string
}

func (NoticeEvent) clientEvent() {}

// JoinedEvent reports a successful room join and the assigned side.
type JoinedEvent struct {
	Side  game.Side
	Peers int
}

func (JoinedEvent) clientEvent() {}

// PeerJoinedEvent reports another session entering the room.
type PeerJoinedEvent struct {
	Side  game.Side
	Peers int
}

func (PeerJoinedEvent) clientEvent() {}

// PeerLeftEvent reports a session leaving the room.
type PeerLeftEvent struct {
	Side  game.Side
	Peers int
}

func (PeerLeftEvent) clientEvent() {}

// SideSwitchedEvent reports this session's side reassignment.
type SideSwitchedEvent struct {
	Side game.Side
}

func (SideSwitchedEvent) clientEvent() {}

// ResetEvent reports a server-initiated match reset.
type ResetEvent struct{}

func (ResetEvent) clientEvent() {}
