// Package netplay implements the client side of the quadpong wire protocol:
// the persistent WebSocket connection manager and the authoritative state
// synchronizer that merges server snapshots into the canonical game state.
package netplay

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/quadpong/internal/game"
)

// Kind is the canonical message kind. The wire accepts both a verbose and
// an abbreviated tag for every kind; both normalize to one Kind here.
type Kind int

const (
	KindUnknown Kind = iota
	KindJoinRoom
	KindRoomJoined
	KindPeerJoined
	KindPeerLeft
	KindSideSwitched
	KindPaddleUpdate
	KindFullState
	KindDeltaState
	KindMatchReset
	KindHeartbeat
	KindHeartbeatAck
)

var kindNames = map[Kind]string{
	KindJoinRoom:     "join-room",
	KindRoomJoined:   "room-joined",
	KindPeerJoined:   "peer-joined",
	KindPeerLeft:     "peer-left",
	KindSideSwitched: "side-switched",
	KindPaddleUpdate: "paddle-update",
	KindFullState:    "full-state",
	KindDeltaState:   "delta-state",
	KindMatchReset:   "match-reset",
	KindHeartbeat:    "heartbeat",
	KindHeartbeatAck: "heartbeat-ack",
}

var kindAbbrevs = map[Kind]string{
	KindJoinRoom:     "jr",
	KindRoomJoined:   "rj",
	KindPeerJoined:   "pj",
	KindPeerLeft:     "pl",
	KindSideSwitched: "ss",
	KindPaddleUpdate: "pu",
	KindFullState:    "fs",
	KindDeltaState:   "ds",
	KindMatchReset:   "mr",
	KindHeartbeat:    "hb",
	KindHeartbeatAck: "ha",
}

var kindByTag = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames)*2)
	for k, name := range kindNames {
		m[name] = k
	}
	for k, ab := range kindAbbrevs {
		m[ab] = k
	}
	return m
}()

// ParseKind normalizes a wire tag (verbose or abbreviated) to a Kind.
func ParseKind(tag string) (Kind, bool) {
	k, ok := kindByTag[tag]
	return k, ok
}

// String returns the verbose wire tag.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Abbrev returns the abbreviated wire tag.
func (k Kind) Abbrev() string {
	return kindAbbrevs[k]
}

// Envelope is the outer frame of every message on the connection.
type Envelope struct {
	Kind      string          `json:"kind"`
	SessionID string          `json:"sessionId,omitempty"`
	RoomID    string          `json:"roomId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals a payload into an envelope with the verbose tag.
func NewEnvelope(kind Kind, sessionID, roomID string, payload any) (Envelope, error) {
	env := Envelope{
		Kind:      kind.String(),
		SessionID: sessionID,
		RoomID:    roomID,
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return env, fmt.Errorf("netplay: marshal %s payload: %w", kind, err)
		}
		env.Payload = raw
	}
	return env, nil
}

// JoinRoomPayload is sent on open.
type JoinRoomPayload struct {
	SessionID string `json:"sessionId"`
	RoomID    string `json:"roomId"`
	Spectator bool   `json:"spectator,omitempty"`
}

// RoomJoinedPayload assigns the session's side. Side "none" means spectator.
type RoomJoinedPayload struct {
	Side  game.Side     `json:"side"`
	Peers int           `json:"peers"`
	State *StatePayload `json:"state,omitempty"`
}

// PeerPayload announces a peer joining or leaving.
type PeerPayload struct {
	SessionID string    `json:"sessionId"`
	Side      game.Side `json:"side"`
	Peers     int       `json:"peers"`
}

// SideSwitchedPayload reassigns this session's side mid-room.
type SideSwitchedPayload struct {
	Side game.Side `json:"side"`
}

// PaddleUpdate is the InputCommand wire form: sent by the client on every
// position change, never throttled or retried. Seq is strictly increasing
// per side; receivers discard anything not newer than the last applied.
type PaddleUpdate struct {
	Side       game.Side `json:"side"`
	Pos        float64   `json:"pos"`
	Vel        float64   `json:"vel"`
	Target     float64   `json:"target"`
	Seq        uint64    `json:"seq"`
	ClientTime int64     `json:"clientTime"`            // Unix millis at send
	ServerTime int64     `json:"serverTime,omitempty"`  // Set by the server on relay
}

// BallState is the ball on the wire.
type BallState struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	Size    float64 `json:"size"`
	Spin    float64 `json:"spin"`
	Phasing bool    `json:"phasing,omitempty"`
	Frozen  bool    `json:"frozen,omitempty"`
}

// PaddleState is one paddle on the wire.
type PaddleState struct {
	Pos        float64 `json:"pos"`
	Vel        float64 `json:"vel"`
	Length     float64 `json:"length"`
	Target     float64 `json:"target"`
	Frozen     bool    `json:"frozen,omitempty"`
	Reversed   bool    `json:"reversed,omitempty"`
	Seq        uint64  `json:"seq,omitempty"`
	ServerTime int64   `json:"serverTime,omitempty"`
}

// EffectState is one active effect on the wire.
type EffectState struct {
	Type       game.EffectType `json:"type"`
	StartMs    int64           `json:"startMs"`
	DurationMs int64           `json:"durationMs"`
	Activator  game.Side       `json:"activator"`
	Exempt     game.Side       `json:"exempt,omitempty"`
}

// CoinState is one pickup on the wire.
type CoinState struct {
	ID   int     `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

// StatePayload carries a full or partial snapshot. For delta-state messages
// only present (non-nil) top-level fields are merged; absent fields keep the
// previous tick's value.
type StatePayload struct {
	Tick       *uint64                        `json:"tick,omitempty"`
	Ball       *BallState                     `json:"ball,omitempty"`
	Paddles    map[game.Side]*PaddleState     `json:"paddles,omitempty"`
	Scores     map[game.Side]int              `json:"scores,omitempty"`
	Effects    *[]EffectState                 `json:"effects,omitempty"`
	Coins      *[]CoinState                   `json:"coins,omitempty"`
	Paused     *bool                          `json:"paused,omitempty"`
	ResumeAtMs *int64                         `json:"resumeAtMs,omitempty"`
	Winner     *game.Side                     `json:"winner,omitempty"`
	Ended      *bool                          `json:"ended,omitempty"`
	ServerTime int64                          `json:"serverTime,omitempty"`
}

// HeartbeatPayload is the liveness probe. The server's heartbeat carries
// its clock; the client's ack (and its own probes) carry the client clock
// so either end can estimate round-trip time, as in
// {"type":"heartbeat-ack","serverTime":...,"clientTime":...}.
type HeartbeatPayload struct {
	ServerTime int64 `json:"serverTime,omitempty"`
	ClientTime int64 `json:"clientTime,omitempty"`
}
