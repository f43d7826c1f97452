package netplay

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/quadpong/internal/config"
	"github.com/vovakirdan/quadpong/internal/game"
)

// warmupMessages are the staged notices shown while a cold endpoint spins
// up. Index matches cfg.Net.WarmupNotices.
var warmupMessages = []string{
	"Waking up the server, hang tight...",
	"Server is still starting — a cold start can take a minute...",
	"Almost there, provisioning the game room...",
	"Still trying. Thanks for your patience...",
}

// Client owns the one persistent WebSocket connection of a session:
// handshake, staged warm-up messaging, heartbeat liveness, retry with
// jittered backoff, and message dispatch into the synchronizer.
//
// Every connection attempt carries an epoch. Scheduled timers (retries,
// warm-up notices, the heartbeat watchdog) capture their epoch and no-op
// once a newer attempt has started, so at most one attempt is ever in
// flight and a stale retry timer can never fire a second connection.
type Client struct {
	cfg     config.NetConfig
	logger  *log.Logger
	url     string
	session *Session
	sync    *Synchronizer

	// baseSnapshot builds a fresh canonical state for match-reset.
	baseSnapshot func() *game.Snapshot

	events chan ClientEvent
	seq    atomic.Uint64

	writeMu sync.Mutex // Serializes socket writes

	mu           sync.Mutex
	conn         *websocket.Conn
	state        ConnState
	epoch        int
	retries      int
	closed       bool
	retryTimer   *time.Timer
	warmupTimers []*time.Timer
	hbTimer      *time.Timer
	rng          *rand.Rand
}

// NewClient creates a connection manager for the given server URL and room.
// baseSnapshot supplies the initial canonical state on match resets.
func NewClient(cfg config.NetConfig, serverURL, roomID string, spectator bool, syn *Synchronizer, baseSnapshot func() *game.Snapshot, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		cfg:          cfg,
		logger:       logger,
		url:          serverURL,
		session:      NewSession(roomID, spectator),
		sync:         syn,
		baseSnapshot: baseSnapshot,
		events:       make(chan ClientEvent, 64),
		state:        StateIdle,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Session returns the session identity.
func (c *Client) Session() *Session {
	return c.session
}

// Events returns the client event stream for the UI.
func (c *Client) Events() <-chan ClientEvent {
	return c.events
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect starts (or manually restarts) the connection. A manual retry
// after exhausted attempts resets the retry counter. Any pending retry
// timer from an earlier attempt is invalidated.
func (c *Client) Connect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.retries = 0
	epoch := c.startAttemptLocked()
	c.mu.Unlock()
	go c.attempt(epoch)
}

// Close tears the session down. Safe to call once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.epoch++
	c.state = StateIdle
	c.stopTimersLocked()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// startAttemptLocked invalidates all pending timers, bumps the epoch, and
// returns the new attempt's epoch. Callers hold c.mu.
func (c *Client) startAttemptLocked() int {
	c.stopTimersLocked()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.epoch++
	c.state = StateConnecting
	return c.epoch
}

func (c *Client) stopTimersLocked() {
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	for _, t := range c.warmupTimers {
		t.Stop()
	}
	c.warmupTimers = nil
	if c.hbTimer != nil {
		c.hbTimer.Stop()
		c.hbTimer = nil
	}
}

// current reports whether the given epoch is still the live attempt.
func (c *Client) current(epoch int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return epoch == c.epoch && !c.closed
}

func (c *Client) setState(epoch int, state ConnState, errMsg string) {
	c.mu.Lock()
	if epoch != c.epoch || c.closed {
		c.mu.Unlock()
		return
	}
	c.state = state
	c.mu.Unlock()
	c.publish(StateEvent{State: state, Err: errMsg})
}

// publish enqueues an event, dropping the oldest if the UI lags.
func (c *Client) publish(evt ClientEvent) {
	select {
	case c.events <- evt:
		return
	default:
	}
	select {
	case <-c.events:
	default:
	}
	select {
	case c.events <- evt:
	default:
	}
}

// attempt performs one handshake. Transport errors are treated as continued
// warm-up and feed the retry schedule; nothing is surfaced to the user
// until retries are exhausted.
func (c *Client) attempt(epoch int) {
	c.publish(StateEvent{State: StateConnecting})
	c.startWarmupNotices(epoch)

	timeout := c.cfg.HandshakeTimeoutLocal.Std()
	if !isLocalURL(c.url) {
		timeout = c.cfg.HandshakeTimeoutRemote.Std()
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		c.logger.Warn("handshake failed", "url", c.url, "error", err)
		c.scheduleRetry(epoch, err.Error())
		return
	}

	c.mu.Lock()
	if epoch != c.epoch || c.closed {
		c.mu.Unlock()
		conn.Close()
		return
	}
	for _, t := range c.warmupTimers {
		t.Stop()
	}
	c.warmupTimers = nil
	c.conn = conn
	c.retries = 0
	c.state = StateConnected
	c.mu.Unlock()

	c.publish(StateEvent{State: StateConnected})
	c.resetWatchdog(epoch)
	go c.readLoop(epoch, conn)
	go c.pingLoop(epoch)

	c.sendJoinRoom()
}

// startWarmupNotices arms the staged warm-up messages. They inform, never
// abort: only the handshake timeout ends an attempt.
func (c *Client) startWarmupNotices(epoch int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch || c.closed {
		return
	}
	for i, after := range c.cfg.WarmupNotices {
		stage := i
		t := time.AfterFunc(after.Std(), func() {
			if !c.current(epoch) {
				return
			}
			state := StateWarming
			if stage > 0 {
				state = StateServerStarting
			}
			c.setState(epoch, state, "")
			msg := warmupMessages[len(warmupMessages)-1]
			if stage < len(warmupMessages) {
				msg = warmupMessages[stage]
			}
			c.publish(NoticeEvent{Stage: stage, Message: msg})
		})
		c.warmupTimers = append(c.warmupTimers, t)
	}
}

// scheduleRetry records a failed attempt and arms the next one with a
// jittered exponential delay. Exhausted retries surface StateError; only an
// explicit Connect() leaves that state.
func (c *Client) scheduleRetry(epoch int, reason string) {
	c.mu.Lock()
	if epoch != c.epoch || c.closed {
		c.mu.Unlock()
		return
	}
	// One failure can surface twice for the same attempt (the watchdog
	// closes the socket, then the read loop reports the resulting error).
	// The first caller arms the retry; later ones are no-ops.
	if c.retryTimer != nil || c.state == StateError {
		c.mu.Unlock()
		return
	}
	for _, t := range c.warmupTimers {
		t.Stop()
	}
	c.warmupTimers = nil
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	c.retries++
	if c.cfg.MaxRetries > 0 && c.retries > c.cfg.MaxRetries {
		c.state = StateError
		c.mu.Unlock()
		c.logger.Error("connection retries exhausted", "attempts", c.retries-1, "reason", reason)
		c.publish(StateEvent{State: StateError, Err: reason})
		return
	}

	delay := c.backoffLocked()
	c.state = StateRetrying
	c.retryTimer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		if epoch != c.epoch || c.closed {
			c.mu.Unlock()
			return
		}
		next := c.startAttemptLocked()
		c.mu.Unlock()
		c.attempt(next)
	})
	attempt := c.retries
	c.mu.Unlock()

	c.logger.Info("scheduling reconnect", "attempt", attempt, "delay", delay, "reason", reason)
	c.publish(StateEvent{State: StateRetrying})
}

// backoffLocked computes the next retry delay: exponential from the base,
// capped, with a configured jitter fraction. Callers hold c.mu.
func (c *Client) backoffLocked() time.Duration {
	delay := c.cfg.BackoffBase.Std() << (c.retries - 1)
	if max := c.cfg.BackoffMax.Std(); delay > max || delay <= 0 {
		delay = max
	}
	if j := c.cfg.BackoffJitter; j > 0 {
		span := float64(delay) * j
		delay = time.Duration(float64(delay) - span/2 + c.rng.Float64()*span)
	}
	return delay
}

// readLoop pumps messages until the socket dies, then feeds the retry
// schedule. An abrupt close is recovered exactly like a failed handshake.
func (c *Client) readLoop(epoch int, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if c.current(epoch) {
				c.logger.Warn("connection lost", "error", err)
				c.scheduleRetry(epoch, err.Error())
			}
			return
		}
		c.dispatch(epoch, data)
	}
}

// dispatch routes one inbound message. A malformed message is dropped and
// logged; the connection is never torn down for protocol errors.
func (c *Client) dispatch(epoch int, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.logger.Warn("dropping malformed envelope", "error", err)
		return
	}
	kind, ok := ParseKind(env.Kind)
	if !ok {
		c.logger.Warn("dropping message with unknown kind", "kind", env.Kind)
		return
	}
	now := time.Now()

	switch kind {
	case KindRoomJoined:
		var p RoomJoinedPayload
		if !c.decode(kind, env.Payload, &p) {
			return
		}
		c.session.SetSide(p.Side)
		c.session.SetPeers(p.Peers)
		c.sync.SetOwnSide(p.Side)
		if p.State != nil {
			c.sync.ApplyFull(p.State, now)
		}
		c.publish(JoinedEvent{Side: p.Side, Peers: p.Peers})

	case KindPeerJoined:
		var p PeerPayload
		if !c.decode(kind, env.Payload, &p) {
			return
		}
		c.session.SetPeers(p.Peers)
		c.publish(PeerJoinedEvent{Side: p.Side, Peers: p.Peers})

	case KindPeerLeft:
		var p PeerPayload
		if !c.decode(kind, env.Payload, &p) {
			return
		}
		c.session.SetPeers(p.Peers)
		c.publish(PeerLeftEvent{Side: p.Side, Peers: p.Peers})

	case KindSideSwitched:
		var p SideSwitchedPayload
		if !c.decode(kind, env.Payload, &p) {
			return
		}
		c.session.SetSide(p.Side)
		c.sync.SetOwnSide(p.Side)
		c.publish(SideSwitchedEvent{Side: p.Side})

	case KindFullState:
		var p StatePayload
		if !c.decode(kind, env.Payload, &p) {
			return
		}
		c.sync.ApplyFull(&p, now)

	case KindDeltaState:
		var p StatePayload
		if !c.decode(kind, env.Payload, &p) {
			return
		}
		c.sync.ApplyDelta(&p, now)

	case KindPaddleUpdate:
		var p PaddleUpdate
		if !c.decode(kind, env.Payload, &p) {
			return
		}
		c.sync.ApplyPaddleUpdate(p, now)

	case KindMatchReset:
		if c.baseSnapshot != nil {
			c.sync.Reset(c.baseSnapshot())
		}
		if len(env.Payload) > 0 {
			var p StatePayload
			if c.decode(kind, env.Payload, &p) {
				c.sync.ApplyFull(&p, now)
			}
		}
		c.publish(ResetEvent{})

	case KindHeartbeat:
		var p HeartbeatPayload
		if len(env.Payload) > 0 && !c.decode(kind, env.Payload, &p) {
			return
		}
		c.resetWatchdog(epoch)
		c.send(KindHeartbeatAck, HeartbeatPayload{
			ServerTime: p.ServerTime,
			ClientTime: now.UnixMilli(),
		})

	case KindHeartbeatAck:
		var p HeartbeatPayload
		if len(env.Payload) > 0 && !c.decode(kind, env.Payload, &p) {
			return
		}
		c.resetWatchdog(epoch)
		if p.ClientTime != 0 {
			c.sync.ObserveRTT(now.Sub(time.UnixMilli(p.ClientTime)))
		}

	default:
		// join-room is client->server only; anything else was handled.
		c.logger.Debug("ignoring message", "kind", kind.String())
	}
}

func (c *Client) decode(kind Kind, raw json.RawMessage, dst any) bool {
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("dropping malformed payload", "kind", kind.String(), "error", err)
		return false
	}
	return true
}

// resetWatchdog re-arms the heartbeat deadline. If no liveness signal
// arrives within the window the client proactively closes and reconnects.
func (c *Client) resetWatchdog(epoch int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch || c.closed {
		return
	}
	if c.hbTimer != nil {
		c.hbTimer.Stop()
	}
	c.hbTimer = time.AfterFunc(c.cfg.HeartbeatWindow.Std(), func() {
		if !c.current(epoch) {
			return
		}
		c.logger.Warn("no heartbeat within window, reconnecting", "window", c.cfg.HeartbeatWindow.Std())
		c.scheduleRetry(epoch, "heartbeat timeout")
	})
}

// pingLoop sends periodic client heartbeats so the server sees liveness and
// the ack round-trip feeds the extrapolation delay estimate.
func (c *Client) pingLoop(epoch int) {
	interval := c.cfg.HeartbeatWindow.Std() / 3
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if !c.current(epoch) {
			return
		}
		c.send(KindHeartbeat, HeartbeatPayload{ClientTime: time.Now().UnixMilli()})
	}
}

func (c *Client) sendJoinRoom() {
	c.send(KindJoinRoom, JoinRoomPayload{
		SessionID: c.session.ClientID(),
		RoomID:    c.session.RoomID(),
		Spectator: c.session.Spectator(),
	})
}

// SendInput transmits the local paddle state. Fire-and-forget and
// unthrottled: every position change goes out; the receiver drops stale
// sequence numbers, so ordering is not required.
func (c *Client) SendInput(pos, vel, target float64) {
	side := c.session.Side()
	if side == game.SideNone {
		return // Spectators have no paddle
	}
	c.send(KindPaddleUpdate, PaddleUpdate{
		Side:       side,
		Pos:        pos,
		Vel:        vel,
		Target:     target,
		Seq:        c.seq.Add(1),
		ClientTime: time.Now().UnixMilli(),
	})
}

// send writes one envelope. Errors are logged and dropped; the read loop
// owns failure handling for the connection.
func (c *Client) send(kind Kind, payload any) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}
	env, err := NewEnvelope(kind, c.session.ClientID(), c.session.RoomID(), payload)
	if err != nil {
		c.logger.Warn("encode failed", "kind", kind.String(), "error", err)
		return
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout.Std()))
	if err := conn.WriteJSON(env); err != nil {
		c.logger.Debug("write failed", "kind", kind.String(), "error", err)
	}
}

// isLocalURL reports whether the endpoint is on this machine, which selects
// the shorter handshake timeout.
func isLocalURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1", "":
		return true
	default:
		return false
	}
}
