package netplay

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/vovakirdan/quadpong/internal/core"
	"github.com/vovakirdan/quadpong/internal/game"
)

const (
	// extrapolationMargin pads the measured one-way delay when projecting
	// remote paddles forward.
	extrapolationMargin = 30 * time.Millisecond

	// blendFactor is the fixed per-tick smoothing toward the extrapolated
	// target. Bounded smoothing, not a control loop: remote paddles close
	// on their target without teleporting.
	blendFactor = 0.25

	// motionTTL bounds how long a cached paddle motion keeps driving
	// extrapolation. Past it the server has gone quiet and projecting
	// further would walk the paddle off the board.
	motionTTL = 750 * time.Millisecond
)

// remoteMotion caches the last server-provided motion for one paddle so the
// tick loop can extrapolate between snapshots.
type remoteMotion struct {
	serverPos  float64
	vel        float64
	serverTime time.Time
	receivedAt time.Time
}

// Synchronizer merges server-pushed full and partial snapshots into the one
// canonical state. The canonical snapshot is held behind an atomic pointer:
// every merge builds a clone and swaps it in, so a concurrent tick-loop
// reader never sees a partial merge. The session's own paddle motion is
// exempt from network writes (only SetOwnPaddle moves it); server-owned
// effect state still applies to it.
type Synchronizer struct {
	canon atomic.Pointer[game.Snapshot]
	clamp func(*game.Paddle)

	mu       sync.Mutex
	ownSide  game.Side
	lastSeq  map[game.Side]uint64
	remote   map[game.Side]remoteMotion
	oneWayMs atomic.Int64
}

// NewSynchronizer creates a synchronizer seeded with an initial snapshot.
// clamp keeps merged and extrapolated paddles inside the play field; it may
// be nil when the caller owns bounds elsewhere.
func NewSynchronizer(initial *game.Snapshot, clamp func(*game.Paddle)) *Synchronizer {
	s := &Synchronizer{
		clamp:   clamp,
		lastSeq: make(map[game.Side]uint64),
		remote:  make(map[game.Side]remoteMotion),
	}
	s.canon.Store(initial.Clone())
	return s
}

func (s *Synchronizer) clampPaddle(pd *game.Paddle) {
	if s.clamp != nil {
		s.clamp(pd)
	}
}

// Latest returns the newest canonical snapshot. It never blocks on network
// arrival; callers treat the value as immutable.
func (s *Synchronizer) Latest() *game.Snapshot {
	return s.canon.Load()
}

// SetOwnSide records which paddle is locally controlled and therefore
// exempt from network overwrites.
func (s *Synchronizer) SetOwnSide(side game.Side) {
	s.mu.Lock()
	s.ownSide = side
	s.mu.Unlock()
}

// OwnSide returns the locally controlled side.
func (s *Synchronizer) OwnSide() game.Side {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownSide
}

// SetOwnPaddle publishes the locally driven paddle into the canonical
// state. Called from the tick loop after input is applied.
func (s *Synchronizer) SetOwnPaddle(pd game.Paddle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ownSide == game.SideNone || pd.Side != s.ownSide {
		return
	}
	next := s.canon.Load().Clone()
	next.Paddles[s.ownSide] = pd
	s.canon.Store(next)
}

// ObserveRTT feeds a measured round-trip time; half of it is used as the
// one-way delay for remote paddle extrapolation.
func (s *Synchronizer) ObserveRTT(rtt time.Duration) {
	if rtt > 0 {
		s.oneWayMs.Store(rtt.Milliseconds() / 2)
	}
}

// Reset replaces the canonical state wholesale (match-reset) and clears
// sequence tracking.
func (s *Synchronizer) Reset(snap *game.Snapshot) {
	s.mu.Lock()
	s.lastSeq = make(map[game.Side]uint64)
	s.remote = make(map[game.Side]remoteMotion)
	s.mu.Unlock()
	s.canon.Store(snap.Clone())
}

// ApplyFull merges a full-state message. The payload replaces canonical
// state wholesale, except the own paddle's motion and any expected
// sub-object the message is missing, which keep the previous tick's value.
func (s *Synchronizer) ApplyFull(p *StatePayload, now time.Time) {
	s.apply(p, now)
}

// ApplyDelta merges a delta-state message: only present top-level fields
// replace their canonical counterparts, absent fields stay untouched.
// Applying an identical delta twice yields the same state as applying it
// once.
func (s *Synchronizer) ApplyDelta(p *StatePayload, now time.Time) {
	s.apply(p, now)
}

func (s *Synchronizer) apply(p *StatePayload, now time.Time) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.canon.Load()
	next := prev.Clone()

	if p.Tick != nil {
		next.Tick = *p.Tick
	}
	if p.Ball != nil {
		next.Ball = game.Ball{
			Pos:     core.Vec{X: p.Ball.X, Y: p.Ball.Y},
			Vel:     core.Vec{X: p.Ball.VX, Y: p.Ball.VY},
			Size:    p.Ball.Size,
			Spin:    p.Ball.Spin,
			Phasing: p.Ball.Phasing,
			Frozen:  p.Ball.Frozen,
		}
	}
	for side, ps := range p.Paddles {
		if ps == nil || side == game.SideNone {
			continue
		}
		// Own-paddle exemption covers locally driven motion only: position,
		// velocity, and target stay local for responsiveness, while
		// server-owned effect state (freeze, reverse, length) still binds
		// the local paddle.
		if side == s.ownSide {
			pd := next.Paddles[side]
			pd.Side = side
			pd.Length = ps.Length
			pd.Frozen = ps.Frozen
			pd.Reversed = ps.Reversed
			s.clampPaddle(&pd)
			next.Paddles[side] = pd
			continue
		}
		if ps.Seq != 0 && ps.Seq <= s.lastSeq[side] {
			continue // Out-of-order update, discard
		}
		if ps.Seq != 0 {
			s.lastSeq[side] = ps.Seq
		}
		pd := game.Paddle{
			Side:     side,
			Pos:      ps.Pos,
			Vel:      ps.Vel,
			Length:   ps.Length,
			Target:   ps.Target,
			Frozen:   ps.Frozen,
			Reversed: ps.Reversed,
		}
		s.clampPaddle(&pd)
		next.Paddles[side] = pd
		s.recordMotion(side, ps.Pos, ps.Vel, ps.ServerTime, now)
	}
	if p.Scores != nil {
		for side, score := range p.Scores {
			next.Scores[side] = score
		}
	}
	if p.Effects != nil {
		next.Effects = make([]game.ActiveEffect, 0, len(*p.Effects))
		for _, es := range *p.Effects {
			next.Effects = append(next.Effects, game.ActiveEffect{
				Type:      es.Type,
				Start:     time.UnixMilli(es.StartMs),
				Duration:  time.Duration(es.DurationMs) * time.Millisecond,
				Activator: es.Activator,
				Exempt:    es.Exempt,
			})
		}
	}
	if p.Coins != nil {
		next.Coins = make([]game.Coin, 0, len(*p.Coins))
		for _, cs := range *p.Coins {
			next.Coins = append(next.Coins, game.Coin{
				ID:   cs.ID,
				Pos:  core.Vec{X: cs.X, Y: cs.Y},
				Size: cs.Size,
			})
		}
	}
	if p.Winner != nil {
		next.Winner = *p.Winner
	}
	if p.Ended != nil {
		next.Ended = *p.Ended
	}
	if p.ResumeAtMs != nil {
		next.ResumeAt = time.UnixMilli(*p.ResumeAtMs)
	}
	if p.Paused != nil || p.Ended != nil {
		switch {
		case next.Ended:
			next.Phase = game.PhaseGameOver
		case p.Paused != nil && *p.Paused:
			next.Phase = game.PhasePausedAfterScore
		default:
			next.Phase = game.PhaseRallying
		}
	}

	s.canon.Store(next)
}

// ApplyPaddleUpdate merges a relayed single-paddle update. Updates whose
// sequence number is not strictly higher than the last applied for that
// side are discarded; the own paddle is never overwritten.
func (s *Synchronizer) ApplyPaddleUpdate(pu PaddleUpdate, now time.Time) bool {
	if pu.Side == game.SideNone {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if pu.Side == s.ownSide {
		return false
	}
	if pu.Seq <= s.lastSeq[pu.Side] {
		return false
	}
	s.lastSeq[pu.Side] = pu.Seq

	next := s.canon.Load().Clone()
	pd := next.Paddles[pu.Side]
	pd.Side = pu.Side
	pd.Pos = pu.Pos
	pd.Vel = pu.Vel
	pd.Target = pu.Target
	s.clampPaddle(&pd)
	next.Paddles[pu.Side] = pd
	s.canon.Store(next)

	s.recordMotion(pu.Side, pu.Pos, pu.Vel, pu.ServerTime, now)
	return true
}

func (s *Synchronizer) recordMotion(side game.Side, pos, vel float64, serverMs int64, now time.Time) {
	if serverMs == 0 || vel == 0 {
		delete(s.remote, side)
		return
	}
	s.remote[side] = remoteMotion{
		serverPos:  pos,
		vel:        vel,
		serverTime: time.UnixMilli(serverMs),
		receivedAt: now,
	}
}

// Extrapolate advances remote paddles between snapshots: each cached paddle
// is projected from its last server position by the measured one-way delay
// plus a fixed margin, and the displayed position is blended toward that
// target by a fixed per-tick factor. Projections stay clamped to the field
// and motion older than motionTTL is dropped rather than projected further.
// Called once per tick from the render loop; never blocks.
func (s *Synchronizer) Extrapolate(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.remote) == 0 {
		return
	}

	delay := time.Duration(s.oneWayMs.Load())*time.Millisecond + extrapolationMargin
	next := s.canon.Load().Clone()
	changed := false

	for side, m := range s.remote {
		if side == s.ownSide {
			continue
		}
		if now.Sub(m.receivedAt) > motionTTL {
			delete(s.remote, side)
			continue
		}
		pd, ok := next.Paddles[side]
		if !ok {
			continue
		}
		elapsed := now.Sub(m.receivedAt) + delay
		target := m.serverPos + m.vel*elapsed.Seconds()
		pd.Pos += (target - pd.Pos) * blendFactor
		s.clampPaddle(&pd)
		next.Paddles[side] = pd
		changed = true
	}
	if changed {
		s.canon.Store(next)
	}
}
