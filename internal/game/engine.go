package game

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/quadpong/internal/config"
	"github.com/vovakirdan/quadpong/internal/core"
)

// phasingWindow is how long a served ball ignores paddles, preventing an
// instant re-hit when a paddle sits on the serve line.
const phasingWindow = 150 * time.Millisecond

// Engine is the local simulation used when no authoritative server drives
// the match (practice/demo mode). One side is input-driven, the other three
// are CPU-controlled. All mutation happens inside Step from a single tick
// loop; no locking is needed.
type Engine struct {
	cfg     config.Config
	phys    *Physics
	match   *Match
	tracker *EffectTracker
	events  *Stream
	rng     *rand.Rand
	ais     map[Side]*Controller

	localSide Side
	snap      *Snapshot
	now       time.Time
	paused    bool

	phasingUntil time.Time
	nextCoinAt   time.Time
	nextCoinID   int
}

// NewEngine creates a local engine. localSide is the human paddle; pass
// SideNone for a full CPU demo.
func NewEngine(cfg config.Config, rt core.RuntimeConfig, localSide Side) *Engine {
	seed := rt.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		cfg:       cfg,
		phys:      NewPhysics(cfg.Physics, cfg.Field),
		match:     NewMatch(cfg.Rules),
		tracker:   NewEffectTracker(cfg.Effects),
		events:    NewStream(128),
		rng:       rand.New(rand.NewSource(seed)),
		localSide: localSide,
		now:       time.Unix(0, seed), // Simulated clock; only deltas matter
	}
	e.ais = make(map[Side]*Controller, 3)
	for _, side := range Sides() {
		if side != localSide {
			e.ais[side] = NewController(cfg.AI, side, e.rng)
		}
	}
	e.snap = NewSnapshot(cfg.Field.Width, cfg.Field.Height, cfg.Physics.PaddleLength, cfg.Physics.BallSize)
	e.serve()
	e.nextCoinAt = e.now.Add(cfg.Effects.CoinInterval.Std())
	return e
}

// Events returns the outbound gameplay event stream.
func (e *Engine) Events() <-chan Event {
	return e.events.Events()
}

// Snapshot returns a read-only copy of the canonical state.
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Clone()
}

// LocalSide returns the input-driven side.
func (e *Engine) LocalSide() Side {
	return e.localSide
}

// Paused reports whether the simulation is manually paused.
func (e *Engine) Paused() bool {
	return e.paused
}

// Now returns the simulated clock. Effect timestamps in snapshots are on
// this timeline, not the wall clock.
func (e *Engine) Now() time.Time {
	return e.now
}

// Reset reinitializes scores, effects, paddle sizes, and serves a fresh
// ball. The explicit reset is the only way out of game-over.
func (e *Engine) Reset() {
	e.match.Reset()
	for _, eff := range e.tracker.ClearAll() {
		e.events.Publish(EffectEndEvent{Effect: eff, Forced: true})
	}
	e.snap = NewSnapshot(e.cfg.Field.Width, e.cfg.Field.Height, e.cfg.Physics.PaddleLength, e.cfg.Physics.BallSize)
	e.serve()
	e.nextCoinAt = e.now.Add(e.cfg.Effects.CoinInterval.Std())
	e.events.Publish(PhaseEvent{Phase: PhaseRallying})
}

// Step advances the simulation by dt seconds. dt is the measured frame
// delta so physics stay correct under tick-rate variance.
func (e *Engine) Step(dt float64, in core.InputFrame) {
	if in.Has(core.ActionPause) {
		e.paused = !e.paused
	}
	if in.Has(core.ActionRestart) && e.match.Phase() == PhaseGameOver {
		e.Reset()
		return
	}
	if e.paused || dt <= 0 {
		return
	}

	e.now = e.now.Add(time.Duration(dt * float64(time.Second)))
	e.snap.Tick++

	for _, eff := range e.tracker.Expire(e.now) {
		// Expiry side effects (e.g. a freeze ending restores control) fall
		// out of the per-tick flag recomputation below.
		e.events.Publish(EffectEndEvent{Effect: eff})
	}

	if e.match.TryResume(e.now) {
		e.serve()
		e.events.Publish(PhaseEvent{Phase: PhaseRallying})
	}

	e.applyEffectFlags()
	e.movePaddles(dt, in)
	e.resolvePaddleOverlaps()

	if e.match.Phase() == PhaseRallying {
		e.stepBall(dt)
		e.stepCoins()
	}

	e.publishState()
}

// applyEffectFlags recomputes per-paddle effect state from the tracker so
// expiry and forced clears take hold the same tick.
func (e *Engine) applyEffectFlags() {
	for _, side := range Sides() {
		pd := e.snap.Paddles[side]
		pd.Frozen = e.tracker.Frozen(side)
		pd.Reversed = e.tracker.Reversed(side)
		pd.Length = e.tracker.PaddleLength(side, e.cfg.Physics.PaddleLength)
		e.phys.ClampPaddle(&pd)
		e.snap.Paddles[side] = pd
	}
}

// movePaddles applies input to the local paddle and drives the CPU sides.
func (e *Engine) movePaddles(dt float64, in core.InputFrame) {
	if e.localSide != SideNone {
		pd := e.snap.Paddles[e.localSide]
		axis := in.Axis(e.localSide.Horizontal())
		if pd.Reversed {
			axis = -axis
		}
		if pd.Frozen {
			axis = 0
		}
		pd.Vel = axis * e.cfg.Physics.PaddleSpeed
		pd.Pos += pd.Vel * dt
		pd.Target = pd.Pos
		e.phys.ClampPaddle(&pd)
		e.snap.Paddles[e.localSide] = pd
	}

	if e.match.Phase() == PhaseGameOver {
		return
	}
	for side, ai := range e.ais {
		pd := e.snap.Paddles[side]
		ai.Drive(&pd, e.snap.Ball, e.phys, dt)
		e.snap.Paddles[side] = pd
	}
}

// resolvePaddleOverlaps handles the four corner pairings.
func (e *Engine) resolvePaddleOverlaps() {
	for _, vside := range [2]Side{SideLeft, SideRight} {
		for _, hside := range [2]Side{SideTop, SideBottom} {
			v := e.snap.Paddles[vside]
			h := e.snap.Paddles[hside]
			if e.phys.ResolvePaddleOverlap(&v, &h) {
				e.snap.Paddles[vside] = v
				e.snap.Paddles[hside] = h
				e.events.Publish(CollisionEvent{Kind: CollisionPaddlePush, Side: vside})
			}
		}
	}
}

// stepBall integrates the ball, resolves paddle hits, and reacts to
// boundary crossings.
func (e *Engine) stepBall(dt float64) {
	ball := e.snap.Ball
	if ball.Phasing && e.now.After(e.phasingUntil) {
		ball.Phasing = false
	}

	prev := ball.Pos
	e.phys.MoveBall(&ball, dt, e.tracker.BallSpeedFactor())

	for _, side := range Sides() {
		if e.phys.CollideBallPaddle(&ball, e.snap.Paddles[side], prev, dt) {
			e.match.Touch(side)
			e.events.Publish(CollisionEvent{Kind: CollisionPaddle, Side: side})
			break
		}
	}

	e.snap.Ball = ball

	boundary := e.phys.CrossedBoundary(ball)
	if boundary == SideNone {
		return
	}
	award, ok := e.match.BoundaryCrossed(boundary, e.now)
	if !ok {
		return
	}

	e.events.Publish(ScoreEvent{
		Scorer:   award.Scorer,
		Boundary: award.Boundary,
		SelfGoal: award.SelfGoal,
		Score:    award.Score,
	})
	for _, eff := range e.tracker.ClearOnScore() {
		e.events.Publish(EffectEndEvent{Effect: eff, Forced: true})
	}

	// Hold the ball at center until the pause window elapses.
	ball = e.snap.Ball
	ball.Pos = e.phys.FieldCenter(ball.Size)
	ball.Vel = core.Vec{}
	ball.Spin = 0
	ball.Frozen = true
	e.snap.Ball = ball

	if award.GameOver {
		e.events.Publish(PhaseEvent{Phase: PhaseGameOver, Winner: e.match.Winner()})
	} else {
		e.events.Publish(PhaseEvent{Phase: PhasePausedAfterScore})
	}
}

// stepCoins spawns and collects pickups.
func (e *Engine) stepCoins() {
	cfg := e.cfg.Effects
	if !e.now.Before(e.nextCoinAt) && len(e.snap.Coins) < cfg.MaxCoins {
		e.nextCoinID++
		margin := e.cfg.Physics.PaddleOffset + e.cfg.Physics.PaddleThick + cfg.CoinSize
		e.snap.Coins = append(e.snap.Coins, Coin{
			ID:   e.nextCoinID,
			Size: cfg.CoinSize,
			Pos: core.Vec{
				X: margin + e.rng.Float64()*(e.cfg.Field.Width-2*margin),
				Y: margin + e.rng.Float64()*(e.cfg.Field.Height-2*margin),
			},
		})
		e.nextCoinAt = e.now.Add(cfg.CoinInterval.Std())
	}

	ballRect := e.snap.Ball.Rect()
	kept := e.snap.Coins[:0]
	for _, coin := range e.snap.Coins {
		if !ballRect.Intersects(coin.Rect()) {
			kept = append(kept, coin)
			continue
		}
		collector := e.match.LastToucher()
		if collector == SideNone {
			// No paddle has touched the ball yet, so there is nobody to
			// credit (and exempt). Leave the coin until someone does.
			kept = append(kept, coin)
			continue
		}
		e.events.Publish(CollisionEvent{Kind: CollisionCoin, Side: collector})
		effType := EffectType(e.rng.Intn(int(effectCount)))
		eff, refreshed := e.tracker.Apply(effType, collector, e.now)
		e.events.Publish(EffectStartEvent{Effect: eff, Refreshed: refreshed})
	}
	e.snap.Coins = kept
}

// serve centers the ball and launches it away from the conceding side.
func (e *Engine) serve() {
	ball := e.snap.Ball
	ball.Pos = e.phys.FieldCenter(ball.Size)
	ball.Vel = e.phys.ServeVelocity(e.match.Conceded(), e.rng.Float64()*2-1)
	ball.Spin = 0
	ball.Frozen = false
	ball.Phasing = true
	e.snap.Ball = ball
	e.phasingUntil = e.now.Add(phasingWindow)
}

// publishState copies the match/tracker view into the snapshot.
func (e *Engine) publishState() {
	e.snap.Scores = e.match.Scores()
	e.snap.Effects = e.tracker.Active()
	e.snap.Phase = e.match.Phase()
	e.snap.ResumeAt = e.match.PausedUntil()
	e.snap.Winner = e.match.Winner()
	e.snap.Ended = e.match.Phase() == PhaseGameOver
}
