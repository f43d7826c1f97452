package game

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/quadpong/internal/config"
	"github.com/vovakirdan/quadpong/internal/core"
)

// Controller drives one CPU paddle. The heuristic retargets every
// ReactionTicks with a noisy projection of the ball's intercept, accelerates
// toward the target with velocity friction, and escalates through "panic"
// (stronger acceleration when the projected miss is large) and the rarer
// "emergency" override (direct interception when the miss is small and the
// ball is close). The contract is statistical: an on-target ball is rarely
// missed, never guaranteed.
type Controller struct {
	cfg  config.AIConfig
	side Side
	rng  *rand.Rand

	cooldown   int     // Ticks until the next retarget
	target     float64 // Current movement target along the paddle axis
	panicLeft  int     // Remaining panic burst ticks
	emergency  bool    // Direct interception override active
	rampTicks  int
	accelBonus float64
}

// NewController creates an AI driver for the given side.
func NewController(cfg config.AIConfig, side Side, rng *rand.Rand) *Controller {
	return &Controller{cfg: cfg, side: side, rng: rng}
}

// Drive advances the paddle by one tick. The paddle is mutated in place;
// clamping is applied by the caller's physics pass.
func (c *Controller) Drive(pd *Paddle, b Ball, phys *Physics, dt float64) {
	if pd.Frozen {
		pd.Vel = 0
		return
	}

	if c.cfg.SkillRampInterval > 0 {
		c.rampTicks++
		if c.rampTicks%c.cfg.SkillRampInterval == 0 {
			c.accelBonus += c.cfg.SkillRampStep
		}
	}

	c.cooldown--
	if c.cooldown <= 0 {
		c.think(pd, b, phys)
		c.cooldown = c.cfg.ReactionTicks
	}

	if c.emergency {
		// Override: close on the target directly, well above normal speed.
		maxStep := 3 * c.cfg.MaxSpeed * dt
		step := core.ClampF(c.target-pd.Pos, -maxStep, maxStep)
		pd.Pos += step
		pd.Vel = step / dt
		pd.Target = c.target
		phys.ClampPaddle(pd)
		return
	}

	accel := c.cfg.Accel + c.accelBonus
	maxSpeed := c.cfg.MaxSpeed
	if c.panicLeft > 0 {
		accel *= c.cfg.PanicAccelScale
		maxSpeed *= 1.5
		c.panicLeft--
	}

	diff := c.target - pd.Pos
	if diff > 0 {
		pd.Vel += accel * dt
	} else if diff < 0 {
		pd.Vel -= accel * dt
	}
	pd.Vel *= c.cfg.Friction
	pd.Vel = core.ClampF(pd.Vel, -maxSpeed, maxSpeed)

	// Don't oscillate around the target at full speed.
	if math.Abs(diff) < math.Abs(pd.Vel)*dt {
		pd.Vel *= 0.5
	}

	pd.Pos += pd.Vel * dt
	pd.Target = c.target
	phys.ClampPaddle(pd)
}

// think recomputes the movement target and escalation state.
func (c *Controller) think(pd *Paddle, b Ball, phys *Physics) {
	intercept, distToWall, inbound := c.project(b, phys)
	if !inbound {
		// Drift home while the ball heads elsewhere.
		c.target = phys.AxisMax(c.side) / 2
		c.emergency = false
		return
	}

	noise := (c.rng.Float64()*2 - 1) * c.cfg.TargetNoise
	c.target = intercept + noise

	missMargin := math.Abs(intercept-pd.Pos) - pd.Length/2
	switch {
	case missMargin > c.cfg.PanicMissMargin:
		if c.rng.Float64() < c.cfg.PanicChance {
			c.panicLeft = c.cfg.PanicTicks
		}
	case missMargin > 0 && missMargin <= c.cfg.EmergencyMargin && distToWall <= c.cfg.EmergencyDistance:
		if c.rng.Float64() < c.cfg.EmergencyChance {
			c.emergency = true
			c.target = intercept // Exact, no noise
			return
		}
	}
	c.emergency = false
}

// project estimates where the ball will cross this paddle's wall plane.
// Returns the intercept along the paddle axis, the ball's current distance
// to the wall, and whether the ball is heading at this wall within the
// projection horizon (and won't exit via another wall first).
func (c *Controller) project(b Ball, phys *Physics) (intercept, distToWall float64, inbound bool) {
	var approach, tangentPos, tangentVel float64
	ballCenter := b.Rect().Center()

	switch c.side {
	case SideLeft:
		distToWall = ballCenter.X
		approach = -b.Vel.X
		tangentPos, tangentVel = ballCenter.Y, b.Vel.Y
	case SideRight:
		distToWall = phys.field.Width - ballCenter.X
		approach = b.Vel.X
		tangentPos, tangentVel = ballCenter.Y, b.Vel.Y
	case SideTop:
		distToWall = ballCenter.Y
		approach = -b.Vel.Y
		tangentPos, tangentVel = ballCenter.X, b.Vel.X
	case SideBottom:
		distToWall = phys.field.Height - ballCenter.Y
		approach = b.Vel.Y
		tangentPos, tangentVel = ballCenter.X, b.Vel.X
	default:
		return 0, 0, false
	}

	if approach <= 0 {
		return 0, distToWall, false
	}
	t := distToWall / approach
	if t > c.cfg.ProjectionHorizon {
		return 0, distToWall, false
	}
	intercept = tangentPos + tangentVel*t
	// Out of range means the ball leaves through another wall first.
	if intercept < 0 || intercept > phys.AxisMax(c.side) {
		return 0, distToWall, false
	}
	return intercept, distToWall, true
}
