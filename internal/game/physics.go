package game

import (
	"math"

	"github.com/vovakirdan/quadpong/internal/config"
	"github.com/vovakirdan/quadpong/internal/core"
)

// Physics resolves ball and paddle motion on the logical field. It is pure
// with respect to time: callers pass dt and the snapshot to mutate.
type Physics struct {
	cfg   config.PhysicsConfig
	field config.FieldConfig
}

// NewPhysics creates a physics resolver for the given tuning.
func NewPhysics(phys config.PhysicsConfig, field config.FieldConfig) *Physics {
	return &Physics{cfg: phys, field: field}
}

// PaddleRect returns the paddle's bounding box on the field.
func (p *Physics) PaddleRect(pd Paddle) core.Rect {
	half := pd.Length / 2
	switch pd.Side {
	case SideLeft:
		return core.NewRect(p.cfg.PaddleOffset, pd.Pos-half, p.cfg.PaddleThick, pd.Length)
	case SideRight:
		return core.NewRect(p.field.Width-p.cfg.PaddleOffset-p.cfg.PaddleThick, pd.Pos-half, p.cfg.PaddleThick, pd.Length)
	case SideTop:
		return core.NewRect(pd.Pos-half, p.cfg.PaddleOffset, pd.Length, p.cfg.PaddleThick)
	case SideBottom:
		return core.NewRect(pd.Pos-half, p.field.Height-p.cfg.PaddleOffset-p.cfg.PaddleThick, pd.Length, p.cfg.PaddleThick)
	default:
		return core.Rect{}
	}
}

// AxisMax returns the field extent along a side's movement axis.
func (p *Physics) AxisMax(side Side) float64 {
	if side.Horizontal() {
		return p.field.Width
	}
	return p.field.Height
}

// ClampPaddle keeps the paddle inside the play field minus border
// thickness. Invariant: holds after every mutation, local or merged.
func (p *Physics) ClampPaddle(pd *Paddle) {
	half := pd.Length / 2
	lo := p.field.Border + half
	hi := p.AxisMax(pd.Side) - p.field.Border - half
	pd.Pos = core.ClampF(pd.Pos, lo, hi)
}

// MoveBall integrates the ball by its velocity. speedFactor carries active
// speed effects; dt is in seconds.
func (p *Physics) MoveBall(b *Ball, dt, speedFactor float64) {
	if b.Frozen {
		return
	}
	b.Pos = b.Pos.Add(b.Vel.Scale(dt * speedFactor))
}

// CrossedBoundary reports which wall the ball has crossed, or SideNone.
// A crossing requires the ball to be moving outward so a freshly reset ball
// on the line does not double-score.
func (p *Physics) CrossedBoundary(b Ball) Side {
	switch {
	case b.Pos.X <= 0 && b.Vel.X < 0:
		return SideLeft
	case b.Pos.X+b.Size >= p.field.Width && b.Vel.X > 0:
		return SideRight
	case b.Pos.Y <= 0 && b.Vel.Y < 0:
		return SideTop
	case b.Pos.Y+b.Size >= p.field.Height && b.Vel.Y > 0:
		return SideBottom
	default:
		return SideNone
	}
}

// CollideBallPaddle tests and resolves a collision between the ball and one
// paddle. prevPos is the ball position before this tick's integration; fast
// balls additionally use a swept bounding box spanning the whole tick so a
// paddle cannot be tunneled through in one step. Returns true if the ball
// was reflected.
func (p *Physics) CollideBallPaddle(b *Ball, pd Paddle, prevPos core.Vec, dt float64) bool {
	if b.Phasing || b.Frozen {
		return false
	}
	if !p.movingToward(*b, pd.Side) {
		return false
	}

	prect := p.PaddleRect(pd)
	now := b.Rect()
	hit := now.Intersects(prect)
	if !hit && b.Vel.Len() >= p.cfg.SweptSpeedMin {
		before := core.NewRect(prevPos.X, prevPos.Y, b.Size, b.Size)
		hit = before.Union(now).Intersects(prect)
	}
	if !hit {
		return false
	}

	p.reflect(b, pd, prect)
	return true
}

// movingToward reports whether the ball's velocity points at the given wall.
func (p *Physics) movingToward(b Ball, side Side) bool {
	switch side {
	case SideLeft:
		return b.Vel.X < 0
	case SideRight:
		return b.Vel.X > 0
	case SideTop:
		return b.Vel.Y < 0
	case SideBottom:
		return b.Vel.Y > 0
	default:
		return false
	}
}

// reflect bounces the ball off a paddle. The normal component flips, the
// tangential component picks up the impact offset and a share of the paddle
// velocity, and overall speed grows slightly, capped at the maximum.
func (p *Physics) reflect(b *Ball, pd Paddle, prect core.Rect) {
	half := pd.Length / 2
	var offset float64 // Impact point relative to paddle center, in [-1, 1]

	if pd.Side.Horizontal() {
		center := b.Pos.X + b.Size/2
		offset = core.ClampF((center-pd.Pos)/half, -1, 1)
		b.Vel.Y = -b.Vel.Y
		b.Vel.X += offset*math.Abs(b.Vel.Y)*0.5 + pd.Vel*p.cfg.SpinTransfer
		if pd.Side == SideTop {
			b.Pos.Y = prect.Bottom()
		} else {
			b.Pos.Y = prect.Y - b.Size
		}
	} else {
		center := b.Pos.Y + b.Size/2
		offset = core.ClampF((center-pd.Pos)/half, -1, 1)
		b.Vel.X = -b.Vel.X
		b.Vel.Y += offset*math.Abs(b.Vel.X)*0.5 + pd.Vel*p.cfg.SpinTransfer
		if pd.Side == SideLeft {
			b.Pos.X = prect.Right()
		} else {
			b.Pos.X = prect.X - b.Size
		}
	}

	b.Spin = pd.Vel * p.cfg.SpinTransfer
	b.Vel = b.Vel.Scale(p.cfg.SpeedGrowth)
	if speed := b.Vel.Len(); speed > p.cfg.BallMaxSpeed {
		b.Vel = b.Vel.Scale(p.cfg.BallMaxSpeed / speed)
	}
}

// ResolvePaddleOverlap resolves corner contact between a vertical and a
// horizontal paddle by pushing both back along their own movement axes.
// Returns true when an overlap was corrected.
func (p *Physics) ResolvePaddleOverlap(vert, horiz *Paddle) bool {
	if vert.Side.Horizontal() || !horiz.Side.Horizontal() {
		return false
	}
	vrect := p.PaddleRect(*vert)
	hrect := p.PaddleRect(*horiz)
	if !vrect.Intersects(hrect) {
		return false
	}

	// Push the vertical paddle away from the horizontal wall and the
	// horizontal paddle away from the vertical wall, half the overlap each.
	overlapY := math.Min(vrect.Bottom(), hrect.Bottom()) - math.Max(vrect.Y, hrect.Y)
	overlapX := math.Min(vrect.Right(), hrect.Right()) - math.Max(vrect.X, hrect.X)

	if horiz.Side == SideTop {
		vert.Pos += overlapY / 2
	} else {
		vert.Pos -= overlapY / 2
	}
	if vert.Side == SideLeft {
		horiz.Pos += overlapX / 2
	} else {
		horiz.Pos -= overlapX / 2
	}
	p.ClampPaddle(vert)
	p.ClampPaddle(horiz)
	return true
}

// FieldCenter returns the centered ball position for a serve.
func (p *Physics) FieldCenter(ballSize float64) core.Vec {
	return core.Vec{
		X: p.field.Width/2 - ballSize/2,
		Y: p.field.Height/2 - ballSize/2,
	}
}

// ServeVelocity produces a randomized serve vector biased away from the
// conceding side, giving it time to recover. angle is the caller-supplied
// random value in [-1, 1] scaled by the configured spread.
func (p *Physics) ServeVelocity(conceded Side, angle float64) core.Vec {
	theta := angle * p.cfg.ServeAngleSpan
	speed := p.cfg.BallSpeed

	var dir core.Vec
	switch conceded {
	case SideLeft:
		dir = core.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
	case SideRight:
		dir = core.Vec{X: -math.Cos(theta), Y: math.Sin(theta)}
	case SideTop:
		dir = core.Vec{X: math.Sin(theta), Y: math.Cos(theta)}
	case SideBottom:
		dir = core.Vec{X: math.Sin(theta), Y: -math.Cos(theta)}
	default:
		// Opening serve: pick the left/right axis from the angle's sign.
		if angle >= 0 {
			dir = core.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
		} else {
			dir = core.Vec{X: -math.Cos(theta), Y: math.Sin(theta)}
		}
	}
	return dir.Scale(speed)
}
