package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/quadpong/internal/config"
	"github.com/vovakirdan/quadpong/internal/core"
)

func testAICfg() config.AIConfig {
	cfg := config.Default().AI
	// Deterministic for the intercept assertions.
	cfg.TargetNoise = 0
	cfg.PanicChance = 0
	cfg.EmergencyChance = 0
	return cfg
}

func TestControllerTracksInboundBall(t *testing.T) {
	phys := testPhysics()
	ai := NewController(testAICfg(), SideLeft, rand.New(rand.NewSource(1)))

	pd := Paddle{Side: SideLeft, Pos: 60, Length: 18}
	// Heading straight at the left wall, crossing at y=30.
	ball := Ball{Pos: core.Vec{X: 40, Y: 29}, Vel: core.Vec{X: -42}, Size: 2}

	dt := 1.0 / 60
	for i := 0; i < 60; i++ {
		ai.Drive(&pd, ball, phys, dt)
		ball.Pos = ball.Pos.Add(ball.Vel.Scale(dt))
	}

	if miss := math.Abs(pd.Pos - 30); miss > 9 {
		t.Errorf("paddle at %v, intercept at 30: miss %v exceeds half length", pd.Pos, miss)
	}
}

func TestControllerDriftsHomeWhenBallOutbound(t *testing.T) {
	phys := testPhysics()
	ai := NewController(testAICfg(), SideLeft, rand.New(rand.NewSource(1)))

	pd := Paddle{Side: SideLeft, Pos: 85, Length: 18}
	ball := Ball{Pos: core.Vec{X: 50, Y: 50}, Vel: core.Vec{X: 42}, Size: 2} // Moving away

	dt := 1.0 / 60
	for i := 0; i < 180; i++ {
		ai.Drive(&pd, ball, phys, dt)
	}

	if math.Abs(pd.Pos-50) > 10 {
		t.Errorf("idle paddle at %v, want drifting toward center 50", pd.Pos)
	}
}

func TestControllerFrozenPaddleStops(t *testing.T) {
	phys := testPhysics()
	ai := NewController(testAICfg(), SideLeft, rand.New(rand.NewSource(1)))

	pd := Paddle{Side: SideLeft, Pos: 50, Length: 18, Vel: 40, Frozen: true}
	ball := Ball{Pos: core.Vec{X: 20, Y: 20}, Vel: core.Vec{X: -42}, Size: 2}

	ai.Drive(&pd, ball, phys, 1.0/60)
	if pd.Vel != 0 {
		t.Errorf("frozen paddle has Vel %v, want 0", pd.Vel)
	}
	if pd.Pos != 50 {
		t.Errorf("frozen paddle moved to %v", pd.Pos)
	}
}

func TestProjectRejectsCrossCourtExits(t *testing.T) {
	phys := testPhysics()
	ai := NewController(testAICfg(), SideLeft, rand.New(rand.NewSource(1)))

	// Steep diagonal: reaches y<0 long before the left wall plane, so the
	// left paddle should not chase it.
	ball := Ball{Pos: core.Vec{X: 12, Y: 5}, Vel: core.Vec{X: -10, Y: -80}, Size: 2}
	if _, _, inbound := ai.project(ball, phys); inbound {
		t.Error("project() chased a ball exiting through another wall")
	}

	// Too far out: beyond the projection horizon.
	slow := Ball{Pos: core.Vec{X: 90, Y: 50}, Vel: core.Vec{X: -10}, Size: 2}
	if _, _, inbound := ai.project(slow, phys); inbound {
		t.Error("project() reported inbound beyond the horizon")
	}
}
