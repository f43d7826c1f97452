package game

import (
	"testing"
	"time"

	"github.com/vovakirdan/quadpong/internal/config"
	"github.com/vovakirdan/quadpong/internal/core"
)

func testEngine(seed int64) *Engine {
	cfg := config.Default()
	rt := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed}
	return NewEngine(cfg, rt, SideLeft)
}

func TestEngineServesOnStart(t *testing.T) {
	e := testEngine(7)
	snap := e.Snapshot()

	if snap.Ball.Vel.Len() == 0 {
		t.Error("ball not served on engine start")
	}
	if !snap.Ball.Phasing {
		t.Error("freshly served ball should phase through paddles briefly")
	}
	for _, side := range Sides() {
		if _, ok := snap.Paddles[side]; !ok {
			t.Errorf("paddle %s missing from snapshot", side)
		}
	}
}

func TestEngineDeterministicWithSeed(t *testing.T) {
	a := testEngine(42)
	b := testEngine(42)
	in := core.NewInputFrame()

	dt := 1.0 / 60
	for i := 0; i < 600; i++ {
		a.Step(dt, in)
		b.Step(dt, in)
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	if sa.Ball.Pos != sb.Ball.Pos || sa.Ball.Vel != sb.Ball.Vel {
		t.Errorf("same seed diverged: ball %+v vs %+v", sa.Ball, sb.Ball)
	}
	for _, side := range Sides() {
		if sa.Paddles[side].Pos != sb.Paddles[side].Pos {
			t.Errorf("same seed diverged: paddle %s %v vs %v",
				side, sa.Paddles[side].Pos, sb.Paddles[side].Pos)
		}
	}
	if sa.Tick != sb.Tick {
		t.Errorf("tick mismatch: %d vs %d", sa.Tick, sb.Tick)
	}
}

func TestEnginePauseFreezesSimulation(t *testing.T) {
	e := testEngine(7)
	dt := 1.0 / 60

	in := core.NewInputFrame()
	in.Set(core.ActionPause)
	e.Step(dt, in)
	if !e.Paused() {
		t.Fatal("pause action ignored")
	}

	before := e.Snapshot()
	empty := core.NewInputFrame()
	for i := 0; i < 30; i++ {
		e.Step(dt, empty)
	}
	after := e.Snapshot()
	if after.Tick != before.Tick || after.Ball.Pos != before.Ball.Pos {
		t.Error("simulation advanced while paused")
	}

	in = core.NewInputFrame()
	in.Set(core.ActionPause)
	e.Step(dt, in)
	if e.Paused() {
		t.Error("second pause action did not resume")
	}
}

func TestEngineLocalPaddleFollowsInput(t *testing.T) {
	e := testEngine(7)
	dt := 1.0 / 60
	start := e.Snapshot().Paddles[SideLeft].Pos

	in := core.NewInputFrame()
	in.Set(core.ActionDown)
	for i := 0; i < 30; i++ {
		e.Step(dt, in)
	}

	if got := e.Snapshot().Paddles[SideLeft].Pos; got <= start {
		t.Errorf("paddle did not move down: %v -> %v", start, got)
	}
}

func TestEngineDtScaling(t *testing.T) {
	// Two engines stepped the same total time with different tick sizes
	// should keep their balls in the same place pre-collision.
	a := testEngine(42)
	b := testEngine(42)
	in := core.NewInputFrame()

	for i := 0; i < 6; i++ {
		a.Step(1.0/60, in)
	}
	for i := 0; i < 3; i++ {
		b.Step(2.0/60, in)
	}

	pa, pb := a.Snapshot().Ball.Pos, b.Snapshot().Ball.Pos
	if dx := pa.Sub(pb).Len(); dx > 1e-6 {
		t.Errorf("ball positions diverged by %v under different tick sizes", dx)
	}
}

func TestEngineCoinsSpawnCapped(t *testing.T) {
	cfg := config.Default()
	cfg.Effects.CoinInterval = config.Duration(10 * time.Millisecond)
	cfg.Effects.MaxCoins = 2
	rt := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
	e := NewEngine(cfg, rt, SideLeft)

	in := core.NewInputFrame()
	for i := 0; i < 120; i++ {
		e.Step(1.0/60, in)
	}

	if got := len(e.Snapshot().Coins); got == 0 || got > 2 {
		t.Errorf("coin count = %d, want 1..2", got)
	}
}

func TestEngineCoinWaitsForAttribution(t *testing.T) {
	e := testEngine(7)

	// Ball overlaps a coin before anyone has touched it: nobody can be
	// credited, so the pickup stays on the field.
	e.snap.Coins = []Coin{{ID: 1, Pos: e.snap.Ball.Pos, Size: 2}}
	e.stepCoins()
	if len(e.snap.Coins) != 1 {
		t.Fatal("coin collected with no toucher to credit")
	}
	if got := len(e.tracker.Active()); got != 0 {
		t.Fatalf("%d effects active without an activator", got)
	}

	e.match.Touch(SideRight)
	e.stepCoins()
	if len(e.snap.Coins) != 0 {
		t.Fatal("coin not collected once attribution exists")
	}
	effs := e.tracker.Active()
	if len(effs) != 1 {
		t.Fatalf("effects active = %d, want 1", len(effs))
	}
	if effs[0].Activator != SideRight {
		t.Errorf("effect credited to %s, want %s", effs[0].Activator, SideRight)
	}
}

func TestEngineRestartOnlyAfterGameOver(t *testing.T) {
	e := testEngine(7)
	dt := 1.0 / 60

	in := core.NewInputFrame()
	for i := 0; i < 10; i++ {
		e.Step(dt, in)
	}
	tick := e.Snapshot().Tick

	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)
	e.Step(dt, restart)

	if got := e.Snapshot().Tick; got != tick+1 {
		t.Errorf("restart mid-match reset the engine (tick %d -> %d)", tick, got)
	}
}
