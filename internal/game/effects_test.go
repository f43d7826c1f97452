package game

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/quadpong/internal/config"
)

func testEffects() config.EffectsConfig {
	return config.EffectsConfig{
		DurationSpeedUp:  config.Duration(8 * time.Second),
		DurationSlowDown: config.Duration(8 * time.Second),
		DurationFreeze:   config.Duration(3 * time.Second),
		DurationReverse:  config.Duration(6 * time.Second),
		DurationGrow:     config.Duration(12 * time.Second),
		DurationShrink:   config.Duration(12 * time.Second),
		SpeedUpFactor:    1.5,
		SlowDownFactor:   0.65,
		GrowFactor:       1.5,
		ShrinkFactor:     0.6,
		MinPaddleLength:  8,
		MaxPaddleLength:  32,
	}
}

func TestApplyRefreshesInPlace(t *testing.T) {
	tr := NewEffectTracker(testEffects())
	t0 := time.Now()

	_, refreshed := tr.Apply(EffectSpeedUp, SideLeft, t0)
	if refreshed {
		t.Error("first Apply() reported refresh")
	}

	t1 := t0.Add(5 * time.Second)
	eff, refreshed := tr.Apply(EffectSpeedUp, SideTop, t1)
	if !refreshed {
		t.Error("second Apply() of the same type did not refresh")
	}
	if got := len(tr.Active()); got != 1 {
		t.Fatalf("Active() has %d effects, want 1 (no stacking)", got)
	}
	if eff.Activator != SideTop {
		t.Errorf("refresh kept old activator %s", eff.Activator)
	}
	if want := t1.Add(8 * time.Second); !eff.ExpiresAt().Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v (timer restarted)", eff.ExpiresAt(), want)
	}
}

func TestAffectsScope(t *testing.T) {
	grow := ActiveEffect{Type: EffectGrow, Activator: SideLeft, Exempt: SideLeft}
	if !grow.Affects(SideLeft) || grow.Affects(SideRight) {
		t.Error("grow must affect only the activator")
	}

	freeze := ActiveEffect{Type: EffectFreeze, Activator: SideTop, Exempt: SideTop}
	for _, side := range Sides() {
		want := side != SideTop
		if freeze.Affects(side) != want {
			t.Errorf("freeze Affects(%s) = %v, want %v", side, !want, want)
		}
	}
}

func TestExpireRemovesRunOutEffects(t *testing.T) {
	tr := NewEffectTracker(testEffects())
	t0 := time.Now()
	tr.Apply(EffectFreeze, SideLeft, t0)  // 3s
	tr.Apply(EffectSpeedUp, SideLeft, t0) // 8s

	expired := tr.Expire(t0.Add(4 * time.Second))
	if len(expired) != 1 || expired[0].Type != EffectFreeze {
		t.Fatalf("Expire() = %v, want just the freeze", expired)
	}
	if tr.Has(EffectFreeze) {
		t.Error("expired freeze still active")
	}
	if !tr.Has(EffectSpeedUp) {
		t.Error("live speed-up was dropped")
	}
}

func TestClearOnScore(t *testing.T) {
	tr := NewEffectTracker(testEffects())
	now := time.Now()
	tr.Apply(EffectReverse, SideLeft, now)
	tr.Apply(EffectFreeze, SideLeft, now)
	tr.Apply(EffectGrow, SideLeft, now)
	tr.Apply(EffectSlowDown, SideLeft, now)

	cleared := tr.ClearOnScore()
	if len(cleared) != 2 {
		t.Fatalf("ClearOnScore() removed %d effects, want 2", len(cleared))
	}
	if tr.Has(EffectReverse) || tr.Has(EffectFreeze) {
		t.Error("reverse/freeze survived a scoring transition")
	}
	if !tr.Has(EffectGrow) || !tr.Has(EffectSlowDown) {
		t.Error("grow/slow-down must survive a scoring transition")
	}
}

func TestFreezeRestoresControl(t *testing.T) {
	tr := NewEffectTracker(testEffects())
	t0 := time.Now()
	tr.Apply(EffectFreeze, SideLeft, t0)

	if tr.Frozen(SideLeft) {
		t.Error("activator frozen by its own freeze")
	}
	if !tr.Frozen(SideTop) {
		t.Error("opponent not frozen")
	}

	tr.Expire(t0.Add(3 * time.Second))
	if tr.Frozen(SideTop) {
		t.Error("paddle still frozen after expiry")
	}
}

func TestPaddleLengthClamped(t *testing.T) {
	tr := NewEffectTracker(testEffects())
	now := time.Now()
	base := 18.0

	tr.Apply(EffectGrow, SideLeft, now)
	if got := tr.PaddleLength(SideLeft, base); got != 27 {
		t.Errorf("grown length = %v, want 27", got)
	}
	// Grow does not touch the others.
	if got := tr.PaddleLength(SideTop, base); got != base {
		t.Errorf("bystander length = %v, want %v", got, base)
	}

	// Shrink on top of grow for a non-activator: only shrink applies.
	tr.Apply(EffectShrink, SideRight, now)
	if got, want := tr.PaddleLength(SideTop, base), base*0.6; math.Abs(got-want) > 1e-9 {
		t.Errorf("shrunk length = %v, want %v", got, want)
	}

	// Clamp floor.
	if got := tr.PaddleLength(SideTop, 10); got != 8 {
		t.Errorf("length = %v, want clamp floor 8", got)
	}
}

func TestBallSpeedFactorCombines(t *testing.T) {
	tr := NewEffectTracker(testEffects())
	now := time.Now()

	if got := tr.BallSpeedFactor(); got != 1 {
		t.Fatalf("idle factor = %v, want 1", got)
	}
	tr.Apply(EffectSpeedUp, SideLeft, now)
	tr.Apply(EffectSlowDown, SideRight, now)
	if got, want := tr.BallSpeedFactor(), 1.5*0.65; math.Abs(got-want) > 1e-9 {
		t.Errorf("combined factor = %v, want %v", got, want)
	}
}
