package game

import (
	"time"

	"github.com/vovakirdan/quadpong/internal/config"
)

// EffectType is the closed set of timed gameplay modifiers.
type EffectType int

const (
	EffectSpeedUp  EffectType = iota // Ball moves faster
	EffectSlowDown                   // Ball moves slower
	EffectFreeze                     // Non-exempt paddles cannot move
	EffectReverse                    // Non-exempt paddle controls inverted
	EffectGrow                       // Activator's paddle lengthens
	EffectShrink                     // Non-exempt paddles shorten
	effectCount                      // Sentinel for counting types
)

// String returns the wire name of the effect type.
func (t EffectType) String() string {
	switch t {
	case EffectSpeedUp:
		return "speed-up"
	case EffectSlowDown:
		return "slow-down"
	case EffectFreeze:
		return "freeze"
	case EffectReverse:
		return "reverse"
	case EffectGrow:
		return "grow"
	case EffectShrink:
		return "shrink"
	default:
		return "unknown"
	}
}

// ParseEffectType converts a wire name into an EffectType.
func ParseEffectType(name string) (EffectType, bool) {
	for t := EffectType(0); t < effectCount; t++ {
		if t.String() == name {
			return t, true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler for network payloads.
func (t EffectType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *EffectType) UnmarshalText(text []byte) error {
	parsed, ok := ParseEffectType(string(text))
	if ok {
		*t = parsed
	}
	return nil
}

// ActiveEffect is one running modifier. At most one instance per type is
// ever active; re-acquiring a type refreshes it.
type ActiveEffect struct {
	Type      EffectType
	Start     time.Time
	Duration  time.Duration
	Activator Side // Who collected the pickup
	Exempt    Side // Paddle unaffected by the effect, SideNone if nobody
}

// ExpiresAt returns the instant the effect ends.
func (e ActiveEffect) ExpiresAt() time.Time {
	return e.Start.Add(e.Duration)
}

// Expired reports whether the effect has run out at the given instant.
func (e ActiveEffect) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt())
}

// Affects reports whether the effect applies to the given paddle side.
func (e ActiveEffect) Affects(side Side) bool {
	switch e.Type {
	case EffectGrow:
		return side == e.Activator
	case EffectFreeze, EffectReverse, EffectShrink:
		return side != e.Exempt
	default:
		return true
	}
}

// EffectTracker owns the set of active effects. It is not safe for
// concurrent use; in local mode only the engine tick touches it, in
// networked mode the server owns effects and the tracker is bypassed.
type EffectTracker struct {
	cfg    config.EffectsConfig
	active []ActiveEffect
}

// NewEffectTracker creates a tracker with the given tuning.
func NewEffectTracker(cfg config.EffectsConfig) *EffectTracker {
	return &EffectTracker{cfg: cfg}
}

// DurationFor returns the configured duration of an effect type.
func (tr *EffectTracker) DurationFor(t EffectType) time.Duration {
	switch t {
	case EffectSpeedUp:
		return tr.cfg.DurationSpeedUp.Std()
	case EffectSlowDown:
		return tr.cfg.DurationSlowDown.Std()
	case EffectFreeze:
		return tr.cfg.DurationFreeze.Std()
	case EffectReverse:
		return tr.cfg.DurationReverse.Std()
	case EffectGrow:
		return tr.cfg.DurationGrow.Std()
	case EffectShrink:
		return tr.cfg.DurationShrink.Std()
	default:
		return 0
	}
}

// Apply activates an effect. If the type is already active the existing
// instance is refreshed in place: start, activator, and exemption are
// replaced, never duplicated. Returns the stored effect and whether it
// refreshed an existing one.
func (tr *EffectTracker) Apply(t EffectType, activator Side, now time.Time) (ActiveEffect, bool) {
	eff := ActiveEffect{
		Type:      t,
		Start:     now,
		Duration:  tr.DurationFor(t),
		Activator: activator,
		Exempt:    activator,
	}
	for i := range tr.active {
		if tr.active[i].Type == t {
			tr.active[i] = eff
			return eff, true
		}
	}
	tr.active = append(tr.active, eff)
	return eff, false
}

// Expire removes and returns all effects that have run out at now.
func (tr *EffectTracker) Expire(now time.Time) []ActiveEffect {
	var expired []ActiveEffect
	kept := tr.active[:0]
	for _, e := range tr.active {
		if e.Expired(now) {
			expired = append(expired, e)
		} else {
			kept = append(kept, e)
		}
	}
	tr.active = kept
	return expired
}

// ClearOnScore forcibly removes the effect types that must not survive a
// point boundary (reverse controls and freezes), regardless of remaining
// duration. Returns the cleared effects.
func (tr *EffectTracker) ClearOnScore() []ActiveEffect {
	return tr.clear(EffectReverse, EffectFreeze)
}

// ClearAll removes every active effect, e.g. on match reset.
func (tr *EffectTracker) ClearAll() []ActiveEffect {
	cleared := tr.active
	tr.active = nil
	return cleared
}

func (tr *EffectTracker) clear(types ...EffectType) []ActiveEffect {
	var cleared []ActiveEffect
	kept := tr.active[:0]
	for _, e := range tr.active {
		drop := false
		for _, t := range types {
			if e.Type == t {
				drop = true
				break
			}
		}
		if drop {
			cleared = append(cleared, e)
		} else {
			kept = append(kept, e)
		}
	}
	tr.active = kept
	return cleared
}

// Has reports whether an effect of the given type is active.
func (tr *EffectTracker) Has(t EffectType) bool {
	for _, e := range tr.active {
		if e.Type == t {
			return true
		}
	}
	return false
}

// Get returns the active effect of the given type, if any.
func (tr *EffectTracker) Get(t EffectType) (ActiveEffect, bool) {
	for _, e := range tr.active {
		if e.Type == t {
			return e, true
		}
	}
	return ActiveEffect{}, false
}

// Active returns a copy of the active effect list for snapshot exposure.
func (tr *EffectTracker) Active() []ActiveEffect {
	return append([]ActiveEffect(nil), tr.active...)
}

// BallSpeedFactor returns the combined ball speed multiplier from active
// speed effects.
func (tr *EffectTracker) BallSpeedFactor() float64 {
	factor := 1.0
	if tr.Has(EffectSpeedUp) {
		factor *= tr.cfg.SpeedUpFactor
	}
	if tr.Has(EffectSlowDown) {
		factor *= tr.cfg.SlowDownFactor
	}
	return factor
}

// PaddleLength returns the effective paddle length for a side given the
// base length and active grow/shrink effects, clamped to configured bounds.
func (tr *EffectTracker) PaddleLength(side Side, base float64) float64 {
	length := base
	if e, ok := tr.Get(EffectGrow); ok && e.Affects(side) {
		length *= tr.cfg.GrowFactor
	}
	if e, ok := tr.Get(EffectShrink); ok && e.Affects(side) {
		length *= tr.cfg.ShrinkFactor
	}
	if length < tr.cfg.MinPaddleLength {
		length = tr.cfg.MinPaddleLength
	}
	if length > tr.cfg.MaxPaddleLength {
		length = tr.cfg.MaxPaddleLength
	}
	return length
}

// Frozen reports whether the side's paddle is locked by a freeze effect.
func (tr *EffectTracker) Frozen(side Side) bool {
	e, ok := tr.Get(EffectFreeze)
	return ok && e.Affects(side)
}

// Reversed reports whether the side's controls are inverted.
func (tr *EffectTracker) Reversed(side Side) bool {
	e, ok := tr.Get(EffectReverse)
	return ok && e.Affects(side)
}
