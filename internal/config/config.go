// Package config provides YAML-based tuning for the quadpong simulation and
// network layers. All empirically tuned constants (AI reaction behavior,
// effect durations, reconnect timing) live here rather than as literals in
// game code.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "45s" or "2m" parse with
// time.ParseDuration. Plain integers are read as nanoseconds.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config is the root configuration for the client.
type Config struct {
	Field   FieldConfig   `yaml:"field"`
	Physics PhysicsConfig `yaml:"physics"`
	AI      AIConfig      `yaml:"ai"`
	Effects EffectsConfig `yaml:"effects"`
	Rules   RulesConfig   `yaml:"rules"`
	Net     NetConfig     `yaml:"net"`
}

// FieldConfig defines the logical play field. Physics run in field units;
// the TUI maps field units to terminal cells.
type FieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Border float64 `yaml:"border"` // Wall thickness paddles may not enter
}

// PhysicsConfig defines ball and paddle motion parameters.
type PhysicsConfig struct {
	BallSize       float64 `yaml:"ball_size"`        // Ball edge length (square ball)
	BallSpeed      float64 `yaml:"ball_speed"`       // Serve speed, units/second
	BallMaxSpeed   float64 `yaml:"ball_max_speed"`   // Hard cap after paddle hits
	SpeedGrowth    float64 `yaml:"speed_growth"`     // Multiplier applied per paddle hit
	SpinTransfer   float64 `yaml:"spin_transfer"`    // Fraction of paddle velocity added to ball
	PaddleLength   float64 `yaml:"paddle_length"`    // Along the wall
	PaddleThick    float64 `yaml:"paddle_thickness"` // Into the field
	PaddleOffset   float64 `yaml:"paddle_offset"`    // Distance from wall
	PaddleSpeed    float64 `yaml:"paddle_speed"`     // Player paddle speed, units/second
	SweptSpeedMin  float64 `yaml:"swept_speed_min"`  // Ball speed above which swept checks run
	ServeAngleSpan float64 `yaml:"serve_angle_span"` // Random serve angle spread, radians
}

// AIConfig defines the CPU paddle heuristic. The contract is qualitative:
// an on-target ball should rarely be missed. Exact numbers are tuned, not
// derived.
type AIConfig struct {
	ReactionTicks     int     `yaml:"reaction_ticks"`      // Retarget every N ticks
	TargetNoise       float64 `yaml:"target_noise"`        // Max random offset added to target
	Accel             float64 `yaml:"accel"`               // Base acceleration, units/second^2
	Friction          float64 `yaml:"friction"`            // Per-tick velocity retention (0..1)
	MaxSpeed          float64 `yaml:"max_speed"`           // CPU paddle speed cap
	PanicMissMargin   float64 `yaml:"panic_miss_margin"`   // Projected miss distance that can trigger panic
	PanicChance       float64 `yaml:"panic_chance"`        // Probability per retarget while inbound
	PanicAccelScale   float64 `yaml:"panic_accel_scale"`   // Acceleration multiplier during panic
	PanicTicks        int     `yaml:"panic_ticks"`         // Burst duration
	EmergencyMargin   float64 `yaml:"emergency_margin"`    // Miss distance below which emergency may fire
	EmergencyChance   float64 `yaml:"emergency_chance"`    // Probability per retarget
	EmergencyDistance float64 `yaml:"emergency_distance"`  // Ball distance from wall that arms emergency
	ProjectionHorizon float64 `yaml:"projection_horizon"`  // Seconds of ball travel to project
	SkillRampInterval int     `yaml:"skill_ramp_interval"` // Ticks between skill increases (0 = off)
	SkillRampStep     float64 `yaml:"skill_ramp_step"`     // Accel gain per ramp step
}

// EffectsConfig defines timed gameplay modifiers and coin pickups.
type EffectsConfig struct {
	DurationSpeedUp  Duration `yaml:"duration_speed_up"`
	DurationSlowDown Duration `yaml:"duration_slow_down"`
	DurationFreeze   Duration `yaml:"duration_freeze"`
	DurationReverse  Duration `yaml:"duration_reverse"`
	DurationGrow     Duration `yaml:"duration_grow"`
	DurationShrink   Duration `yaml:"duration_shrink"`

	SpeedUpFactor   float64 `yaml:"speed_up_factor"`
	SlowDownFactor  float64 `yaml:"slow_down_factor"`
	GrowFactor      float64 `yaml:"grow_factor"`
	ShrinkFactor    float64 `yaml:"shrink_factor"`
	MinPaddleLength float64 `yaml:"min_paddle_length"`
	MaxPaddleLength float64 `yaml:"max_paddle_length"`

	CoinInterval Duration `yaml:"coin_interval"` // Time between coin spawns (local mode)
	CoinSize     float64  `yaml:"coin_size"`
	MaxCoins     int      `yaml:"max_coins"`
}

// RulesConfig defines match rules.
type RulesConfig struct {
	WinScore        int      `yaml:"win_score"`
	PauseAfterScore Duration `yaml:"pause_after_score"`
}

// NetConfig defines connection manager timing. Stage notices keep the user
// informed while a cold remote endpoint spins up.
type NetConfig struct {
	HandshakeTimeoutLocal  Duration   `yaml:"handshake_timeout_local"`
	HandshakeTimeoutRemote Duration   `yaml:"handshake_timeout_remote"`
	WarmupNotices          []Duration `yaml:"warmup_notices"`
	HeartbeatWindow        Duration   `yaml:"heartbeat_window"`
	BackoffBase            Duration   `yaml:"backoff_base"`
	BackoffMax             Duration   `yaml:"backoff_max"`
	BackoffJitter          float64    `yaml:"backoff_jitter"` // Fraction of delay randomized
	MaxRetries             int        `yaml:"max_retries"`
	WriteTimeout           Duration   `yaml:"write_timeout"`
}
