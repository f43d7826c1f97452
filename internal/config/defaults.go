package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/quadpong.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It matches
// defaults/quadpong.yaml and serves as the fallback when no config file is
// found or the embedded YAML fails to parse.
func Default() Config {
	return Config{
		Field: FieldConfig{
			Width:  100,
			Height: 100,
			Border: 1,
		},
		Physics: PhysicsConfig{
			BallSize:       2,
			BallSpeed:      42,
			BallMaxSpeed:   120,
			SpeedGrowth:    1.04,
			SpinTransfer:   0.35,
			PaddleLength:   18,
			PaddleThick:    2,
			PaddleOffset:   3,
			PaddleSpeed:    70,
			SweptSpeedMin:  90,
			ServeAngleSpan: 0.7,
		},
		AI: AIConfig{
			ReactionTicks:     9,
			TargetNoise:       4.5,
			Accel:             620,
			Friction:          0.86,
			MaxSpeed:          85,
			PanicMissMargin:   9,
			PanicChance:       0.22,
			PanicAccelScale:   2.4,
			PanicTicks:        18,
			EmergencyMargin:   4,
			EmergencyChance:   0.06,
			EmergencyDistance: 14,
			ProjectionHorizon: 1.2,
			SkillRampInterval: 600,
			SkillRampStep:     40,
		},
		Effects: EffectsConfig{
			DurationSpeedUp:  Duration(8 * time.Second),
			DurationSlowDown: Duration(8 * time.Second),
			DurationFreeze:   Duration(3 * time.Second),
			DurationReverse:  Duration(6 * time.Second),
			DurationGrow:     Duration(12 * time.Second),
			DurationShrink:   Duration(12 * time.Second),
			SpeedUpFactor:    1.5,
			SlowDownFactor:   0.65,
			GrowFactor:       1.5,
			ShrinkFactor:     0.6,
			MinPaddleLength:  8,
			MaxPaddleLength:  32,
			CoinInterval:     Duration(7 * time.Second),
			CoinSize:         2,
			MaxCoins:         3,
		},
		Rules: RulesConfig{
			WinScore:        11,
			PauseAfterScore: Duration(2 * time.Second),
		},
		Net: NetConfig{
			HandshakeTimeoutLocal:  Duration(45 * time.Second),
			HandshakeTimeoutRemote: Duration(90 * time.Second),
			WarmupNotices: []Duration{
				Duration(8 * time.Second),
				Duration(20 * time.Second),
				Duration(35 * time.Second),
				Duration(50 * time.Second),
			},
			HeartbeatWindow: Duration(45 * time.Second),
			BackoffBase:     Duration(time.Second),
			BackoffMax:      Duration(30 * time.Second),
			BackoffJitter:   0.3,
			MaxRetries:      10,
			WriteTimeout:    Duration(5 * time.Second),
		},
	}
}
