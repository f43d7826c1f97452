package config

import "fmt"

// ApplyDifficulty adjusts the AI tuning for a named preset. The base config
// corresponds to "normal".
func (c *Config) ApplyDifficulty(preset string) error {
	switch preset {
	case "", "normal":
		return nil
	case "easy":
		c.AI.ReactionTicks += 5
		c.AI.TargetNoise *= 1.8
		c.AI.Accel *= 0.7
		c.AI.PanicChance *= 0.5
		c.AI.EmergencyChance = 0
		c.AI.SkillRampInterval = 0
	case "hard":
		c.AI.ReactionTicks = max(2, c.AI.ReactionTicks-4)
		c.AI.TargetNoise *= 0.5
		c.AI.Accel *= 1.3
		c.AI.PanicChance *= 1.5
		c.AI.EmergencyChance *= 2
	default:
		return fmt.Errorf("config: unknown difficulty preset %q", preset)
	}
	return nil
}
