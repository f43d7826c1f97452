package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the client configuration.
// Search order: customPath -> ~/.quadpong/configs/quadpong.yaml ->
// ./configs/quadpong.yaml -> embedded default.
func Load(customPath string) (Config, error) {
	var cfg Config

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userPath := userConfigPath("quadpong.yaml"); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, cfg.Validate()
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/quadpong.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, cfg.Validate()
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, cfg.Validate()
}

// userConfigPath returns the path to a config file in the user's config
// directory, or empty string if the home directory cannot be determined.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".quadpong", "configs", filename)
}

// Validate checks configuration for values the simulation cannot run with.
func (c Config) Validate() error {
	if c.Field.Width <= 0 || c.Field.Height <= 0 {
		return fmt.Errorf("config: field dimensions must be positive, got %.1fx%.1f", c.Field.Width, c.Field.Height)
	}
	if c.Physics.PaddleLength <= 0 || c.Physics.PaddleThick <= 0 {
		return fmt.Errorf("config: paddle dimensions must be positive")
	}
	if c.Physics.BallSpeed <= 0 {
		return fmt.Errorf("config: ball_speed must be positive")
	}
	if c.Rules.WinScore <= 0 {
		return fmt.Errorf("config: win_score must be positive")
	}
	if c.AI.ReactionTicks <= 0 {
		return fmt.Errorf("config: ai reaction_ticks must be positive")
	}
	if c.Net.BackoffJitter < 0 || c.Net.BackoffJitter > 1 {
		return fmt.Errorf("config: backoff_jitter must be in [0,1], got %.2f", c.Net.BackoffJitter)
	}
	return nil
}
