package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDurationUnmarshalYAML(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{`"45s"`, 45 * time.Second},
		{`"2m"`, 2 * time.Minute},
		{`"1.5s"`, 1500 * time.Millisecond},
		{`"250ms"`, 250 * time.Millisecond},
	}
	for _, tc := range cases {
		var d Duration
		if err := yaml.Unmarshal([]byte(tc.in), &d); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if d.Std() != tc.want {
			t.Errorf("unmarshal %s = %v, want %v", tc.in, d.Std(), tc.want)
		}
	}
}

func TestDurationUnmarshalRejectsGarbage(t *testing.T) {
	for _, in := range []string{`"soon"`, `"10 parsecs"`, `""`} {
		var d Duration
		if err := yaml.Unmarshal([]byte(in), &d); err == nil {
			t.Errorf("unmarshal %s: expected error, got %v", in, d.Std())
		}
	}
}

func TestDurationRoundTrip(t *testing.T) {
	orig := Duration(8 * time.Second)
	data, err := yaml.Marshal(orig)
	if err != nil {
		t.Fatal(err)
	}
	var got Duration
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got != orig {
		t.Errorf("round trip: got %v, want %v", got.Std(), orig.Std())
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestEmbeddedYAMLMatchesDefault(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		t.Fatalf("embedded yaml does not parse: %v", err)
	}
	want := Default()
	if cfg.Physics != want.Physics {
		t.Errorf("embedded physics = %+v, want %+v", cfg.Physics, want.Physics)
	}
	if cfg.AI != want.AI {
		t.Errorf("embedded ai = %+v, want %+v", cfg.AI, want.AI)
	}
	if cfg.Rules != want.Rules {
		t.Errorf("embedded rules = %+v, want %+v", cfg.Rules, want.Rules)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	body := `
field:
  width: 80
  height: 60
  border: 1
physics:
  ball_size: 2
  ball_speed: 50
  paddle_length: 12
  paddle_thickness: 2
rules:
  win_score: 5
  pause_after_score: "1s"
ai:
  reaction_ticks: 6
net:
  backoff_jitter: 0.2
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s): %v", path, err)
	}
	if cfg.Field.Width != 80 || cfg.Field.Height != 60 {
		t.Errorf("field = %.0fx%.0f, want 80x60", cfg.Field.Width, cfg.Field.Height)
	}
	if cfg.Rules.WinScore != 5 {
		t.Errorf("win_score = %d, want 5", cfg.Rules.WinScore)
	}
	if cfg.Rules.PauseAfterScore.Std() != time.Second {
		t.Errorf("pause_after_score = %v, want 1s", cfg.Rules.PauseAfterScore.Std())
	}
}

func TestLoadMissingCustomPathFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load with missing explicit path should fail")
	}
}

func TestLoadInvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	body := `
field:
  width: -5
  height: 100
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("negative field width should fail validation")
	}
	if !strings.Contains(err.Error(), "field dimensions") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadJitter(t *testing.T) {
	cfg := Default()
	cfg.Net.BackoffJitter = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("jitter above 1 should fail validation")
	}
}

func TestApplyDifficulty(t *testing.T) {
	base := Default()

	easy := Default()
	if err := easy.ApplyDifficulty("easy"); err != nil {
		t.Fatal(err)
	}
	if easy.AI.ReactionTicks <= base.AI.ReactionTicks {
		t.Error("easy should react slower than normal")
	}
	if easy.AI.Accel >= base.AI.Accel {
		t.Error("easy should accelerate slower than normal")
	}
	if easy.AI.SkillRampInterval != 0 {
		t.Error("easy should disable the skill ramp")
	}

	hard := Default()
	if err := hard.ApplyDifficulty("hard"); err != nil {
		t.Fatal(err)
	}
	if hard.AI.ReactionTicks >= base.AI.ReactionTicks {
		t.Error("hard should react faster than normal")
	}
	if hard.AI.TargetNoise >= base.AI.TargetNoise {
		t.Error("hard should aim more precisely than normal")
	}

	normal := Default()
	if err := normal.ApplyDifficulty("normal"); err != nil {
		t.Fatal(err)
	}
	if normal.AI != base.AI {
		t.Error("normal preset must not mutate the base tuning")
	}
	if err := normal.ApplyDifficulty(""); err != nil {
		t.Errorf("empty preset should be a no-op, got %v", err)
	}

	unknown := Default()
	if err := unknown.ApplyDifficulty("nightmare"); err == nil {
		t.Error("unknown preset should error")
	}
}
