package game

import (
	"testing"
	"time"

	"github.com/vovakirdan/quadpong/internal/config"
)

func testRules() config.RulesConfig {
	return config.RulesConfig{
		WinScore:        3,
		PauseAfterScore: config.Duration(2 * time.Second),
	}
}

func TestBoundaryAttribution(t *testing.T) {
	cases := []struct {
		name     string
		touches  []Side
		boundary Side
		scorer   Side
		selfGoal bool
	}{
		{
			name:     "last toucher scores",
			touches:  []Side{SideTop, SideLeft},
			boundary: SideRight,
			scorer:   SideLeft,
		},
		{
			name:     "untouched rally goes to opposite side",
			touches:  nil,
			boundary: SideLeft,
			scorer:   SideRight,
		},
		{
			name:     "self goal falls back to previous toucher",
			touches:  []Side{SideTop, SideLeft},
			boundary: SideLeft,
			scorer:   SideTop,
			selfGoal: true,
		},
		{
			name:     "self goal with no previous toucher goes to opposite",
			touches:  []Side{SideBottom},
			boundary: SideBottom,
			scorer:   SideTop,
			selfGoal: true,
		},
		{
			name:     "repeat touches do not overwrite previous toucher",
			touches:  []Side{SideTop, SideLeft, SideLeft},
			boundary: SideLeft,
			scorer:   SideTop,
			selfGoal: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMatch(testRules())
			for _, s := range tc.touches {
				m.Touch(s)
			}
			award, ok := m.BoundaryCrossed(tc.boundary, time.Now())
			if !ok {
				t.Fatal("BoundaryCrossed() returned false for a live match")
			}
			if award.Scorer != tc.scorer {
				t.Errorf("Scorer = %s, want %s", award.Scorer, tc.scorer)
			}
			if award.SelfGoal != tc.selfGoal {
				t.Errorf("SelfGoal = %v, want %v", award.SelfGoal, tc.selfGoal)
			}
			if m.Score(tc.scorer) != 1 {
				t.Errorf("Score(%s) = %d, want 1", tc.scorer, m.Score(tc.scorer))
			}
			if m.Conceded() != tc.boundary {
				t.Errorf("Conceded() = %s, want %s", m.Conceded(), tc.boundary)
			}
		})
	}
}

func TestTouchAttributionResetsAfterPoint(t *testing.T) {
	m := NewMatch(testRules())
	now := time.Now()

	m.Touch(SideLeft)
	m.BoundaryCrossed(SideRight, now)

	// Attribution from the previous rally must not leak into the next one.
	award, _ := m.BoundaryCrossed(SideTop, now)
	if award.Scorer != SideBottom {
		t.Errorf("Scorer = %s, want %s (stale attribution leaked)", award.Scorer, SideBottom)
	}
}

func TestPauseAfterScoreWindow(t *testing.T) {
	m := NewMatch(testRules())
	now := time.Now()

	m.BoundaryCrossed(SideLeft, now)
	if m.Phase() != PhasePausedAfterScore {
		t.Fatalf("Phase = %s, want %s", m.Phase(), PhasePausedAfterScore)
	}

	if m.TryResume(now.Add(1999 * time.Millisecond)) {
		t.Error("TryResume() resumed before the pause window elapsed")
	}
	if !m.TryResume(now.Add(2 * time.Second)) {
		t.Error("TryResume() did not resume at the pause deadline")
	}
	if m.Phase() != PhaseRallying {
		t.Errorf("Phase = %s after resume, want %s", m.Phase(), PhaseRallying)
	}

	// The transition fires exactly once.
	if m.TryResume(now.Add(3 * time.Second)) {
		t.Error("TryResume() fired twice for one pause")
	}
}

func TestGameOverIsTerminal(t *testing.T) {
	m := NewMatch(testRules())
	now := time.Now()

	for i := 0; i < 3; i++ {
		m.Touch(SideLeft)
		award, ok := m.BoundaryCrossed(SideRight, now)
		if !ok {
			t.Fatalf("point %d rejected", i+1)
		}
		if i < 2 && award.GameOver {
			t.Fatalf("GameOver at score %d, win score is 3", award.Score)
		}
		m.TryResume(now.Add(3 * time.Second))
	}

	if m.Phase() != PhaseGameOver {
		t.Fatalf("Phase = %s, want %s", m.Phase(), PhaseGameOver)
	}
	if m.Winner() != SideLeft {
		t.Errorf("Winner = %s, want %s", m.Winner(), SideLeft)
	}

	// No further increments once terminal.
	if _, ok := m.BoundaryCrossed(SideTop, now); ok {
		t.Error("BoundaryCrossed() accepted a point after game over")
	}
	if m.Score(SideLeft) != 3 {
		t.Errorf("Score = %d after terminal crossing, want 3", m.Score(SideLeft))
	}

	// Only an explicit reset leaves game over.
	if m.TryResume(now.Add(time.Hour)) {
		t.Error("TryResume() left game over without a reset")
	}
	m.Reset()
	if m.Phase() != PhaseRallying || m.Score(SideLeft) != 0 {
		t.Error("Reset() did not return to a fresh rallying state")
	}
}
