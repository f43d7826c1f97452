package game

import (
	"time"

	"github.com/vovakirdan/quadpong/internal/config"
)

// Match is the scoring and match state machine. All score mutation in the
// local simulation goes through it; the server owns scoring in networked
// play.
type Match struct {
	cfg config.RulesConfig

	phase       Phase
	scores      map[Side]int
	winner      Side
	pausedUntil time.Time
	conceded    Side // Side whose boundary was crossed last, for serve bias

	// Ball touch attribution for the award rule
	lastToucher Side
	prevToucher Side
}

// Award describes the outcome of a boundary crossing.
type Award struct {
	Scorer   Side
	Boundary Side
	SelfGoal bool
	Score    int
	GameOver bool
}

// NewMatch creates a match in the rallying phase with zero scores.
func NewMatch(cfg config.RulesConfig) *Match {
	m := &Match{cfg: cfg}
	m.Reset()
	return m
}

// Reset reinitializes scores, phase, and touch attribution.
func (m *Match) Reset() {
	m.phase = PhaseRallying
	m.scores = make(map[Side]int, 4)
	for _, s := range Sides() {
		m.scores[s] = 0
	}
	m.winner = SideNone
	m.conceded = SideNone
	m.lastToucher = SideNone
	m.prevToucher = SideNone
}

// Touch records that a paddle legitimately touched the ball. The previous
// toucher is kept for the self-goal rule. Repeated touches by the same side
// do not overwrite the previous toucher.
func (m *Match) Touch(side Side) {
	if side == SideNone || side == m.lastToucher {
		return
	}
	m.prevToucher = m.lastToucher
	m.lastToucher = side
}

// LastToucher returns the side that touched the ball most recently.
func (m *Match) LastToucher() Side {
	return m.lastToucher
}

// BoundaryCrossed awards a point for the ball leaving the field across the
// given side's wall and moves the match to paused-after-score (or
// game-over). The point goes to the last toucher; if the last toucher
// conceded its own boundary, to the toucher before that; with no usable
// attribution the side opposite the boundary scores. Returns false when the
// match already ended: a terminal match accepts no further increments.
func (m *Match) BoundaryCrossed(boundary Side, now time.Time) (Award, bool) {
	if m.phase == PhaseGameOver || boundary == SideNone {
		return Award{}, false
	}

	scorer := m.lastToucher
	selfGoal := false
	if scorer == boundary {
		selfGoal = true
		scorer = m.prevToucher
	}
	if scorer == SideNone || scorer == boundary {
		scorer = boundary.Opposite()
	}

	m.scores[scorer]++
	m.conceded = boundary
	m.lastToucher = SideNone
	m.prevToucher = SideNone

	award := Award{
		Scorer:   scorer,
		Boundary: boundary,
		SelfGoal: selfGoal,
		Score:    m.scores[scorer],
	}

	if m.scores[scorer] >= m.cfg.WinScore {
		m.phase = PhaseGameOver
		m.winner = scorer
		award.GameOver = true
	} else {
		m.phase = PhasePausedAfterScore
		m.pausedUntil = now.Add(m.cfg.PauseAfterScore.Std())
	}
	return award, true
}

// TryResume transitions paused-after-score back to rallying once the pause
// window has elapsed. Returns true on the transition tick.
func (m *Match) TryResume(now time.Time) bool {
	if m.phase != PhasePausedAfterScore || now.Before(m.pausedUntil) {
		return false
	}
	m.phase = PhaseRallying
	return true
}

// Phase returns the current match phase.
func (m *Match) Phase() Phase {
	return m.phase
}

// Winner returns the winning side, or SideNone while the match runs.
func (m *Match) Winner() Side {
	return m.winner
}

// Conceded returns the side whose boundary was crossed last. The next serve
// is biased away from it.
func (m *Match) Conceded() Side {
	return m.conceded
}

// PausedUntil returns the resume deadline of the current pause window.
func (m *Match) PausedUntil() time.Time {
	return m.pausedUntil
}

// Score returns one side's score.
func (m *Match) Score(side Side) int {
	return m.scores[side]
}

// Scores returns a copy of the score table.
func (m *Match) Scores() map[Side]int {
	out := make(map[Side]int, len(m.scores))
	for s, v := range m.scores {
		out[s] = v
	}
	return out
}
