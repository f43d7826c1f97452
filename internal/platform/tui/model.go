package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/quadpong/internal/config"
	"github.com/vovakirdan/quadpong/internal/core"
	"github.com/vovakirdan/quadpong/internal/game"
	"github.com/vovakirdan/quadpong/internal/storage"
)

// boardMargin reserves terminal rows for the header and footer.
const boardMargin = 4

// Model is the Bubble Tea model for a local practice match: the player
// drives one paddle, the CPU drives the other three.
type Model struct {
	engine     *game.Engine
	store      *storage.Store
	cfg        config.Config
	rt         core.RuntimeConfig
	board      *Board
	keys       *KeyMapper
	frame      core.InputFrame
	difficulty string

	status      string
	quitting    bool
	resultSaved bool
	lastStep    time.Time
	startedAt   time.Time
}

// NewModel creates a practice match model. store may be nil; results are
// then not persisted.
func NewModel(cfg config.Config, rt core.RuntimeConfig, store *storage.Store, difficulty string, side game.Side) Model {
	engine := game.NewEngine(cfg, rt, side)
	return Model{
		engine:     engine,
		store:      store,
		cfg:        cfg,
		rt:         rt,
		board:      NewBoard(cfg.Field, game.NewPhysics(cfg.Physics, cfg.Field), rt.ScreenW, rt.ScreenH-boardMargin),
		keys:       NewKeyMapper(),
		frame:      core.NewInputFrame(),
		difficulty: difficulty,
		startedAt:  time.Now(),
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.lastStep = time.Now()
	return tickCmd(m.rt.TickRate)
}

// Update handles messages and advances the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.keys.MapKeyToFrame(msg, &m.frame) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.rt.ScreenW = msg.Width
		m.rt.ScreenH = msg.Height
		m.board.Resize(msg.Width, msg.Height-boardMargin)
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := m.stepDelta(now)
	m.engine.Step(dt, m.frame)
	m.drainEvents()
	m.saveResultOnce()
	m.frame.Clear()
	return m, tickCmd(m.rt.TickRate)
}

// stepDelta measures the real frame time and clamps it, so a stalled
// terminal never produces one huge physics step.
func (m *Model) stepDelta(now time.Time) float64 {
	nominal := 1.0 / float64(m.rt.TickRate)
	if m.lastStep.IsZero() {
		m.lastStep = now
		return nominal
	}
	dt := now.Sub(m.lastStep).Seconds()
	m.lastStep = now
	if dt <= 0 {
		return nominal
	}
	if dt > 3*nominal {
		dt = 3 * nominal
	}
	return dt
}

// drainEvents consumes pending gameplay events into the status line.
func (m *Model) drainEvents() {
	for {
		select {
		case evt := <-m.engine.Events():
			m.status = describeEvent(evt)
		default:
			return
		}
	}
}

func describeEvent(evt game.Event) string {
	switch e := evt.(type) {
	case game.ScoreEvent:
		if e.SelfGoal {
			return fmt.Sprintf("%s concedes an own goal, point to %s", e.Boundary, e.Scorer)
		}
		return fmt.Sprintf("point to %s", e.Scorer)
	case game.EffectStartEvent:
		if e.Refreshed {
			return fmt.Sprintf("%s refreshed by %s", e.Effect.Type, e.Effect.Activator)
		}
		return fmt.Sprintf("%s activated by %s", e.Effect.Type, e.Effect.Activator)
	case game.EffectEndEvent:
		if e.Forced {
			return fmt.Sprintf("%s cleared", e.Effect.Type)
		}
		return fmt.Sprintf("%s expired", e.Effect.Type)
	case game.PhaseEvent:
		if e.Phase == game.PhaseGameOver {
			return fmt.Sprintf("game over, %s wins! press r to play again", e.Winner)
		}
		return ""
	default:
		return ""
	}
}

// saveResultOnce persists the practice outcome the first tick after
// game over. Best effort; a storage failure never interrupts play.
func (m *Model) saveResultOnce() {
	snap := m.engine.Snapshot()
	if !snap.Ended {
		m.resultSaved = false
		return
	}
	if m.resultSaved || m.store == nil || m.engine.LocalSide() == game.SideNone {
		return
	}
	side := m.engine.LocalSide()
	//nolint:errcheck // Best-effort save, game continues regardless
	m.store.SaveResult(storage.PracticeResult{
		Difficulty:   m.difficulty,
		Side:         side.String(),
		Score:        snap.Scores[side],
		Won:          snap.Winner == side,
		DurationSecs: int(time.Since(m.startedAt).Seconds()),
	})
	m.resultSaved = true
}

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snap := m.engine.Snapshot()

	var sb strings.Builder
	sb.WriteString(RenderScoreLine(snap, m.engine.LocalSide()))
	sb.WriteRune('\n')
	if line := RenderEffectLine(snap, m.engine.Now()); line != "" {
		sb.WriteString(line)
	}
	sb.WriteRune('\n')
	sb.WriteString(m.board.Render(snap))
	sb.WriteRune('\n')
	sb.WriteString(m.footer(snap))
	return sb.String()
}

func (m Model) footer(snap *game.Snapshot) string {
	switch {
	case snap.Ended:
		return winStyle.Render(fmt.Sprintf("%s wins %d points!", snap.Winner, snap.Scores[snap.Winner])) +
			dimStyle.Render("  r: rematch  q: quit")
	case m.engine.Paused():
		return headerStyle.Render("paused") + dimStyle.Render("  p: resume  q: quit")
	case m.status != "":
		return m.status + dimStyle.Render("  ·  wasd/arrows: move  p: pause  q: quit")
	default:
		return dimStyle.Render("wasd/arrows: move  p: pause  q: quit")
	}
}

// Run starts a local practice match in the terminal.
func Run(cfg config.Config, rt core.RuntimeConfig, store *storage.Store, difficulty string, side game.Side) error {
	p := tea.NewProgram(
		NewModel(cfg, rt, store, difficulty, side),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
