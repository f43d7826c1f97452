package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/quadpong/internal/config"
	"github.com/vovakirdan/quadpong/internal/core"
	"github.com/vovakirdan/quadpong/internal/game"
	"github.com/vovakirdan/quadpong/internal/netplay"
)

// clientEventMsg wraps a connection manager event for Bubble Tea.
type clientEventMsg struct {
	evt netplay.ClientEvent
}

// OnlineModel is the Bubble Tea model for an online match. The server is
// authoritative; this model forwards local paddle input, renders the
// synchronizer's latest merged snapshot, and surfaces connection state.
type OnlineModel struct {
	client *netplay.Client
	sync   *netplay.Synchronizer
	phys   *game.Physics
	cfg    config.Config
	rt     core.RuntimeConfig
	board  *Board
	keys   *KeyMapper
	frame  core.InputFrame
	spin   spinner.Model

	connState netplay.ConnState
	connErr   string
	notice    string
	status    string
	lastStep  time.Time
	prevPos   float64
	prevVel   float64
	quitting  bool
}

// NewOnlineModel creates an online match model. The client must not be
// connected yet; Init starts the handshake.
func NewOnlineModel(cfg config.Config, rt core.RuntimeConfig, client *netplay.Client, syn *netplay.Synchronizer) OnlineModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	phys := game.NewPhysics(cfg.Physics, cfg.Field)
	return OnlineModel{
		client:    client,
		sync:      syn,
		phys:      phys,
		cfg:       cfg,
		rt:        rt,
		board:     NewBoard(cfg.Field, phys, rt.ScreenW, rt.ScreenH-boardMargin),
		keys:      NewKeyMapper(),
		frame:     core.NewInputFrame(),
		spin:      sp,
		connState: netplay.StateIdle,
	}
}

// Init starts the connection and the tick loop.
func (m OnlineModel) Init() tea.Cmd {
	m.client.Connect()
	return tea.Batch(tickCmd(m.rt.TickRate), m.waitForEvent(), m.spin.Tick)
}

// waitForEvent returns a command that blocks on the next client event.
func (m OnlineModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-m.client.Events()
		if !ok {
			return nil
		}
		return clientEventMsg{evt: evt}
	}
}

// Update handles messages.
func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.rt.ScreenW = msg.Width
		m.rt.ScreenH = msg.Height
		m.board.Resize(msg.Width, msg.Height-boardMargin)
		return m, nil

	case clientEventMsg:
		m.handleClientEvent(msg.evt)
		return m, m.waitForEvent()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		m.client.Close()
		return m, tea.Quit
	}
	// Manual retry is the only way out of the exhausted-retries state.
	if action == core.ActionRetry && m.connState == netplay.StateError {
		m.client.Connect()
		return m, nil
	}
	if action != core.ActionNone {
		m.frame.Set(action)
	}
	return m, nil
}

func (m *OnlineModel) handleClientEvent(evt netplay.ClientEvent) {
	switch e := evt.(type) {
	case netplay.StateEvent:
		m.connState = e.State
		m.connErr = e.Err
		if e.State == netplay.StateConnected {
			m.notice = ""
		}
	case netplay.NoticeEvent:
		m.notice = e.Message
	case netplay.JoinedEvent:
		if e.Side == game.SideNone {
			m.status = fmt.Sprintf("spectating, %d players in room", e.Peers)
		} else {
			m.status = fmt.Sprintf("you play %s, %d players in room", e.Side, e.Peers)
		}
	case netplay.PeerJoinedEvent:
		m.status = fmt.Sprintf("%s joined, %d players in room", e.Side, e.Peers)
	case netplay.PeerLeftEvent:
		m.status = fmt.Sprintf("%s left, %d players in room", e.Side, e.Peers)
	case netplay.SideSwitchedEvent:
		m.status = fmt.Sprintf("you now play %s", e.Side)
	case netplay.ResetEvent:
		m.status = "match reset"
	}
}

func (m OnlineModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := m.stepDelta(now)
	if m.connState == netplay.StateConnected {
		m.driveOwnPaddle(dt)
		m.sync.Extrapolate(now)
	}
	m.frame.Clear()
	return m, tickCmd(m.rt.TickRate)
}

func (m *OnlineModel) stepDelta(now time.Time) float64 {
	nominal := 1.0 / float64(m.rt.TickRate)
	if m.lastStep.IsZero() {
		m.lastStep = now
		return nominal
	}
	dt := now.Sub(m.lastStep).Seconds()
	m.lastStep = now
	if dt <= 0 || dt > 3*nominal {
		return nominal
	}
	return dt
}

// driveOwnPaddle applies local input to the player's paddle without waiting
// for the server, then publishes the new state. Reverse and freeze effects
// still bind the local paddle; only position authority is local.
func (m *OnlineModel) driveOwnPaddle(dt float64) {
	side := m.client.Session().Side()
	if side == game.SideNone {
		return // Spectator
	}
	snap := m.sync.Latest()
	if snap == nil || snap.Ended {
		return
	}
	pd, ok := snap.Paddles[side]
	if !ok {
		return
	}

	axis := m.frame.Axis(side.Horizontal())
	if pd.Reversed {
		axis = -axis
	}
	if pd.Frozen {
		axis = 0
	}
	vel := axis * m.cfg.Physics.PaddleSpeed
	if vel == 0 && m.prevVel == 0 {
		return // Nothing changed, nothing to send
	}

	pd.Pos += vel * dt
	pd.Vel = vel
	pd.Target = pd.Pos
	m.phys.ClampPaddle(&pd)

	if pd.Pos == m.prevPos && vel == m.prevVel {
		return
	}
	m.prevPos = pd.Pos
	m.prevVel = vel
	m.sync.SetOwnPaddle(pd)
	m.client.SendInput(pd.Pos, pd.Vel, pd.Target)
}

// View renders the connection flow or the live board.
func (m OnlineModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.connState {
	case netplay.StateConnected:
		return m.viewMatch()
	case netplay.StateError:
		return m.viewError()
	default:
		return m.viewConnecting()
	}
}

func (m OnlineModel) viewConnecting() string {
	label := "connecting"
	switch m.connState {
	case netplay.StateWarming:
		label = "waking server"
	case netplay.StateServerStarting:
		label = "server starting"
	case netplay.StateRetrying:
		label = "reconnecting"
	}
	var sb strings.Builder
	sb.WriteString("\n  " + m.spin.View() + headerStyle.Render(label+"...") + "\n")
	if m.notice != "" {
		sb.WriteString("\n  " + dimStyle.Render(m.notice) + "\n")
	}
	sb.WriteString("\n  " + dimStyle.Render("q: cancel") + "\n")
	return sb.String()
}

func (m OnlineModel) viewError() string {
	var sb strings.Builder
	sb.WriteString("\n  " + errStyle.Render("connection failed") + "\n")
	if m.connErr != "" {
		sb.WriteString("\n  " + dimStyle.Render(m.connErr) + "\n")
	}
	sb.WriteString("\n  " + dimStyle.Render("enter: retry  q: quit") + "\n")
	return sb.String()
}

func (m OnlineModel) viewMatch() string {
	snap := m.sync.Latest()
	if snap == nil {
		return "\n  " + m.spin.View() + headerStyle.Render("waiting for state...") + "\n"
	}

	var sb strings.Builder
	sb.WriteString(RenderScoreLine(snap, m.client.Session().Side()))
	sb.WriteRune('\n')
	if line := RenderEffectLine(snap, time.Now()); line != "" {
		sb.WriteString(line)
	}
	sb.WriteRune('\n')
	sb.WriteString(m.board.Render(snap))
	sb.WriteRune('\n')
	sb.WriteString(m.onlineFooter(snap))
	return sb.String()
}

func (m OnlineModel) onlineFooter(snap *game.Snapshot) string {
	if snap.Ended {
		return winStyle.Render(fmt.Sprintf("%s wins!", snap.Winner)) +
			dimStyle.Render("  waiting for server reset  ·  q: quit")
	}
	hint := dimStyle.Render("wasd/arrows: move  q: quit")
	if m.status != "" {
		return m.status + dimStyle.Render("  ·  ") + hint
	}
	return hint
}

// RunOnline connects to a server and plays an online match in the terminal.
func RunOnline(cfg config.Config, rt core.RuntimeConfig, client *netplay.Client, syn *netplay.Synchronizer) error {
	p := tea.NewProgram(
		NewOnlineModel(cfg, rt, client, syn),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
