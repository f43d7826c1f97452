package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// roomPromptModel asks for a room code before joining an online match.
type roomPromptModel struct {
	input     textinput.Model
	submitted bool
	cancelled bool
}

func newRoomPromptModel() roomPromptModel {
	ti := textinput.New()
	ti.Placeholder = "room code"
	ti.CharLimit = 32
	ti.Width = 24
	ti.Focus()
	return roomPromptModel{input: ti}
}

func (m roomPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m roomPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			if strings.TrimSpace(m.input.Value()) != "" {
				m.submitted = true
				return m, tea.Quit
			}
			return m, nil
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m roomPromptModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}
	return "\n  " + headerStyle.Render("join a room") + "\n\n  " +
		m.input.View() + "\n\n  " +
		dimStyle.Render("enter: join  esc: cancel") + "\n"
}

// RunRoomPrompt asks the user for a room code. Returns an empty string if
// the prompt was cancelled.
func RunRoomPrompt() (string, error) {
	p := tea.NewProgram(newRoomPromptModel())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(roomPromptModel)
	if !ok || m.cancelled {
		return "", nil
	}
	return strings.TrimSpace(m.input.Value()), nil
}
