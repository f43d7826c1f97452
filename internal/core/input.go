package core

// Action represents a semantic game action, abstracted from physical key
// presses. The TUI layer translates keys into actions; the engine and the
// connection manager consume them without knowing the input source.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow - move paddle up (left/right sides)
	ActionDown           // S, Down arrow - move paddle down
	ActionLeft           // A, Left arrow - move paddle left (top/bottom sides)
	ActionRight          // D, Right arrow - move paddle right
	ActionPause          // P - pause/unpause (local mode only)
	ActionRestart        // R - restart after game over
	ActionRetry          // Enter - manual reconnect after exhausted retries
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionRetry:
		return "Retry"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state for one simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Axis collapses the directional actions into a single -1/0/+1 value along
// the movement axis of the given orientation. horizontal=true means the
// paddle slides along X (top/bottom walls).
func (f InputFrame) Axis(horizontal bool) float64 {
	var neg, pos Action
	if horizontal {
		neg, pos = ActionLeft, ActionRight
	} else {
		neg, pos = ActionUp, ActionDown
	}
	axis := 0.0
	if f.Has(neg) {
		axis -= 1
	}
	if f.Has(pos) {
		axis += 1
	}
	return axis
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
