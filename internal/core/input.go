package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone       Action = iota
	ActionUp                // Up arrow, W, K - slide tiles up
	ActionDown              // Down arrow, S, J - slide tiles down
	ActionLeft              // Left arrow, A, H - slide tiles left
	ActionRight             // Right arrow, D, L - slide tiles right
	ActionNewGame           // N - abandon the current game and start over
	ActionRestart           // R - restart after game over
	ActionPause             // P - pause/unpause
	ActionConfirm           // Enter - confirm selection in menu
	ActionBack              // B, Escape - go back
	ActionScoreboard        // Tab - open the scoreboard
	ActionQuit              // Q, Ctrl+C - exit game/session
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
	case ActionNewGame:
		return "NewGame"
	case ActionRestart:
		return "Restart"
	case ActionPause:
		return "Pause"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionScoreboard:
		return "Scoreboard"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsDirection reports whether the action is one of the four slide directions.
func (a Action) IsDirection() bool {
	return a >= ActionUp && a <= ActionRight
}

// InputFrame represents the input state for one simulation tick.
type InputFrame struct {
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

// Direction returns the first direction action in the frame, checked in
// Up, Down, Left, Right order. Only one direction is honoured per frame.
func (f InputFrame) Direction() (Action, bool) {
	for _, a := range []Action{ActionUp, ActionDown, ActionLeft, ActionRight} {
		if f.Has(a) {
			return a, true
		}
	}
	return ActionNone, false
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
