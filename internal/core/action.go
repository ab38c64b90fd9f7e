package core

// Action represents a semantic game command, abstracted from physical key presses
// and mouse events. The presentation layer maps input to actions and the
// actions to session commands.
type Action int

const (
	ActionNone      Action = iota
	ActionStart            // Space/Enter - start the level
	ActionNextShape        // Tab - select the next shape
	ActionPrevShape        // Shift+Tab - select the previous shape
	ActionMoveUp           // Arrow keys - nudge the selected shape
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionRotate    // R - rotate selected shape by one step
	ActionScaleUp   // + - grow selected shape
	ActionScaleDown // - - shrink selected shape
	ActionHint      // H - show optimal placement for the selected shape
	ActionRestart   // Ctrl+R - restart the level
	ActionAdvance   // N - advance after success
	ActionBack      // B, Escape - back to the level picker
	ActionQuit      // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionStart:
		return "Start"
	case ActionNextShape:
		return "NextShape"
	case ActionPrevShape:
		return "PrevShape"
	case ActionMoveUp:
		return "MoveUp"
	case ActionMoveDown:
		return "MoveDown"
	case ActionMoveLeft:
		return "MoveLeft"
	case ActionMoveRight:
		return "MoveRight"
	case ActionRotate:
		return "Rotate"
	case ActionScaleUp:
		return "ScaleUp"
	case ActionScaleDown:
		return "ScaleDown"
	case ActionHint:
		return "Hint"
	case ActionRestart:
		return "Restart"
	case ActionAdvance:
		return "Advance"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// MoveDelta returns the unit direction of a move action, or ok=false for
// actions that do not move a shape.
func (a Action) MoveDelta() (dx, dy float64, ok bool) {
	switch a {
	case ActionMoveUp:
		return 0, -1, true
	case ActionMoveDown:
		return 0, 1, true
	case ActionMoveLeft:
		return -1, 0, true
	case ActionMoveRight:
		return 1, 0, true
	}
	return 0, 0, false
}
