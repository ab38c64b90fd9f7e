package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/shapesynth/internal/session"
)

// FrameMsg is sent to advance UI-only animation such as the selection blink.
type FrameMsg time.Time

// frameCmd returns a Bubble Tea command that sends a frame message after interval.
func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// SessionEventMsg wraps an event published by the game session.
type SessionEventMsg struct {
	Event session.Event
}

// sessionClosedMsg is sent when the subscription channel has been closed.
type sessionClosedMsg struct{}

// waitForEvent blocks on the subscription and delivers the next event.
// The model re-issues it after every SessionEventMsg.
func waitForEvent(sub *session.Subscription) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-sub.Events()
		if !ok {
			return sessionClosedMsg{}
		}
		return SessionEventMsg{Event: evt}
	}
}
