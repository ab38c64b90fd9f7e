package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette colors shared by the HUD and the playfield.
const (
	colorInfo    = "#3B82F6"
	colorPrimary = "#8B5CF6"
	colorSuccess = "#10B981"
	colorWarning = "#F59E0B"
	colorError   = "#EF4444"
	colorMuted   = "#6B7280"
	colorTarget  = "#94A3B8"
	colorFrame   = "#374151"
)

// Theme contains the visual styles of the ShapeSynth screens.
type Theme struct {
	// HUD styles
	HUDTitle     lipgloss.Style
	HUDLabel     lipgloss.Style
	HUDValue     lipgloss.Style
	HUDSeparator lipgloss.Style
	HUDControls  lipgloss.Style

	// Overlay styles
	OverlayTitle lipgloss.Style
	OverlayText  lipgloss.Style
	Message      lipgloss.Style

	// Level picker styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		HUDTitle:     lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary)).Bold(true),
		HUDLabel:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		HUDValue:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
		HUDSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HUDControls:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		OverlayTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		OverlayText:  lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Message:      lipgloss.NewStyle().Foreground(lipgloss.Color(colorWarning)).Italic(true),

		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary)).Bold(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// TimerColor returns the time bar color: calm above half the limit, a
// warning above a quarter, an error below.
func TimerColor(remaining, limit int) string {
	if limit <= 0 {
		return colorInfo
	}
	pct := float64(remaining) / float64(limit) * 100
	switch {
	case pct > 50:
		return colorInfo
	case pct > 25:
		return colorWarning
	default:
		return colorError
	}
}

// MatchColor returns the match percentage color relative to the level's
// required accuracy.
func MatchColor(match, required float64) string {
	switch {
	case match >= required:
		return colorSuccess
	case match >= 50:
		return colorWarning
	default:
		return colorError
	}
}

// DifficultyColor returns the label color of a difficulty name.
func DifficultyColor(d string) string {
	switch d {
	case "easy":
		return colorSuccess
	case "medium":
		return colorInfo
	case "hard":
		return colorWarning
	case "expert":
		return colorError
	}
	return colorMuted
}
